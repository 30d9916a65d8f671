package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolAllocBatchAllOrNothing(t *testing.T) {
	p := NewPool[dummyState, int](4)
	handles, ok := p.AllocBatch(3)
	require.True(t, ok)
	require.Len(t, handles, 3)
	require.Equal(t, uint32(3), p.Live())

	_, ok = p.AllocBatch(2)
	require.False(t, ok, "only one slot remains; a 2-slot request must refuse rather than partially allocate")
	require.Equal(t, uint32(3), p.Live())
}

func TestPoolGetDetectsStaleGeneration(t *testing.T) {
	p := NewPool[dummyState, int](2)
	handles, _ := p.AllocBatch(1)
	h := handles[0]
	p.Init(h, NoHandle, dummyState{}, 0, true)
	require.NotNil(t, p.Get(h))

	p.freeSingle(h)
	require.Nil(t, p.Get(h), "a freed handle's generation must no longer resolve")
}

func TestPoolFreeSubtreeRecyclesChildren(t *testing.T) {
	p := NewPool[dummyState, int](4)
	rootHandles, _ := p.AllocBatch(1)
	root := rootHandles[0]
	p.Init(root, NoHandle, dummyState{}, 0, true)

	children, _ := p.AllocBatch(2)
	p.Init(children[0], root, dummyState{depth: 1}, 0, true)
	p.Init(children[1], root, dummyState{depth: 1}, 1, true)
	p.MustGet(root).finishExpand(children, []int{0, 1})

	p.FreeSubtree(root)
	require.Equal(t, uint32(0), p.Live())
	require.Nil(t, p.Get(root))
	require.Nil(t, p.Get(children[0]))
	require.Nil(t, p.Get(children[1]))
}

func TestPoolAllocBatchReusesFreedSlotsBeforeGrowing(t *testing.T) {
	p := NewPool[dummyState, int](2)
	handles, ok := p.AllocBatch(2)
	require.True(t, ok)
	p.freeSingle(handles[0])

	again, ok := p.AllocBatch(1)
	require.True(t, ok)
	require.Equal(t, handles[0].Index, again[0].Index)
	require.NotEqual(t, handles[0].Gen, again[0].Gen, "a recycled slot must bump its generation")
}
