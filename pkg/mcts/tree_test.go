package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreeAdvanceRootReusesMatchingChild(t *testing.T) {
	tree := NewTree[dummyState, int](dummyGame{}, dummyState{}, 64)
	root := tree.RootNode()
	require.True(t, root.tryBeginExpand())

	handles, ok := tree.Pool().AllocBatch(2)
	require.True(t, ok)
	tree.Pool().Init(handles[0], tree.Root(), dummyState{depth: 1}, 0, true)
	tree.Pool().Init(handles[1], tree.Root(), dummyState{depth: 1}, 1, true)
	root.finishExpand(handles, []int{0, 1})

	keep := handles[1]
	tree.AdvanceRoot(1)
	require.Equal(t, keep, tree.Root(), "advancing to an already-expanded, actually-played move must reuse its subtree")
	require.Nil(t, tree.Pool().Get(handles[0]), "the sibling subtree must be reclaimed")
}

func TestTreeAdvanceRootRebuildsWhenChildUnexpanded(t *testing.T) {
	tree := NewTree[dummyState, int](dummyGame{}, dummyState{}, 64)
	before := tree.Size()

	tree.AdvanceRoot(0)
	require.Equal(t, before, tree.Size(), "a fresh root replaces the discarded one 1-for-1")
	require.Equal(t, dummyState{depth: 1}, tree.RootNode().State())
}

func TestTreeSizeTracksPoolLiveCount(t *testing.T) {
	tree := NewTree[dummyState, int](dummyGame{}, dummyState{}, 64)
	require.Equal(t, uint32(1), tree.Size())

	root := tree.RootNode()
	require.True(t, root.tryBeginExpand())
	handles, ok := tree.Pool().AllocBatch(2)
	require.True(t, ok)
	tree.Pool().Init(handles[0], tree.Root(), dummyState{depth: 1}, 0, true)
	tree.Pool().Init(handles[1], tree.Root(), dummyState{depth: 1}, 1, true)
	root.finishExpand(handles, []int{0, 1})

	require.Equal(t, uint32(3), tree.Size())
}
