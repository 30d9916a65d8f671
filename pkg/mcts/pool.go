package mcts

import "sync"

// Pool is the bounded, recycled node storage backing a Tree (§4.3). It is a
// bump allocator (for first-time allocation) plus a free list (for
// recycled slots), with a generation counter per slot so that stale
// Handles are detected rather than resurrecting a recycled node.
//
// The free list and bump counter are guarded by a single mutex held only
// for the duration of a push/pop — never across an iteration — satisfying
// §5's deadlock-freedom requirement (no nested locks, no lock held across
// blocking work).
type Pool[S any, M Move] struct {
	mu   sync.Mutex
	free []uint32
	bump uint32

	nodes []Node[S, M]
	gen   []uint32
	live  int64 // informational only; guarded by mu

	capacity uint32
}

// NewPool allocates storage for up to capacity live nodes.
func NewPool[S any, M Move](capacity uint32) *Pool[S, M] {
	if capacity == 0 {
		capacity = 1
	}
	return &Pool[S, M]{
		nodes:    make([]Node[S, M], capacity),
		gen:      make([]uint32, capacity),
		capacity: capacity,
	}
}

// Capacity is the configured max-nodes bound (§3 invariant 5).
func (p *Pool[S, M]) Capacity() uint32 { return p.capacity }

// Live returns the current number of allocated-and-not-yet-freed slots.
func (p *Pool[S, M]) Live() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return uint32(p.live)
}

// AllocBatch reserves n slots, preferring recycled slots from the free
// list before drawing from never-used storage. It either reserves all n
// slots or none — a partial reservation would leave the caller unable to
// install a self-consistent set of children (§4.3 "expansion needs N
// slots from the pool").
func (p *Pool[S, M]) AllocBatch(n uint32) ([]Handle, bool) {
	if n == 0 {
		return nil, true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	available := uint32(len(p.free)) + (p.capacity - p.bump)
	if available < n {
		return nil, false
	}

	handles := make([]Handle, 0, n)

	take := n
	if uint32(len(p.free)) < take {
		take = uint32(len(p.free))
	}
	for i := uint32(0); i < take; i++ {
		last := len(p.free) - 1
		idx := p.free[last]
		p.free = p.free[:last]
		p.gen[idx]++
		handles = append(handles, Handle{Index: idx, Gen: p.gen[idx]})
	}

	remaining := n - take
	if remaining > 0 {
		start := p.bump
		p.bump += remaining
		for i := uint32(0); i < remaining; i++ {
			idx := start + i
			handles = append(handles, Handle{Index: idx, Gen: p.gen[idx]})
		}
	}

	p.live += int64(n)
	return handles, true
}

// Init writes a node's content into a just-allocated slot.
func (p *Pool[S, M]) Init(h Handle, parent Handle, state S, move M, hasMove bool) {
	p.nodes[h.Index].reset(parent, state, move, hasMove)
}

// Get resolves a Handle to its node, returning nil if the handle's
// generation no longer matches the slot (the node it named has been
// recycled or was never allocated) — §4.3 "generation mismatch ... node no
// longer exists".
func (p *Pool[S, M]) Get(h Handle) *Node[S, M] {
	if !h.valid() || h.Index >= p.capacity {
		return nil
	}
	p.mu.Lock()
	currentGen := p.gen[h.Index]
	p.mu.Unlock()
	if currentGen != h.Gen {
		return nil
	}
	return &p.nodes[h.Index]
}

// MustGet resolves a Handle without a generation check. Safe only on the
// hot search path, where §5's exclusivity guarantee ("no search iteration
// may be in flight" during AdvanceRoot/pruning) ensures no recycle can
// race a live traversal.
func (p *Pool[S, M]) MustGet(h Handle) *Node[S, M] {
	return &p.nodes[h.Index]
}

// FreeSubtree recursively returns every node reachable from h (inclusive)
// to the free list, bumping each slot's generation so outstanding Handles
// into the subtree are detected as stale. Used by Tree.AdvanceRoot and
// Tree pruning (§4.3 Root advance, §4.3 Pruning).
func (p *Pool[S, M]) FreeSubtree(h Handle) {
	if !h.valid() {
		return
	}
	node := &p.nodes[h.Index]
	children := node.children
	for _, c := range children {
		p.FreeSubtree(c)
	}
	p.freeSingle(h)
}

// freeSingle returns exactly one slot to the free list without touching
// its children (callers that already handled them separately, e.g.
// Tree.AdvanceRoot reclaiming the old root after relocating its other
// children, use this instead of FreeSubtree).
func (p *Pool[S, M]) freeSingle(h Handle) {
	if !h.valid() {
		return
	}
	p.mu.Lock()
	p.gen[h.Index]++
	p.free = append(p.free, h.Index)
	p.live--
	p.mu.Unlock()
}

// growBy extends the pool's backing storage by extra slots. Only safe to
// call with no concurrent Alloc/Get traffic (the same exclusivity
// AdvanceRoot already requires) since it may reallocate the backing
// slices.
func (p *Pool[S, M]) growBy(extra uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes = append(p.nodes, make([]Node[S, M], extra)...)
	p.gen = append(p.gen, make([]uint32, extra)...)
	p.capacity += extra
}
