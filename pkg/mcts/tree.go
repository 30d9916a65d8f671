package mcts

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Tree owns every reachable node, the current root, and the bounded node
// pool (§3 Tree). Root mutation (AdvanceRoot) is exclusive: callers must
// ensure no search iteration is in flight, per §4.3 "Root advance is an
// exclusive operation" — the async Worker in worker.go is responsible for
// that exclusion in practice.
type Tree[S any, M Move] struct {
	// ID is a stable per-tree identity, assigned by NewTree. The Worker
	// does not expose its tree or this ID.
	ID uuid.UUID

	game Game[S, M]
	pool *Pool[S, M]

	// root packs a Handle (index<<32 | gen) into a single atomic word so
	// reads never need a lock (§5 "Root pointer ... no runtime locking
	// needed on the read path beyond an atomic load").
	root atomic.Uint64
}

func packHandle(h Handle) uint64 {
	return uint64(h.Index)<<32 | uint64(h.Gen)
}

func unpackHandle(v uint64) Handle {
	return Handle{Index: uint32(v >> 32), Gen: uint32(v)}
}

// NewTree constructs a tree with a fresh root at the given initial state,
// backed by a pool bounded to maxNodes (§3 invariant 5).
func NewTree[S any, M Move](game Game[S, M], initialState S, maxNodes uint32) *Tree[S, M] {
	pool := NewPool[S, M](maxNodes)
	handles, ok := pool.AllocBatch(1)
	if !ok {
		// maxNodes was too small even for the root; grow by one slot's
		// worth rather than fail construction outright.
		pool = NewPool[S, M](maxNodes + 1)
		handles, _ = pool.AllocBatch(1)
	}
	rootHandle := handles[0]
	pool.Init(rootHandle, NoHandle, initialState, zeroValue[M](), false)

	t := &Tree[S, M]{
		ID:   uuid.New(),
		game: game,
		pool: pool,
	}
	t.root.Store(packHandle(rootHandle))
	return t
}

func zeroValue[M Move]() M {
	var m M
	return m
}

// Root returns the current root handle (atomic load, no lock).
func (t *Tree[S, M]) Root() Handle { return unpackHandle(t.root.Load()) }

// RootNode resolves the current root to its node.
func (t *Tree[S, M]) RootNode() *Node[S, M] { return t.pool.Get(t.Root()) }

// Game returns the game this tree searches.
func (t *Tree[S, M]) Game() Game[S, M] { return t.game }

// Pool returns the node pool backing this tree.
func (t *Tree[S, M]) Pool() *Pool[S, M] { return t.pool }

// Size is the number of live nodes in the tree (§3 invariant 5).
func (t *Tree[S, M]) Size() uint32 { return t.pool.Live() }

// AdvanceRoot reuses the subtree corresponding to an actually-played move m
// and discards the rest (§4.3 Root advance, §3 invariant 6). The caller
// must guarantee no search iteration is in flight.
func (t *Tree[S, M]) AdvanceRoot(m M) {
	oldHandle := t.Root()
	oldRoot := t.pool.Get(oldHandle)

	var foundHandle = NoHandle
	if oldRoot != nil && oldRoot.Expanded() {
		for i := 0; i < oldRoot.NumChildren(); i++ {
			h, move := oldRoot.ChildAt(i)
			if move == m {
				foundHandle = h
				break
			}
		}
	}

	if foundHandle.valid() {
		// Reclaim every other child's subtree, then the old root itself.
		if oldRoot.Expanded() {
			for i := 0; i < oldRoot.NumChildren(); i++ {
				h, _ := oldRoot.ChildAt(i)
				if h != foundHandle {
					t.pool.FreeSubtree(h)
				}
			}
		}
		newRoot := t.pool.MustGet(foundHandle)
		newRoot.parent = NoHandle
		t.pool.freeSingle(oldHandle)
		t.root.Store(packHandle(foundHandle))
		return
	}

	// Child for m was never expanded (or was pruned): construct a fresh
	// root and discard the entire previous tree (§4.3 "If not found").
	var newState S
	if oldRoot != nil {
		newState = t.game.Apply(oldRoot.state, m)
	}
	t.pool.FreeSubtree(oldHandle)

	handles, ok := t.pool.AllocBatch(1)
	if !ok {
		// Pool is saturated with nothing freeable left to reclaim; grow
		// by exactly one slot so the invariant "there is always a root"
		// holds. This only happens under pathological max-nodes configs.
		t.pool.growBy(1)
		handles, _ = t.pool.AllocBatch(1)
	}
	h := handles[0]
	t.pool.Init(h, NoHandle, newState, zeroValue[M](), false)
	t.root.Store(packHandle(h))
}
