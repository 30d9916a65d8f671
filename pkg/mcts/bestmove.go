package mcts

import (
	"math"
	"sort"
)

// BestChildPolicy selects which of a node's children "the engine prefers"
// once a search has stopped (§4.4 "Result extraction"). Adapted from the
// teacher's mcts.go BestChild policy enum.
type BestChildPolicy int

const (
	// BestChildMostVisits is the standard MCTS choice: the child with the
	// most real (non-virtual) visits, since visit count correlates with
	// confidence far better than the noisy average value does.
	BestChildMostVisits BestChildPolicy = iota

	// BestChildWinRate is experimental: choose the highest Q among
	// children visited at least bestChildWinRateMinVisits times, to avoid
	// picking a lucky, barely-explored child.
	BestChildWinRate
)

const bestChildWinRateMinVisits = 10

// BestChild returns the preferred child handle of parent under policy, or
// NoHandle if parent has no children. BestChildWinRate falls back to the
// most-visited child when no child reaches bestChildWinRateMinVisits.
func BestChild[S any, M Move](pool *Pool[S, M], parent *Node[S, M], policy BestChildPolicy) Handle {
	n := parent.NumChildren()
	if n == 0 {
		return NoHandle
	}

	switch policy {
	case BestChildWinRate:
		best := NoHandle
		bestQ := -1.0
		for i := 0; i < n; i++ {
			h, _ := parent.ChildAt(i)
			child := pool.MustGet(h)
			if child.Visits() < bestChildWinRateMinVisits {
				continue
			}
			if q := child.Q(); q > bestQ {
				bestQ = q
				best = h
			}
		}
		if best.valid() {
			return best
		}
		fallthrough // no child cleared the threshold; fall back to visits
	default: // BestChildMostVisits
		best := NoHandle
		var bestVisits int64 = -1
		bestQ := math.Inf(-1)
		for i := 0; i < n; i++ {
			h, _ := parent.ChildAt(i)
			child := pool.MustGet(h)
			v, q := child.Visits(), child.Q()
			// Equal visits: higher Q wins; an equal Q keeps the earlier index.
			if v > bestVisits || (v == bestVisits && q > bestQ) {
				bestVisits = v
				bestQ = q
				best = h
			}
		}
		return best
	}
}

// BestMove returns the preferred move at the tree's current root, under
// BestChildMostVisits: the child with the largest visit count, ties
// broken by higher Q, then lower move index (§4.4 "best_move()").
//
// If the root was never expanded (no iterations ran — the §8 "deadline =
// 0" boundary case, where search returns immediately with zero
// iterations), BestChild has nothing to compare and BestMove instead
// falls back to a move chosen uniformly at random from the root state's
// legal moves, per §8's required fallback.
func BestMove[S any, M Move](t *Tree[S, M]) (M, bool) {
	root := t.RootNode()
	best := BestChild(t.pool, root, BestChildMostVisits)
	if !best.valid() {
		moves := t.Game().LegalMoves(root.State())
		if len(moves) == 0 {
			var zero M
			return zero, false
		}
		rng := threadRand(SeedGeneratorFn(), 0)
		return moves[rng.Intn(len(moves))], true
	}
	child := t.pool.MustGet(best)
	return child.Move(), true
}

// PvLine is one principal variation: the sequence of handles/moves reached
// by repeatedly taking BestChild, plus whether it terminates the game.
type PvLine[M Move] struct {
	Moves    []M
	Terminal bool
}

// Pv walks from root taking BestChild under policy until a childless or
// terminal node is reached (§4.4 "PV extraction", SUPPLEMENTED FEATURES).
func Pv[S any, M Move](pool *Pool[S, M], root Handle, policy BestChildPolicy, maxLen int) PvLine[M] {
	line := PvLine[M]{Moves: make([]M, 0, maxLen)}
	h := root
	for len(line.Moves) < maxLen {
		node := pool.Get(h)
		if node == nil {
			break
		}
		if node.Terminal() {
			line.Terminal = true
			break
		}
		next := BestChild(pool, node, policy)
		if !next.valid() {
			break
		}
		child := pool.MustGet(next)
		line.Moves = append(line.Moves, child.Move())
		h = next
	}
	return line
}

// MultiPv returns up to k principal variations, one per root child, sorted
// by that child's visit count descending (§4.4, SUPPLEMENTED FEATURES:
// "MultiPv"). Grounded on the teacher's mcts.go MultiPv, adapted from
// NodeBase slices to Handle-addressed pool lookups.
func MultiPv[S any, M Move](t *Tree[S, M], policy BestChildPolicy, k int, maxLineLen int) []PvLine[M] {
	root := t.RootNode()
	n := root.NumChildren()

	type ranked struct {
		handle Handle
		visits int64
	}
	children := make([]ranked, n)
	for i := 0; i < n; i++ {
		h, _ := root.ChildAt(i)
		children[i] = ranked{handle: h, visits: t.pool.MustGet(h).Visits()}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].visits > children[j].visits })

	if k > len(children) {
		k = len(children)
	}
	lines := make([]PvLine[M], 0, k)
	for i := 0; i < k; i++ {
		head := t.pool.MustGet(children[i].handle)
		line := Pv(t.pool, children[i].handle, policy, maxLineLen-1)
		line.Moves = append([]M{head.Move()}, line.Moves...)
		lines = append(lines, line)
	}
	return lines
}
