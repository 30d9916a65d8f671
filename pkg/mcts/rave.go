package mcts

import "math"

// Rapid Action Value Estimation (RAVE): an optional alternative selection
// policy to PUCT (§9 "Alternative selection policies"). Best suited to
// games with a high branching factor and move-order-independent positions
// (Go, Gomoku) where a move's value learned in one rollout usefully
// predicts its value as a sibling's descendant, not just its own.
//
// Adapted from the teacher's rave.go (RaveDSilver beta schedule, same
// blend-toward-exploitation shape) onto the new Node/Pool handle-based
// tree instead of the teacher's NodeBase/NodeStatsLike types.

// RaveBetaFn computes the blend weight between AMAF and real statistics;
// it should approach 1 for small n (trust AMAF) and 0 for large n (trust
// real visits), per Silver's schedule.
type RaveBetaFn func(n, nRave int64) float64

// RaveBetaDSilver is D. Silver's beta schedule with b=0.1, grounded on the
// teacher's vars.go RaveDSilver default.
func RaveBetaDSilver(n, nRave int64) float64 {
	const (
		b      = 0.1
		factor = 4 * b * b
	)
	return float64(nRave) / (float64(n+nRave) + factor*float64(n*nRave))
}

// selectChildRAVE mirrors selectChild's deterministic-unvisited-first,
// highest-score-wins shape but blends each child's Q with its AMAF
// estimate instead of adding a PUCT exploration bonus.
func selectChildRAVE[S any, M Move](pool *Pool[S, M], parent *Node[S, M], explorationParam float64, beta RaveBetaFn) Handle {
	n := parent.NumChildren()
	if n == 0 {
		return NoHandle
	}
	if beta == nil {
		beta = RaveBetaDSilver
	}
	lnParentVisits := math.Log(float64(max64(parent.Visits(), 1)))

	var bestHandle Handle
	bestScore := math.Inf(-1)
	for i := 0; i < n; i++ {
		h, _ := parent.ChildAt(i)
		child := pool.MustGet(h)

		visits := child.EffectiveVisits()
		if visits == 0 {
			return h
		}

		q := child.Q()
		b := 0.0
		amafQ := 0.0
		if nRave := child.RaveVisits(); nRave > 0 {
			b = beta(visits, nRave)
			amafQ = child.QRave()
		}

		score := (1-b)*q + b*amafQ + explorationParam*math.Sqrt(lnParentVisits/float64(visits))
		if score > bestScore {
			bestScore = score
			bestHandle = h
		}
	}
	return bestHandle
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// backpropRAVE credits every node along the selection path, same as plain
// backpropagation, but additionally credits each of the path's siblings
// whose move appears anywhere in the rollout's played-move list (AMAF:
// "all moves as first"). playedMoves is the list of in-tree moves played
// during descent, in order; moves made during the rollout itself are not
// included.
func backpropRAVE[S any, M Move](game Game[S, M], pool *Pool[S, M], leaf Handle, values []float64, playedMoves []M, virtualLossWeight int64) {
	played := make(map[any]bool, len(playedMoves))
	for _, m := range playedMoves {
		played[m] = true
	}

	h := leaf
	for h.valid() {
		node := pool.Get(h)
		if node == nil {
			return
		}
		parentHandle := node.Parent()
		parent := pool.Get(parentHandle)

		// The value credited to a node is the outcome from the
		// perspective of the player who moved into it — CurrentPlayer of
		// its parent, not of the node itself — so selectChildRAVE's
		// "maximize child.Q()" favors moves good for the player who chose
		// among the children. The root has no parent and is credited from
		// its own CurrentPlayer instead. Same convention as engine.go's
		// plain PUCT backprop.
		var player int
		if parent != nil {
			player = int(game.CurrentPlayer(parent.State()))
		} else {
			player = int(game.CurrentPlayer(node.State()))
		}
		if player >= 0 && player < len(values) {
			node.addRollout(values[player])
		}
		// Virtual loss is only ever applied to children during selection
		// (never to the root), so only revert it off nodes that aren't
		// the root — reverting the root's would underflow it below zero.
		if parent != nil {
			node.revertVirtualLoss(virtualLossWeight)
		}

		if parent != nil {
			for i := 0; i < parent.NumChildren(); i++ {
				siblingHandle, move := parent.ChildAt(i)
				if played[move] {
					sibling := pool.Get(siblingHandle)
					if sibling != nil && player >= 0 && player < len(values) {
						sibling.addRaveOutcome(values[player])
					}
				}
			}
		}

		h = parentHandle
	}
}
