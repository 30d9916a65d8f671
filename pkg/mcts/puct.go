package mcts

import "math"

// selectChild picks the child maximizing the PUCT score (§4.2):
//
//	score(child) = Q(child) + c_puct * P(child) * sqrt(N(parent)) / (1 + N_eff(child))
//
// where P(child) is a uniform prior (1 / num_children, no policy network
// per §1 Non-goals), Q treats virtual losses as losses (zero contribution)
// so it trends down while a thread is in flight through the child, and a
// child with N_eff = 0 has Q = 0 so only the exploration term matters.
//
// Ties are broken deterministically by "higher Q first, then lower move
// index" (§9 Open Question, resolved in DESIGN.md).
func selectChild[S any, M Move](pool *Pool[S, M], parent *Node[S, M], cpuct float64) Handle {
	n := parent.NumChildren()
	if n == 0 {
		return NoHandle
	}

	sqrtParentVisits := math.Sqrt(float64(parent.Visits()))
	prior := 1.0 / float64(n)

	var bestHandle Handle
	var bestScore, bestQ = math.Inf(-1), math.Inf(-1)

	for i := 0; i < n; i++ {
		h, _ := parent.ChildAt(i)
		child := pool.MustGet(h)

		nEff := child.EffectiveVisits()
		q := 0.0
		if nEff > 0 {
			q = child.Q()
		}

		exploration := cpuct * prior * sqrtParentVisits / float64(1+nEff)
		score := q + exploration

		// Forward iteration plus strict ">" comparisons already gives the
		// "lower move index" tie-break for free: an earlier index is
		// never displaced by a later one with an equal score and Q.
		if score > bestScore || (score == bestScore && q > bestQ) {
			bestScore = score
			bestQ = q
			bestHandle = h
		}
	}

	return bestHandle
}
