package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackpropRAVECreditsSiblingsByMove(t *testing.T) {
	pool := NewPool[dummyState, int](8)
	_, children := expandTwoChildren(t, pool)

	backpropRAVE[dummyState, int](dummyGame{}, pool, children[0], []float64{1, -1}, []int{0, 1}, 1)

	sibling := pool.MustGet(children[1])
	require.Equal(t, int64(1), sibling.RaveVisits(), "move 1 appears in playedMoves, so the untraversed sibling gets AMAF-credited")
}

func TestBackpropRAVECreditsPathNodesParentPerspective(t *testing.T) {
	pool := NewPool[dummyState, int](8)
	root, children := expandTwoChildren(t, pool)

	// children[0] is dummyState{depth: 1}, reached by a move made by
	// root's mover (CurrentPlayer(root.state) == 0), so it must be
	// credited values[0] (1), not values[1] — the player-who-moved-into-it
	// convention, not the node's own CurrentPlayer.
	backpropRAVE[dummyState, int](dummyGame{}, pool, children[0], []float64{1, -1}, []int{0}, 1)

	leaf := pool.MustGet(children[0])
	require.Equal(t, int64(1), leaf.Visits())
	require.InDelta(t, 1.0, leaf.Q(), 1e-9)

	require.Equal(t, int64(1), root.Visits())
	require.InDelta(t, 1.0, root.Q(), 1e-9, "root has no parent, so it falls back to its own CurrentPlayer (0), credited values[0]=1")
}

func TestSelectChildRAVEPrefersUnvisited(t *testing.T) {
	pool := NewPool[dummyState, int](8)
	root, children := expandTwoChildren(t, pool)
	pool.MustGet(children[0]).addRollout(1)

	chosen := selectChildRAVE[dummyState, int](pool, root, 1.0, nil)
	require.Equal(t, children[1], chosen, "the unvisited child must be picked immediately, before any AMAF/Q blending")
}

func TestRaveBetaDSilverApproachesZeroAsVisitsGrow(t *testing.T) {
	small := RaveBetaDSilver(1, 100)
	large := RaveBetaDSilver(100000, 100)
	require.Greater(t, small, large, "beta should trust AMAF more when real visits are scarce")
}
