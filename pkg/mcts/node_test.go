package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeExpansionStateMachine(t *testing.T) {
	var n Node[dummyState, int]
	n.reset(NoHandle, dummyState{}, 0, false)
	require.False(t, n.Expanded())

	require.True(t, n.tryBeginExpand())
	require.True(t, n.Expanding())
	require.False(t, n.tryBeginExpand(), "a second CAS must fail once expansion has begun")

	n.finishExpand([]Handle{{Index: 1}}, []int{0})
	require.True(t, n.Expanded())
	require.False(t, n.Expanding())
}

func TestNodeFinishExpandTerminalCachesValues(t *testing.T) {
	var n Node[dummyState, int]
	n.reset(NoHandle, dummyState{}, 0, false)
	require.True(t, n.tryBeginExpand())

	n.finishExpandTerminal([]float64{1, -1})
	require.True(t, n.Terminal())
	require.Equal(t, []float64{1, -1}, n.TerminalValues())
}

func TestNodeQAndVirtualLoss(t *testing.T) {
	var n Node[dummyState, int]
	n.reset(NoHandle, dummyState{}, 0, false)

	n.addRollout(1.0)
	require.InDelta(t, 1.0, n.Q(), 1e-9)

	n.applyVirtualLoss(3)
	require.Equal(t, int64(4), n.EffectiveVisits())
	require.InDelta(t, 0.25, n.Q(), 1e-9, "virtual losses must dilute Q toward zero while in flight")

	n.revertVirtualLoss(3)
	require.Equal(t, int64(1), n.EffectiveVisits())
	require.InDelta(t, 1.0, n.Q(), 1e-9)
}

func TestNodeRaveCrediting(t *testing.T) {
	var n Node[dummyState, int]
	n.reset(NoHandle, dummyState{}, 0, false)
	require.Equal(t, 0.0, n.QRave(), "an uncredited node reports zero, not a divide-by-zero")

	n.addRaveOutcome(1)
	n.addRaveOutcome(-1)
	require.Equal(t, int64(2), n.RaveVisits())
	require.InDelta(t, 0.0, n.QRave(), 1e-9)
}

func TestNodeResetClearsStaleState(t *testing.T) {
	var n Node[dummyState, int]
	n.reset(NoHandle, dummyState{depth: 5}, 1, true)
	n.addRollout(1)
	n.applyVirtualLoss(2)
	n.finishExpand([]Handle{{Index: 2}}, []int{3})

	n.reset(NoHandle, dummyState{}, 0, false)
	require.Equal(t, int64(0), n.Visits())
	require.Equal(t, int64(0), n.VirtualLoss())
	require.False(t, n.Expanded())
	require.Equal(t, 0, n.NumChildren())
}
