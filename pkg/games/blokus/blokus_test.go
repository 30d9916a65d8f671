package blokus

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcanum-ai/mctsarena/pkg/mcts"
)

func TestFirstMoveMustBeOwnCorner(t *testing.T) {
	g := Game{}
	s := NewState()
	moves := g.LegalMoves(s)
	require.Equal(t, []Move{corners[0][0]*BoardSize + corners[0][1]}, moves)
}

func TestSecondPlacementMustTouchOwnDiagonal(t *testing.T) {
	g := Game{}
	s := NewState()
	s = g.Apply(s, corners[0][0]*BoardSize+corners[0][1]) // player 0 takes its corner
	s = g.Apply(s, corners[1][0]*BoardSize+corners[1][1]) // player 1 takes its corner
	s = g.Apply(s, corners[2][0]*BoardSize+corners[2][1]) // player 2
	s = g.Apply(s, corners[3][0]*BoardSize+corners[3][1]) // player 3

	require.Equal(t, mcts.Player(0), g.CurrentPlayer(s))
	moves := g.LegalMoves(s)
	require.Contains(t, moves, 1*BoardSize+1, "diagonally adjacent to player 0's corner stone at (0,0)")
	require.NotContains(t, moves, 0*BoardSize+1, "orthogonally adjacent squares don't satisfy the corner-touch rule")
}

func TestPassWhenNoLegalPlacement(t *testing.T) {
	g := Game{}
	var s State
	for i := range s.cells {
		s.cells[i] = P1
	}
	s.cells[0] = Empty // one open square, diagonally unreachable: no P0 stone on the board
	s.started[0] = true
	s.turn = 0
	require.False(t, s.full())
	require.Equal(t, []Move{PassMove}, g.LegalMoves(s))
}

func TestFourConsecutivePassesEndsGame(t *testing.T) {
	s := State{consecutivePass: 4}
	g := Game{}
	require.True(t, g.IsTerminal(s))
}

func TestTerminalValueRanksByPlacedCount(t *testing.T) {
	g := Game{}
	s := State{placed: [4]int{10, 5, 5, 2}}
	require.Equal(t, float64(1), g.TerminalValue(s, mcts.Player(0)))
	require.Equal(t, float64(0), g.TerminalValue(s, mcts.Player(1)))
	require.Equal(t, float64(0), g.TerminalValue(s, mcts.Player(2)))
	require.Equal(t, float64(-1), g.TerminalValue(s, mcts.Player(3)))
}

func TestTerminalValueAllTiedIsZeroSum(t *testing.T) {
	g := Game{}
	s := State{placed: [4]int{3, 3, 3, 3}}
	for p := 0; p < 4; p++ {
		require.Equal(t, float64(0), g.TerminalValue(s, mcts.Player(p)))
	}
}

func TestPlayoutProducesFourPlayerValueVector(t *testing.T) {
	g := Game{}
	s := NewState()
	rng := rand.New(rand.NewSource(4))
	values := g.Playout(s, rng)
	require.Len(t, values, 4)
}

func TestApplyNeverMutatesReceiver(t *testing.T) {
	g := Game{}
	s := NewState()
	before := s
	_ = g.Apply(s, corners[0][0]*BoardSize+corners[0][1])
	require.Equal(t, before, s)
}
