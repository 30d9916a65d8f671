package connect4

import (
	"math/rand"

	"github.com/arcanum-ai/mctsarena/pkg/mcts"
)

// Game implements mcts.Game[State, Move] for Connect Four.
type Game struct{}

func (Game) NumPlayers() int { return 2 }

func playerOf(c Cell) mcts.Player {
	if c == Red {
		return 0
	}
	return 1
}

func (Game) CurrentPlayer(s State) mcts.Player { return playerOf(s.toMove) }

func (Game) LegalMoves(s State) []Move {
	if s.winner() != Empty {
		return nil
	}
	moves := make([]Move, 0, Width)
	for c := 0; c < Width; c++ {
		if !s.columnFull(c) {
			moves = append(moves, c)
		}
	}
	return moves
}

func (Game) Apply(s State, m Move) State { return s.drop(m) }

func (Game) IsTerminal(s State) bool {
	return s.winner() != Empty || s.full()
}

func (Game) TerminalValue(s State, player mcts.Player) float64 {
	winner := s.winner()
	if winner == Empty {
		return 0 // draw, or (should not happen) a non-terminal query
	}
	if playerOf(winner) == player {
		return 1
	}
	return -1
}

// Playout is a gravity-aware heuristic rollout (§4.1 "games may supply a
// biased default (e.g., Connect4 gravity-aware heuristic)"): at each ply,
// play an immediate winning move if one exists, else block the
// opponent's immediate win, else play uniformly at random. This converges
// search statistics faster than pure random playouts without requiring a
// policy network.
func (g Game) Playout(state State, rng *rand.Rand) []float64 {
	s := state
	for !g.IsTerminal(s) {
		moves := g.LegalMoves(s)
		if len(moves) == 0 {
			break
		}

		if win, ok := findWinningMove(s, moves); ok {
			s = g.Apply(s, win)
			continue
		}
		opponentMoves := g.LegalMoves(swapToMove(s))
		if block, ok := findWinningMove(swapToMove(s), opponentMoves); ok {
			s = g.Apply(s, block)
			continue
		}
		s = g.Apply(s, moves[rng.Intn(len(moves))])
	}

	values := make([]float64, g.NumPlayers())
	for p := range values {
		values[p] = g.TerminalValue(s, mcts.Player(p))
	}
	return values
}

func swapToMove(s State) State {
	if s.toMove == Red {
		s.toMove = Yellow
	} else {
		s.toMove = Red
	}
	return s
}

func findWinningMove(s State, moves []Move) (Move, bool) {
	for _, m := range moves {
		if next := s.drop(m); next.winner() == s.toMove {
			return m, true
		}
	}
	return 0, false
}
