package gomoku

import (
	"math/rand"

	"github.com/arcanum-ai/mctsarena/pkg/mcts"
)

// Game implements mcts.Game[State, Move] for free-style Gomoku.
type Game struct{}

func (Game) NumPlayers() int { return 2 }

func gomokuPlayerOf(c Cell) mcts.Player {
	if c == Black {
		return 0
	}
	return 1
}

func (Game) CurrentPlayer(s State) mcts.Player { return gomokuPlayerOf(s.toMove) }

func (Game) LegalMoves(s State) []Move {
	if s.winner() != Empty {
		return nil
	}
	moves := make([]Move, 0, BoardSize*BoardSize-s.moveCount)
	for i, c := range s.cells {
		if c == Empty {
			moves = append(moves, i)
		}
	}
	return moves
}

func (Game) Apply(s State, m Move) State { return s.place(m) }

func (Game) IsTerminal(s State) bool {
	return s.winner() != Empty || s.full()
}

func (Game) TerminalValue(s State, player mcts.Player) float64 {
	winner := s.winner()
	if winner == Empty {
		return 0
	}
	if gomokuPlayerOf(winner) == player {
		return 1
	}
	return -1
}

// Playout is an immediate-block heuristic rollout: at each ply, play an
// immediate winning move if one exists, else block the opponent's
// immediate win, else play uniformly at random among legal squares.
func (g Game) Playout(state State, rng *rand.Rand) []float64 {
	s := state
	for !g.IsTerminal(s) {
		moves := g.LegalMoves(s)
		if len(moves) == 0 {
			break
		}

		if win, ok := gomokuFindWinningMove(s, moves); ok {
			s = g.Apply(s, win)
			continue
		}
		if block, ok := gomokuFindWinningMove(gomokuSwapToMove(s), moves); ok {
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

func gomokuSwapToMove(s State) State {
	if s.toMove == Black {
		s.toMove = White
	} else {
		s.toMove = Black
	}
	return s
}

func gomokuFindWinningMove(s State, moves []Move) (Move, bool) {
	for _, m := range moves {
		if next := s.place(m); next.winner() == s.toMove {
			return m, true
		}
	}
	return 0, false
}
