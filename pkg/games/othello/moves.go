package othello

import (
	"math/rand"

	"github.com/arcanum-ai/mctsarena/pkg/mcts"
)

// Game implements mcts.Game[State, Move] for Othello.
type Game struct{}

func (Game) NumPlayers() int { return 2 }

func othelloPlayerOf(c Cell) mcts.Player {
	if c == Black {
		return 0
	}
	return 1
}

func (Game) CurrentPlayer(s State) mcts.Player { return othelloPlayerOf(s.toMove) }

// LegalMoves returns every flattened square that captures at least one
// opponent disc. If the side to move has none and the game is not over, it
// returns the single move PassMove (advanced via Apply(s, PassMove)); once
// the game is over it returns nil.
func (Game) LegalMoves(s State) []Move {
	if s.full() {
		return nil
	}
	var moves []Move
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if len(s.flipsFor(row, col, s.toMove)) > 0 {
				moves = append(moves, row*BoardSize+col)
			}
		}
	}
	if len(moves) == 0 && !s.IsTerminal() {
		return []Move{PassMove}
	}
	return moves
}

func (Game) Apply(s State, m Move) State {
	if m == PassMove {
		return s.pass()
	}
	return s.play(m)
}

// IsTerminal reports whether the position has two consecutive passes (no
// legal move for either side) or a full board. The receiver-method form
// on State lets LegalMoves call it without importing mcts.
func (s State) IsTerminal() bool {
	if s.full() {
		return true
	}
	if !s.passedLast {
		return false
	}
	return !s.hasAnyMove(s.toMove)
}

func (Game) IsTerminal(s State) bool { return s.IsTerminal() }

func (Game) TerminalValue(s State, player mcts.Player) float64 {
	black, white := s.counts()
	if black == white {
		return 0
	}
	winner := Black
	if white > black {
		winner = White
	}
	if othelloPlayerOf(winner) == player {
		return 1
	}
	return -1
}

// Playout plays uniformly at random among legal moves (including forced
// passes) to a terminal position.
func (g Game) Playout(state State, rng *rand.Rand) []float64 {
	s := state
	for !g.IsTerminal(s) {
		moves := g.LegalMoves(s)
		if len(moves) == 0 {
			break
		}
		s = g.Apply(s, moves[rng.Intn(len(moves))])
	}

	values := make([]float64, g.NumPlayers())
	for p := range values {
		values[p] = g.TerminalValue(s, mcts.Player(p))
	}
	return values
}
