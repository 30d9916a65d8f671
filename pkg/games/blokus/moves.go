package blokus

import (
	"math/rand"

	"github.com/arcanum-ai/mctsarena/pkg/mcts"
)

// Game implements mcts.Game[State, Move] for the simplified fixture.
type Game struct{}

func (Game) NumPlayers() int { return 4 }

func (Game) CurrentPlayer(s State) mcts.Player { return mcts.Player(s.turn) }

// LegalMoves returns the current player's placements, or a single
// PassMove if none are available and the game is not terminal.
func (Game) LegalMoves(s State) []Move {
	if s.IsTerminal() {
		return nil
	}
	moves := s.legalFor(s.turn)
	if len(moves) == 0 {
		return []Move{PassMove}
	}
	return moves
}

func (Game) Apply(s State, m Move) State {
	if m == PassMove {
		return s.pass(s.turn)
	}
	return s.place(s.turn, m)
}

// IsTerminal reports whether the board is full or every player has
// passed in succession (no one has a move).
func (s State) IsTerminal() bool {
	if s.full() {
		return true
	}
	return s.consecutivePass >= 4
}

func (Game) IsTerminal(s State) bool { return s.IsTerminal() }

// TerminalValue ranks player by cells placed: the strict leader scores
// +1, the strict trailer -1, everyone else (including an all-tied
// board) scores 0. This generalizes win/loss/draw to N players without
// needing a zero-sum assumption.
func (Game) TerminalValue(s State, player mcts.Player) float64 {
	best, worst := s.placed[0], s.placed[0]
	for _, c := range s.placed[1:] {
		if c > best {
			best = c
		}
		if c < worst {
			worst = c
		}
	}
	if best == worst {
		return 0
	}
	count := s.placed[player]
	switch count {
	case best:
		return 1
	case worst:
		return -1
	default:
		return 0
	}
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
