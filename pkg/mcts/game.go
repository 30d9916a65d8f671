package mcts

import "math/rand"

// Player is an integer player label. Two-player games (Gomoku, Connect4,
// Othello) use {0, 1}; Blokus uses {0, 1, 2, 3}.
type Player int32

// Move is any comparable value a game uses to identify a transition between
// states. Distinct moves from the same state must compare unequal.
type Move = comparable

// Game is the abstract contract the search engine requires of a concrete
// game. Implementations are value-type friendly: Apply must never mutate
// its input state (§3 "States are value types").
//
// The engine never names a specific game; it is polymorphic over Game via
// Go generics (§9 "dynamic game dispatch", resolved here as a compile-time
// generic parameter, one instantiation per game).
type Game[S any, M Move] interface {
	// NumPlayers returns the number of distinct players in this game.
	NumPlayers() int

	// LegalMoves lists every move available from state. May be empty,
	// meaning the state is terminal or a pass is required (games that
	// allow passing represent it as an ordinary move, see §8 Scenario 3).
	LegalMoves(state S) []M

	// Apply returns the successor of state after move, without mutating
	// state. Must be deterministic.
	Apply(state S, move M) S

	// CurrentPlayer reports whose turn it is to move at state.
	CurrentPlayer(state S) Player

	// IsTerminal reports whether state has no further moves to make.
	IsTerminal(state S) bool

	// TerminalValue reports player's reward at a terminal state, in
	// [-1, +1] (or {-1, 0, +1}).
	TerminalValue(state S, player Player) float64
}

// Playouter is implemented by games that supply a biased playout instead of
// the engine's default uniform-random one (§4.1, §9 — e.g. Connect4's
// gravity-aware heuristic). This is a playout refinement, not part of the
// engine itself.
type Playouter[S any, M Move] interface {
	Game[S, M]
	Playout(state S, rng *rand.Rand) []float64
}

// DefaultPlayout performs a complete uniform-random self-play from state to
// termination and returns the terminal value for every player, indexed by
// Player. It is the engine's default simulation phase (§4.1) for games that
// do not implement Playouter.
func DefaultPlayout[S any, M Move](g Game[S, M], state S, rng *rand.Rand) []float64 {
	for !g.IsTerminal(state) {
		moves := g.LegalMoves(state)
		if len(moves) == 0 {
			break
		}
		state = g.Apply(state, moves[rng.Intn(len(moves))])
	}
	return terminalValues(g, state)
}

// rollout dispatches to a game's custom Playouter if it implements one,
// falling back to DefaultPlayout otherwise.
func rollout[S any, M Move](g Game[S, M], state S, rng *rand.Rand) []float64 {
	if p, ok := any(g).(Playouter[S, M]); ok {
		return p.Playout(state, rng)
	}
	return DefaultPlayout(g, state, rng)
}

func terminalValues[S any, M Move](g Game[S, M], state S) []float64 {
	values := make([]float64, g.NumPlayers())
	for p := range values {
		values[p] = g.TerminalValue(state, Player(p))
	}
	return values
}
