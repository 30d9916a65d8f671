package mcts

import "time"

// NoDeadline marks a Limits.Deadline as unbounded, relying on
// MaxIterations / the node pool's capacity / the stop signal to end the
// search instead.
// Distinct from the zero value, which per §8's boundary behavior means
// "expire immediately": search returns with zero iterations and a
// fallback move chosen uniformly at random from the root's legal moves.
const NoDeadline time.Duration = -1

// Limits bounds a single search call (§4.4 "limits = { max_iterations,
// deadline, max_nodes }").
type Limits struct {
	MaxIterations uint64

	// Deadline is the wall-clock bound on this call. NoDeadline means
	// unbounded; zero means "expire immediately" (§8 "deadline = 0"
	// boundary case); any positive value is a normal deadline.
	Deadline time.Duration

	// MaxNodes is carried with the limits but Engine.Search does not read
	// it; the node count is bounded only by the tree's pool capacity
	// (the maxNodes given to NewTree).
	MaxNodes uint32
}

// DefaultLimits returns an effectively unbounded iteration/deadline pair,
// relying on the node pool's capacity / the caller's stop signal to end
// the search.
func DefaultLimits() Limits {
	return Limits{
		MaxIterations: ^uint64(0),
		Deadline:      NoDeadline,
		MaxNodes:      0,
	}
}
