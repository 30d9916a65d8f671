package mcts

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
)

var configValidator = validator.New()

// SelectionPolicy picks the child-selection formula used during the
// selection phase (§4.2, §9 "Alternative selection policies").
type SelectionPolicy int

const (
	// SelectionPUCT is the default: PUCT with a uniform prior (§4.2).
	SelectionPUCT SelectionPolicy = iota
	// SelectionRAVE blends each child's Q with its AMAF estimate instead
	// of a PUCT exploration bonus (rave.go), best suited to high-branching,
	// move-order-independent games like Gomoku.
	SelectionRAVE
)

// Config enumerates the engine/worker tuning knobs of §6: exploration
// constant, max nodes, thread count, shared-tree toggle, default deadline,
// and statistics cadence. It is validated once at construction
// (NewEngine/NewWorker) and is immutable afterward.
type Config struct {
	// ExplorationConstant is c_puct in the PUCT formula (§4.2). Typical
	// range 1.414-4.0, game dependent. Unused when SelectionPolicy is
	// SelectionRAVE.
	ExplorationConstant float64 `validate:"gt=0"`

	// SelectionPolicy chooses PUCT (default) or RAVE for the selection
	// phase (§9).
	SelectionPolicy SelectionPolicy

	// RaveExplorationConstant is the exploration weight selectChildRAVE
	// uses in place of ExplorationConstant. Only consulted when
	// SelectionPolicy is SelectionRAVE.
	RaveExplorationConstant float64 `validate:"gte=0"`

	// RaveBeta overrides the AMAF/real-statistics blend schedule used by
	// selectChildRAVE; nil defaults to RaveBetaDSilver.
	RaveBeta RaveBetaFn

	// MaxNodes bounds the node pool (§3 invariant 5, §4.3).
	MaxNodes uint32 `validate:"gt=0"`

	// NumThreads is the size of the fixed worker pool (§5).
	NumThreads int `validate:"gte=1"`

	// SharedTree selects whether AdvanceRoot preserves the searched
	// subtree across moves, or the worker discards the tree and starts
	// fresh on each StartSearch (§4.5 "Tree reuse").
	SharedTree bool

	// DefaultDeadline is used when a search request does not specify its
	// own deadline. Follows Limits.Deadline's convention: NoDeadline means
	// unbounded, zero means the §8 immediate-return boundary case, positive
	// is a normal wall-clock bound.
	DefaultDeadline time.Duration

	// StatsCadence controls how often the engine publishes an
	// intermediate statistics snapshot (§4.4).
	StatsCadence time.Duration `validate:"gte=0"`

	// VirtualLossWeight is the phantom-visit weight applied per in-flight
	// thread (§9 "Virtual-loss weight"). An integer weight, validated to be
	// at least 1 so the PUCT exploration term cannot collapse.
	VirtualLossWeight int64 `validate:"gte=1"`

	// BaseSeed seeds the per-thread RNGs (§9 "Randomness"). Zero means
	// "derive from the current time", losing reproducibility across runs
	// but not across threads within one run.
	BaseSeed int64

	// Logger receives the engine's Warn event for a failed search
	// iteration and the worker's Debug event when a search drains. Defaults
	// to slog.Default() when nil.
	Logger *slog.Logger
}

// DefaultConfig returns sane defaults: c_puct = 1.414 (sqrt(2)), 1M max
// nodes, one thread per available core (runtime.NumCPU()), shared tree on,
// no deadline, stats every 200ms.
func DefaultConfig() Config {
	return Config{
		ExplorationConstant:     1.414,
		SelectionPolicy:         SelectionPUCT,
		RaveExplorationConstant: 1.0,
		MaxNodes:                1 << 20,
		NumThreads:              runtime.NumCPU(),
		SharedTree:              true,
		DefaultDeadline:         NoDeadline,
		StatsCadence:            200 * time.Millisecond,
		VirtualLossWeight:       3,
		BaseSeed:                0,
	}
}

// Validate checks the configuration invariants and fills in Logger if
// unset. Returns a KindConfiguration SearchError on failure (§7).
func (c *Config) Validate() error {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if err := configValidator.Struct(c); err != nil {
		return newConfigError("invalid engine configuration", err)
	}
	return nil
}
