package mcts

import (
	"context"
	"log/slog"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("github.com/arcanum-ai/mctsarena/pkg/mcts")
	meter  = otel.Meter("github.com/arcanum-ai/mctsarena/pkg/mcts")

	iterationsCounter metric.Int64Counter
	collisionsCounter metric.Int64Counter
)

func init() {
	iterationsCounter, _ = meter.Int64Counter("mcts.iterations",
		metric.WithDescription("completed search iterations"))
	collisionsCounter, _ = meter.Int64Counter("mcts.collisions",
		metric.WithDescription("selection landed on a node another thread was expanding"))
}

// maxSelectionDepth is the safety depth cap on descent (§4.4 Selection:
// "a safety depth cap is reached"), guarding against a pathological game
// whose LegalMoves never terminates the descent.
const maxSelectionDepth = 4096

// Engine runs parallel search iterations against a Tree (§4.4). One Engine
// serves one game instantiation; it is stateless between calls to Search
// other than the Config it was built with, so a single Engine may drive
// many trees sequentially (as the async Worker does across AdvanceRoot
// calls).
type Engine[S any, M Move] struct {
	config Config
}

// NewEngine validates config and returns an Engine bound to it (§6).
func NewEngine[S any, M Move](config Config) (*Engine[S, M], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Engine[S, M]{config: config}, nil
}

// ErrRootTerminal is returned by Search when the tree's current root is
// already a terminal position: there is no move to search for (Open
// Question, resolved in DESIGN.md).
var ErrRootTerminal = newGameContractError("search root is a terminal position")

// Search runs search(tree, limits, stop_signal) -> (best_move, statistics)
// per §4.4. stopSignal, if non-nil, is polled at each iteration boundary
// alongside ctx and limits; closing it has the same effect as Stop() on a
// Worker. statsCh, if non-nil, receives non-blocking intermediate
// snapshots at statsCadence (falling back to config.StatsCadence when
// statsCadence <= 0, so a per-request cadence can override the engine's
// default — §4.5 StartSearch{..., stats_cadence}).
func (e *Engine[S, M]) Search(ctx context.Context, tree *Tree[S, M], limits Limits, stopSignal <-chan struct{}, statsCh chan Statistics[M], statsCadence time.Duration) (Statistics[M], error) {
	ctx, span := tracer.Start(ctx, "mcts.Search")
	defer span.End()

	root := tree.RootNode()
	if root == nil {
		return Statistics[M]{}, newInternalError("tree has no root node")
	}
	if root.Terminal() || tree.game.IsTerminal(root.state) {
		return Statistics[M]{}, ErrRootTerminal
	}

	lim := newLimiter(ctx, limits)
	if stopSignal != nil {
		go func() {
			select {
			case <-stopSignal:
				lim.setStop()
			case <-ctx.Done():
			}
		}()
	}

	logger := e.config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	baseSeed := e.config.BaseSeed
	if baseSeed == 0 {
		baseSeed = SeedGeneratorFn()
	}

	var maxDepth atomic.Int64
	var collisions atomic.Int64
	var errsMu sync.Mutex
	var errs []*SearchError

	if statsCadence <= 0 {
		statsCadence = e.config.StatsCadence
	}
	publisher := newSnapshotPublisher(statsCh, statsCadence)

	numThreads := e.config.NumThreads
	if numThreads < 1 {
		numThreads = 1
	}

	var wg sync.WaitGroup
	for threadID := 0; threadID < numThreads; threadID++ {
		wg.Add(1)
		go func(threadID int) {
			defer wg.Done()
			rng := threadRand(baseSeed, threadID)

			for lim.ok() {
				depth, err := e.iterate(tree, lim, rng, &maxDepth, &collisions)
				lim.recordIteration()
				if err != nil {
					errsMu.Lock()
					errs = append(errs, err)
					errsMu.Unlock()
					logger.Warn("mcts: iteration failed", "thread", threadID, "error", err)
					continue
				}
				_ = depth

				if threadID == 0 {
					publisher.maybePublish(func() Statistics[M] {
						return e.snapshot(tree, lim, maxDepth.Load(), collisions.Load(), baseSeed)
					})
				}
			}
		}(threadID)
	}
	wg.Wait()

	reason := lim.evaluateStopReason()
	stats := e.snapshot(tree, lim, maxDepth.Load(), collisions.Load(), baseSeed)
	stats.Termination = reason

	span.SetAttributes(
		attribute.Int64("mcts.iterations", int64(stats.Iterations)),
		attribute.String("mcts.termination", reason.String()),
	)

	if combined := combineIterationErrors(errs); combined != nil {
		return stats, combined
	}
	return stats, nil
}

// iterate runs one full selection->expansion->simulation->backpropagation
// cycle (§4.4). It returns the descent depth reached, mainly so callers
// can maintain a running max-depth statistic.
func (e *Engine[S, M]) iterate(tree *Tree[S, M], lim *limiter, rng *rand.Rand, maxDepth, collisions *atomic.Int64) (int, *SearchError) {
	pool := tree.pool
	game := tree.game
	cpuct := e.config.ExplorationConstant
	vlWeight := e.config.VirtualLossWeight
	useRAVE := e.config.SelectionPolicy == SelectionRAVE

	path := make([]Handle, 0, 64)
	// playedMoves collects the moves taken while still inside the tree
	// (selection plus the one random ply descended after a fresh
	// expansion), for RAVE's AMAF sibling-crediting (rave.go). Moves made
	// during the rollout phase itself aren't tracked here since Playout
	// only returns terminal values, not a move trace — RAVE's AMAF bonus
	// in this engine is therefore scoped to in-tree moves, not the full
	// playout.
	var playedMoves []M
	if useRAVE {
		playedMoves = make([]M, 0, 64)
	}
	h := tree.Root()
	path = append(path, h)

	depth := 0
	for depth < maxSelectionDepth {
		node := pool.Get(h)
		if node == nil {
			return depth, newInternalError("selection dereferenced a stale handle")
		}
		if !node.Expanded() {
			break
		}
		var next Handle
		if useRAVE {
			next = selectChildRAVE(pool, node, e.config.RaveExplorationConstant, e.config.RaveBeta)
		} else {
			next = selectChild(pool, node, cpuct)
		}
		if !next.valid() {
			break
		}
		child := pool.Get(next)
		if child == nil {
			return depth, newInternalError("selected child handle is stale")
		}
		child.applyVirtualLoss(vlWeight)
		h = next
		path = append(path, h)
		if useRAVE {
			playedMoves = append(playedMoves, child.Move())
		}
		depth++
	}

	leaf := pool.Get(h)
	if leaf == nil {
		return depth, newInternalError("leaf handle is stale after selection")
	}

	var values []float64

	switch {
	case leaf.Terminal():
		values = leaf.TerminalValues()

	case leaf.tryBeginExpand():
		moves := game.LegalMoves(leaf.state)
		if len(moves) == 0 {
			values = terminalValues(game, leaf.state)
			leaf.finishExpandTerminal(values)
			break
		}

		handles, ok := pool.AllocBatch(uint32(len(moves)))
		lim.recordAllocationOutcome(!ok)
		if !ok {
			// §4.3 "Hard cap": treat the attempted leaf as terminal-for-
			// scoring using its current rollout value; no panic, no
			// further expansion attempted this iteration.
			values = rollout(game, leaf.state, rng)
			leaf.phase.Store(stateUnexpanded)
			break
		}

		childMoves := make([]M, len(moves))
		for i, m := range moves {
			pool.Init(handles[i], h, game.Apply(leaf.state, m), m, true)
			childMoves[i] = m
		}
		leaf.finishExpand(handles, childMoves)

		// Descend one uniformly-random ply into the just-expanded node for
		// this iteration's simulation, matching the teacher's
		// search.go Selection behavior after a fresh expansion.
		idx := rng.Intn(len(handles))
		chosen := pool.Get(handles[idx])
		chosen.applyVirtualLoss(vlWeight)
		h = handles[idx]
		path = append(path, h)
		if useRAVE {
			playedMoves = append(playedMoves, chosen.Move())
		}
		depth++
		values = rollout(game, chosen.state, rng)

	default:
		// Another thread is expanding; don't retry, treat this node as
		// this iteration's leaf (§4.2).
		collisions.Add(1)
		if collisionsCounter != nil {
			collisionsCounter.Add(context.Background(), 1)
		}
		for leaf.Expanding() {
			runtime.Gosched()
		}
		if leaf.Terminal() {
			values = leaf.TerminalValues()
		} else {
			values = rollout(game, leaf.state, rng)
		}
	}

	if useRAVE {
		backpropRAVE(game, pool, h, values, playedMoves, vlWeight)
	} else {
		e.backpropagate(tree, path, values, vlWeight)
	}

	if iterationsCounter != nil {
		iterationsCounter.Add(context.Background(), 1)
	}
	for {
		old := maxDepth.Load()
		if int64(depth) <= old || maxDepth.CompareAndSwap(old, int64(depth)) {
			break
		}
	}
	return depth, nil
}

// backpropagate walks path from leaf to root, reverting virtual losses and
// crediting each node with the value of the player who moved into it (§4.4
// step 4). That player is CurrentPlayer(parent.state), not CurrentPlayer
// (node.state): a child reached by player p's move must be scored from
// p's perspective so selectChild's "maximize child.Q()" correctly favors
// moves that are good for the player choosing among them. This generalizes
// the teacher's per-level 2-player sign flip (strategy.go/ucb.go's
// `result = 1.0 - result`) to an N-player value vector indexed by the
// parent's mover. The root has no parent and is never read by selectChild,
// so it is credited from its own CurrentPlayer for lack of anything else;
// its virtual-loss counter is also left untouched here since selection
// never applies virtual loss to the root (engine.go's descent loop only
// calls applyVirtualLoss on children) — reverting it here would underflow
// it below zero every iteration.
func (e *Engine[S, M]) backpropagate(tree *Tree[S, M], path []Handle, values []float64, vlWeight int64) {
	pool := tree.pool
	game := tree.game

	for i := len(path) - 1; i >= 0; i-- {
		node := pool.Get(path[i])
		if node == nil {
			continue
		}
		if i > 0 {
			node.revertVirtualLoss(vlWeight)
		}

		var mover Player
		if i == 0 {
			mover = game.CurrentPlayer(node.state)
		} else {
			parent := pool.Get(path[i-1])
			if parent == nil {
				continue
			}
			mover = game.CurrentPlayer(parent.state)
		}
		if int(mover) >= 0 && int(mover) < len(values) {
			node.addRollout(values[mover])
		}
	}
}

func (e *Engine[S, M]) snapshot(tree *Tree[S, M], lim *limiter, maxDepth, collisions, baseSeed int64) Statistics[M] {
	root := tree.RootNode()
	n := root.NumChildren()
	children := make([]ChildStat[M], n)
	for i := 0; i < n; i++ {
		h, m := root.ChildAt(i)
		child := tree.pool.MustGet(h)
		children[i] = ChildStat[M]{Move: m, Visits: child.Visits(), Q: child.Q()}
	}

	return Statistics[M]{
		Iterations:         lim.iterations.Load(),
		Nodes:              tree.Size(),
		MaxDepth:           int(maxDepth),
		WallTime:           lim.elapsed(),
		Termination:        lim.stopReason(),
		RootVisits:         root.Visits(),
		RootChildren:       children,
		CollisionCount:     collisions,
		AllocationsRefused: lim.allocationsRefused.Load(),
		BaseSeed:           baseSeed,
	}
}
