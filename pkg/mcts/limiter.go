package mcts

import (
	"context"
	"sync/atomic"
	"time"
)

// StopReason explains why a search terminated (§4.4 "statistics ... and
// whether termination was by deadline, iteration cap, or stop signal").
// Modeled as a bitmask (teacher's limiter.go convention) since more than
// one condition can fire in the same instant.
type StopReason int32

const (
	StopNone StopReason = 0

	// StopInterrupt: Stop() was called or the worker's context was
	// cancelled (§7 "Stopped: normal early termination").
	StopInterrupt StopReason = 1 << iota
	// StopDeadline: the wall-clock deadline passed.
	StopDeadline
	// StopIterations: the iteration cap was reached.
	StopIterations
	// StopAllocationPressure: the node pool refused expansion for K
	// consecutive attempts (§4.4 "node-cap refusing expansions for K
	// consecutive attempts").
	StopAllocationPressure
)

func (r StopReason) String() string {
	if r == StopNone {
		return "None"
	}
	names := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopDeadline, "Deadline"},
		{StopIterations, "Iterations"},
		{StopAllocationPressure, "AllocationPressure"},
	}
	out := ""
	for _, n := range names {
		if r&n.flag == n.flag {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if out == "" {
		return "Unknown"
	}
	return out
}

// consecutiveAllocationRefusalLimit is K in §4.4's termination condition.
const consecutiveAllocationRefusalLimit = 32

// limiter centralizes the stop/deadline/iteration-cap/allocation-pressure
// bookkeeping shared by every worker goroutine in one search() call
// (§4.4 Termination, §5 Cancellation/Timeout semantics).
type limiter struct {
	limits Limits

	timer *deadlineTimer
	ctx   context.Context

	stop                atomic.Bool
	iterations          atomic.Uint64
	consecutiveRefusals atomic.Int32
	allocationsRefused  atomic.Uint64
	reason              atomic.Int32
}

func newLimiter(ctx context.Context, limits Limits) *limiter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &limiter{limits: limits, timer: newDeadlineTimer(limits.Deadline), ctx: ctx}
}

// setStop requests termination at the next iteration boundary (§5
// Cancellation: cooperative, checked between full iteration cycles).
func (l *limiter) setStop() { l.stop.Store(true) }

func (l *limiter) deadlineExceeded() bool {
	return l.timer.IsEnd()
}

func (l *limiter) iterationCapReached() bool {
	return l.iterations.Load() >= l.limits.MaxIterations
}

// ok reports whether a worker goroutine may start another iteration. Pure
// read-only check; does not itself record the stop reason (see
// evaluateStopReason, called once by the draining search() call).
func (l *limiter) ok() bool {
	if l.stop.Load() {
		return false
	}
	select {
	case <-l.ctx.Done():
		return false
	default:
	}
	if l.deadlineExceeded() {
		return false
	}
	if l.iterationCapReached() {
		return false
	}
	if l.consecutiveRefusals.Load() >= consecutiveAllocationRefusalLimit {
		return false
	}
	return true
}

func (l *limiter) recordIteration() { l.iterations.Add(1) }

// recordAllocationOutcome tracks K-in-a-row expansion refusals (§4.4).
func (l *limiter) recordAllocationOutcome(refused bool) {
	if refused {
		l.allocationsRefused.Add(1)
		l.consecutiveRefusals.Add(1)
	} else {
		l.consecutiveRefusals.Store(0)
	}
}

func (l *limiter) elapsed() time.Duration { return l.timer.Elapsed() }

// evaluateStopReason computes (and caches) why the search stopped. Called
// once, after all worker goroutines have drained.
func (l *limiter) evaluateStopReason() StopReason {
	reason := StopNone
	if l.stop.Load() {
		reason |= StopInterrupt
	}
	select {
	case <-l.ctx.Done():
		reason |= StopInterrupt
	default:
	}
	if l.deadlineExceeded() {
		reason |= StopDeadline
	}
	if l.iterationCapReached() {
		reason |= StopIterations
	}
	if l.consecutiveRefusals.Load() >= consecutiveAllocationRefusalLimit {
		reason |= StopAllocationPressure
	}
	l.reason.Store(int32(reason))
	return reason
}

func (l *limiter) stopReason() StopReason { return StopReason(l.reason.Load()) }
