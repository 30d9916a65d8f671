package mcts

import "time"

// ChildStat is one root child's contribution to a Statistics snapshot
// (§4.4 "per-child visits/Q for the root").
type ChildStat[M Move] struct {
	Move   M
	Visits int64
	Q      float64
}

// Statistics summarizes one search() call, or an in-flight snapshot of one
// (§4.4 "Result extraction", "Statistics snapshot").
type Statistics[M Move] struct {
	Iterations  uint64
	Nodes       uint32
	MaxDepth    int
	WallTime    time.Duration
	Termination StopReason

	RootVisits int64
	RootChildren []ChildStat[M]

	CollisionCount     int64
	AllocationsRefused uint64

	BaseSeed int64
}

// snapshotPublisher fans a non-blocking statistics snapshot out to a
// consumer channel at most once per StatsCadence (§4.4 "Statistics
// snapshot": "published ... non-blocking; dropped if full"). Grounded on
// the teacher's stats_listener.go cadence-gated onCycle callback,
// generalized from a synchronous callback into a channel send so a slow
// consumer can never stall the search.
type snapshotPublisher[M Move] struct {
	ch      chan Statistics[M]
	cadence time.Duration
	last    time.Time
}

func newSnapshotPublisher[M Move](ch chan Statistics[M], cadence time.Duration) *snapshotPublisher[M] {
	return &snapshotPublisher[M]{ch: ch, cadence: cadence}
}

func (p *snapshotPublisher[M]) maybePublish(snapshot func() Statistics[M]) {
	if p == nil || p.ch == nil || p.cadence <= 0 {
		return
	}
	now := time.Now()
	if !p.last.IsZero() && now.Sub(p.last) < p.cadence {
		return
	}
	p.last = now
	select {
	case p.ch <- snapshot():
	default:
		// Consumer isn't keeping up; drop this snapshot rather than block
		// the search (§4.4).
	}
}
