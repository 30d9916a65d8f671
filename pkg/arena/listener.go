package arena

// Listener observes a running arena match. Implementations must be safe
// to Clone: Start spawns one clone per worker goroutine (grounded on the
// teacher's bench.ListenerLike, which the same per-worker-clone shape).
type Listener interface {
	SetRow(row int)
	OnStart()
	OnGameStart()
	OnMoveMade(info WorkerInfo)
	OnFinishedGame(info WorkerInfo)
	OnFinishedWork(info WorkerInfo)
	Summary(info SummaryInfo)
	OnEnd()
	Clone() Listener
}

// NopListener discards every event. It is the default when callers don't
// need progress reporting.
type NopListener struct{}

func (NopListener) SetRow(int)                {}
func (NopListener) OnStart()                  {}
func (NopListener) OnGameStart()              {}
func (NopListener) OnMoveMade(WorkerInfo)     {}
func (NopListener) OnFinishedGame(WorkerInfo) {}
func (NopListener) OnFinishedWork(WorkerInfo) {}
func (NopListener) Summary(SummaryInfo)       {}
func (NopListener) OnEnd()                    {}
func (NopListener) Clone() Listener           { return NopListener{} }
