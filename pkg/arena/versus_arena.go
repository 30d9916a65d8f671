package arena

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arcanum-ai/mctsarena/pkg/mcts"
)

// VersusArena plays many independent games between two engine
// configurations over a 2-player mcts.Game, splitting the work across
// NThreads worker goroutines (grounded on the teacher's
// bench.VersusArena concurrency shape: per-worker WaitGroup, atomic
// Stats, worker 0 elected to wait on the others and print the summary).
//
// Its primary use is §8 Scenario 6: run the same pair of players once
// with both Configs' SharedTree true and once with both false, and
// compare the resulting Stats to quantify what tree reuse across moves
// buys (or costs) in playing strength.
type VersusArena[S any, M mcts.Move] struct {
	Stats

	game         mcts.Game[S, M]
	initialState S
	p1Config     mcts.Config
	p2Config     mcts.Config

	NGames   uint
	NThreads uint
	Limits   mcts.Limits

	p1name, p2name string
	wg             sync.WaitGroup
	finished       atomic.Bool
	ctx            context.Context
}

// NewVersusArena builds an arena for game starting at initialState,
// matching p1Config against p2Config.
func NewVersusArena[S any, M mcts.Move](game mcts.Game[S, M], initialState S, p1Config, p2Config mcts.Config) *VersusArena[S, M] {
	return &VersusArena[S, M]{
		game:         game,
		initialState: initialState,
		p1Config:     p1Config,
		p2Config:     p2Config,
		NGames:       100,
		NThreads:     2,
		Limits:       mcts.Limits{MaxIterations: ^uint64(0), Deadline: time.Second},
		ctx:          context.Background(),
	}
}

func (va *VersusArena[S, M]) WithContext(ctx context.Context) *VersusArena[S, M] {
	va.ctx = ctx
	return va
}

func (va *VersusArena[S, M]) Setup(limits mcts.Limits, nGames, nThreads uint) {
	va.NGames = nGames
	va.Limits = limits
	va.NThreads = nThreads
}

// Wait blocks until every worker, and the summary print on worker 0, has
// completed.
func (va *VersusArena[S, M]) Wait() {
	va.wg.Wait()
	for !va.finished.Load() {
		runtime.Gosched()
	}
}

// Start distributes NGames roughly evenly across NThreads worker
// goroutines and begins play.
func (va *VersusArena[S, M]) Start(p1name, p2name string, listener Listener) {
	if listener == nil {
		listener = NopListener{}
	}
	va.finished.Store(false)
	va.p1name, va.p2name = p1name, p2name
	listener.OnStart()

	nGames := va.NGames / va.NThreads
	rest := uint(0)
	if va.NThreads > 1 {
		rest = va.NGames % va.NThreads
	}
	va.wg.Add(int(va.NThreads))

	for i := uint(0); i < va.NThreads; i++ {
		delta := uint(0)
		if rest > 0 {
			delta = 1
			rest--
		}
		l := listener.Clone()
		l.SetRow(int(i))
		go va.worker(int(i), int(nGames+delta), l)
	}
}

func (va *VersusArena[S, M]) Results() SummaryInfo {
	return SummaryInfo{
		TotalGames:       va.Total(),
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		Draws:            va.Draws(),
		Workers:          int(va.NThreads),
		P1Name:           va.p1name,
		P2Name:           va.p2name,
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
	}
}

func (va *VersusArena[S, M]) worker(id, nGames int, listener Listener) {
	// Worker 0 waits on the group below, so it must mark itself done
	// first; OnceFunc keeps the deferred call from counting it twice.
	done := sync.OnceFunc(va.wg.Done)
	defer done()

	rng := rand.New(rand.NewSource(time.Now().UnixNano() ^ (int64(id) << 32) ^ rand.Int63()))
	local := Stats{}
	listener.OnGameStart()

	for gameIdx := 0; gameIdx < nGames; gameIdx++ {
		select {
		case <-va.ctx.Done():
			goto summarize
		default:
		}

		p1GoesFirst := rng.Intn(2) == 0
		moves, o, err := va.playGame(va.ctx, p1GoesFirst, func(info WorkerInfo) {
			info.WorkerID, info.NGames, info.FinishedGames = id, nGames, gameIdx
			info.P1Name, info.P2Name = va.p1name, va.p2name
			listener.OnMoveMade(info)
		})
		if err != nil {
			va.finished.Store(true)
			return
		}

		result := toMatchResult(o, p1GoesFirst)
		va.Stats.record(result, o.firstPlayerWon)
		local.record(result, o.firstPlayerWon)

		listener.OnFinishedGame(WorkerInfo{
			WorkerID: id, NGames: nGames, FinishedGames: gameIdx + 1,
			GameMoveNum: len(moves), P1Wins: local.P1Wins(), P2Wins: local.P2Wins(),
			Draws: local.Draws(), FirstToMoveWins: local.FirstToMoveWins(),
			SecondToMoveWins: local.SecondToMoveWins(), P1Name: va.p1name, P2Name: va.p2name,
		})
	}

summarize:
	listener.OnFinishedWork(WorkerInfo{
		WorkerID: id, NGames: nGames, FinishedGames: va.Total(),
		P1Wins: local.P1Wins(), P2Wins: local.P2Wins(), Draws: local.Draws(),
		FirstToMoveWins: local.FirstToMoveWins(), SecondToMoveWins: local.SecondToMoveWins(),
		P1Name: va.p1name, P2Name: va.p2name,
	})

	if id == 0 {
		done()
		va.wg.Wait()
		listener.Summary(va.Results())
		listener.OnEnd()
		va.finished.Store(true)
	}
}

// playGame runs a single game to completion, alternating searches
// between the two configured players starting with whichever one
// p1GoesFirst assigns to the board's first mover.
func (va *VersusArena[S, M]) playGame(ctx context.Context, p1GoesFirst bool, onMove func(WorkerInfo)) ([]M, outcome, error) {
	state := va.initialState
	firstMover := va.game.CurrentPlayer(state)

	s1, err := newSearcher(va.game, va.p1Config, state)
	if err != nil {
		return nil, outcome{}, err
	}
	s2, err := newSearcher(va.game, va.p2Config, state)
	if err != nil {
		return nil, outcome{}, err
	}

	current, other := s1, s2
	if !p1GoesFirst {
		current, other = s2, s1
	}

	var moves []M
	for !va.game.IsTerminal(state) {
		select {
		case <-ctx.Done():
			return moves, outcome{}, nil
		default:
		}

		move, err := current.search(ctx, va.Limits)
		if err != nil {
			return moves, outcome{}, fmt.Errorf("arena: search failed: %w", err)
		}
		state = va.game.Apply(state, move)
		moves = append(moves, move)
		current.advance(move, state)
		other.advance(move, state)
		onMove(WorkerInfo{GameMoveNum: len(moves)})
		current, other = other, current
	}

	// VersusArena's win/loss bookkeeping assumes two agents; N-player
	// games (Blokus) are exercised directly by engine/Playout tests
	// instead of head-to-head arena play.
	otherPlayer := mcts.Player(1 - int(firstMover))

	v0 := va.game.TerminalValue(state, firstMover)
	v1 := va.game.TerminalValue(state, otherPlayer)
	if v0 == v1 {
		return moves, outcome{isDraw: true}, nil
	}
	return moves, outcome{firstPlayerWon: v0 > v1}, nil
}

// searcher wraps one player's engine and tree for the duration of a
// single game, handling the SharedTree toggle (§4.5 "Tree reuse").
type searcher[S any, M mcts.Move] struct {
	game   mcts.Game[S, M]
	engine *mcts.Engine[S, M]
	tree   *mcts.Tree[S, M]
	cfg    mcts.Config
}

func newSearcher[S any, M mcts.Move](game mcts.Game[S, M], cfg mcts.Config, initialState S) (*searcher[S, M], error) {
	engine, err := mcts.NewEngine[S, M](cfg)
	if err != nil {
		return nil, err
	}
	return &searcher[S, M]{
		game:   game,
		engine: engine,
		tree:   mcts.NewTree[S, M](game, initialState, cfg.MaxNodes),
		cfg:    cfg,
	}, nil
}

func (s *searcher[S, M]) search(ctx context.Context, limits mcts.Limits) (M, error) {
	var zero M
	if _, err := s.engine.Search(ctx, s.tree, limits, nil, nil, 0); err != nil {
		return zero, err
	}
	move, ok := mcts.BestMove(s.tree)
	if !ok {
		return zero, fmt.Errorf("arena: search produced no move")
	}
	return move, nil
}

// advance keeps this player's tree in sync with a move actually played
// in the game, whether it was this player's own move or the opponent's.
// With SharedTree on, AdvanceRoot reuses the matching subtree (§4.3);
// otherwise the tree is rebuilt fresh from the resulting state.
func (s *searcher[S, M]) advance(move M, resultState S) {
	if s.cfg.SharedTree {
		s.tree.AdvanceRoot(move)
		return
	}
	s.tree = mcts.NewTree[S, M](s.game, resultState, s.cfg.MaxNodes)
}
