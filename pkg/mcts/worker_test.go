package mcts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arcanum-ai/mctsarena/pkg/games/connect4"
	"github.com/arcanum-ai/mctsarena/pkg/mcts"
)

func TestWorkerStartSearchProducesResult(t *testing.T) {
	cfg := mcts.DefaultConfig()
	cfg.MaxNodes = 5000
	cfg.NumThreads = 2
	w, err := mcts.NewWorker[connect4.State, connect4.Move](connect4.Game{}, cfg)
	require.NoError(t, err)
	defer w.Shutdown()

	w.StartSearch(connect4.NewState(), mcts.Limits{MaxIterations: 1000, Deadline: mcts.NoDeadline}, 0)

	// SearchProgress snapshots may arrive before the result; skip them.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case resp := <-w.Responses():
			if resp.Progress != nil {
				continue
			}
			require.NotNil(t, resp.Result, "expected a SearchResult, got %+v", resp)
			require.True(t, resp.Result.HasMove)
			return
		case <-deadline:
			t.Fatal("timed out waiting for search result")
		}
	}
}

func TestWorkerStartSearchWhileBusyReturnsBusyError(t *testing.T) {
	cfg := mcts.DefaultConfig()
	cfg.MaxNodes = 1 << 16
	cfg.NumThreads = 1
	w, err := mcts.NewWorker[connect4.State, connect4.Move](connect4.Game{}, cfg)
	require.NoError(t, err)
	defer w.Shutdown()

	w.StartSearch(connect4.NewState(), mcts.DefaultLimits(), 0)
	time.Sleep(10 * time.Millisecond) // let the search actually start
	w.StartSearch(connect4.NewState(), mcts.DefaultLimits(), 0)

	var gotBusy bool
	deadline := time.After(3 * time.Second)
	for !gotBusy {
		select {
		case resp := <-w.Responses():
			if resp.Error != nil && resp.Error.Kind == mcts.KindBusy {
				gotBusy = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for a Busy error")
		}
	}
	w.Stop()
}

func TestWorkerStopWhileIdleReturnsStopped(t *testing.T) {
	cfg := mcts.DefaultConfig()
	w, err := mcts.NewWorker[connect4.State, connect4.Move](connect4.Game{}, cfg)
	require.NoError(t, err)
	defer w.Shutdown()

	w.Stop()

	select {
	case resp := <-w.Responses():
		require.NotNil(t, resp.Stopped, "Stop() with no search in flight must respond Stopped, not block forever")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Stopped response")
	}
}
