package mcts_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arcanum-ai/mctsarena/pkg/games/connect4"
	"github.com/arcanum-ai/mctsarena/pkg/mcts"
)

func TestEngineSearchReturnsLegalMove(t *testing.T) {
	game := connect4.Game{}
	state := connect4.NewState()

	cfg := mcts.DefaultConfig()
	cfg.MaxNodes = 20000
	cfg.NumThreads = 2
	cfg.BaseSeed = 42
	engine, err := mcts.NewEngine[connect4.State, connect4.Move](cfg)
	require.NoError(t, err)

	tree := mcts.NewTree[connect4.State, connect4.Move](game, state, cfg.MaxNodes)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stats, err := engine.Search(ctx, tree, mcts.Limits{MaxIterations: 2000, Deadline: mcts.NoDeadline}, nil, nil, 0)
	require.NoError(t, err)
	require.Greater(t, stats.Iterations, uint64(0))
	require.Equal(t, mcts.StopIterations, stats.Termination)

	move, ok := mcts.BestMove(tree)
	require.True(t, ok)
	require.Contains(t, game.LegalMoves(state), move)
}

func TestEngineSearchFindsImmediateWinningColumn(t *testing.T) {
	game := connect4.Game{}
	state := connect4.NewState()
	// Red drops into columns 0, 1, 2 while Yellow stacks column 5,
	// leaving column 3 open to complete Red's horizontal four-in-a-row.
	for _, col := range []int{0, 5, 1, 5, 2, 5} {
		state = game.Apply(state, col)
	}
	require.Equal(t, mcts.Player(0), game.CurrentPlayer(state), "Red (player 0) must be on move")

	cfg := mcts.DefaultConfig()
	cfg.MaxNodes = 20000
	cfg.NumThreads = 4
	cfg.BaseSeed = 7
	engine, err := mcts.NewEngine[connect4.State, connect4.Move](cfg)
	require.NoError(t, err)

	tree := mcts.NewTree[connect4.State, connect4.Move](game, state, cfg.MaxNodes)
	stats, err := engine.Search(context.Background(), tree, mcts.Limits{MaxIterations: 8000, Deadline: mcts.NoDeadline}, nil, nil, 0)
	require.NoError(t, err)
	require.Greater(t, stats.Iterations, uint64(0))

	move, ok := mcts.BestMove(tree)
	require.True(t, ok)
	require.Equal(t, 3, move, "dropping into column 3 completes Red's four-in-a-row on row 0")
}

func TestEngineSearchZeroDeadlineReturnsImmediateFallbackMove(t *testing.T) {
	game := connect4.Game{}
	state := connect4.NewState()

	cfg := mcts.DefaultConfig()
	engine, err := mcts.NewEngine[connect4.State, connect4.Move](cfg)
	require.NoError(t, err)

	tree := mcts.NewTree[connect4.State, connect4.Move](game, state, cfg.MaxNodes)
	stats, err := engine.Search(context.Background(), tree, mcts.Limits{MaxIterations: ^uint64(0), Deadline: 0}, nil, nil, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), stats.Iterations, "§8: deadline = 0 must return with zero iterations")
	require.Equal(t, mcts.StopDeadline, stats.Termination)

	move, ok := mcts.BestMove(tree)
	require.True(t, ok, "deadline = 0 must still fall back to a legal move, not report none found")
	require.Contains(t, game.LegalMoves(state), move)
}

func TestEngineSearchRAVESelectionPolicyFindsImmediateWinningColumn(t *testing.T) {
	game := connect4.Game{}
	state := connect4.NewState()
	for _, col := range []int{0, 5, 1, 5, 2, 5} {
		state = game.Apply(state, col)
	}

	cfg := mcts.DefaultConfig()
	cfg.MaxNodes = 20000
	cfg.NumThreads = 4
	cfg.BaseSeed = 11
	cfg.SelectionPolicy = mcts.SelectionRAVE
	cfg.RaveExplorationConstant = 1.0
	engine, err := mcts.NewEngine[connect4.State, connect4.Move](cfg)
	require.NoError(t, err)

	tree := mcts.NewTree[connect4.State, connect4.Move](game, state, cfg.MaxNodes)
	stats, err := engine.Search(context.Background(), tree, mcts.Limits{MaxIterations: 8000, Deadline: mcts.NoDeadline}, nil, nil, 0)
	require.NoError(t, err)
	require.Greater(t, stats.Iterations, uint64(0))

	move, ok := mcts.BestMove(tree)
	require.True(t, ok)
	require.Equal(t, 3, move, "RAVE selection must also find Red's immediate winning column")
}

func TestEngineSearchRootTerminalReturnsError(t *testing.T) {
	game := connect4.Game{}
	state := connect4.NewState()
	for _, col := range []int{0, 0, 1, 1, 2, 2, 3} {
		state = game.Apply(state, col)
	}
	require.True(t, game.IsTerminal(state), "Red should already have four in a row on row 0")

	cfg := mcts.DefaultConfig()
	engine, err := mcts.NewEngine[connect4.State, connect4.Move](cfg)
	require.NoError(t, err)
	tree := mcts.NewTree[connect4.State, connect4.Move](game, state, cfg.MaxNodes)

	_, err = engine.Search(context.Background(), tree, mcts.DefaultLimits(), nil, nil, 0)
	require.ErrorIs(t, err, mcts.ErrRootTerminal)
}

func TestEngineSearchRespectsStopSignal(t *testing.T) {
	game := connect4.Game{}
	state := connect4.NewState()

	cfg := mcts.DefaultConfig()
	cfg.MaxNodes = 1 << 20
	cfg.NumThreads = 2
	engine, err := mcts.NewEngine[connect4.State, connect4.Move](cfg)
	require.NoError(t, err)

	tree := mcts.NewTree[connect4.State, connect4.Move](game, state, cfg.MaxNodes)
	stop := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(stop)
	}()

	stats, err := engine.Search(context.Background(), tree, mcts.DefaultLimits(), stop, nil, 0)
	require.NoError(t, err)
	require.Equal(t, mcts.StopInterrupt, stats.Termination)
}

func TestEngineAdvanceRootReusesTreeAcrossMoves(t *testing.T) {
	game := connect4.Game{}
	state := connect4.NewState()

	cfg := mcts.DefaultConfig()
	cfg.MaxNodes = 5000
	cfg.SharedTree = true
	engine, err := mcts.NewEngine[connect4.State, connect4.Move](cfg)
	require.NoError(t, err)

	tree := mcts.NewTree[connect4.State, connect4.Move](game, state, cfg.MaxNodes)
	_, err = engine.Search(context.Background(), tree, mcts.Limits{MaxIterations: 1000, Deadline: mcts.NoDeadline}, nil, nil, 0)
	require.NoError(t, err)

	move, ok := mcts.BestMove(tree)
	require.True(t, ok)
	sizeBefore := tree.Size()

	tree.AdvanceRoot(move)
	require.LessOrEqual(t, tree.Size(), sizeBefore, "advancing root must never grow the tree beyond what searching already built")
	require.Equal(t, game.Apply(state, move), tree.RootNode().State())
}
