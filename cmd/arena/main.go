// Command arena is an AI-only demonstrator of the engine's control
// surface (§6): exploration constant, max-nodes, thread count, the
// shared-tree toggle, deadline, and iteration cap, all set via a YAML
// match config and run head-to-head through pkg/arena. It has no TUI,
// no settings menus, and no human move input — those are explicitly out
// of scope (§1) — it exists only to exercise the library from outside
// pkg/mcts.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arcanum-ai/mctsarena/pkg/arena"
	"github.com/arcanum-ai/mctsarena/pkg/games/connect4"
	"github.com/arcanum-ai/mctsarena/pkg/games/gomoku"
	"github.com/arcanum-ai/mctsarena/pkg/games/othello"
	"github.com/arcanum-ai/mctsarena/pkg/mcts"
)

// playerSettings is the YAML shape of one side's engine Config. Zero
// numeric values fall back to mcts.DefaultConfig(); shared_tree is taken
// as written, so leaving it out turns tree reuse off.
type playerSettings struct {
	ExplorationConstant float64 `yaml:"exploration_constant"`
	MaxNodes            uint32  `yaml:"max_nodes"`
	NumThreads          int     `yaml:"num_threads"`
	SharedTree          bool    `yaml:"shared_tree"`
	MoveTimeMS          int     `yaml:"move_time_ms"`
	MaxIterations       uint64  `yaml:"max_iterations"`
	VirtualLossWeight   int64   `yaml:"virtual_loss_weight"`
}

func (p playerSettings) toEngineConfig() mcts.Config {
	cfg := mcts.DefaultConfig()
	if p.ExplorationConstant > 0 {
		cfg.ExplorationConstant = p.ExplorationConstant
	}
	if p.MaxNodes > 0 {
		cfg.MaxNodes = p.MaxNodes
	}
	if p.NumThreads > 0 {
		cfg.NumThreads = p.NumThreads
	}
	cfg.SharedTree = p.SharedTree
	if p.VirtualLossWeight > 0 {
		cfg.VirtualLossWeight = p.VirtualLossWeight
	}
	return cfg
}

func (p playerSettings) limits() mcts.Limits {
	limits := mcts.DefaultLimits()
	if p.MoveTimeMS > 0 {
		limits.Deadline = time.Duration(p.MoveTimeMS) * time.Millisecond
	}
	if p.MaxIterations > 0 {
		limits.MaxIterations = p.MaxIterations
	}
	return limits
}

// matchConfig is the top-level YAML document a "versus" run reads.
type matchConfig struct {
	Game    string         `yaml:"game"`
	Games   int            `yaml:"games"`
	Workers int            `yaml:"workers"`
	Player1 playerSettings `yaml:"player1"`
	Player2 playerSettings `yaml:"player2"`
}

func runVersus[S any, M mcts.Move](game mcts.Game[S, M], initialState S, cfg matchConfig) error {
	p1 := cfg.Player1.toEngineConfig()
	p2 := cfg.Player2.toEngineConfig()

	a := arena.NewVersusArena[S, M](game, initialState, p1, p2)
	a.Setup(cfg.Player1.limits(), uint(cfg.Games), uint(cfg.Workers))
	a.Start("player1", "player2", arena.NopListener{})
	a.Wait()

	out, err := yaml.Marshal(a.Results())
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newVersusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "versus",
		Short: "play a two-engine match for a chosen game and print the summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
			var cfg matchConfig
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return fmt.Errorf("parsing config: %w", err)
			}
			if cfg.Games <= 0 {
				cfg.Games = 1
			}
			if cfg.Workers <= 0 {
				cfg.Workers = 1
			}

			switch cfg.Game {
			case "connect4":
				return runVersus[connect4.State, connect4.Move](connect4.Game{}, connect4.NewState(), cfg)
			case "gomoku":
				return runVersus[gomoku.State, gomoku.Move](gomoku.Game{}, gomoku.NewState(), cfg)
			case "othello":
				return runVersus[othello.State, othello.Move](othello.Game{}, othello.NewState(), cfg)
			default:
				return fmt.Errorf("unknown game %q (supported: connect4, gomoku, othello)", cfg.Game)
			}
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a match config YAML file")
	cmd.MarkFlagRequired("config")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:   "arena",
		Short: "drives pkg/mcts head-to-head over the bundled games",
	}
	root.AddCommand(newVersusCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
