// Package config loads the runtime configuration: search budgets, the
// evaluator choice, block die preferences and the server surface. Every
// field has a default; a YAML file overrides what it names; validation
// runs once over the merged result.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gridiron/eval"
	"gridiron/game"
	"gridiron/rules"
	"gridiron/scripted"
	"gridiron/searcher"
)

// Config is the whole runtime configuration.
type Config struct {
	Search    Search    `yaml:"search"`
	Evaluator Evaluator `yaml:"evaluator"`
	Dice      Dice      `yaml:"dice"`
	Server    Server    `yaml:"server"`
}

// Search configures every tree search. Iterations, when set, pin the budget
// and win over any duration.
type Search struct {
	BudgetMS    int     `yaml:"budget_ms"`
	Iterations  int     `yaml:"iterations"`
	Goroutines  int     `yaml:"goroutines"`
	Exploration float64 `yaml:"exploration"`
	Seed        uint64  `yaml:"seed"`
}

// Evaluator names the leaf evaluator: heuristic, playout or net.
type Evaluator struct {
	Kind      string `yaml:"kind"`
	ModelPath string `yaml:"model_path"`
	BatchSize int    `yaml:"batch_size"`
	MaxMoves  int    `yaml:"max_moves"`
}

// Dice overrides the block die face orders, most wanted first. An override
// applies with and without the Block skill; leave a side empty to keep the
// built-in order.
type Dice struct {
	Attacker []string `yaml:"attacker"`
	Defender []string `yaml:"defender"`
}

// Server configures the HTTP surface. BudgetMS is the per-request default
// used when a request carries none.
type Server struct {
	Addr     string `yaml:"addr"`
	BudgetMS int    `yaml:"budget_ms"`
}

// Default returns the configuration used when no file overrides anything.
func Default() Config {
	return Config{
		Search: Search{
			BudgetMS:    500,
			Goroutines:  1,
			Exploration: math.Sqrt2,
			Seed:        1,
		},
		Evaluator: Evaluator{
			Kind:      "heuristic",
			BatchSize: 8,
			MaxMoves:  30,
		},
		Server: Server{
			Addr:     ":8080",
			BudgetMS: 500,
		},
	}
}

// Load merges the file at path over the defaults and validates the result.
// An empty path loads the plain defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the merged configuration before anything is built from it.
func (c Config) Validate() error {
	if c.Search.BudgetMS < 0 {
		return fmt.Errorf("search.budget_ms must not be negative, got %d", c.Search.BudgetMS)
	}
	if c.Search.BudgetMS == 0 && c.Search.Iterations <= 0 {
		return fmt.Errorf("search needs budget_ms or iterations")
	}
	if c.Search.Goroutines < 1 {
		return fmt.Errorf("search.goroutines must be at least 1, got %d", c.Search.Goroutines)
	}
	if c.Search.Exploration <= 0 {
		return fmt.Errorf("search.exploration must be positive, got %g", c.Search.Exploration)
	}

	switch c.Evaluator.Kind {
	case "heuristic", "playout":
	case "net":
		if c.Evaluator.ModelPath == "" {
			return fmt.Errorf("evaluator.model_path is required for kind net")
		}
	default:
		return fmt.Errorf("evaluator.kind must be heuristic, playout or net, got %q", c.Evaluator.Kind)
	}
	if c.Evaluator.BatchSize < 1 {
		return fmt.Errorf("evaluator.batch_size must be at least 1, got %d", c.Evaluator.BatchSize)
	}
	if c.Evaluator.MaxMoves < 1 {
		return fmt.Errorf("evaluator.max_moves must be at least 1, got %d", c.Evaluator.MaxMoves)
	}

	if _, err := parseFaces(c.Dice.Attacker); err != nil {
		return fmt.Errorf("dice.attacker: %w", err)
	}
	if _, err := parseFaces(c.Dice.Defender); err != nil {
		return fmt.Errorf("dice.defender: %w", err)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.BudgetMS < 1 {
		return fmt.Errorf("server.budget_ms must be at least 1, got %d", c.Server.BudgetMS)
	}
	return nil
}

// Options renders the search section as searcher options.
func (s Search) Options() []searcher.Option {
	opts := []searcher.Option{
		searcher.WithGoroutines(s.Goroutines),
		searcher.WithExploration(s.Exploration),
		searcher.WithSeed(s.Seed),
	}
	if s.Iterations > 0 {
		opts = append(opts, searcher.WithIterations(s.Iterations))
	}
	if s.BudgetMS > 0 {
		opts = append(opts, searcher.WithDuration(s.Budget()))
	}
	return opts
}

// Budget returns the per-decision duration budget.
func (s Search) Budget() time.Duration {
	return time.Duration(s.BudgetMS) * time.Millisecond
}

// Build returns the configured leaf evaluator. The caller owns closing a
// net evaluator.
func (e Evaluator) Build(engine rules.Engine, policy *scripted.Policy, seed uint64) (eval.Evaluator, error) {
	switch e.Kind {
	case "heuristic":
		return eval.Heuristic{}, nil
	case "playout":
		return eval.NewPlayout(engine, policy, seed, eval.WithMaxMoves(e.MaxMoves)), nil
	case "net":
		return eval.NewNet(e.ModelPath, eval.WithBatchSize(e.BatchSize))
	default:
		return nil, fmt.Errorf("evaluator.kind must be heuristic, playout or net, got %q", e.Kind)
	}
}

// preferences parses both sides of the dice section. A nil preference means
// the side keeps its built-in tables.
func (d Dice) preferences() (attacker, defender *rules.DicePreference, err error) {
	if len(d.Attacker) > 0 {
		faces, err := parseFaces(d.Attacker)
		if err != nil {
			return nil, nil, fmt.Errorf("dice.attacker: %w", err)
		}
		attacker = &rules.DicePreference{Primary: faces, WithBlock: faces}
	}
	if len(d.Defender) > 0 {
		faces, err := parseFaces(d.Defender)
		if err != nil {
			return nil, nil, fmt.Errorf("dice.defender: %w", err)
		}
		defender = &rules.DicePreference{Primary: faces, WithBlock: faces}
	}
	return attacker, defender, nil
}

// Options renders the dice section as policy options.
func (d Dice) Options() ([]scripted.Option, error) {
	attacker, defender, err := d.preferences()
	if err != nil {
		return nil, err
	}
	var opts []scripted.Option
	if attacker != nil {
		opts = append(opts, scripted.WithAttackerDice(*attacker))
	}
	if defender != nil {
		opts = append(opts, scripted.WithDefenderDice(*defender))
	}
	return opts, nil
}

// EngineOptions renders the dice section as engine options, so block
// distributions fold the same face pick the policy would make.
func (d Dice) EngineOptions() ([]rules.Option, error) {
	attacker, defender, err := d.preferences()
	if err != nil {
		return nil, err
	}
	var opts []rules.Option
	if attacker != nil {
		opts = append(opts, rules.WithAttackerDice(*attacker))
	}
	if defender != nil {
		opts = append(opts, rules.WithDefenderDice(*defender))
	}
	return opts, nil
}

// Policy builds the scripted policy with any die overrides applied.
func (d Dice) Policy() (*scripted.Policy, error) {
	opts, err := d.Options()
	if err != nil {
		return nil, err
	}
	return scripted.NewPolicy(opts...), nil
}

// Engine builds the local engine with any die overrides applied.
func (d Dice) Engine() (*rules.LocalEngine, error) {
	opts, err := d.EngineOptions()
	if err != nil {
		return nil, err
	}
	return rules.NewLocalEngine(opts...), nil
}

// Budget returns the default per-request budget.
func (s Server) Budget() time.Duration {
	return time.Duration(s.BudgetMS) * time.Millisecond
}

func parseFaces(names []string) ([]game.ActionType, error) {
	faces := make([]game.ActionType, 0, len(names))
	for _, name := range names {
		at, err := game.ParseActionType(name)
		if err != nil {
			return nil, err
		}
		if !isBlockFace(at) {
			return nil, fmt.Errorf("%s is not a block die face", at)
		}
		faces = append(faces, at)
	}
	return faces, nil
}

func isBlockFace(at game.ActionType) bool {
	switch at {
	case game.ActSelectAttackerDown, game.ActSelectBothDown, game.ActSelectPush,
		game.ActSelectDefenderStumbles, game.ActSelectDefenderDown:
		return true
	default:
		return false
	}
}
