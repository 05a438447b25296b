// Package config loads the agent, match and server settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tictactoe/searcher"
)

var (
	ErrUnknownAgent = errors.New("unknown agent")
	ErrInvalid      = errors.New("invalid config")
)

const (
	KindMCTS   = "mcts"
	KindRandom = "random"
	KindHuman  = "human"
	KindRemote = "remote"
)

type Agent struct {
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"`
	BudgetMs   int     `yaml:"budget_ms,omitempty"`
	Iterations int     `yaml:"iterations,omitempty"`
	Uncapped   bool    `yaml:"uncapped,omitempty"` // let the budget alone end the search
	Seed       *uint64 `yaml:"seed,omitempty"`
	Decision   string  `yaml:"decision,omitempty"`
	URL        string  `yaml:"url,omitempty"`
}

func (a Agent) Budget() time.Duration {
	return time.Duration(a.BudgetMs) * time.Millisecond
}

func (a Agent) SearchDecision() searcher.Decision {
	decision, _ := searcher.ParseDecision(a.Decision)
	return decision
}

type Play struct {
	X string `yaml:"x"`
	O string `yaml:"o"`
}

type Match struct {
	Agent1    string `yaml:"agent1"`
	Agent2    string `yaml:"agent2"`
	Games     int    `yaml:"games"`
	OutputDir string `yaml:"output_dir"`
}

type Server struct {
	Addr          string `yaml:"addr"`
	BudgetMs      int    `yaml:"budget_ms"`
	MaxBudgetMs   int    `yaml:"max_budget_ms"`
	MaxIterations int    `yaml:"max_iterations"`
	Decision      string `yaml:"decision,omitempty"`
}

type Config struct {
	LogLevel string  `yaml:"log_level"`
	Agents   []Agent `yaml:"agents"`
	Play     Play    `yaml:"play"`
	Match    Match   `yaml:"match"`
	Server   Server  `yaml:"server"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Agents: []Agent{
			{Name: "mcts", Kind: KindMCTS, BudgetMs: 1000},
			{Name: "random", Kind: KindRandom},
			{Name: "human", Kind: KindHuman},
		},
		Play: Play{X: "human", O: "mcts"},
		Match: Match{
			Agent1:    "mcts",
			Agent2:    "random",
			Games:     100,
			OutputDir: "results",
		},
		Server: Server{
			Addr:          ":8080",
			BudgetMs:      1000,
			MaxBudgetMs:   10_000,
			MaxIterations: 1_000_000,
		},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. A non-empty
// agents list replaces the default agents.
func Parse(data []byte) (Config, error) {
	c := Default()
	c.Agents = nil
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(c.Agents) == 0 {
		c.Agents = Default().Agents
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	seen := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent without a name: %w", ErrInvalid)
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate agent %q: %w", a.Name, ErrInvalid)
		}
		seen[a.Name] = true
		if err := a.validate(); err != nil {
			return err
		}
	}

	for _, name := range []string{c.Play.X, c.Play.O, c.Match.Agent1, c.Match.Agent2} {
		if _, err := c.Lookup(name); err != nil {
			return err
		}
	}
	if c.Match.Games <= 0 {
		return fmt.Errorf("match needs at least one game: %w", ErrInvalid)
	}
	if c.Server.BudgetMs < 0 || c.Server.MaxBudgetMs < 0 || c.Server.MaxIterations < 0 {
		return fmt.Errorf("server limits must not be negative: %w", ErrInvalid)
	}
	if _, ok := searcher.ParseDecision(c.Server.Decision); !ok {
		return fmt.Errorf("server decision %q: %w", c.Server.Decision, ErrInvalid)
	}
	return nil
}

func (a Agent) validate() error {
	switch a.Kind {
	case KindMCTS:
		if a.BudgetMs < 0 || a.Iterations < 0 {
			return fmt.Errorf("agent %q: budget and iterations must not be negative: %w", a.Name, ErrInvalid)
		}
		if _, ok := searcher.ParseDecision(a.Decision); !ok {
			return fmt.Errorf("agent %q: decision %q: %w", a.Name, a.Decision, ErrInvalid)
		}
	case KindRemote:
		if a.URL == "" {
			return fmt.Errorf("agent %q: remote agent needs a url: %w", a.Name, ErrInvalid)
		}
	case KindRandom, KindHuman:
	default:
		return fmt.Errorf("agent %q: kind %q: %w", a.Name, a.Kind, ErrInvalid)
	}
	return nil
}

// Lookup returns the agent with the given name.
func (c Config) Lookup(name string) (Agent, error) {
	for _, a := range c.Agents {
		if a.Name == name {
			return a, nil
		}
	}
	return Agent{}, fmt.Errorf("%q: %w", name, ErrUnknownAgent)
}
