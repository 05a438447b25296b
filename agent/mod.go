package agent

import (
	"context"
	"fmt"
	"io"
	"time"

	"tictactoe/communication/client"
	"tictactoe/config"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"
)

type Agent interface {
	// FindMove returns the move to play from state and search metrics (if collected)
	FindMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error)
}

// Console is where human agents read moves and write prompts.
type Console struct {
	In  io.Reader
	Out io.Writer
}

// FromConfig builds the agent described by c.
func FromConfig(c config.Agent, console Console) (Agent, error) {
	switch c.Kind {
	case config.KindMCTS:
		return NewEvaluationAgent(NewSearcher(c, true)), nil
	case config.KindRandom:
		return NewRandomAgent(c.Seed), nil
	case config.KindHuman:
		return NewHumanAgent(c.Name, console.In, console.Out), nil
	case config.KindRemote:
		comm := client.NewClientCommunicator(c.URL, remoteTimeout(c))
		return NewRemoteAgent(comm, c.BudgetMs, c.Iterations, c.Seed), nil
	default:
		return nil, fmt.Errorf("agent %q of kind %q: %w", c.Name, c.Kind, config.ErrUnknownAgent)
	}
}

// NewSearcher configures a searcher for c.
func NewSearcher(c config.Agent, withMetrics bool) *searcher.MCTS {
	options := []searcher.Option{
		searcher.WithDecision(c.SearchDecision()),
	}
	if c.BudgetMs > 0 {
		options = append(options, searcher.WithDuration(c.Budget()))
	}
	if c.Iterations > 0 {
		options = append(options, searcher.WithIterations(c.Iterations))
	}
	if c.Uncapped {
		options = append(options, searcher.WithMaxIterations(0))
	}
	if c.Seed != nil {
		options = append(options, searcher.WithSeed(*c.Seed))
	}
	if withMetrics {
		options = append(options, searcher.WithMetrics())
	}
	return searcher.NewMCTS(options...)
}

func remoteTimeout(c config.Agent) time.Duration {
	return c.Budget() + 10*time.Second
}
