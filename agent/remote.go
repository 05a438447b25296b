package agent

import (
	"context"
	"fmt"
	"time"

	"tictactoe/communication"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

type remoteAgent struct {
	comm       communication.Communicator
	budgetMs   int
	iterations int
	seed       *uint64
}

// NewRemoteAgent asks a move server for every move.
func NewRemoteAgent(comm communication.Communicator, budgetMs, iterations int, seed *uint64) Agent {
	return remoteAgent{comm: comm, budgetMs: budgetMs, iterations: iterations, seed: seed}
}

func (a remoteAgent) FindMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error) {
	resp, err := a.comm.FindMove(ctx, communication.FindMoveRequest{
		State:      &state,
		BudgetMs:   a.budgetMs,
		Iterations: a.iterations,
		Seed:       a.seed,
	})
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}
	if !state.IsLegal(resp.Move) {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("remote returned %v: %w", resp.Move, game.ErrIllegalMove)
	}

	return resp.Move, metrics.SearchMetric{
		Budget:     time.Duration(a.budgetMs) * time.Millisecond,
		Duration:   time.Duration(resp.DurationMs * float64(time.Millisecond)),
		Iterations: resp.Iterations,
		Nodes:      resp.Nodes,
	}, nil
}
