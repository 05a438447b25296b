package agent

import (
	"context"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent that picks moves by tree search.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error) {
	if err := ctx.Err(); err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}
	move, metric := a.mcts.Search(state)
	return move, metric, nil
}
