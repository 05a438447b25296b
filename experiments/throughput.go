package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tictactoe/agent"
	"tictactoe/config"
	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

type Throughput struct {
	Budget         time.Duration
	Moves          int
	MeanIterations float64
	MeanNodes      float64
}

// RunThroughputExperiment measures how many iterations the searcher completes
// per move for each budget, using self-play with the same config on both
// sides.
func RunThroughputExperiment(ctx context.Context, budgets []time.Duration, games int, outputDir string) ([]Throughput, error) {
	if games <= 0 {
		return nil, fmt.Errorf("throughput experiment needs at least one game, got %d", games)
	}

	var (
		results     []Throughput
		configs     []metrics.AgentConfig
		gameRecords []metrics.GameRecord
		moveRecords []metrics.MoveRecord
		count       int
	)

	log.Info().Msg("starting throughput experiment...")
	for i, budget := range budgets {
		c := config.Agent{
			Name:     fmt.Sprintf("mcts-%v", budget),
			Kind:     config.KindMCTS,
			BudgetMs: int(budget.Milliseconds()),
			Uncapped: true,
		}
		id := i + 1
		configs = append(configs, agentConfig(id, c))

		r := Throughput{Budget: budget}
		for g := 0; g < games; g++ {
			a := agent.NewEvaluationAgent(agent.NewSearcher(c, true))
			_, gameMetric, moveMetrics, err := engine.LocalEngine(a, a, game.NewState()).Run(ctx)
			if err != nil {
				return results, fmt.Errorf("budget %v game %d: %w", budget, g+1, err)
			}

			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:          count,
				Agent1:      id,
				Agent2:      id,
				Agent1Plays: game.X,
				GameMetric:  gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{Game: count, MoveMetric: mm})
				r.Moves++
				r.MeanIterations += float64(mm.Iterations)
				r.MeanNodes += float64(mm.Nodes)
			}
		}
		if r.Moves > 0 {
			r.MeanIterations /= float64(r.Moves)
			r.MeanNodes /= float64(r.Moves)
		}
		results = append(results, r)
		log.Info().Msgf("budget %v: %.0f iterations and %.0f nodes per move", budget, r.MeanIterations, r.MeanNodes)
	}
	log.Info().Msg("completed throughput experiment")

	if outputDir != "" {
		if _, err := writeRecords(outputDir, "throughput", configs, gameRecords, moveRecords); err != nil {
			return results, err
		}
	}
	return results, nil
}
