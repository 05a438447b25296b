package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tictactoe/agent"
	"tictactoe/config"
	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

// Contender is an agent taking part in a match together with the settings it
// was built from.
type Contender struct {
	Config config.Agent
	Agent  agent.Agent
}

type Match struct {
	Name      string
	Agent1    Contender
	Agent2    Contender
	Games     int
	OutputDir string // records are not written when empty
}

type Result struct {
	Tally       metrics.Tally
	GameRecords []metrics.GameRecord
	MoveRecords []metrics.MoveRecord
	Dir         string // where records were written, if anywhere
}

// RunMatch plays m.Games games from the empty board. Agent 1 plays X in the
// first game and the agents swap marks every game.
func RunMatch(ctx context.Context, m Match) (Result, error) {
	if m.Games <= 0 {
		return Result{}, fmt.Errorf("match needs at least one game, got %d", m.Games)
	}

	var result Result
	log.Info().Msgf("starting %s match: %s vs %s over %d games...", m.Name, m.Agent1.Config.Name, m.Agent2.Config.Name, m.Games)

	for i := 0; i < m.Games; i++ {
		agent1Plays := game.X
		x, o := m.Agent1.Agent, m.Agent2.Agent
		if i%2 == 1 {
			agent1Plays = game.O
			x, o = o, x
		}

		winner, gameMetric, moveMetrics, err := engine.LocalEngine(x, o, game.NewState()).Run(ctx)
		if err != nil {
			return result, fmt.Errorf("game %d: %w", i+1, err)
		}

		id := i + 1
		result.Tally.Record(winner, agent1Plays)
		result.GameRecords = append(result.GameRecords, metrics.GameRecord{
			ID:          id,
			Agent1:      1,
			Agent2:      2,
			Agent1Plays: agent1Plays,
			GameMetric:  gameMetric,
		})
		for _, mm := range moveMetrics {
			result.MoveRecords = append(result.MoveRecords, metrics.MoveRecord{Game: id, MoveMetric: mm})
		}

		log.Info().Msgf("completed game %d of %d: winner=%q", id, m.Games, winner.String())
	}
	log.Info().Msgf("completed %s match: %v", m.Name, result.Tally)

	if m.OutputDir == "" {
		return result, nil
	}
	configs := []metrics.AgentConfig{
		agentConfig(1, m.Agent1.Config),
		agentConfig(2, m.Agent2.Config),
	}
	dir, err := writeRecords(m.OutputDir, m.Name, configs, result.GameRecords, result.MoveRecords)
	if err != nil {
		return result, err
	}
	result.Dir = dir
	return result, nil
}

func agentConfig(id int, c config.Agent) metrics.AgentConfig {
	ac := metrics.AgentConfig{
		ID:   id,
		Name: c.Name,
		Kind: c.Kind,
	}
	if c.Kind == config.KindMCTS || c.Kind == config.KindRemote {
		ac.Budget = c.Budget()
		ac.Iterations = c.Iterations
		ac.Decision = c.SearchDecision().String()
	}
	return ac
}

func writeRecords(root, name string, configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", err
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(games); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moves); err != nil {
		return "", err
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return writer.Dir(), nil
}
