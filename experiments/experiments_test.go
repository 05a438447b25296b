package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tictactoe/agent"
	"tictactoe/config"
	"tictactoe/game"
)

func randomContender(name string, seed uint64) Contender {
	c := config.Agent{Name: name, Kind: config.KindRandom, Seed: &seed}
	a, err := agent.FromConfig(c, agent.Console{})
	if err != nil {
		panic(err)
	}
	return Contender{Config: c, Agent: a}
}

func TestRunMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("alternates marks and tallies every game", func(t *testing.T) {
		result, err := RunMatch(ctx, Match{
			Name:   "random",
			Agent1: randomContender("a", 1),
			Agent2: randomContender("b", 2),
			Games:  20,
		})

		require.NoError(t, err)
		require.Equal(t, 20, result.Tally.Total())
		require.Equal(t, result.Tally.XWins+result.Tally.OWins, result.Tally.Agent1Wins+result.Tally.Agent2Wins)
		require.Len(t, result.GameRecords, 20)
		require.Empty(t, result.Dir)
		for i, r := range result.GameRecords {
			expected := game.X
			if i%2 == 1 {
				expected = game.O
			}
			require.Equal(t, expected, r.Agent1Plays)
			require.Equal(t, game.X, r.StartingPlayer)
			require.GreaterOrEqual(t, r.TotalMoves, 5)
		}

		moves := 0
		for _, r := range result.GameRecords {
			moves += r.TotalMoves
		}
		require.Len(t, result.MoveRecords, moves)
	})

	t.Run("search never loses to random play", func(t *testing.T) {
		seed := uint64(11)
		c := config.Agent{Name: "mcts", Kind: config.KindMCTS, Iterations: 5000, Seed: &seed}
		mcts, err := agent.FromConfig(c, agent.Console{})
		require.NoError(t, err)

		result, err := RunMatch(ctx, Match{
			Name:   "mcts-vs-random",
			Agent1: Contender{Config: c, Agent: mcts},
			Agent2: randomContender("random", 3),
			Games:  4,
		})

		require.NoError(t, err)
		require.Zero(t, result.Tally.Agent2Wins)
		require.Equal(t, 5000, result.MoveRecords[0].Iterations)
	})

	t.Run("writes records", func(t *testing.T) {
		root := t.TempDir()
		result, err := RunMatch(ctx, Match{
			Name:      "written",
			Agent1:    randomContender("a", 1),
			Agent2:    randomContender("b", 2),
			Games:     2,
			OutputDir: root,
		})

		require.NoError(t, err)
		require.DirExists(t, result.Dir)
		for _, name := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			require.FileExists(t, filepath.Join(result.Dir, name))
		}
		rel, err := filepath.Rel(root, result.Dir)
		require.NoError(t, err)
		require.Equal(t, "written", filepath.Dir(rel))
	})

	t.Run("rejects empty matches", func(t *testing.T) {
		_, err := RunMatch(ctx, Match{Games: 0})
		require.Error(t, err)
	})

	t.Run("stops on a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := RunMatch(cancelled, Match{
			Agent1: randomContender("a", 1),
			Agent2: randomContender("b", 2),
			Games:  3,
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunThroughputExperiment(t *testing.T) {
	root := t.TempDir()
	budgets := []time.Duration{time.Millisecond, 2 * time.Millisecond}

	results, err := RunThroughputExperiment(context.Background(), budgets, 1, root)

	require.NoError(t, err)
	require.Len(t, results, 2)
	for i, r := range results {
		require.Equal(t, budgets[i], r.Budget)
		require.GreaterOrEqual(t, r.Moves, 5)
		require.GreaterOrEqual(t, r.MeanIterations, 1.0)
		require.Greater(t, r.MeanNodes, 1.0)
	}

	entries, err := os.ReadDir(filepath.Join(root, "throughput"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
