package agent

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tictactoe/communication"
	"tictactoe/communication/server"
	"tictactoe/config"
	"tictactoe/game"
	"tictactoe/searcher"
)

var immediateWin = game.MustParse([]string{"XX ", "   ", "   "}, game.X)

func TestEvaluationAgent(t *testing.T) {
	ctx := context.Background()

	t.Run("plays the winning move", func(t *testing.T) {
		a := NewEvaluationAgent(searcher.NewMCTS(searcher.WithIterations(2000), searcher.WithSeed(1), searcher.WithMetrics()))

		move, metric, err := a.FindMove(ctx, immediateWin)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 2}, move)
		require.Equal(t, 2000, metric.Iterations)
	})

	t.Run("stops on a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := NewEvaluationAgent(searcher.NewMCTS()).FindMove(cancelled, immediateWin)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRandomAgent(t *testing.T) {
	seed := uint64(5)
	a := NewRandomAgent(&seed)
	state := game.MustParse([]string{"XO ", " X ", "O  "}, game.X)

	for k := 0; k < 50; k++ {
		move, _, err := a.FindMove(context.Background(), state)
		require.NoError(t, err)
		require.True(t, state.IsLegal(move))
	}

	full := game.MustParse([]string{"XOX", "XOO", "OXX"}, game.O)
	_, _, err := a.FindMove(context.Background(), full)
	require.ErrorIs(t, err, game.ErrIllegalMove)
}

func TestHumanAgent(t *testing.T) {
	state := game.MustParse([]string{"X  ", "   ", "   "}, game.O)

	t.Run("re-prompts until a legal move", func(t *testing.T) {
		var out bytes.Buffer
		a := NewHumanAgent("alice", strings.NewReader("\nnonsense\n0 0\n3 3\n1,1\n"), &out)

		move, _, err := a.FindMove(context.Background(), state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 1, Col: 1}, move)
		require.Equal(t, 5, strings.Count(out.String(), "enter your move"))
		require.Contains(t, out.String(), "already taken")
		require.Contains(t, out.String(), "invalid move")
	})

	t.Run("reports exhausted input", func(t *testing.T) {
		a := NewHumanAgent("bob", strings.NewReader("0 0\n"), &bytes.Buffer{})

		_, _, err := a.FindMove(context.Background(), state)
		require.ErrorIs(t, err, ErrNoInput)
	})
}

func TestRemoteAgent(t *testing.T) {
	ts := httptest.NewServer(server.NewServerCommunicator(server.Config{DefaultBudget: 10 * time.Millisecond}).Handler())
	defer ts.Close()

	seed := uint64(1)
	a, err := FromConfig(config.Agent{Name: "remote", Kind: config.KindRemote, URL: ts.URL, Iterations: 2000, Seed: &seed}, Console{})
	require.NoError(t, err)

	move, metric, err := a.FindMove(context.Background(), immediateWin)

	require.NoError(t, err)
	require.Equal(t, game.Move{Row: 0, Col: 2}, move)
	require.Equal(t, 2000, metric.Iterations)
}

type illegalComm struct{}

func (illegalComm) FindMove(ctx context.Context, req communication.FindMoveRequest) (communication.FindMoveResponse, error) {
	return communication.FindMoveResponse{Move: game.Move{Row: 0, Col: 0}}, nil
}

func (illegalComm) Health(ctx context.Context) error { return nil }

func TestRemoteAgentRejectsIllegalMoves(t *testing.T) {
	_, _, err := NewRemoteAgent(illegalComm{}, 10, 0, nil).FindMove(context.Background(), immediateWin)
	require.ErrorIs(t, err, game.ErrIllegalMove)
}

func TestFromConfig(t *testing.T) {
	for _, c := range config.Default().Agents {
		a, err := FromConfig(c, Console{In: strings.NewReader(""), Out: &bytes.Buffer{}})
		require.NoError(t, err, "Agent %q should build", c.Name)
		require.NotNil(t, a)
	}

	_, err := FromConfig(config.Agent{Name: "x", Kind: "alien"}, Console{})
	require.ErrorIs(t, err, config.ErrUnknownAgent)

	m := NewSearcher(config.Agent{Kind: config.KindMCTS, BudgetMs: 30, Iterations: 7, Decision: "score"}, false)
	require.Equal(t, 30*time.Millisecond, m.Duration())
	require.Equal(t, 7, m.Iterations())
	require.Equal(t, searcher.DecideByScore, m.Decision())
	require.Equal(t, searcher.DefaultMaxIterations, m.MaxIterations())

	m = NewSearcher(config.Agent{Kind: config.KindMCTS, BudgetMs: 30, Uncapped: true}, false)
	require.Zero(t, m.MaxIterations(), "Uncapped searchers should run until the budget ends")
}
