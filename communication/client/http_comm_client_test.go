package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tictactoe/communication"
	"tictactoe/communication/server"
	"tictactoe/game"
)

func TestClientCommunicator(t *testing.T) {
	ts := httptest.NewServer(server.NewServerCommunicator(server.Config{
		DefaultBudget: 10 * time.Millisecond,
	}).Handler())
	defer ts.Close()

	cc := NewClientCommunicator(ts.URL+"/", 5*time.Second)
	ctx := context.Background()

	t.Run("health", func(t *testing.T) {
		require.NoError(t, cc.Health(ctx))
	})

	t.Run("finds a move", func(t *testing.T) {
		state := game.MustParse([]string{"XX ", "   ", "   "}, game.X)
		seed := uint64(1)

		resp, err := cc.FindMove(ctx, communication.FindMoveRequest{State: &state, Iterations: 2000, Seed: &seed})

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 2}, resp.Move)
		require.Equal(t, 2000, resp.Iterations)
	})

	t.Run("surfaces server errors", func(t *testing.T) {
		over := game.MustParse([]string{"XXX", "OO ", "   "}, game.O)

		_, err := cc.FindMove(ctx, communication.FindMoveRequest{State: &over})

		require.ErrorContains(t, err, "game is already over")
	})

	t.Run("unreachable server", func(t *testing.T) {
		dead := NewClientCommunicator("http://127.0.0.1:1", time.Second)
		require.Error(t, dead.Health(ctx))
	})
}
