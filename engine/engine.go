package engine

import (
	"context"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

type Engine interface {
	// Run plays a game till it is won or the board is full
	Run(ctx context.Context) (winner game.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
