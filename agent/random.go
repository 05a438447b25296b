package agent

import (
	"context"
	"time"

	"golang.org/x/exp/rand"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent plays a uniformly random legal move. A nil seed seeds from
// the clock.
func NewRandomAgent(seed *uint64) Agent {
	s := uint64(time.Now().UnixNano())
	if seed != nil {
		s = *seed
	}
	return &randomAgent{rng: rand.New(rand.NewSource(s))}
}

func (a *randomAgent) FindMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error) {
	if err := ctx.Err(); err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, game.ErrIllegalMove
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}, nil
}
