package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

// MoveHook observes every move after it is applied.
type MoveHook func(metric metrics.MoveMetric, state game.State)

var _ Engine = (*Local)(nil)

type Local struct {
	agents map[game.Player]agent.Agent
	start  game.State
	onMove MoveHook
}

// LocalEngine plays x against o in process, starting from start.
func LocalEngine(x, o agent.Agent, start game.State) *Local {
	if x == nil || o == nil {
		panic("need an agent for each player")
	}
	return &Local{
		agents: map[game.Player]agent.Agent{game.X: x, game.O: o},
		start:  start,
	}
}

// OnMove registers a hook called after every applied move.
func (e *Local) OnMove(hook MoveHook) *Local {
	e.onMove = hook
	return e
}

// Run executes the entire game loop until the game is over. An agent error
// or an illegal move ends the game early with that error.
func (e *Local) Run(ctx context.Context) (game.Player, metrics.GameMetric, []metrics.MoveMetric, error) {
	state := e.start
	gameMetric := metrics.GameMetric{
		StartingPlayer: state.ToMove(),
		StartTime:      time.Now(),
	}
	log.Debug().Msgf("player %v is starting from %v", state.ToMove(), state)

	var moveMetrics []metrics.MoveMetric
	for step := 1; !state.IsTerminal(); step++ {
		player := state.ToMove()
		move, searchMetric, err := e.agents[player].FindMove(ctx, state)
		if err != nil {
			return game.None, e.complete(gameMetric, state, step-1), moveMetrics, fmt.Errorf("player %v failed to move: %w", player, err)
		}
		if !state.IsLegal(move) {
			return game.None, e.complete(gameMetric, state, step-1), moveMetrics, fmt.Errorf("player %v played %v: %w", player, move, game.ErrIllegalMove)
		}

		state = state.Play(move)
		moveMetric := metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Move:         move,
			SearchMetric: searchMetric,
		}
		moveMetrics = append(moveMetrics, moveMetric)
		log.Debug().Msgf("step %d: %v plays %v", step, player, move)

		if e.onMove != nil {
			e.onMove(moveMetric, state)
		}
	}

	gameMetric = e.complete(gameMetric, state, len(moveMetrics))
	log.Debug().Msgf("game over after %d moves: winner=%q", gameMetric.TotalMoves, state.Winner().String())
	return state.Winner(), gameMetric, moveMetrics, nil
}

func (e *Local) complete(m metrics.GameMetric, state game.State, moves int) metrics.GameMetric {
	m.Winner = state.Winner()
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.TotalMoves = moves
	return m
}
