package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

var ErrNoInput = errors.New("no more input")

type humanAgent struct {
	name    string
	scanner *bufio.Scanner
	out     io.Writer
}

// NewHumanAgent reads moves as "row col" lines from in and prompts on out
// until a legal move is entered.
func NewHumanAgent(name string, in io.Reader, out io.Writer) Agent {
	return &humanAgent{
		name:    name,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (a *humanAgent) FindMove(ctx context.Context, state game.State) (game.Move, metrics.SearchMetric, error) {
	for {
		if err := ctx.Err(); err != nil {
			return game.Move{}, metrics.SearchMetric{}, err
		}

		fmt.Fprintf(a.out, "%s (%v), enter your move as \"row col\": ", a.name, state.ToMove())
		if !a.scanner.Scan() {
			if err := a.scanner.Err(); err != nil {
				return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("failed to read move: %w", err)
			}
			return game.Move{}, metrics.SearchMetric{}, ErrNoInput
		}

		line := strings.TrimSpace(a.scanner.Text())
		if line == "" {
			continue
		}
		move, err := game.ParseMove(line)
		if err != nil {
			fmt.Fprintf(a.out, "invalid move %q: %v\n", line, err)
			continue
		}
		if !state.IsLegal(move) {
			fmt.Fprintf(a.out, "cell %v is already taken\n", move)
			continue
		}
		return move, metrics.SearchMetric{}, nil
	}
}
