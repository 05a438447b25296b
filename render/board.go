// Package render draws boards and results for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

var (
	xStyle        = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007e50ff", Dark: "#6afd76ff"}).Render
	oStyle        = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0003adff", Dark: "#5f61fcff"}).Render
	lastMoveStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	gridStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#414141ff", Dark: "#8f8f8fff"}).Render
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b55404ff", Dark: "#b55404ff"}).Render
)

// SetColor switches ANSI styling on, as far as the environment allows, or off.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Board draws state with row and column indices. last, if not nil, is
// highlighted.
func Board(state game.State, last *game.Move) string {
	var b strings.Builder
	b.WriteString(headerStyle("    0   1   2") + "\n")
	for r := range game.Size {
		cells := make([]string, game.Size)
		for c := range game.Size {
			m := game.Move{Row: r, Col: c}
			cells[c] = " " + cell(state.At(m), last != nil && *last == m) + " "
		}
		b.WriteString(headerStyle(fmt.Sprintf("%d ", r)) + " ")
		b.WriteString(strings.Join(cells, gridStyle("│")) + "\n")
		if r < game.Size-1 {
			b.WriteString("  " + gridStyle(" ───┼───┼───") + "\n")
		}
	}
	return b.String()
}

func cell(p game.Player, last bool) string {
	var s string
	switch p {
	case game.X:
		s = xStyle("X")
	case game.O:
		s = oStyle("O")
	default:
		return " "
	}
	if last {
		s = lastMoveStyle.Render(s)
	}
	return s
}

// Result describes the end of a game.
func Result(winner game.Player) string {
	switch winner {
	case game.X:
		return xStyle("X wins")
	case game.O:
		return oStyle("O wins")
	default:
		return headerStyle("Tie")
	}
}

// Tally summarizes a match between two named agents.
func Tally(name1, name2 string, t metrics.Tally) string {
	return fmt.Sprintf("%s %d, %s %d, ties %d (%.1f%%) over %d games",
		xStyle(name1), t.Agent1Wins, oStyle(name2), t.Agent2Wins, t.Ties, 100*t.TieRate(), t.Total())
}
