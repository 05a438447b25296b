package metrics

import (
	"fmt"

	"tictactoe/game"
)

// Tally aggregates the results of a match between two agents.
type Tally struct {
	Agent1Wins int
	Agent2Wins int
	Ties       int
	XWins      int
	OWins      int
}

// Record adds one finished game. agent1 is the mark agent 1 played with.
func (t *Tally) Record(winner game.Player, agent1 game.Player) {
	switch winner {
	case game.None:
		t.Ties++
		return
	case game.X:
		t.XWins++
	case game.O:
		t.OWins++
	}

	if winner == agent1 {
		t.Agent1Wins++
	} else {
		t.Agent2Wins++
	}
}

func (t Tally) Total() int {
	return t.Agent1Wins + t.Agent2Wins + t.Ties
}

func (t Tally) TieRate() float64 {
	if t.Total() == 0 {
		return 0
	}
	return float64(t.Ties) / float64(t.Total())
}

func (t Tally) String() string {
	return fmt.Sprintf("games=%d agent1=%d agent2=%d ties=%d (x=%d o=%d)",
		t.Total(), t.Agent1Wins, t.Agent2Wins, t.Ties, t.XWins, t.OWins)
}
