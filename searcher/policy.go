package searcher

import (
	"math"

	"golang.org/x/exp/rand"

	"tictactoe/game"
)

// Exploration constant squared: UCB1 with c = sqrt(2).
const CSquared = 2.0

// Decision picks the root child returned once the search budget is spent.
type Decision int

const (
	// DecideByVisits picks the most visited child, breaking ties by raw
	// score and then by move order.
	DecideByVisits Decision = iota
	// DecideByScore picks the child with the greatest raw accumulated score.
	DecideByScore
)

func (d Decision) String() string {
	switch d {
	case DecideByVisits:
		return "visits"
	case DecideByScore:
		return "score"
	default:
		return "unknown"
	}
}

func ParseDecision(s string) (Decision, bool) {
	switch s {
	case "visits", "":
		return DecideByVisits, true
	case "score":
		return DecideByScore, true
	default:
		return 0, false
	}
}

// ucb1 scores a child given its parent's visit count. In exploit mode the
// raw accumulated score is returned without normalization.
func ucb1(n *node, parentVisits int, exploitOnly bool) float64 {
	if exploitOnly {
		return float64(n.score)
	}
	if n.visits == 0 {
		panic("cannot compute UCB1: 0 visits")
	}

	visits := float64(n.visits)
	return float64(n.score)/visits + math.Sqrt(CSquared*math.Log(float64(parentVisits))/visits)
}

// selectChild returns the index of the child of i with the strictly greatest
// UCB1 score, so the lowest index wins ties. When exploring, an unvisited
// child is returned before any score is computed.
func (t *tree) selectChild(i int, exploitOnly bool) int {
	parent := &t.nodes[i]
	if !parent.expanded || parent.children.len() == 0 {
		panic("cannot select child: node has no children")
	}

	if !exploitOnly {
		for c := parent.children.start; c < parent.children.end; c++ {
			if t.nodes[c].visits == 0 {
				return c
			}
		}
	}

	best := parent.children.start
	bestScore := ucb1(&t.nodes[best], parent.visits, exploitOnly)
	for c := best + 1; c < parent.children.end; c++ {
		score := ucb1(&t.nodes[c], parent.visits, exploitOnly)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// mostVisited returns the child of i with the most visits, breaking ties by
// raw score and then by the lower index.
func (t *tree) mostVisited(i int) int {
	children := t.nodes[i].children
	best := children.start
	for c := best + 1; c < children.end; c++ {
		n, b := &t.nodes[c], &t.nodes[best]
		if n.visits > b.visits || (n.visits == b.visits && n.score > b.score) {
			best = c
		}
	}
	return best
}

func (t *tree) decide(d Decision) int {
	if d == DecideByScore {
		return t.selectChild(0, true)
	}
	return t.mostVisited(0)
}

// rollout plays uniformly random legal moves until the game ends and
// returns the terminal state.
func rollout(state game.State, rng *rand.Rand) game.State {
	for !state.IsTerminal() {
		moves := state.LegalMoves()
		state = state.Play(moves[rng.Intn(len(moves))])
	}
	return state
}

// moverSign converts a reward from X's perspective to the perspective of
// the player who moved into a node holding state.
func moverSign(state game.State) int {
	return int(state.ToMove().Other())
}
