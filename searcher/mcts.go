package searcher

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

const (
	DefaultDuration = time.Second
	// DefaultMaxIterations caps time-budgeted searches. Past a few tens of
	// thousands of iterations every child of a lost root converges to -1 and
	// the decision stops telling the defending move apart from the rest.
	DefaultMaxIterations = 5000
)

type Option func(mcts *MCTS)

// MCTS searches a fresh tree for every call to Search. It holds no state
// between searches other than its configuration and random seed source.
type MCTS struct {
	duration      time.Duration
	iterations    int
	maxIterations int
	seed          uint64
	seeded        bool
	decision      Decision
	metrics       metrics.Collector
}

// WithDuration sets the wall-clock budget. A zero budget still runs one
// iteration.
func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration >= 0 {
			m.duration = duration
		}
	}
}

// WithIterations runs exactly n iterations, ignoring the duration and the
// iteration cap.
func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.iterations = iterations
		}
	}
}

// WithMaxIterations stops a time-budgeted search after n iterations even if
// budget remains. n <= 0 removes the cap.
func WithMaxIterations(n int) Option {
	return func(m *MCTS) {
		m.maxIterations = max(n, 0)
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
		m.seeded = true
	}
}

func WithDecision(decision Decision) Option {
	return func(m *MCTS) {
		m.decision = decision
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		duration:      DefaultDuration,
		maxIterations: DefaultMaxIterations,
		decision:      DecideByVisits,
		metrics:       metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *MCTS) Duration() time.Duration {
	return m.duration
}

func (m *MCTS) Iterations() int {
	return m.iterations
}

func (m *MCTS) MaxIterations() int {
	return m.maxIterations
}

func (m *MCTS) Decision() Decision {
	return m.decision
}

func (m *MCTS) newRand() *rand.Rand {
	seed := m.seed
	if !m.seeded {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// Search builds a tree rooted at state and returns the chosen move. It panics
// if state is terminal.
func (m *MCTS) Search(state game.State) (game.Move, metrics.SearchMetric) {
	if state.IsTerminal() {
		panic("cannot search from a terminal state")
	}

	t := newTree(state)
	rng := m.newRand()

	m.metrics.Start(m.duration)
	start := time.Now()
	iterations := 0
	for {
		depth, terminal := t.iterate(rng)
		m.metrics.AddEpisode(depth, terminal)
		iterations++

		if m.iterations > 0 {
			if iterations >= m.iterations {
				break
			}
		} else if m.maxIterations > 0 && iterations >= m.maxIterations {
			break
		} else if time.Since(start) >= m.duration {
			break
		}
	}
	metric := m.metrics.Complete(t.size())

	best := &t.nodes[t.decide(m.decision)]
	log.Debug().Msgf("searched %v: %d iterations, %d nodes, chose %v (visits=%d score=%d)",
		state, iterations, t.size(), best.action, best.visits, best.score)
	return best.action, metric
}

// iterate runs one select, expand, rollout and backup pass. It returns the
// depth of the rollout start node and whether selection ended on a terminal
// node.
func (t *tree) iterate(rng *rand.Rand) (depth int, terminal bool) {
	t.path = append(t.path[:0], 0)

	i := 0
	for !t.nodes[i].state.IsTerminal() && t.fullyExpanded(i) {
		i = t.selectChild(i, false)
		t.path = append(t.path, i)
	}

	if t.nodes[i].state.IsTerminal() {
		terminal = true
	} else {
		children := t.expand(i)
		i = children.start + rng.Intn(children.len())
		t.path = append(t.path, i)
	}

	state := t.nodes[i].state
	reward := rollout(state, rng).Reward() * moverSign(state)
	t.backup(t.path, reward)
	return len(t.path) - 1, terminal
}

// FindMove searches state for budgetMs milliseconds, or until
// DefaultMaxIterations iterations, with the default configuration.
func FindMove(state game.State, budgetMs int) game.Move {
	budget := time.Duration(max(budgetMs, 0)) * time.Millisecond
	move, _ := NewMCTS(WithDuration(budget)).Search(state)
	return move
}
