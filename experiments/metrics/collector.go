package metrics

import (
	"time"

	"tictactoe/game"
)

type SearchMetric struct {
	Budget       time.Duration
	Duration     time.Duration
	Iterations   int
	Nodes        int
	MaxDepth     int
	TerminalHits int // iterations whose selection ended on a terminal node
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Move   game.Move
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Winner         game.Player
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector accumulates the statistics of a single search. Searches are
// single-threaded, so implementations need no synchronization.
type Collector interface {
	Start(budget time.Duration)
	AddEpisode(depth int, terminal bool)
	Complete(nodes int) SearchMetric
}

type collector struct {
	budget       time.Duration
	startTime    time.Time
	episodes     int
	maxDepth     int
	terminalHits int
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(budget time.Duration) {
	*m = collector{budget: budget, startTime: time.Now()}
}

func (m *collector) AddEpisode(depth int, terminal bool) {
	m.episodes++
	m.maxDepth = max(m.maxDepth, depth)
	if terminal {
		m.terminalHits++
	}
}

func (m *collector) Complete(nodes int) SearchMetric {
	return SearchMetric{
		Budget:       m.budget,
		Duration:     time.Since(m.startTime),
		Iterations:   m.episodes,
		Nodes:        nodes,
		MaxDepth:     m.maxDepth,
		TerminalHits: m.terminalHits,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(budget time.Duration)          {}
func (m *dummyCollector) AddEpisode(depth int, terminal bool) {}
func (m *dummyCollector) Complete(nodes int) SearchMetric     { return SearchMetric{} }
