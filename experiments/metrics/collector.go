package metrics

import (
	"sync/atomic"
	"time"

	"gridiron/game"
)

// ChildStat is one row of the root visit table after a search: the action,
// how often it was tried, and its mean value for the side that moved.
type ChildStat struct {
	Action game.Action
	Visits int
	Mean   float64
}

type SearchMetric struct {
	Goroutines   int
	Duration     time.Duration
	Iterations   int
	FullPlayouts int
	MaxDepth     int
	Children     []ChildStat
}

type MoveMetric struct {
	Step   int
	TeamID int
	Action string
	SearchMetric
}

type GameMetric struct {
	HomeScore  int
	AwayScore  int
	Winner     string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

// AgentConfig describes one configured bot in an experiment run.
type AgentConfig struct {
	ID         int
	Name       string
	Goroutines int
	Duration   time.Duration
	Iterations int
	Evaluator  string
}

type Collector interface {
	Start(goroutines int)
	AddIteration()
	AddFullPlayout()
	ObserveDepth(depth int)
	SetChildren(children []ChildStat)
	Complete() SearchMetric
}

type collector struct {
	goroutines   int
	startTime    time.Time
	iterations   atomic.Int64
	fullPlayouts atomic.Int64
	maxDepth     atomic.Int64
	children     []ChildStat
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) ObserveDepth(depth int) {
	d := int64(depth)
	for {
		cur := m.maxDepth.Load()
		if d <= cur || m.maxDepth.CompareAndSwap(cur, d) {
			return
		}
	}
}

// SetChildren records the root table. Call it after the workers have joined;
// it is not synchronized.
func (m *collector) SetChildren(children []ChildStat) {
	m.children = children
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Iterations:   int(m.iterations.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		MaxDepth:     int(m.maxDepth.Load()),
		Children:     m.children,
	}
}

type dummyCollector struct{}

// NewDummyCollector returns a collector that records nothing, for searches
// that do not report metrics.
func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines int)             {}
func (m *dummyCollector) AddIteration()                    {}
func (m *dummyCollector) AddFullPlayout()                  {}
func (m *dummyCollector) ObserveDepth(depth int)           {}
func (m *dummyCollector) SetChildren(children []ChildStat) {}
func (m *dummyCollector) Complete() SearchMetric           { return SearchMetric{} }
