package metrics

import (
	"sync/atomic"
	"time"
)

type GameMetric struct {
	Seed      int64
	Winner    string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Rounds    int
	Repairs   int // protocol violations absorbed by repair
	Fallbacks int // wolf targets replaced on the shared stream
}

type Collector interface {
	Start(seed int64)
	AddRound()
	AddRepair()
	AddFallback()
	Complete(winner string) GameMetric
}

type collector struct {
	seed      int64
	startTime time.Time
	rounds    atomic.Int32
	repairs   atomic.Int32
	fallbacks atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(seed int64) {
	m.seed = seed
	m.startTime = time.Now()
	m.rounds.Store(0)
	m.repairs.Store(0)
	m.fallbacks.Store(0)
}

func (m *collector) AddRound() {
	m.rounds.Add(1)
}

func (m *collector) AddRepair() {
	m.repairs.Add(1)
}

func (m *collector) AddFallback() {
	m.fallbacks.Add(1)
}

func (m *collector) Complete(winner string) GameMetric {
	end := time.Now()
	return GameMetric{
		Seed:      m.seed,
		Winner:    winner,
		StartTime: m.startTime,
		EndTime:   end,
		Duration:  end.Sub(m.startTime),
		Rounds:    int(m.rounds.Load()),
		Repairs:   int(m.repairs.Load()),
		Fallbacks: int(m.fallbacks.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(seed int64)                  {}
func (m *dummyCollector) AddRound()                         {}
func (m *dummyCollector) AddRepair()                        {}
func (m *dummyCollector) AddFallback()                      {}
func (m *dummyCollector) Complete(winner string) GameMetric { return GameMetric{Winner: winner} }
