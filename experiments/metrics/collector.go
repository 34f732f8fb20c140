package metrics

import (
	"sync/atomic"
	"time"
)

// DecisionMetric summarises the work done to plan one turn.
type DecisionMetric struct {
	Turn        int
	Duration    time.Duration
	Estimates   int // Path risk estimates
	Rollouts    int // Attack rollouts
	NoPath      int // Candidates without a usable path
	Escalations int // Reinforcement tiers fired
}

type TurnMetric struct {
	Phase           string
	Intents         int
	Rejected        int
	Launched        bool
	LaunchX         int
	LaunchY         int
	Risk            float64
	PredictedBreach bool
	Score           float64 // Board evaluation after the turn was applied
	DecisionMetric
}

type SessionMetric struct {
	Agent     string
	Scenario  string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Turns     int
	Launches  int
	Rejected  int
}

type Collector interface {
	Start(turn int)
	AddEstimate()
	AddRollout()
	AddNoPath()
	AddEscalation()
	Complete() DecisionMetric
}

type collector struct {
	turn        int
	startTime   time.Time
	estimates   atomic.Int32
	rollouts    atomic.Int32
	noPath      atomic.Int32
	escalations atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(turn int) {
	m.startTime = time.Now()
	m.turn = turn
	m.estimates.Store(0)
	m.rollouts.Store(0)
	m.noPath.Store(0)
	m.escalations.Store(0)
}

func (m *collector) AddEstimate() {
	m.estimates.Add(1)
}

func (m *collector) AddRollout() {
	m.rollouts.Add(1)
}

func (m *collector) AddNoPath() {
	m.noPath.Add(1)
}

func (m *collector) AddEscalation() {
	m.escalations.Add(1)
}

func (m *collector) Complete() DecisionMetric {
	return DecisionMetric{
		Turn:        m.turn,
		Duration:    time.Since(m.startTime),
		Estimates:   int(m.estimates.Load()),
		Rollouts:    int(m.rollouts.Load()),
		NoPath:      int(m.noPath.Load()),
		Escalations: int(m.escalations.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(turn int)           {}
func (m *dummyCollector) AddEstimate()             {}
func (m *dummyCollector) AddRollout()              {}
func (m *dummyCollector) AddNoPath()               {}
func (m *dummyCollector) AddEscalation()           {}
func (m *dummyCollector) Complete() DecisionMetric { return DecisionMetric{} }
