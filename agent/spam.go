package agent

import (
	"slices"

	"github.com/xpbowler/climbe-terminal/game"
)

type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	return [...]string{"none", "left", "right"}[d]
}

// SpamCounters accumulate evidence of the opponent rushing one lane. They
// only grow from observed telemetry and only shrink when consumed.
type SpamCounters struct {
	EdgeLeft    float64
	EdgeRight   float64
	Mid         float64
	BackSupport float64
}

// SpamWeights scale each counter in the escalation level.
type SpamWeights struct {
	EdgeLeft    float64
	EdgeRight   float64
	Mid         float64
	BackSupport float64
}

type SpamConfig struct {
	Side      game.Side
	Kinds     []game.UnitKind
	EdgeDepth int // Rows from the back edge that count as an edge launch
	MidDepth  int // Rows from the back edge that count as a middle launch
	SplitX    int // Edge launches at or left of this column are left
	Burst     int // Launches of one class in a turn that make a burst
	BackZone  []game.Cell
	Weights   SpamWeights
}

// SpamDetector classifies the opponent's launches and tracks escalation
// evidence across turns.
type SpamDetector struct {
	config   SpamConfig
	counters SpamCounters
}

func NewSpamDetector(config SpamConfig) *SpamDetector {
	return &SpamDetector{config: config}
}

// Observe counts this turn's launches by class. A class that reaches the
// burst size adds exactly one to its counter, however many units it had.
func (d *SpamDetector) Observe(events []game.Event) SpamCounters {
	var left, right, mid int
	for _, e := range events {
		if e.Type != game.Spawn || e.Side != d.config.Side || !slices.Contains(d.config.Kinds, e.Kind) {
			continue
		}
		depth := d.depth(e.Cell)
		switch {
		case depth < d.config.EdgeDepth && e.Cell.X <= d.config.SplitX:
			left++
		case depth < d.config.EdgeDepth:
			right++
		case depth < d.config.MidDepth:
			mid++
		}
	}

	if d.burst(left) {
		d.counters.EdgeLeft++
	}
	if d.burst(right) {
		d.counters.EdgeRight++
	}
	if d.burst(mid) {
		d.counters.Mid++
	}
	return d.counters
}

// ScanBoard adds one to BackSupport when any support of the watched side sits
// in the back zone, and reports whether it did.
func (d *SpamDetector) ScanBoard(b *game.Board) bool {
	for _, c := range d.config.BackZone {
		u, ok := b.StationaryAt(c)
		if ok && u.Side == d.config.Side && u.Kind == game.Support {
			d.counters.BackSupport++
			return true
		}
	}
	return false
}

// Level is the weighted sum of the counters.
func (d *SpamDetector) Level() float64 {
	w := d.config.Weights
	c := d.counters
	return c.EdgeLeft*w.EdgeLeft + c.EdgeRight*w.EdgeRight + c.Mid*w.Mid + c.BackSupport*w.BackSupport
}

func (d *SpamDetector) ShouldEscalate(threshold float64) bool {
	return d.Level() >= threshold
}

// ConsumeEscalation removes amount of weighted evidence, draining the back
// support counter first, then the left edge, right edge and middle counters.
// Counters never drop below zero.
func (d *SpamDetector) ConsumeEscalation(amount float64) {
	w := d.config.Weights
	drain := []struct {
		counter *float64
		weight  float64
	}{
		{&d.counters.BackSupport, w.BackSupport},
		{&d.counters.EdgeLeft, w.EdgeLeft},
		{&d.counters.EdgeRight, w.EdgeRight},
		{&d.counters.Mid, w.Mid},
	}
	for _, entry := range drain {
		if amount <= 0 {
			return
		}
		if entry.weight <= 0 || *entry.counter <= 0 {
			continue
		}
		take := min(*entry.counter*entry.weight, amount)
		*entry.counter -= take / entry.weight
		if *entry.counter < 1e-9 {
			*entry.counter = 0
		}
		amount -= take
	}
}

// ConsumeMid removes middle rush evidence.
func (d *SpamDetector) ConsumeMid(amount float64) {
	d.counters.Mid = max(0, d.counters.Mid-amount)
}

// Direction names the edge the opponent rushes more, if either.
func (d *SpamDetector) Direction() Direction {
	switch {
	case d.counters.EdgeLeft > d.counters.EdgeRight:
		return DirectionLeft
	case d.counters.EdgeRight > d.counters.EdgeLeft:
		return DirectionRight
	}
	return DirectionNone
}

func (d *SpamDetector) Counters() SpamCounters {
	return d.counters
}

func (d *SpamDetector) burst(n int) bool {
	return d.config.Burst > 0 && n >= d.config.Burst
}

// depth counts rows from the watched side's back edge.
func (d *SpamDetector) depth(c game.Cell) int {
	if d.config.Side == game.Opponent {
		return game.ArenaSize - 1 - c.Y
	}
	return c.Y
}
