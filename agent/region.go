package agent

import (
	"maps"
	"slices"

	"github.com/xpbowler/climbe-terminal/game"
	"github.com/xpbowler/climbe-terminal/utils"
)

// Zone is a named band of columns.
type Zone string

const (
	ZoneLeft   Zone = "left"
	ZoneMiddle Zone = "middle"
	ZoneRight  Zone = "right"
)

type ZoneSpan struct {
	Zone Zone
	MinX int
	MaxX int
}

// KindWeight says how much one health point of a unit kind is worth, and on
// which rows the kind counts. No rows means every row.
type KindWeight struct {
	Kind   game.UnitKind
	Weight float64
	Rows   []int
}

type RegionConfig struct {
	Side               game.Side
	Zones              []ZoneSpan // Priority order for ties
	Kinds              []KindWeight
	UpgradedMultiplier float64
}

// ZoneHealth holds the weighted structure health per zone, and the damage the
// watched side took per zone in the last observed frame.
type ZoneHealth struct {
	Health map[Zone]float64
	Damage map[Zone]float64
}

// RegionTracker aggregates the watched side's structure health by zone.
// Totals are always recomputed from scratch.
type RegionTracker struct {
	config  RegionConfig
	current ZoneHealth
}

func NewRegionTracker(config RegionConfig) *RegionTracker {
	if config.UpgradedMultiplier <= 0 {
		config.UpgradedMultiplier = 1
	}
	t := &RegionTracker{config: config}
	t.current = ZoneHealth{Health: t.emptyTotals(), Damage: t.emptyTotals()}
	return t
}

// Refresh recomputes zone health from the live board.
func (t *RegionTracker) Refresh(b *game.Board) ZoneHealth {
	t.current.Health = t.total(b.Stationary(t.config.Side))
	return t.Health()
}

// Observe recomputes zone health from the structures alive after the frame
// and replaces the damage totals with the frame's damage events.
func (t *RegionTracker) Observe(f game.Frame) ZoneHealth {
	t.current.Health = t.total(f.Units)

	damage := t.emptyTotals()
	for _, e := range f.EventsOf(game.Damage) {
		if e.Side != t.config.Side || !e.Kind.Stationary() {
			continue
		}
		if zone, ok := t.ZoneOf(e.Cell); ok {
			damage[zone] += e.Amount
		}
	}
	t.current.Damage = damage
	return t.Health()
}

// Health returns a copy of the current totals.
func (t *RegionTracker) Health() ZoneHealth {
	return ZoneHealth{
		Health: maps.Clone(t.current.Health),
		Damage: maps.Clone(t.current.Damage),
	}
}

// WeakestZone returns the zone with the lowest health after applying the
// per-zone multipliers in overrides. Ties go to the zone listed first.
func (t *RegionTracker) WeakestZone(overrides map[Zone]float64) Zone {
	if len(t.config.Zones) == 0 {
		return ""
	}
	values := make([]float64, len(t.config.Zones))
	for i, span := range t.config.Zones {
		values[i] = t.current.Health[span.Zone]
		if m, ok := overrides[span.Zone]; ok {
			values[i] *= m
		}
	}
	return t.config.Zones[utils.ArgMin(values)].Zone
}

func (t *RegionTracker) ZoneOf(c game.Cell) (Zone, bool) {
	for _, span := range t.config.Zones {
		if c.X >= span.MinX && c.X <= span.MaxX {
			return span.Zone, true
		}
	}
	return "", false
}

func (t *RegionTracker) total(units []game.Unit) map[Zone]float64 {
	totals := t.emptyTotals()
	for _, u := range units {
		if u.Side != t.config.Side {
			continue
		}
		weight, ok := t.weight(u)
		if !ok {
			continue
		}
		if zone, ok := t.ZoneOf(u.Cell); ok {
			totals[zone] += u.Health * weight
		}
	}
	return totals
}

func (t *RegionTracker) weight(u game.Unit) (float64, bool) {
	for _, kw := range t.config.Kinds {
		if kw.Kind != u.Kind {
			continue
		}
		if len(kw.Rows) > 0 && !slices.Contains(kw.Rows, u.Cell.Y) {
			return 0, false
		}
		if u.Upgraded {
			return kw.Weight * t.config.UpgradedMultiplier, true
		}
		return kw.Weight, true
	}
	return 0, false
}

func (t *RegionTracker) emptyTotals() map[Zone]float64 {
	totals := make(map[Zone]float64, len(t.config.Zones))
	for _, span := range t.config.Zones {
		totals[span.Zone] = 0
	}
	return totals
}
