package searcher

import (
	"math"

	"github.com/xpbowler/climbe-terminal/experiments/metrics"
	"github.com/xpbowler/climbe-terminal/game"
)

// Unreachable is the risk of a launch whose units never reach the edge.
var Unreachable = math.Inf(1)

type Option func(s *settings)

type settings struct {
	shotDamage float64
	metrics    metrics.Collector
}

// WithShotDamage overrides the per-shot damage of a turret against mobile
// units. Defaults to the catalog value for game.Turret.
func WithShotDamage(damage float64) Option {
	return func(s *settings) {
		if damage > 0 {
			s.shotDamage = damage
		}
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(s *settings) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

func newSettings(rules game.Rules, options []Option) settings {
	s := settings{ // Default values
		shotDamage: rules.Stats(game.Turret).MobileDamage,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(&s)
	}
	return s
}
