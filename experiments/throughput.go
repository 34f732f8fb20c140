package experiments

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/xpbowler/climbe-terminal/agent"
	"github.com/xpbowler/climbe-terminal/engine"
	"github.com/xpbowler/climbe-terminal/game"
)

type ThroughputPoint struct {
	Goroutines     int
	Turns          int
	Duration       time.Duration
	TurnsPerSecond float64
}

// Throughput replays one scenario on increasing numbers of goroutines and
// measures how many turns are planned per second at each level.
func Throughput(ctx context.Context, config agent.Config, scenario engine.Scenario, levels []int) ([]ThroughputPoint, error) {
	rules := game.NewStandardRules()
	points := make([]ThroughputPoint, 0, len(levels))

	log.Info().Msg("starting throughput experiment...")

	for _, goroutines := range levels {
		if goroutines < 1 {
			return nil, fmt.Errorf("invalid goroutine count %d", goroutines)
		}

		var turns atomic.Int64
		start := time.Now()
		g, ctx := errgroup.WithContext(ctx)
		for range goroutines {
			g.Go(func() error {
				replay := engine.NewReplay(scenario, agent.NewSelector(rules, config), rules)
				session, _, err := replay.Run(ctx)
				turns.Add(int64(session.Turns))
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		point := ThroughputPoint{Goroutines: goroutines, Turns: int(turns.Load()), Duration: time.Since(start)}
		if seconds := point.Duration.Seconds(); seconds > 0 {
			point.TurnsPerSecond = float64(point.Turns) / seconds
		}
		points = append(points, point)
		log.Info().Msgf("%d goroutines: %d turns in %v (%.0f turns/s)", goroutines, point.Turns, point.Duration, point.TurnsPerSecond)
	}

	log.Info().Msg("completed throughput experiment")
	return points, nil
}
