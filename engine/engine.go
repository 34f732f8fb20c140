package engine

import (
	"context"

	"github.com/xpbowler/climbe-terminal/experiments/metrics"
)

const MaxTurns = 100

type Engine interface {
	// Run plays turns until the scenario ends, MaxTurns turns are played or
	// ctx is done. Metrics of the turns played so far are returned with any
	// error.
	Run(ctx context.Context) (metrics.SessionMetric, []metrics.TurnMetric, error)
}
