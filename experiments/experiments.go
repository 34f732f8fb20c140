package experiments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/xpbowler/climbe-terminal/agent"
	"github.com/xpbowler/climbe-terminal/engine"
	"github.com/xpbowler/climbe-terminal/experiments/metrics"
	"github.com/xpbowler/climbe-terminal/game"
)

// Experiment replays every scenario with every agent configuration.
type Experiment struct {
	Name      string
	Configs   []agent.Config
	Scenarios []engine.Scenario
	Rules     game.Rules    // Standard rules when nil
	Evaluate  game.Evaluate // Turn score, structure balance when nil
	Seed      uint64        // Cooldown jitter is off when zero
	Parallel  int           // Concurrent replays, unlimited when not positive
}

type Result struct {
	Configs  []metrics.AgentConfig
	Sessions []metrics.SessionRecord
	Turns    []metrics.TurnRecord
}

// Run plays all (config, scenario) pairs concurrently, each with a fresh
// agent. Records are ordered by config, then scenario, regardless of which
// replay finishes first.
func Run(ctx context.Context, e Experiment) (Result, error) {
	rules := e.Rules
	if rules == nil {
		rules = game.NewStandardRules()
	}

	result := Result{Configs: make([]metrics.AgentConfig, len(e.Configs))}
	for i, config := range e.Configs {
		result.Configs[i] = agentConfig(i+1, config, seed(e.Seed, i))
	}

	log.Info().Msgf("starting %s experiment: %d configs, %d scenarios...", e.Name, len(e.Configs), len(e.Scenarios))

	sessions := make([]metrics.SessionRecord, len(e.Configs)*len(e.Scenarios))
	turns := make([][]metrics.TurnRecord, len(sessions))

	g, ctx := errgroup.WithContext(ctx)
	if e.Parallel > 0 {
		g.SetLimit(e.Parallel)
	}
	for ci, config := range e.Configs {
		for si, scenario := range e.Scenarios {
			index := ci*len(e.Scenarios) + si
			id := uuid.NewString()
			g.Go(func() error {
				options := []agent.Option{agent.WithMetrics()}
				if s := seed(e.Seed, ci); s != 0 {
					options = append(options, agent.WithRand(rand.New(rand.NewSource(s))))
				}
				selector := agent.NewSelector(rules, config, options...)
				replayOptions := []engine.Option{engine.WithAgentName(config.Name)}
				if e.Evaluate != nil {
					replayOptions = append(replayOptions, engine.WithEvaluation(e.Evaluate))
				}
				replay := engine.NewReplay(scenario, selector, rules, replayOptions...)

				session, turnMetrics, err := replay.Run(ctx)
				if err != nil {
					return fmt.Errorf("config %q on scenario %q: %w", config.Name, scenario.Name, err)
				}

				sessions[index] = metrics.SessionRecord{ID: id, Agent: ci + 1, SessionMetric: session}
				for step, tm := range turnMetrics {
					turns[index] = append(turns[index], metrics.TurnRecord{Session: id, Step: step + 1, TurnMetric: tm})
				}
				log.Info().Msgf("completed %s on %s: %d launches in %d turns", config.Name, scenario.Name, session.Launches, session.Turns)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result.Sessions = sessions
	for _, records := range turns {
		result.Turns = append(result.Turns, records...)
	}
	log.Info().Msgf("completed %s experiment", e.Name)
	return result, nil
}

// Write stores the result as CSV files in a new directory under root and
// returns that directory.
func (r Result) Write(root, name string) (string, error) {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(r.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteSessionRecords(r.Sessions); err != nil {
		return "", fmt.Errorf("failed to write session records: %w", err)
	}
	log.Info().Msg("stored session records")

	if err := writer.WriteTurnRecords(r.Turns); err != nil {
		return "", fmt.Errorf("failed to write turn records: %w", err)
	}
	log.Info().Msg("stored turn records")
	return writer.Dir(), nil
}

// Save appends the sessions and turns to a store.
func (r Result) Save(store *metrics.Store) error {
	if err := store.SaveSessions(r.Sessions); err != nil {
		return err
	}
	return store.SaveTurns(r.Turns)
}

func seed(base uint64, i int) uint64 {
	if base == 0 {
		return 0
	}
	return base + uint64(i)
}

func agentConfig(id int, config agent.Config, seed uint64) metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:            id,
		Name:          config.Name,
		Tier1:         config.Defense.Tier1.Threshold,
		Tier2:         config.Defense.Tier2.Threshold,
		Cooldown:      config.Offense.Cooldown,
		Jitter:        config.Offense.Jitter,
		MinAttackTurn: config.Offense.MinAttackTurn,
		Shortlist:     config.Offense.Shortlist,
		Seed:          seed,
	}
}
