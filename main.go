package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/xpbowler/climbe-terminal/agent"
	"github.com/xpbowler/climbe-terminal/config"
	"github.com/xpbowler/climbe-terminal/engine"
	"github.com/xpbowler/climbe-terminal/experiments"
	"github.com/xpbowler/climbe-terminal/experiments/metrics"
	"github.com/xpbowler/climbe-terminal/game"
)

// paths collects a repeatable flag.
type paths []string

func (p *paths) String() string {
	return strings.Join(*p, ",")
}

func (p *paths) Set(value string) error {
	*p = append(*p, value)
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("replay failed")
		os.Exit(1)
	}
}

func run() error {
	var configs, scenarios paths
	flag.Var(&configs, "config", "Agent config file, JSON or YAML (repeatable, defaults when omitted)")
	flag.Var(&scenarios, "scenario", "Scenario file to replay (repeatable)")
	name := flag.String("name", "replay", "Experiment name")
	out := flag.String("out", "results", "Directory for CSV results, empty to skip")
	db := flag.String("db", "", "SQLite file for results, empty to skip")
	level := flag.String("log", "info", "Log level: trace, debug, info, warn, error")
	eval := flag.String("eval", "structures", "Turn score: structures, resources or balanced")
	seed := flag.Uint64("seed", 0, "Seed for cooldown jitter, 0 disables jitter")
	parallel := flag.Int("parallel", 0, "Concurrent replays, 0 for unlimited")
	throughput := flag.String("throughput", "", "Comma separated goroutine counts for a throughput run")
	flag.Parse()

	if err := setupLogging(*level); err != nil {
		return err
	}
	if len(scenarios) == 0 {
		return errors.New("at least one -scenario is required")
	}
	evaluate, err := game.ParseEvaluate(*eval)
	if err != nil {
		return fmt.Errorf("invalid -eval: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	agentConfigs, err := loadConfigs(configs)
	if err != nil {
		return fmt.Errorf("failed to load configs: %w", err)
	}
	replays := make([]engine.Scenario, 0, len(scenarios))
	for _, path := range scenarios {
		s, err := engine.LoadScenario(path)
		if err != nil {
			return fmt.Errorf("failed to load scenario: %w", err)
		}
		replays = append(replays, s)
	}

	if *throughput != "" {
		levels, err := cast.ToIntSliceE(strings.Split(*throughput, ","))
		if err != nil {
			return fmt.Errorf("invalid -throughput: %w", err)
		}
		if _, err := experiments.Throughput(ctx, agentConfigs[0], replays[0], levels); err != nil {
			return fmt.Errorf("throughput run failed: %w", err)
		}
		return nil
	}

	result, err := experiments.Run(ctx, experiments.Experiment{
		Name:      *name,
		Configs:   agentConfigs,
		Scenarios: replays,
		Evaluate:  evaluate,
		Seed:      *seed,
		Parallel:  *parallel,
	})
	if err != nil {
		return fmt.Errorf("experiment failed: %w", err)
	}

	if *out != "" {
		dir, err := result.Write(*out, *name)
		if err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		log.Info().Msgf("results written to %s", dir)
	}
	if *db != "" {
		store, err := metrics.OpenStore(*db)
		if err != nil {
			return fmt.Errorf("failed to open results database: %w", err)
		}
		defer store.Close()
		if err := result.Save(store); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
	}
	return nil
}

func setupLogging(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return nil
}

func loadConfigs(files []string) ([]agent.Config, error) {
	if len(files) == 0 {
		return []agent.Config{agent.DefaultConfig()}, nil
	}
	configs := make([]agent.Config, 0, len(files))
	for _, path := range files {
		c, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		configs = append(configs, c)
	}
	return configs, nil
}
