package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xpbowler/climbe-terminal/agent"
	"github.com/xpbowler/climbe-terminal/engine"
	"github.com/xpbowler/climbe-terminal/experiments/metrics"
	"github.com/xpbowler/climbe-terminal/game"
)

const quietScenario = `
name: quiet
turns:
  - self: {sp: 40, mp: 5}
  - self: {sp: 5, mp: 5}
  - self: {sp: 5, mp: 10}
  - self: {sp: 5, mp: 6}
`

func scenarios(t *testing.T) []engine.Scenario {
	t.Helper()
	quiet, err := engine.ParseScenario([]byte(quietScenario))
	require.NoError(t, err)
	short := quiet
	short.Name = "short"
	short.Turns = quiet.Turns[:2]
	return []engine.Scenario{quiet, short}
}

func configs() []agent.Config {
	patient := agent.DefaultConfig()
	patient.Name = "patient"
	patient.Offense.MinAttackTurn = 10
	return []agent.Config{agent.DefaultConfig(), patient}
}

func TestRun(t *testing.T) {
	result, err := Run(context.Background(), Experiment{
		Name:      "test",
		Configs:   configs(),
		Scenarios: scenarios(t),
		Seed:      7,
		Parallel:  2,
	})
	require.NoError(t, err)

	require.Len(t, result.Configs, 2)
	require.Equal(t, metrics.AgentConfig{
		ID: 2, Name: "patient", Tier1: 2, Tier2: 2.75, Cooldown: 2, Jitter: 1, MinAttackTurn: 10, Shortlist: 3, Seed: 8,
	}, result.Configs[1])

	require.Len(t, result.Sessions, 4)
	var names [][2]string
	for _, s := range result.Sessions {
		require.NotEmpty(t, s.ID)
		names = append(names, [2]string{s.SessionMetric.Agent, s.Scenario})
	}
	require.Equal(t, [][2]string{
		{"default", "quiet"}, {"default", "short"}, {"patient", "quiet"}, {"patient", "short"},
	}, names, "Records keep config then scenario order")
	require.Equal(t, 1, result.Sessions[0].Agent)
	require.Equal(t, 2, result.Sessions[3].Agent)

	require.Equal(t, 1, result.Sessions[0].Launches, "Turn 2 launches, turn 3 is cooling down")
	require.Equal(t, 0, result.Sessions[2].Launches)
	require.Len(t, result.Turns, 4+2+4+2)
	require.Equal(t, result.Sessions[0].ID, result.Turns[0].Session)
	require.Equal(t, 1, result.Turns[0].Step)

	t.Run("written as csv", func(t *testing.T) {
		dir, err := result.Write(t.TempDir(), "test")
		require.NoError(t, err)
		for _, file := range []string{"agent_configs.csv", "session_records.csv", "turn_records.csv"} {
			_, err := os.Stat(filepath.Join(dir, file))
			require.NoError(t, err)
		}
	})

	t.Run("saved to a store", func(t *testing.T) {
		store, err := metrics.OpenStore("")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		require.NoError(t, result.Save(store))

		n, err := store.SessionCount()
		require.NoError(t, err)
		require.Equal(t, int64(4), n)
		turns, err := store.Turns(result.Sessions[1].ID)
		require.NoError(t, err)
		require.Len(t, turns, 2)
	})
}

func TestRunEvaluation(t *testing.T) {
	result, err := Run(context.Background(), Experiment{
		Name:      "resources",
		Configs:   configs()[:1],
		Scenarios: scenarios(t)[1:],
		Evaluate:  game.EvaluateResources,
	})
	require.NoError(t, err)

	require.Len(t, result.Turns, 2)
	require.Equal(t, 1.0, result.Turns[0].Score, "The opponent holds no resources in this scenario")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Experiment{Name: "cancelled", Configs: configs(), Scenarios: scenarios(t)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestThroughput(t *testing.T) {
	points, err := Throughput(context.Background(), agent.DefaultConfig(), scenarios(t)[0], []int{1, 2})
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, 4, points[0].Turns)
	require.Equal(t, 8, points[1].Turns)

	_, err = Throughput(context.Background(), agent.DefaultConfig(), scenarios(t)[0], []int{0})
	require.Error(t, err)
}
