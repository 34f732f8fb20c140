package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counts are reset per turn", func(t *testing.T) {
		c := NewCollector()
		c.Start(3)
		c.AddEstimate()
		c.AddEstimate()
		c.AddRollout()
		c.AddNoPath()
		c.AddEscalation()

		got := c.Complete()
		require.Equal(t, 3, got.Turn)
		require.Equal(t, 2, got.Estimates)
		require.Equal(t, 1, got.Rollouts)
		require.Equal(t, 1, got.NoPath)
		require.Equal(t, 1, got.Escalations)

		c.Start(4)
		require.Equal(t, DecisionMetric{Turn: 4}, withoutDuration(c.Complete()))
	})

	t.Run("dummy collector records nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(1)
		c.AddRollout()

		require.Equal(t, DecisionMetric{}, c.Complete())
	})
}

func withoutDuration(m DecisionMetric) DecisionMetric {
	m.Duration = 0
	return m
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "replay")
	require.NoError(t, err)

	err = w.WriteTurnRecords([]TurnRecord{
		{Session: "s1", Step: 1, TurnMetric: TurnMetric{Phase: "idle", Intents: 4, DecisionMetric: DecisionMetric{Turn: 1}}},
		{Session: "s1", Step: 2, TurnMetric: TurnMetric{Phase: "committed", Launched: true, LaunchX: 5, LaunchY: 8, Risk: 10}},
	})
	require.NoError(t, err)
	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Name: "default", Tier1: 2, Tier2: 2.75}}))
	require.NoError(t, w.WriteSessionRecords([]SessionRecord{{ID: "s1", Agent: 1}}))

	f, err := os.Open(filepath.Join(w.Dir(), "turn_records.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3, "Header plus one row per record")
	require.Equal(t, "session", rows[0][0])
	require.Equal(t, []string{"s1", "2", "0", "committed"}, rows[2][:4])
	require.Equal(t, "10", rows[2][14])

	_, err = os.Stat(filepath.Join(w.Dir(), "agent_configs.csv"))
	require.NoError(t, err)
}

func TestStore(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err = store.SaveSessions([]SessionRecord{{
		ID:            "s1",
		Agent:         1,
		SessionMetric: SessionMetric{Scenario: "edge-rush", StartTime: start, EndTime: start.Add(time.Second), Turns: 2},
	}})
	require.NoError(t, err)

	err = store.SaveTurns([]TurnRecord{
		{Session: "s1", Step: 2, TurnMetric: TurnMetric{Phase: "committed", Launched: true, Risk: 15, PredictedBreach: true}},
		{Session: "s1", Step: 1, TurnMetric: TurnMetric{Phase: "idle", Intents: 3}},
		{Session: "s2", Step: 1},
	})
	require.NoError(t, err)

	n, err := store.SessionCount()
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	turns, err := store.Turns("s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, 1, turns[0].Step)
	require.Equal(t, 3, turns[0].Intents)
	require.Equal(t, 15.0, turns[1].Risk)
	require.True(t, turns[1].PredictedBreach)
}
