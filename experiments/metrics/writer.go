package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type AgentConfig struct {
	ID            int
	Name          string
	Tier1         float64
	Tier2         float64
	Cooldown      int
	Jitter        int
	MinAttackTurn int
	Shortlist     int
	Seed          uint64
}

type SessionRecord struct {
	ID    string // Session UUID
	Agent int    // AgentConfig.ID
	SessionMetric
}

type TurnRecord struct {
	Session string // SessionRecord.ID
	Step    int
	TurnMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped results directory under root/name.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "name", "tier1", "tier2", "cooldown", "jitter", "min_attack_turn", "shortlist", "seed"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Name,
			formatFloat(config.Tier1),
			formatFloat(config.Tier2),
			strconv.Itoa(config.Cooldown),
			strconv.Itoa(config.Jitter),
			strconv.Itoa(config.MinAttackTurn),
			strconv.Itoa(config.Shortlist),
			strconv.FormatUint(config.Seed, 10),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteSessionRecords(records []SessionRecord) error {
	header := []string{"id", "agent", "scenario", "start_time", "end_time", "duration", "turns", "launches", "rejected"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.ID,
			strconv.Itoa(record.Agent),
			record.Scenario,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.Launches),
			strconv.Itoa(record.Rejected),
		})
	}
	return w.write("session_records.csv", header, rows)
}

func (w *Writer) WriteTurnRecords(records []TurnRecord) error {
	header := []string{
		"session", "step", "turn", "phase", "duration", "estimates", "rollouts", "no_path", "escalations",
		"intents", "rejected", "launched", "launch_x", "launch_y", "risk", "predicted_breach", "score",
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Session,
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Turn),
			record.Phase,
			record.Duration.String(),
			strconv.Itoa(record.Estimates),
			strconv.Itoa(record.Rollouts),
			strconv.Itoa(record.NoPath),
			strconv.Itoa(record.Escalations),
			strconv.Itoa(record.Intents),
			strconv.Itoa(record.Rejected),
			strconv.FormatBool(record.Launched),
			strconv.Itoa(record.LaunchX),
			strconv.Itoa(record.LaunchY),
			formatFloat(record.Risk),
			strconv.FormatBool(record.PredictedBreach),
			formatFloat(record.Score),
		})
	}
	return w.write("turn_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", file, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", file, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
