package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sessionRow struct {
	ID        string `gorm:"primaryKey"`
	Agent     int    `gorm:"index"`
	Scenario  string `gorm:"index"`
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Turns     int
	Launches  int
	Rejected  int
}

func (sessionRow) TableName() string { return "sessions" }

type turnRow struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	Session         string `gorm:"index"`
	Step            int
	Turn            int
	Phase           string
	Duration        time.Duration
	Estimates       int
	Rollouts        int
	NoPath          int
	Escalations     int
	Intents         int
	Rejected        int
	Launched        bool
	LaunchX         int
	LaunchY         int
	Risk            *float64 // Unset when the launch had no finite risk
	PredictedBreach bool
	Score           float64
}

func (turnRow) TableName() string { return "turns" }

// Store persists experiment records to SQLite.
type Store struct {
	db *gorm.DB
}

// OpenStore opens or creates the SQLite database at path. An empty path
// keeps the database in memory.
func OpenStore(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if path == "" {
		// Every connection would see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&sessionRow{}, &turnRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) SaveSessions(records []SessionRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]sessionRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, sessionRow{
			ID:        r.ID,
			Agent:     r.Agent,
			Scenario:  r.Scenario,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Duration:  r.Duration,
			Turns:     r.Turns,
			Launches:  r.Launches,
			Rejected:  r.Rejected,
		})
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to save sessions: %w", err)
	}
	return nil
}

func (s *Store) SaveTurns(records []TurnRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]turnRow, 0, len(records))
	for _, r := range records {
		row := turnRow{
			Session:         r.Session,
			Step:            r.Step,
			Turn:            r.Turn,
			Phase:           r.Phase,
			Duration:        r.Duration,
			Estimates:       r.Estimates,
			Rollouts:        r.Rollouts,
			NoPath:          r.NoPath,
			Escalations:     r.Escalations,
			Intents:         r.Intents,
			Rejected:        r.Rejected,
			Launched:        r.Launched,
			LaunchX:         r.LaunchX,
			LaunchY:         r.LaunchY,
			PredictedBreach: r.PredictedBreach,
			Score:           r.Score,
		}
		if r.Launched && !math.IsInf(r.Risk, 0) && !math.IsNaN(r.Risk) {
			risk := r.Risk
			row.Risk = &risk
		}
		rows = append(rows, row)
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to save turns: %w", err)
	}
	return nil
}

// Turns loads the turn records of a session in step order.
func (s *Store) Turns(session string) ([]TurnRecord, error) {
	var rows []turnRow
	err := s.db.Where("session = ?", session).Order("step").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	records := make([]TurnRecord, 0, len(rows))
	for _, row := range rows {
		record := TurnRecord{
			Session: row.Session,
			Step:    row.Step,
			TurnMetric: TurnMetric{
				Phase:           row.Phase,
				Intents:         row.Intents,
				Rejected:        row.Rejected,
				Launched:        row.Launched,
				LaunchX:         row.LaunchX,
				LaunchY:         row.LaunchY,
				PredictedBreach: row.PredictedBreach,
				Score:           row.Score,
				DecisionMetric: DecisionMetric{
					Turn:        row.Turn,
					Duration:    row.Duration,
					Estimates:   row.Estimates,
					Rollouts:    row.Rollouts,
					NoPath:      row.NoPath,
					Escalations: row.Escalations,
				},
			},
		}
		if row.Risk != nil {
			record.Risk = *row.Risk
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Store) SessionCount() (int64, error) {
	var n int64
	if err := s.db.Model(&sessionRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
