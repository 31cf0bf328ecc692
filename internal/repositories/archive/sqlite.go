package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ravenshollow/grimoire/internal/models"
)

// Config holds configuration for the SQLite archive repository
type Config struct {
	// Path to the database file; ":memory:" for an in-memory archive
	Path string
}

// sqliteRepository implements the Repository interface using SQLite
type sqliteRepository struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed archive repository and applies the
// schema
func NewSQLite(cfg *Config) (*sqliteRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Path == "" {
		return nil, errors.New("database path cannot be empty")
	}

	dsn := cfg.Path + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return &sqliteRepository{db: db}, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			character TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			actor_team TEXT NOT NULL,
			target_ids TEXT,
			true_result TEXT NOT NULL,
			delivered_result TEXT NOT NULL,
			corrupted BOOLEAN NOT NULL DEFAULT 0,
			efficacy_failed BOOLEAN NOT NULL DEFAULT 0,
			truth_probability REAL NOT NULL,
			confidence REAL NOT NULL,
			reasoning TEXT,
			day INTEGER NOT NULL,
			night BOOLEAN NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_game ON decisions(game_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			type TEXT NOT NULL,
			day INTEGER NOT NULL,
			phase TEXT NOT NULL,
			actor_id TEXT,
			target_id TEXT,
			message TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_game_day ON events(game_id, day, created_at);`,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis reverses toMillis for persisted millisecond timestamps.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// AppendDecision archives one decision record
func (r *sqliteRepository) AppendDecision(ctx context.Context, input *AppendDecisionInput) error {
	if input == nil || input.GameID == "" || input.Decision == nil {
		return errors.New("input, game ID and decision cannot be empty")
	}

	d := input.Decision
	targetsJSON, err := json.Marshal(d.TargetIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal target ids: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO decisions (
			id, game_id, character, actor_id, actor_team, target_ids,
			true_result, delivered_result, corrupted, efficacy_failed,
			truth_probability, confidence, reasoning, day, night, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, input.GameID, d.Character, d.ActorID, string(d.ActorTeam), string(targetsJSON),
		d.TrueResult, d.DeliveredResult, d.Corrupted, d.EfficacyFailed,
		d.TruthProbability, d.Confidence, d.Reasoning, d.Day, d.Night, toMillis(d.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to append decision: %w", err)
	}
	return nil
}

// AppendEvent archives one public event
func (r *sqliteRepository) AppendEvent(ctx context.Context, input *AppendEventInput) error {
	if input == nil || input.GameID == "" || input.Event == nil {
		return errors.New("input, game ID and event cannot be empty")
	}

	e := input.Event
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, game_id, type, day, phase, actor_id, target_id, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, input.GameID, string(e.Type), e.Day, string(e.Phase), e.ActorID, e.TargetID, e.Message, toMillis(e.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// ListDecisions retrieves a game's decision log in append order
func (r *sqliteRepository) ListDecisions(ctx context.Context, input *ListDecisionsInput) ([]*models.DecisionRecord, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, character, actor_id, actor_team, target_ids,
			true_result, delivered_result, corrupted, efficacy_failed,
			truth_probability, confidence, reasoning, day, night, created_at
		 FROM decisions WHERE game_id = ? ORDER BY created_at, id`,
		input.GameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []*models.DecisionRecord
	for rows.Next() {
		var d models.DecisionRecord
		var team, targetsJSON string
		var createdAt int64
		if err := rows.Scan(
			&d.ID, &d.Character, &d.ActorID, &team, &targetsJSON,
			&d.TrueResult, &d.DeliveredResult, &d.Corrupted, &d.EfficacyFailed,
			&d.TruthProbability, &d.Confidence, &d.Reasoning, &d.Day, &d.Night, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		d.ActorTeam = models.Team(team)
		d.Timestamp = fromMillis(createdAt)
		if err := json.Unmarshal([]byte(targetsJSON), &d.TargetIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal target ids: %w", err)
		}
		decisions = append(decisions, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decisions: %w", err)
	}
	return decisions, nil
}

// ListEvents retrieves a game's public events, optionally filtered to one day
func (r *sqliteRepository) ListEvents(ctx context.Context, input *ListEventsInput) ([]*models.PublicEvent, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	query := `SELECT id, type, day, phase, actor_id, target_id, message, created_at
		 FROM events WHERE game_id = ?`
	args := []any{input.GameID}
	if input.Day >= 0 {
		query += ` AND day = ?`
		args = append(args, input.Day)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.PublicEvent
	for rows.Next() {
		var e models.PublicEvent
		var eventType, phase string
		var createdAt int64
		if err := rows.Scan(&e.ID, &eventType, &e.Day, &phase, &e.ActorID, &e.TargetID, &e.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Type = models.EventType(eventType)
		e.Phase = models.Phase(phase)
		e.Timestamp = fromMillis(createdAt)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// Close releases the underlying database
func (r *sqliteRepository) Close() error {
	return r.db.Close()
}
