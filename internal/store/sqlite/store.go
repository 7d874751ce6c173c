package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/chat"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/learning"
)

// Store holds the durable state of one nexus install: the session snapshot
// slot and the learning records.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and initializes the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// OpenInMemory opens a throwaway database, used by tests.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// A pooled second connection would see a different empty database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_snapshot (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			payload    TEXT NOT NULL,
			updated_ts TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS learning (
			id               TEXT PRIMARY KEY,
			entity_id        TEXT NOT NULL,
			entity_name      TEXT NOT NULL,
			learning_type    TEXT NOT NULL,
			content          TEXT NOT NULL,
			context          TEXT NOT NULL,
			source           TEXT NOT NULL,
			confidence_score REAL NOT NULL,
			usage_count      INTEGER NOT NULL DEFAULT 0,
			success_rate     REAL NOT NULL,
			is_active        INTEGER NOT NULL DEFAULT 1,
			created_ts       TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_learning_entity ON learning(entity_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot rewrites the single session-list slot.
func (s *Store) SaveSnapshot(ctx context.Context, sessions []chat.Session) error {
	payload, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session_snapshot (id, payload, updated_ts) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_ts = excluded.updated_ts`,
		string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the session-list slot. A missing slot yields an empty
// list.
func (s *Store) LoadSnapshot(ctx context.Context) ([]chat.Session, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM session_snapshot WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []chat.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var sessions []chat.Session
	if err := json.Unmarshal([]byte(payload), &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if sessions == nil {
		sessions = []chat.Session{}
	}
	return sessions, nil
}

// CreateLearning persists a new learning record and returns it with its
// assigned id and timestamp.
func (s *Store) CreateLearning(ctx context.Context, record learning.Record) (learning.Record, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learning (id, entity_id, entity_name, learning_type, content, context, source,
			confidence_score, usage_count, success_rate, is_active, created_ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.EntityID, record.EntityName, string(record.LearningType),
		record.Content, record.Context, string(record.Source),
		record.ConfidenceScore, record.UsageCount, record.SuccessRate,
		boolToInt(record.IsActive), record.CreatedAt)
	if err != nil {
		return learning.Record{}, fmt.Errorf("failed to insert learning: %w", err)
	}
	return record, nil
}

// ListLearnings returns records for an entity, newest first. limit <= 0
// means no limit.
func (s *Store) ListLearnings(ctx context.Context, entityID string, activeOnly bool, limit int) ([]learning.Record, error) {
	where, args := []string{"entity_id = ?"}, []any{entityID}
	if activeOnly {
		where = append(where, "is_active = 1")
	}

	query := fmt.Sprintf(
		`SELECT id, entity_id, entity_name, learning_type, content, context, source,
			confidence_score, usage_count, success_rate, is_active, created_ts
		 FROM learning WHERE %s ORDER BY created_ts DESC`,
		strings.Join(where, " AND "))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list learnings: %w", err)
	}
	defer rows.Close()

	var records []learning.Record
	for rows.Next() {
		var record learning.Record
		var learningType, source string
		var active int
		if err := rows.Scan(&record.ID, &record.EntityID, &record.EntityName, &learningType,
			&record.Content, &record.Context, &source,
			&record.ConfidenceScore, &record.UsageCount, &record.SuccessRate,
			&active, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan learning: %w", err)
		}
		record.LearningType = learning.Type(learningType)
		record.Source = learning.Source(source)
		record.IsActive = active != 0
		records = append(records, record)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
