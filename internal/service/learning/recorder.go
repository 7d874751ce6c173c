package learning

import (
	"context"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/learning"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/store/sqlite"
)

// Recorder stores and retrieves per-entity learning records. Callers treat
// it as best-effort: write failures must never block a conversation, and
// read failures degrade to "no prior learning".
type Recorder interface {
	Record(ctx context.Context, record learning.Record) error
	List(ctx context.Context, entityID string, activeOnly bool, limit int) ([]learning.Record, error)
}

// SQLiteRecorder persists records in the nexus database.
type SQLiteRecorder struct {
	store *sqlite.Store
}

// NewSQLiteRecorder wraps the given store.
func NewSQLiteRecorder(store *sqlite.Store) *SQLiteRecorder {
	return &SQLiteRecorder{store: store}
}

// Record persists one learning record.
func (r *SQLiteRecorder) Record(ctx context.Context, record learning.Record) error {
	if record.UsageCount == 0 {
		record.UsageCount = 1
	}
	record.IsActive = true
	_, err := r.store.CreateLearning(ctx, record)
	return err
}

// List returns records for the entity, newest first.
func (r *SQLiteRecorder) List(ctx context.Context, entityID string, activeOnly bool, limit int) ([]learning.Record, error) {
	return r.store.ListLearnings(ctx, entityID, activeOnly, limit)
}
