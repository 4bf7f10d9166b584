package dedup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// Repository tracks the highest broadcast sequence applied per session.
// The peer-sync consumer drops anything at or below the checkpoint, which
// is what makes resynchronization last-writer-wins instead of replaying
// stale states.
type Repository interface {
	GetLastSequence(ctx context.Context, consumerName, sessionID string) (int64, bool, error)
	SetLastSequence(ctx context.Context, consumerName, sessionID string, newSeq int64) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetLastSequence(ctx context.Context, consumerName, sessionID string) (int64, bool, error) {
	var last int64
	err := r.db.QueryRowContext(ctx, `
		SELECT last_sequence
		FROM sync_checkpoints
		WHERE consumer_name = $1 AND session_id = $2
	`, consumerName, sessionID).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("select last_sequence: %w", err)
	}
	return last, true, nil
}

func (r *repo) SetLastSequence(ctx context.Context, consumerName, sessionID string, newSeq int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_checkpoints (consumer_name, session_id, last_sequence, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (consumer_name, session_id)
		DO UPDATE SET
			last_sequence = GREATEST(sync_checkpoints.last_sequence, EXCLUDED.last_sequence),
			updated_at = NOW()
	`, consumerName, sessionID, newSeq)
	if err != nil {
		return fmt.Errorf("upsert last_sequence: %w", err)
	}
	return nil
}

// MemoryRepository is the checkpoint store for deployments without
// Postgres, and for tests.
type MemoryRepository struct {
	mu          sync.Mutex
	checkpoints map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{checkpoints: make(map[string]int64)}
}

func (r *MemoryRepository) GetLastSequence(ctx context.Context, consumerName, sessionID string) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	last, ok := r.checkpoints[consumerName+"|"+sessionID]
	return last, ok, nil
}

func (r *MemoryRepository) SetLastSequence(ctx context.Context, consumerName, sessionID string, newSeq int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := consumerName + "|" + sessionID
	if newSeq > r.checkpoints[key] {
		r.checkpoints[key] = newSeq
	}
	return nil
}
