package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// SequenceRepository hands out monotonically increasing sequence numbers
// per session. Broadcast ordering between instances rides on these.
type SequenceRepository interface {
	NextSequence(ctx context.Context, sessionID string) (int64, error)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sequenceRepository struct {
	db rowQuerier
}

func NewSequenceRepository(db *sql.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) NextSequence(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, fmt.Errorf("session id is required")
	}

	// Single atomic upsert; the RETURNING value is this caller's sequence.
	const query = `
INSERT INTO event_sequences (session_id, last_sequence, updated_at)
VALUES ($1, 1, NOW())
ON CONFLICT (session_id) DO UPDATE
SET last_sequence = event_sequences.last_sequence + 1,
    updated_at = NOW()
RETURNING last_sequence
`

	var next int64
	if err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&next); err != nil {
		return 0, fmt.Errorf("increment sequence: %w", err)
	}
	return next, nil
}

// MemorySequenceRepository backs single-instance deployments that run
// without Postgres. Sequences reset on restart, which is fine there: no
// peer is comparing them.
type MemorySequenceRepository struct {
	mu        sync.Mutex
	sequences map[string]int64
}

func NewMemorySequenceRepository() *MemorySequenceRepository {
	return &MemorySequenceRepository{sequences: make(map[string]int64)}
}

func (r *MemorySequenceRepository) NextSequence(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, fmt.Errorf("session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequences[sessionID]++
	return r.sequences[sessionID], nil
}
