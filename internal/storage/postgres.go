package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PostgresStorage struct {
	pool DBPool
}

func NewPostgresStorage(pool DBPool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var value []byte
	row := s.pool.QueryRow(ctx,
		`SELECT value FROM session_state WHERE session_id=$1 AND key=$2`, sessionID, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *PostgresStorage) Set(ctx context.Context, sessionID, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO session_state(session_id, key, value, updated_at)
		VALUES($1, $2, $3, now())
		ON CONFLICT (session_id, key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()
	`, sessionID, key, value)
	return err
}

func (s *PostgresStorage) Delete(ctx context.Context, sessionID, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM session_state WHERE session_id=$1 AND key=$2`, sessionID, key)
	return err
}
