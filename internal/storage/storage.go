package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Storage is a durable session-scoped key-value facility. The cart store
// mirrors its full state into it under a fixed set of keys on every
// mutation and rehydrates from it on first access.
type Storage interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID, key string) error
}
