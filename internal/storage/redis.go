package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "cart:session:"

// RedisStorage is the alternate storage backend for deployments that keep
// session state in Redis instead of Postgres. Entries have no TTL: the cart
// lives as long as the shopping session does.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(addr, password string, db int) *RedisStorage {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStorage{client: client}
}

func (s *RedisStorage) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStorage) Set(ctx context.Context, sessionID, key string, value []byte) error {
	return s.client.Set(ctx, redisKey(sessionID, key), value, 0).Err()
}

func (s *RedisStorage) Delete(ctx context.Context, sessionID, key string) error {
	return s.client.Del(ctx, redisKey(sessionID, key)).Err()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}

func redisKey(sessionID, key string) string {
	return sessionKeyPrefix + sessionID + ":" + key
}
