package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "bizledger:snapshot:"

// RedisStore persists snapshots in Redis, one key per namespace. Keys are
// written without TTL; a snapshot lives until it is overwritten.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping verifies the connection so misconfiguration fails at startup rather
// than on the first flush.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	data, err := r.client.Get(ctx, snapshotKeyPrefix+namespace).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", namespace, err)
	}
	return data, nil
}

func (r *RedisStore) Save(ctx context.Context, namespace string, data []byte) error {
	if err := r.client.Set(ctx, snapshotKeyPrefix+namespace, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", namespace, err)
	}
	return nil
}
