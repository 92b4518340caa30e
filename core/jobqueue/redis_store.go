package jobqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis lists. Each sub-queue is one
// list under the namespaced key; RPUSH/LPOP give FIFO semantics and
// Redis's single-threaded command execution gives per-key atomicity.
// Items are stored as JSON.
type RedisStore[T any] struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store over an established Redis client.
func NewRedisStore[T any](client *redis.Client, opts ...StoreOption) (*RedisStore[T], error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}

	options := newStoreOptions(opts...)
	return &RedisStore[T]{
		client: client,
		prefix: options.prefix,
	}, nil
}

// Push appends item to the named sub-queue.
func (rs *RedisStore[T]) Push(ctx context.Context, key string, item T) error {
	if key == "" {
		return ErrEmptyQueueKey
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}

	if err := rs.client.RPush(ctx, storageKey(rs.prefix, key), data).Err(); err != nil {
		return fmt.Errorf("failed to push to redis queue %q: %w", key, err)
	}
	return nil
}

// Pop removes and returns the front item of the named sub-queue.
func (rs *RedisStore[T]) Pop(ctx context.Context, key string) (T, bool, error) {
	var zero T
	if key == "" {
		return zero, false, ErrEmptyQueueKey
	}

	data, err := rs.client.LPop(ctx, storageKey(rs.prefix, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to pop from redis queue %q: %w", key, err)
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return zero, false, fmt.Errorf("failed to unmarshal queue item: %w", err)
	}
	return item, true, nil
}

// Peek returns the front item without removing it.
func (rs *RedisStore[T]) Peek(ctx context.Context, key string) (T, bool, error) {
	var zero T
	if key == "" {
		return zero, false, ErrEmptyQueueKey
	}

	data, err := rs.client.LIndex(ctx, storageKey(rs.prefix, key), 0).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to peek redis queue %q: %w", key, err)
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return zero, false, fmt.Errorf("failed to unmarshal queue item: %w", err)
	}
	return item, true, nil
}

// List returns every pending item of the named sub-queue in FIFO order.
func (rs *RedisStore[T]) List(ctx context.Context, key string) ([]T, error) {
	if key == "" {
		return nil, ErrEmptyQueueKey
	}

	raw, err := rs.client.LRange(ctx, storageKey(rs.prefix, key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list redis queue %q: %w", key, err)
	}

	items := make([]T, 0, len(raw))
	for _, data := range raw {
		var item T
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queue item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Keys returns every key with at least one pending item. Redis drops
// empty lists, so every matching key is non-empty by construction.
func (rs *RedisStore[T]) Keys(ctx context.Context) ([]string, error) {
	var keys []string

	match := rs.prefix + prefixSeparator + "*"
	iter := rs.client.Scan(ctx, 0, match, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, queueKey(rs.prefix, iter.Val()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan redis queue keys: %w", err)
	}
	return keys, nil
}
