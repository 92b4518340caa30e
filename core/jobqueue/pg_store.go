package jobqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a single job_queue table. Items are
// JSONB payloads ordered by a bigserial sequence; pop deletes the lowest
// sequence row in one statement with FOR UPDATE SKIP LOCKED, which makes
// concurrent pops on the same key safe without an advisory lock.
type PostgresStore[T any] struct {
	pool   *pgxpool.Pool
	prefix string
}

// NewPostgresStore creates a store over an established connection pool.
// The job_queue table must exist; see integration/database/pg.Migrate.
func NewPostgresStore[T any](pool *pgxpool.Pool, opts ...StoreOption) (*PostgresStore[T], error) {
	if pool == nil {
		return nil, errors.New("postgres pool is nil")
	}

	options := newStoreOptions(opts...)
	return &PostgresStore[T]{
		pool:   pool,
		prefix: options.prefix,
	}, nil
}

// Push appends item to the named sub-queue.
func (ps *PostgresStore[T]) Push(ctx context.Context, key string, item T) error {
	if key == "" {
		return ErrEmptyQueueKey
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}

	const q = `INSERT INTO job_queue (queue_family, queue_key, payload) VALUES ($1, $2, $3)`
	if _, err := ps.pool.Exec(ctx, q, ps.prefix, key, payload); err != nil {
		return fmt.Errorf("failed to push to queue %q: %w", key, err)
	}
	return nil
}

// Pop removes and returns the front item of the named sub-queue.
func (ps *PostgresStore[T]) Pop(ctx context.Context, key string) (T, bool, error) {
	var zero T
	if key == "" {
		return zero, false, ErrEmptyQueueKey
	}

	const q = `
		DELETE FROM job_queue
		WHERE seq = (
			SELECT seq FROM job_queue
			WHERE queue_family = $1 AND queue_key = $2
			ORDER BY seq
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING payload`

	var payload []byte
	err := ps.pool.QueryRow(ctx, q, ps.prefix, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to pop from queue %q: %w", key, err)
	}

	var item T
	if err := json.Unmarshal(payload, &item); err != nil {
		return zero, false, fmt.Errorf("failed to unmarshal queue item: %w", err)
	}
	return item, true, nil
}

// Peek returns the front item without removing it.
func (ps *PostgresStore[T]) Peek(ctx context.Context, key string) (T, bool, error) {
	var zero T
	if key == "" {
		return zero, false, ErrEmptyQueueKey
	}

	const q = `
		SELECT payload FROM job_queue
		WHERE queue_family = $1 AND queue_key = $2
		ORDER BY seq
		LIMIT 1`

	var payload []byte
	err := ps.pool.QueryRow(ctx, q, ps.prefix, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to peek queue %q: %w", key, err)
	}

	var item T
	if err := json.Unmarshal(payload, &item); err != nil {
		return zero, false, fmt.Errorf("failed to unmarshal queue item: %w", err)
	}
	return item, true, nil
}

// List returns every pending item of the named sub-queue in FIFO order.
func (ps *PostgresStore[T]) List(ctx context.Context, key string) ([]T, error) {
	if key == "" {
		return nil, ErrEmptyQueueKey
	}

	const q = `
		SELECT payload FROM job_queue
		WHERE queue_family = $1 AND queue_key = $2
		ORDER BY seq`

	rows, err := ps.pool.Query(ctx, q, ps.prefix, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue %q: %w", key, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan queue item: %w", err)
		}
		var item T
		if err := json.Unmarshal(payload, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queue item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queue %q: %w", key, err)
	}
	return items, nil
}

// Keys returns every key with at least one pending item.
func (ps *PostgresStore[T]) Keys(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT queue_key FROM job_queue WHERE queue_family = $1 ORDER BY queue_key`

	rows, err := ps.pool.Query(ctx, q, ps.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan queue key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queue keys: %w", err)
	}
	return keys, nil
}
