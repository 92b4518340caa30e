package msgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcSpark/agentnode/integration/database/pg"
)

// PostgresStore implements Store on the messages table.
// See integration/database/pg.Migrate for the schema.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a message store over an established pool.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("postgres pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// querier returns the transaction carried by ctx, if any, so message
// writes can join a caller's transaction; otherwise the pool.
func (ps *PostgresStore) querier(ctx context.Context) querier {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return ps.pool
}

// Save persists one message.
func (ps *PostgresStore) Save(ctx context.Context, msg Message) error {
	const q = `
		INSERT INTO messages (id, job_id, sender, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := ps.querier(ctx).Exec(ctx, q, msg.ID, msg.JobID, msg.Sender, msg.Content, msg.CreatedAt); err != nil {
		return fmt.Errorf("failed to save message for job %q: %w", msg.JobID, err)
	}
	return nil
}

// History returns up to limit messages of a job, oldest first.
func (ps *PostgresStore) History(ctx context.Context, jobID string, limit int) ([]Message, error) {
	q := `
		SELECT id, job_id, sender, content, created_at
		FROM messages
		WHERE job_id = $1
		ORDER BY created_at`
	args := []any{jobID}

	if limit > 0 {
		// Newest `limit` rows, re-ordered oldest first.
		q = `
			SELECT id, job_id, sender, content, created_at FROM (
				SELECT id, job_id, sender, content, created_at
				FROM messages
				WHERE job_id = $1
				ORDER BY created_at DESC
				LIMIT $2
			) recent ORDER BY created_at`
		args = append(args, limit)
	}

	rows, err := ps.querier(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for job %q: %w", jobID, err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.JobID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history for job %q: %w", jobID, err)
	}
	return msgs, nil
}
