package msgstore

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is one persisted chat message. The full message schema is
// owned by the store backend; this is the slice the processing layer
// needs.
type Message struct {
	ID        uuid.UUID `json:"id"`
	JobID     string    `json:"job_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistent chat-message boundary consumed by processors.
type Store interface {
	// Save persists one message.
	Save(ctx context.Context, msg Message) error

	// History returns up to limit messages of a job, oldest first.
	// A non-positive limit returns the full history.
	History(ctx context.Context, jobID string, limit int) ([]Message, error)
}
