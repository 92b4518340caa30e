package msgstore

import (
	"context"
	"sync"
)

// MemoryStore implements Store in process memory, for tests and local
// development.
type MemoryStore struct {
	mu       sync.RWMutex
	messages map[string][]Message
}

// NewMemoryStore creates an empty in-memory message store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: make(map[string][]Message)}
}

// Save persists one message.
func (ms *MemoryStore) Save(ctx context.Context, msg Message) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.messages[msg.JobID] = append(ms.messages[msg.JobID], msg)
	return nil
}

// History returns up to limit messages of a job, oldest first.
func (ms *MemoryStore) History(ctx context.Context, jobID string, limit int) ([]Message, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	msgs := ms.messages[jobID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
