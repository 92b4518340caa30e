package jobqueue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
)

// Manager owns the in-memory mirror of a durable queue store and the
// change-notification stream the scheduler subscribes to.
//
// Write-through discipline: every mutation goes to the store first and
// to the mirror only after the store succeeded. On a store failure the
// mirror is left untouched and the error propagates, so the two views
// never diverge. The mirror is the source of truth for readers (Peek,
// Len, Keys), which keeps the scheduler's hot path off the store.
//
// On construction the manager scans the store and loads every existing
// sub-queue into the mirror. This is the recovery path: items queued
// before a restart are picked up again without producer involvement.
type Manager[T any] struct {
	store  Store[T]
	logger *slog.Logger

	// mu guards both the store call and the mirror update of each
	// mutation so concurrent pushes and pops on one key serialize.
	mu     sync.Mutex
	queues map[string][]T
	closed bool

	subMu   sync.RWMutex
	subs    map[uint64]chan string
	nextSub uint64

	notifyBuffer int
}

// ManagerOption configures a Manager.
type ManagerOption[T any] func(*Manager[T])

// WithManagerLogger sets the logger for queue operations.
func WithManagerLogger[T any](logger *slog.Logger) ManagerOption[T] {
	return func(m *Manager[T]) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithNotifyBuffer sets the per-subscriber buffer for key notifications.
// When a subscriber's buffer is full, notifications for it are dropped;
// the scheduler's periodic sweep covers the loss.
func WithNotifyBuffer[T any](size int) ManagerOption[T] {
	return func(m *Manager[T]) {
		if size > 0 {
			m.notifyBuffer = size
		}
	}
}

// NewManager creates a manager over store and rehydrates the mirror
// from everything the store already holds.
func NewManager[T any](ctx context.Context, store Store[T], opts ...ManagerOption[T]) (*Manager[T], error) {
	if store == nil {
		return nil, ErrStoreNil
	}

	m := &Manager[T]{
		store:        store,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		queues:       make(map[string][]T),
		subs:         make(map[uint64]chan string),
		notifyBuffer: 64,
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.rehydrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to rehydrate queue mirror: %w", err)
	}

	return m, nil
}

// rehydrate loads every persisted sub-queue into the mirror.
func (m *Manager[T]) rehydrate(ctx context.Context) error {
	keys, err := m.store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list persisted queue keys: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		items, err := m.store.List(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to load queue %q: %w", key, err)
		}
		if len(items) > 0 {
			m.queues[key] = items
		}
	}

	if len(m.queues) > 0 {
		m.logger.InfoContext(ctx, "queue mirror rehydrated from store",
			slog.Int("queues", len(m.queues)))
	}
	return nil
}

// Push durably appends item under key, updates the mirror, and notifies
// subscribers that the key has pending work. On a store failure the
// mirror is not updated and the caller may retry.
func (m *Manager[T]) Push(ctx context.Context, key string, item T) error {
	if key == "" {
		return ErrEmptyQueueKey
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}

	if err := m.store.Push(ctx, key, item); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to persist item for queue %q: %w", key, err)
	}
	m.queues[key] = append(m.queues[key], item)
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "item queued", slog.String("queue_key", key))
	m.notify(ctx, key)
	return nil
}

// Pop durably removes and returns the front item under key. The mirror
// is updated only after the store succeeded; when the store reports an
// empty queue the mirror entry is dropped as well.
func (m *Manager[T]) Pop(ctx context.Context, key string) (T, bool, error) {
	var zero T
	if key == "" {
		return zero, false, ErrEmptyQueueKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return zero, false, ErrManagerClosed
	}

	item, ok, err := m.store.Pop(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("failed to pop item from queue %q: %w", key, err)
	}
	if !ok {
		delete(m.queues, key)
		return zero, false, nil
	}

	if queue := m.queues[key]; len(queue) > 1 {
		m.queues[key] = queue[1:]
	} else {
		delete(m.queues, key)
	}
	return item, true, nil
}

// Peek returns the front item under key from the mirror.
func (m *Manager[T]) Peek(key string) (T, bool) {
	var zero T

	m.mu.Lock()
	defer m.mu.Unlock()

	queue := m.queues[key]
	if len(queue) == 0 {
		return zero, false
	}
	return queue[0], true
}

// Len reports the number of pending items under key.
func (m *Manager[T]) Len(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues[key])
}

// Keys returns every key with pending items, sorted for deterministic
// sweeps.
func (m *Manager[T]) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.queues))
	for key, queue := range m.queues {
		if len(queue) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// PendingTotal reports the number of pending items across all keys.
func (m *Manager[T]) PendingTotal() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, queue := range m.queues {
		total += len(queue)
	}
	return total
}

// Subscribe returns a channel that emits a key each time that key gains
// pending work. The subscription is removed when ctx is cancelled.
// Delivery is non-blocking: if the subscriber's buffer is full the
// notification is dropped rather than stalling producers.
func (m *Manager[T]) Subscribe(ctx context.Context) <-chan string {
	ch := make(chan string, m.notifyBuffer)

	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.subMu.Unlock()

	go func() {
		<-ctx.Done()
		m.subMu.Lock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
		m.subMu.Unlock()
	}()

	return ch
}

// notify broadcasts key to every subscriber without blocking.
func (m *Manager[T]) notify(ctx context.Context, key string) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for _, sub := range m.subs {
		select {
		case sub <- key:
		default:
			m.logger.DebugContext(ctx, "subscriber buffer full, notification dropped",
				slog.String("queue_key", key))
		}
	}
}

// Close marks the manager closed. Subsequent pushes and pops fail with
// ErrManagerClosed; open subscriptions are closed.
func (m *Manager[T]) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	m.closed = true
	m.mu.Unlock()

	m.subMu.Lock()
	for id, sub := range m.subs {
		delete(m.subs, id)
		close(sub)
	}
	m.subMu.Unlock()

	m.logger.Info("queue manager closed")
	return nil
}
