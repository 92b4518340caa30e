package jobqueue

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store in process memory. It is intended for
// tests and local development; durability is limited to the lifetime of
// the process, but the contract (atomicity, FIFO per key, prefix
// namespacing) matches the persistent backends exactly, which is what
// makes it a faithful stand-in for recovery tests.
type MemoryStore[T any] struct {
	mu     sync.RWMutex
	queues map[string][]T
	prefix string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore[T any](opts ...StoreOption) *MemoryStore[T] {
	options := newStoreOptions(opts...)
	return &MemoryStore[T]{
		queues: make(map[string][]T),
		prefix: options.prefix,
	}
}

// Push appends item to the named sub-queue.
func (ms *MemoryStore[T]) Push(ctx context.Context, key string, item T) error {
	if key == "" {
		return ErrEmptyQueueKey
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	k := storageKey(ms.prefix, key)
	ms.queues[k] = append(ms.queues[k], item)
	return nil
}

// Pop removes and returns the front item of the named sub-queue.
func (ms *MemoryStore[T]) Pop(ctx context.Context, key string) (T, bool, error) {
	var zero T
	if key == "" {
		return zero, false, ErrEmptyQueueKey
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	k := storageKey(ms.prefix, key)
	queue := ms.queues[k]
	if len(queue) == 0 {
		return zero, false, nil
	}

	item := queue[0]
	if len(queue) == 1 {
		delete(ms.queues, k)
	} else {
		ms.queues[k] = queue[1:]
	}
	return item, true, nil
}

// Peek returns the front item without removing it.
func (ms *MemoryStore[T]) Peek(ctx context.Context, key string) (T, bool, error) {
	var zero T
	if key == "" {
		return zero, false, ErrEmptyQueueKey
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	queue := ms.queues[storageKey(ms.prefix, key)]
	if len(queue) == 0 {
		return zero, false, nil
	}
	return queue[0], true, nil
}

// List returns every pending item of the named sub-queue in FIFO order.
func (ms *MemoryStore[T]) List(ctx context.Context, key string) ([]T, error) {
	if key == "" {
		return nil, ErrEmptyQueueKey
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	queue := ms.queues[storageKey(ms.prefix, key)]
	items := make([]T, len(queue))
	copy(items, queue)
	return items, nil
}

// Keys returns every key with at least one pending item, sorted for
// deterministic sweeps.
func (ms *MemoryStore[T]) Keys(ctx context.Context) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	keys := make([]string, 0, len(ms.queues))
	for k, queue := range ms.queues {
		if len(queue) == 0 {
			continue
		}
		keys = append(keys, queueKey(ms.prefix, k))
	}
	sort.Strings(keys)
	return keys, nil
}

// Len reports the number of pending items under key. Test helper.
func (ms *MemoryStore[T]) Len(key string) int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.queues[storageKey(ms.prefix, key)])
}
