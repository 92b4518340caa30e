package jobqueue

import (
	"context"
	"strings"
)

// Store is the durable backing for keyed FIFO sub-queues. Every
// implementation namespaces its keys under a queue-family prefix so
// unrelated queue families sharing one database never collide.
//
// Push and Pop must be atomic with respect to concurrent operations on
// the same key: a push either fully persists the item or leaves the
// sub-queue untouched, and no two pops ever return the same item.
type Store[T any] interface {
	// Push appends item to the named sub-queue.
	Push(ctx context.Context, key string, item T) error

	// Pop removes and returns the front item of the named sub-queue.
	// The second return value is false when the sub-queue is empty.
	Pop(ctx context.Context, key string) (T, bool, error)

	// Peek returns the front item without removing it.
	Peek(ctx context.Context, key string) (T, bool, error)

	// List returns every pending item of the named sub-queue in FIFO
	// order. Used by the manager to rebuild its mirror on startup.
	List(ctx context.Context, key string) ([]T, error)

	// Keys returns every key with at least one pending item.
	Keys(ctx context.Context) ([]string, error)
}

// StoreOption configures a store implementation.
type StoreOption func(*storeOptions)

type storeOptions struct {
	prefix string
}

// WithQueuePrefix overrides the queue-family prefix under which a store
// persists its sub-queues.
func WithQueuePrefix(prefix string) StoreOption {
	return func(o *storeOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

func newStoreOptions(opts ...StoreOption) *storeOptions {
	options := &storeOptions{prefix: DefaultQueuePrefix}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

const prefixSeparator = ":"

// storageKey builds the namespaced storage key for a sub-queue.
func storageKey(prefix, key string) string {
	return prefix + prefixSeparator + key
}

// queueKey recovers the sub-queue key from a namespaced storage key.
// Trimming the prefix instead of splitting keeps keys that themselves
// contain separator characters intact.
func queueKey(prefix, storage string) string {
	return strings.TrimPrefix(storage, prefix+prefixSeparator)
}
