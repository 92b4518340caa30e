package jobqueue_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcSpark/agentnode/core/jobqueue"
)

// faultStore wraps a real store and fails selected operations, for
// verifying that the mirror never diverges from the store.
type faultStore struct {
	jobqueue.Store[string]
	failPush bool
	failPop  bool
}

var errStoreDown = errors.New("store down")

func (f *faultStore) Push(ctx context.Context, key, item string) error {
	if f.failPush {
		return errStoreDown
	}
	return f.Store.Push(ctx, key, item)
}

func (f *faultStore) Pop(ctx context.Context, key string) (string, bool, error) {
	if f.failPop {
		return "", false, errStoreDown
	}
	return f.Store.Pop(ctx, key)
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	t.Run("nil store error", func(t *testing.T) {
		t.Parallel()

		manager, err := jobqueue.NewManager[string](context.Background(), nil)
		require.ErrorIs(t, err, jobqueue.ErrStoreNil)
		assert.Nil(t, manager)
	})

	t.Run("empty store starts empty", func(t *testing.T) {
		t.Parallel()

		manager, err := jobqueue.NewManager(context.Background(), jobqueue.NewMemoryStore[string]())
		require.NoError(t, err)
		assert.Empty(t, manager.Keys())
		assert.Zero(t, manager.PendingTotal())
	})
}

func TestManager_Rehydration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := jobqueue.NewMemoryStore[string]()

	require.NoError(t, store.Push(ctx, "job-a", "a1"))
	require.NoError(t, store.Push(ctx, "job-a", "a2"))
	require.NoError(t, store.Push(ctx, "job_id::123::false", "b1"))

	manager, err := jobqueue.NewManager[string](ctx, store)
	require.NoError(t, err)

	assert.Equal(t, []string{"job-a", "job_id::123::false"}, manager.Keys())
	assert.Equal(t, 2, manager.Len("job-a"))
	assert.Equal(t, 3, manager.PendingTotal())

	front, ok := manager.Peek("job-a")
	require.True(t, ok)
	assert.Equal(t, "a1", front)

	// Pops drain in the order persisted before the manager existed.
	item, ok, err := manager.Pop(ctx, "job-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a1", item)
}

func TestManager_RecoveryIdempotence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := jobqueue.NewMemoryStore[string]()

	first, err := jobqueue.NewManager[string](ctx, store)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, first.Push(ctx, "job-a", fmt.Sprintf("item-%d", i)))
	}
	require.NoError(t, first.Close())

	// A restart over the same store sees exactly the same pending set,
	// with no duplication.
	second, err := jobqueue.NewManager[string](ctx, store)
	require.NoError(t, err)

	assert.Equal(t, 4, second.Len("job-a"))
	assert.Equal(t, 4, store.Len("job-a"))

	for i := 0; i < 4; i++ {
		item, ok, err := second.Pop(ctx, "job-a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("item-%d", i), item)
	}
}

func TestManager_WriteThrough(t *testing.T) {
	t.Parallel()

	t.Run("push failure leaves mirror untouched", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		inner := jobqueue.NewMemoryStore[string]()
		store := &faultStore{Store: inner}

		manager, err := jobqueue.NewManager[string](ctx, store)
		require.NoError(t, err)

		require.NoError(t, manager.Push(ctx, "job-a", "a1"))

		store.failPush = true
		err = manager.Push(ctx, "job-a", "a2")
		require.ErrorIs(t, err, errStoreDown)

		assert.Equal(t, 1, manager.Len("job-a"))
		assert.Equal(t, 1, inner.Len("job-a"))

		// Retry succeeds after the store recovers.
		store.failPush = false
		require.NoError(t, manager.Push(ctx, "job-a", "a2"))
		assert.Equal(t, 2, manager.Len("job-a"))
		assert.Equal(t, 2, inner.Len("job-a"))
	})

	t.Run("pop failure leaves mirror untouched", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		inner := jobqueue.NewMemoryStore[string]()
		store := &faultStore{Store: inner}

		manager, err := jobqueue.NewManager[string](ctx, store)
		require.NoError(t, err)
		require.NoError(t, manager.Push(ctx, "job-a", "a1"))

		store.failPop = true
		_, _, err = manager.Pop(ctx, "job-a")
		require.ErrorIs(t, err, errStoreDown)

		assert.Equal(t, 1, manager.Len("job-a"))
		assert.Equal(t, 1, inner.Len("job-a"))
	})
}

func TestManager_PushPop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, err := jobqueue.NewManager(ctx, jobqueue.NewMemoryStore[string]())
	require.NoError(t, err)

	t.Run("empty key rejected", func(t *testing.T) {
		err := manager.Push(ctx, "", "item")
		assert.ErrorIs(t, err, jobqueue.ErrEmptyQueueKey)

		_, _, err = manager.Pop(ctx, "")
		assert.ErrorIs(t, err, jobqueue.ErrEmptyQueueKey)
	})

	t.Run("pop empty queue", func(t *testing.T) {
		_, ok, err := manager.Pop(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("fifo round trip", func(t *testing.T) {
		require.NoError(t, manager.Push(ctx, "job-a", "first"))
		require.NoError(t, manager.Push(ctx, "job-a", "second"))

		item, ok, err := manager.Pop(ctx, "job-a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "first", item)

		item, ok, err = manager.Pop(ctx, "job-a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "second", item)

		assert.Empty(t, manager.Keys())
	})
}

func TestManager_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("notifies on push", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		manager, err := jobqueue.NewManager(ctx, jobqueue.NewMemoryStore[string]())
		require.NoError(t, err)

		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		notifications := manager.Subscribe(subCtx)

		require.NoError(t, manager.Push(ctx, "job-a", "a1"))

		select {
		case key := <-notifications:
			assert.Equal(t, "job-a", key)
		case <-time.After(time.Second):
			t.Fatal("expected a key notification")
		}
	})

	t.Run("unsubscribes on context cancel", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		manager, err := jobqueue.NewManager(ctx, jobqueue.NewMemoryStore[string]())
		require.NoError(t, err)

		subCtx, cancel := context.WithCancel(ctx)
		notifications := manager.Subscribe(subCtx)
		cancel()

		require.Eventually(t, func() bool {
			select {
			case _, open := <-notifications:
				return !open
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		manager, err := jobqueue.NewManager(ctx, jobqueue.NewMemoryStore[string](),
			jobqueue.WithNotifyBuffer[string](1))
		require.NoError(t, err)

		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		_ = manager.Subscribe(subCtx)

		// Nothing reads the subscription; pushes must still return.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 10; i++ {
				_ = manager.Push(ctx, "job-a", "item")
			}
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("push blocked on a saturated subscriber")
		}
	})
}

func TestManager_Close(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, err := jobqueue.NewManager(ctx, jobqueue.NewMemoryStore[string]())
	require.NoError(t, err)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	notifications := manager.Subscribe(subCtx)

	require.NoError(t, manager.Close())

	assert.ErrorIs(t, manager.Push(ctx, "job-a", "item"), jobqueue.ErrManagerClosed)
	_, _, err = manager.Pop(ctx, "job-a")
	assert.ErrorIs(t, err, jobqueue.ErrManagerClosed)
	assert.ErrorIs(t, manager.Close(), jobqueue.ErrManagerClosed)

	_, open := <-notifications
	assert.False(t, open)
}
