package msgstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcSpark/agentnode/core/msgstore"
)

func TestMemoryStore_History(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := msgstore.NewMemoryStore()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		err := store.Save(ctx, msgstore.Message{
			ID:        uuid.New(),
			JobID:     "job-1",
			Sender:    "user",
			Content:   fmt.Sprintf("turn %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	t.Run("full history oldest first", func(t *testing.T) {
		msgs, err := store.History(ctx, "job-1", 0)
		require.NoError(t, err)
		require.Len(t, msgs, 5)
		assert.Equal(t, "turn 0", msgs[0].Content)
		assert.Equal(t, "turn 4", msgs[4].Content)
	})

	t.Run("limited history keeps newest", func(t *testing.T) {
		msgs, err := store.History(ctx, "job-1", 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "turn 3", msgs[0].Content)
		assert.Equal(t, "turn 4", msgs[1].Content)
	})

	t.Run("unknown job is empty", func(t *testing.T) {
		msgs, err := store.History(ctx, "missing", 0)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}
