package embeddings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcSpark/agentnode/pkg/embeddings"
)

func TestNewOpenAI(t *testing.T) {
	t.Parallel()

	t.Run("defaults for small model", func(t *testing.T) {
		t.Parallel()

		e, err := embeddings.NewOpenAI("test-key")
		require.NoError(t, err)
		assert.Equal(t, 1536, e.Dimensions())
	})

	t.Run("defaults for large model", func(t *testing.T) {
		t.Parallel()

		e, err := embeddings.NewOpenAI("test-key",
			embeddings.WithOpenAIModel(embeddings.ModelTextEmbedding3Large))
		require.NoError(t, err)
		assert.Equal(t, 3072, e.Dimensions())
	})

	t.Run("missing API key", func(t *testing.T) {
		t.Parallel()

		_, err := embeddings.NewOpenAI("")
		assert.ErrorIs(t, err, embeddings.ErrInvalidAPIKey)
	})

	t.Run("unsupported model", func(t *testing.T) {
		t.Parallel()

		_, err := embeddings.NewOpenAI("test-key",
			embeddings.WithOpenAIModel("text-embedding-ada-002"))
		assert.ErrorIs(t, err, embeddings.ErrModelNotSupported)
	})

	t.Run("invalid dimensions for model", func(t *testing.T) {
		t.Parallel()

		_, err := embeddings.NewOpenAI("test-key",
			embeddings.WithOpenAIDimensions(777))
		assert.ErrorIs(t, err, embeddings.ErrInvalidDimensions)
	})

	t.Run("reduced dimensions accepted", func(t *testing.T) {
		t.Parallel()

		e, err := embeddings.NewOpenAI("test-key",
			embeddings.WithOpenAIDimensions(512))
		require.NoError(t, err)
		assert.Equal(t, 512, e.Dimensions())
	})
}
