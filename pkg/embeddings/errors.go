package embeddings

import "errors"

var (
	// ErrInvalidAPIKey indicates an invalid or missing API key.
	ErrInvalidAPIKey = errors.New("invalid or missing API key")

	// ErrModelNotSupported indicates the model is not supported.
	ErrModelNotSupported = errors.New("model not supported")

	// ErrInvalidDimensions indicates invalid dimensions for the model.
	ErrInvalidDimensions = errors.New("invalid dimensions for model")

	// ErrBatchTooLarge indicates the batch size exceeds the limit.
	ErrBatchTooLarge = errors.New("batch size exceeds limit")

	// ErrNoEmbeddingReturned indicates the API returned no embedding.
	ErrNoEmbeddingReturned = errors.New("no embedding returned")

	// ErrEmbeddingCountMismatch indicates the number of embeddings
	// returned does not match the input.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
