package embeddings

import "context"

// Embedder generates vector embeddings for job content and extracted
// file text.
type Embedder interface {
	// Embed converts a single text to a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts multiple texts to vector embeddings,
	// returned in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector size this implementation produces.
	Dimensions() int
}
