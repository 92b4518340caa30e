package vectorfs

import "context"

// Chunk is one embedded text fragment of a job's resources.
type Chunk struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// Store is the vector-resource boundary consumed by processors: chunks
// are saved per job and searched by embedding similarity. The internal
// resource model is owned by the backend.
type Store interface {
	// SaveChunks appends embedded chunks to a job's resource set.
	SaveChunks(ctx context.Context, jobID string, chunks []Chunk) error

	// Search returns up to limit chunks of a job ranked by cosine
	// similarity to vector, most similar first.
	Search(ctx context.Context, jobID string, vector []float32, limit int) ([]Chunk, error)
}
