package vectorfs

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
)

// ErrDimensionMismatch is returned when a query vector's length differs
// from the stored chunks'.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// MemoryStore implements Store in process memory with brute-force
// cosine search. Suitable for tests and small resource sets.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string][]Chunk
}

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[string][]Chunk)}
}

// SaveChunks appends embedded chunks to a job's resource set.
func (ms *MemoryStore) SaveChunks(ctx context.Context, jobID string, chunks []Chunk) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.chunks[jobID] = append(ms.chunks[jobID], chunks...)
	return nil
}

// Search returns up to limit chunks ranked by cosine similarity.
func (ms *MemoryStore) Search(ctx context.Context, jobID string, vector []float32, limit int) ([]Chunk, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	stored := ms.chunks[jobID]
	if len(stored) == 0 {
		return nil, nil
	}

	type scored struct {
		chunk Chunk
		score float64
	}

	results := make([]scored, 0, len(stored))
	for _, c := range stored {
		if len(c.Vector) != len(vector) {
			return nil, ErrDimensionMismatch
		}
		results = append(results, scored{chunk: c, score: cosine(vector, c.Vector)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	out := make([]Chunk, len(results))
	for i, r := range results {
		out[i] = r.chunk
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
