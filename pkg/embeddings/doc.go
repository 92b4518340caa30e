// Package embeddings converts text to vector embeddings for the
// vector-resource store. It ships OpenAI and Google implementations
// behind one Embedder interface so the processing layer stays
// provider-agnostic.
package embeddings
