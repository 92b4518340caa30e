package embeddings

import (
	"context"
	"fmt"
	"slices"

	"google.golang.org/genai"
)

// Google embedding model names.
const (
	ModelGoogleTextEmbedding005      = "text-embedding-005"
	ModelGoogleMultilingualEmbedding = "text-multilingual-embedding-002"
)

const defaultDimensionsGoogle = 768

// Google implements Embedder using Google's Generative AI API.
type Google struct {
	client     *genai.Client
	model      string
	dimensions int
	maxBatch   int
}

// GoogleOption is a functional option for configuring Google.
type GoogleOption func(*Google)

// WithGoogleModel sets the model to use.
func WithGoogleModel(model string) GoogleOption {
	return func(g *Google) {
		g.model = model
	}
}

// WithGoogleDimensions sets the output embedding dimensions.
// Supported values: 256, 768, 1536, 3072.
func WithGoogleDimensions(dims int) GoogleOption {
	return func(g *Google) {
		g.dimensions = dims
	}
}

// WithGoogleMaxBatchSize caps the batch size for EmbedBatch.
func WithGoogleMaxBatchSize(size int) GoogleOption {
	return func(g *Google) {
		if size > 0 && size <= 100 {
			g.maxBatch = size
		}
	}
}

// NewGoogle creates a Google-backed embedder using the Gemini API.
func NewGoogle(ctx context.Context, apiKey string, opts ...GoogleOption) (*Google, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	g := &Google{
		model:      ModelGoogleMultilingualEmbedding,
		dimensions: defaultDimensionsGoogle,
		maxBatch:   100,
	}

	for _, opt := range opts {
		opt(g)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	g.client = client

	if err := g.validateConfiguration(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Google) validateConfiguration() error {
	switch g.model {
	case ModelGoogleTextEmbedding005, ModelGoogleMultilingualEmbedding:
		validDims := []int{256, 768, 1536, 3072}
		if !slices.Contains(validDims, g.dimensions) {
			return fmt.Errorf("%w: %s supports dimensions 256, 768, 1536 or 3072, got %d",
				ErrInvalidDimensions, g.model, g.dimensions)
		}
	default:
		return fmt.Errorf("%w: %s", ErrModelNotSupported, g.model)
	}
	return nil
}

// Embed converts a single text to a vector embedding.
func (g *Google) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch converts multiple texts to vector embeddings in input order.
func (g *Google) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if len(texts) > g.maxBatch {
		return nil, fmt.Errorf("%w: got %d texts, max is %d", ErrBatchTooLarge, len(texts), g.maxBatch)
	}
	return g.embed(ctx, texts)
}

func (g *Google) embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(text)},
		}
	}

	dims := int32(g.dimensions)
	config := &genai.EmbedContentConfig{OutputDimensionality: &dims}

	resp, err := g.client.Models.EmbedContent(ctx, "models/"+g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return nil, ErrEmbeddingCountMismatch
	}

	result := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("%w: index %d", ErrNoEmbeddingReturned, i)
		}
		result[i] = emb.Values
	}
	return result, nil
}

// Dimensions returns the vector size this implementation produces.
func (g *Google) Dimensions() int {
	return g.dimensions
}
