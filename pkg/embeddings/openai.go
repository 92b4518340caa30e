package embeddings

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI embedding model names.
const (
	ModelTextEmbedding3Small = "text-embedding-3-small"
	ModelTextEmbedding3Large = "text-embedding-3-large"
)

const (
	defaultDimensionsSmall = 1536
	defaultDimensionsLarge = 3072
	openAIMaxBatch         = 2048 // API limit
)

// OpenAI implements Embedder using OpenAI's embeddings API.
type OpenAI struct {
	client     openai.Client
	model      string
	dimensions int
	maxBatch   int
}

// OpenAIOption is a functional option for configuring OpenAI.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel sets the model to use.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		o.model = model
	}
}

// WithOpenAIDimensions sets the output embedding dimensions.
func WithOpenAIDimensions(dims int) OpenAIOption {
	return func(o *OpenAI) {
		o.dimensions = dims
	}
}

// WithOpenAIMaxBatchSize caps the batch size for EmbedBatch.
func WithOpenAIMaxBatchSize(size int) OpenAIOption {
	return func(o *OpenAI) {
		if size > 0 && size <= openAIMaxBatch {
			o.maxBatch = size
		}
	}
}

// WithOpenAIHTTPClient sets a custom HTTP client.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(o *OpenAI) {
		if client != nil {
			o.client = openai.NewClient(option.WithHTTPClient(client))
		}
	}
}

// NewOpenAI creates an OpenAI-backed embedder.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	o := &OpenAI{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		model:    ModelTextEmbedding3Small,
		maxBatch: 100,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.dimensions == 0 {
		switch o.model {
		case ModelTextEmbedding3Small:
			o.dimensions = defaultDimensionsSmall
		case ModelTextEmbedding3Large:
			o.dimensions = defaultDimensionsLarge
		default:
			return nil, fmt.Errorf("%w: %s", ErrModelNotSupported, o.model)
		}
	}

	if err := o.validateDimensions(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *OpenAI) validateDimensions() error {
	switch o.model {
	case ModelTextEmbedding3Small:
		if o.dimensions != 512 && o.dimensions != 1536 {
			return fmt.Errorf("%w: %s supports 512 or 1536 dimensions, got %d",
				ErrInvalidDimensions, o.model, o.dimensions)
		}
	case ModelTextEmbedding3Large:
		if o.dimensions != 256 && o.dimensions != 1024 && o.dimensions != 3072 {
			return fmt.Errorf("%w: %s supports 256, 1024 or 3072 dimensions, got %d",
				ErrInvalidDimensions, o.model, o.dimensions)
		}
	default:
		return fmt.Errorf("%w: %s", ErrModelNotSupported, o.model)
	}
	return nil
}

// Embed converts a single text to a vector embedding.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	}
	params.Dimensions = openai.Int(int64(o.dimensions))

	resp, err := o.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoEmbeddingReturned
	}

	return toFloat32(resp.Data[0].Embedding), nil
}

// EmbedBatch converts multiple texts to vector embeddings in input order.
func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if len(texts) > o.maxBatch {
		return nil, fmt.Errorf("%w: got %d texts, max is %d", ErrBatchTooLarge, len(texts), o.maxBatch)
	}

	inputs := make([]string, len(texts))
	copy(inputs, texts)

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: inputs,
		},
	}
	params.Dimensions = openai.Int(int64(o.dimensions))

	resp, err := o.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(texts), len(resp.Data))
	}

	result := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		result[i] = toFloat32(data.Embedding)
	}
	return result, nil
}

// Dimensions returns the vector size this implementation produces.
func (o *OpenAI) Dimensions() int {
	return o.dimensions
}

// toFloat32 narrows the API's float64 vectors to the storage format.
func toFloat32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
