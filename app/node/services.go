package node

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/dcSpark/agentnode/core/identity"
	"github.com/dcSpark/agentnode/core/jobqueue"
	"github.com/dcSpark/agentnode/core/msgstore"
	"github.com/dcSpark/agentnode/core/stream"
	"github.com/dcSpark/agentnode/core/tools"
	"github.com/dcSpark/agentnode/core/vectorfs"
	"github.com/dcSpark/agentnode/pkg/embeddings"
	"github.com/dcSpark/agentnode/pkg/handle"
	"github.com/dcSpark/agentnode/pkg/textextract"
)

// ServicesConfig selects the external collaborators handed to the
// processor. Optional services are left out of the environment when
// their settings are empty.
type ServicesConfig struct {
	Extract textextract.Config

	IdentityName string `env:"NODE_IDENTITY_NAME" envDefault:"agentnode"`
	IdentitySeed string `env:"NODE_IDENTITY_SEED"` // hex-encoded 32 bytes, random key when empty

	EmbedderProvider string `env:"EMBEDDER_PROVIDER"` // openai or google
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	GoogleAPIKey     string `env:"GEMINI_API_KEY"`
}

// Services owns the collaborators referenced from the processor env.
// The node holds the owners; the env carries only non-owning refs, so
// releasing a service is observed by in-flight processors as an absent
// handle rather than a dangling pointer.
type Services struct {
	messages  *handle.Owner[msgstore.Store]
	resources *handle.Owner[vectorfs.Store]
	embedder  *handle.Owner[embeddings.Embedder]
	extractor *handle.Owner[textextract.Extractor]
	identity  *identity.Identity
	streams   *stream.Manager
	tools     *tools.Router
}

// NewServices assembles collaborators from configuration. Message and
// resource stores default to memory implementations; callers override
// them by replacing the owners before building the env.
func NewServices(ctx context.Context, cfg ServicesConfig) (*Services, error) {
	id, err := newIdentity(cfg)
	if err != nil {
		return nil, err
	}

	svc := &Services{
		messages:  handle.NewOwner[msgstore.Store](msgstore.NewMemoryStore()),
		resources: handle.NewOwner[vectorfs.Store](vectorfs.NewMemoryStore()),
		identity:  id,
		streams:   stream.NewManager(),
		tools:     tools.NewRouter(),
	}

	if cfg.EmbedderProvider != "" {
		embedder, err := newEmbedder(ctx, cfg)
		if err != nil {
			return nil, err
		}
		svc.embedder = handle.NewOwner[embeddings.Embedder](embedder)
	}

	if cfg.Extract.BaseURL != "" {
		extractor, err := textextract.NewClientFromConfig(cfg.Extract)
		if err != nil {
			return nil, err
		}
		svc.extractor = handle.NewOwner[textextract.Extractor](extractor)
	}

	return svc, nil
}

func newIdentity(cfg ServicesConfig) (*identity.Identity, error) {
	if cfg.IdentitySeed == "" {
		return identity.New(cfg.IdentityName)
	}

	seed, err := hex.DecodeString(cfg.IdentitySeed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode identity seed: %w", err)
	}
	return identity.FromSeed(cfg.IdentityName, seed)
}

func newEmbedder(ctx context.Context, cfg ServicesConfig) (embeddings.Embedder, error) {
	switch cfg.EmbedderProvider {
	case "openai":
		return embeddings.NewOpenAI(cfg.OpenAIAPIKey)
	case "google":
		return embeddings.NewGoogle(ctx, cfg.GoogleAPIKey)
	default:
		return nil, fmt.Errorf("unknown embedder provider %q", cfg.EmbedderProvider)
	}
}

// Env builds the processor environment from the owned services.
func (s *Services) Env() jobqueue.ProcessEnv {
	env := jobqueue.ProcessEnv{
		Messages:  s.messages.Ref(),
		Resources: s.resources.Ref(),
		Identity:  s.identity,
		Streams:   s.streams,
		Tools:     s.tools,
	}
	if s.embedder != nil {
		env.Embedder = s.embedder.Ref()
	}
	if s.extractor != nil {
		env.Extractor = s.extractor.Ref()
	}
	return env
}

// Identity returns the node identity.
func (s *Services) Identity() *identity.Identity {
	return s.identity
}

// Streams returns the UI stream manager for transport wiring.
func (s *Services) Streams() *stream.Manager {
	return s.streams
}

// Tools returns the tool router for registration.
func (s *Services) Tools() *tools.Router {
	return s.tools
}

// Release drops every owned service. In-flight processors observe this
// through failed handle upgrades and skip the dependent steps.
func (s *Services) Release() {
	s.messages.Release()
	s.resources.Release()
	if s.embedder != nil {
		s.embedder.Release()
	}
	if s.extractor != nil {
		s.extractor.Release()
	}
	if s.streams != nil {
		_ = s.streams.Close()
	}
}
