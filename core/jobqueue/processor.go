package jobqueue

import (
	"context"

	"github.com/dcSpark/agentnode/core/identity"
	"github.com/dcSpark/agentnode/core/msgstore"
	"github.com/dcSpark/agentnode/core/stream"
	"github.com/dcSpark/agentnode/core/tools"
	"github.com/dcSpark/agentnode/core/vectorfs"
	"github.com/dcSpark/agentnode/pkg/embeddings"
	"github.com/dcSpark/agentnode/pkg/handle"
	"github.com/dcSpark/agentnode/pkg/textextract"
)

// Processor performs the actual work for one queue item. Implementations
// are supplied by the caller; the scheduler only sequences invocations
// and isolates their failures.
//
// The returned string is the processing outcome (for example the
// generated reply) and is handed back to logging only; the queue does
// not retain results. An error fails the single item without affecting
// the rest of its sub-queue. The processor is responsible for bounding
// its own latency unless the scheduler is configured with
// WithProcessTimeout.
type Processor[T any] interface {
	Process(ctx context.Context, item T, env ProcessEnv) (string, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc[T any] func(ctx context.Context, item T, env ProcessEnv) (string, error)

// Process calls f.
func (f ProcessorFunc[T]) Process(ctx context.Context, item T, env ProcessEnv) (string, error) {
	return f(ctx, item, env)
}

// ProcessEnv carries the external collaborators a processor may use.
// Shared services are non-owning references: if the owning component has
// released one, Get returns false and the processor should skip the
// dependent step and report the condition instead of failing the run.
// Streams and Tools are optional and may be nil.
type ProcessEnv struct {
	// Messages is the persistent chat-message store.
	Messages *handle.Ref[msgstore.Store]

	// Resources is the vector-resource store for retrieval-augmented
	// processing.
	Resources *handle.Ref[vectorfs.Store]

	// Embedder generates vector embeddings for content and files.
	Embedder *handle.Ref[embeddings.Embedder]

	// Extractor converts inbox files to plain text.
	Extractor *handle.Ref[textextract.Extractor]

	// Identity is the node identity including its signing key. Owned by
	// value: signing must keep working for the scheduler's lifetime.
	Identity *identity.Identity

	// Streams notifies connected UIs about processing progress. Optional.
	Streams *stream.Manager

	// Tools routes tool invocations requested during processing. Optional.
	Tools *tools.Router
}
