package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
)

var (
	// ErrToolNotFound is returned when no tool is registered under a name.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolNil is returned when a nil tool is registered.
	ErrToolNil = errors.New("tool cannot be nil")

	// ErrDuplicateTool is returned when a name is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")
)

// Tool is one invocable capability exposed to job processors.
type Tool interface {
	// Name returns the name the tool is routed by.
	Name() string

	// Invoke runs the tool with raw JSON arguments and returns its output.
	Invoke(ctx context.Context, args json.RawMessage) (string, error)
}

// ToolFunc adapts a named function to the Tool interface.
type ToolFunc struct {
	ToolName string
	Fn       func(ctx context.Context, args json.RawMessage) (string, error)
}

// Name returns the tool's routing name.
func (t ToolFunc) Name() string { return t.ToolName }

// Invoke calls the wrapped function.
func (t ToolFunc) Invoke(ctx context.Context, args json.RawMessage) (string, error) {
	return t.Fn(ctx, args)
}

// Router holds a named tool registry and dispatches invocations.
// It is safe for concurrent use.
type Router struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the logger for tool invocations.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter creates an empty tool router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		tools:  make(map[string]Tool),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool under its name.
func (r *Router) Register(tool Tool) error {
	if tool == nil {
		return ErrToolNil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = tool
	return nil
}

// Invoke dispatches to the named tool.
func (r *Router) Invoke(ctx context.Context, name string, args json.RawMessage) (string, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	r.logger.DebugContext(ctx, "invoking tool", slog.String("tool", name))
	out, err := tool.Invoke(ctx, args)
	if err != nil {
		return "", fmt.Errorf("tool %q failed: %w", name, err)
	}
	return out, nil
}

// Names returns the registered tool names, sorted.
func (r *Router) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
