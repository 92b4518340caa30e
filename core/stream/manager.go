package stream

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// EventKind classifies progress events pushed to connected UIs.
type EventKind string

const (
	EventStarted  EventKind = "started"
	EventProgress EventKind = "progress"
	EventResult   EventKind = "result"
	EventFailed   EventKind = "failed"
)

// Event is one progress notification for a job.
type Event struct {
	JobID   string    `json:"job_id"`
	Kind    EventKind `json:"kind"`
	Payload string    `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// Manager fans job progress events out to websocket subscribers keyed
// by job ID. Delivery is best effort: a connection that fails a write
// is detached and closed, never retried, so one dead client cannot
// stall processing.
type Manager struct {
	mu     sync.Mutex
	conns  map[string]map[*websocket.Conn]struct{}
	logger *slog.Logger

	writeTimeout time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger for stream operations.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithWriteTimeout bounds each websocket write.
func WithWriteTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.writeTimeout = d
		}
	}
}

// NewManager creates an empty stream manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		conns:        make(map[string]map[*websocket.Conn]struct{}),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Attach subscribes conn to events of jobID.
func (m *Manager) Attach(jobID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs, ok := m.conns[jobID]
	if !ok {
		subs = make(map[*websocket.Conn]struct{})
		m.conns[jobID] = subs
	}
	subs[conn] = struct{}{}
}

// Detach unsubscribes conn from events of jobID. The connection itself
// is left open; closing it is the caller's responsibility.
func (m *Manager) Detach(jobID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detachLocked(jobID, conn)
}

func (m *Manager) detachLocked(jobID string, conn *websocket.Conn) {
	subs := m.conns[jobID]
	delete(subs, conn)
	if len(subs) == 0 {
		delete(m.conns, jobID)
	}
}

// Subscribers reports the number of connections attached to jobID.
func (m *Manager) Subscribers(jobID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns[jobID])
}

// Push sends event to every connection attached to its job. Failing
// connections are detached and closed.
func (m *Manager) Push(ctx context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for conn := range m.conns[event.JobID] {
		_ = conn.SetWriteDeadline(time.Now().Add(m.writeTimeout))
		if err := conn.WriteJSON(event); err != nil {
			m.logger.WarnContext(ctx, "stream write failed, detaching connection",
				slog.String("job_id", event.JobID),
				slog.String("error", err.Error()))
			m.detachLocked(event.JobID, conn)
			_ = conn.Close()
		}
	}
}

// Close detaches and closes every connection.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for jobID, subs := range m.conns {
		for conn := range subs {
			_ = conn.Close()
		}
		delete(m.conns, jobID)
	}
	return nil
}
