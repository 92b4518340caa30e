package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Scheduler drains keyed sub-queues across a bounded worker pool while
// holding two invariants:
//
//   - per-key mutual exclusion: at most one worker ever holds draining
//     rights for a given key, so same-key items run strictly in FIFO
//     order and never concurrently;
//   - bounded concurrency: at most MaxConcurrency workers run globally,
//     enforced by a semaphore.
//
// A worker owns its key from the moment the key enters the active set
// until it observes an empty pop. Only after that exit can the key be
// assigned again, which is what makes the FIFO guarantee hold without
// per-item locking.
//
// Failure isolation is the bulkhead pattern: a processor error or panic
// fails the single item, the worker moves on to the next item of the
// same key, and other keys are entirely unaffected.
type Scheduler[T any] struct {
	manager   *Manager[T]
	processor Processor[T]
	env       ProcessEnv

	sem    chan struct{}
	mu     sync.Mutex
	active map[string]struct{}
	wg     sync.WaitGroup

	// kick wakes the dispatch loop after a worker exits, covering keys
	// that were skipped while every slot was busy and pushes that raced
	// a worker's final empty pop.
	kick chan struct{}

	// Configuration
	sweepInterval   time.Duration
	processTimeout  time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	schedulerID     uuid.UUID

	// State management
	ctx    context.Context
	cancel context.CancelFunc

	// Observability metrics
	itemsProcessed atomic.Int64
	itemsFailed    atomic.Int64
	activeWorkers  atomic.Int32
}

// SchedulerStats provides observability metrics for monitoring and tests.
type SchedulerStats struct {
	ItemsProcessed int64 // Successfully processed items
	ItemsFailed    int64 // Items whose processor returned an error or panicked
	ActiveWorkers  int32 // Workers currently assigned to a key
	IsRunning      bool  // Whether the scheduler loop is running
}

// NewScheduler creates a scheduler over manager that invokes processor
// for every item, with env passed through to each invocation.
func NewScheduler[T any](manager *Manager[T], processor Processor[T], env ProcessEnv, opts ...SchedulerOption[T]) (*Scheduler[T], error) {
	if manager == nil {
		return nil, ErrManagerNil
	}
	if processor == nil {
		return nil, ErrProcessorNil
	}

	options := &schedulerOptions{
		maxConcurrency:  4,
		sweepInterval:   5 * time.Second,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.maxConcurrency <= 0 {
		return nil, ErrInvalidConcurrency
	}

	return &Scheduler[T]{
		manager:         manager,
		processor:       processor,
		env:             env,
		sem:             make(chan struct{}, options.maxConcurrency),
		active:          make(map[string]struct{}),
		kick:            make(chan struct{}, 1),
		sweepInterval:   options.sweepInterval,
		processTimeout:  options.processTimeout,
		shutdownTimeout: options.shutdownTimeout,
		logger:          options.logger,
		schedulerID:     uuid.New(),
	}, nil
}

// NewSchedulerFromConfig creates a Scheduler from configuration.
// Additional options override config values.
func NewSchedulerFromConfig[T any](cfg Config, manager *Manager[T], processor Processor[T], env ProcessEnv, opts ...SchedulerOption[T]) (*Scheduler[T], error) {
	allOpts := append([]SchedulerOption[T]{
		WithMaxConcurrency[T](cfg.MaxConcurrency),
		WithSweepInterval[T](cfg.SweepInterval),
		WithProcessTimeout[T](cfg.ProcessTimeout),
		WithShutdownTimeout[T](cfg.ShutdownTimeout),
	}, opts...)

	return NewScheduler(manager, processor, env, allOpts...)
}

// Start runs the dispatch loop. This is a blocking operation that runs
// until the context is cancelled; use Run for the errgroup pattern or
// call Start in a goroutine.
//
// The loop reacts to three wake sources: key notifications from the
// manager, worker-exit kicks, and a periodic sweep. The sweep doubles as
// the startup pass that picks up work persisted before a restart.
func (s *Scheduler[T]) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(s.ctx, "job scheduler started",
		slog.String("scheduler_id", s.schedulerID.String()),
		slog.Int("max_concurrency", cap(s.sem)),
		slog.Duration("sweep_interval", s.sweepInterval))

	notifications := s.manager.Subscribe(s.ctx)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	// Startup sweep: assign workers for everything already pending.
	s.dispatchPending()

	for {
		select {
		case <-s.ctx.Done():
			s.logger.InfoContext(context.Background(), "job scheduler stopping",
				slog.String("scheduler_id", s.schedulerID.String()))
			return s.ctx.Err()
		case key, ok := <-notifications:
			if !ok {
				return s.ctx.Err()
			}
			s.dispatch(key)
		case <-s.kick:
			s.dispatchPending()
		case <-ticker.C:
			s.dispatchPending()
		}
	}
}

// Stop cancels the dispatch loop and waits for active workers to finish
// their current item, bounded by the shutdown timeout.
func (s *Scheduler[T]) Stop() error {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return ErrNotStarted
	}
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()

	s.logger.Info("scheduler stopping, waiting for active workers",
		slog.String("scheduler_id", s.schedulerID.String()),
		slog.Duration("timeout", s.shutdownTimeout))

	ctx, ctxCancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped cleanly",
			slog.String("scheduler_id", s.schedulerID.String()))
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler shutdown timeout exceeded, abandoning workers",
			slog.String("scheduler_id", s.schedulerID.String()),
			slog.Duration("timeout", s.shutdownTimeout))
		return fmt.Errorf("%w after %s", ErrShutdownTimeout, s.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle
// management: it starts the scheduler, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (s *Scheduler[T]) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- s.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = s.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// dispatchPending assigns workers for every key with pending work.
func (s *Scheduler[T]) dispatchPending() {
	for _, key := range s.manager.Keys() {
		s.dispatch(key)
	}
}

// dispatch assigns a worker to key unless the key is already active,
// has no pending work, or every slot is busy. A busy pool is not an
// error: the next worker exit kicks the loop and the key is retried.
func (s *Scheduler[T]) dispatch(key string) {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return
	}
	if _, busy := s.active[key]; busy {
		s.mu.Unlock()
		return
	}
	if s.manager.Len(key) == 0 {
		s.mu.Unlock()
		return
	}

	select {
	case s.sem <- struct{}{}:
	default:
		s.mu.Unlock()
		return
	}

	s.active[key] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.DebugContext(s.ctx, "worker assigned",
		slog.String("queue_key", key))

	go s.drain(key)
}

// drain is the worker loop. It holds exclusive draining rights for key
// until it observes an empty pop, then releases its slot and wakes the
// dispatcher.
func (s *Scheduler[T]) drain(key string) {
	s.activeWorkers.Add(1)

	defer func() {
		s.mu.Lock()
		delete(s.active, key)
		s.mu.Unlock()
		<-s.sem
		s.activeWorkers.Add(-1)
		s.wg.Done()

		// The key may have gained work between the final empty pop and
		// the active-set removal; the kick makes the dispatcher re-check.
		select {
		case s.kick <- struct{}{}:
		default:
		}
	}()

	for {
		if s.ctx.Err() != nil {
			return
		}

		item, ok, err := s.manager.Pop(s.ctx, key)
		if err != nil {
			// Persistence failure: leave the remaining items queued and
			// give up the slot; the sweep retries the key later.
			s.logger.ErrorContext(s.ctx, "failed to pop item, releasing key",
				slog.String("queue_key", key),
				slog.String("error", err.Error()))
			return
		}
		if !ok {
			return
		}

		s.processItem(key, item)
	}
}

// processItem runs the processor for one item and records the outcome.
// Errors and panics are logged and counted but never abort the drain.
func (s *Scheduler[T]) processItem(key string, item T) {
	start := time.Now()

	// Processing runs on an independent context so a stopping scheduler
	// does not abort an item mid-flight; the worker loop exits between
	// items instead.
	ctx := context.Background()
	if s.processTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.processTimeout)
		defer cancel()
	}

	result, err := s.invoke(ctx, item)
	duration := time.Since(start)

	if err != nil {
		s.itemsFailed.Add(1)
		s.logger.ErrorContext(s.ctx, "item processing failed",
			slog.String("queue_key", key),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return
	}

	s.itemsProcessed.Add(1)
	s.logger.InfoContext(s.ctx, "item processed",
		slog.String("queue_key", key),
		slog.Duration("duration", duration),
		slog.Int("result_size", len(result)))
}

// invoke calls the processor with panic recovery at the worker boundary,
// converting a panic into a per-item failure.
func (s *Scheduler[T]) invoke(ctx context.Context, item T) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in processor: %v", r)
		}
	}()

	return s.processor.Process(ctx, item, s.env)
}

// Stats returns current scheduler statistics for observability and tests.
// This method is thread-safe and can be called at any time.
func (s *Scheduler[T]) Stats() SchedulerStats {
	s.mu.Lock()
	isRunning := s.cancel != nil
	s.mu.Unlock()

	return SchedulerStats{
		ItemsProcessed: s.itemsProcessed.Load(),
		ItemsFailed:    s.itemsFailed.Load(),
		ActiveWorkers:  s.activeWorkers.Load(),
		IsRunning:      isRunning,
	}
}

// ActiveKeys returns the keys currently assigned to a worker.
func (s *Scheduler[T]) ActiveKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.active))
	for key := range s.active {
		keys = append(keys, key)
	}
	return keys
}

// Healthcheck validates that the scheduler is running. Suitable for use
// in health check endpoints; check failures with errors.Is.
func (s *Scheduler[T]) Healthcheck(ctx context.Context) error {
	if !s.Stats().IsRunning {
		return errors.Join(ErrHealthcheckFailed, ErrSchedulerNotRunning)
	}
	return nil
}
