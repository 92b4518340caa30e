package jobqueue

import (
	"log/slog"
	"time"
)

// SchedulerOption is a functional option for configuring a scheduler.
type SchedulerOption[T any] func(*schedulerOptions)

type schedulerOptions struct {
	maxConcurrency  int
	sweepInterval   time.Duration
	processTimeout  time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// WithMaxConcurrency bounds the number of workers running at once.
func WithMaxConcurrency[T any](n int) SchedulerOption[T] {
	return func(o *schedulerOptions) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// WithSweepInterval sets how often the scheduler re-discovers pending
// keys independently of notifications.
func WithSweepInterval[T any](d time.Duration) SchedulerOption[T] {
	return func(o *schedulerOptions) {
		if d > 0 {
			o.sweepInterval = d
		}
	}
}

// WithProcessTimeout bounds a single processor invocation. The default
// of zero means unbounded: by contract the processor bounds its own
// latency, and an item that never returns holds its key's worker
// forever. Setting this makes the liveness trade-off explicit.
func WithProcessTimeout[T any](d time.Duration) SchedulerOption[T] {
	return func(o *schedulerOptions) {
		if d > 0 {
			o.processTimeout = d
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for active workers.
func WithShutdownTimeout[T any](d time.Duration) SchedulerOption[T] {
	return func(o *schedulerOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithSchedulerLogger sets the logger for scheduler operations.
func WithSchedulerLogger[T any](logger *slog.Logger) SchedulerOption[T] {
	return func(o *schedulerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
