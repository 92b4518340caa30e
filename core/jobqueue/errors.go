package jobqueue

import "errors"

var (
	// ErrStoreNil is returned when a component is constructed without a store.
	ErrStoreNil = errors.New("queue store is nil")

	// ErrManagerNil is returned when a scheduler is constructed without a manager.
	ErrManagerNil = errors.New("queue manager is nil")

	// ErrProcessorNil is returned when a scheduler is constructed without a processor.
	ErrProcessorNil = errors.New("processor is nil")

	// ErrEmptyQueueKey is returned for push/pop calls with an empty key.
	ErrEmptyQueueKey = errors.New("queue key cannot be empty")

	// ErrInvalidConcurrency is returned for a non-positive concurrency limit.
	ErrInvalidConcurrency = errors.New("max concurrency must be positive")

	// ErrManagerClosed is returned for operations on a closed manager.
	ErrManagerClosed = errors.New("queue manager is closed")

	// ErrAlreadyStarted is returned when Start is called on a running scheduler.
	ErrAlreadyStarted = errors.New("scheduler already started")

	// ErrNotStarted is returned when Stop is called on a scheduler that never started.
	ErrNotStarted = errors.New("scheduler not started")

	// ErrShutdownTimeout is returned when active workers do not drain
	// within the configured shutdown timeout.
	ErrShutdownTimeout = errors.New("shutdown timeout exceeded")

	// ErrHealthcheckFailed wraps scheduler health failures for errors.Is checks.
	ErrHealthcheckFailed = errors.New("scheduler healthcheck failed")

	// ErrSchedulerNotRunning indicates a health probe against a stopped scheduler.
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
)
