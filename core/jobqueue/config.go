package jobqueue

import "time"

// Config holds the configuration for the queue manager and scheduler.
// Designed for environment-based configuration using popular env parsing
// libraries.
type Config struct {
	MaxConcurrency  int           `env:"JOB_QUEUE_MAX_CONCURRENCY" envDefault:"4"`
	SweepInterval   time.Duration `env:"JOB_QUEUE_SWEEP_INTERVAL" envDefault:"5s"`
	ProcessTimeout  time.Duration `env:"JOB_QUEUE_PROCESS_TIMEOUT" envDefault:"0"`
	ShutdownTimeout time.Duration `env:"JOB_QUEUE_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	QueuePrefix     string        `env:"JOB_QUEUE_PREFIX" envDefault:"job_queues"`
	NotifyBuffer    int           `env:"JOB_QUEUE_NOTIFY_BUFFER" envDefault:"64"`
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency:  4,
		SweepInterval:   5 * time.Second,
		ProcessTimeout:  0,
		ShutdownTimeout: 30 * time.Second,
		QueuePrefix:     DefaultQueuePrefix,
		NotifyBuffer:    64,
	}
}
