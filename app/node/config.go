package node

import (
	"github.com/dcSpark/agentnode/core/jobqueue"
	"github.com/dcSpark/agentnode/core/logger"
)

// Backend names accepted by JOB_QUEUE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config aggregates the node's own settings with the queue
// configuration. Backend-specific connection settings are loaded only
// when that backend is selected, so a memory-backed node does not need
// database environment variables.
type Config struct {
	Queue jobqueue.Config
	Log   logger.Config

	AppName string `env:"APP_NAME" envDefault:"agentnode"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Backend string `env:"JOB_QUEUE_BACKEND" envDefault:"memory"`
}
