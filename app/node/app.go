package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dcSpark/agentnode/core/config"
	"github.com/dcSpark/agentnode/core/jobqueue"
	"github.com/dcSpark/agentnode/core/logger"
	"github.com/dcSpark/agentnode/integration/database/mongo"
	"github.com/dcSpark/agentnode/integration/database/pg"
	"github.com/dcSpark/agentnode/integration/database/redis"
)

// ErrUnknownBackend is returned when JOB_QUEUE_BACKEND names a backend
// the node does not support.
var ErrUnknownBackend = errors.New("unknown job queue backend")

// App wires a queue store, manager, and scheduler into a runnable node.
// The processor and its environment are supplied by the caller; the app
// owns everything else, including backend connections.
type App struct {
	config    Config
	logger    *slog.Logger
	store     jobqueue.Store[jobqueue.Job]
	manager   *jobqueue.Manager[jobqueue.Job]
	scheduler *jobqueue.Scheduler[jobqueue.Job]

	// closers tear down backend connections on Close, in reverse order.
	closers []func(context.Context) error

	configSet bool
}

// AppOption configures an App before its components are built.
type AppOption func(*App) error

// WithLogger sets the application logger.
func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

// WithConfig sets an explicit configuration, skipping the environment
// load. Configuration loaded from the environment is cached per type,
// so tests and embedders that need differing configs use this instead.
func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		app.configSet = true
		return nil
	}
}

// WithStore sets a pre-built queue store, bypassing backend selection.
func WithStore(store jobqueue.Store[jobqueue.Job]) AppOption {
	return func(app *App) error {
		if store == nil {
			return jobqueue.ErrStoreNil
		}
		app.store = store
		return nil
	}
}

// NewApp loads configuration from the environment and assembles the
// node around the given processor.
func NewApp(ctx context.Context, processor jobqueue.Processor[jobqueue.Job], env jobqueue.ProcessEnv, opts ...AppOption) (*App, error) {
	app := &App{}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if !app.configSet {
		if err := config.Load(&app.config); err != nil {
			return nil, err
		}
	}
	cfg := app.config

	if app.logger == nil {
		app.logger = logger.NewFromConfig(cfg.Log,
			logger.WithAttrs(slog.String("app", cfg.AppName)))
	}

	if app.store == nil {
		store, err := app.newStore(ctx)
		if err != nil {
			return nil, err
		}
		app.store = store
	}

	manager, err := jobqueue.NewManager(ctx, app.store,
		jobqueue.WithManagerLogger[jobqueue.Job](app.logger),
		jobqueue.WithNotifyBuffer[jobqueue.Job](cfg.Queue.NotifyBuffer))
	if err != nil {
		return nil, err
	}
	app.manager = manager

	scheduler, err := jobqueue.NewSchedulerFromConfig(cfg.Queue, manager, processor, env,
		jobqueue.WithSchedulerLogger[jobqueue.Job](app.logger))
	if err != nil {
		return nil, err
	}
	app.scheduler = scheduler

	return app, nil
}

// newStore builds the queue store selected by the Backend setting,
// loading that backend's connection config on demand.
func (app *App) newStore(ctx context.Context) (jobqueue.Store[jobqueue.Job], error) {
	prefix := jobqueue.WithQueuePrefix(app.config.Queue.QueuePrefix)

	switch app.config.Backend {
	case BackendMemory:
		return jobqueue.NewMemoryStore[jobqueue.Job](prefix), nil

	case BackendRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func(context.Context) error {
			return client.Close()
		})
		return jobqueue.NewRedisStore[jobqueue.Job](client, prefix)

	case BackendPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		if err := pg.Migrate(ctx, pool); err != nil {
			return nil, err
		}
		return jobqueue.NewPostgresStore[jobqueue.Job](pool, prefix)

	case BackendMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := mongo.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func(ctx context.Context) error {
			return client.Disconnect(ctx)
		})
		coll := client.Database(cfg.Database).Collection("job_queue")
		return jobqueue.NewMongoStore[jobqueue.Job](coll, prefix)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, app.config.Backend)
	}
}

// Push enqueues one item under its job, durably, and wakes the
// scheduler.
func (app *App) Push(ctx context.Context, job jobqueue.Job) error {
	return app.manager.Push(ctx, job.JobID, job)
}

// Manager exposes the queue manager for read access and subscriptions.
func (app *App) Manager() *jobqueue.Manager[jobqueue.Job] {
	return app.manager
}

// Scheduler exposes the scheduler for stats and health checks.
func (app *App) Scheduler() *jobqueue.Scheduler[jobqueue.Job] {
	return app.scheduler
}

// Run starts the scheduler and blocks until ctx is cancelled or a
// component fails, then shuts everything down.
func (app *App) Run(ctx context.Context) error {
	app.logger.InfoContext(ctx, "node starting",
		slog.String("backend", app.config.Backend),
		slog.String("env", app.config.Env))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(app.scheduler.Run(ctx))

	err := g.Wait()
	return errors.Join(err, app.Close(context.Background()))
}

// Close releases the manager and backend connections. Safe to call
// after Run has returned.
func (app *App) Close(ctx context.Context) error {
	var errs []error
	if err := app.manager.Close(); err != nil && !errors.Is(err, jobqueue.ErrManagerClosed) {
		errs = append(errs, err)
	}
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
