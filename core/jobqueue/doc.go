// Package jobqueue provides a concurrent, per-key-ordered job scheduler
// over durable keyed FIFO queues.
//
// Items are pushed under a queue key (the job ID), persisted through a
// pluggable Store, mirrored in memory by a Manager for fast reads and
// change notification, and drained by a Scheduler across a bounded
// worker pool. Items sharing a key are processed strictly one at a time
// in arrival order; items under different keys run in parallel up to the
// concurrency limit.
//
// # Basic Usage
//
//	store := jobqueue.NewMemoryStore[jobqueue.Job]()
//
//	manager, err := jobqueue.NewManager[jobqueue.Job](ctx, store)
//	if err != nil {
//		return err
//	}
//
//	processor := jobqueue.ProcessorFunc[jobqueue.Job](
//		func(ctx context.Context, job jobqueue.Job, env jobqueue.ProcessEnv) (string, error) {
//			return respond(ctx, job, env)
//		})
//
//	scheduler, err := jobqueue.NewScheduler(manager, processor, env,
//		jobqueue.WithMaxConcurrency[jobqueue.Job](8),
//	)
//	if err != nil {
//		return err
//	}
//	go scheduler.Start(ctx)
//
//	err = manager.Push(ctx, job.JobID, job)
//
// # Ordering and Concurrency
//
// The scheduler keeps an active set of keys with an assigned worker. A
// key is only (re)assigned when it is absent from the set, and a worker
// removes its key from the set only after observing an empty pop.
// Exactly one worker therefore holds draining rights for a key at any
// time, which yields FIFO order per key with no same-key overlap. A
// semaphore bounds the number of workers across keys.
//
// # Durability and Recovery
//
// Store implementations are provided for Redis lists, Postgres, MongoDB
// and process memory. The Manager writes through to the store before
// touching its mirror, so a crash never leaves the two views diverged,
// and a Manager constructed over a non-empty store starts with all
// previously queued work pending.
//
// # Failure Isolation
//
// A processor error or panic fails only the item that caused it: the
// worker logs the outcome and continues with the next item of the same
// key, and other keys are unaffected. Persistence errors surface to the
// caller of Push/Pop; there is no built-in retry.
package jobqueue
