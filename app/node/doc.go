// Package node assembles the job queue components into a runnable
// agent node: a durable store selected by configuration, the queue
// manager over it, and the scheduler driving the caller's processor.
//
//	processor := jobqueue.ProcessorFunc[jobqueue.Job](handleJob)
//
//	app, err := node.NewApp(ctx, processor, env)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := app.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// The backend is chosen with JOB_QUEUE_BACKEND (memory, redis,
// postgres, mongo); connection settings for the chosen backend are
// loaded from the environment on demand.
package node
