// Package mongo provides MongoDB client initialization and health
// checking for the MongoDB-backed queue store.
//
// Connect wraps the official driver with retry logic tuned for managed
// deployments, where cold starts of several seconds are normal, and
// verifies connectivity with a ping before returning.
//
// Basic usage:
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	client, err := mongo.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Disconnect(ctx)
//
//	coll := client.Database(cfg.Database).Collection("job_queue")
//	store := jobqueue.NewMongoStore[jobqueue.Job](coll)
package mongo
