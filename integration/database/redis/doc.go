// Package redis provides Redis client initialization and health checking
// for the Redis-backed queue store.
//
// It wraps the go-redis client with connection validation, retry logic,
// and a ping-based readiness check, so the application fails fast on a
// bad URL but tolerates a Redis instance that is still starting up.
//
// Basic usage:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	store := jobqueue.NewRedisStore[jobqueue.Job](client)
//
// Healthcheck returns a function suitable for readiness probes; check
// failures with errors.Is against ErrHealthcheckFailed.
package redis
