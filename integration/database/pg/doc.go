// Package pg provides PostgreSQL connection pooling, schema migration,
// and transaction propagation for the Postgres-backed stores.
//
// Connect builds a pgxpool with retry logic and ping verification;
// Migrate applies the embedded goose migrations that create the
// job_queue and messages tables. WithTx and TxFromContext carry a
// pgx.Tx through a context so stores can join a caller's transaction
// without changing their signatures.
//
// Basic usage:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool); err != nil {
//		log.Fatal(err)
//	}
package pg
