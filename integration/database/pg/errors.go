package pg

import "errors"

// Connection and migration errors. Check with errors.Is.
var (
	ErrEmptyConnectionURL = errors.New("empty postgres connection URL")
	ErrPostgresNotReady   = errors.New("postgres did not become ready within the given time period")
	ErrMigrationFailed    = errors.New("postgres migration failed")
	ErrHealthcheckFailed  = errors.New("postgres healthcheck failed")
)
