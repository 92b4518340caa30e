// Package logger builds slog.Logger instances with a consistent handler
// setup and provides attribute helpers for common log fields.
//
// Production loggers emit JSON; development loggers use a colorized
// console handler. Both are configured through functional options:
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithDevelopment(),
//	)
//	log.Info("scheduler started", logger.Component("scheduler"))
//
// The attribute helpers are nil-safe; logger.Error(nil) produces an
// empty attribute instead of panicking.
package logger
