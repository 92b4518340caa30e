package logger

import (
	"errors"
	"log/slog"
	"time"
)

// Error returns an "error" attribute. A nil error yields an empty
// attribute that the handler drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Errors joins multiple errors into a single "error" attribute,
// skipping nils.
func Errors(errs ...error) slog.Attr {
	joined := errors.Join(errs...)
	if joined == nil {
		return slog.Attr{}
	}
	return slog.String("error", joined.Error())
}

// Duration returns a "duration" attribute in human-readable form.
func Duration(d time.Duration) slog.Attr {
	return slog.String("duration", d.String())
}

// Component tags a record with the subsystem that produced it.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// JobID tags a record with the job identifier being processed.
func JobID(id string) slog.Attr {
	return slog.String("job_id", id)
}

// QueueKey tags a record with the queue key a worker is draining.
func QueueKey(key string) slog.Attr {
	return slog.String("queue_key", key)
}
