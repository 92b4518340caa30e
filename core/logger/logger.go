package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Config configures logger construction from the environment.
type Config struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

type options struct {
	level       slog.Level
	development bool
	writer      io.Writer
	attrs       []slog.Attr
}

// Option configures a logger produced by New.
type Option func(*options)

// WithLevel sets the minimum log level. Defaults to slog.LevelInfo.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithDevelopment switches the handler to a human-readable colorized
// console format. The default is JSON.
func WithDevelopment() Option {
	return func(o *options) {
		o.development = true
	}
}

// WithWriter sets the output destination. Defaults to os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithAttrs attaches attributes to every record the logger emits.
func WithAttrs(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// New builds a slog.Logger from the given options.
func New(opts ...Option) *slog.Logger {
	o := options{
		level:  slog.LevelInfo,
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var handler slog.Handler
	if o.development {
		handler = tint.NewHandler(o.writer, &tint.Options{
			Level:      o.level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(o.writer, &slog.HandlerOptions{
			Level: o.level,
		})
	}

	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}

	return slog.New(handler)
}

// NewFromConfig builds a logger from environment-derived configuration.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	base := []Option{WithLevel(parseLevel(cfg.Level))}
	if cfg.Development {
		base = append(base, WithDevelopment())
	}
	return New(append(base, opts...)...)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
