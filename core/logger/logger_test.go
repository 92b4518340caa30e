package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcSpark/agentnode/core/logger"
)

func TestNewJSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithWriter(&buf),
		logger.WithAttrs(slog.String("service", "agentnode")),
	)

	log.Info("queue drained", logger.QueueKey("job_id::123::false"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "queue drained", record["msg"])
	assert.Equal(t, "agentnode", record["service"])
	assert.Equal(t, "job_id::123::false", record["queue_key"])
}

func TestNewLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithWriter(&buf),
		logger.WithLevel(slog.LevelWarn),
	)

	log.Debug("hidden")
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("visible")
	assert.NotZero(t, buf.Len())
}

func TestErrorAttrNil(t *testing.T) {
	t.Parallel()

	attr := logger.Error(nil)
	assert.True(t, attr.Equal(slog.Attr{}))

	attr = logger.Errors(nil, nil)
	assert.True(t, attr.Equal(slog.Attr{}))
}

func TestDurationAttr(t *testing.T) {
	t.Parallel()

	attr := logger.Duration(1500 * time.Millisecond)
	assert.Equal(t, "1.5s", attr.Value.String())
}
