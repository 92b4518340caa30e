package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcSpark/agentnode/core/config"
)

type testConfig struct {
	Name    string        `env:"CONFIG_TEST_NAME" envDefault:"node"`
	Workers int           `env:"CONFIG_TEST_WORKERS" envDefault:"4"`
	Timeout time.Duration `env:"CONFIG_TEST_TIMEOUT" envDefault:"30s"`
}

type requiredConfig struct {
	Token string `env:"CONFIG_TEST_REQUIRED_TOKEN,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_TEST_NAME", "agent-1")
	t.Setenv("CONFIG_TEST_WORKERS", "8")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "agent-1", cfg.Name)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	// Changing the environment after the first load has no effect;
	// the cached value wins.
	t.Setenv("CONFIG_TEST_NAME", "agent-2")

	var second testConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, cfg, second)
}

func TestLoadNil(t *testing.T) {
	err := config.Load[testConfig](nil)
	require.ErrorIs(t, err, config.ErrNilConfig)
}

func TestLoadRequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
}

func TestMustLoadPanics(t *testing.T) {
	assert.Panics(t, func() {
		config.MustLoad[requiredConfig](nil)
	})
}
