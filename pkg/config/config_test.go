package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, 512, cfg.JudgeCacheSize)
	assert.True(t, cfg.BreakerEnabled)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("EVALBENCH_PORT", "9090")
	t.Setenv("EVALBENCH_DB", "/tmp/bench.db")
	t.Setenv("JUDGE_CACHE_SIZE", "64")
	t.Setenv("BREAKER_ENABLED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/bench.db", cfg.DBPath)
	assert.Equal(t, 64, cfg.JudgeCacheSize)
	assert.False(t, cfg.BreakerEnabled)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("JUDGE_CACHE_SIZE", "many")
	t.Setenv("BREAKER_ENABLED", "sometimes")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := LoadConfig()

	assert.Equal(t, 512, cfg.JudgeCacheSize)
	assert.True(t, cfg.BreakerEnabled)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}
