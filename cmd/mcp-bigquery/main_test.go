package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/mcp-bigquery/pkg/platform"
)

func TestSetupLogging_AppliesConfiguredLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := platform.DefaultConfig()
	cfg.Logging.Level = "debug"
	setupLogging(cfg)

	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug),
		"configured debug level must reach the default logger")

	cfg.Logging.Level = "warn"
	setupLogging(cfg)

	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelWarn))
}

func TestApplyOverrides(t *testing.T) {
	cfg := platform.DefaultConfig()

	applyOverrides(cfg, serverOptions{})
	assert.Equal(t, platform.TransportStdio, cfg.Server.Transport)
	assert.Equal(t, ":8080", cfg.Server.Address)

	applyOverrides(cfg, serverOptions{transport: platform.TransportHTTP, address: ":9090"})
	assert.Equal(t, platform.TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, ":9090", cfg.Server.Address)
}

func TestLoadConfig_EnvFallback(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")

	cfg, err := loadConfig(serverOptions{})
	require.NoError(t, err)
	assert.Equal(t, "env-project", cfg.BigQuery.ProjectID)
}

func TestLoadConfig_MissingProject(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")

	_, err := loadConfig(serverOptions{})
	require.Error(t, err)
}
