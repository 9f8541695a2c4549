package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edusync/internal/domain/sync"
	"edusync/internal/infrastructure/storage/sqlite"
)

// isolate чистит переменные клиента: пустое значение viper считает незаданным
func isolate(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, k := range []string{
		"APP_ENV", "SERVER_ADDRESS", "LOG_LEVEL", "DATA_PATH", "LOCAL_DRIVER", "API_TOKEN",
		"ENABLE_TLS", "REQUEST_TIMEOUT_SECONDS", "SYNC_INTERVAL_SECONDS", "SYNC_STRATEGY",
	} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.ServerAddress)
	assert.Equal(t, dir, cfg.ConfigDir)
	assert.Equal(t, filepath.Join(dir, "edusync.db"), cfg.DataPath)
	assert.Equal(t, sqlite.DriverCGO, cfg.LocalDriver)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Zero(t, cfg.SyncInterval)
	assert.Equal(t, sync.StrategyServer, cfg.SyncStrategy)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())
	assert.True(t, cfg.IsLocal())
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("SERVER_ADDRESS", "school.example.org")
	t.Setenv("ENABLE_TLS", "true")
	t.Setenv("LOCAL_DRIVER", sqlite.DriverPure)
	t.Setenv("SYNC_INTERVAL_SECONDS", "300")
	t.Setenv("SYNC_STRATEGY", "newer")
	t.Setenv("API_TOKEN", "staff-room-token")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://school.example.org", cfg.BaseURL())
	assert.Equal(t, sqlite.DriverPure, cfg.LocalDriver)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Equal(t, sync.StrategyNewer, cfg.SyncStrategy)
	assert.Equal(t, "staff-room-token", cfg.APIToken)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "edusync.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server_address: 10.0.0.5:9000\napp_env: prod\n"), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:9000", cfg.ServerAddress)
	assert.True(t, cfg.IsProd())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown strategy", key: "SYNC_STRATEGY", val: "client"},
		{name: "unknown driver", key: "LOCAL_DRIVER", val: "postgres"},
		{name: "negative interval", key: "SYNC_INTERVAL_SECONDS", val: "-5"},
		{name: "zero timeout", key: "REQUEST_TIMEOUT_SECONDS", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
