package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/devlog/pkg/insight"
)

var envKeys = []string{
	"DEVLOG_ADDR", "DEVLOG_DB_PATH", "DEVLOG_DB_WAL", "DEVLOG_DB_SYNC",
	"DEVLOG_LOG_LEVEL", "DEVLOG_LOG_PATH", "DEVLOG_AI_LIVE", "OPENROUTER_API_KEY",
	"DEVLOG_AI_BASE_URL", "DEVLOG_AI_MODEL", "DEVLOG_AI_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devlog.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.True(t, cfg.DB.WAL)
	assert.Equal(t, DefaultSyncMode, cfg.DB.Sync)
	assert.Equal(t, "devlog.db", filepath.Base(cfg.DB.Path))
	assert.False(t, cfg.AI.Live)
	assert.Equal(t, insight.DefaultBaseURL, cfg.AI.BaseURL)
	assert.Equal(t, insight.DefaultModel, cfg.AI.Model)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout.Duration)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
addr = "0.0.0.0:9000"

[db]
path = "/var/lib/devlog/devlog.db"
wal = false
sync = "FULL"

[log]
level = "debug"

[ai]
live = true
model = "meta-llama/llama-3-8b-instruct"
timeout = "3s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr)
	assert.Equal(t, "/var/lib/devlog/devlog.db", cfg.DB.Path)
	assert.False(t, cfg.DB.WAL)
	assert.Equal(t, "FULL", cfg.DB.Sync)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.True(t, cfg.AI.Live)
	assert.Equal(t, "meta-llama/llama-3-8b-instruct", cfg.AI.Model)
	assert.Equal(t, 3*time.Second, cfg.AI.Timeout.Duration)
	assert.Equal(t, insight.DefaultBaseURL, cfg.AI.BaseURL, "unset keys keep their defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
addr = "0.0.0.0:9000"
[ai]
live = false
`)
	t.Setenv("DEVLOG_ADDR", ":7777")
	t.Setenv("DEVLOG_AI_LIVE", "true")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("DEVLOG_AI_TIMEOUT", "250ms")
	t.Setenv("DEVLOG_DB_WAL", "false")
	t.Setenv("DEVLOG_LOG_LEVEL", "ERROR")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Addr)
	assert.True(t, cfg.AI.Live)
	assert.Equal(t, "sk-test", cfg.AI.Token)
	assert.Equal(t, 250*time.Millisecond, cfg.AI.Timeout.Duration)
	assert.False(t, cfg.DB.WAL)
	assert.Equal(t, slog.LevelError, cfg.Log.SlogLevel())
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `addr = `))
	assert.Error(t, err)

	t.Setenv("DEVLOG_AI_TIMEOUT", "soon")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("DEVLOG_AI_TIMEOUT", "")
	t.Setenv("DEVLOG_DB_WAL", "maybe")
	_, err = Load("")
	assert.Error(t, err)
}

func TestAI_Advisor(t *testing.T) {
	canned := AI{}.Advisor()
	assert.IsType(t, insight.Canned{}, canned)

	live := AI{Live: true, Token: "sk", Timeout: Duration{time.Second}}.Advisor()
	assert.IsType(t, &insight.Client{}, live)
}
