package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/devlog/pkg/config"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestSetup_WritesJSONAtLevel(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	closer := Setup(config.Log{Level: "warn"}, &buf)
	defer closer.Close()

	slog.Info("dropped")
	slog.Warn("kept", slog.String("component", "test"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "test", record["component"])
}

func TestSetup_RotatedFile(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "devlog.log")

	closer := Setup(config.Log{Level: "debug", Path: path}, os.Stdout)
	slog.Debug("to file")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"to file"`)
}
