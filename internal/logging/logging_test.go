package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo)
	l.Debug("hidden")
	l.Error("unhandled rejection", "reason", "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "unhandled rejection", rec["msg"])
	assert.Equal(t, "boom", rec["reason"])
	assert.Equal(t, "chipview", rec["app"])
}

func TestSetupFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "chipview.log")
	l, closer, err := Setup(path, "debug")
	require.NoError(t, err)
	l.Debug("received chip data")
	slog.Info("via default")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "received chip data")
	assert.Contains(t, string(data), "via default")
}

func TestSetupErrors(t *testing.T) {
	_, _, err := Setup(filepath.Join(t.TempDir(), "x.log"), "chatty")
	assert.Error(t, err)

	_, _, err = Setup("", "info")
	assert.Error(t, err)
}
