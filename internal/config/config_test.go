package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:19999", cfg.HTTPAddr)
	assert.Equal(t, "127.0.0.1:19998", cfg.WSAddr)
	assert.Empty(t, cfg.WatchFile)
	assert.Equal(t, ":memory:", cfg.ReceiptsDSN)
	assert.Equal(t, 5*time.Second, cfg.ScriptTimeout)
	assert.Equal(t, "chipview.log", cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHIPVIEW_HTTP_ADDR", "off")
	t.Setenv("CHIPVIEW_WS_ADDR", ":7000")
	t.Setenv("CHIPVIEW_WATCH_FILE", "/tmp/ws/nets_json")
	t.Setenv("CHIPVIEW_SCRIPT_TIMEOUT", "250ms")
	t.Setenv("CHIPVIEW_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, ":7000", cfg.WSAddr)
	assert.Equal(t, "/tmp/ws/nets_json", cfg.WatchFile)
	assert.Equal(t, 250*time.Millisecond, cfg.ScriptTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("CHIPVIEW_SCRIPT_TIMEOUT", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "parse env:")
	})
	t.Run("bad level", func(t *testing.T) {
		t.Setenv("CHIPVIEW_LOG_LEVEL", "loud")
		_, err := Load()
		assert.ErrorContains(t, err, "log level")
	})
	t.Run("zero timeout", func(t *testing.T) {
		t.Setenv("CHIPVIEW_SCRIPT_TIMEOUT", "0s")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
}
