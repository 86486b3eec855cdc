// Package config reads viewer settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the process settings. An address of "off" or an empty watch
// file turns the matching transport off.
type Config struct {
	HTTPAddr      string        `env:"CHIPVIEW_HTTP_ADDR" envDefault:"127.0.0.1:19999"`
	WSAddr        string        `env:"CHIPVIEW_WS_ADDR" envDefault:"127.0.0.1:19998"`
	WatchFile     string        `env:"CHIPVIEW_WATCH_FILE"`
	ReceiptsDSN   string        `env:"CHIPVIEW_RECEIPTS_DSN" envDefault:":memory:"`
	ScriptTimeout time.Duration `env:"CHIPVIEW_SCRIPT_TIMEOUT" envDefault:"5s"`
	LogFile       string        `env:"CHIPVIEW_LOG_FILE" envDefault:"chipview.log"`
	LogLevel      string        `env:"CHIPVIEW_LOG_LEVEL" envDefault:"info"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.HTTPAddr = disabled(cfg.HTTPAddr)
	cfg.WSAddr = disabled(cfg.WSAddr)
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	if cfg.ScriptTimeout <= 0 {
		return Config{}, fmt.Errorf("CHIPVIEW_SCRIPT_TIMEOUT must be positive, got %s", cfg.ScriptTimeout)
	}
	return cfg, nil
}

func disabled(addr string) string {
	if strings.EqualFold(strings.TrimSpace(addr), "off") {
		return ""
	}
	return addr
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}
