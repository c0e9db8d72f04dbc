// Package config loads devlog settings from defaults, an optional TOML file and the
// environment, in that order of precedence (later wins).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/unowned-ai/devlog/pkg/insight"
	"github.com/unowned-ai/devlog/pkg/utils"
)

const (
	DefaultAddr     = "127.0.0.1:8000"
	DefaultSyncMode = "NORMAL"
)

type Config struct {
	Addr string `toml:"addr"`
	DB   DB     `toml:"db"`
	Log  Log    `toml:"log"`
	AI   AI     `toml:"ai"`
}

type DB struct {
	Path string `toml:"path"`
	WAL  bool   `toml:"wal"`
	Sync string `toml:"sync"`
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

// AI configures the insight advisor. When Live is false the canned advisor is used
// and no outbound calls are made.
type AI struct {
	Live    bool     `toml:"live"`
	Token   string   `toml:"token"`
	BaseURL string   `toml:"base_url"`
	Model   string   `toml:"model"`
	Timeout Duration `toml:"timeout"`
}

// Duration decodes TOML strings such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Addr: DefaultAddr,
		DB: DB{
			Path: utils.GetDefaultDBPathOnly(),
			WAL:  true,
			Sync: DefaultSyncMode,
		},
		Log: Log{Level: "info"},
		AI: AI{
			BaseURL: insight.DefaultBaseURL,
			Model:   insight.DefaultModel,
			Timeout: Duration{insight.DefaultTimeout},
		},
	}
}

// Load builds the configuration. path may be empty, in which case only defaults and
// environment variables apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
	}
	if err := cfg.FromENV(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromENV overrides fields whose environment variable is set.
func (c *Config) FromENV() error {
	setString(&c.Addr, "DEVLOG_ADDR")
	if err := c.DB.FromENV(); err != nil {
		return err
	}
	c.Log.FromENV()
	return c.AI.FromENV()
}

func (d *DB) FromENV() error {
	setString(&d.Path, "DEVLOG_DB_PATH")
	setString(&d.Sync, "DEVLOG_DB_SYNC")
	return setBool(&d.WAL, "DEVLOG_DB_WAL")
}

func (l *Log) FromENV() {
	setString(&l.Level, "DEVLOG_LOG_LEVEL")
	setString(&l.Path, "DEVLOG_LOG_PATH")
}

func (a *AI) FromENV() error {
	setString(&a.Token, "OPENROUTER_API_KEY")
	setString(&a.BaseURL, "DEVLOG_AI_BASE_URL")
	setString(&a.Model, "DEVLOG_AI_MODEL")
	if err := setBool(&a.Live, "DEVLOG_AI_LIVE"); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("DEVLOG_AI_TIMEOUT"); ok && v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DEVLOG_AI_TIMEOUT '%s': %w", v, err)
		}
		a.Timeout = Duration{timeout}
	}
	return nil
}

// Advisor returns the insight advisor this configuration selects.
func (a AI) Advisor() insight.Advisor {
	if !a.Live {
		return insight.Canned{}
	}
	if a.Token == "" {
		slog.Warn("live insights enabled without an API token; requests will fail and fall back")
	}
	return insight.NewClient(insight.Options{
		Token:   a.Token,
		BaseURL: a.BaseURL,
		Model:   a.Model,
		Timeout: a.Timeout.Duration,
	})
}

func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s '%s': %w", key, v, err)
	}
	*dst = b
	return nil
}
