// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/roach88/riddlechain/internal/kv"
)

// Prefix is prepended to every variable name, e.g. RIDDLES_BACKEND.
const Prefix = "RIDDLES"

// Config holds settings shared by every command. Flags override these.
type Config struct {
	Backend       string        `envconfig:"BACKEND" default:"sqlite"`
	DBPath        string        `envconfig:"DB_PATH" default:"riddles.db"`
	RedisURL      string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	FeedbackDelay time.Duration `envconfig:"FEEDBACK_DELAY" default:"700ms"`
	AutoAdvance   time.Duration `envconfig:"AUTO_ADVANCE" default:"3s"`
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":8080"`
}

// Load reads .env files (missing ones are skipped, existing variables win)
// and then the environment. With no files it tries ./.env.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.Backend {
	case kv.BackendMemory, kv.BackendSQLite, kv.BackendRedis:
	default:
		return fmt.Errorf("%s_BACKEND: unknown backend %q (want memory, sqlite or redis)", Prefix, c.Backend)
	}
	if c.FeedbackDelay < 0 {
		return fmt.Errorf("%s_FEEDBACK_DELAY: must not be negative", Prefix)
	}
	if c.AutoAdvance <= 0 {
		return fmt.Errorf("%s_AUTO_ADVANCE: must be positive", Prefix)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// KVOptions returns the storage settings.
func (c *Config) KVOptions() kv.Options {
	return kv.Options{Backend: c.Backend, DBPath: c.DBPath, RedisURL: c.RedisURL}
}

// Level parses LogLevel (debug, info, warn, error).
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%s_LOG_LEVEL: %w", Prefix, err)
	}
	return l, nil
}
