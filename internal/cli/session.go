package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/riddlechain/internal/app"
	"github.com/roach88/riddlechain/internal/config"
	"github.com/roach88/riddlechain/internal/engine"
	"github.com/roach88/riddlechain/internal/kv"
	"github.com/roach88/riddlechain/internal/library"
)

// loadConfig reads the environment and applies flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var files []string
	if opts.EnvFile != "" {
		files = append(files, opts.EnvFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}
	if opts.RedisURL != "" {
		cfg.RedisURL = opts.RedisURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes text logs to w. --verbose lowers the level to debug.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	level, err := cfg.Level()
	if err != nil || verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// session is the storage and library a command works against.
type session struct {
	cfg    *config.Config
	store  kv.Store
	lib    *library.Library
	logger *slog.Logger
}

// openSession resolves configuration, opens the backend and loads the
// library. Failures are reported through f.
func openSession(ctx context.Context, opts *RootOptions, cmd *cobra.Command, f *OutputFormatter) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, "invalid configuration", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg, opts.Verbose)

	store, err := kv.Open(ctx, cfg.KVOptions())
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "open storage", err)
	}
	f.VerboseLog("Using %s storage", cfg.Backend)

	lib := library.Load(ctx, store, library.WithLogger(logger))
	return &session{cfg: cfg, store: store, lib: lib, logger: logger}, nil
}

// controller returns a controller over the session's library.
func (s *session) controller(runOpts ...engine.Option) *app.Controller {
	opts := append([]engine.Option{engine.WithFeedbackDelay(s.cfg.FeedbackDelay)}, runOpts...)
	return app.New(s.lib, app.WithLogger(s.logger), app.WithRunOptions(opts...))
}

func (s *session) Close() error {
	return kv.Close(s.store)
}
