package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/roach88/riddlechain/internal/engine"
	"github.com/roach88/riddlechain/internal/httpapi"
	"github.com/roach88/riddlechain/internal/metrics"
	"github.com/roach88/riddlechain/internal/schema"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the library and one player's run over HTTP",
		Long: `Serve the JSON API, /healthz and Prometheus metrics on /metrics.

The address defaults to RIDDLES_HTTP_ADDR. SIGINT or SIGTERM shuts the
server down gracefully.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from RIDDLES_HTTP_ADDR)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, opts.RootOptions, cmd, f)
	if err != nil {
		return err
	}
	defer s.Close()

	validator, err := schema.New()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "load schema", err)
	}

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	obs := metrics.New()
	ctrl := s.controller(engine.WithObserver(obs))
	api := httpapi.New(ctrl,
		httpapi.WithValidator(validator),
		httpapi.WithMetrics(obs.Handler()),
		httpapi.WithLogger(s.logger),
	)

	addr := opts.Addr
	if addr == "" {
		addr = s.cfg.HTTPAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr, "backend", s.cfg.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("listen on %s", addr), err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	ctrl.GoToLibrary()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "graceful shutdown", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("listen on %s", addr), err)
	}
	return nil
}
