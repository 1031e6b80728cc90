// Package httpapi exposes one controller over a small JSON API. It serves a
// single player; there is no session handling.
package httpapi

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roach88/riddlechain/internal/app"
	"github.com/roach88/riddlechain/internal/schema"
)

// Server routes HTTP requests to a controller.
type Server struct {
	ctrl      *app.Controller
	validator *schema.Validator
	metrics   http.Handler
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithValidator checks uploaded sequences against the document schema
// before decoding them.
func WithValidator(v *schema.Validator) Option {
	return func(s *Server) { s.validator = v }
}

// WithMetrics serves h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New returns a server for ctrl.
func New(ctrl *app.Controller, opts ...Option) *Server {
	s := &Server{ctrl: ctrl}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.logger), gin.Recovery())

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}

	api := r.Group("/api")
	{
		api.GET("/library", s.listLibrary)
		api.POST("/library", s.createSequence)
		api.GET("/library/:id", s.getSequence)
		api.PUT("/library/:id", s.saveSequence)
		api.POST("/library/:id/play", s.playSequence)
		api.POST("/library/:id/edit", s.editSequence)
		api.GET("/export", s.exportLibrary)
		api.POST("/import", s.importSequence)

		run := api.Group("/run")
		run.GET("", s.view)
		run.POST("/advance", s.command(s.ctrl.AdvanceIntro))
		run.POST("/back", s.command(s.ctrl.BackIntro))
		run.POST("/begin", s.command(s.ctrl.BeginSequence))
		run.POST("/skip", s.command(s.ctrl.Skip))
		run.POST("/continue", s.command(s.ctrl.Continue))
		run.POST("/restart", s.command(s.ctrl.Restart))
		run.POST("/settle", s.settle)
		run.POST("/answer", s.answer)
		run.POST("/leave", s.leave)
	}
	return r
}

// readBody returns the request body, rejecting empty ones.
func readBody(c *gin.Context) ([]byte, bool) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(data) == 0 {
		badRequest(c, "request body is required")
		return nil, false
	}
	return data, true
}
