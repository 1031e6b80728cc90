// Package app holds the controller that owns the library and the active run.
// Every front end (terminal, HTTP, scripted scenarios) drives the same
// controller; there is no package-level state.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/roach88/riddlechain/internal/engine"
	"github.com/roach88/riddlechain/internal/library"
	"github.com/roach88/riddlechain/internal/puzzle"
	"github.com/roach88/riddlechain/internal/sequence"
)

// Screen is the top-level screen showing.
type Screen string

const (
	ScreenLibrary  Screen = "library"
	ScreenSequence Screen = "sequence"
)

// Mode says whether the selected sequence is being played or authored.
type Mode string

const (
	ModePlay Mode = "play"
	ModeEdit Mode = "edit"
)

// ErrNoActiveRun is returned by run commands on the library screen.
var ErrNoActiveRun = errors.New("no sequence selected")

// Controller routes commands to the library and the active run.
//
// Thread-safety: Controller is safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	lib     *library.Library
	run     *engine.Run
	current string
	screen  Screen
	mode    Mode

	runOpts []engine.Option
	logger  *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithRunOptions are passed to every run the controller starts.
func WithRunOptions(opts ...engine.Option) Option {
	return func(c *Controller) {
		c.runOpts = append(c.runOpts, opts...)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New returns a controller on the library screen.
func New(lib *library.Library, opts ...Option) *Controller {
	c := &Controller{lib: lib, screen: ScreenLibrary, mode: ModePlay}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Library returns the library the controller manages.
func (c *Controller) Library() *library.Library {
	return c.lib
}

// SelectSequence opens id for play with a fresh run at intro(0).
func (c *Controller) SelectSequence(id string) error {
	return c.open(id, ModePlay)
}

// EditSequence opens id in edit mode. The run is reset so a preview starts
// from the beginning.
func (c *Controller) EditSequence(id string) error {
	return c.open(id, ModeEdit)
}

// CreateSequence adds a copy of the default sequence and opens it in edit mode.
func (c *Controller) CreateSequence(ctx context.Context) (*sequence.Sequence, error) {
	q := c.lib.Create(ctx)
	if err := c.open(q.ID, ModeEdit); err != nil {
		return nil, err
	}
	return q, nil
}

// SaveSequenceEdits persists q over the open sequence and returns to play
// mode at intro(0). An empty q.ID means the open sequence.
func (c *Controller) SaveSequenceEdits(ctx context.Context, q *sequence.Sequence) (*sequence.Sequence, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	edit := q.Clone()
	if edit.ID == "" {
		edit.ID = c.current
	}
	saved, err := c.lib.Save(ctx, edit)
	if err != nil {
		return nil, err
	}
	c.startLocked(saved, ModePlay)
	return saved, nil
}

// GoToLibrary tears down the active run and shows the library.
func (c *Controller) GoToLibrary() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run != nil {
		c.run.Close()
		c.run = nil
	}
	c.current = ""
	c.screen = ScreenLibrary
	c.mode = ModePlay
}

// Screen returns the screen showing.
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Current returns a copy of the open sequence.
func (c *Controller) Current() (*sequence.Sequence, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == nil {
		return nil, ErrNoActiveRun
	}
	return c.run.Sequence(), nil
}

// AdvanceIntro forwards to the active run.
func (c *Controller) AdvanceIntro() error { return c.with((*engine.Run).AdvanceIntro) }

// BackIntro forwards to the active run.
func (c *Controller) BackIntro() error { return c.with((*engine.Run).BackIntro) }

// BeginSequence forwards to the active run.
func (c *Controller) BeginSequence() error { return c.with((*engine.Run).BeginSequence) }

// Skip forwards to the active run.
func (c *Controller) Skip() error { return c.with((*engine.Run).Skip) }

// ContinueAfterExplanation forwards to the active run.
func (c *Controller) ContinueAfterExplanation() error {
	return c.with((*engine.Run).ContinueAfterExplanation)
}

// ContinueAfterContext forwards to the active run.
func (c *Controller) ContinueAfterContext() error {
	return c.with((*engine.Run).ContinueAfterContext)
}

// Continue forwards to the active run.
func (c *Controller) Continue() error { return c.with((*engine.Run).Continue) }

// Restart replays the open sequence.
func (c *Controller) Restart() error { return c.with((*engine.Run).Restart) }

// SubmitAnswer forwards to the active run.
func (c *Controller) SubmitAnswer(a puzzle.Answer) (puzzle.Verdict, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == nil {
		return puzzle.Verdict{}, ErrNoActiveRun
	}
	return c.run.SubmitAnswer(a)
}

// Settle applies a pending transition immediately.
func (c *Controller) Settle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == nil {
		return false
	}
	return c.run.Settle()
}

func (c *Controller) with(cmd func(*engine.Run) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == nil {
		return ErrNoActiveRun
	}
	return cmd(c.run)
}

func (c *Controller) open(id string, mode Mode) error {
	q, err := c.lib.Get(id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked(q, mode)
	return nil
}

// startLocked replaces the active run. Must be called with mu held.
func (c *Controller) startLocked(q *sequence.Sequence, mode Mode) {
	if c.run != nil {
		c.run.Close()
	}
	opts := append([]engine.Option{engine.WithStatsRecorder(c.lib), engine.WithLogger(c.logger)}, c.runOpts...)
	c.run = engine.New(q, opts...)
	c.current = q.ID
	c.screen = ScreenSequence
	c.mode = mode
	c.logger.Debug("sequence opened", "id", q.ID, "mode", string(mode), "run", c.run.Token())
}
