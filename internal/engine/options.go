package engine

import (
	"log/slog"
	"time"

	"github.com/roach88/riddlechain/internal/schedule"
)

// DefaultFeedbackDelay is how long a verdict stays on screen before the
// phase changes.
const DefaultFeedbackDelay = 700 * time.Millisecond

// Option configures a Run.
type Option func(*Run)

// WithFeedbackDelay sets the deferred-transition delay. Zero applies
// transitions synchronously inside SubmitAnswer.
func WithFeedbackDelay(d time.Duration) Option {
	return func(r *Run) {
		if d < 0 {
			d = 0
		}
		r.feedbackDelay = d
	}
}

// WithScheduler drives deferred transitions from sched.
func WithScheduler(sched schedule.Scheduler) Option {
	return func(r *Run) {
		r.sched = sched
	}
}

// WithStatsRecorder sets where completed runs are reported.
func WithStatsRecorder(rec StatsRecorder) Option {
	return func(r *Run) {
		r.stats = rec
	}
}

// WithObserver adds an observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(r *Run) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithTokenGenerator overrides the UUIDv7 run token generator.
func WithTokenGenerator(g RunTokenGenerator) Option {
	return func(r *Run) {
		r.tokens = g
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Run) {
		r.logger = l
	}
}
