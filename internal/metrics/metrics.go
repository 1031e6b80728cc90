// Package metrics exports run activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/riddlechain/internal/engine"
)

const namespace = "riddles"

// Result label values.
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
	ResultInvalid   = "invalid"
)

// Observer counts judged answers and completed runs. It implements
// engine.Observer. Each Observer owns its registry so tests and multiple
// servers in one process do not collide.
type Observer struct {
	registry *prometheus.Registry

	answers    *prometheus.CounterVec
	points     *prometheus.CounterVec
	doubled    prometheus.Counter
	runs       *prometheus.CounterVec
	finalScore prometheus.Histogram
	scoreRatio prometheus.Histogram
}

var _ engine.Observer = (*Observer)(nil)

// New creates an Observer with a fresh registry.
func New() *Observer {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Observer{
		registry: reg,
		answers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Submitted answers by result, stage and puzzle kind.",
		}, []string{"result", "stage", "kind"}),
		points: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Absolute points awarded, split by sign.",
		}, []string{"sign"}),
		doubled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_bonuses_total",
			Help:      "Main answers whose gain was doubled by a streak.",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_completed_total",
			Help:      "Runs that reached the end screen, by sequence.",
		}, []string{"sequence"}),
		finalScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Final score of completed runs.",
			Buckets:   prometheus.LinearBuckets(-80, 20, 12),
		}),
		scoreRatio: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score_ratio",
			Help:      "Final score divided by the sequence's maximum base points.",
			Buckets:   []float64{-0.5, 0, 0.25, 0.5, 0.75, 1, 1.5},
		}),
	}
}

// Registry returns the registry the metrics are registered with.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

// AnswerJudged implements engine.Observer.
func (o *Observer) AnswerJudged(ev engine.AnswerEvent) {
	result := ResultInvalid
	switch {
	case !ev.Verdict.Valid:
	case ev.Verdict.Correct:
		result = ResultCorrect
	default:
		result = ResultIncorrect
	}
	o.answers.WithLabelValues(result, ev.Stage.String(), kindLabel(ev)).Inc()

	switch {
	case ev.Delta.Points > 0:
		o.points.WithLabelValues("gain").Add(float64(ev.Delta.Points))
	case ev.Delta.Points < 0:
		o.points.WithLabelValues("loss").Add(float64(-ev.Delta.Points))
	}
	if ev.Delta.Doubled {
		o.doubled.Inc()
	}
}

// RunCompleted implements engine.Observer.
func (o *Observer) RunCompleted(ev engine.CompletionEvent) {
	o.runs.WithLabelValues(ev.SequenceID).Inc()
	o.finalScore.Observe(float64(ev.Score))
	if ev.MaxPoints > 0 {
		o.scoreRatio.Observe(float64(ev.Score) / float64(ev.MaxPoints))
	}
}

func kindLabel(ev engine.AnswerEvent) string {
	if !ev.Kind.Known() {
		return "unknown"
	}
	return string(ev.Kind)
}
