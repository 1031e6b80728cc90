package engine

import (
	"context"

	"github.com/roach88/riddlechain/internal/puzzle"
	"github.com/roach88/riddlechain/internal/scoring"
)

// StatsRecorder receives the result of each completed run. The library store
// implements it.
type StatsRecorder interface {
	RecordRun(ctx context.Context, sequenceID string, finalScore, stepCount int) error
}

// Observer is notified of judged answers and completed runs. Calls arrive
// after the run's lock is released, in event order.
type Observer interface {
	AnswerJudged(AnswerEvent)
	RunCompleted(CompletionEvent)
}

// AnswerEvent describes one submitted answer. Invalid answers are reported
// too, with a zero Delta.
type AnswerEvent struct {
	Seq        int64
	RunToken   string
	SequenceID string
	StepIndex  int
	Stage      scoring.Stage
	Kind       puzzle.Kind
	Verdict    puzzle.Verdict
	Delta      scoring.Delta
	Score      int
}

// CompletionEvent describes a run reaching done for the first time.
type CompletionEvent struct {
	Seq        int64
	RunToken   string
	SequenceID string
	Score      int
	MaxPoints  int
	StepCount  int
}

// Observers fans events out to several observers in order.
type Observers []Observer

func (obs Observers) AnswerJudged(ev AnswerEvent) {
	for _, o := range obs {
		o.AnswerJudged(ev)
	}
}

func (obs Observers) RunCompleted(ev CompletionEvent) {
	for _, o := range obs {
		o.RunCompleted(ev)
	}
}
