package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/riddlechain/internal/puzzle"
	"github.com/roach88/riddlechain/internal/schedule"
	"github.com/roach88/riddlechain/internal/scoring"
	"github.com/roach88/riddlechain/internal/sequence"
)

// Feedback lines shown while a transition is pending.
const (
	FeedbackCorrect   = "Correct! The gate opens onward."
	FeedbackIncorrect = "Not quite. The stones remain still."
)

// Pending describes a judged answer whose phase change has not been applied.
type Pending struct {
	Correct  bool          `json:"correct"`
	Feedback string        `json:"feedback"`
	Delta    scoring.Delta `json:"delta"`
	Next     Phase         `json:"next"`
}

// Run is one play-through of a sequence.
//
// Thread-safety: all methods are safe for concurrent use. Commands and
// scheduled callbacks are serialised on one mutex.
type Run struct {
	mu sync.Mutex

	seq    *sequence.Sequence
	state  State
	scorer scoring.Scorer
	token  string
	closed bool

	clock         *Clock
	tokens        RunTokenGenerator
	sched         schedule.Scheduler
	slot          *schedule.Slot
	feedbackDelay time.Duration
	pending       *Pending
	gen           uint64

	stats     StatsRecorder
	observers Observers
	logger    *slog.Logger

	// outbox holds collaborator calls to make once mu is released.
	outbox []func()
}

// New starts a run of q at intro(0). q is copied; later changes to it do not
// affect the run.
func New(q *sequence.Sequence, opts ...Option) *Run {
	r := &Run{
		seq:           q.Clone(),
		state:         initialState(),
		clock:         NewClock(),
		tokens:        UUIDv7Generator{},
		feedbackDelay: DefaultFeedbackDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.slot = schedule.NewSlot(r.sched)
	r.token = r.tokens.Generate()
	r.logger.Debug("run started", "run", r.token, "sequence", r.seq.ID, "steps", r.seq.StepCount())
	return r
}

// Token returns the current run token. Restart issues a new one.
func (r *Run) Token() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

// State returns a copy of the run state.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Sequence returns a copy of the sequence being played.
func (r *Run) Sequence() *sequence.Sequence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq.Clone()
}

// AdvanceIntro moves to the next intro slide, or begins the sequence from
// the last one.
func (r *Run) AdvanceIntro() error {
	r.mu.Lock()
	defer r.unlock()

	if err := r.require("AdvanceIntro", PhaseIntro); err != nil {
		return err
	}
	if r.state.IntroIndex < len(r.seq.IntroSlides)-1 {
		r.state.IntroIndex++
		r.stamp("intro advanced")
		return nil
	}
	r.begin()
	return nil
}

// BackIntro returns to the previous intro slide. It does nothing on the
// first slide.
func (r *Run) BackIntro() error {
	r.mu.Lock()
	defer r.unlock()

	if err := r.require("BackIntro", PhaseIntro); err != nil {
		return err
	}
	if r.state.IntroIndex > 0 {
		r.state.IntroIndex--
		r.stamp("intro back")
	}
	return nil
}

// BeginSequence skips any remaining intro slides and enters main(0).
func (r *Run) BeginSequence() error {
	r.mu.Lock()
	defer r.unlock()

	if err := r.require("BeginSequence", PhaseIntro); err != nil {
		return err
	}
	r.begin()
	return nil
}

// SubmitAnswer judges a on the puzzle showing.
//
// An incomplete answer returns an invalid verdict and changes nothing. A
// valid one is scored immediately; the phase change follows after the
// feedback delay, or at once when the delay is zero.
func (r *Run) SubmitAnswer(a puzzle.Answer) (puzzle.Verdict, error) {
	r.mu.Lock()
	defer r.unlock()

	if err := r.requireAnswerable("SubmitAnswer"); err != nil {
		return puzzle.Verdict{}, err
	}

	stage, p := r.currentPuzzle()
	kind := puzzle.Kind("")
	if p != nil {
		kind = p.Kind()
	}
	verdict := puzzle.Evaluate(p, a)
	if !verdict.Valid {
		r.emitAnswer(stage, kind, verdict, scoring.Delta{})
		return verdict, nil
	}

	delta := r.scorer.Score(stage, kind, verdict.Correct)
	r.state.Score += delta.Points
	r.state.CurrentStepScore += delta.Points
	r.state.LastStepScore = r.state.CurrentStepScore
	r.state.MainCorrectStreak = r.scorer.Streak()
	r.emitAnswer(stage, kind, verdict, delta)

	r.logger.Debug("answer judged",
		"run", r.token,
		"step", r.state.StepIndex,
		"stage", stage.String(),
		"correct", verdict.Correct,
		"points", delta.Points,
		"doubled", delta.Doubled,
		"score", r.state.Score,
	)

	next := r.afterAnswer(stage, verdict.Correct)
	if r.feedbackDelay <= 0 {
		next()
		return verdict, nil
	}

	feedback := FeedbackIncorrect
	if verdict.Correct {
		feedback = FeedbackCorrect
	}
	r.pending = &Pending{
		Correct:  verdict.Correct,
		Feedback: feedback,
		Delta:    delta,
		Next:     r.peekAfterAnswer(stage, verdict.Correct),
	}
	r.gen++
	gen := r.gen
	r.slot.Reset(r.feedbackDelay, func() { r.fire(gen, next) })
	return verdict, nil
}

// Skip gives up on the puzzle showing: main falls to second chance, second
// chance falls to the explanation. The score is untouched.
func (r *Run) Skip() error {
	r.mu.Lock()
	defer r.unlock()

	if err := r.requireAnswerable("Skip"); err != nil {
		return err
	}
	if r.state.Phase == PhaseMain {
		r.state.Phase = PhaseSecondChance
	} else {
		r.state.Phase = PhaseExplanation
	}
	r.stamp("skipped")
	return nil
}

// ContinueAfterExplanation leaves the explanation for the next step.
func (r *Run) ContinueAfterExplanation() error {
	r.mu.Lock()
	defer r.unlock()

	if err := r.require("ContinueAfterExplanation", PhaseExplanation); err != nil {
		return err
	}
	r.goToNextMainStep()
	return nil
}

// ContinueAfterContext leaves a context slide for the next main riddle.
func (r *Run) ContinueAfterContext() error {
	r.mu.Lock()
	defer r.unlock()

	if err := r.require("ContinueAfterContext", PhaseContext); err != nil {
		return err
	}
	if r.state.StepIndex < r.seq.StepCount()-1 {
		r.enterMain(r.state.StepIndex + 1)
	} else {
		r.enterDone()
	}
	return nil
}

// Continue applies whichever continue command fits the current phase:
// intro advance, explanation or context.
func (r *Run) Continue() error {
	switch r.State().Phase {
	case PhaseIntro:
		return r.AdvanceIntro()
	case PhaseContext:
		return r.ContinueAfterContext()
	default:
		return r.ContinueAfterExplanation()
	}
}

// Restart replays the sequence from intro(0) with a fresh score and a new
// run token. Library statistics already recorded are kept.
func (r *Run) Restart() error {
	r.mu.Lock()
	defer r.unlock()

	if r.closed {
		return ErrClosed
	}
	r.cancelPending()
	r.state = initialState()
	r.scorer.Reset()
	r.token = r.tokens.Generate()
	r.stamp("restarted")
	return nil
}

// Close cancels any pending transition. Every later command returns
// ErrClosed.
func (r *Run) Close() {
	r.mu.Lock()
	defer r.unlock()

	if r.closed {
		return
	}
	r.cancelPending()
	r.closed = true
	r.logger.Debug("run closed", "run", r.token, "phase", string(r.state.Phase))
}

// Settle applies a pending transition now instead of waiting for its timer.
// It reports whether there was one.
func (r *Run) Settle() bool {
	r.mu.Lock()
	defer r.unlock()

	if r.pending == nil {
		return false
	}
	stage := scoring.StageMain
	if r.state.Phase == PhaseSecondChance {
		stage = scoring.StageSecondChance
	}
	correct := r.pending.Correct
	r.cancelPending()
	r.afterAnswer(stage, correct)()
	return true
}

// Pending reports whether a deferred transition is waiting.
func (r *Run) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != nil
}

// fire applies a deferred transition unless it was cancelled after the
// timer was already committed.
func (r *Run) fire(gen uint64, apply func()) {
	r.mu.Lock()
	defer r.unlock()

	if r.closed || gen != r.gen || r.pending == nil {
		return
	}
	r.pending = nil
	apply()
}

func (r *Run) cancelPending() {
	r.gen++
	r.pending = nil
	r.slot.Stop()
}

func (r *Run) require(cmd string, phase Phase) error {
	if r.closed {
		return ErrClosed
	}
	if r.state.Phase != phase {
		return &PhaseError{Command: cmd, Phase: r.state.Phase, RunToken: r.token}
	}
	return nil
}

func (r *Run) requireAnswerable(cmd string) error {
	if r.closed {
		return ErrClosed
	}
	if !r.state.Phase.Answerable() {
		return &PhaseError{Command: cmd, Phase: r.state.Phase, RunToken: r.token}
	}
	if r.pending != nil {
		return ErrTransitionPending
	}
	return nil
}

func (r *Run) begin() {
	r.state.Score = 0
	r.state.CurrentStepScore = 0
	r.state.LastStepScore = 0
	r.state.MainCorrectStreak = 0
	r.scorer.Reset()
	if r.seq.StepCount() == 0 {
		r.enterDone()
		return
	}
	r.enterMain(0)
}

func (r *Run) currentPuzzle() (scoring.Stage, puzzle.Puzzle) {
	st := r.seq.Steps[r.state.StepIndex]
	if r.state.Phase == PhaseSecondChance {
		return scoring.StageSecondChance, st.SecondChance
	}
	return scoring.StageMain, st.Main
}

// afterAnswer returns the transition that follows a judged answer.
func (r *Run) afterAnswer(stage scoring.Stage, correct bool) func() {
	switch {
	case correct:
		return r.goToNextMainStep
	case stage == scoring.StageMain:
		return func() {
			r.state.Phase = PhaseSecondChance
			r.stamp("second chance")
		}
	default:
		return func() {
			r.state.Phase = PhaseExplanation
			r.stamp("explanation")
		}
	}
}

func (r *Run) peekAfterAnswer(stage scoring.Stage, correct bool) Phase {
	switch {
	case !correct && stage == scoring.StageMain:
		return PhaseSecondChance
	case !correct:
		return PhaseExplanation
	case r.state.StepIndex >= r.seq.StepCount()-1:
		return PhaseDone
	case r.seq.Steps[r.state.StepIndex].HasContext():
		return PhaseContext
	default:
		return PhaseMain
	}
}

func (r *Run) goToNextMainStep() {
	s := r.state.StepIndex
	switch {
	case s >= r.seq.StepCount()-1:
		r.enterDone()
	case r.seq.Steps[s].HasContext():
		r.state.Phase = PhaseContext
		r.stamp("context")
	default:
		r.enterMain(s + 1)
	}
}

func (r *Run) enterMain(i int) {
	r.state.StepIndex = i
	r.state.Phase = PhaseMain
	r.state.CurrentStepScore = 0
	r.stamp("main")
}

func (r *Run) enterDone() {
	r.state.Phase = PhaseDone
	seq := r.stamp("done")
	if r.state.StatsRecorded {
		return
	}
	r.state.StatsRecorded = true

	ev := CompletionEvent{
		Seq:        seq,
		RunToken:   r.token,
		SequenceID: r.seq.ID,
		Score:      r.state.Score,
		MaxPoints:  r.seq.MaxPoints(),
		StepCount:  r.seq.StepCount(),
	}
	r.logger.Info("run completed", "run", ev.RunToken, "sequence", ev.SequenceID, "score", ev.Score, "max", ev.MaxPoints)

	if rec := r.stats; rec != nil {
		logger := r.logger
		r.outbox = append(r.outbox, func() {
			if err := rec.RecordRun(context.Background(), ev.SequenceID, ev.Score, ev.StepCount); err != nil {
				logger.Warn("record run failed", "run", ev.RunToken, "sequence", ev.SequenceID, "error", err)
			}
		})
	}
	if obs := r.observers; len(obs) > 0 {
		r.outbox = append(r.outbox, func() { obs.RunCompleted(ev) })
	}
}

func (r *Run) emitAnswer(stage scoring.Stage, kind puzzle.Kind, v puzzle.Verdict, d scoring.Delta) {
	seq := r.clock.Next()
	if len(r.observers) == 0 {
		return
	}
	ev := AnswerEvent{
		Seq:        seq,
		RunToken:   r.token,
		SequenceID: r.seq.ID,
		StepIndex:  r.state.StepIndex,
		Stage:      stage,
		Kind:       kind,
		Verdict:    v,
		Delta:      d,
		Score:      r.state.Score,
	}
	obs := r.observers
	r.outbox = append(r.outbox, func() { obs.AnswerJudged(ev) })
}

// stamp records a state change on the logical clock.
func (r *Run) stamp(what string) int64 {
	seq := r.clock.Next()
	r.logger.Debug(what, "run", r.token, "seq", seq, "phase", string(r.state.Phase), "step", r.state.StepIndex)
	return seq
}

// unlock releases mu and then delivers queued collaborator calls.
func (r *Run) unlock() {
	out := r.outbox
	r.outbox = nil
	r.mu.Unlock()
	for _, f := range out {
		f()
	}
}
