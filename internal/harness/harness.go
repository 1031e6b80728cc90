package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/roach88/riddlechain/internal/app"
	"github.com/roach88/riddlechain/internal/engine"
	"github.com/roach88/riddlechain/internal/kv"
	"github.com/roach88/riddlechain/internal/library"
	"github.com/roach88/riddlechain/internal/puzzle"
	"github.com/roach88/riddlechain/internal/sequence"
)

// Command names accepted in scenario flows.
const (
	CmdSelect              = "select"
	CmdEdit                = "edit"
	CmdCreate              = "create"
	CmdLeave               = "leave"
	CmdAdvance             = "advance"
	CmdBack                = "back"
	CmdBegin               = "begin"
	CmdAnswer              = "answer"
	CmdSkip                = "skip"
	CmdContinue            = "continue"
	CmdContinueExplanation = "continue_explanation"
	CmdContinueContext     = "continue_context"
	CmdRestart             = "restart"
	CmdSettle              = "settle"
)

// Error codes recorded in the trace for failures that carry no engine code.
const (
	CodeNoActiveRun     = "NO_ACTIVE_RUN"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidSequence = "INVALID_SEQUENCE"
	CodeError           = "ERROR"
)

type commandFunc func(ctx context.Context, c *app.Controller, step Step) (*puzzle.Verdict, error)

func plain(f func(*app.Controller) error) commandFunc {
	return func(_ context.Context, c *app.Controller, _ Step) (*puzzle.Verdict, error) {
		return nil, f(c)
	}
}

var commands = map[string]commandFunc{
	CmdSelect: func(_ context.Context, c *app.Controller, s Step) (*puzzle.Verdict, error) {
		return nil, c.SelectSequence(s.ID)
	},
	CmdEdit: func(_ context.Context, c *app.Controller, s Step) (*puzzle.Verdict, error) {
		return nil, c.EditSequence(s.ID)
	},
	CmdCreate: func(ctx context.Context, c *app.Controller, _ Step) (*puzzle.Verdict, error) {
		_, err := c.CreateSequence(ctx)
		return nil, err
	},
	CmdLeave: plain(func(c *app.Controller) error {
		c.GoToLibrary()
		return nil
	}),
	CmdAdvance:             plain((*app.Controller).AdvanceIntro),
	CmdBack:                plain((*app.Controller).BackIntro),
	CmdBegin:               plain((*app.Controller).BeginSequence),
	CmdSkip:                plain((*app.Controller).Skip),
	CmdContinue:            plain((*app.Controller).Continue),
	CmdContinueExplanation: plain((*app.Controller).ContinueAfterExplanation),
	CmdContinueContext:     plain((*app.Controller).ContinueAfterContext),
	CmdRestart:             plain((*app.Controller).Restart),
	CmdSettle: plain(func(c *app.Controller) error {
		c.Settle()
		return nil
	}),
	CmdAnswer: func(_ context.Context, c *app.Controller, s Step) (*puzzle.Verdict, error) {
		v, err := c.SubmitAnswer(*s.Answer)
		if err != nil {
			return nil, err
		}
		return &v, nil
	},
}

// Harness executes one scenario against a fresh controller.
type Harness struct {
	ctrl   *app.Controller
	lib    *library.Library
	logger *slog.Logger
}

// Run executes a scenario and returns its result.
//
// Each scenario gets a fresh in-memory library, a zero feedback delay and
// numbered run tokens, so the trace is reproducible.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	h, err := newHarness(ctx, scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		h.execute(ctx, i, step, result)
	}

	if v := h.ctrl.View(); v.Run != nil {
		result.FinalPhase = string(v.Run.Phase)
		result.FinalScore = v.Run.Score
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, &AssertionContext{Library: h.lib}) {
		result.AddError(msg)
	}
	return result, nil
}

func newHarness(ctx context.Context, scenario *Scenario) (*Harness, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lib := library.Load(ctx, kv.NewMemory(), library.WithLogger(logger))

	if scenario.Sequence != "" {
		q, err := sequence.DecodeFile(scenario.Sequence)
		if err != nil {
			return nil, fmt.Errorf("load scenario sequence: %w", err)
		}
		if _, err := lib.Import(ctx, q); err != nil {
			return nil, fmt.Errorf("import scenario sequence: %w", err)
		}
	}

	base := scenario.RunToken
	if base == "" {
		base = DefaultRunToken
	}
	ctrl := app.New(lib,
		app.WithLogger(logger),
		app.WithRunOptions(
			engine.WithFeedbackDelay(0),
			engine.WithTokenGenerator(&numberedTokens{base: base}),
		),
	)
	return &Harness{ctrl: ctrl, lib: lib, logger: logger}, nil
}

// execute runs one step, appends it to the trace and checks its expect
// clause.
func (h *Harness) execute(ctx context.Context, i int, step Step, result *Result) {
	verdict, err := commands[step.Command](ctx, h.ctrl, step)

	ev := TraceEvent{
		Seq:     int64(i + 1),
		Command: step.Command,
		ID:      step.ID,
		Answer:  step.Answer,
		Error:   errorCode(err),
		Verdict: verdict,
	}
	v := h.ctrl.View()
	ev.Screen = string(v.Screen)
	if v.Run != nil {
		ev.Phase = string(v.Run.Phase)
		ev.Step = v.Run.StepIndex
		ev.Score = v.Run.Score
		ev.RunToken = v.Run.RunToken
		switch {
		case v.Run.Final != nil:
			ev.Summary = v.Run.Final.Text
		case v.Run.StepSummary != nil:
			ev.Summary = v.Run.StepSummary.Text
		}
	}
	result.Trace = append(result.Trace, ev)

	for _, msg := range checkExpect(step.Expect, ev) {
		result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Command, msg))
	}
	if step.Expect == nil && err != nil {
		result.AddError(fmt.Sprintf("flow[%d] %s: unexpected error: %v", i, step.Command, err))
	}
}

func checkExpect(e *Expect, ev TraceEvent) []string {
	if e == nil {
		return nil
	}
	var out []string
	if e.Error != ev.Error {
		out = append(out, fmt.Sprintf("error = %q, want %q", ev.Error, e.Error))
	}
	if e.Phase != "" && e.Phase != ev.Phase {
		out = append(out, fmt.Sprintf("phase = %q, want %q", ev.Phase, e.Phase))
	}
	if e.Score != nil && *e.Score != ev.Score {
		out = append(out, fmt.Sprintf("score = %d, want %d", ev.Score, *e.Score))
	}
	if e.Step != nil && *e.Step != ev.Step {
		out = append(out, fmt.Sprintf("step = %d, want %d", ev.Step, *e.Step))
	}
	if e.Valid != nil || e.Correct != nil || e.Message != "" {
		if ev.Verdict == nil {
			return append(out, "no verdict")
		}
		if e.Valid != nil && *e.Valid != ev.Verdict.Valid {
			out = append(out, fmt.Sprintf("valid = %t, want %t", ev.Verdict.Valid, *e.Valid))
		}
		if e.Correct != nil && *e.Correct != ev.Verdict.Correct {
			out = append(out, fmt.Sprintf("correct = %t, want %t", ev.Verdict.Correct, *e.Correct))
		}
		if e.Message != "" && e.Message != ev.Verdict.Message {
			out = append(out, fmt.Sprintf("message = %q, want %q", ev.Verdict.Message, e.Message))
		}
	}
	return out
}

func errorCode(err error) string {
	var invalid *sequence.ValidationError
	switch {
	case err == nil:
		return ""
	case engine.ErrorCode(err) != "":
		return string(engine.ErrorCode(err))
	case errors.Is(err, app.ErrNoActiveRun):
		return CodeNoActiveRun
	case errors.Is(err, library.ErrNotFound):
		return CodeNotFound
	case errors.As(err, &invalid):
		return CodeInvalidSequence
	default:
		return CodeError
	}
}

// numberedTokens hands out base, base-2, base-3 and so on.
type numberedTokens struct {
	mu   sync.Mutex
	base string
	n    int
}

func (g *numberedTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	if g.n == 1 {
		return g.base
	}
	return g.base + "-" + strconv.Itoa(g.n)
}
