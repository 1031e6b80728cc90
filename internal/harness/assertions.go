package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/riddlechain/internal/library"
)

// AssertionError is returned when an assertion fails. It carries the trace
// for context.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s -> %s/%s score=%d", ev.Seq, ev.Command, ev.Screen, ev.Phase, ev.Score)
			if ev.Error != "" {
				fmt.Fprintf(&buf, " error=%s", ev.Error)
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// AssertionContext gives assertions access to state beyond the trace.
type AssertionContext struct {
	Library *library.Library
}

// EvaluateAssertions checks every assertion and returns the failure
// messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertFinalPhase:
		if result.FinalPhase != a.Phase {
			return &AssertionError{Type: a.Type, Expected: "phase " + a.Phase, Actual: "phase " + result.FinalPhase, Trace: result.Trace}
		}
		return nil
	case AssertFinalScore:
		if a.Score == nil || result.FinalScore != *a.Score {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("score %v", derefInt(a.Score)), Actual: fmt.Sprintf("score %d", result.FinalScore), Trace: result.Trace}
		}
		return nil
	case AssertLibraryStats:
		return assertLibraryStats(actx, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTraceContains looks for a successful event for the command, in the
// given phase when one is named.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.Command == a.Command && ev.Error == "" && (a.Phase == "" || ev.Phase == a.Phase) {
			return nil
		}
	}
	want := a.Command
	if a.Phase != "" {
		want += " ending in " + a.Phase
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: want,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks commands appear in order, not necessarily
// consecutively.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, ev := range trace {
		if next < len(a.Commands) && ev.Command == a.Commands[next] {
			next++
		}
	}
	if next == len(a.Commands) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("commands in order: %v", a.Commands),
		Actual:   fmt.Sprintf("%s not found after %v", a.Commands[next], a.Commands[:next]),
		Trace:    trace,
	}
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Command == a.Command {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Command),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

func assertLibraryStats(actx *AssertionContext, a Assertion) error {
	if actx == nil || actx.Library == nil {
		return fmt.Errorf("library_stats needs a library")
	}
	q, err := actx.Library.Get(a.ID)
	if err != nil {
		return &AssertionError{Type: AssertLibraryStats, Expected: "entry " + a.ID, Actual: err.Error()}
	}

	check := func(name string, want *int, got int) error {
		if want != nil && *want != got {
			return &AssertionError{
				Type:     AssertLibraryStats,
				Expected: fmt.Sprintf("%s.%s = %d", a.ID, name, *want),
				Actual:   fmt.Sprintf("%s.%s = %d", a.ID, name, got),
			}
		}
		return nil
	}
	if err := check("runs", a.Runs, q.StatsRuns); err != nil {
		return err
	}
	if err := check("points", a.Points, q.StatsPointsAccum); err != nil {
		return err
	}
	return check("riddles", a.Riddles, q.StatsRiddlesAccum)
}

func derefInt(p *int) any {
	if p == nil {
		return "<unset>"
	}
	return *p
}
