package library

import (
	"fmt"

	"github.com/roach88/riddlechain/internal/sequence"
)

// Totals aggregates statistics across the library.
type Totals struct {
	Sequences int `json:"sequences"`
	Runs      int `json:"runs"`
	Points    int `json:"points"`
	Riddles   int `json:"riddles"`
}

// Totals sums the statistics of every entry.
func (l *Library) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := Totals{Sequences: len(l.entries)}
	for _, q := range l.entries {
		t.Runs += q.StatsRuns
		t.Points += q.StatsPointsAccum
		t.Riddles += q.StatsRiddlesAccum
	}
	return t
}

// Text is the overall line shown above the library list.
func (t Totals) Text() string {
	if t.Points > 0 {
		return fmt.Sprintf("Overall: %d points collected across all sequences.", t.Points)
	}
	return "Overall: no results yet – play a sequence to start collecting points."
}

// Summary is the one-line description of an entry in the library list,
// e.g. "8 riddles • 2 intro slides • Played 3 times • 41 pts total".
func Summary(q *sequence.Sequence) string {
	intros := len(q.IntroSlides)
	s := fmt.Sprintf("%d riddles • %d intro slide%s", q.StepCount(), intros, plural(intros))
	if q.StatsRuns > 0 {
		s += fmt.Sprintf(" • Played %d time%s • %d pts total", q.StatsRuns, plural(q.StatsRuns), q.StatsPointsAccum)
	}
	return s
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
