// Package scoring turns evaluator verdicts into point deltas.
//
// Main riddles score by puzzle kind; second-chance riddles always score ±5.
// A streak of consecutive correct main answers doubles the gain of the
// answer that reaches StreakTarget, then starts over. Second-chance answers
// never touch the streak. Totals have no floor or ceiling.
package scoring

import "github.com/roach88/riddlechain/internal/puzzle"

// Stage distinguishes the main attempt at a step from its fallback.
type Stage int

const (
	StageMain Stage = iota + 1
	StageSecondChance
)

func (s Stage) String() string {
	switch s {
	case StageMain:
		return "main"
	case StageSecondChance:
		return "secondChance"
	default:
		return "unknown"
	}
}

// StreakTarget is the streak length that earns double points.
const StreakTarget = 3

// SecondChancePoints is the gain (and, negated, the loss) of a second-chance answer.
const SecondChancePoints = 5

// Base is the gain/loss pair for a main riddle. Loss is negative.
type Base struct {
	Gain int
	Loss int
}

// defaultBase applies to pairMatching, logicMinefield and any unlisted kind.
// pairMatching has no entry of its own on purpose.
var defaultBase = Base{Gain: 15, Loss: -10}

// MainBase returns the main-riddle gain/loss for kind.
func MainBase(kind puzzle.Kind) Base {
	switch kind {
	case puzzle.KindClosedQuestion:
		return Base{Gain: 8, Loss: -8}
	case puzzle.KindBasketQuestion:
		return Base{Gain: 20, Loss: -15}
	case puzzle.KindChainBuilder:
		return Base{Gain: 30, Loss: -10}
	default:
		return defaultBase
	}
}

// MaxBasePoints is the un-doubled gain of a correct main answer, used for
// "earned / possible" summaries.
func MaxBasePoints(kind puzzle.Kind) int {
	return MainBase(kind).Gain
}

// Delta is the scoring outcome of one judged answer.
type Delta struct {
	Points  int  `json:"points"`
	Doubled bool `json:"doubled,omitempty"`
	// Streak is the main-answer streak after this answer.
	Streak int `json:"streak"`
}

// Scorer carries the main-answer streak across a run. The zero value is
// ready to use.
type Scorer struct {
	streak int
}

// NewScorerAt resumes a scorer with an existing streak.
func NewScorerAt(streak int) *Scorer {
	return &Scorer{streak: streak}
}

// Streak returns the current count of consecutive correct main answers.
func (s *Scorer) Streak() int {
	return s.streak
}

// Reset clears the streak (restart/replay).
func (s *Scorer) Reset() {
	s.streak = 0
}

// Score applies one valid verdict and returns its delta.
func (s *Scorer) Score(stage Stage, kind puzzle.Kind, correct bool) Delta {
	if stage == StageSecondChance {
		if correct {
			return Delta{Points: SecondChancePoints, Streak: s.streak}
		}
		return Delta{Points: -SecondChancePoints, Streak: s.streak}
	}

	base := MainBase(kind)
	if !correct {
		s.streak = 0
		return Delta{Points: base.Loss, Streak: 0}
	}

	s.streak++
	if s.streak == StreakTarget {
		s.streak = 0
		return Delta{Points: base.Gain * 2, Doubled: true, Streak: 0}
	}
	return Delta{Points: base.Gain, Streak: s.streak}
}
