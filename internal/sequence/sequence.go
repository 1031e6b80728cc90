package sequence

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/riddlechain/internal/puzzle"
)

// IntroTypeTag is the value of the "type" field on persisted intro slides.
const IntroTypeTag = "intro"

// Sequence is one playable chain of intro slides, steps and an end screen,
// together with its aggregate run statistics.
type Sequence struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title"`
	IntroSlides []IntroSlide `json:"introSlides"`
	Steps       []Step       `json:"steps"`
	EndScreen   *Note        `json:"endScreen,omitempty"`

	StatsRuns         int `json:"statsRuns,omitempty"`
	StatsPointsAccum  int `json:"statsPointsAccum,omitempty"`
	StatsRiddlesAccum int `json:"statsRiddlesAccum,omitempty"`
}

// IntroSlide is read in order before the first riddle.
type IntroSlide struct {
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// Note is a titled block of text: an explanation, a context slide or the end
// screen.
type Note struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// Empty reports whether both title and text are blank after trimming.
func (n *Note) Empty() bool {
	if n == nil {
		return true
	}
	return strings.TrimSpace(n.Text) == "" && strings.TrimSpace(n.Title) == ""
}

// Step is one main riddle with its second-chance fallback, explanation and
// optional context shown before the next main riddle.
type Step struct {
	Name         string                `json:"name"`
	Main         puzzle.Puzzle         `json:"main"`
	SecondChance puzzle.ClosedQuestion `json:"secondChance"`
	Explanation  Note                  `json:"explanation"`
	Context      *Note                 `json:"context,omitempty"`
}

// HasContext reports whether a context slide follows this step.
func (s Step) HasContext() bool {
	return !s.Context.Empty()
}

// MainKind returns the kind of the main puzzle, or "" when it is missing.
func (s Step) MainKind() puzzle.Kind {
	if s.Main == nil {
		return ""
	}
	return s.Main.Kind()
}

// UnmarshalJSON decodes the tagged main puzzle. The second chance is always
// read as a closed question whatever its puzzleKind says.
func (s *Step) UnmarshalJSON(data []byte) error {
	type plain Step
	var raw struct {
		plain
		Main json.RawMessage `json:"main"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Step(raw.plain)
	s.Main = nil
	if len(raw.Main) > 0 && string(raw.Main) != "null" {
		p, err := puzzle.Decode(raw.Main)
		if err != nil {
			return fmt.Errorf("step %q: %w", s.Name, err)
		}
		s.Main = p
	}
	return nil
}

// StepCount returns the number of steps.
func (q *Sequence) StepCount() int {
	return len(q.Steps)
}

// MaxPoints sums the un-doubled main gain of every step.
func (q *Sequence) MaxPoints() int {
	total := 0
	for _, st := range q.Steps {
		total += maxStepPoints(st)
	}
	return total
}

// Clone returns a deep copy via the wire format.
func (q *Sequence) Clone() *Sequence {
	data, err := json.Marshal(q)
	if err != nil {
		// Every field marshals; a failure here means a variant's MarshalJSON is broken.
		panic(fmt.Sprintf("clone sequence: %v", err))
	}
	var out Sequence
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("clone sequence: %v", err))
	}
	return &out
}
