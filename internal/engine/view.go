package engine

import (
	"fmt"

	"github.com/roach88/riddlechain/internal/puzzle"
	"github.com/roach88/riddlechain/internal/sequence"
)

// View is a self-contained snapshot of what a run shows right now. Renderers
// need nothing else to draw the current screen.
type View struct {
	RunToken      string `json:"runToken"`
	Seq           int64  `json:"seq"`
	SequenceID    string `json:"sequenceId,omitempty"`
	SequenceTitle string `json:"sequenceTitle"`

	Phase      Phase  `json:"phase"`
	IntroIndex int    `json:"introIndex"`
	IntroCount int    `json:"introCount"`
	StepIndex  int    `json:"stepIndex"`
	StepCount  int    `json:"stepCount"`
	StepName   string `json:"stepName,omitempty"`

	Slide  *sequence.IntroSlide `json:"slide,omitempty"`
	Puzzle puzzle.Puzzle        `json:"puzzle,omitempty"`
	Note   *sequence.Note       `json:"note,omitempty"`

	Score             int `json:"score"`
	CurrentStepScore  int `json:"currentStepScore"`
	LastStepScore     int `json:"lastStepScore"`
	MainCorrectStreak int `json:"mainCorrectStreak"`

	StepSummary *StepSummary  `json:"stepSummary,omitempty"`
	Final       *FinalSummary `json:"final,omitempty"`
	Pending     *Pending      `json:"pending,omitempty"`
}

// StepSummary is shown with the explanation and context of a step.
type StepSummary struct {
	Earned int    `json:"earned"`
	Max    int    `json:"max"`
	Total  int    `json:"total"`
	Text   string `json:"text"`
}

// FinalSummary is shown on the end screen.
type FinalSummary struct {
	Score     int    `json:"score"`
	MaxPoints int    `json:"maxPoints"`
	StepCount int    `json:"stepCount"`
	Text      string `json:"text"`
}

// View returns the current snapshot.
func (r *Run) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.state
	v := View{
		RunToken:          r.token,
		Seq:               r.clock.Current(),
		SequenceID:        r.seq.ID,
		SequenceTitle:     r.seq.Title,
		Phase:             st.Phase,
		IntroIndex:        st.IntroIndex,
		IntroCount:        len(r.seq.IntroSlides),
		StepIndex:         st.StepIndex,
		StepCount:         r.seq.StepCount(),
		Score:             st.Score,
		CurrentStepScore:  st.CurrentStepScore,
		LastStepScore:     st.LastStepScore,
		MainCorrectStreak: st.MainCorrectStreak,
	}
	if r.pending != nil {
		p := *r.pending
		v.Pending = &p
	}

	switch st.Phase {
	case PhaseIntro:
		if st.IntroIndex < len(r.seq.IntroSlides) {
			slide := r.seq.IntroSlides[st.IntroIndex]
			v.Slide = &slide
		}
	case PhaseMain, PhaseSecondChance:
		_, v.Puzzle = r.currentPuzzle()
		v.StepName = r.seq.Steps[st.StepIndex].Name
	case PhaseExplanation:
		step := r.seq.Steps[st.StepIndex]
		note := step.Explanation
		v.StepName = step.Name
		v.Note = &note
		v.StepSummary = r.stepSummary()
	case PhaseContext:
		step := r.seq.Steps[st.StepIndex]
		v.StepName = step.Name
		if step.Context != nil {
			note := *step.Context
			v.Note = &note
		}
		v.StepSummary = r.stepSummary()
	case PhaseDone:
		end := r.seq.EndScreenOrDefault()
		v.Note = &end
		maxPoints := r.seq.MaxPoints()
		v.Final = &FinalSummary{
			Score:     st.Score,
			MaxPoints: maxPoints,
			StepCount: r.seq.StepCount(),
			Text:      fmt.Sprintf("Final score: %s / %d points.", signed(st.Score), maxPoints),
		}
	}
	return v
}

func (r *Run) stepSummary() *StepSummary {
	maxPoints := r.seq.MaxStepPoints(r.state.StepIndex)
	earned := r.state.LastStepScore
	return &StepSummary{
		Earned: earned,
		Max:    maxPoints,
		Total:  r.state.Score,
		Text:   fmt.Sprintf("This riddle: %s / %d points. Total score: %d points.", signed(earned), maxPoints, r.state.Score),
	}
}

// signed formats n with an explicit sign, except zero.
func signed(n int) string {
	switch {
	case n > 0:
		return fmt.Sprintf("+%d", n)
	case n < 0:
		return fmt.Sprintf("-%d", -n)
	default:
		return "0"
	}
}
