package engine

// Phase is the position of a run within its sequence.
type Phase string

const (
	PhaseIntro        Phase = "intro"
	PhaseMain         Phase = "main"
	PhaseSecondChance Phase = "secondChance"
	PhaseExplanation  Phase = "explanation"
	PhaseContext      Phase = "context"
	PhaseDone         Phase = "done"
)

// Answerable reports whether the phase shows a puzzle that takes answers.
func (p Phase) Answerable() bool {
	return p == PhaseMain || p == PhaseSecondChance
}

// State is the complete in-memory state of one run. It is created fresh on
// entering a sequence or restarting and is never persisted.
type State struct {
	Phase      Phase `json:"phase"`
	IntroIndex int   `json:"introIndex"`
	StepIndex  int   `json:"stepIndex"`

	Score int `json:"score"`
	// CurrentStepScore accumulates the deltas earned on the current step.
	CurrentStepScore int `json:"currentStepScore"`
	// LastStepScore is CurrentStepScore as of the latest judged answer.
	LastStepScore     int `json:"lastStepScore"`
	MainCorrectStreak int `json:"mainCorrectStreak"`

	StatsRecorded bool `json:"statsRecorded"`
}

func initialState() State {
	return State{Phase: PhaseIntro}
}
