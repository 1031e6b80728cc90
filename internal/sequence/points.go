package sequence

import "github.com/roach88/riddlechain/internal/scoring"

// fallbackStepPoints is used for a step whose main puzzle is missing.
const fallbackStepPoints = 15

func maxStepPoints(st Step) int {
	if st.Main == nil {
		return fallbackStepPoints
	}
	return scoring.MaxBasePoints(st.Main.Kind())
}

// MaxStepPoints returns the un-doubled main gain of step i, for summaries.
func (q *Sequence) MaxStepPoints(i int) int {
	if i < 0 || i >= len(q.Steps) {
		return fallbackStepPoints
	}
	return maxStepPoints(q.Steps[i])
}
