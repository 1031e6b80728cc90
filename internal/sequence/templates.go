package sequence

import "github.com/roach88/riddlechain/internal/puzzle"

// NewPuzzle returns a placeholder puzzle of kind that already satisfies its
// cardinality contract. Unknown kinds get a closed question.
func NewPuzzle(kind puzzle.Kind) puzzle.Puzzle {
	switch kind {
	case puzzle.KindBasketQuestion:
		return puzzle.BasketQuestion{
			Prompt:  "Sort the items into the correct baskets.",
			Baskets: []string{"Basket A", "Basket B"},
			Items: []puzzle.BasketItem{
				{Label: "Item 1"},
				{Label: "Item 2"},
				{Label: "Item 3"},
				{Label: "Item 4"},
				{Label: "Item 5"},
			},
		}
	case puzzle.KindChainBuilder:
		return puzzle.ChainBuilder{
			Prompt:   "Place the events in the correct order.",
			Elements: []string{"First element", "Second element", "Third element"},
		}
	case puzzle.KindPairMatching:
		return puzzle.PairMatching{
			Prompt:  "Match each item on the left with one on the right.",
			Left:    []string{"Left 1", "Left 2", "Left 3", "Left 4"},
			Right:   []string{"Right 1", "Right 2", "Right 3", "Right 4"},
			Mapping: []int{0, 1, 2, 3},
		}
	case puzzle.KindLogicMinefield:
		return puzzle.LogicMinefield{
			Prompt:     "Only one of these statements is true.",
			Statements: []string{"Statement 1", "Statement 2", "Statement 3", "Statement 4"},
		}
	default:
		return NewClosedQuestion()
	}
}

// NewClosedQuestion returns the closed-question placeholder.
func NewClosedQuestion() puzzle.ClosedQuestion {
	return puzzle.ClosedQuestion{
		Question: "Your question here?",
		Options:  []string{"Answer A", "Answer B"},
	}
}

// EnsureMain replaces the step's main puzzle with a placeholder of kind
// unless it already is one.
func (s *Step) EnsureMain(kind puzzle.Kind) {
	if s.Main == nil || s.Main.Kind() != kind {
		s.Main = NewPuzzle(kind)
	}
}

// EnsureSecondChance fills a missing second-chance question.
func (s *Step) EnsureSecondChance() {
	if len(s.SecondChance.Options) == 0 && s.SecondChance.Question == "" {
		s.SecondChance = NewClosedQuestion()
	}
}

// NewStep returns a step with a main puzzle of kind and a placeholder
// second chance and explanation.
func NewStep(name string, kind puzzle.Kind) Step {
	return Step{
		Name:         name,
		Main:         NewPuzzle(kind),
		SecondChance: NewClosedQuestion(),
		Explanation:  Note{Title: "Explanation", Text: "Explain the answer here."},
	}
}
