package puzzle

// Answer is the structured input reported back by whatever presents a
// puzzle. Only the field matching the puzzle's kind is read:
//
//	closedQuestion, logicMinefield  Selected  indices the player picked
//	basketQuestion                  Baskets   item index -> basket index
//	chainBuilder                    Order     slot index -> element index, -1 for an empty slot
//	pairMatching                    Pairs     left index -> right index
type Answer struct {
	Selected []int       `json:"selected,omitempty" yaml:"selected,omitempty"`
	Baskets  map[int]int `json:"baskets,omitempty" yaml:"baskets,omitempty"`
	Order    []int       `json:"order,omitempty" yaml:"order,omitempty"`
	Pairs    map[int]int `json:"pairs,omitempty" yaml:"pairs,omitempty"`
}

// Verdict is the outcome of judging an answer. Correct is only meaningful
// when Valid is true.
type Verdict struct {
	Valid   bool   `json:"valid"`
	Correct bool   `json:"correct"`
	Message string `json:"message,omitempty"`
}

// Messages returned for incomplete answers.
const (
	MsgChooseOption    = "Choose one of the two answers."
	MsgFillBaskets     = "Place every item into one of the baskets."
	MsgFillChain       = "Fill all three positions in the chain."
	MsgFillPairs       = "Create all four pairs before checking."
	MsgChooseStatement = "Choose exactly one inscription."
	MsgUnknownPuzzle   = "Unknown puzzle type."
)

// Evaluate judges a against p. It does not mutate either argument.
func Evaluate(p Puzzle, a Answer) Verdict {
	switch v := p.(type) {
	case ClosedQuestion:
		return judgeSingle(a.Selected, len(v.Options), v.CorrectIndex, MsgChooseOption)
	case LogicMinefield:
		return judgeSingle(a.Selected, len(v.Statements), v.CorrectIndex, MsgChooseStatement)
	case BasketQuestion:
		return judgeBaskets(v, a.Baskets)
	case ChainBuilder:
		return judgeChain(v, a.Order)
	case PairMatching:
		return judgePairs(v, a.Pairs)
	default:
		return Verdict{Valid: false, Correct: false, Message: MsgUnknownPuzzle}
	}
}

func incomplete(msg string) Verdict {
	return Verdict{Valid: false, Correct: false, Message: msg}
}

func judgeSingle(selected []int, choices, correctIndex int, msg string) Verdict {
	if len(selected) != 1 || !inRange(selected[0], choices) {
		return incomplete(msg)
	}
	return Verdict{Valid: true, Correct: selected[0] == correctIndex}
}

func judgeBaskets(p BasketQuestion, assigned map[int]int) Verdict {
	correct := true
	for i, item := range p.Items {
		basket, ok := assigned[i]
		if !ok || !inRange(basket, len(p.Baskets)) {
			return incomplete(MsgFillBaskets)
		}
		if basket != item.CorrectBasketIndex {
			correct = false
		}
	}
	return Verdict{Valid: true, Correct: correct}
}

func judgeChain(p ChainBuilder, order []int) Verdict {
	n := len(p.Elements)
	if len(order) != n {
		return incomplete(MsgFillChain)
	}
	seen := make(map[int]bool, n)
	for _, el := range order {
		if !inRange(el, n) || seen[el] {
			return incomplete(MsgFillChain)
		}
		seen[el] = true
	}

	// The authored element order is the answer key.
	for slot, el := range order {
		if el != slot {
			return Verdict{Valid: true, Correct: false}
		}
	}
	return Verdict{Valid: true, Correct: true}
}

func judgePairs(p PairMatching, pairs map[int]int) Verdict {
	correct := true
	for i := range p.Left {
		right, ok := pairs[i]
		if !ok || !inRange(right, len(p.Right)) {
			return incomplete(MsgFillPairs)
		}
		if i >= len(p.Mapping) || right != p.Mapping[i] {
			correct = false
		}
	}
	return Verdict{Valid: true, Correct: correct}
}
