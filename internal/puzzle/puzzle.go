package puzzle

// Kind is the puzzleKind discriminator of a puzzle variant.
type Kind string

const (
	KindClosedQuestion Kind = "closedQuestion"
	KindBasketQuestion Kind = "basketQuestion"
	KindChainBuilder   Kind = "chainBuilder"
	KindPairMatching   Kind = "pairMatching"
	KindLogicMinefield Kind = "logicMinefield"
)

// Cardinalities fixed by the variant contracts.
const (
	ClosedOptions    = 2
	Baskets          = 2
	BasketItems      = 5
	ChainElements    = 3
	PairCount        = 4
	MinefieldChoices = 4
)

// Kinds lists the known kinds in authoring order.
var Kinds = []Kind{
	KindClosedQuestion,
	KindBasketQuestion,
	KindChainBuilder,
	KindPairMatching,
	KindLogicMinefield,
}

// Known reports whether k names one of the five variants.
func (k Kind) Known() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Puzzle is implemented by the variant types in this package only.
type Puzzle interface {
	Kind() Kind
	isPuzzle()
}

// ClosedQuestion is a two-option question with one correct option.
type ClosedQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// BasketItem is one item to sort into a basket.
type BasketItem struct {
	Label              string `json:"label"`
	CorrectBasketIndex int    `json:"correctBasketIndex"`
}

// BasketQuestion asks the player to sort five items into two baskets.
type BasketQuestion struct {
	Prompt  string       `json:"prompt"`
	Baskets []string     `json:"baskets"`
	Items   []BasketItem `json:"items"`
}

// ChainBuilder asks the player to order three elements. The authored order
// of Elements is the correct order.
type ChainBuilder struct {
	Prompt   string   `json:"prompt"`
	Elements []string `json:"elements"`
}

// PairMatching asks the player to match each left item to a right item.
// Mapping[i] is the index in Right that correctly matches Left[i].
type PairMatching struct {
	Prompt  string   `json:"prompt"`
	Left    []string `json:"left"`
	Right   []string `json:"right"`
	Mapping []int    `json:"mapping"`
}

// LogicMinefield offers four statements of which exactly one is true.
type LogicMinefield struct {
	Prompt       string   `json:"prompt"`
	Statements   []string `json:"statements"`
	CorrectIndex int      `json:"correctIndex"`
}

// Unknown holds a puzzle whose kind this package does not recognise.
// Raw keeps the original JSON so it round-trips unchanged.
type Unknown struct {
	RawKind Kind
	Raw     []byte
}

func (ClosedQuestion) Kind() Kind { return KindClosedQuestion }
func (BasketQuestion) Kind() Kind { return KindBasketQuestion }
func (ChainBuilder) Kind() Kind   { return KindChainBuilder }
func (PairMatching) Kind() Kind   { return KindPairMatching }
func (LogicMinefield) Kind() Kind { return KindLogicMinefield }
func (u Unknown) Kind() Kind      { return u.RawKind }

func (ClosedQuestion) isPuzzle() {}
func (BasketQuestion) isPuzzle() {}
func (ChainBuilder) isPuzzle()   {}
func (PairMatching) isPuzzle()   {}
func (LogicMinefield) isPuzzle() {}
func (Unknown) isPuzzle()        {}
