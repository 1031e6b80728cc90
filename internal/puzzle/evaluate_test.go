package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func closedQ() ClosedQuestion {
	return ClosedQuestion{Question: "Q?", Options: []string{"A", "B"}, CorrectIndex: 1}
}

func basketQ() BasketQuestion {
	return BasketQuestion{
		Prompt:  "Sort",
		Baskets: []string{"Local", "Regional"},
		Items: []BasketItem{
			{Label: "a", CorrectBasketIndex: 0},
			{Label: "b", CorrectBasketIndex: 1},
			{Label: "c", CorrectBasketIndex: 0},
			{Label: "d", CorrectBasketIndex: 1},
			{Label: "e", CorrectBasketIndex: 1},
		},
	}
}

func chainQ() ChainBuilder {
	return ChainBuilder{Prompt: "Order", Elements: []string{"first", "second", "third"}}
}

func pairQ() PairMatching {
	return PairMatching{
		Prompt:  "Match",
		Left:    []string{"l0", "l1", "l2", "l3"},
		Right:   []string{"r0", "r1", "r2", "r3"},
		Mapping: []int{3, 0, 2, 1},
	}
}

func mineQ() LogicMinefield {
	return LogicMinefield{Prompt: "One is true", Statements: []string{"s0", "s1", "s2", "s3"}, CorrectIndex: 2}
}

func TestEvaluate_ClosedQuestion(t *testing.T) {
	p := closedQ()

	assert.Equal(t, Verdict{Valid: true, Correct: true}, Evaluate(p, Answer{Selected: []int{1}}))
	assert.Equal(t, Verdict{Valid: true, Correct: false}, Evaluate(p, Answer{Selected: []int{0}}))

	for _, sel := range [][]int{nil, {}, {0, 1}, {2}, {-1}} {
		v := Evaluate(p, Answer{Selected: sel})
		assert.False(t, v.Valid, "selection %v should be invalid", sel)
		assert.False(t, v.Correct)
		assert.Equal(t, MsgChooseOption, v.Message)
	}
}

func TestEvaluate_LogicMinefield(t *testing.T) {
	p := mineQ()

	assert.True(t, Evaluate(p, Answer{Selected: []int{2}}).Correct)
	for _, sel := range []int{0, 1, 3} {
		v := Evaluate(p, Answer{Selected: []int{sel}})
		assert.True(t, v.Valid)
		assert.False(t, v.Correct, "statement %d is a mine", sel)
	}

	v := Evaluate(p, Answer{Selected: []int{2, 3}})
	assert.False(t, v.Valid)
	assert.Equal(t, MsgChooseStatement, v.Message)
}

func TestEvaluate_BasketQuestion(t *testing.T) {
	p := basketQ()
	right := map[int]int{0: 0, 1: 1, 2: 0, 3: 1, 4: 1}

	assert.Equal(t, Verdict{Valid: true, Correct: true}, Evaluate(p, Answer{Baskets: right}))

	wrong := map[int]int{0: 0, 1: 1, 2: 0, 3: 1, 4: 0}
	assert.Equal(t, Verdict{Valid: true, Correct: false}, Evaluate(p, Answer{Baskets: wrong}))

	// Four of five placed, all four correct: still incomplete.
	partial := map[int]int{0: 0, 1: 1, 2: 0, 3: 1}
	v := Evaluate(p, Answer{Baskets: partial})
	assert.False(t, v.Valid)
	assert.False(t, v.Correct)
	assert.Equal(t, MsgFillBaskets, v.Message)

	outOfRange := map[int]int{0: 0, 1: 1, 2: 0, 3: 1, 4: 2}
	assert.False(t, Evaluate(p, Answer{Baskets: outOfRange}).Valid)
}

func TestEvaluate_ChainBuilder_IdentityPermutationOnly(t *testing.T) {
	p := chainQ()

	perms := [][]int{
		{0, 1, 2},
		{0, 2, 1},
		{1, 0, 2},
		{1, 2, 0},
		{2, 0, 1},
		{2, 1, 0},
	}
	for _, order := range perms {
		v := Evaluate(p, Answer{Order: order})
		assert.True(t, v.Valid, "order %v", order)
		isIdentity := order[0] == 0 && order[1] == 1 && order[2] == 2
		assert.Equal(t, isIdentity, v.Correct, "order %v", order)
	}
}

func TestEvaluate_ChainBuilder_Incomplete(t *testing.T) {
	p := chainQ()

	cases := map[string][]int{
		"empty":        nil,
		"two slots":    {0, 1},
		"empty slot":   {0, -1, 2},
		"duplicate":    {0, 0, 2},
		"out of range": {0, 1, 3},
		"too many":     {0, 1, 2, 0},
	}
	for name, order := range cases {
		t.Run(name, func(t *testing.T) {
			v := Evaluate(p, Answer{Order: order})
			assert.False(t, v.Valid)
			assert.False(t, v.Correct)
			assert.Equal(t, MsgFillChain, v.Message)
		})
	}
}

func TestEvaluate_PairMatching(t *testing.T) {
	p := pairQ()

	v := Evaluate(p, Answer{Pairs: map[int]int{0: 3, 1: 0, 2: 2, 3: 1}})
	assert.Equal(t, Verdict{Valid: true, Correct: true}, v)

	// Every other full assignment over the same right indices is wrong.
	others := []map[int]int{
		{0: 0, 1: 1, 2: 2, 3: 3},
		{0: 3, 1: 0, 2: 1, 3: 2},
		{0: 3, 1: 3, 2: 3, 3: 3},
		{0: 1, 1: 0, 2: 2, 3: 3},
	}
	for _, pairs := range others {
		v := Evaluate(p, Answer{Pairs: pairs})
		assert.True(t, v.Valid, "pairs %v", pairs)
		assert.False(t, v.Correct, "pairs %v", pairs)
	}

	partial := Evaluate(p, Answer{Pairs: map[int]int{0: 3, 1: 0, 2: 2}})
	assert.False(t, partial.Valid)
	assert.Equal(t, MsgFillPairs, partial.Message)
}

func TestEvaluate_UnknownKind(t *testing.T) {
	v := Evaluate(Unknown{RawKind: "wordSearch"}, Answer{Selected: []int{0}})
	assert.Equal(t, Verdict{Valid: false, Correct: false, Message: MsgUnknownPuzzle}, v)

	v = Evaluate(nil, Answer{})
	assert.Equal(t, MsgUnknownPuzzle, v.Message)
}

func TestEvaluate_IncompleteAlwaysInvalid(t *testing.T) {
	// A partial answer whose filled part is entirely correct must still be invalid.
	cases := []struct {
		name   string
		puzzle Puzzle
		answer Answer
	}{
		{"closed", closedQ(), Answer{}},
		{"minefield", mineQ(), Answer{}},
		{"basket", basketQ(), Answer{Baskets: map[int]int{0: 0, 1: 1}}},
		{"chain", chainQ(), Answer{Order: []int{0, 1, -1}}},
		{"pairs", pairQ(), Answer{Pairs: map[int]int{0: 3, 1: 0, 2: 2}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Evaluate(tc.puzzle, tc.answer)
			assert.False(t, v.Valid)
			assert.NotEmpty(t, v.Message)
		})
	}
}
