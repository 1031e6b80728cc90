// Package puzzle defines the five riddle variants and judges answers to them.
//
// A Puzzle is a sealed sum type. Every variant carries a fixed cardinality
// contract that Validate enforces:
//
//	closedQuestion   2 options, correctIndex in {0,1}
//	basketQuestion   2 baskets, 5 items, correctBasketIndex in {0,1}
//	chainBuilder     3 elements, array order is the correct order
//	pairMatching     4 left, 4 right, mapping[i] in [0,4) (not a bijection)
//	logicMinefield   4 statements, correctIndex in [0,4)
//
// Puzzles whose kind is not recognised decode into Unknown rather than failing,
// so a library with one bad entry still loads. Evaluating an Unknown puzzle
// yields an invalid verdict with a message instead of an error.
//
// # Evaluation
//
// Evaluate is a pure function of the puzzle definition and a plain Answer
// value. It never inspects presentation state. An incomplete answer yields
// Verdict{Valid: false} and a message saying what is missing; callers must not
// advance on an invalid verdict.
//
// # Wire format
//
// Puzzles are persisted as JSON objects tagged with "type":"puzzle" and a
// "puzzleKind" discriminator. Decode reads that envelope; each variant's
// MarshalJSON writes it back.
package puzzle
