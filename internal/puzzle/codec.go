package puzzle

import (
	"encoding/json"
	"fmt"
)

// TypeTag is the value of the "type" field on every persisted puzzle.
const TypeTag = "puzzle"

type envelope struct {
	Type       string `json:"type"`
	PuzzleKind Kind   `json:"puzzleKind"`
}

// Decode reads a tagged puzzle object. It only fails when data is not a JSON
// object or a known variant's fields have the wrong JSON types; an unknown or
// missing puzzleKind decodes into Unknown.
func Decode(data []byte) (Puzzle, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode puzzle: %w", err)
	}

	switch env.PuzzleKind {
	case KindClosedQuestion:
		var p ClosedQuestion
		return decodeInto(data, &p)
	case KindBasketQuestion:
		var p BasketQuestion
		return decodeInto(data, &p)
	case KindChainBuilder:
		var p ChainBuilder
		return decodeInto(data, &p)
	case KindPairMatching:
		var p PairMatching
		return decodeInto(data, &p)
	case KindLogicMinefield:
		var p LogicMinefield
		return decodeInto(data, &p)
	default:
		raw := make([]byte, len(data))
		copy(raw, data)
		return Unknown{RawKind: env.PuzzleKind, Raw: raw}, nil
	}
}

// decodeInto unmarshals into the variant pointed to by dst and returns the
// value (not the pointer) so callers always see value variants.
func decodeInto[T Puzzle](data []byte, dst *T) (Puzzle, error) {
	// The variant types have MarshalJSON but no UnmarshalJSON, so the
	// envelope fields are simply ignored here.
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, fmt.Errorf("decode %s: %w", (*dst).Kind(), err)
	}
	return *dst, nil
}

// Encode writes p in its tagged wire form.
func Encode(p Puzzle) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("encode puzzle: nil puzzle")
	}
	return json.Marshal(p)
}

func (p ClosedQuestion) MarshalJSON() ([]byte, error) {
	type plain ClosedQuestion
	return json.Marshal(struct {
		envelope
		plain
	}{envelope{TypeTag, KindClosedQuestion}, plain(p)})
}

func (p BasketQuestion) MarshalJSON() ([]byte, error) {
	type plain BasketQuestion
	return json.Marshal(struct {
		envelope
		plain
	}{envelope{TypeTag, KindBasketQuestion}, plain(p)})
}

func (p ChainBuilder) MarshalJSON() ([]byte, error) {
	type plain ChainBuilder
	return json.Marshal(struct {
		envelope
		plain
	}{envelope{TypeTag, KindChainBuilder}, plain(p)})
}

func (p PairMatching) MarshalJSON() ([]byte, error) {
	type plain PairMatching
	return json.Marshal(struct {
		envelope
		plain
	}{envelope{TypeTag, KindPairMatching}, plain(p)})
}

func (p LogicMinefield) MarshalJSON() ([]byte, error) {
	type plain LogicMinefield
	return json.Marshal(struct {
		envelope
		plain
	}{envelope{TypeTag, KindLogicMinefield}, plain(p)})
}

// MarshalJSON returns the bytes the puzzle was decoded from.
func (u Unknown) MarshalJSON() ([]byte, error) {
	if len(u.Raw) > 0 {
		return u.Raw, nil
	}
	return json.Marshal(envelope{TypeTag, u.RawKind})
}
