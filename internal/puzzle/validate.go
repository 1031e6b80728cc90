package puzzle

import (
	"errors"
	"fmt"
)

// ShapeError reports a broken cardinality or index contract.
type ShapeError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Kind, e.Field, e.Message)
}

// Validate checks p against its variant's cardinality contract. All
// violations are returned joined; nil means the puzzle is well formed.
// Unknown puzzles are always invalid.
func Validate(p Puzzle) error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ShapeError{Kind: p.Kind(), Field: field, Message: fmt.Sprintf(format, args...)})
	}

	switch v := p.(type) {
	case ClosedQuestion:
		if len(v.Options) != ClosedOptions {
			add("options", "want exactly %d options, got %d", ClosedOptions, len(v.Options))
		}
		if !inRange(v.CorrectIndex, ClosedOptions) {
			add("correctIndex", "must be 0 or 1, got %d", v.CorrectIndex)
		}
	case BasketQuestion:
		if len(v.Baskets) != Baskets {
			add("baskets", "want exactly %d baskets, got %d", Baskets, len(v.Baskets))
		}
		if len(v.Items) != BasketItems {
			add("items", "want exactly %d items, got %d", BasketItems, len(v.Items))
		}
		for i, item := range v.Items {
			if !inRange(item.CorrectBasketIndex, Baskets) {
				add(fmt.Sprintf("items[%d].correctBasketIndex", i), "must be 0 or 1, got %d", item.CorrectBasketIndex)
			}
		}
	case ChainBuilder:
		if len(v.Elements) != ChainElements {
			add("elements", "want exactly %d elements, got %d", ChainElements, len(v.Elements))
		}
	case PairMatching:
		if len(v.Left) != PairCount {
			add("left", "want exactly %d items, got %d", PairCount, len(v.Left))
		}
		if len(v.Right) != PairCount {
			add("right", "want exactly %d items, got %d", PairCount, len(v.Right))
		}
		if len(v.Mapping) != PairCount {
			add("mapping", "want exactly %d entries, got %d", PairCount, len(v.Mapping))
		}
		for i, m := range v.Mapping {
			if !inRange(m, PairCount) {
				add(fmt.Sprintf("mapping[%d]", i), "must be in [0,%d), got %d", PairCount, m)
			}
		}
	case LogicMinefield:
		if len(v.Statements) != MinefieldChoices {
			add("statements", "want exactly %d statements, got %d", MinefieldChoices, len(v.Statements))
		}
		if !inRange(v.CorrectIndex, MinefieldChoices) {
			add("correctIndex", "must be in [0,%d), got %d", MinefieldChoices, v.CorrectIndex)
		}
	case Unknown:
		add("puzzleKind", "unknown puzzle kind %q", string(v.RawKind))
	case nil:
		return errors.New("puzzle is missing")
	}

	return errors.Join(errs...)
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
