package sequence

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed default_sequence.json
var defaultSequenceJSON []byte

// DefaultTitle identifies the built-in sample sequence. The library matches
// on this exact string.
const DefaultTitle = "The Nile That Carves Power"

var defaultSequence = mustDecodeDefault()

func mustDecodeDefault() *Sequence {
	var q Sequence
	if err := json.Unmarshal(defaultSequenceJSON, &q); err != nil {
		panic(fmt.Sprintf("decode built-in sequence: %v", err))
	}
	if q.Title != DefaultTitle {
		panic(fmt.Sprintf("built-in sequence title %q, want %q", q.Title, DefaultTitle))
	}
	return &q
}

// Default returns a fresh deep copy of the built-in sequence without an id.
func Default() *Sequence {
	return defaultSequence.Clone()
}

// DefaultEndScreen is shown for sequences that have no end screen of their own.
func DefaultEndScreen() Note {
	return *defaultSequence.EndScreen
}

// EndScreenOrDefault returns q's end screen, falling back to the built-in one.
func (q *Sequence) EndScreenOrDefault() Note {
	if q.EndScreen != nil {
		end := *q.EndScreen
		def := DefaultEndScreen()
		if end.Text == "" {
			end.Text = def.Text
		}
		return end
	}
	return DefaultEndScreen()
}
