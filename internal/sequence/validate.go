package sequence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/riddlechain/internal/puzzle"
)

// ValidationError locates one structural problem in a sequence.
type ValidationError struct {
	// Path is a dotted location such as "steps[2].main.options".
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks the shape contracts of a sequence: a title, text on every
// intro slide, and well-formed main and second-chance puzzles on every step.
// It performs no content checks beyond that. All problems are returned joined.
func Validate(q *Sequence) error {
	if q == nil {
		return &ValidationError{Message: "sequence is missing"}
	}

	var errs []error
	add := func(path, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(q.Title) == "" {
		add("title", "title is required")
	}
	for i, slide := range q.IntroSlides {
		if strings.TrimSpace(slide.Text) == "" {
			add(fmt.Sprintf("introSlides[%d].text", i), "text is required")
		}
	}
	for i, st := range q.Steps {
		prefix := fmt.Sprintf("steps[%d]", i)
		if st.Main == nil {
			add(prefix+".main", "main puzzle is required")
		} else {
			addShapeErrors(&errs, prefix+".main", puzzle.Validate(st.Main))
		}
		addShapeErrors(&errs, prefix+".secondChance", puzzle.Validate(st.SecondChance))
	}

	return errors.Join(errs...)
}

// addShapeErrors re-roots puzzle shape errors under prefix.
func addShapeErrors(errs *[]error, prefix string, err error) {
	if err == nil {
		return
	}
	var joined interface{ Unwrap() []error }
	parts := []error{err}
	if errors.As(err, &joined) {
		parts = joined.Unwrap()
	}
	for _, part := range parts {
		var shape *puzzle.ShapeError
		if errors.As(part, &shape) {
			*errs = append(*errs, &ValidationError{Path: prefix + "." + shape.Field, Message: shape.Message})
			continue
		}
		*errs = append(*errs, &ValidationError{Path: prefix, Message: part.Error()})
	}
}

// Problems flattens a Validate error into its individual ValidationErrors.
func Problems(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	parts := []error{err}
	if errors.As(err, &joined) {
		parts = joined.Unwrap()
	}
	out := make([]*ValidationError, 0, len(parts))
	for _, part := range parts {
		var ve *ValidationError
		if errors.As(part, &ve) {
			out = append(out, ve)
		} else {
			out = append(out, &ValidationError{Message: part.Error()})
		}
	}
	return out
}
