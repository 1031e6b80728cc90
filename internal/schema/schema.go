// Package schema checks authored sequence documents against an embedded CUE
// schema before they are decoded.
//
// The schema is stricter than the loader: unknown puzzle kinds and wrong
// cardinalities are rejected here, while the library tolerates them in
// stored data.
package schema

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed sequence.cue
var source string

// Format is the encoding of a document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Violation is one schema failure.
type Violation struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

func (v Violation) String() string {
	var b strings.Builder
	if v.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", v.Line)
	}
	if v.Path != "" {
		b.WriteString(v.Path)
		b.WriteString(": ")
	}
	b.WriteString(v.Message)
	return b.String()
}

// Error lists every violation found in a document.
type Error struct {
	File       string
	Violations []Violation
}

func (e *Error) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("%s: %s", e.File, e.Violations[0])
	}
	return fmt.Sprintf("%s: %d schema violations, first: %s", e.File, len(e.Violations), e.Violations[0])
}

// Validator holds the compiled schema. It is safe for concurrent use once
// built.
type Validator struct {
	ctx      *cue.Context
	sequence cue.Value
	library  cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(source, cue.Filename("sequence.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{
		ctx:      ctx,
		sequence: root.LookupPath(cue.ParsePath("#Sequence")),
		library:  root.LookupPath(cue.ParsePath("#Library")),
	}, nil
}

// Validate checks data, a single sequence or a list of sequences. filename
// selects the format and appears in violations.
func (v *Validator) Validate(filename string, data []byte) error {
	doc, err := v.build(filename, data)
	if err != nil {
		return newError(filename, err)
	}

	target := v.sequence
	if doc.IncompleteKind() == cue.ListKind {
		target = v.library
	}
	if err := target.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return newError(filename, err)
	}
	return nil
}

func (v *Validator) build(filename string, data []byte) (cue.Value, error) {
	var val cue.Value
	switch FormatFor(filename) {
	case FormatYAML:
		f, err := cueyaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, err
		}
		val = v.ctx.BuildFile(f)
	default:
		expr, err := cuejson.Extract(filename, data)
		if err != nil {
			return cue.Value{}, err
		}
		val = v.ctx.BuildExpr(expr)
	}
	return val, val.Err()
}

func newError(filename string, err error) *Error {
	out := &Error{File: filename}
	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		out.Violations = append(out.Violations, Violation{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
			Line:    lineIn(filename, errors.Positions(e)),
		})
	}
	if len(out.Violations) == 0 {
		out.Violations = []Violation{{Message: err.Error()}}
	}
	return out
}

// lineIn returns the first position that points into the document rather
// than the schema.
func lineIn(filename string, positions []token.Pos) int {
	for _, p := range positions {
		if p.IsValid() && p.Filename() == filename {
			return p.Line()
		}
	}
	return 0
}
