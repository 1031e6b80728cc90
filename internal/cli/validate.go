package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/riddlechain/internal/schema"
	"github.com/roach88/riddlechain/internal/sequence"
)

// Problem is one reason a document was rejected.
type Problem struct {
	Stage   string `json:"stage"` // "read", "schema", "decode" or "shape"
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// FileResult holds the validation outcome of one file.
type FileResult struct {
	File      string    `json:"file"`
	Valid     bool      `json:"valid"`
	Sequences int       `json:"sequences,omitempty"`
	Problems  []Problem `json:"problems,omitempty"`
}

// ValidationResult holds validation results for every file.
type ValidationResult struct {
	Valid bool         `json:"valid"`
	Files []FileResult `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check sequence documents without importing them",
		Long: `Check sequence documents (JSON or YAML, single sequence or library array).

Each file is matched against the sequence schema, then decoded and checked
for puzzle shape: option counts, index ranges and required text.

Exit codes:
  0 - All files valid
  1 - One or more files invalid
  2 - Command error`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	validator, err := schema.New()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "load schema", err)
	}

	result := ValidationResult{Valid: true, Files: make([]FileResult, 0, len(files))}
	for _, file := range files {
		f.VerboseLog("Validating %s", file)
		fr := validateFile(validator, file)
		if !fr.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fr)
	}

	if f.JSON() {
		if result.Valid {
			return f.Success(result)
		}
		if err := f.Error(ErrCodeInvalid, "validation failed", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "validation failed")
	}

	w := f.Writer
	invalid := 0
	for _, fr := range result.Files {
		if fr.Valid {
			fmt.Fprintf(w, "✓ %s (%d sequence(s))\n", fr.File, fr.Sequences)
			continue
		}
		invalid++
		fmt.Fprintf(w, "✗ %s\n", fr.File)
		for _, p := range fr.Problems {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	if invalid > 0 {
		fmt.Fprintf(w, "\n%d of %d file(s) invalid\n", invalid, len(result.Files))
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

func (p Problem) String() string {
	loc := p.Path
	if p.Line > 0 {
		loc = fmt.Sprintf("line %d: %s", p.Line, p.Path)
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s", p.Stage, p.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", p.Stage, loc, p.Message)
}

// validateFile stops at the first stage that fails.
func validateFile(v *schema.Validator, path string) FileResult {
	fr := FileResult{File: filepath.ToSlash(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		fr.Problems = []Problem{{Stage: "read", Message: err.Error()}}
		return fr
	}

	if err := v.Validate(path, data); err != nil {
		var schemaErr *schema.Error
		if errors.As(err, &schemaErr) {
			for _, viol := range schemaErr.Violations {
				fr.Problems = append(fr.Problems, Problem{Stage: "schema", Path: viol.Path, Line: viol.Line, Message: viol.Message})
			}
		} else {
			fr.Problems = []Problem{{Stage: "schema", Message: err.Error()}}
		}
		return fr
	}

	docs, err := sequence.DecodeDocuments(path, data)
	if err != nil {
		fr.Problems = []Problem{{Stage: "decode", Message: err.Error()}}
		return fr
	}

	for i, q := range docs {
		for _, ve := range sequence.Problems(sequence.Validate(q)) {
			p := Problem{Stage: "shape", Path: ve.Path, Message: ve.Message}
			if len(docs) > 1 {
				p.Path = fmt.Sprintf("[%d].%s", i, ve.Path)
			}
			fr.Problems = append(fr.Problems, p)
		}
	}
	fr.Sequences = len(docs)
	fr.Valid = len(fr.Problems) == 0
	return fr
}
