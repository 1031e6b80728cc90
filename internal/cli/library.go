package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/riddlechain/internal/app"
	"github.com/roach88/riddlechain/internal/library"
	"github.com/roach88/riddlechain/internal/schema"
	"github.com/roach88/riddlechain/internal/sequence"
)

// LibraryListing is the data payload of "library list".
type LibraryListing struct {
	Entries []app.Entry    `json:"entries"`
	Totals  library.Totals `json:"totals"`
	Overall string         `json:"overall"`
}

// ImportResult is the data payload of "library import".
type ImportResult struct {
	Imported []app.Entry `json:"imported"`
}

// NewLibraryCommand creates the library command group.
func NewLibraryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "List, import and export stored sequences",
	}

	cmd.AddCommand(newLibraryListCommand(rootOpts))
	cmd.AddCommand(newLibraryShowCommand(rootOpts))
	cmd.AddCommand(newLibraryCreateCommand(rootOpts))
	cmd.AddCommand(newLibraryImportCommand(rootOpts))
	cmd.AddCommand(newLibraryExportCommand(rootOpts))
	return cmd
}

func newLibraryListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List sequences with their statistics",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd.Context(), rootOpts, cmd, f)
			if err != nil {
				return err
			}
			defer s.Close()

			listing := listLibrary(s.controller())
			if f.JSON() {
				return f.Success(listing)
			}
			printListing(f.Writer, listing)
			return nil
		},
	}
}

func listLibrary(ctrl *app.Controller) LibraryListing {
	totals := ctrl.Library().Totals()
	return LibraryListing{
		Entries: ctrl.Entries(),
		Totals:  totals,
		Overall: totals.Text(),
	}
}

func printListing(w io.Writer, listing LibraryListing) {
	fmt.Fprintln(w, listing.Overall)
	for i, e := range listing.Entries {
		fmt.Fprintf(w, "%2d. %-8s %s\n", i+1, e.ID, e.Title)
		fmt.Fprintf(w, "    %s\n", e.Summary)
	}
}

func newLibraryShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Print one sequence as JSON",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd.Context(), rootOpts, cmd, f)
			if err != nil {
				return err
			}
			defer s.Close()

			q, err := s.lib.Get(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("sequence %q not found", args[0]), err)
			}
			if f.JSON() {
				return f.Success(q)
			}
			return writeJSON(f.Writer, q)
		},
	}
}

func newLibraryCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "create",
		Short:         "Add a copy of the sample sequence",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd.Context(), rootOpts, cmd, f)
			if err != nil {
				return err
			}
			defer s.Close()

			q := s.lib.Create(cmd.Context())
			entry := app.Entry{ID: q.ID, Title: q.Title, Summary: library.Summary(q)}
			if f.JSON() {
				return f.Success(entry)
			}
			fmt.Fprintf(f.Writer, "✓ Created %s: %s\n", entry.ID, entry.Title)
			return nil
		},
	}
}

func newLibraryImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a sequence or library file",
		Long: `Import a sequence document, or an exported library array, from JSON or
YAML. Documents are checked against the schema first. Imported entries
start with fresh statistics and keep their id when it is free.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}
}

func runImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeReadFailed, fmt.Sprintf("read %s", path), err)
	}
	validator, err := schema.New()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "load schema", err)
	}
	if err := validator.Validate(path, data); err != nil {
		return f.Fail(ExitFailure, ErrCodeInvalid, fmt.Sprintf("%s does not match the sequence schema", path), err)
	}
	docs, err := sequence.DecodeDocuments(path, data)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeInvalid, fmt.Sprintf("decode %s", path), err)
	}

	s, err := openSession(cmd.Context(), opts, cmd, f)
	if err != nil {
		return err
	}
	defer s.Close()

	result := ImportResult{Imported: make([]app.Entry, 0, len(docs))}
	for _, doc := range docs {
		q, err := s.lib.Import(cmd.Context(), doc)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeInvalid, fmt.Sprintf("import %q", doc.Title), err)
		}
		f.VerboseLog("Imported %s as %s", q.Title, q.ID)
		result.Imported = append(result.Imported, app.Entry{ID: q.ID, Title: q.Title, Summary: library.Summary(q)})
	}

	if f.JSON() {
		return f.Success(result)
	}
	for _, e := range result.Imported {
		fmt.Fprintf(f.Writer, "✓ Imported %s: %s\n", e.ID, e.Title)
	}
	return nil
}

func newLibraryExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Write the library as a JSON array",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd.Context(), rootOpts, cmd, f)
			if err != nil {
				return err
			}
			defer s.Close()

			data, err := s.lib.Export()
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeGeneric, "export library", err)
			}
			data = append(data, '\n')

			if output == "" {
				_, err := f.Writer.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return f.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("write %s", output), err)
			}
			if f.JSON() {
				return f.Success(map[string]any{"path": output, "sequences": s.lib.Len()})
			}
			fmt.Fprintf(f.Writer, "✓ Exported %d sequence(s) to %s\n", s.lib.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// writeJSON prints v indented, the way export files are written.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
