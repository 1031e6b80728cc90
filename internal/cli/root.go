package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands. Empty storage flags fall
// back to the RIDDLES_* environment.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	EnvFile  string
	Backend  string
	DBPath   string
	RedisURL string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the riddles CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "riddles",
		Short: "Branching riddle sequences with scoring",
		Long: `Play, author and serve riddle sequences.

A sequence is a few intro slides followed by riddles. Each riddle has a
main puzzle and a second chance, and every answer moves the score.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load (default .env)")
	flags.StringVar(&opts.Backend, "backend", "", "storage backend (memory|sqlite|redis)")
	flags.StringVar(&opts.DBPath, "db", "", "SQLite database path")
	flags.StringVar(&opts.RedisURL, "redis-url", "", "Redis connection URL")

	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewLibraryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
