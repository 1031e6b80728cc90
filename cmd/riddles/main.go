// Command riddles plays, authors and serves riddle sequences.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/riddlechain/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "riddles:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
