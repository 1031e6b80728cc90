package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeGates = "../harness/testdata/sequences/three_gates.yaml"

// execute runs the root command with args and stdin, returning stdout and
// stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// sqliteFlags points a command at a fresh database file.
func sqliteFlags(t *testing.T) []string {
	t.Helper()
	return []string{"--backend", "sqlite", "--db", filepath.Join(t.TempDir(), "riddles.db")}
}

func withFlags(flags []string, args ...string) []string {
	return append(args, flags...)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "riddles", cmd.Use)
	assert.Contains(t, cmd.Long, "riddle sequences")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"play"},
		{"library"},
		{"library", "list"},
		{"library", "show"},
		{"library", "create"},
		{"library", "import"},
		{"library", "export"},
		{"validate"},
		{"test"},
		{"serve"},
	}

	for _, path := range commands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"env-file", "backend", "db", "redis-url"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Empty(t, flag.DefValue, "%s falls back to the environment", name)
	}
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		path []string
		flag string
		def  string
	}{
		{[]string{"play"}, "narrate", "false"},
		{[]string{"library", "export"}, "output", ""},
		{[]string{"test"}, "update", "false"},
		{[]string{"test"}, "filter", ""},
		{[]string{"test"}, "golden-dir", ""},
		{[]string{"serve"}, "addr", ""},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.path, " ")+" --"+tt.flag, func(t *testing.T) {
			subCmd, _, err := cmd.Find(tt.path)
			require.NoError(t, err)
			flag := subCmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "", "library", "list", "--format", "xml", "--backend", "memory")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestInvalidBackend(t *testing.T) {
	out, _, err := execute(t, "", "library", "list", "--backend", "etcd")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E001]: invalid configuration")
}
