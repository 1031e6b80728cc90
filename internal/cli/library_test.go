package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/riddlechain/internal/sequence"
)

func TestLibraryList_FreshStore(t *testing.T) {
	out, _, err := execute(t, "", withFlags(sqliteFlags(t), "library", "list")...)
	require.NoError(t, err)

	assert.Contains(t, out, "Overall: no results yet")
	assert.Contains(t, out, " 1. seq-1")
	assert.Contains(t, out, sequence.DefaultTitle)
	assert.Contains(t, out, "8 riddles • 2 intro slides")
}

func TestLibraryList_JSON(t *testing.T) {
	out, _, err := execute(t, "", withFlags(sqliteFlags(t), "library", "list", "--format", "json")...)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   LibraryListing `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Entries, 1)
	assert.Equal(t, "seq-1", resp.Data.Entries[0].ID)
	assert.Equal(t, 1, resp.Data.Totals.Sequences)
	assert.Zero(t, resp.Data.Totals.Runs)
}

func TestLibraryCreatePersists(t *testing.T) {
	flags := sqliteFlags(t)

	out, _, err := execute(t, "", withFlags(flags, "library", "create")...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created seq-2")

	out, _, err = execute(t, "", withFlags(flags, "library", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, " 2. seq-2")
}

func TestLibraryImportExport(t *testing.T) {
	flags := sqliteFlags(t)

	out, _, err := execute(t, "", withFlags(flags, "library", "import", threeGates)...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Imported seq-2: Three Gates")

	out, _, err = execute(t, "", withFlags(flags, "library", "show", "seq-2")...)
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Three Gates"`)

	exportPath := filepath.Join(t.TempDir(), "library.json")
	out, _, err = execute(t, "", withFlags(flags, "library", "export", "-o", exportPath)...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Exported 2 sequence(s)")

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	docs, err := sequence.DecodeDocuments(exportPath, data)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, sequence.DefaultTitle, docs[0].Title)
	assert.Equal(t, "Three Gates", docs[1].Title)

	// A fresh store already holds seq-1, so both entries move up.
	fresh := sqliteFlags(t)
	out, _, err = execute(t, "", withFlags(fresh, "library", "import", exportPath, "--format", "json")...)
	require.NoError(t, err)

	var resp struct {
		Data ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Imported, 2)
	assert.Equal(t, "seq-2", resp.Data.Imported[0].ID)
	assert.Equal(t, "seq-3", resp.Data.Imported[1].ID)
}

func TestLibraryExport_Stdout(t *testing.T) {
	out, _, err := execute(t, "", withFlags(sqliteFlags(t), "library", "export")...)
	require.NoError(t, err)

	docs, err := sequence.DecodeDocuments("export.json", []byte(out))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "seq-1", docs[0].ID)
}

func TestLibraryImport_Failures(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"title": "No steps field"}`), 0o600))

	tests := []struct {
		name     string
		file     string
		exitCode int
		errCode  string
	}{
		{"missing file", filepath.Join(dir, "missing.json"), ExitCommandError, ErrCodeReadFailed},
		{"schema violation", invalid, ExitFailure, ErrCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "", withFlags(sqliteFlags(t), "library", "import", tt.file, "--format", "json")...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.errCode, resp.Error.Code)
		})
	}
}

func TestLibraryShow_NotFound(t *testing.T) {
	out, _, err := execute(t, "", withFlags(sqliteFlags(t), "library", "show", "seq-9")...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `Error [E005]: sequence "seq-9" not found`)
}
