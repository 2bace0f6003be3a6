package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spoolPut stores blob and returns the new entry id.
func spoolPut(t *testing.T, db, blob string, extra ...string) string {
	t.Helper()
	args := append([]string{"--format", "json", "spool", "put", blob, "--db", db}, extra...)
	stdout, _, err := runCLI(t, args...)
	require.NoError(t, err)

	var resp struct {
		Data PutResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func TestSpoolPassThrough(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "spool.db")
	blob := encodeFixture(t, dir, `{"id": 1, "tags": {"a": "b"}}`, "--typed")

	id := spoolPut(t, db, blob, "--typed")

	out := filepath.Join(dir, "back.rec")
	stdout, _, err := runCLI(t, "spool", "get", id, "--db", db, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Wrote")

	want, err := os.ReadFile(blob)
	require.NoError(t, err)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSpoolGetDecodesByKind(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "spool.db")
	blob := encodeFixture(t, dir, `{"n": 5}`, "--typed")
	id := spoolPut(t, db, blob, "--typed")

	stdout, _, err := runCLI(t, "spool", "get", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "typed record, 1 field(s)")
	assert.Contains(t, stdout, "n = 5::LONG")
}

func TestSpoolListAndDelete(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "spool.db")

	untypedBlob := encodeFixture(t, t.TempDir(), `{"a": true}`)
	typedBlob := encodeFixture(t, t.TempDir(), `{"b": "x"}`, "--typed")
	first := spoolPut(t, db, untypedBlob)
	second := spoolPut(t, db, typedBlob, "--typed")

	listIDs := func(args ...string) []string {
		t.Helper()
		stdout, _, err := runCLI(t, append([]string{"--format", "json", "spool", "list", "--db", db}, args...)...)
		require.NoError(t, err)
		var resp struct {
			Data []EntrySummary `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
		ids := make([]string, len(resp.Data))
		for i, e := range resp.Data {
			ids[i] = e.ID
		}
		return ids
	}

	assert.Equal(t, []string{first, second}, listIDs())
	assert.Equal(t, []string{second}, listIDs("--kind", "typed"))
	assert.Equal(t, []string{first}, listIDs("--limit", "1"))

	stdout, _, err := runCLI(t, "spool", "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, "\n"))
	assert.Contains(t, stdout, first)

	_, _, err = runCLI(t, "spool", "rm", first, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, []string{second}, listIDs())

	stdout, _, err = runCLI(t, "spool", "delete", first, "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E002]")
}

func TestSpoolListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "spool.db")

	stdout, _, err := runCLI(t, "spool", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Spool is empty")
}

func TestSpoolListInvalidKind(t *testing.T) {
	db := filepath.Join(t.TempDir(), "spool.db")

	stdout, _, err := runCLI(t, "spool", "list", "--db", db, "--kind", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E003]")
}

func TestSpoolPutVerify(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "spool.db")
	junk := writeFile(t, dir, "junk.rec", "not a record")

	stdout, _, err := runCLI(t, "spool", "put", junk, "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E006]")

	id := spoolPut(t, db, junk, "--verify=false")
	out := filepath.Join(dir, "junk.out")
	_, _, err = runCLI(t, "spool", "get", id, "--db", db, "-o", out)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "not a record", string(got))
}

func TestSpoolGetMissing(t *testing.T) {
	db := filepath.Join(t.TempDir(), "spool.db")

	stdout, _, err := runCLI(t, "spool", "get", "nope", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "no spool entry nope")
}

func TestSpoolRequiresDB(t *testing.T) {
	_, _, err := runCLI(t, "spool", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"db"`)
}
