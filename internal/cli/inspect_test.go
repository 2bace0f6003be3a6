package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeFixture encodes content to a blob file and returns its path.
func encodeFixture(t *testing.T, dir, content string, extra ...string) string {
	t.Helper()
	input := writeFile(t, dir, "fixture.json", content)
	out := filepath.Join(dir, "fixture.rec")
	args := append([]string{"encode", input, "-o", out}, extra...)
	_, _, err := runCLI(t, args...)
	require.NoError(t, err)
	return out
}

func TestInspectJSON(t *testing.T) {
	dir := t.TempDir()
	blob := encodeFixture(t, dir, `{"id": 7, "tags": ["a", null]}`)

	stdout, _, err := runCLI(t, "--format", "json", "inspect", blob)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   RecordView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "untyped", resp.Data.Kind)
	require.Len(t, resp.Data.Fields, 2)
	assert.Equal(t, "id", resp.Data.Fields[0].Name)
	assert.Equal(t, "LONG", resp.Data.Fields[0].Type)
	assert.Equal(t, "tags", resp.Data.Fields[1].Name)
	assert.Equal(t, "STRING_LIST", resp.Data.Fields[1].Type)
	assert.Len(t, resp.Data.Hash, 16)
	assert.Empty(t, resp.Data.Mismatches)
}

func TestInspectSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	blob := encodeFixture(t, dir, `{"id": "abc", "name": "x"}`)
	schemaPath := writeFile(t, dir, "events.yaml", eventSchema)

	stdout, _, err := runCLI(t, "inspect", blob, "--schema", schemaPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ Schema mismatches:")
	assert.Contains(t, stdout, "id: declared LONG, got STRING")
	assert.NotContains(t, stdout, "name: declared")
}

func TestInspectCUESchema(t *testing.T) {
	dir := t.TempDir()
	blob := encodeFixture(t, dir, `{"id": 3}`)
	schemaPath := writeFile(t, dir, "events.cue", "fields: {\n\tid: \"LONG\"\n}\n")

	stdout, _, err := runCLI(t, "inspect", blob, "--schema", schemaPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "id = 3::LONG")
}

func TestInspectCorruptBlob(t *testing.T) {
	dir := t.TempDir()
	blob := encodeFixture(t, dir, `{"id": 7}`)

	data, err := os.ReadFile(blob)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(blob, data, 0644))

	stdout, stderr, err := runCLI(t, "inspect", blob)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E006]")
	assert.Contains(t, stderr, "unable to read record payload")
}

func TestInspectTypedMismatchedKind(t *testing.T) {
	dir := t.TempDir()
	blob := encodeFixture(t, dir, `{"id": 7}`, "--typed")

	// A typed blob read as untyped does not decode.
	_, _, err := runCLI(t, "inspect", blob)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	stdout, _, err := runCLI(t, "inspect", blob, "--typed")
	require.NoError(t, err)
	assert.Contains(t, stdout, "id = 7::LONG")
}

func TestInspectMissingFile(t *testing.T) {
	stdout, _, err := runCLI(t, "inspect", filepath.Join(t.TempDir(), "nope.rec"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E002]")
}
