package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and captures both streams.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out, diag := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(diag)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), diag.String(), err
}

// writeFile writes content under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lazyrec", cmd.Use)
	assert.Contains(t, cmd.Long, "keep their bytes")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"encode"},
		{"inspect"},
		{"spool"},
		{"spool", "put"},
		{"spool", "get"},
		{"spool", "list"},
		{"spool", "delete"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
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

	thresholdFlag := cmd.PersistentFlags().Lookup("compress-threshold")
	require.NotNil(t, thresholdFlag)
	assert.Equal(t, "0", thresholdFlag.DefValue)
}

func TestEncodeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	encodeCmd, _, err := cmd.Find([]string{"encode"})
	require.NoError(t, err)

	outputFlag := encodeCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	assert.NotNil(t, encodeCmd.Flags().Lookup("typed"))
	assert.NotNil(t, encodeCmd.Flags().Lookup("schema"))
}

func TestSpoolCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	spoolCmd, _, err := cmd.Find([]string{"spool"})
	require.NoError(t, err)

	dbFlag := spoolCmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db is required, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestInvalidGlobalFlags(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "in.json", `{"a": 1}`)
	out := filepath.Join(dir, "out.rec")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"--format", "xml", "encode", input, "-o", out}, "invalid format"},
		{"threshold", []string{"--compress-threshold", "-1", "encode", input, "-o", out}, "invalid compress threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.NoFileExists(t, out)
		})
	}
}
