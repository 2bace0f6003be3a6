package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lazyrecord/internal/record"
	"github.com/roach88/lazyrecord/internal/schema"
	"github.com/roach88/lazyrecord/internal/typesystem"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Typed  bool
	Schema string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <blob-file>",
		Short: "Decode a record blob and print its fields",
		Long: `Decode a serialized record and print its fields with their types.

Untyped records show inferred types. Typed records (--typed) show the
types stored with the record. With --schema the record is also checked
against the declared field types and mismatches exit with status 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Typed, "typed", false, "decode as a typed record")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "schema file to check against (.yaml, .yml or .cue)")

	return cmd
}

func runInspect(opts *InspectOptions, blobPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	data, err := os.ReadFile(blobPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	formatter.VerboseLog("Read %d byte(s) from %s", len(data), blobPath)

	s, err := loadSchema(formatter, opts.Schema)
	if err != nil {
		return err
	}

	return inspectBlob(formatter, data, opts.Typed, s, opts.recordOptions(formatter))
}

// inspectBlob decodes data as the requested variant and prints it.
func inspectBlob(formatter *OutputFormatter, data []byte, typed bool, s *schema.Schema, recOpts []record.Option) error {
	if typed {
		return showRecord[typesystem.Value](formatter, "typed", record.TypedFromBytes(data, recOpts...), len(data), s)
	}
	return showRecord[any](formatter, "untyped", record.UntypedFromBytes(data, recOpts...), len(data), s)
}

func showRecord[V any](formatter *OutputFormatter, kind string, r record.Record[V], size int, s *schema.Schema) error {
	if !r.ForceRead() {
		return formatter.Fail(ExitFailure, ErrCodeUnreadable, "record payload is unreadable", nil)
	}
	view := viewOf(kind, r, size)
	checkSchema(&view, s, r)
	return outputRecord(formatter, view)
}
