package cli

import (
	"encoding"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lazyrecord/internal/record"
	"github.com/roach88/lazyrecord/internal/schema"
	"github.com/roach88/lazyrecord/internal/spool"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	Output string // output blob path
	Typed  bool
	Schema string // optional schema file (.yaml, .yml or .cue)
}

// EncodeResult describes a written blob.
type EncodeResult struct {
	Output string `json:"output"`
	Kind   string `json:"kind"`
	Fields int    `json:"fields"`
	Bytes  int    `json:"bytes"`
	Hash   string `json:"hash"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode <input-file>",
		Short: "Encode a JSON or YAML object as a record blob",
		Long: `Encode a JSON or YAML object as a serialized record.

Top-level keys become record fields in document order. With --typed the
record also carries a type per field: the schema's declared type when
--schema names the field, the inferred type otherwise. Without --typed a
schema is only checked, never applied.

Example:
  lazyrec encode event.json --typed --schema events.yaml -o event.rec`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output blob path")
	cmd.Flags().BoolVar(&opts.Typed, "typed", false, "encode a typed record")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "schema file (.yaml, .yml or .cue)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runEncode(opts *EncodeOptions, inputPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	fields, err := loadDocument(inputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
	}
	formatter.VerboseLog("Read %d field(s) from %s", len(fields), inputPath)

	s, err := loadSchema(formatter, opts.Schema)
	if err != nil {
		return err
	}

	recOpts := opts.recordOptions(formatter)
	var (
		rec  encoding.BinaryMarshaler
		kind spool.Kind
		hash uint64
	)
	if opts.Typed {
		r, err := buildTyped(fields, s, recOpts)
		if err != nil {
			return failBuild(formatter, err)
		}
		rec, kind, hash = r, spool.KindTyped, r.Hash()
	} else {
		r, err := buildUntyped(fields, recOpts)
		if err != nil {
			return failBuild(formatter, err)
		}
		if s != nil {
			if mismatches := schema.Validate[any](s, r); len(mismatches) > 0 {
				details := make([]string, len(mismatches))
				for i, m := range mismatches {
					details[i] = m.String()
				}
				return formatter.Fail(ExitFailure, ErrCodeMismatch,
					fmt.Sprintf("record has %d schema mismatch(es)", len(mismatches)), details)
			}
		}
		rec, kind, hash = r, spool.KindUntyped, r.Hash()
	}

	blob, err := rec.MarshalBinary()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidValue, err.Error(), nil)
	}
	if err := os.WriteFile(opts.Output, blob, 0644); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
	}

	result := EncodeResult{
		Output: opts.Output,
		Kind:   string(kind),
		Fields: len(fields),
		Bytes:  len(blob),
		Hash:   fmt.Sprintf("%016x", hash),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Encoded %s record with %d field(s), %d byte(s) to %s\n",
		result.Kind, result.Fields, result.Bytes, result.Output)
	return nil
}

// failBuild reports an error raised while populating a record.
func failBuild(formatter *OutputFormatter, err error) error {
	if errors.Is(err, errInvalidValue) || errors.Is(err, record.ErrEmptyField) {
		return formatter.Fail(ExitFailure, ErrCodeInvalidValue, err.Error(), nil)
	}
	return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

// loadSchema loads the schema at path, or returns nil when path is empty.
func loadSchema(formatter *OutputFormatter, path string) (*schema.Schema, error) {
	if path == "" {
		return nil, nil
	}
	s, err := schema.LoadFile(path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeSchema, err.Error(), nil)
	}
	formatter.VerboseLog("Loaded schema with %d field(s) from %s", s.Len(), path)
	return s, nil
}
