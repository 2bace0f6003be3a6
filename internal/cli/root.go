package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/lazyrecord/internal/codec"
	"github.com/roach88/lazyrecord/internal/record"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose           bool
	Format            string // "json" | "text"
	CompressThreshold int    // zstd threshold in bytes for encoded bodies; 0 disables
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the lazyrec CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lazyrec",
		Short: "lazyrec - lazily decoded records",
		Long: `Build, inspect and spool serialized records.

Records are ordered field mappings that stay in their encoded form until
a field is read, so records passed through untouched keep their bytes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.CompressThreshold < 0 {
				return fmt.Errorf("invalid compress threshold %d: must not be negative", opts.CompressThreshold)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().IntVar(&opts.CompressThreshold, "compress-threshold", 0,
		"compress record bodies larger than this many bytes (0 disables)")

	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewSpoolCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds the OutputFormatter for a running command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// recordOptions configures records with the codec selected by the global
// flags and a logger on the formatter's diagnostic writer.
func (o *RootOptions) recordOptions(f *OutputFormatter) []record.Option {
	return []record.Option{
		record.WithCodec(codec.New(codec.WithCompressionThreshold(o.CompressThreshold))),
		record.WithLogger(f.Logger()),
	}
}
