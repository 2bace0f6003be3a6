package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lazyrecord/internal/record"
	"github.com/roach88/lazyrecord/internal/spool"
)

// SpoolOptions holds flags shared by the spool subcommands.
type SpoolOptions struct {
	*RootOptions
	DBPath string
}

// NewSpoolCommand creates the spool command group.
func NewSpoolCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SpoolOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "spool",
		Short: "Store and retrieve record blobs in a SQLite spool",
		Long: `Store and retrieve record blobs in a SQLite spool.

Blobs are stored exactly as given, so a record fetched back from the
spool has the same bytes it was put with.`,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to SQLite database")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newSpoolPutCommand(opts))
	cmd.AddCommand(newSpoolGetCommand(opts))
	cmd.AddCommand(newSpoolListCommand(opts))
	cmd.AddCommand(newSpoolDeleteCommand(opts))

	return cmd
}

// openSpool opens the database named by --db.
func (o *SpoolOptions) openSpool(formatter *OutputFormatter) (*spool.Spool, error) {
	s, err := spool.Open(o.DBPath, spool.WithLogger(formatter.Logger()))
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeSpool, fmt.Sprintf("opening spool: %v", err), nil)
	}
	formatter.VerboseLog("Opened spool %s", o.DBPath)
	return s, nil
}

func newSpoolPutCommand(opts *SpoolOptions) *cobra.Command {
	var (
		typed  bool
		verify bool
	)

	cmd := &cobra.Command{
		Use:           "put <blob-file>",
		Short:         "Add a record blob to the spool",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpoolPut(cmd.Context(), opts, args[0], typed, verify, cmd)
		},
	}

	cmd.Flags().BoolVar(&typed, "typed", false, "blob holds a typed record")
	cmd.Flags().BoolVar(&verify, "verify", true, "reject blobs that do not decode")

	return cmd
}

// PutResult describes a stored entry.
type PutResult struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Bytes int    `json:"bytes"`
}

func runSpoolPut(ctx context.Context, opts *SpoolOptions, blobPath string, typed, verify bool, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	data, err := os.ReadFile(blobPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	kind := spool.KindUntyped
	if typed {
		kind = spool.KindTyped
	}

	if verify && !readable(data, typed, opts.recordOptions(formatter)) {
		return formatter.Fail(ExitFailure, ErrCodeUnreadable, fmt.Sprintf("%s does not hold a readable %s record", blobPath, kind), nil)
	}

	s, err := opts.openSpool(formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.Put(ctx, kind, data)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSpool, err.Error(), nil)
	}

	result := PutResult{ID: id, Kind: string(kind), Bytes: len(data)}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Spooled %s record (%d byte(s)) as %s\n", result.Kind, result.Bytes, result.ID)
	return nil
}

// readable reports whether data decodes as the given record variant.
func readable(data []byte, typed bool, recOpts []record.Option) bool {
	if typed {
		return record.TypedFromBytes(data, recOpts...).ForceRead()
	}
	return record.UntypedFromBytes(data, recOpts...).ForceRead()
}

func newSpoolGetCommand(opts *SpoolOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a record from the spool",
		Long: `Fetch a record from the spool.

With --output the stored blob is written verbatim to a file. Otherwise
the record is decoded according to its stored kind and printed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpoolGet(cmd.Context(), opts, args[0], output, cmd)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the raw blob to this file")

	return cmd
}

func runSpoolGet(ctx context.Context, opts *SpoolOptions, id, output string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := opts.openSpool(formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	e, err := s.Get(ctx, id)
	if errors.Is(err, spool.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no spool entry %s", id), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSpool, err.Error(), nil)
	}

	if output != "" {
		if err := os.WriteFile(output, e.Blob, 0644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		if formatter.Format == "json" {
			return formatter.Success(PutResult{ID: e.ID, Kind: string(e.Kind), Bytes: len(e.Blob)})
		}
		fmt.Fprintf(formatter.Writer, "✓ Wrote %d byte(s) to %s\n", len(e.Blob), output)
		return nil
	}

	return inspectBlob(formatter, e.Blob, e.Kind == spool.KindTyped, nil, opts.recordOptions(formatter))
}

// EntrySummary is one row of spool list output.
type EntrySummary struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Bytes     int    `json:"bytes"`
	CreatedAt string `json:"created_at"`
}

func newSpoolListCommand(opts *SpoolOptions) *cobra.Command {
	var (
		kind  string
		limit int
	)

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List spooled records in creation order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpoolList(cmd.Context(), opts, spool.ListOptions{Kind: spool.Kind(kind), Limit: limit}, cmd)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only list this kind (untyped|typed)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries (0 for all)")

	return cmd
}

func runSpoolList(ctx context.Context, opts *SpoolOptions, listOpts spool.ListOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := opts.openSpool(formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.List(ctx, listOpts)
	if errors.Is(err, spool.ErrInvalidKind) {
		return formatter.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSpool, err.Error(), nil)
	}

	summaries := make([]EntrySummary, len(entries))
	for i, e := range entries {
		summaries[i] = EntrySummary{
			ID:        e.ID,
			Kind:      string(e.Kind),
			Bytes:     len(e.Blob),
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "Spool is empty")
		return nil
	}
	for _, e := range summaries {
		fmt.Fprintf(formatter.Writer, "%s  %-7s  %6d  %s\n", e.ID, e.Kind, e.Bytes, e.CreatedAt)
	}
	return nil
}

func newSpoolDeleteCommand(opts *SpoolOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Aliases:       []string{"rm"},
		Short:         "Remove a record from the spool",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)

			s, err := opts.openSpool(formatter)
			if err != nil {
				return err
			}
			defer s.Close()

			id := args[0]
			if err := s.Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, spool.ErrNotFound) {
					return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no spool entry %s", id), nil)
				}
				return formatter.Fail(ExitCommandError, ErrCodeSpool, err.Error(), nil)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]string{"deleted": id})
			}
			fmt.Fprintf(formatter.Writer, "✓ Deleted %s\n", id)
			return nil
		},
	}
}
