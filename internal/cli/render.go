package cli

import (
	"fmt"
	"io"

	"github.com/roach88/lazyrecord/internal/record"
	"github.com/roach88/lazyrecord/internal/schema"
	"github.com/roach88/lazyrecord/internal/typesystem"
)

// FieldView is the printable form of one record field.
type FieldView struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`

	typed typesystem.Value
}

// RecordView is the printable form of a record.
type RecordView struct {
	Kind       string      `json:"kind"`
	Fields     []FieldView `json:"fields"`
	Bytes      int         `json:"bytes"`
	Hash       string      `json:"hash"`
	Mismatches []string    `json:"mismatches,omitempty"`
}

// viewOf snapshots r. Values are shown with the type TypedGet reports.
func viewOf[V any](kind string, r record.Record[V], size int) RecordView {
	view := RecordView{
		Kind:   kind,
		Fields: []FieldView{},
		Bytes:  size,
		Hash:   fmt.Sprintf("%016x", r.Hash()),
	}
	for name := range r.All() {
		v := r.TypedGet(name)
		view.Fields = append(view.Fields, FieldView{
			Name:  name,
			Type:  v.Type().String(),
			Value: v.Raw(),
			typed: v,
		})
	}
	return view
}

// checkSchema records the schema mismatches of r in view.
func checkSchema[V any](view *RecordView, s *schema.Schema, r record.Record[V]) {
	if s == nil {
		return
	}
	for _, m := range schema.Validate(s, r) {
		view.Mismatches = append(view.Mismatches, m.String())
	}
}

// writeText prints view in the human-readable layout.
func (view RecordView) writeText(w io.Writer) {
	fmt.Fprintf(w, "%s record, %d field(s), %d byte(s), hash %s\n",
		view.Kind, len(view.Fields), view.Bytes, view.Hash)
	for _, f := range view.Fields {
		fmt.Fprintf(w, "  %s = %s\n", f.Name, f.typed)
	}
	if len(view.Mismatches) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "✗ Schema mismatches:")
		for _, m := range view.Mismatches {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
}

// outputRecord prints view and turns schema mismatches into ExitFailure.
func outputRecord(formatter *OutputFormatter, view RecordView) error {
	if formatter.Format == "json" {
		if err := formatter.Success(view); err != nil {
			return err
		}
	} else {
		view.writeText(formatter.Writer)
	}

	if n := len(view.Mismatches); n > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("record has %d schema mismatch(es)", n))
	}
	return nil
}
