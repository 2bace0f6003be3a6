package record

import (
	"iter"

	"github.com/roach88/lazyrecord/internal/typesystem"
)

// LateralView overlays records. Reads walk from the top layer down and return
// the first non-null value; writes and removals go to the top layer only.
type LateralView[V any] struct {
	layers []Record[V] // bottom first
}

var (
	_ Record[any]              = (*LateralView[any])(nil)
	_ Record[typesystem.Value] = (*LateralView[typesystem.Value])(nil)
)

// NewLateralView stacks top over base.
func NewLateralView[V any](base, top Record[V]) *LateralView[V] {
	return &LateralView[V]{layers: []Record[V]{base, top}}
}

// Push adds r as the new top layer.
func (l *LateralView[V]) Push(r Record[V]) {
	l.layers = append(l.layers, r)
}

// Top returns the layer that receives writes.
func (l *LateralView[V]) Top() Record[V] {
	return l.layers[len(l.layers)-1]
}

// Layers returns the number of stacked records.
func (l *LateralView[V]) Layers() int { return len(l.layers) }

// topDown iterates over the layers from the top.
func (l *LateralView[V]) topDown() iter.Seq[Record[V]] {
	return func(yield func(Record[V]) bool) {
		for i := len(l.layers) - 1; i >= 0; i-- {
			if !yield(l.layers[i]) {
				return
			}
		}
	}
}

func isNull[V any](v V) bool {
	switch x := any(v).(type) {
	case nil:
		return true
	case typesystem.Value:
		return x.IsNull()
	default:
		return false
	}
}

func (l *LateralView[V]) Get(field string) V {
	for r := range l.topDown() {
		if v := r.Get(field); !isNull(v) {
			return v
		}
	}
	return l.Top().Get(field)
}

func (l *LateralView[V]) TypedGet(field string) typesystem.Value {
	for r := range l.topDown() {
		if v := r.TypedGet(field); !v.IsNull() {
			return v
		}
	}
	return typesystem.NullValue
}

func (l *LateralView[V]) Set(field string, v V) error { return l.Top().Set(field, v) }
func (l *LateralView[V]) Remove(field string) bool    { return l.Top().Remove(field) }
func (l *LateralView[V]) GetAndRemove(field string) V { return l.Top().GetAndRemove(field) }

func (l *LateralView[V]) HasField(field string) bool {
	for r := range l.topDown() {
		if r.HasField(field) {
			return true
		}
	}
	return false
}

// FieldCount sums the field counts of every layer. Fields present in more
// than one layer are counted once per layer.
func (l *LateralView[V]) FieldCount() int {
	n := 0
	for _, r := range l.layers {
		n += r.FieldCount()
	}
	return n
}

// All yields each field once, top layer fields first, with the value Get
// would return. The fields are captured when All is called.
func (l *LateralView[V]) All() iter.Seq2[string, V] {
	type entry struct {
		name  string
		value V
	}

	var entries []entry
	seen := map[string]struct{}{}
	for r := range l.topDown() {
		for name := range r.All() {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			entries = append(entries, entry{name: name, value: l.Get(name)})
		}
	}

	return func(yield func(string, V) bool) {
		for _, e := range entries {
			if !yield(e.name, e.value) {
				return
			}
		}
	}
}

// Copy copies every layer.
func (l *LateralView[V]) Copy() Record[V] {
	layers := make([]Record[V], len(l.layers))
	for i, r := range l.layers {
		layers[i] = r.Copy()
	}
	return &LateralView[V]{layers: layers}
}

// Equal reports whether other is a lateral view with equal layers.
func (l *LateralView[V]) Equal(other Record[V]) bool {
	o, ok := other.(*LateralView[V])
	if !ok || o == nil || len(o.layers) != len(l.layers) {
		return false
	}
	for i := range l.layers {
		if !l.layers[i].Equal(o.layers[i]) {
			return false
		}
	}
	return true
}

func (l *LateralView[V]) Hash() uint64 {
	var h uint64
	for _, r := range l.layers {
		h = h*31 + r.Hash()
	}
	return h
}

// ForceRead reads every layer, reporting whether all succeeded.
func (l *LateralView[V]) ForceRead() bool {
	ok := true
	for _, r := range l.layers {
		if !r.ForceRead() {
			ok = false
		}
	}
	return ok
}

func (l *LateralView[V]) MarshalBinary() ([]byte, error) { return nil, ErrNotSerializable }
func (l *LateralView[V]) UnmarshalBinary([]byte) error   { return ErrNotSerializable }
