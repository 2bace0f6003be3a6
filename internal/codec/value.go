package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/roach88/lazyrecord/internal/typesystem"
)

// Value tags.
const (
	tagNull byte = iota
	tagFalse
	tagTrue
	tagInt32
	tagInt64
	tagFloat32
	tagFloat64
	tagString
	tagList
	tagMap
)

// maxDepth bounds container nesting on decode.
const maxDepth = 64

type writer struct {
	buf []byte

	// canonical folds -0 into +0 so that values which compare equal encode
	// identically.
	canonical bool
}

func (w *writer) uvarint(u uint64) { w.buf = binary.AppendUvarint(w.buf, u) }
func (w *writer) varint(i int64)   { w.buf = binary.AppendVarint(w.buf, i) }

// string writes a length-prefixed string. Invalid UTF-8 is refused because
// the reader rejects it.
func (w *writer) string(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid utf-8 string %q", typesystem.ErrUnsupportedValue, s)
	}
	w.uvarint(uint64(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

func (w *writer) value(v any) error {
	switch val := v.(type) {
	case nil:
		w.buf = append(w.buf, tagNull)
	case bool:
		if val {
			w.buf = append(w.buf, tagTrue)
		} else {
			w.buf = append(w.buf, tagFalse)
		}
	case int32:
		w.buf = append(w.buf, tagInt32)
		w.varint(int64(val))
	case int64:
		w.buf = append(w.buf, tagInt64)
		w.varint(val)
	case float32:
		if w.canonical && val == 0 {
			val = 0
		}
		w.buf = append(w.buf, tagFloat32)
		w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(val))
	case float64:
		if w.canonical && val == 0 {
			val = 0
		}
		w.buf = append(w.buf, tagFloat64)
		w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(val))
	case string:
		w.buf = append(w.buf, tagString)
		return w.string(val)
	case []any:
		w.buf = append(w.buf, tagList)
		w.uvarint(uint64(len(val)))
		for i, e := range val {
			if err := w.value(e); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
	case map[string]any:
		w.buf = append(w.buf, tagMap)
		w.uvarint(uint64(len(val)))
		for _, k := range typesystem.SortedKeys(val) {
			if err := w.string(k); err != nil {
				return fmt.Errorf("key: %w", err)
			}
			if err := w.value(val[k]); err != nil {
				return fmt.Errorf("[%q]: %w", k, err)
			}
		}
	default:
		n, err := typesystem.Normalize(v)
		if err != nil {
			return err
		}
		return w.value(n)
	}
	return nil
}

type reader struct {
	buf  []byte
	pos  int
	base int // offset of buf within the frame, for error reporting
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) fail(reason string) error {
	return &DecodeError{Offset: r.base + r.pos, Reason: reason}
}

func (r *reader) byte() (byte, error) {
	if r.remaining() < 1 {
		return 0, r.fail("unexpected end of body")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) uvarint() (uint64, error) {
	u, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, r.fail("bad uvarint")
	}
	r.pos += n
	return u, nil
}

func (r *reader) varint() (int64, error) {
	i, n := binary.Varint(r.buf[r.pos:])
	if n <= 0 {
		return 0, r.fail("bad varint")
	}
	r.pos += n
	return i, nil
}

// length reads a count or byte length and checks it against the bytes left,
// since every element occupies at least one byte.
func (r *reader) length() (int, error) {
	u, err := r.uvarint()
	if err != nil {
		return 0, err
	}
	if u > uint64(r.remaining()) {
		return 0, r.fail(fmt.Sprintf("length %d exceeds remaining %d bytes", u, r.remaining()))
	}
	return int(u), nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, r.fail("unexpected end of body")
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) string() (string, error) {
	n, err := r.length()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", r.fail("invalid utf-8 string")
	}
	return string(b), nil
}

func (r *reader) value(depth int) (any, error) {
	if depth > maxDepth {
		return nil, r.fail("nesting too deep")
	}

	tag, err := r.byte()
	if err != nil {
		return nil, err
	}

	switch tag {
	case tagNull:
		return nil, nil
	case tagFalse:
		return false, nil
	case tagTrue:
		return true, nil
	case tagInt32:
		i, err := r.varint()
		if err != nil {
			return nil, err
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, r.fail("int32 out of range")
		}
		return int32(i), nil
	case tagInt64:
		return r.varint()
	case tagFloat32:
		b, err := r.bytes(4)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case tagFloat64:
		b, err := r.bytes(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	case tagString:
		return r.string()
	case tagList:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		list := make([]any, n)
		for i := range list {
			if list[i], err = r.value(depth + 1); err != nil {
				return nil, err
			}
		}
		return list, nil
	case tagMap:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, n)
		for i := 0; i < n; i++ {
			k, err := r.string()
			if err != nil {
				return nil, err
			}
			if _, dup := m[k]; dup {
				return nil, r.fail(fmt.Sprintf("duplicate map key %q", k))
			}
			if m[k], err = r.value(depth + 1); err != nil {
				return nil, err
			}
		}
		return m, nil
	default:
		return nil, r.fail(fmt.Sprintf("unknown value tag 0x%02x", tag))
	}
}
