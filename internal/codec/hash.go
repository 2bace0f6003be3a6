package codec

import (
	"github.com/cespare/xxhash/v2"
)

// Canonical encodes a single value deterministically: map keys are sorted and
// negative zero is folded into zero. Values that are deeply equal (see
// typesystem.RawEqual) produce identical bytes.
func Canonical(v any) ([]byte, error) {
	w := &writer{canonical: true}
	if err := w.value(v); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// Fingerprint hashes a named value with xxhash.
func Fingerprint(name string, v any) (uint64, error) {
	b, err := Canonical(v)
	if err != nil {
		return 0, err
	}

	d := xxhash.New()
	w := &writer{}
	w.uvarint(uint64(len(name)))
	_, _ = d.Write(w.buf)
	_, _ = d.WriteString(name)
	_, _ = d.Write(b)
	return d.Sum64(), nil
}
