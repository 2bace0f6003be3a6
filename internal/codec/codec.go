package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Frame format tags.
const (
	FormatRaw  byte = 0x01
	FormatZstd byte = 0x02
)

// headerSize is the tag byte plus the CRC32.
const headerSize = 5

// Field is a named raw value. Values use the raw representation of the
// typesystem package; other Go values are normalized before encoding.
type Field struct {
	Name  string
	Value any
}

// Codec converts ordered field lists to and from bytes.
type Codec interface {
	Encode(fields []Field) ([]byte, error)
	Decode(data []byte) ([]Field, error)
}

// Binary is the default Codec. It is stateless and safe for concurrent use.
type Binary struct {
	compressThreshold int
}

// Option configures a Binary codec.
type Option func(*Binary)

// WithCompressionThreshold compresses bodies larger than n bytes with zstd.
// A value of zero or less disables compression (the default).
func WithCompressionThreshold(n int) Option {
	return func(b *Binary) {
		b.compressThreshold = n
	}
}

// New creates a Binary codec.
func New(opts ...Option) *Binary {
	b := &Binary{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Default is the uncompressed codec used when none is configured.
var Default Codec = New()

var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1),
		)
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxDecodedBody),
		)
	})
)

// maxDecodedBody bounds the size of a decompressed body.
const maxDecodedBody = 256 << 20

// Encode serializes fields in order. Field names must be unique.
func (b *Binary) Encode(fields []Field) ([]byte, error) {
	seen := make(map[string]struct{}, len(fields))
	w := &writer{buf: make([]byte, 0, 64)}
	w.uvarint(uint64(len(fields)))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("encode: duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}

		if err := w.string(f.Name); err != nil {
			return nil, fmt.Errorf("encode field name: %w", err)
		}
		if err := w.value(f.Value); err != nil {
			return nil, fmt.Errorf("encode field %q: %w", f.Name, err)
		}
	}

	body, format := w.buf, FormatRaw
	if b.compressThreshold > 0 && len(body) > b.compressThreshold {
		enc, err := zstdEncoder()
		if err != nil {
			return nil, fmt.Errorf("encode: zstd: %w", err)
		}
		body, format = enc.EncodeAll(body, nil), FormatZstd
	}

	frame := make([]byte, headerSize, headerSize+len(body))
	frame[0] = format
	binary.LittleEndian.PutUint32(frame[1:], crc32.ChecksumIEEE(body))
	return append(frame, body...), nil
}

// Decode parses a frame produced by Encode.
func (b *Binary) Decode(data []byte) ([]Field, error) {
	if len(data) < headerSize {
		return nil, &DecodeError{Offset: 0, Reason: "frame shorter than header"}
	}

	format := data[0]
	stored := data[headerSize:]
	if got, want := crc32.ChecksumIEEE(stored), binary.LittleEndian.Uint32(data[1:]); got != want {
		return nil, &DecodeError{Offset: 1, Reason: fmt.Sprintf("checksum mismatch: %08x != %08x", got, want)}
	}

	var body []byte
	switch format {
	case FormatRaw:
		body = stored
	case FormatZstd:
		dec, err := zstdDecoder()
		if err != nil {
			return nil, &DecodeError{Offset: headerSize, Reason: "zstd unavailable", Err: err}
		}
		body, err = dec.DecodeAll(stored, nil)
		if err != nil {
			return nil, &DecodeError{Offset: headerSize, Reason: "zstd body", Err: err}
		}
	default:
		return nil, &DecodeError{Offset: 0, Reason: fmt.Sprintf("unknown format tag 0x%02x", format)}
	}

	r := &reader{buf: body, base: headerSize}
	count, err := r.length()
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, count)
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		name, err := r.string()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, r.fail(fmt.Sprintf("duplicate field %q", name))
		}
		seen[name] = struct{}{}

		v, err := r.value(0)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Value: v})
	}
	if r.remaining() != 0 {
		return nil, r.fail(fmt.Sprintf("%d trailing bytes", r.remaining()))
	}
	return fields, nil
}
