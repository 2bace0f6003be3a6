// Package codec implements the binary wire format for ordered field lists.
//
// A frame is a one byte format tag, a CRC32 (IEEE, little-endian) of the
// stored body and the body itself:
//
//	[tag(1)][crc32(4)][body]
//
// Tag 0x01 stores the body as-is; tag 0x02 stores it zstd-compressed. The
// body is a uvarint field count followed by, per field, a uvarint-prefixed
// name and a tagged value. Integers are zigzag varints, floats are IEEE bits
// in little-endian order, and map keys are written in sorted order so that
// equal inputs always produce equal bytes.
//
// Decoding never panics. Truncated, corrupted or otherwise malformed input is
// reported as a *DecodeError matching ErrMalformed.
package codec
