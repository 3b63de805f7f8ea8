// Package wire provides the big-endian binary cursor used to decode a DODS
// payload: fixed-width numeric primitives and length-prefixed, zero-padded
// strings, read directly off a byte slice without copying it; only string
// payloads are copied, into the returned Go strings.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// ErrTruncatedInput is returned whenever fewer bytes remain than a read
// requires.
var ErrTruncatedInput = fmt.Errorf("wire: truncated input")

// ErrInvalidEncoding is returned when a string payload is not valid UTF-8.
var ErrInvalidEncoding = fmt.Errorf("wire: invalid UTF-8 encoding")

// Reader is a cursor over a byte slice, decoding DAP2's network-byte-order
// (big-endian) wire primitives. It never copies the backing slice.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential big-endian decoding starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current byte offset, for error context.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Bytes returns the unread tail of the buffer without advancing the cursor.
func (r *Reader) Bytes() []byte { return r.buf[r.pos:] }

func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, n, r.pos, r.Remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadByte reads one unsigned byte (DAP2's Byte kind).
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt16 reads a big-endian two's-complement 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// ReadUint16 reads a big-endian unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadInt32 reads a big-endian two's-complement 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// ReadUint32 reads a big-endian unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadFloat32 reads a big-endian IEEE-754 single-precision float.
func (r *Reader) ReadFloat32() (float32, error) {
	bits, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadFloat64 reads a big-endian IEEE-754 double-precision float.
func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// padLen returns the number of zero pad bytes needed to round n up to a
// multiple of 4, per DAP2's string- and Byte-array alignment rule.
func padLen(n int) int {
	return (4 - (n % 4)) % 4
}

// ReadPaddedString reads a big-endian uint32 length L, L bytes of payload,
// and the zero-to-three pad bytes that round the total to a 4-byte boundary.
// Fails with ErrTruncatedInput on any shortfall and ErrInvalidEncoding if
// the payload is not valid UTF-8.
func (r *Reader) ReadPaddedString() (string, error) {
	length, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	payload, err := r.take(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(payload) {
		return "", fmt.Errorf("%w: at offset %d", ErrInvalidEncoding, r.pos-len(payload))
	}
	if _, err := r.take(padLen(int(length))); err != nil {
		return "", err
	}
	return string(payload), nil
}

// SkipPad consumes the zero-to-three pad bytes needed to align n bytes
// already read to a 4-byte boundary, used after reading raw Byte payloads.
func (r *Reader) SkipPad(n int) error {
	_, err := r.take(padLen(n))
	return err
}
