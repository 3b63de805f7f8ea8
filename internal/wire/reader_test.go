package wire

import (
	"errors"
	"testing"
)

func TestReaderFixedWidth(t *testing.T) {
	r := NewReader([]byte{0x42, 0x01, 0x02, 0xFF, 0xFF, 0xFF, 0xFE})

	b, err := r.ReadByte()
	if err != nil || b != 0x42 {
		t.Fatalf("ReadByte: got (%v, %v)", b, err)
	}

	u16, err := r.ReadUint16()
	if err != nil || u16 != 0x0102 {
		t.Fatalf("ReadUint16: got (0x%04x, %v)", u16, err)
	}

	i32, err := r.ReadInt32()
	if err != nil || i32 != -2 {
		t.Fatalf("ReadInt32: got (%d, %v)", i32, err)
	}
}

func TestReaderFloats(t *testing.T) {
	// Float32 1.5 big-endian is 0x3FC00000.
	r := NewReader([]byte{0x3F, 0xC0, 0x00, 0x00})
	f, err := r.ReadFloat32()
	if err != nil || f != 1.5 {
		t.Fatalf("ReadFloat32: got (%v, %v)", f, err)
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01})
	if _, err := r.ReadInt32(); !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}
}

func TestReadPaddedString(t *testing.T) {
	// "abc" (3 bytes) padded with 1 zero byte to reach a 4-byte boundary.
	data := []byte{0x00, 0x00, 0x00, 0x03, 'a', 'b', 'c', 0x00}
	r := NewReader(data)
	s, err := r.ReadPaddedString()
	if err != nil {
		t.Fatalf("ReadPaddedString: %v", err)
	}
	if s != "abc" {
		t.Fatalf("expected %q, got %q", "abc", s)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected all bytes consumed, %d remain", r.Remaining())
	}
}

func TestReadPaddedStringExactMultipleOfFour(t *testing.T) {
	// "abcd" (4 bytes) needs zero pad bytes.
	data := []byte{0x00, 0x00, 0x00, 0x04, 'a', 'b', 'c', 'd'}
	r := NewReader(data)
	s, err := r.ReadPaddedString()
	if err != nil || s != "abcd" {
		t.Fatalf("got (%q, %v)", s, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected 0 remaining, got %d", r.Remaining())
	}
}

func TestReadPaddedStringTruncatedPayload(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x05, 'a', 'b'}
	r := NewReader(data)
	if _, err := r.ReadPaddedString(); !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}
}

func TestReadPaddedStringInvalidUTF8(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x01, 0xFF, 0x00, 0x00, 0x00}
	r := NewReader(data)
	if _, err := r.ReadPaddedString(); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}
