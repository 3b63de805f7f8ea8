package dodsdecode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/go-dap2/dap2/internal/wire"
)

func u32(n uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return b
}

func f32(f float32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, math.Float32bits(f))
	return b
}

func TestDecodeMinimalArray(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Dataset { Int32 v[v = 1]; } d;\nData:\n")
	buf.Write(u32(1))
	buf.Write(u32(1))
	buf.Write(u32(42))

	result, err := Decode(buf.Bytes(), Config{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	v := result.Variables["v"]
	if v.Data.Len() != 1 {
		t.Fatalf("expected 1 element, got %d", v.Data.Len())
	}
	f, _ := v.Data.At(0).Float64()
	if f != 42 {
		t.Fatalf("got %v, want 42", f)
	}
}

func TestDecodeTruncatedAfterFirstLength(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Dataset { Int32 v[v = 1]; } d;\nData:\n")
	buf.Write(u32(1))
	_, err := Decode(buf.Bytes(), Config{})
	if !errors.Is(err, wire.ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}
}

func TestDecodeLengthMismatch(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Dataset { Int32 v[v = 1]; } d;\nData:\n")
	buf.Write(u32(1))
	buf.Write(u32(2)) // duplicated length disagrees
	buf.Write(u32(42))
	_, err := Decode(buf.Bytes(), Config{})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestDecodeSizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Dataset { Int32 v[v = 1]; } d;\nData:\n")
	buf.Write(u32(2))
	buf.Write(u32(2))
	buf.Write(u32(1))
	buf.Write(u32(2))
	_, err := Decode(buf.Bytes(), Config{})
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestDecodeMissingDataMarker(t *testing.T) {
	_, err := Decode([]byte("Dataset { Int32 v[1]; } d;"), Config{})
	if !errors.Is(err, ErrMissingDataMarker) {
		t.Fatalf("expected ErrMissingDataMarker, got %v", err)
	}
}

func TestDecodeGrid(t *testing.T) {
	prologue := `Dataset {
		Grid {
			ARRAY:
				Float32 t[time=2][lat=2];
			MAPS:
				Int32 time[time=2];
				Float32 lat[lat=2];
		} t;
	} ds;` + "\nData:\n"

	var buf bytes.Buffer
	buf.WriteString(prologue)
	// array: 4 float32
	buf.Write(u32(4))
	buf.Write(u32(4))
	buf.Write(f32(1))
	buf.Write(f32(2))
	buf.Write(f32(3))
	buf.Write(f32(4))
	// time map: 2 int32
	buf.Write(u32(2))
	buf.Write(u32(2))
	buf.Write(u32(10))
	buf.Write(u32(20))
	// lat map: 2 float32
	buf.Write(u32(2))
	buf.Write(u32(2))
	buf.Write(f32(-45))
	buf.Write(f32(45))

	result, err := Decode(buf.Bytes(), Config{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	tVar := result.Variables["t"]
	if tVar.Data.Len() != 4 {
		t.Fatalf("expected 4-element grid array, got %d", tVar.Data.Len())
	}
	timeCoord, ok := tVar.Coordinates["time"]
	if !ok || timeCoord.Data.Len() != 2 {
		t.Fatalf("expected time coordinate with 2 elements, got %+v", timeCoord)
	}
	latCoord, ok := tVar.Coordinates["lat"]
	if !ok || latCoord.Data.Len() != 2 {
		t.Fatalf("expected lat coordinate with 2 elements, got %+v", latCoord)
	}
}

func TestDecodeSequenceRows(t *testing.T) {
	prologue := `Dataset {
		Sequence {
			Int32 a[1];
		} s;
	} d;` + "\nData:\n"
	var buf bytes.Buffer
	buf.WriteString(prologue)
	buf.WriteByte(seqRowFollows)
	buf.Write(u32(1))
	buf.Write(u32(1))
	buf.Write(u32(7))
	buf.WriteByte(seqRowFollows)
	buf.Write(u32(1))
	buf.Write(u32(1))
	buf.Write(u32(8))
	buf.WriteByte(seqEnd)

	result, err := Decode(buf.Bytes(), Config{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s := result.Variables["s"]
	if len(s.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(s.Rows))
	}
	f, _ := s.Rows[0][0].Data.At(0).Float64()
	if f != 7 {
		t.Fatalf("row 0 got %v, want 7", f)
	}
}

func TestDecodeInvalidSequenceMarker(t *testing.T) {
	prologue := `Dataset { Sequence { Int32 a[1]; } s; } d;` + "\nData:\n"
	var buf bytes.Buffer
	buf.WriteString(prologue)
	buf.WriteByte(0x01)
	_, err := Decode(buf.Bytes(), Config{})
	if !errors.Is(err, ErrInvalidSequenceMarker) {
		t.Fatalf("expected ErrInvalidSequenceMarker, got %v", err)
	}
}

// paddedString encodes s the way ReadPaddedString expects to read it back:
// a big-endian uint32 length, the raw bytes, then zero-pad to a 4-byte
// boundary.
func paddedString(s string) []byte {
	var buf bytes.Buffer
	buf.Write(u32(uint32(len(s))))
	buf.WriteString(s)
	for i := 0; i < (4-len(s)%4)%4; i++ {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func TestDecodeStringArray(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Dataset { String names[names = 2]; } d;\nData:\n")
	buf.Write(u32(2))
	buf.Write(u32(2))
	buf.Write(paddedString("abc"))
	buf.Write(paddedString("de"))

	result, err := Decode(buf.Bytes(), Config{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	names := result.Variables["names"]
	if names.Data.Len() != 2 {
		t.Fatalf("expected 2 elements, got %d", names.Data.Len())
	}
	strs, err := names.Data.Strings()
	if err != nil {
		t.Fatalf("Strings: %v", err)
	}
	if strs[0] != "abc" || strs[1] != "de" {
		t.Fatalf("got %v, want [abc de]", strs)
	}
}

func TestDecodeURLArray(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Dataset { URL links[links = 1]; } d;\nData:\n")
	buf.Write(u32(1))
	buf.Write(u32(1))
	buf.Write(paddedString("http://example.com"))

	result, err := Decode(buf.Bytes(), Config{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	links := result.Variables["links"]
	strs, err := links.Data.Strings()
	if err != nil {
		t.Fatalf("Strings: %v", err)
	}
	if len(strs) != 1 || strs[0] != "http://example.com" {
		t.Fatalf("got %v, want [http://example.com]", strs)
	}
}

func TestDecodeTrailingGarbageStrictByDefault(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Dataset { Int32 v[v = 1]; } d;\nData:\n")
	buf.Write(u32(1))
	buf.Write(u32(1))
	buf.Write(u32(42))
	buf.WriteByte(0xFF)

	_, err := Decode(buf.Bytes(), Config{})
	if !errors.Is(err, ErrTrailingGarbage) {
		t.Fatalf("expected ErrTrailingGarbage, got %v", err)
	}
}

func TestDecodeTrailingGarbageLenient(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Dataset { Int32 v[v = 1]; } d;\nData:\n")
	buf.Write(u32(1))
	buf.Write(u32(1))
	buf.Write(u32(42))
	buf.WriteByte(0xFF)

	result, err := Decode(buf.Bytes(), Config{LenientTrailingGarbage: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.TrailingBytes != 1 {
		t.Fatalf("expected 1 trailing byte recorded, got %d", result.TrailingBytes)
	}
}
