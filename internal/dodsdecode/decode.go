// Package dodsdecode implements the DODS binary decoder: it splits a DODS
// byte stream into its textual DDS prologue and binary payload, reparses
// the prologue with ddsparse to get the response schema (which may be a
// projection or hyperslab of the full dataset), and walks that schema
// against the payload with internal/wire to materialize typed arrays.
//
// State machine per declaration:
//
//	[await_length] --u32--> [await_length_check] --u32--> [read_payload] --> [read_padding] --> [done]
//	any short read -> TruncatedInput; L != L' -> LengthMismatch; L != product(dims) -> SizeMismatch
package dodsdecode

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-dap2/dap2/internal/ddsparse"
	"github.com/go-dap2/dap2/internal/value"
	"github.com/go-dap2/dap2/internal/wire"
)

// Error taxonomy for the DODS decoder.
var (
	ErrMissingDataMarker     = errors.New("dodsdecode: missing Data: marker")
	ErrLengthMismatch        = errors.New("dodsdecode: duplicated array length fields disagree")
	ErrSizeMismatch          = errors.New("dodsdecode: array length does not match declared dimensions")
	ErrInvalidSequenceMarker = errors.New("dodsdecode: invalid sequence row marker")
	ErrTrailingGarbage       = errors.New("dodsdecode: trailing bytes after payload")
)

var dataMarker = []byte("\nData:\n")

const (
	seqRowFollows byte = 0x5A
	seqEnd        byte = 0xA5
)

// Config controls the decoder's one configurable failure behavior.
type Config struct {
	// LenientTrailingGarbage turns ErrTrailingGarbage into a non-fatal
	// condition reported via Result.TrailingBytes instead. Default (zero
	// value) is fatal, matching DuplicateAttribute's strict default.
	LenientTrailingGarbage bool
}

// Decoded is one decoded declaration, recursively shaped like the DDS tree
// it was decoded against.
type Decoded struct {
	Name string
	Kind ddsparse.DeclKind

	// Array/Grid only (for a Grid, the inner array's values).
	DataKind value.Kind
	Dims     []ddsparse.Dimension
	Data     value.Array

	// Grid only: Coordinates maps each MAPS name to its decoded Array.
	Coordinates map[string]*Decoded

	// Structure only, same order as the schema's Fields.
	Fields []*Decoded

	// Sequence only: one entry per "row follows" marker, each a decode of
	// Fields for that row.
	Rows [][]*Decoded
}

// Result is the full output of decoding one DODS byte stream.
type Result struct {
	Schema *ddsparse.Dataset
	// Variables holds one Decoded per top-level declaration, keyed by name.
	Variables map[string]*Decoded
	// Order preserves the prologue's declared order for deterministic iteration.
	Order []string
	// TrailingBytes is nonzero only when LenientTrailingGarbage discarded
	// unconsumed bytes after a well-formed decode.
	TrailingBytes int
}

// Decode splits buf into a DDS prologue and binary payload, parses the
// prologue, and decodes the payload against it.
func Decode(buf []byte, cfg Config) (*Result, error) {
	idx := bytes.Index(buf, dataMarker)
	if idx < 0 {
		return nil, ErrMissingDataMarker
	}
	prologue := string(buf[:idx])
	payload := buf[idx+len(dataMarker):]

	schema, err := ddsparse.Parse(prologue)
	if err != nil {
		return nil, fmt.Errorf("dodsdecode: parsing DDS prologue: %w", err)
	}

	r := wire.NewReader(payload)
	result := &Result{Schema: schema, Variables: map[string]*Decoded{}}
	for _, decl := range schema.Decls {
		decoded, err := decodeDecl(r, decl)
		if err != nil {
			return nil, fmt.Errorf("dodsdecode: decoding %q: %w", decl.Name, err)
		}
		result.Variables[decl.Name] = decoded
		result.Order = append(result.Order, decl.Name)
	}

	if r.Remaining() > 0 {
		if !cfg.LenientTrailingGarbage {
			return nil, fmt.Errorf("%w: %d unconsumed bytes", ErrTrailingGarbage, r.Remaining())
		}
		result.TrailingBytes = r.Remaining()
	}

	return result, nil
}

func decodeDecl(r *wire.Reader, decl *ddsparse.Decl) (*Decoded, error) {
	switch decl.Kind {
	case ddsparse.DeclArray:
		return decodeArray(r, decl)
	case ddsparse.DeclGrid:
		return decodeGrid(r, decl)
	case ddsparse.DeclStructure:
		return decodeStructure(r, decl)
	case ddsparse.DeclSequence:
		return decodeSequence(r, decl)
	default:
		return nil, fmt.Errorf("dodsdecode: unknown declaration kind %v", decl.Kind)
	}
}

func decodeArray(r *wire.Reader, decl *ddsparse.Decl) (*Decoded, error) {
	length, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	length2, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if length != length2 {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, length, length2)
	}
	want := decl.ElementCount()
	if int(length) != want {
		return nil, fmt.Errorf("%w: payload declares %d elements, dimensions require %d", ErrSizeMismatch, length, want)
	}

	values := make([]value.Scalar, length)
	for i := range values {
		v, err := decodeScalar(r, decl.DataKind)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	// Byte array payloads restore 4-byte alignment over the raw element
	// count L after the unpadded bytes. String/URL arrays need no extra
	// pass: ReadPaddedString already pads each element individually, so
	// the array as a whole already ends on a 4-byte boundary. Fixed-width
	// >=2-byte numeric kinds need no padding either way.
	if decl.DataKind == value.KindByte {
		if err := r.SkipPad(int(length)); err != nil {
			return nil, err
		}
	}

	return &Decoded{
		Name:     decl.Name,
		Kind:     ddsparse.DeclArray,
		DataKind: decl.DataKind,
		Dims:     decl.Dims,
		Data:     value.NewArray(decl.DataKind, values),
	}, nil
}

func decodeScalar(r *wire.Reader, kind value.Kind) (value.Scalar, error) {
	switch kind {
	case value.KindByte:
		b, err := r.ReadByte()
		if err != nil {
			return value.Scalar{}, err
		}
		return value.NewNumeric(kind, float64(b)), nil
	case value.KindInt16:
		v, err := r.ReadInt16()
		if err != nil {
			return value.Scalar{}, err
		}
		return value.NewNumeric(kind, float64(v)), nil
	case value.KindUInt16:
		v, err := r.ReadUint16()
		if err != nil {
			return value.Scalar{}, err
		}
		return value.NewNumeric(kind, float64(v)), nil
	case value.KindInt32:
		v, err := r.ReadInt32()
		if err != nil {
			return value.Scalar{}, err
		}
		return value.NewNumeric(kind, float64(v)), nil
	case value.KindUInt32:
		v, err := r.ReadUint32()
		if err != nil {
			return value.Scalar{}, err
		}
		return value.NewNumeric(kind, float64(v)), nil
	case value.KindFloat32:
		v, err := r.ReadFloat32()
		if err != nil {
			return value.Scalar{}, err
		}
		return value.NewNumeric(kind, float64(v)), nil
	case value.KindFloat64:
		v, err := r.ReadFloat64()
		if err != nil {
			return value.Scalar{}, err
		}
		return value.NewNumeric(kind, v), nil
	case value.KindString, value.KindURL:
		s, err := r.ReadPaddedString()
		if err != nil {
			return value.Scalar{}, err
		}
		return value.NewString(kind, s), nil
	default:
		return value.Scalar{}, fmt.Errorf("dodsdecode: unsupported kind %v", kind)
	}
}

func decodeGrid(r *wire.Reader, decl *ddsparse.Decl) (*Decoded, error) {
	array, err := decodeArray(r, decl.Array)
	if err != nil {
		return nil, fmt.Errorf("decoding grid array: %w", err)
	}
	coords := make(map[string]*Decoded, len(decl.Maps))
	for _, m := range decl.Maps {
		decoded, err := decodeArray(r, m)
		if err != nil {
			return nil, fmt.Errorf("decoding grid map %q: %w", m.Name, err)
		}
		coords[m.Name] = decoded
	}
	return &Decoded{
		Name:        decl.Name,
		Kind:        ddsparse.DeclGrid,
		DataKind:    array.DataKind,
		Dims:        array.Dims,
		Data:        array.Data,
		Coordinates: coords,
	}, nil
}

func decodeStructure(r *wire.Reader, decl *ddsparse.Decl) (*Decoded, error) {
	fields := make([]*Decoded, len(decl.Fields))
	for i, f := range decl.Fields {
		decoded, err := decodeDecl(r, f)
		if err != nil {
			return nil, fmt.Errorf("decoding field %q: %w", f.Name, err)
		}
		fields[i] = decoded
	}
	return &Decoded{Name: decl.Name, Kind: ddsparse.DeclStructure, Fields: fields}, nil
}

func decodeSequence(r *wire.Reader, decl *ddsparse.Decl) (*Decoded, error) {
	var rows [][]*Decoded
	for {
		marker, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		switch marker {
		case seqEnd:
			return &Decoded{Name: decl.Name, Kind: ddsparse.DeclSequence, Rows: rows}, nil
		case seqRowFollows:
			row := make([]*Decoded, len(decl.Fields))
			for i, f := range decl.Fields {
				decoded, err := decodeDecl(r, f)
				if err != nil {
					return nil, fmt.Errorf("decoding sequence row field %q: %w", f.Name, err)
				}
				row[i] = decoded
			}
			rows = append(rows, row)
		default:
			return nil, fmt.Errorf("%w: 0x%02X", ErrInvalidSequenceMarker, marker)
		}
	}
}
