// Package value provides the closed primitive type system shared by the
// DAS, DDS, and DODS decoders: a fixed set of scalar kinds, a tagged
// scalar value, and a tagged vector (array) of values of one kind.
//
// No arithmetic and no cross-kind equality live here. A Scalar or Array
// either carries one of the nine DAP2 kinds or it doesn't exist.
package value

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Kind is the closed set of DAP2 primitive scalar types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindByte
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindFloat32
	KindFloat64
	KindString
	KindURL
)

// String returns the DAP2 spelling of the kind, as it appears in DDS/DAS text.
func (k Kind) String() string {
	switch k {
	case KindByte:
		return "Byte"
	case KindInt16:
		return "Int16"
	case KindUInt16:
		return "UInt16"
	case KindInt32:
		return "Int32"
	case KindUInt32:
		return "UInt32"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	case KindURL:
		return "URL"
	default:
		return "Invalid"
	}
}

// KindFromString parses a DDS/DAS kind keyword. ok is false for anything else.
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "Byte":
		return KindByte, true
	case "Int16":
		return KindInt16, true
	case "UInt16":
		return KindUInt16, true
	case "Int32":
		return KindInt32, true
	case "UInt32":
		return KindUInt32, true
	case "Float32":
		return KindFloat32, true
	case "Float64":
		return KindFloat64, true
	case "String":
		return KindString, true
	case "URL":
		return KindURL, true
	default:
		return KindInvalid, false
	}
}

// FixedWidth returns the wire byte width for fixed-width kinds, or (0, false)
// for String/URL, whose width is per-value and length-prefixed.
func (k Kind) FixedWidth() (int, bool) {
	switch k {
	case KindByte:
		return 1, true
	case KindInt16, KindUInt16:
		return 2, true
	case KindInt32, KindUInt32, KindFloat32:
		return 4, true
	case KindFloat64:
		return 8, true
	default:
		return 0, false
	}
}

// Scalar is a tagged value carrying exactly one of the nine DAP2 kinds.
type Scalar struct {
	kind  Kind
	num   float64 // holds Byte/Int16/UInt16/Int32/UInt32/Float32/Float64, widened
	str   string  // holds String/URL
	isNum bool
}

// NewNumeric builds a Scalar for one of the fixed-width numeric kinds.
func NewNumeric(k Kind, v float64) Scalar {
	return Scalar{kind: k, num: v, isNum: true}
}

// NewString builds a Scalar for String or URL, normalizing the payload to
// Unicode NFC so two semantically-identical strings from different servers
// compare equal regardless of composition form.
func NewString(k Kind, s string) Scalar {
	return Scalar{kind: k, str: norm.NFC.String(s)}
}

// Kind reports the scalar's tag.
func (s Scalar) Kind() Kind { return s.kind }

// IsZero reports whether s is the zero Scalar (no kind assigned).
func (s Scalar) IsZero() bool { return s.kind == KindInvalid }

// Float64 returns the numeric payload widened to float64, failing if the
// scalar's kind is not numeric.
func (s Scalar) Float64() (float64, error) {
	if !s.isNum {
		return 0, fmt.Errorf("value: %s is not numeric", s.kind)
	}
	return s.num, nil
}

// String returns the String/URL payload, failing on any other kind.
func (s Scalar) String() (string, error) {
	if s.isNum {
		return "", fmt.Errorf("value: %s is not a string kind", s.kind)
	}
	return s.str, nil
}

// As tries to reinterpret s as kind k. It succeeds only if k already equals
// s.Kind(); DAP2 scalars never convert across kinds.
func (s Scalar) As(k Kind) (Scalar, error) {
	if s.kind != k {
		return Scalar{}, fmt.Errorf("value: cannot project %s as %s", s.kind, k)
	}
	return s, nil
}

// Equal reports whether two scalars have the same kind and payload.
func (s Scalar) Equal(o Scalar) bool {
	if s.kind != o.kind {
		return false
	}
	if s.isNum {
		return s.num == o.num
	}
	return s.str == o.str
}

// GoValue returns the scalar's payload as a plain Go value (float64 or
// string), for callers that just want to print or marshal it.
func (s Scalar) GoValue() interface{} {
	if s.isNum {
		return s.num
	}
	return s.str
}

// Array is a tagged vector: a contiguous run of Scalars all of the same Kind.
// Invariant: len(a.values) == a.Len(), and every element's Kind() equals a.Kind().
type Array struct {
	kind   Kind
	values []Scalar
}

// NewArray builds an Array, panicking if any element's kind disagrees with k —
// that would violate the kind-identity invariant every caller relies on.
func NewArray(k Kind, values []Scalar) Array {
	for i, v := range values {
		if v.Kind() != k {
			panic(fmt.Sprintf("value: element %d has kind %s, want %s", i, v.Kind(), k))
		}
	}
	return Array{kind: k, values: values}
}

// Kind reports the array's element kind.
func (a Array) Kind() Kind { return a.kind }

// Len reports the number of elements.
func (a Array) Len() int { return len(a.values) }

// At returns the element at index i.
func (a Array) At(i int) Scalar { return a.values[i] }

// Values returns the backing slice. Callers must not mutate it.
func (a Array) Values() []Scalar { return a.values }

// Float64s widens a numeric Array to a []float64, failing for String/URL arrays.
func (a Array) Float64s() ([]float64, error) {
	if len(a.values) > 0 && !a.values[0].isNum {
		return nil, fmt.Errorf("value: %s array is not numeric", a.kind)
	}
	out := make([]float64, len(a.values))
	for i, v := range a.values {
		out[i] = v.num
	}
	return out, nil
}

// Strings returns a String/URL Array's payloads, failing for numeric arrays.
func (a Array) Strings() ([]string, error) {
	out := make([]string, len(a.values))
	for i, v := range a.values {
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
