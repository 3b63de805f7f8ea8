package dap2

import "github.com/go-dap2/dap2/internal/value"

// Kind is the closed set of DAP2 primitive scalar types.
type Kind = value.Kind

const (
	KindByte    = value.KindByte
	KindInt16   = value.KindInt16
	KindUInt16  = value.KindUInt16
	KindInt32   = value.KindInt32
	KindUInt32  = value.KindUInt32
	KindFloat32 = value.KindFloat32
	KindFloat64 = value.KindFloat64
	KindString  = value.KindString
	KindURL     = value.KindURL
)

// Scalar is a tagged value carrying exactly one of the nine DAP2 kinds.
type Scalar = value.Scalar

// Array is a tagged vector of Scalars, all of one Kind.
type Array = value.Array
