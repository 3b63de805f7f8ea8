package dap2

import (
	"errors"
	"fmt"

	"github.com/go-dap2/dap2/internal/dasparse"
	"github.com/go-dap2/dap2/internal/ddsparse"
	"github.com/go-dap2/dap2/internal/dodsdecode"
	"github.com/go-dap2/dap2/internal/wire"
)

// ErrorKind is the machine-readable error taxonomy. It lets hosts map
// failures to their own idiomatic error surface without string matching.
type ErrorKind string

const (
	KindSyntaxError           ErrorKind = "SyntaxError"
	KindMissingDataMarker     ErrorKind = "MissingDataMarker"
	KindInvalidBaseURL        ErrorKind = "InvalidBaseUrl"
	KindInvalidEncoding       ErrorKind = "InvalidEncoding"
	KindGridMismatch          ErrorKind = "GridMismatch"
	KindLengthMismatch        ErrorKind = "LengthMismatch"
	KindSizeMismatch          ErrorKind = "SizeMismatch"
	KindInvalidSequenceMarker ErrorKind = "InvalidSequenceMarker"
	KindDuplicateName         ErrorKind = "DuplicateName"
	KindDuplicateAttribute    ErrorKind = "DuplicateAttribute"
	KindDuplicateProjection   ErrorKind = "DuplicateProjection"
	KindDimensionOverflow     ErrorKind = "DimensionOverflow"
	KindInvalidStride         ErrorKind = "InvalidStride"
	KindZeroDimension         ErrorKind = "ZeroDimension"
	KindTruncatedInput        ErrorKind = "TruncatedInput"
	KindTrailingGarbage       ErrorKind = "TrailingGarbage"
	KindNotFound              ErrorKind = "NotFound"
	KindTypeMismatch          ErrorKind = "TypeMismatch"
	KindUnknown               ErrorKind = "Unknown"
)

// Error is dap2's user-visible failure type: a human-readable message
// (via Error()/Unwrap()) plus a machine-readable Kind. Partial results are
// never returned alongside an Error — a failed parse or decode produces
// only this, never a half-built schema or dataset.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("dap2: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinel errors for failures that originate in this package rather than
// in one of the grammar/decoder internals.
var (
	ErrNotFound            = errors.New("dap2: not found")
	ErrDuplicateProjection = errors.New("dap2: duplicate projection for variable")
	ErrDimensionOverflow   = errors.New("dap2: more hyperslabs than variable dimensions")
	ErrInvalidStride       = errors.New("dap2: stride must be positive")
	ErrInvalidBaseURL      = errors.New("dap2: base URL must be an absolute http(s) URL")
)

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// wrap classifies an error surfaced by one of the internal grammar/decoder
// packages into a dap2.Error carrying the matching ErrorKind, preserving
// the original error in the Unwrap chain so errors.Is/errors.As against
// the internal sentinels still work across the package boundary.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	return newError(classify(err), err)
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateProjection):
		return KindDuplicateProjection
	case errors.Is(err, ErrDimensionOverflow):
		return KindDimensionOverflow
	case errors.Is(err, ErrInvalidStride):
		return KindInvalidStride
	case errors.Is(err, ErrInvalidBaseURL):
		return KindInvalidBaseURL
	case errors.Is(err, ddsparse.ErrSyntax), errors.Is(err, dasparse.ErrSyntax):
		return KindSyntaxError
	case errors.Is(err, ddsparse.ErrGridMismatch):
		return KindGridMismatch
	case errors.Is(err, ddsparse.ErrZeroDimension):
		return KindZeroDimension
	case errors.Is(err, ddsparse.ErrDuplicateName):
		return KindDuplicateName
	case errors.Is(err, dasparse.ErrTypeMismatch):
		return KindTypeMismatch
	case errors.Is(err, dasparse.ErrDuplicateAttr):
		return KindDuplicateAttribute
	case errors.Is(err, dodsdecode.ErrMissingDataMarker):
		return KindMissingDataMarker
	case errors.Is(err, dodsdecode.ErrLengthMismatch):
		return KindLengthMismatch
	case errors.Is(err, dodsdecode.ErrSizeMismatch):
		return KindSizeMismatch
	case errors.Is(err, dodsdecode.ErrInvalidSequenceMarker):
		return KindInvalidSequenceMarker
	case errors.Is(err, dodsdecode.ErrTrailingGarbage):
		return KindTrailingGarbage
	case errors.Is(err, wire.ErrTruncatedInput):
		return KindTruncatedInput
	case errors.Is(err, wire.ErrInvalidEncoding):
		return KindInvalidEncoding
	default:
		return KindUnknown
	}
}
