package dap2

import "github.com/go-dap2/dap2/internal/dodsdecode"

// DecodedValue is one decoded declaration from a DODS stream, recursively
// shaped like the schema it was decoded against.
type DecodedValue struct {
	Name string
	Type VariableKind

	// Array/Grid only.
	Kind Kind
	Dims []Dimension
	Data Array

	// Grid only.
	Coordinates map[string]*DecodedValue

	// Structure/Sequence only.
	Fields []*DecodedValue
	Rows   [][]*DecodedValue
}

func wrapDecoded(d *dodsdecode.Decoded) *DecodedValue {
	if d == nil {
		return nil
	}
	out := &DecodedValue{
		Name: d.Name,
		Type: d.Kind,
		Kind: d.DataKind,
		Dims: d.Dims,
		Data: d.Data,
	}
	if d.Coordinates != nil {
		out.Coordinates = make(map[string]*DecodedValue, len(d.Coordinates))
		for name, c := range d.Coordinates {
			out.Coordinates[name] = wrapDecoded(c)
		}
	}
	for _, f := range d.Fields {
		out.Fields = append(out.Fields, wrapDecoded(f))
	}
	for _, row := range d.Rows {
		var wrapped []*DecodedValue
		for _, f := range row {
			wrapped = append(wrapped, wrapDecoded(f))
		}
		out.Rows = append(out.Rows, wrapped)
	}
	return out
}

// Dataset is the full result of decoding a DODS byte stream: the response
// schema (which may be a projection of the full dataset) plus one decoded
// value per top-level declaration.
type Dataset struct {
	Schema *Schema
	// Variables holds one DecodedValue per top-level declaration, keyed
	// by name.
	Variables map[string]*DecodedValue
	// Order preserves the prologue's declared order.
	Order []string
	// TrailingBytes is nonzero only when WithLenientTrailingGarbage
	// discarded unconsumed bytes after a well-formed decode.
	TrailingBytes int
}

// ParseDODS splits buf into its textual DDS prologue and binary payload,
// parses the prologue, and decodes the payload against the resulting
// schema.
func ParseDODS(buf []byte, opts ...Option) (*Dataset, error) {
	o := resolveOptions(opts)
	result, err := dodsdecode.Decode(buf, dodsdecode.Config{LenientTrailingGarbage: o.lenientTrailingGarbage})
	if err != nil {
		return nil, wrap(err)
	}
	if result.TrailingBytes > 0 {
		o.log.Warnf("dods: discarded %d trailing bytes after payload", result.TrailingBytes)
	}

	ds := &Dataset{
		Schema:        buildSchema(result.Schema),
		Variables:     make(map[string]*DecodedValue, len(result.Variables)),
		Order:         append([]string(nil), result.Order...),
		TrailingBytes: result.TrailingBytes,
	}
	for name, decoded := range result.Variables {
		ds.Variables[name] = wrapDecoded(decoded)
	}
	return ds, nil
}
