package dap2

import (
	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// attributesJSON renders an AttributeBlock as a nested map-of-maps:
// attribute_name -> {kind, value}, nested blocks under their own key.
func attributesJSON(b AttributeBlock) map[string]interface{} {
	out := make(map[string]interface{}, len(b.block.AttrOrder)+len(b.block.BlockOrder))
	for _, name := range b.block.AttrOrder {
		attr := b.block.Attrs[name]
		out[name] = attrJSON(Attribute{Kind: attr.Kind, Values: attr.Values})
	}
	for _, name := range b.block.BlockOrder {
		child, _ := b.Block(name)
		out[name] = attributesJSON(child)
	}
	return out
}

func attrJSON(a Attribute) map[string]interface{} {
	if len(a.Values) == 1 {
		return map[string]interface{}{"kind": a.Kind.String(), "value": a.Values[0].GoValue()}
	}
	values := make([]interface{}, len(a.Values))
	for i, v := range a.Values {
		values[i] = v.GoValue()
	}
	return map[string]interface{}{"kind": a.Kind.String(), "value": values}
}

// MarshalJSON renders the full attribute tree, e.g.
// `{"time": {"units": {"kind":"String","value":"..."}}}`.
func (a *Attributes) MarshalJSON() ([]byte, error) {
	return jsonAPI.Marshal(attributesJSON(a.AttributeBlock))
}

// schemaJSON renders a Schema as a JSON-shaped metadata object: dataset
// name plus one entry per variable with its kind, dims, type, and
// coordinate names.
func schemaJSON(s *Schema) map[string]interface{} {
	vars := make(map[string]interface{}, len(s.variables))
	for _, name := range s.variables {
		info, _ := s.VariableInfo(name)
		vars[name] = variableInfoJSON(info)
	}
	coords := make(map[string]interface{}, len(s.coordinates))
	for _, name := range s.coordinates {
		info, _ := s.CoordinateInfo(name)
		coords[name] = coordinateInfoJSON(info)
	}
	return map[string]interface{}{
		"name":        s.Name(),
		"variables":   vars,
		"coordinates": coords,
	}
}

func variableInfoJSON(info VariableInfo) map[string]interface{} {
	dims := make([]map[string]interface{}, len(info.Dims))
	for i, d := range info.Dims {
		dims[i] = map[string]interface{}{"name": d.Name, "size": d.Size}
	}
	return map[string]interface{}{
		"kind":            info.Kind.String(),
		"type":            info.Type.String(),
		"dims":            dims,
		"coordinateNames": info.CoordinateNames,
	}
}

func coordinateInfoJSON(info CoordinateInfo) map[string]interface{} {
	return map[string]interface{}{
		"kind":           info.Kind.String(),
		"size":           info.Size,
		"variablesUsing": info.VariablesUsing,
	}
}

// MarshalJSON renders the schema as a JSON-shaped metadata object, for
// hosts that want variables()/coordinates() without per-field accessors.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return jsonAPI.Marshal(schemaJSON(s))
}
