// Command wasmdap is a WebAssembly host bridge: it exposes
// ParseDAS/ParseDDS/ParseDODS and per-variable data accessors to a
// JavaScript host as a handful of global functions; the constraint and URL
// builders are not exposed through this bridge. It follows the
// js.Global().Set + js.FuncOf + js.CopyBytesToGo/CopyBytesToJS pattern
// used by cloudbun-floatbox's own WASM entry point. It performs no network
// I/O; the host fetches DAS/DDS/DODS bytes itself and passes them in.
//
//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/go-dap2/dap2/dap2"
)

// datasets keeps decoded Dataset values alive behind integer handles so the
// host can read variables out of them until it calls releaseDataset with
// the same handle. Every array handed to the host is a copy, so it stays
// valid after the dataset is released.
var (
	datasets   = map[int]*dap2.Dataset{}
	nextHandle int
)

func errorValue(err error) map[string]interface{} {
	kind := "Unknown"
	if de, ok := err.(*dap2.Error); ok {
		kind = string(de.Kind)
	}
	return map[string]interface{}{"error": err.Error(), "kind": kind}
}

func toJSValue(v map[string]interface{}) interface{} {
	return v
}

// parseDAS(dasText string) -> JSON-shaped attribute tree, or {error, kind}.
func parseDAS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return toJSValue(errorValue(dap2.ErrNotFound))
	}
	attrs, err := dap2.ParseDAS(args[0].String())
	if err != nil {
		return toJSValue(errorValue(err))
	}
	raw, err := attrs.MarshalJSON()
	if err != nil {
		return toJSValue(errorValue(err))
	}
	return string(raw)
}

// parseDDS(ddsText string) -> JSON-shaped schema, or {error, kind}.
func parseDDS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return toJSValue(errorValue(dap2.ErrNotFound))
	}
	schema, err := dap2.ParseDDS(args[0].String())
	if err != nil {
		return toJSValue(errorValue(err))
	}
	raw, err := schema.MarshalJSON()
	if err != nil {
		return toJSValue(errorValue(err))
	}
	return string(raw)
}

// parseDODS(bytes Uint8Array) -> integer dataset handle, or {error, kind}.
// The handle is passed to variableNumeric/variableStrings/releaseDataset.
func parseDODS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return toJSValue(errorValue(dap2.ErrNotFound))
	}
	buf := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(buf, args[0])

	ds, err := dap2.ParseDODS(buf)
	if err != nil {
		return toJSValue(errorValue(err))
	}
	handle := nextHandle
	nextHandle++
	datasets[handle] = ds
	return handle
}

// releaseDataset(handle int) drops the bridge's reference to a decoded
// dataset. Any typed view the host copied out of it remains valid (it is
// a copy, not a borrow) — this bridge never hands out a live view across
// the JS boundary, only CopyBytesToJS/array element copies.
func releaseDataset(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return false
	}
	handle := args[0].Int()
	if _, ok := datasets[handle]; !ok {
		return false
	}
	delete(datasets, handle)
	return true
}

// variableNumeric(handle int, name string) -> JS typed array matching the
// variable's kind (Uint8Array for Byte, Int16Array for Int16, ...), or
// {error, kind} if the variable is missing or not numeric.
func variableNumeric(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return toJSValue(errorValue(dap2.ErrNotFound))
	}
	ds, ok := datasets[args[0].Int()]
	if !ok {
		return toJSValue(errorValue(dap2.ErrNotFound))
	}
	decoded, ok := ds.Variables[args[1].String()]
	if !ok {
		return toJSValue(errorValue(dap2.ErrNotFound))
	}
	return typedArrayFor(decoded.Kind, decoded.Data)
}

// variableStrings(handle int, name string) -> JS Array of strings, for
// String/URL variables.
func variableStrings(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return toJSValue(errorValue(dap2.ErrNotFound))
	}
	ds, ok := datasets[args[0].Int()]
	if !ok {
		return toJSValue(errorValue(dap2.ErrNotFound))
	}
	decoded, ok := ds.Variables[args[1].String()]
	if !ok {
		return toJSValue(errorValue(dap2.ErrNotFound))
	}
	strs, err := decoded.Data.Strings()
	if err != nil {
		return toJSValue(errorValue(err))
	}
	out := make([]interface{}, len(strs))
	for i, s := range strs {
		out[i] = s
	}
	return out
}

// typedArrayFor copies a decoded numeric Array into the matching
// JavaScript typed array, with the element kind mapped with no loss of
// precision (Byte->Uint8Array, ... , Float64->Float64Array).
func typedArrayFor(kind dap2.Kind, data dap2.Array) interface{} {
	floats, err := data.Float64s()
	if err != nil {
		return toJSValue(errorValue(err))
	}
	n := len(floats)

	switch kind {
	case dap2.KindByte:
		buf := make([]byte, n)
		for i, f := range floats {
			buf[i] = byte(f)
		}
		view := js.Global().Get("Uint8Array").New(n)
		js.CopyBytesToJS(view, buf)
		return view
	case dap2.KindInt16:
		return numericArrayFrom("Int16Array", floats)
	case dap2.KindUInt16:
		return numericArrayFrom("Uint16Array", floats)
	case dap2.KindInt32:
		return numericArrayFrom("Int32Array", floats)
	case dap2.KindUInt32:
		return numericArrayFrom("Uint32Array", floats)
	case dap2.KindFloat32:
		return numericArrayFrom("Float32Array", floats)
	case dap2.KindFloat64:
		return numericArrayFrom("Float64Array", floats)
	default:
		return numericArrayFrom("Float64Array", floats)
	}
}

// numericArrayFrom builds a JS typed array of the given constructor name
// by setting elements one at a time — CopyBytesToJS only moves bytes, and
// endianness/width differs per kind, so only the byte-identical Uint8Array
// path above uses it.
func numericArrayFrom(ctor string, floats []float64) js.Value {
	view := js.Global().Get(ctor).New(len(floats))
	for i, f := range floats {
		view.SetIndex(i, f)
	}
	return view
}

func main() {
	js.Global().Set("dap2ParseDAS", js.FuncOf(parseDAS))
	js.Global().Set("dap2ParseDDS", js.FuncOf(parseDDS))
	js.Global().Set("dap2ParseDODS", js.FuncOf(parseDODS))
	js.Global().Set("dap2ReleaseDataset", js.FuncOf(releaseDataset))
	js.Global().Set("dap2VariableNumeric", js.FuncOf(variableNumeric))
	js.Global().Set("dap2VariableStrings", js.FuncOf(variableStrings))

	select {}
}
