// Package ddsparse parses DAP2 Dataset Descriptor Structure (DDS) text into
// a typed declaration tree: Arrays, Grids, Structures, and Sequences,
// nested arbitrarily, each carrying named dimensions and, for Arrays, a
// primitive element kind.
package ddsparse

import (
	"fmt"

	"github.com/go-dap2/dap2/internal/value"
)

// DeclKind identifies which of the four DDS declaration shapes a Decl is.
type DeclKind int

const (
	DeclArray DeclKind = iota
	DeclGrid
	DeclStructure
	DeclSequence
)

func (k DeclKind) String() string {
	switch k {
	case DeclArray:
		return "Array"
	case DeclGrid:
		return "Grid"
	case DeclStructure:
		return "Structure"
	case DeclSequence:
		return "Sequence"
	default:
		return "Unknown"
	}
}

// Dimension is a (name, size) pair. Name is empty for an anonymous dimension
// (no "name =" clause was written in the DDS text).
type Dimension struct {
	Name string
	Size int
}

// Decl is one declaration in the DDS tree: a tagged union over Array, Grid,
// Structure, and Sequence, nested recursively.
type Decl struct {
	Kind DeclKind
	Name string

	// Array only.
	DataKind value.Kind
	Dims     []Dimension

	// Grid only: Array is the inner array declaration, Maps is one Array
	// declaration per dimension of Array, in the same order.
	Array *Decl
	Maps  []*Decl

	// Structure/Sequence only, declared order.
	Fields []*Decl
}

// ElementCount returns the product of an Array's dimension sizes.
func (d *Decl) ElementCount() int {
	n := 1
	for _, dim := range d.Dims {
		n *= dim.Size
	}
	return n
}

// Dataset is a fully parsed DDS: a name and its ordered top-level declarations.
type Dataset struct {
	Name  string
	Decls []*Decl
}

// Lookup returns the top-level declaration named name, or nil.
func (d *Dataset) Lookup(name string) *Decl {
	for _, decl := range d.Decls {
		if decl.Name == name {
			return decl
		}
	}
	return nil
}

// String renders a Decl back to canonical DDS text, used for the
// round-trip-equivalence property: parse(canonicalize(parse(t))) == parse(t).
func (d *Decl) String() string {
	switch d.Kind {
	case DeclArray:
		s := d.DataKind.String() + " " + d.Name
		for _, dim := range d.Dims {
			if dim.Name != "" {
				s += fmt.Sprintf("[%s = %d]", dim.Name, dim.Size)
			} else {
				s += fmt.Sprintf("[%d]", dim.Size)
			}
		}
		return s + ";"
	case DeclGrid:
		s := "Grid {\n  ARRAY:\n    " + d.Array.String() + "\n  MAPS:\n"
		for _, m := range d.Maps {
			s += "    " + m.String() + "\n"
		}
		return s + "} " + d.Name + ";"
	case DeclStructure, DeclSequence:
		prefix := "Structure"
		if d.Kind == DeclSequence {
			prefix = "Sequence"
		}
		s := prefix + " {\n"
		for _, f := range d.Fields {
			s += "  " + f.String() + "\n"
		}
		return s + "} " + d.Name + ";"
	default:
		return ""
	}
}

// String renders a full Dataset back to canonical DDS text.
func (d *Dataset) String() string {
	s := "Dataset {\n"
	for _, decl := range d.Decls {
		s += decl.String() + "\n"
	}
	return s + "} " + d.Name + ";"
}
