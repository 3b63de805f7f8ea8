package dap2

import (
	"fmt"

	"github.com/go-dap2/dap2/internal/ddsparse"
)

// VariableKind identifies which of the four DDS declaration shapes a
// variable is.
type VariableKind = ddsparse.DeclKind

const (
	VariableArray     = ddsparse.DeclArray
	VariableGrid      = ddsparse.DeclGrid
	VariableStructure = ddsparse.DeclStructure
	VariableSequence  = ddsparse.DeclSequence
)

// Dimension is a (name, size) pair from a DDS declaration.
type Dimension = ddsparse.Dimension

// VariableInfo describes one top-level variable: its data kind (for
// Array/Grid), its ordered dimension list, its declaration shape, and,
// for Grids, the coordinate names contributed by its MAPS.
type VariableInfo struct {
	Kind            Kind
	Dims            []Dimension
	Type            VariableKind
	CoordinateNames []string
}

// CoordinateInfo describes one coordinate variable: its kind, its size,
// and the set of variables whose dimension list references it.
type CoordinateInfo struct {
	Kind           Kind
	Size           int
	VariablesUsing []string
}

// Schema is a queryable view over a parsed DDS. It never mutates; all
// derived indexes are built once by ParseDDS.
type Schema struct {
	dataset *ddsparse.Dataset

	variables   []string
	coordinates []string
	// coordUsers maps a coordinate name to the variables whose dimension
	// list mentions it, built once at parse time.
	coordUsers map[string][]string
	// virtualCoords holds the MAPS declarations of Grid coordinates that
	// have no top-level counterpart in the DDS, keyed by name. dataset.Lookup
	// never finds these since they are not top-level declarations.
	virtualCoords map[string]*ddsparse.Decl
}

// Name returns the dataset name from the DDS text (`Dataset { ... } name;`).
func (s *Schema) Name() string { return s.dataset.Name }

// Variables returns the names of all top-level non-coordinate-only Arrays
// and all top-level Grids, Structures, and Sequences, in DDS declaration
// order.
func (s *Schema) Variables() []string {
	return append([]string(nil), s.variables...)
}

// Coordinates returns the names of top-level Arrays whose single dimension
// shares the array's name, in DDS declaration order, unioned with any
// Grid MAPS array that has no top-level counterpart of its own.
func (s *Schema) Coordinates() []string {
	return append([]string(nil), s.coordinates...)
}

// VariableInfo returns metadata for a top-level variable (Array, Grid,
// Structure, or Sequence). Coordinate names are populated for Grids from
// their MAPS, which are authoritative for a Grid's coordinates; for Arrays a
// coordinate name is populated only when the array is itself a coordinate.
func (s *Schema) VariableInfo(name string) (VariableInfo, error) {
	decl := s.dataset.Lookup(name)
	if decl == nil {
		return VariableInfo{}, wrap(fmt.Errorf("%w: variable %q", ErrNotFound, name))
	}
	info := VariableInfo{Type: decl.Kind}
	switch decl.Kind {
	case ddsparse.DeclArray:
		info.Kind = decl.DataKind
		info.Dims = decl.Dims
		if isCoordinate(decl) {
			info.CoordinateNames = []string{decl.Name}
		}
	case ddsparse.DeclGrid:
		info.Kind = decl.Array.DataKind
		info.Dims = decl.Array.Dims
		for _, m := range decl.Maps {
			info.CoordinateNames = append(info.CoordinateNames, m.Name)
		}
	}
	return info, nil
}

// CoordinateInfo returns metadata for a coordinate variable: its kind,
// size, and the variables whose dimension list references it.
func (s *Schema) CoordinateInfo(name string) (CoordinateInfo, error) {
	decl := s.dataset.Lookup(name)
	if decl == nil {
		decl = s.virtualCoords[name]
	}
	if decl == nil || decl.Kind != ddsparse.DeclArray || len(decl.Dims) != 1 {
		return CoordinateInfo{}, wrap(fmt.Errorf("%w: coordinate %q", ErrNotFound, name))
	}
	return CoordinateInfo{
		Kind:           decl.DataKind,
		Size:           decl.Dims[0].Size,
		VariablesUsing: append([]string(nil), s.coordUsers[name]...),
	}, nil
}

// Lookup returns the raw declaration subtree for name, or (nil, false).
func (s *Schema) Lookup(name string) (*ddsparse.Decl, bool) {
	decl := s.dataset.Lookup(name)
	return decl, decl != nil
}

// isCoordinate reports whether decl is a coordinate variable: exactly
// one dimension, whose name equals the array's own name.
func isCoordinate(decl *ddsparse.Decl) bool {
	return decl.Kind == ddsparse.DeclArray && len(decl.Dims) == 1 && decl.Dims[0].Name == decl.Name
}

// ParseDDS parses a DDS text document into a queryable Schema.
func ParseDDS(text string, opts ...Option) (*Schema, error) {
	o := resolveOptions(opts)
	dataset, err := ddsparse.Parse(text)
	if err != nil {
		return nil, wrap(err)
	}
	s := buildSchema(dataset)
	o.log.Debugf("parsed DDS %q: %d variables, %d coordinates", s.Name(), len(s.variables), len(s.coordinates))
	return s, nil
}

func buildSchema(dataset *ddsparse.Dataset) *Schema {
	s := &Schema{dataset: dataset, coordUsers: map[string][]string{}, virtualCoords: map[string]*ddsparse.Decl{}}
	for _, decl := range dataset.Decls {
		switch decl.Kind {
		case ddsparse.DeclArray:
			if isCoordinate(decl) {
				s.coordinates = append(s.coordinates, decl.Name)
			} else {
				s.variables = append(s.variables, decl.Name)
			}
			for _, dim := range decl.Dims {
				if dim.Name != "" {
					s.coordUsers[dim.Name] = append(s.coordUsers[dim.Name], decl.Name)
				}
			}
		case ddsparse.DeclGrid:
			s.variables = append(s.variables, decl.Name)
			for _, dim := range decl.Array.Dims {
				if dim.Name != "" {
					s.coordUsers[dim.Name] = append(s.coordUsers[dim.Name], decl.Name)
				}
			}
		default:
			s.variables = append(s.variables, decl.Name)
		}
	}

	seen := make(map[string]bool, len(s.coordinates))
	for _, name := range s.coordinates {
		seen[name] = true
	}
	for _, decl := range dataset.Decls {
		if decl.Kind != ddsparse.DeclGrid {
			continue
		}
		for _, m := range decl.Maps {
			if seen[m.Name] || dataset.Lookup(m.Name) != nil {
				continue
			}
			seen[m.Name] = true
			s.coordinates = append(s.coordinates, m.Name)
			s.virtualCoords[m.Name] = m
		}
	}
	return s
}
