package dap2

import (
	"fmt"
	"strconv"
	"strings"
)

// hyperslabKind distinguishes the four selector shapes a dimension of a
// variable selector can carry.
type hyperslabKind int

const (
	hyperslabProjection hyperslabKind = iota // marks a bare Project() call
	hyperslabSingle
	hyperslabRange
	hyperslabStride
	hyperslabEnumerate
)

type hyperslab struct {
	kind    hyperslabKind
	a, b, s int
	indices []int
}

func (h hyperslab) String() string {
	switch h.kind {
	case hyperslabSingle:
		return fmt.Sprintf("[%d]", h.a)
	case hyperslabRange:
		return fmt.Sprintf("[%d:%d]", h.a, h.b)
	case hyperslabStride:
		return fmt.Sprintf("[%d:%d:%d]", h.a, h.s, h.b)
	case hyperslabEnumerate:
		parts := make([]string, len(h.indices))
		for i, idx := range h.indices {
			parts[i] = strconv.Itoa(idx)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return ""
	}
}

// selector is one variable's accumulated constraint: either a bare
// projection (no hyperslabs) or a sequence of per-dimension hyperslabs
// added in order.
type selector struct {
	variable    string
	bareProject bool
	hyperslabs  []hyperslab
}

func (s selector) String() string {
	if s.bareProject {
		return s.variable
	}
	var sb strings.Builder
	sb.WriteString(s.variable)
	for _, h := range s.hyperslabs {
		sb.WriteString(h.String())
	}
	return sb.String()
}

// ConstraintBuilder is an immutable DAP2 constraint-expression builder.
// Every method returns a new ConstraintBuilder; the receiver is left
// untouched, matching the aliasing-free immutable builder requirement.
type ConstraintBuilder struct {
	order     []string
	selectors map[string]selector
	schema    *Schema
}

// NewConstraintBuilder starts an empty builder. schema is optional: when
// non-nil, accumulating hyperslabs are checked against its dimension
// counts as they're added; bare index values are never checked against
// data extents.
func NewConstraintBuilder(schema *Schema) ConstraintBuilder {
	return ConstraintBuilder{schema: schema}
}

func (b ConstraintBuilder) clone() ConstraintBuilder {
	nb := ConstraintBuilder{
		order:     append([]string(nil), b.order...),
		selectors: make(map[string]selector, len(b.selectors)),
		schema:    b.schema,
	}
	for k, v := range b.selectors {
		nb.selectors[k] = selector{
			variable:    v.variable,
			bareProject: v.bareProject,
			hyperslabs:  append([]hyperslab(nil), v.hyperslabs...),
		}
	}
	return nb
}

// Project adds a bare variable selector: the whole variable, no hyperslabs.
func (b ConstraintBuilder) Project(variable string) (ConstraintBuilder, error) {
	return b.addSelector(variable, true, hyperslab{})
}

// Single adds a single-index hyperslab for the next undeclared dimension
// of variable.
func (b ConstraintBuilder) Single(variable string, i int) (ConstraintBuilder, error) {
	return b.addSelector(variable, false, hyperslab{kind: hyperslabSingle, a: i})
}

// Range adds a closed `[a:b]` stride-1 hyperslab for the next undeclared
// dimension of variable.
func (b ConstraintBuilder) Range(variable string, a, bEnd int) (ConstraintBuilder, error) {
	return b.addSelector(variable, false, hyperslab{kind: hyperslabRange, a: a, b: bEnd})
}

// Stride adds a closed `[a:s:b]` hyperslab with positive stride s for the
// next undeclared dimension of variable.
func (b ConstraintBuilder) Stride(variable string, a, s, bEnd int) (ConstraintBuilder, error) {
	if s <= 0 {
		return ConstraintBuilder{}, wrap(fmt.Errorf("%w: stride %d", ErrInvalidStride, s))
	}
	return b.addSelector(variable, false, hyperslab{kind: hyperslabStride, a: a, s: s, b: bEnd})
}

// Enumerate adds an `[i1,i2,...]` enumerated-indices hyperslab for the
// next undeclared dimension of variable. Not all servers accept this form.
func (b ConstraintBuilder) Enumerate(variable string, indices []int) (ConstraintBuilder, error) {
	return b.addSelector(variable, false, hyperslab{kind: hyperslabEnumerate, indices: append([]int(nil), indices...)})
}

// addSelector implements the merging and dimension rules shared by every
// public method: a variable gets at most one selector entry, which is
// either a bare projection or a run of accumulating hyperslabs.
func (b ConstraintBuilder) addSelector(variable string, bareProject bool, h hyperslab) (ConstraintBuilder, error) {
	if variable == "" {
		return ConstraintBuilder{}, fmt.Errorf("dap2: constraint variable name must not be empty")
	}

	nb := b.clone()
	existing, hasExisting := nb.selectors[variable]
	if !hasExisting {
		sel := selector{variable: variable, bareProject: bareProject}
		if !bareProject {
			sel.hyperslabs = []hyperslab{h}
		}
		nb.selectors[variable] = sel
		nb.order = append(nb.order, variable)
		return nb, nil
	}

	// The variable already has a selector: any second call, bare or not,
	// is a merge of two selectors for the same variable unless it's a
	// hyperslab extending an existing hyperslab-only selector.
	if bareProject || existing.bareProject {
		return ConstraintBuilder{}, wrap(fmt.Errorf("%w: %q", ErrDuplicateProjection, variable))
	}

	if b.schema != nil {
		if info, err := b.schema.VariableInfo(variable); err == nil && len(info.Dims) > 0 {
			if len(existing.hyperslabs)+1 > len(info.Dims) {
				return ConstraintBuilder{}, wrap(fmt.Errorf("%w: %q already has %d of %d dimensions", ErrDimensionOverflow, variable, len(existing.hyperslabs), len(info.Dims)))
			}
		}
	}

	existing.hyperslabs = append(append([]hyperslab(nil), existing.hyperslabs...), h)
	nb.selectors[variable] = existing
	return nb, nil
}

// Build renders the accumulated selectors into a constraint string,
// joining distinct selectors with "," in insertion order.
func (b ConstraintBuilder) Build() string {
	parts := make([]string, 0, len(b.order))
	for _, name := range b.order {
		parts = append(parts, b.selectors[name].String())
	}
	return strings.Join(parts, ",")
}
