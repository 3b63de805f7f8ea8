package dap2

import "github.com/go-dap2/dap2/internal/dasparse"

// Attribute is one decoded DAS attribute: a declared kind and its list of
// values. A single-valued attribute collapses to a scalar via Scalar();
// multi-valued attributes (comma lists) never collapse.
type Attribute struct {
	Kind   Kind
	Values []Scalar
}

// Scalar returns the sole value of a single-valued Attribute, failing if
// the attribute actually carries a list.
func (a Attribute) Scalar() (Scalar, error) {
	s, err := dasparse.Attr{Kind: a.Kind, Values: a.Values}.Scalar()
	if err != nil {
		return Scalar{}, err
	}
	return s, nil
}

// AttributeBlock is one nested `ident { ... }` body from a DAS document: a
// set of attributes plus any further nested blocks, in declared order.
type AttributeBlock struct {
	block *dasparse.Block
}

// Attributes returns the block's own attribute names in declared order.
func (b AttributeBlock) Attributes() []string {
	return append([]string(nil), b.block.AttrOrder...)
}

// Attribute looks up an attribute by name within this block.
func (b AttributeBlock) Attribute(name string) (Attribute, bool) {
	a, ok := b.block.Attrs[name]
	if !ok {
		return Attribute{}, false
	}
	return Attribute{Kind: a.Kind, Values: a.Values}, true
}

// Blocks returns the names of nested sub-blocks in declared order.
func (b AttributeBlock) Blocks() []string {
	return append([]string(nil), b.block.BlockOrder...)
}

// Block looks up a nested sub-block by name.
func (b AttributeBlock) Block(name string) (AttributeBlock, bool) {
	child, ok := b.block.Blocks[name]
	if !ok {
		return AttributeBlock{}, false
	}
	return AttributeBlock{block: child}, true
}

// Attributes is the full parsed DAS document: top-level blocks keyed by
// variable name (plus the reserved NC_GLOBAL block for dataset-level
// attributes), each holding a mapping of attribute name to (kind, value)
// with further nesting preserved rather than flattened.
type Attributes struct {
	AttributeBlock
}

// GlobalBlockName is the reserved block name for dataset-level attributes.
const GlobalBlockName = dasparse.GlobalBlockName

// ParseDAS parses a DAS text document into its attribute tree.
func ParseDAS(text string, opts ...Option) (*Attributes, error) {
	o := resolveOptions(opts)
	block, err := dasparse.Parse(text, dasparse.Config{AllowDuplicateAttributes: o.allowDuplicateAttributes})
	if err != nil {
		return nil, wrap(err)
	}
	o.log.Debugf("parsed DAS: %d top-level blocks", len(block.BlockOrder))
	return &Attributes{AttributeBlock{block: block}}, nil
}
