// Package dasparse parses DAP2 Dataset Attribute Structure (DAS) text into a
// nested attribute tree: variable_name -> attribute_name -> (kind, value),
// with NC_GLOBAL reserved for dataset-level attributes and further nesting
// preserved as sub-blocks rather than flattened.
package dasparse

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-dap2/dap2/internal/lexer"
	"github.com/go-dap2/dap2/internal/value"
)

// Error taxonomy for the DAS grammar.
var (
	ErrSyntax        = errors.New("dasparse: syntax error")
	ErrTypeMismatch  = errors.New("dasparse: value does not match declared kind")
	ErrDuplicateAttr = errors.New("dasparse: duplicate attribute in block")
)

// GlobalBlockName is the reserved block name for dataset-level attributes.
const GlobalBlockName = "NC_GLOBAL"

// Attr holds one attribute's declared kind and its list of values. DAP2
// attribute lists are never collapsed to a bare scalar except when the
// kind is scalar and exactly one value was written.
type Attr struct {
	Kind   value.Kind
	Values []value.Scalar
}

// Scalar returns the sole value of a single-valued Attr, failing if the
// attribute actually carries a list.
func (a Attr) Scalar() (value.Scalar, error) {
	if len(a.Values) != 1 {
		return value.Scalar{}, fmt.Errorf("dasparse: attribute has %d values, not a scalar", len(a.Values))
	}
	return a.Values[0], nil
}

// Block is one nested `ident { ... }` body: a set of attributes plus any
// further nested blocks, keyed by name.
type Block struct {
	Attrs      map[string]Attr
	Blocks     map[string]*Block
	AttrOrder  []string
	BlockOrder []string
}

func newBlock() *Block {
	return &Block{Attrs: map[string]Attr{}, Blocks: map[string]*Block{}}
}

// Config controls the DAS parser's configurable failure behavior.
type Config struct {
	// AllowDuplicateAttributes makes a repeated attribute name within one
	// block a "last wins" overwrite instead of a fatal ErrDuplicateAttr.
	// Default (zero value) is fatal.
	AllowDuplicateAttributes bool
}

// Parse parses a full DAS text buffer into the top-level Block, whose
// sub-blocks are keyed by variable name (and NC_GLOBAL).
func Parse(text string, cfg Config) (*Block, error) {
	p := &parser{lex: lexer.New(text), cfg: cfg}
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := p.parseDAS()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != lexer.TokenEOF {
		return nil, p.errorf(ErrSyntax, "unexpected trailing input")
	}
	return root, nil
}

type parser struct {
	lex *lexer.Lexer
	tok lexer.Token
	cfg Config
}

func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s at %s", kind, fmt.Sprintf(format, args...), p.tok.Position())
}

func (p *parser) expect(k lexer.TokenKind) (lexer.Token, error) {
	if p.tok.Kind != k {
		return lexer.Token{}, p.errorf(ErrSyntax, "expected %s, found %s %q", k, p.tok.Kind, p.tok.Text)
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

func (p *parser) expectIdentText(text string) error {
	if p.tok.Kind != lexer.TokenIdent || p.tok.Text != text {
		return p.errorf(ErrSyntax, "expected %q, found %q", text, p.tok.Text)
	}
	return p.advance()
}

func (p *parser) parseDAS() (*Block, error) {
	if err := p.expectIdentText("Attributes"); err != nil {
		return nil, err
	}
	return p.parseBlockBody()
}

// parseBlockBody parses "{" (attribute | block)* "}" and returns the block,
// consuming the surrounding braces.
func (p *parser) parseBlockBody() (*Block, error) {
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	block := newBlock()
	for p.tok.Kind != lexer.TokenRBrace {
		if err := p.parseBlockMember(block); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return block, nil
}

// parseBlockMember parses one `attribute` or nested `block` inside a block
// body, distinguishing them by whether the first token is a kind keyword
// (attribute) or any other identifier, which must then be followed by a
// '{' (nested block).
func (p *parser) parseBlockMember(block *Block) error {
	if p.tok.Kind != lexer.TokenIdent {
		return p.errorf(ErrSyntax, "expected identifier, found %s", p.tok.Kind)
	}
	first := p.tok

	if _, isKind := value.KindFromString(first.Text); isKind {
		return p.parseAttribute(block)
	}

	// Not a kind keyword: must be `ident "{" ... "}"`, a nested block.
	name := first.Text
	if err := p.advance(); err != nil {
		return err
	}
	child, err := p.parseBlockBody()
	if err != nil {
		return err
	}
	if _, exists := block.Blocks[name]; exists {
		return fmt.Errorf("%w: block %q", ErrDuplicateAttr, name)
	}
	block.Blocks[name] = child
	block.BlockOrder = append(block.BlockOrder, name)
	return nil
}

func (p *parser) parseAttribute(block *Block) error {
	kindTok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return err
	}
	kind, _ := value.KindFromString(kindTok.Text)

	nameTok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return err
	}

	var values []value.Scalar
	for {
		v, err := p.parseValue(kind)
		if err != nil {
			return err
		}
		values = append(values, v)
		if p.tok.Kind == lexer.TokenComma {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return err
	}

	if _, exists := block.Attrs[nameTok.Text]; exists && !p.cfg.AllowDuplicateAttributes {
		return fmt.Errorf("%w: %q", ErrDuplicateAttr, nameTok.Text)
	}
	block.Attrs[nameTok.Text] = Attr{Kind: kind, Values: values}
	block.AttrOrder = append(block.AttrOrder, nameTok.Text)
	return nil
}

// parseValue parses one literal and checks it against the declared kind.
func (p *parser) parseValue(kind value.Kind) (value.Scalar, error) {
	switch kind {
	case value.KindString, value.KindURL:
		tok, err := p.expect(lexer.TokenString)
		if err != nil {
			return value.Scalar{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		return value.NewString(kind, tok.Text), nil
	default:
		tok, err := p.expect(lexer.TokenNumber)
		if err != nil {
			return value.Scalar{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return value.Scalar{}, fmt.Errorf("%w: %q is not a valid %s literal", ErrTypeMismatch, tok.Text, kind)
		}
		return value.NewNumeric(kind, f), nil
	}
}
