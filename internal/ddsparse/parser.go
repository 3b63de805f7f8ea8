package ddsparse

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-dap2/dap2/internal/lexer"
	"github.com/go-dap2/dap2/internal/value"
)

// Error taxonomy for the DDS grammar.
var (
	ErrSyntax        = errors.New("ddsparse: syntax error")
	ErrGridMismatch  = errors.New("ddsparse: grid mismatch")
	ErrZeroDimension = errors.New("ddsparse: dimension size must be positive")
	ErrDuplicateName = errors.New("ddsparse: duplicate name in scope")
)

// Parse parses a full DDS text buffer into a Dataset.
func Parse(text string) (*Dataset, error) {
	p := &parser{lex: lexer.New(text)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	ds, err := p.parseDataset()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != lexer.TokenEOF {
		return nil, p.errorf(ErrSyntax, "unexpected trailing %s after dataset", p.tok.Kind)
	}
	return ds, nil
}

type parser struct {
	lex *lexer.Lexer
	tok lexer.Token
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

func (p *parser) parseDataset() (*Dataset, error) {
	if err := p.expectIdentText("Dataset"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}

	var decls []*Decl
	for p.tok.Kind != lexer.TokenRBrace {
		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		if err := checkUniqueName(decls, decl.Name); err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &Dataset{Name: name.Text, Decls: decls}, nil
}

func checkUniqueName(existing []*Decl, name string) error {
	for _, d := range existing {
		if d.Name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	return nil
}

// parseDecl dispatches on the leading identifier: a primitive kind keyword
// starts an Array, otherwise it must be Grid, Structure, or Sequence.
func (p *parser) parseDecl() (*Decl, error) {
	if p.tok.Kind != lexer.TokenIdent {
		return nil, p.errorf(ErrSyntax, "expected declaration, found %s", p.tok.Kind)
	}
	switch p.tok.Text {
	case "Grid":
		return p.parseGrid()
	case "Structure":
		return p.parseStructureOrSequence(DeclStructure, "Structure")
	case "Sequence":
		return p.parseStructureOrSequence(DeclSequence, "Sequence")
	default:
		return p.parseArray()
	}
}

func (p *parser) parseArray() (*Decl, error) {
	kindTok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	dataKind, ok := value.KindFromString(kindTok.Text)
	if !ok {
		return nil, p.errorf(ErrSyntax, "unknown type keyword %q", kindTok.Text)
	}
	nameTok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	var dims []Dimension
	for p.tok.Kind == lexer.TokenLBracket {
		dim, err := p.parseDimension()
		if err != nil {
			return nil, err
		}
		dims = append(dims, dim)
	}
	if len(dims) == 0 {
		return nil, p.errorf(ErrSyntax, "array %q declares no dimensions", nameTok.Text)
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &Decl{Kind: DeclArray, Name: nameTok.Text, DataKind: dataKind, Dims: dims}, nil
}

func (p *parser) parseDimension() (Dimension, error) {
	if _, err := p.expect(lexer.TokenLBracket); err != nil {
		return Dimension{}, err
	}
	var name string
	if p.tok.Kind == lexer.TokenIdent {
		nameTok := p.tok
		// Disambiguate "[ident = N]" from a bare "[N]"; an identifier here
		// must be followed by '='.
		save := *p.lex
		saveTok := p.tok
		if err := p.advance(); err != nil {
			return Dimension{}, err
		}
		if p.tok.Kind == lexer.TokenEquals {
			if err := p.advance(); err != nil {
				return Dimension{}, err
			}
			name = nameTok.Text
		} else {
			*p.lex = save
			p.tok = saveTok
		}
	}
	sizeTok, err := p.expect(lexer.TokenNumber)
	if err != nil {
		return Dimension{}, err
	}
	size, err := strconv.Atoi(sizeTok.Text)
	if err != nil {
		return Dimension{}, p.errorf(ErrSyntax, "invalid dimension size %q", sizeTok.Text)
	}
	if size <= 0 {
		return Dimension{}, fmt.Errorf("%w: dimension %q has size %d", ErrZeroDimension, name, size)
	}
	if _, err := p.expect(lexer.TokenRBracket); err != nil {
		return Dimension{}, err
	}
	return Dimension{Name: name, Size: size}, nil
}

func (p *parser) parseGrid() (*Decl, error) {
	if err := p.expectIdentText("Grid"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	if err := p.expectIdentText("ARRAY"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	array, err := p.parseArray()
	if err != nil {
		return nil, err
	}

	if err := p.expectIdentText("MAPS"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	var maps []*Decl
	for p.tok.Kind == lexer.TokenIdent {
		m, err := p.parseArray()
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	if len(maps) == 0 {
		return nil, p.errorf(ErrGridMismatch, "grid %q declares no MAPS", array.Name)
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}

	if err := validateGrid(array, maps); err != nil {
		return nil, err
	}

	return &Decl{Kind: DeclGrid, Name: nameTok.Text, Array: array, Maps: maps}, nil
}

// validateGrid enforces a Grid's structural invariants: map count equals
// array dimension count, and each map has exactly one dimension whose
// (name, size) matches the corresponding array dimension pointwise.
func validateGrid(array *Decl, maps []*Decl) error {
	if len(maps) != len(array.Dims) {
		return fmt.Errorf("%w: grid %q has %d dimensions but %d maps", ErrGridMismatch, array.Name, len(array.Dims), len(maps))
	}
	for i, m := range maps {
		if len(m.Dims) != 1 {
			return fmt.Errorf("%w: map %q must have exactly one dimension (dimension index %d)", ErrGridMismatch, m.Name, i)
		}
		want := array.Dims[i]
		got := m.Dims[0]
		if got.Name != want.Name {
			return fmt.Errorf("%w: map %q dimension name %q does not match array dimension %d name %q",
				ErrGridMismatch, m.Name, got.Name, i, want.Name)
		}
		if got.Size != want.Size {
			return fmt.Errorf("%w: map %q size %d does not match array dimension %d size %d (dimension index %d)",
				ErrGridMismatch, m.Name, got.Size, i, want.Size, i)
		}
	}
	return nil
}

func (p *parser) parseStructureOrSequence(kind DeclKind, keyword string) (*Decl, error) {
	if err := p.expectIdentText(keyword); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	var fields []*Decl
	for p.tok.Kind != lexer.TokenRBrace {
		field, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		if err := checkUniqueName(fields, field.Name); err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, p.errorf(ErrSyntax, "%s declares no fields", keyword)
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &Decl{Kind: kind, Name: nameTok.Text, Fields: fields}, nil
}
