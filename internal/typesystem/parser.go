package typesystem

import (
	"fmt"
	"github.com/funvibe/jype/internal/config"
)

// Parser converts type strings into descriptors.
//
//	Type        := Name ( '<' TypeList '>' | ArraySuffix )?
//	TypeList    := Type (',' Type)*
//	ArraySuffix := ('[]')+
//	Name        := [A-Za-z][A-Za-z0-9.]*
//
// Names are looked up as aliases first and then in Registry.
type Parser struct {
	Registry Registry
	// Aliases maps short names to registry names. A nil map means the
	// registry's own aliases if it is an AliasSource, and
	// config.DefaultAliases otherwise. Use an empty map to disable aliasing.
	Aliases map[string]string
}

// AliasSource is implemented by registries that carry an alias table.
type AliasSource interface {
	GetAlias(alias string) (target string, ok bool)
}

// NewParser returns a parser over reg using the default alias table.
func NewParser(reg Registry) *Parser {
	return &Parser{Registry: reg}
}

// Parse parses text with the default alias table. Some example strings:
//
//	int
//	java.lang.Number[]
//	java.util.List<java.lang.String>
//	java.util.Map<java.lang.Integer, java.util.TreeSet<java.lang.Integer>>
func Parse(reg Registry, text string) (Descriptor, error) {
	return NewParser(reg).Parse(text)
}

// MustParse is like Parse but panics on error.
func MustParse(reg Registry, text string) Descriptor {
	d, err := Parse(reg, text)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse checks text against the grammar, then resolves names and builds the
// descriptor. Grammar errors are reported before resolution errors.
func (p *Parser) Parse(text string) (Descriptor, error) {
	tp := &typeParser{l: newLexer(text)}
	tp.nextToken()
	tp.nextToken()

	expr, err := tp.parseType()
	if err != nil {
		return nil, err
	}
	if !tp.curTokenIs(tokEOF) {
		return nil, tp.unexpected("end of input")
	}
	return p.build(expr)
}

// typeExpr is the syntax of one Type production, before name resolution.
type typeExpr struct {
	name   string
	dims   int
	params []*typeExpr
}

type typeParser struct {
	l         *lexer
	curToken  token
	peekToken token
}

func (tp *typeParser) nextToken() {
	tp.curToken = tp.peekToken
	tp.peekToken = tp.l.NextToken()
}

func (tp *typeParser) curTokenIs(t tokenType) bool {
	return tp.curToken.Type == t
}

func (tp *typeParser) unexpected(want string) error {
	got := tp.curToken.Type.String()
	if tp.curToken.Type == tokIllegal || tp.curToken.Type == tokName {
		got = fmt.Sprintf("%s %q", got, tp.curToken.Literal)
	}
	return NewSyntaxError(tp.l.input, tp.curToken.Pos, fmt.Sprintf("expected %s, got %s", want, got))
}

func (tp *typeParser) parseType() (*typeExpr, error) {
	if !tp.curTokenIs(tokName) {
		return nil, tp.unexpected("type name")
	}
	expr := &typeExpr{name: tp.curToken.Literal}
	tp.nextToken()

	switch tp.curToken.Type {
	case tokLT:
		tp.nextToken() // consume '<'
		for {
			param, err := tp.parseType()
			if err != nil {
				return nil, err
			}
			expr.params = append(expr.params, param)
			if !tp.curTokenIs(tokComma) {
				break
			}
			tp.nextToken() // consume ','
		}
		if !tp.curTokenIs(tokGT) {
			return nil, tp.unexpected("',' or '>'")
		}
		tp.nextToken() // consume '>'

	case tokBrackets:
		for tp.curTokenIs(tokBrackets) {
			expr.dims++
			tp.nextToken()
		}
	}
	return expr, nil
}

func (p *Parser) build(expr *typeExpr) (Descriptor, error) {
	h, err := p.resolve(expr.name)
	if err != nil {
		return nil, err
	}

	if expr.dims > 0 {
		return asDescriptor(NewArray(h, expr.dims))
	}
	if len(expr.params) == 0 {
		return asDescriptor(NewSimple(h))
	}

	params := make([]Descriptor, len(expr.params))
	for i, pe := range expr.params {
		d, err := p.build(pe)
		if err != nil {
			return nil, err
		}
		params[i] = d
	}
	return asDescriptor(NewGeneric(h, params...))
}

func (p *Parser) resolve(name string) (Handle, error) {
	if p.Registry == nil {
		return nil, NewUnknownTypeError(name)
	}
	if target, ok := p.alias(name); ok {
		if h, ok := p.Registry.ResolveName(target); ok {
			return h, nil
		}
	}
	if h, ok := p.Registry.ResolveName(name); ok {
		return h, nil
	}
	return nil, NewUnknownTypeError(name)
}

func (p *Parser) alias(name string) (string, bool) {
	if p.Aliases != nil {
		target, ok := p.Aliases[name]
		return target, ok
	}
	if src, ok := p.Registry.(AliasSource); ok {
		return src.GetAlias(name)
	}
	target, ok := config.DefaultAliases[name]
	return target, ok
}
