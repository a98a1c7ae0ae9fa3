package shexc

import (
	"strconv"

	"github.com/rdfshapes/shapeconv/internal/shexmodel"
	"github.com/rdfshapes/shapeconv/internal/vocab"
)

// Parser is a recursive-descent parser over a ShExC token stream, with a
// single token of lookahead -- the same shape as the teacher's Turtle
// parser (next/peek/backup), minus backup: a pushback slot does the same
// job with less bookkeeping since ShExC never needs to un-read more than
// one token.
type Parser struct {
	lex      *lexer
	buf      *token
	prefixes vocab.PrefixTable
	base     string
}

// NewParser returns a parser over src, its prefix table seeded with the
// well-known defaults (spec.md 3.1).
func NewParser(src string) *Parser {
	return &Parser{lex: newLexer(src), prefixes: vocab.NewPrefixTable()}
}

// Parse consumes the whole input and returns the resulting schema, or the
// first ParseError encountered.
func (p *Parser) Parse() (*shexmodel.Schema, error) {
	return p.parseSchema()
}

func (p *Parser) peek() token {
	if p.buf == nil {
		t := p.lex.nextToken()
		p.buf = &t
	}
	return *p.buf
}

func (p *Parser) next() token {
	t := p.peek()
	p.buf = nil
	return t
}

// expect consumes the next token, requiring it to have type typ.
func (p *Parser) expect(typ tokenType) (token, error) {
	tok := p.next()
	if tok.typ == tokenError {
		return tok, p.lexError(tok)
	}
	if tok.typ != typ {
		return tok, newParseError(UnexpectedToken, tok, "expected %s, got %s %q", typ, tok.typ, tok.text)
	}
	return tok, nil
}

func (p *Parser) lexError(tok token) error {
	return &ParseError{Kind: tok.errKind, Line: tok.line, Col: tok.col, Message: tok.text}
}

// isShapeIDToken reports whether tok's type can start a shapeId production
// (IRIREF | PNAME).
func isShapeIDToken(typ tokenType) bool {
	return typ == tokenIRIREF || typ == tokenPNameLN || typ == tokenPNameNS
}

// expandShapeID resolves a consumed IRIREF/PNAME token to an absolute IRI
// string, against the parser's live prefix table (spec.md 4.1: "resolves
// PNAME against the current prefix table at parse time").
func (p *Parser) expandShapeID(tok token) (string, error) {
	switch tok.typ {
	case tokenIRIREF:
		return tok.text, nil
	case tokenPNameLN, tokenPNameNS:
		ns, ok := p.prefixes.Resolve(tok.prefix)
		if !ok {
			return "", newParseError(UnknownPrefix, tok, "unknown prefix %q", tok.prefix)
		}
		return ns + tok.local, nil
	default:
		return "", newParseError(UnexpectedToken, tok, "expected IRIREF or prefixed name, got %s %q", tok.typ, tok.text)
	}
}

// parseShapeID consumes and resolves one shapeId.
func (p *Parser) parseShapeID() (string, error) {
	tok := p.next()
	if tok.typ == tokenError {
		return "", p.lexError(tok)
	}
	return p.expandShapeID(tok)
}

func (p *Parser) parseSchema() (*shexmodel.Schema, error) {
	schema := shexmodel.NewSchema()

	for p.peek().typ == tokenPREFIX || p.peek().typ == tokenBASE {
		if err := p.parseDirective(schema); err != nil {
			return nil, err
		}
	}

	seen := map[string]bool{}
	for {
		tok := p.peek()
		if tok.typ == tokenEOF {
			break
		}
		if tok.typ == tokenError {
			p.next()
			return nil, p.lexError(tok)
		}
		shape, err := p.parseShape()
		if err != nil {
			return nil, err
		}
		if seen[shape.ID] {
			return nil, newParseError(DuplicateShapeId, tok, "duplicate shape id %q", shape.ID)
		}
		seen[shape.ID] = true
		schema.Shapes = append(schema.Shapes, shape)
	}

	schema.Prefixes = p.prefixes
	schema.Base = p.base
	return schema, nil
}

func (p *Parser) parseDirective(schema *shexmodel.Schema) error {
	kw := p.next()
	switch kw.typ {
	case tokenPREFIX:
		nsTok, err := p.expect(tokenPNameNS)
		if err != nil {
			return err
		}
		iriTok, err := p.expect(tokenIRIREF)
		if err != nil {
			return err
		}
		p.prefixes.Set(nsTok.prefix, iriTok.text)
		return nil
	case tokenBASE:
		iriTok, err := p.expect(tokenIRIREF)
		if err != nil {
			return err
		}
		p.base = iriTok.text
		return nil
	default:
		return newParseError(UnexpectedToken, kw, "expected PREFIX or BASE, got %s %q", kw.typ, kw.text)
	}
}

// parseShape implements:
//
//	shape := shapeId ('EXTRA' iriList)? ('CLOSED')? '{' tripleExprs? '}'
func (p *Parser) parseShape() (*shexmodel.Shape, error) {
	idTok := p.next()
	if idTok.typ == tokenError {
		return nil, p.lexError(idTok)
	}
	if !isShapeIDToken(idTok.typ) {
		return nil, newParseError(UnexpectedToken, idTok, "expected shape id, got %s %q", idTok.typ, idTok.text)
	}
	id, err := p.expandShapeID(idTok)
	if err != nil {
		return nil, err
	}

	shape := &shexmodel.Shape{ID: id}

	if p.peek().typ == tokenEXTRA {
		p.next()
		for isShapeIDToken(p.peek().typ) {
			extraTok := p.next()
			extraID, err := p.expandShapeID(extraTok)
			if err != nil {
				return nil, err
			}
			shape.Extra = append(shape.Extra, extraID)
		}
		if len(shape.Extra) == 0 {
			tok := p.peek()
			return nil, newParseError(UnexpectedToken, tok, "EXTRA requires at least one predicate IRI, got %s %q", tok.typ, tok.text)
		}
	}

	if p.peek().typ == tokenCLOSED {
		p.next()
		shape.Closed = true
	}

	if _, err := p.expect(tokenLBrace); err != nil {
		return nil, err
	}
	if p.peek().typ != tokenRBrace {
		expr, err := p.parseTripleExprs()
		if err != nil {
			return nil, err
		}
		shape.Expression = expr
	}
	if _, err := p.expect(tokenRBrace); err != nil {
		return nil, err
	}
	return shape, nil
}

// parseTripleExprs implements:
//
//	tripleExprs := tripleConstraint (';' tripleConstraint)* ';'?
func (p *Parser) parseTripleExprs() (shexmodel.TripleExpression, error) {
	var tcs []*shexmodel.TripleConstraint
	tc, err := p.parseTripleConstraint()
	if err != nil {
		return shexmodel.TripleExpression{}, err
	}
	tcs = append(tcs, tc)
	for p.peek().typ == tokenSemi {
		p.next()
		if p.peek().typ == tokenRBrace {
			break
		}
		tc, err := p.parseTripleConstraint()
		if err != nil {
			return shexmodel.TripleExpression{}, err
		}
		tcs = append(tcs, tc)
	}
	return shexmodel.Conjunction(tcs), nil
}

// parseTripleConstraint implements:
//
//	tripleCon := ('^')? predicate valueExpr cardinality?
func (p *Parser) parseTripleConstraint() (*shexmodel.TripleConstraint, error) {
	inverse := false
	if p.peek().typ == tokenCaret {
		p.next()
		inverse = true
	}

	predTok := p.next()
	if predTok.typ == tokenError {
		return nil, p.lexError(predTok)
	}
	if !isShapeIDToken(predTok.typ) {
		return nil, newParseError(UnexpectedToken, predTok, "expected predicate IRI, got %s %q", predTok.typ, predTok.text)
	}
	pred, err := p.expandShapeID(predTok)
	if err != nil {
		return nil, err
	}

	ve, err := p.parseValueExpr()
	if err != nil {
		return nil, err
	}

	card := vocab.Default
	switch p.peek().typ {
	case tokenQuestion, tokenStar, tokenPlus, tokenLBrace:
		card, err = p.parseCardinality()
		if err != nil {
			return nil, err
		}
	}

	return &shexmodel.TripleConstraint{
		Predicate:   pred,
		Inverse:     inverse,
		ValueExpr:   ve,
		Cardinality: card,
	}, nil
}

// parseValueExpr implements:
//
//	valueExpr := nodeConstraint | shapeRef | '(' shapeRef ('OR' shapeRef)+ ')'
//	nodeConstraint := nodeKind | datatypeIri | valueSet | '.'
func (p *Parser) parseValueExpr() (shexmodel.ValueExpr, error) {
	tok := p.peek()
	switch tok.typ {
	case tokenError:
		p.next()
		return shexmodel.ValueExpr{}, p.lexError(tok)

	case tokenAt:
		ref, err := p.parseShapeRef()
		if err != nil {
			return shexmodel.ValueExpr{}, err
		}
		return shexmodel.ValueExpr{Ref: &ref}, nil

	case tokenLParen:
		p.next()
		first, err := p.parseShapeRef()
		if err != nil {
			return shexmodel.ValueExpr{}, err
		}
		refs := []shexmodel.ShapeRef{first}
		for p.peek().typ == tokenOR {
			p.next()
			r, err := p.parseShapeRef()
			if err != nil {
				return shexmodel.ValueExpr{}, err
			}
			refs = append(refs, r)
		}
		if len(refs) < 2 {
			t := p.peek()
			return shexmodel.ValueExpr{}, newParseError(UnexpectedToken, t, "expected 'OR' or ')', got %s %q", t.typ, t.text)
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return shexmodel.ValueExpr{}, err
		}
		return shexmodel.ValueExpr{OneOf: refs}, nil

	case tokenIRIKw, tokenLiteralKw, tokenBNodeKw, tokenNonLiteralKw:
		kwTok := p.next()
		nk, ok := vocab.ParseShExCKeyword(kwTok.text)
		if !ok {
			return shexmodel.ValueExpr{}, newParseError(UnknownKeyword, kwTok, "unknown node-kind keyword %q", kwTok.text)
		}
		return shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{NodeKind: &nk}}, nil

	case tokenLBracket:
		values, err := p.parseValueSet()
		if err != nil {
			return shexmodel.ValueExpr{}, err
		}
		return shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Values: values}}, nil

	case tokenIRIREF, tokenPNameLN, tokenPNameNS:
		iriTok := p.next()
		abs, err := p.expandShapeID(iriTok)
		if err != nil {
			return shexmodel.ValueExpr{}, err
		}
		return shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Datatype: &abs}}, nil

	case tokenDot:
		p.next()
		return shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{}}, nil

	default:
		return shexmodel.ValueExpr{}, newParseError(UnexpectedToken, tok, "expected node constraint or shape reference, got %s %q", tok.typ, tok.text)
	}
}

// parseShapeRef implements: shapeRef := '@' shapeId
func (p *Parser) parseShapeRef() (shexmodel.ShapeRef, error) {
	if _, err := p.expect(tokenAt); err != nil {
		return shexmodel.ShapeRef{}, err
	}
	id, err := p.parseShapeID()
	if err != nil {
		return shexmodel.ShapeRef{}, err
	}
	return shexmodel.ShapeRef{ID: id}, nil
}

// parseValueSet implements:
//
//	valueSet := '[' valueSetItem+ ']'
//	valueSetItem := iri | literal | iri '~'
func (p *Parser) parseValueSet() ([]vocab.ValueSetItem, error) {
	if _, err := p.expect(tokenLBracket); err != nil {
		return nil, err
	}
	var items []vocab.ValueSetItem
	for p.peek().typ != tokenRBracket {
		item, err := p.parseValueSetItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		tok := p.peek()
		return nil, newParseError(UnexpectedToken, tok, "value set must contain at least one item")
	}
	p.next() // consume ']'
	return items, nil
}

func (p *Parser) parseValueSetItem() (vocab.ValueSetItem, error) {
	tok := p.peek()
	switch tok.typ {
	case tokenError:
		p.next()
		return vocab.ValueSetItem{}, p.lexError(tok)

	case tokenString:
		return p.parseLiteral()

	case tokenIRIREF, tokenPNameLN, tokenPNameNS:
		iriTok := p.next()
		abs, err := p.expandShapeID(iriTok)
		if err != nil {
			return vocab.ValueSetItem{}, err
		}
		if p.peek().typ == tokenTilde {
			p.next()
			return vocab.VSIStem(abs), nil
		}
		return vocab.VSIIri(vocab.NewIRI(abs)), nil

	default:
		return vocab.ValueSetItem{}, newParseError(UnexpectedToken, tok, "expected value-set item, got %s %q", tok.typ, tok.text)
	}
}

// parseLiteral implements: literal := STRING ('^^' datatypeIri | '@' LANGTAG)?
func (p *Parser) parseLiteral() (vocab.ValueSetItem, error) {
	strTok, err := p.expect(tokenString)
	if err != nil {
		return vocab.ValueSetItem{}, err
	}

	var datatype *vocab.IRI
	var lang string

	switch p.peek().typ {
	case tokenCaret2:
		p.next()
		dtTok := p.next()
		if dtTok.typ == tokenError {
			return vocab.ValueSetItem{}, p.lexError(dtTok)
		}
		if !isShapeIDToken(dtTok.typ) {
			return vocab.ValueSetItem{}, newParseError(UnexpectedToken, dtTok, "expected datatype IRI after '^^', got %s %q", dtTok.typ, dtTok.text)
		}
		abs, err := p.expandShapeID(dtTok)
		if err != nil {
			return vocab.ValueSetItem{}, err
		}
		iri := vocab.NewIRI(abs)
		datatype = &iri
	case tokenAt:
		p.next()
		tagTok, err := p.expect(tokenLangTag)
		if err != nil {
			return vocab.ValueSetItem{}, err
		}
		lang = tagTok.text
	}

	return vocab.VSILiteral(strTok.text, datatype, lang), nil
}

// parseCardinality implements:
//
//	cardinality := '?' | '*' | '+' | '{' INT (',' (INT | '*'))? '}'
func (p *Parser) parseCardinality() (vocab.Cardinality, error) {
	tok := p.next()
	switch tok.typ {
	case tokenQuestion:
		return vocab.NewCardinality(0, 1), nil
	case tokenStar:
		return vocab.NewCardinality(0, vocab.Unbounded), nil
	case tokenPlus:
		return vocab.NewCardinality(1, vocab.Unbounded), nil
	case tokenLBrace:
		minTok, err := p.expect(tokenInteger)
		if err != nil {
			return vocab.Cardinality{}, requalify(err, InvalidCardinality)
		}
		min, convErr := strconv.Atoi(minTok.text)
		if convErr != nil {
			return vocab.Cardinality{}, newParseError(InvalidCardinality, minTok, "malformed cardinality bound %q", minTok.text)
		}
		max := min
		if p.peek().typ == tokenComma {
			p.next()
			if p.peek().typ == tokenStar {
				p.next()
				max = vocab.Unbounded
			} else {
				maxTok, err := p.expect(tokenInteger)
				if err != nil {
					return vocab.Cardinality{}, requalify(err, InvalidCardinality)
				}
				max, convErr = strconv.Atoi(maxTok.text)
				if convErr != nil {
					return vocab.Cardinality{}, newParseError(InvalidCardinality, maxTok, "malformed cardinality bound %q", maxTok.text)
				}
			}
		}
		closeTok, err := p.expect(tokenRBrace)
		if err != nil {
			return vocab.Cardinality{}, requalify(err, InvalidCardinality)
		}
		c := vocab.NewCardinality(min, max)
		if !c.Valid() {
			return vocab.Cardinality{}, newParseError(InvalidCardinality, closeTok, "invalid cardinality {%d,%d}", min, max)
		}
		// The brace form was chosen even though an abbreviation exists for
		// this (min,max) pair -- remember that so re-emitting the parsed
		// schema reproduces the same braces instead of collapsing to the
		// shorthand (spec.md 8 scenario 5's {0,*} vs * distinction).
		if c.Abbreviation() != "" {
			c.ForceExplicit = true
		}
		return c, nil
	default:
		return vocab.Cardinality{}, newParseError(InvalidCardinality, tok, "expected cardinality marker, got %s %q", tok.typ, tok.text)
	}
}

// requalify recasts a ParseError raised by expect (typically UnexpectedToken)
// as kind when the caller has more specific context, e.g. a malformed
// cardinality body should be reported as InvalidCardinality rather than the
// generic UnexpectedToken expect() produces.
func requalify(err error, kind ErrorKind) error {
	if pe, ok := err.(*ParseError); ok {
		pe.Kind = kind
		return pe
	}
	return err
}
