package shexc

import (
	"bytes"
	"fmt"

	"github.com/rdfshapes/shapeconv/internal/shexmodel"
	"github.com/rdfshapes/shapeconv/internal/vocab"
)

// Emit renders schema as ShExC text, deterministically, per spec.md 4.5:
// prefixes first in lexicographic order, then shapes in model (insertion)
// order, one triple constraint per line. Built on a bytes.Buffer the way
// the teacher's TripleEncoder builds onto its bufio.Writer.
func Emit(schema *shexmodel.Schema) (string, error) {
	var buf bytes.Buffer
	e := &emitter{buf: &buf, prefixes: schema.Prefixes}

	for _, prefix := range schema.Prefixes.Prefixes() {
		fmt.Fprintf(&buf, "PREFIX %s: <%s>\n", prefix, schema.Prefixes.Namespace(prefix))
	}
	if len(schema.Prefixes.Prefixes()) > 0 {
		buf.WriteByte('\n')
	}

	for i, shape := range schema.Shapes {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if err := e.emitShape(shape); err != nil {
			return "", err
		}
	}

	return buf.String(), nil
}

type emitter struct {
	buf      *bytes.Buffer
	prefixes vocab.PrefixTable
}

func (e *emitter) compact(abs string) string {
	if _, _, ok := e.prefixes.LongestMatch(abs); ok {
		return vocab.NewIRI(abs).Compact(e.prefixes)
	}
	return "<" + abs + ">"
}

func (e *emitter) emitShape(shape *shexmodel.Shape) error {
	fmt.Fprintf(e.buf, "%s", e.compact(shape.ID))
	if len(shape.Extra) > 0 {
		e.buf.WriteString(" EXTRA")
		for _, iri := range shape.Extra {
			e.buf.WriteByte(' ')
			e.buf.WriteString(e.compact(iri))
		}
	}
	if shape.Closed {
		e.buf.WriteString(" CLOSED")
	}

	if shape.Expression.IsEmpty() {
		e.buf.WriteString(" {}\n")
		return nil
	}

	e.buf.WriteString(" {\n")
	tcs := shape.Expression.All()
	for i, tc := range tcs {
		e.buf.WriteString("    ")
		if err := e.emitTripleConstraint(tc); err != nil {
			return err
		}
		if i < len(tcs)-1 {
			e.buf.WriteString(" ;")
		}
		e.buf.WriteByte('\n')
	}
	e.buf.WriteString("}\n")
	return nil
}

func (e *emitter) emitTripleConstraint(tc *shexmodel.TripleConstraint) error {
	if tc.Inverse {
		e.buf.WriteByte('^')
	}
	e.buf.WriteString(e.compact(tc.Predicate))
	e.buf.WriteByte(' ')
	if err := e.emitValueExpr(tc.ValueExpr); err != nil {
		return err
	}
	if s := e.cardinalityText(tc.Cardinality); s != "" {
		e.buf.WriteByte(' ')
		e.buf.WriteString(s)
	}
	return nil
}

// cardinalityText applies spec.md 8 invariant 4: every emitted triple
// constraint carries an explicit cardinality marker unless the semantic is
// exactly (1,1).
func (e *emitter) cardinalityText(c vocab.Cardinality) string {
	if c.IsDefault() && !c.ForceExplicit {
		return ""
	}
	return c.String()
}

func (e *emitter) emitValueExpr(ve shexmodel.ValueExpr) error {
	switch {
	case ve.Ref != nil:
		e.buf.WriteByte('@')
		e.buf.WriteString(e.compact(ve.Ref.ID))
		return nil
	case len(ve.OneOf) > 0:
		e.buf.WriteByte('(')
		for i, ref := range ve.OneOf {
			if i > 0 {
				e.buf.WriteString(" OR ")
			}
			e.buf.WriteByte('@')
			e.buf.WriteString(e.compact(ref.ID))
		}
		e.buf.WriteByte(')')
		return nil
	case ve.Node != nil:
		return e.emitNodeConstraint(ve.Node)
	default:
		return fmt.Errorf("shexc: empty value expression")
	}
}

func (e *emitter) emitNodeConstraint(nc *shexmodel.NodeConstraint) error {
	switch {
	case nc.NodeKind != nil:
		kw, ok := nc.NodeKind.ShExCKeyword()
		if !ok {
			return fmt.Errorf("shexc: node kind %v has no ShExC keyword", *nc.NodeKind)
		}
		e.buf.WriteString(kw)
		return nil
	case nc.Datatype != nil:
		e.buf.WriteString(e.compact(*nc.Datatype))
		return nil
	case len(nc.Values) > 0:
		return e.emitValueSet(nc.Values)
	default:
		e.buf.WriteByte('.')
		return nil
	}
}

func (e *emitter) emitValueSet(items []vocab.ValueSetItem) error {
	e.buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			e.buf.WriteByte(' ')
		}
		switch {
		case item.IsStem():
			e.buf.WriteByte('<')
			e.buf.WriteString(item.StemPrefix)
			e.buf.WriteString(">~")
		case item.IsIRI():
			e.buf.WriteString(e.compact(item.IRI.MustExpand(e.prefixes)))
		case item.IsLiteral():
			fmt.Fprintf(e.buf, "%q", item.Lex)
			if item.Datatype != nil {
				e.buf.WriteString("^^")
				e.buf.WriteString(e.compact(item.Datatype.MustExpand(e.prefixes)))
			} else if item.Lang != "" {
				e.buf.WriteByte('@')
				e.buf.WriteString(item.Lang)
			}
		}
	}
	e.buf.WriteByte(']')
	return nil
}
