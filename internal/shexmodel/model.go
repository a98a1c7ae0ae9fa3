// Package shexmodel is the in-memory representation of a ShEx schema, as
// described in spec.md 3.3. A Schema is built in one pass, by either the
// ShExC parser (internal/shexc) or the SHACL->ShEx converter
// (internal/convert), and is never mutated afterwards. Cross-shape
// references are by IRI lookup (ShapeRef.ID into Schema.ShapeByID), never
// by pointer, so the model is a forest of owning trees plus a lookup table
// (spec.md 9).
package shexmodel

import "github.com/rdfshapes/shapeconv/internal/vocab"

// Schema is a ShEx schema.
type Schema struct {
	Prefixes vocab.PrefixTable
	Base     string
	Shapes   []*Shape
}

// NewSchema returns an empty schema seeded with the well-known prefixes.
func NewSchema() *Schema {
	return &Schema{Prefixes: vocab.NewPrefixTable()}
}

// ShapeByID returns the shape with the given expanded id, if present.
func (s *Schema) ShapeByID(id string) (*Shape, bool) {
	for _, sh := range s.Shapes {
		if sh.ID == id {
			return sh, true
		}
	}
	return nil, false
}

// Shape is a named ShEx shape.
type Shape struct {
	ID         string
	Extra      []string
	Closed     bool
	Expression TripleExpression
}

// TripleExpression is either a single TripleConstraint or a flat
// conjunction of them (spec.md 3.3: "sole nesting supported").
type TripleExpression struct {
	// Single, when non-nil and Conjuncts is empty, is a bare triple
	// constraint shape body, e.g. `<S> { p1 NODECONSTRAINT }`.
	Single *TripleConstraint
	// Conjuncts holds two or more triple constraints joined by ';'.
	Conjuncts []*TripleConstraint
}

// IsEmpty reports whether the expression has no constraints at all (an
// empty shape body `{}`).
func (e TripleExpression) IsEmpty() bool {
	return e.Single == nil && len(e.Conjuncts) == 0
}

// All returns the constraints of the expression in order, regardless of
// whether it is a single constraint or a conjunction.
func (e TripleExpression) All() []*TripleConstraint {
	if e.Single != nil {
		return []*TripleConstraint{e.Single}
	}
	return e.Conjuncts
}

// SingleConstraint builds a TripleExpression wrapping exactly one
// constraint.
func SingleConstraint(tc *TripleConstraint) TripleExpression {
	return TripleExpression{Single: tc}
}

// Conjunction builds a TripleExpression from two or more constraints.
func Conjunction(tcs []*TripleConstraint) TripleExpression {
	if len(tcs) == 1 {
		return SingleConstraint(tcs[0])
	}
	return TripleExpression{Conjuncts: tcs}
}

// TripleConstraint constrains the values reachable via a single predicate
// (spec.md 3.3).
type TripleConstraint struct {
	Predicate   string
	Inverse     bool
	ValueExpr   ValueExpr
	Cardinality vocab.Cardinality
}

// ValueExpr is the value expression of a triple constraint: a node
// constraint, a single shape reference, or a disjunction of shape
// references (spec.md 4.1 grammar: '(' shapeRef ('OR' shapeRef)+ ')').
type ValueExpr struct {
	Node  *NodeConstraint
	Ref   *ShapeRef
	OneOf []ShapeRef
}

// IsEmpty reports a value expression with nothing set at all. The ShExC
// emitter rejects such an expression; the "." wildcard is represented as an
// empty NodeConstraint instead.
func (v ValueExpr) IsEmpty() bool {
	return v.Node == nil && v.Ref == nil && len(v.OneOf) == 0
}

// NodeConstraint restricts node kind, datatype, value set and/or IRI stem
// (spec.md 3.3).
type NodeConstraint struct {
	NodeKind *vocab.NodeKind
	Datatype *string
	Values   []vocab.ValueSetItem
}

// IsWildcard reports a node constraint with nothing set, i.e. "any node".
func (n *NodeConstraint) IsWildcard() bool {
	return n == nil || (n.NodeKind == nil && n.Datatype == nil && len(n.Values) == 0)
}

// ShapeRef is a reference to another shape by id, `@<id>`.
type ShapeRef struct {
	ID string
}
