package convert

import (
	"fmt"

	"github.com/rdfshapes/shapeconv/internal/shaclmodel"
	"github.com/rdfshapes/shapeconv/internal/shexmodel"
	"github.com/rdfshapes/shapeconv/internal/vocab"
)

// ToSHACL converts a ShEx schema back into a SHACL schema, per spec.md
// 4.4's inverse mapping. Like ToShEx, it never fails on well-formed input.
func ToSHACL(schema *shexmodel.Schema) (*shaclmodel.Schema, []Warning) {
	out := shaclmodel.NewSchema()
	out.Prefixes = schema.Prefixes

	c := &shexToShacl{schema: schema}

	var warnings []Warning
	for _, shape := range schema.Shapes {
		if isAuxRdfTypeShape(shape) {
			// Auxiliary rdf:type-only shapes exist purely to be referenced
			// by a shape ref elsewhere; they are inlined at the reference
			// site (sh:class / sh:or) and never emitted as their own
			// NodeShape.
			continue
		}
		ns, w := c.convertShape(shape)
		warnings = append(warnings, w...)
		out.Shapes = append(out.Shapes, ns)
	}
	return out, warnings
}

type shexToShacl struct {
	schema *shexmodel.Schema
}

// isAuxRdfTypeShape reports whether shape is exactly the synthesized
// `<id> EXTRA rdf:type { rdf:type [C1 C2 ...] }` pattern ToShEx produces
// for sh:class/sh:or (spec.md 4.3), the one shape shape ToSHACL inlines
// rather than re-emitting as its own NodeShape.
func isAuxRdfTypeShape(shape *shexmodel.Shape) bool {
	_, ok := rdfTypeClassSet(shape)
	return ok
}

// rdfTypeClassSet reports whether shape's body is a single triple
// constraint on rdf:type with a pure-IRI value set, and if so returns the
// class IRIs.
func rdfTypeClassSet(shape *shexmodel.Shape) ([]string, bool) {
	tcs := shape.Expression.All()
	if len(tcs) != 1 {
		return nil, false
	}
	tc := tcs[0]
	if tc.Predicate != rdfTypeIRI || tc.Inverse {
		return nil, false
	}
	if tc.ValueExpr.Node == nil || len(tc.ValueExpr.Node.Values) == 0 {
		return nil, false
	}
	classes := make([]string, 0, len(tc.ValueExpr.Node.Values))
	for _, v := range tc.ValueExpr.Node.Values {
		if !v.IsIRI() {
			return nil, false
		}
		classes = append(classes, v.IRI.MustExpand(vocab.PrefixTable{}))
	}
	return classes, true
}

func (c *shexToShacl) convertShape(shape *shexmodel.Shape) (*shaclmodel.NodeShape, []Warning) {
	var warnings []Warning
	ns := &shaclmodel.NodeShape{ID: shape.ID, Closed: shape.Closed}

	for _, tc := range shape.Expression.All() {
		// rdf:type with a pure-IRI value set is promoted to sh:targetClass
		// on the enclosing shape rather than kept as a property shape
		// (spec.md 4.4's asymmetry note).
		if tc.Predicate == rdfTypeIRI && !tc.Inverse {
			if vs := tc.ValueExpr.Node; vs != nil && len(vs.Values) > 0 && allIRI(vs.Values) {
				for _, v := range vs.Values {
					ns.TargetClasses = append(ns.TargetClasses, v.IRI.MustExpand(c.schema.Prefixes))
				}
				continue
			}
		}

		ps, w := c.convertTripleConstraint(shape.ID, tc)
		warnings = append(warnings, w...)
		ns.Properties = append(ns.Properties, ps)
	}

	for _, extra := range shape.Extra {
		if extra != rdfTypeIRI {
			warnings = append(warnings, warnUnsupported(shape.ID, fmt.Sprintf("EXTRA %s has no sh:property equivalent, dropped", extra)))
		}
	}

	return ns, warnings
}

func allIRI(items []vocab.ValueSetItem) bool {
	for _, v := range items {
		if !v.IsIRI() {
			return false
		}
	}
	return true
}

func (c *shexToShacl) convertTripleConstraint(owner string, tc *shexmodel.TripleConstraint) (*shaclmodel.PropertyShape, []Warning) {
	var warnings []Warning
	ps := &shaclmodel.PropertyShape{}

	if tc.Inverse {
		ps.Path = vocab.InversePath(vocab.NewIRI(tc.Predicate))
	} else {
		ps.Path = vocab.Direct(vocab.NewIRI(tc.Predicate))
	}

	// Inverts vocab.FromSHACL's defaulting (spec.md 8 scenario 5): a
	// cardinality of exactly (0,*) carries no SHACL field at all, an
	// unbounded max or a zero min carries only the field that was
	// actually declared, and anything else carries both.
	card := tc.Cardinality
	switch {
	case card.Min == 0 && card.Max == vocab.Unbounded:
	case card.Max == vocab.Unbounded:
		min := card.Min
		ps.Min = &min
	case card.Min == 0:
		max := card.Max
		ps.Max = &max
	default:
		min, max := card.Min, card.Max
		ps.Min = &min
		ps.Max = &max
	}

	ve := tc.ValueExpr
	switch {
	case ve.Ref != nil:
		w := c.inlineShapeRef(owner, ve.Ref.ID, ps)
		warnings = append(warnings, w...)
	case len(ve.OneOf) > 0:
		for _, ref := range ve.OneOf {
			branch := &shaclmodel.PropertyShape{}
			w := c.inlineShapeRef(owner, ref.ID, branch)
			warnings = append(warnings, w...)
			ps.Or = append(ps.Or, branch)
		}
	case ve.Node != nil:
		c.convertNodeConstraint(ve.Node, ps)
	}

	return ps, warnings
}

// inlineShapeRef resolves a ShExC shape reference back into SHACL terms,
// per spec.md 4.4: a reference to a named user shape becomes sh:class
// directly; a reference to a synthesized rdf:type-only auxiliary shape is
// inlined as sh:class (single class) or as an sh:or of sh:class branches
// on target (multiple classes).
func (c *shexToShacl) inlineShapeRef(owner, id string, target *shaclmodel.PropertyShape) []Warning {
	shape, ok := c.schema.ShapeByID(id)
	if !ok {
		return []Warning{warnUnsupported(owner, fmt.Sprintf("shape reference to unknown id %q", id))}
	}
	if classes, ok := rdfTypeClassSet(shape); ok {
		if len(classes) == 1 {
			target.ClassRef = &classes[0]
			return nil
		}
		for _, cl := range classes {
			target.Or = append(target.Or, &shaclmodel.PropertyShape{ClassRef: &cl})
		}
		return nil
	}
	// A reference to a genuine user-authored shape, not an aux class set:
	// SHACL has no "nested shape" value expression outside sh:node, so this
	// degrades to sh:class naming the referenced shape's own id.
	target.ClassRef = &shape.ID
	return nil
}

func (c *shexToShacl) convertNodeConstraint(nc *shexmodel.NodeConstraint, ps *shaclmodel.PropertyShape) {
	switch {
	case nc.NodeKind != nil:
		ps.NodeKind = nc.NodeKind
	case nc.Datatype != nil:
		ps.Datatype = nc.Datatype
	case len(nc.Values) == 1 && nc.Values[0].IsStem():
		// Only the operator set iriStemPrefix disqualifies is escaped; `.`
		// and the other ordinary IRI characters are kept as written.
		pattern := "^" + patternMeta.ReplaceAllString(nc.Values[0].StemPrefix, `\$0`)
		ps.Pattern = &pattern
	case len(nc.Values) == 1:
		v := nc.Values[0]
		ps.HasValue = &v
	case len(nc.Values) > 1:
		ps.In = nc.Values
	}
}
