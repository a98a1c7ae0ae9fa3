package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rdfshapes/shapeconv/internal/shaclmodel"
	"github.com/rdfshapes/shapeconv/internal/shexmodel"
	"github.com/rdfshapes/shapeconv/internal/vocab"
)

const rdfTypeIRI = vocab.NSRDF + "type"

// ToShEx converts a SHACL schema into a ShEx schema, per spec.md 4.3's
// conversion table. It never fails: anything the ShExC grammar can't
// express exactly is either dropped (with a Warning) or approximated.
func ToShEx(schema *shaclmodel.Schema) (*shexmodel.Schema, []Warning) {
	out := shexmodel.NewSchema()
	// Copy the prefix table so declaring shexaux leaves the input untouched.
	out.Prefixes = vocab.EmptyPrefixTable()
	for _, p := range schema.Prefixes.Prefixes() {
		out.Prefixes.Set(p, schema.Prefixes.Namespace(p))
	}
	out.Prefixes.Set("shexaux", AuxNS)

	c := &shaclToShex{
		out:   out,
		aux:   newAuxAllocator(),
		ids:   map[*shaclmodel.NodeShape]string{},
		names: 0,
	}

	for _, ns := range schema.Shapes {
		c.ids[ns] = principalShapeID(ns, &c.names)
	}

	var warnings []Warning
	for _, ns := range schema.Shapes {
		w := c.convertNodeShape(ns)
		warnings = append(warnings, w...)
	}
	// Auxiliary shapes are appended after every principal shape, in
	// allocation order. A forward sh:class reference to a shape converted
	// later resolves because every principal id was assigned above, before
	// any shape was converted.
	out.Shapes = append(out.Shapes, c.auxShapes...)

	return out, warnings
}

type shaclToShex struct {
	out       *shexmodel.Schema
	aux       *auxAllocator
	auxShapes []*shexmodel.Shape
	ids       map[*shaclmodel.NodeShape]string
	names     int
}

// shapeIDByClass looks up a principal shape whose own IRI equals class, so
// sh:class can reference a named user shape directly instead of
// synthesizing an auxiliary one (spec.md 4.3).
func (c *shaclToShex) shapeIDByClass(class string) (string, bool) {
	for ns, id := range c.ids {
		if ns.ID == class {
			return id, true
		}
	}
	return "", false
}

func (c *shaclToShex) convertNodeShape(ns *shaclmodel.NodeShape) []Warning {
	var warnings []Warning
	shape := &shexmodel.Shape{
		ID:    c.ids[ns],
		Extra: []string{rdfTypeIRI},
	}

	var tcs []*shexmodel.TripleConstraint
	if len(ns.TargetClasses) > 0 {
		card := vocab.Default
		if len(ns.TargetClasses) > 1 {
			card = vocab.Cardinality{Min: 1, Max: vocab.Unbounded}
		}
		items := make([]vocab.ValueSetItem, len(ns.TargetClasses))
		for i, cl := range ns.TargetClasses {
			items[i] = vocab.VSIIri(vocab.NewIRI(cl))
		}
		tcs = append(tcs, &shexmodel.TripleConstraint{
			Predicate:   rdfTypeIRI,
			ValueExpr:   shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Values: items}},
			Cardinality: card,
		})
	}

	for _, ps := range ns.Properties {
		tc, w := c.convertPropertyShape(ns.ID, ps)
		warnings = append(warnings, w...)
		tcs = append(tcs, tc)
	}

	shape.Expression = shexmodel.Conjunction(tcs)
	c.out.Shapes = append(c.out.Shapes, shape)
	return warnings
}

func (c *shaclToShex) convertPropertyShape(owner string, ps *shaclmodel.PropertyShape) (*shexmodel.TripleConstraint, []Warning) {
	var warnings []Warning
	tc := &shexmodel.TripleConstraint{
		Predicate:   ps.Path.Predicate.MustExpand(c.out.Prefixes),
		Inverse:     ps.Path.Inverse,
		Cardinality: ps.Cardinality(),
	}

	ve, w := c.convertValueExpr(owner, ps)
	warnings = append(warnings, w...)
	tc.ValueExpr = ve
	return tc, warnings
}

func (c *shaclToShex) convertValueExpr(owner string, ps *shaclmodel.PropertyShape) (shexmodel.ValueExpr, []Warning) {
	var warnings []Warning

	if len(ps.Or) > 0 {
		classes, ok := orClassRefs(ps.Or)
		if ok {
			id := c.auxClassShape(classes)
			return shexmodel.ValueExpr{Ref: &shexmodel.ShapeRef{ID: id}}, warnings
		}
		warnings = append(warnings, warnUnsupported(owner, "sh:or with non-class-ref branches has no ShExC counterpart, dropped"))
		return shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{}}, warnings
	}

	if ps.ClassRef != nil {
		if id, ok := c.shapeIDByClass(*ps.ClassRef); ok {
			return shexmodel.ValueExpr{Ref: &shexmodel.ShapeRef{ID: id}}, warnings
		}
		id := c.auxClassShape([]string{*ps.ClassRef})
		return shexmodel.ValueExpr{Ref: &shexmodel.ShapeRef{ID: id}}, warnings
	}

	nc := &shexmodel.NodeConstraint{}
	switch {
	case ps.Datatype != nil:
		nc.Datatype = ps.Datatype
	case ps.NodeKind != nil:
		if _, ok := ps.NodeKind.ShExCKeyword(); ok {
			nc.NodeKind = ps.NodeKind
		} else {
			name, _ := ps.NodeKind.SHACLTerm()
			warnings = append(warnings, warnUnsupported(owner, fmt.Sprintf("sh:nodeKind sh:%s has no ShExC keyword, dropped", name)))
		}
	case ps.HasValue != nil:
		nc.Values = []vocab.ValueSetItem{*ps.HasValue}
	case len(ps.In) > 0:
		nc.Values = ps.In
	case ps.Pattern != nil:
		if prefix, ok := iriStemPrefix(*ps.Pattern); ok {
			nc.Values = []vocab.ValueSetItem{vocab.VSIStem(prefix)}
		} else {
			warnings = append(warnings, warnDroppedPattern(owner, *ps.Pattern))
		}
	}

	// Always return a non-empty ValueExpr: a shape with no constraint at
	// all (or one whose sole constraint was just dropped above) still
	// needs something to emit, and emitNodeConstraint's zero-value case
	// renders the ShExC wildcard "." for exactly this.
	return shexmodel.ValueExpr{Node: nc}, warnings
}

// auxClassShape allocates (or reuses) the auxiliary shape for an
// rdf:type-constrained value set over classes, registers it with the
// output schema exactly once, and returns its ShExC id.
func (c *shaclToShex) auxClassShape(classes []string) string {
	seedID := c.aux.allocate(classes)
	id := AuxNS + seedID
	if c.hasAuxShape(id) {
		return id
	}

	items := make([]vocab.ValueSetItem, len(classes))
	for i, cl := range classes {
		items[i] = vocab.VSIIri(vocab.NewIRI(cl))
	}
	shape := &shexmodel.Shape{
		ID:    id,
		Extra: []string{rdfTypeIRI},
		Expression: shexmodel.SingleConstraint(&shexmodel.TripleConstraint{
			Predicate:   rdfTypeIRI,
			ValueExpr:   shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Values: items}},
			Cardinality: vocab.Default,
		}),
	}
	c.auxShapes = append(c.auxShapes, shape)
	return shape.ID
}

func (c *shaclToShex) hasAuxShape(id string) bool {
	for _, s := range c.auxShapes {
		if s.ID == id {
			return true
		}
	}
	return false
}

// orClassRefs reports whether every branch of an sh:or is a bare sh:class
// constraint (spec.md 4.3's "sh:or(A,B,...) of class refs" case), and if
// so returns the class IRIs in branch order.
func orClassRefs(branches []*shaclmodel.PropertyShape) ([]string, bool) {
	classes := make([]string, 0, len(branches))
	for _, b := range branches {
		if b.ClassRef == nil || b.Datatype != nil || b.NodeKind != nil ||
			b.HasValue != nil || len(b.In) > 0 || b.Pattern != nil || len(b.Or) > 0 {
			return nil, false
		}
		classes = append(classes, *b.ClassRef)
	}
	return classes, true
}

// iriStemPrefix recognizes the one sh:pattern shape the ShExC grammar can
// represent: an anchored literal prefix with no other regex metacharacters.
// `.` `/` `-` `#` `:` are ordinary IRI characters, not operators, so they're
// excluded from the disqualifying set even though `.` is a regex metachar.
var patternMeta = regexp.MustCompile(`[*+?()\[\]{}|\\$]`)

func iriStemPrefix(pattern string) (string, bool) {
	if !strings.HasPrefix(pattern, "^") {
		return "", false
	}
	rest := pattern[1:]
	if patternMeta.MatchString(rest) {
		return "", false
	}
	return rest, true
}
