// Package shaclmodel is the in-memory representation of a SHACL schema, as
// described in spec.md 3.2. A Schema is built in one pass, by either the
// SHACL ingest adapter (internal/shaclrdf) or the ShEx->SHACL converter
// (internal/convert), and is never mutated afterwards.
package shaclmodel

import "github.com/rdfshapes/shapeconv/internal/vocab"

// Schema is a SHACL schema: a prefix table plus an ordered list of node
// shapes. Shape order is insertion order and is preserved through
// conversion and emission, per spec.md 3.4.
type Schema struct {
	Prefixes vocab.PrefixTable
	Shapes   []*NodeShape
}

// NewSchema returns an empty schema seeded with the well-known prefixes.
func NewSchema() *Schema {
	return &Schema{Prefixes: vocab.NewPrefixTable()}
}

// ShapeByID returns the shape with the given expanded id, if present.
func (s *Schema) ShapeByID(id string) (*NodeShape, bool) {
	for _, sh := range s.Shapes {
		if sh.ID == id {
			return sh, true
		}
	}
	return nil, false
}

// NodeShape is a SHACL node shape (spec.md 3.2). ID is always the expanded
// (absolute) IRI of the shape, or a synthesized blank-node label of the
// form "_:bN" when the shape had no IRI.
type NodeShape struct {
	ID                string
	TargetClasses     []string
	TargetNodes       []string
	Properties        []*PropertyShape
	Closed            bool
	IgnoredProperties []string
}

// PropertyShape is a SHACL property shape (spec.md 3.2). Optional scalar
// fields are pointers so that "absent" is distinguishable from the zero
// value, which matters for cardinality defaulting (vocab.FromSHACL).
type PropertyShape struct {
	Path     vocab.Path
	Datatype *string
	ClassRef *string
	NodeKind *vocab.NodeKind
	Min      *int
	Max      *int
	In       []vocab.ValueSetItem
	HasValue *vocab.ValueSetItem
	Pattern  *string
	Or       []*PropertyShape
}

// Cardinality applies the spec.md 8 scenario-5 defaulting rules to this
// property shape's Min/Max.
func (p *PropertyShape) Cardinality() vocab.Cardinality {
	return vocab.FromSHACL(p.Min, p.Max)
}
