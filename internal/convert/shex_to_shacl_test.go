package convert

import (
	"testing"

	"github.com/rdfshapes/shapeconv/internal/shexmodel"
	"github.com/rdfshapes/shapeconv/internal/vocab"
)

func TestToSHACLPromotesRdfTypeToTargetClass(t *testing.T) {
	schema := shexmodel.NewSchema()
	shape := &shexmodel.Shape{
		ID:    "http://example.org/Person",
		Extra: []string{rdfTypeIRI},
		Expression: shexmodel.Conjunction([]*shexmodel.TripleConstraint{
			{
				Predicate:   rdfTypeIRI,
				ValueExpr:   shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Values: []vocab.ValueSetItem{vocab.VSIIri(vocab.NewIRI("http://example.org/Person"))}}},
				Cardinality: vocab.Default,
			},
			{
				Predicate:   "http://example.org/name",
				ValueExpr:   shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Datatype: strp(vocab.NSXSD + "string")}},
				Cardinality: vocab.Default,
			},
		}),
	}
	schema.Shapes = append(schema.Shapes, shape)

	out, warnings := ToSHACL(schema)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(out.Shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(out.Shapes))
	}
	ns := out.Shapes[0]
	if len(ns.TargetClasses) != 1 || ns.TargetClasses[0] != "http://example.org/Person" {
		t.Errorf("TargetClasses = %v", ns.TargetClasses)
	}
	if len(ns.Properties) != 1 || *ns.Properties[0].Datatype != vocab.NSXSD+"string" {
		t.Errorf("Properties = %+v", ns.Properties)
	}
}

func TestToSHACLSkipsAuxRdfTypeShape(t *testing.T) {
	schema := shexmodel.NewSchema()
	aux := &shexmodel.Shape{
		ID:    AuxNS + "AnimalAux",
		Extra: []string{rdfTypeIRI},
		Expression: shexmodel.SingleConstraint(&shexmodel.TripleConstraint{
			Predicate:   rdfTypeIRI,
			ValueExpr:   shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Values: []vocab.ValueSetItem{vocab.VSIIri(vocab.NewIRI("http://example.org/Animal"))}}},
			Cardinality: vocab.Default,
		}),
	}
	principal := &shexmodel.Shape{
		ID: "http://example.org/Owner",
		Expression: shexmodel.SingleConstraint(&shexmodel.TripleConstraint{
			Predicate:   "http://example.org/pet",
			ValueExpr:   shexmodel.ValueExpr{Ref: &shexmodel.ShapeRef{ID: aux.ID}},
			Cardinality: vocab.Default,
		}),
	}
	schema.Shapes = append(schema.Shapes, principal, aux)

	out, warnings := ToSHACL(schema)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(out.Shapes) != 1 {
		t.Fatalf("got %d shapes, want 1 (aux shape should be inlined, not re-emitted)", len(out.Shapes))
	}
	ps := out.Shapes[0].Properties[0]
	if ps.ClassRef == nil || *ps.ClassRef != "http://example.org/Animal" {
		t.Errorf("Properties[0].ClassRef = %v, want inlined sh:class", ps.ClassRef)
	}
}

func TestToSHACLCardinalityInversion(t *testing.T) {
	cases := []struct {
		name      string
		card      vocab.Cardinality
		wantMin   *int
		wantMax   *int
	}{
		{"(0,Unbounded) forced explicit has no SHACL fields", vocab.Cardinality{Min: 0, Max: vocab.Unbounded, ForceExplicit: true}, nil, nil},
		{"(0,Unbounded) unforced has no SHACL fields either", vocab.Cardinality{Min: 0, Max: vocab.Unbounded}, nil, nil},
		{"(2,Unbounded) keeps only min", vocab.Cardinality{Min: 2, Max: vocab.Unbounded}, intp(2), nil},
		{"(0,4) keeps only max", vocab.Cardinality{Min: 0, Max: 4}, nil, intp(4)},
		{"(1,1) keeps both", vocab.Cardinality{Min: 1, Max: 1}, intp(1), intp(1)},
		{"(2,4) keeps both", vocab.Cardinality{Min: 2, Max: 4}, intp(2), intp(4)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schema := shexmodel.NewSchema()
			shape := &shexmodel.Shape{
				ID: "http://example.org/S",
				Expression: shexmodel.SingleConstraint(&shexmodel.TripleConstraint{
					Predicate:   "http://example.org/p",
					ValueExpr:   shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Datatype: strp(vocab.NSXSD + "string")}},
					Cardinality: tc.card,
				}),
			}
			schema.Shapes = append(schema.Shapes, shape)

			out, _ := ToSHACL(schema)
			ps := out.Shapes[0].Properties[0]
			assertIntPtrEq(t, "Min", ps.Min, tc.wantMin)
			assertIntPtrEq(t, "Max", ps.Max, tc.wantMax)
		})
	}
}

func assertIntPtrEq(t *testing.T, field string, got, want *int) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("%s = %v, want %v", field, derefOrNil(got), derefOrNil(want))
	case *got != *want:
		t.Errorf("%s = %d, want %d", field, *got, *want)
	}
}

func derefOrNil(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func TestToSHACLSingleValueBecomesHasValue(t *testing.T) {
	schema := shexmodel.NewSchema()
	shape := &shexmodel.Shape{
		ID: "http://example.org/S",
		Expression: shexmodel.SingleConstraint(&shexmodel.TripleConstraint{
			Predicate:   "http://example.org/status",
			ValueExpr:   shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Values: []vocab.ValueSetItem{vocab.VSIIri(vocab.NewIRI("http://example.org/Active"))}}},
			Cardinality: vocab.Default,
		}),
	}
	schema.Shapes = append(schema.Shapes, shape)

	out, _ := ToSHACL(schema)
	ps := out.Shapes[0].Properties[0]
	if ps.HasValue == nil || !ps.HasValue.IsIRI() {
		t.Errorf("HasValue = %v, want single IRI", ps.HasValue)
	}
	if ps.In != nil {
		t.Errorf("In = %v, want nil", ps.In)
	}
}

func TestToSHACLMultiValueBecomesIn(t *testing.T) {
	schema := shexmodel.NewSchema()
	shape := &shexmodel.Shape{
		ID: "http://example.org/S",
		Expression: shexmodel.SingleConstraint(&shexmodel.TripleConstraint{
			Predicate: "http://example.org/status",
			ValueExpr: shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Values: []vocab.ValueSetItem{
				vocab.VSIIri(vocab.NewIRI("http://example.org/Active")),
				vocab.VSIIri(vocab.NewIRI("http://example.org/Inactive")),
			}}},
			Cardinality: vocab.Default,
		}),
	}
	schema.Shapes = append(schema.Shapes, shape)

	out, _ := ToSHACL(schema)
	ps := out.Shapes[0].Properties[0]
	if ps.HasValue != nil {
		t.Errorf("HasValue = %v, want nil", ps.HasValue)
	}
	if len(ps.In) != 2 {
		t.Errorf("In = %v, want 2 items", ps.In)
	}
}

func TestToSHACLStemBecomesPattern(t *testing.T) {
	schema := shexmodel.NewSchema()
	shape := &shexmodel.Shape{
		ID: "http://example.org/S",
		Expression: shexmodel.SingleConstraint(&shexmodel.TripleConstraint{
			Predicate:   "http://example.org/page",
			ValueExpr:   shexmodel.ValueExpr{Node: &shexmodel.NodeConstraint{Values: []vocab.ValueSetItem{vocab.VSIStem("http://example.org/page/")}}},
			Cardinality: vocab.Default,
		}),
	}
	schema.Shapes = append(schema.Shapes, shape)

	out, _ := ToSHACL(schema)
	ps := out.Shapes[0].Properties[0]
	if ps.Pattern == nil || *ps.Pattern != "^http://example.org/page/" {
		t.Errorf("Pattern = %v", ps.Pattern)
	}
}
