package convert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/rdfshapes/shapeconv/internal/shaclmodel"
	"github.com/rdfshapes/shapeconv/internal/vocab"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestToShExSimpleClassAndProperty(t *testing.T) {
	schema := shaclmodel.NewSchema()
	ns := &shaclmodel.NodeShape{
		ID:            "http://example.org/Person",
		TargetClasses: []string{"http://example.org/Person"},
		Properties: []*shaclmodel.PropertyShape{
			{
				Path:     vocab.Direct(vocab.NewIRI("http://example.org/name")),
				Datatype: strp(vocab.NSXSD + "string"),
				Min:      intp(1),
				Max:      intp(1),
			},
		},
	}
	schema.Shapes = append(schema.Shapes, ns)

	out, warnings := ToShEx(schema)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(out.Shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(out.Shapes))
	}
	shape := out.Shapes[0]
	if shape.ID != "http://example.org/Person" {
		t.Errorf("shape.ID = %q", shape.ID)
	}
	tcs := shape.Expression.All()
	if len(tcs) != 2 {
		t.Fatalf("got %d triple constraints, want 2 (rdf:type + name)", len(tcs))
	}
	if tcs[0].Predicate != rdfTypeIRI {
		t.Errorf("tcs[0].Predicate = %q, want rdf:type", tcs[0].Predicate)
	}
	if !tcs[1].Cardinality.IsDefault() {
		t.Errorf("tcs[1].Cardinality = %+v, want default", tcs[1].Cardinality)
	}
}

func TestToShExSynthesizesAuxShapeForClass(t *testing.T) {
	schema := shaclmodel.NewSchema()
	class := "http://example.org/Animal"
	ns := &shaclmodel.NodeShape{
		ID: "_:b1",
		Properties: []*shaclmodel.PropertyShape{
			{
				Path:     vocab.Direct(vocab.NewIRI("http://example.org/pet")),
				ClassRef: &class,
			},
		},
	}
	schema.Shapes = append(schema.Shapes, ns)

	out, warnings := ToShEx(schema)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(out.Shapes) != 2 {
		t.Fatalf("got %d shapes, want 2 (principal + aux)", len(out.Shapes))
	}
	aux := out.Shapes[1]
	if aux.ID != AuxNS+"AnimalAux" {
		t.Errorf("aux.ID = %q", aux.ID)
	}
	tc := aux.Expression.All()[0]
	if tc.Predicate != rdfTypeIRI || len(tc.ValueExpr.Node.Values) != 1 {
		t.Errorf("aux shape body = %+v", tc)
	}
}

func TestToShExSameClassSetDedupsAuxShape(t *testing.T) {
	schema := shaclmodel.NewSchema()
	a, b := "http://example.org/A", "http://example.org/B"
	mk := func(id string) *shaclmodel.NodeShape {
		return &shaclmodel.NodeShape{
			ID: id,
			Properties: []*shaclmodel.PropertyShape{
				{
					Path: vocab.Direct(vocab.NewIRI("http://example.org/p")),
					Or: []*shaclmodel.PropertyShape{
						{ClassRef: &a},
						{ClassRef: &b},
					},
				},
			},
		}
	}
	schema.Shapes = append(schema.Shapes, mk("_:b1"), mk("_:b2"))

	out, _ := ToShEx(schema)
	auxCount := 0
	for _, s := range out.Shapes {
		if s.ID == AuxNS+"AOrBAux" {
			auxCount++
		}
	}
	if auxCount != 1 {
		t.Errorf("expected exactly one deduped aux shape, found matching count %d among %d shapes", auxCount, len(out.Shapes))
	}
}

func TestToShExDropsUnsupportedPatternWithWarning(t *testing.T) {
	schema := shaclmodel.NewSchema()
	pattern := "foo.*bar"
	ns := &shaclmodel.NodeShape{
		ID: "http://example.org/S",
		Properties: []*shaclmodel.PropertyShape{
			{
				Path:    vocab.Direct(vocab.NewIRI("http://example.org/p")),
				Pattern: &pattern,
			},
		},
	}
	schema.Shapes = append(schema.Shapes, ns)

	_, warnings := ToShEx(schema)
	if len(warnings) != 1 || warnings[0].Kind != DroppedPattern {
		t.Fatalf("warnings = %+v, want one DroppedPattern", warnings)
	}
}

func TestToShExCompositeNodeKindDroppedWithWarning(t *testing.T) {
	schema := shaclmodel.NewSchema()
	nk := vocab.BlankNodeOrLiteral
	ns := &shaclmodel.NodeShape{
		ID: "http://example.org/S",
		Properties: []*shaclmodel.PropertyShape{
			{
				Path:     vocab.Direct(vocab.NewIRI("http://example.org/p")),
				NodeKind: &nk,
			},
		},
	}
	schema.Shapes = append(schema.Shapes, ns)

	out, warnings := ToShEx(schema)
	if len(warnings) != 1 || warnings[0].Kind != UnsupportedConstruct {
		t.Fatalf("warnings = %+v, want one UnsupportedConstruct", warnings)
	}
	tcs := out.Shapes[0].Expression.All()
	tc := tcs[len(tcs)-1]
	nc := tc.ValueExpr.Node
	if nc == nil || nc.NodeKind != nil || nc.Datatype != nil || len(nc.Values) != 0 {
		t.Errorf("ValueExpr.Node = %+v, want an empty NodeConstraint (emits as the ShExC wildcard)", nc)
	}
}

// TestToShExThenToSHACLThenToShExIsStable converts a SHACL schema to ShEx,
// back to SHACL, then to ShEx again, and diffs the two ShEx trees
// structurally with go-cmp: a shape surviving two conversions should come
// out byte-for-byte identical in its model form, not just superficially
// similar.
func TestToShExThenToSHACLThenToShExIsStable(t *testing.T) {
	schema := shaclmodel.NewSchema()
	ns := &shaclmodel.NodeShape{
		ID:            "http://example.org/Person",
		TargetClasses: []string{"http://example.org/Person"},
		Closed:        true,
		Properties: []*shaclmodel.PropertyShape{
			{
				Path:     vocab.Direct(vocab.NewIRI("http://example.org/name")),
				Datatype: strp(vocab.NSXSD + "string"),
				Min:      intp(1),
				Max:      intp(1),
			},
			{
				Path: vocab.Direct(vocab.NewIRI("http://example.org/status")),
				In: []vocab.ValueSetItem{
					vocab.VSIIri(vocab.NewIRI("http://example.org/Active")),
					vocab.VSIIri(vocab.NewIRI("http://example.org/Inactive")),
				},
			},
		},
	}
	schema.Shapes = append(schema.Shapes, ns)

	shex1, warnings := ToShEx(schema)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings on first pass: %v", warnings)
	}

	shacl2, warnings := ToSHACL(shex1)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings converting back to SHACL: %v", warnings)
	}

	shex2, warnings := ToShEx(shacl2)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings on second ShEx pass: %v", warnings)
	}

	opts := cmp.Options{cmpopts.IgnoreUnexported(vocab.ValueSetItem{}), cmp.AllowUnexported(vocab.IRI{})}
	if diff := cmp.Diff(shex1.Shapes, shex2.Shapes, opts); diff != "" {
		t.Errorf("shape tree changed across a SHACL round trip (-first +second):\n%s", diff)
	}
}

func TestToShExIriStemPattern(t *testing.T) {
	cases := map[string]struct {
		ok     bool
		prefix string
	}{
		"^http://example.org/people/": {true, "http://example.org/people/"},
		"^http://example/item/":       {true, "http://example/item/"},
		"^foo.*":                      {false, ""},
		"no-caret":                    {false, ""},
	}
	for pattern, want := range cases {
		got, ok := iriStemPrefix(pattern)
		if ok != want.ok || (ok && got != want.prefix) {
			t.Errorf("iriStemPrefix(%q) = (%q, %v), want (%q, %v)", pattern, got, ok, want.prefix, want.ok)
		}
	}
}
