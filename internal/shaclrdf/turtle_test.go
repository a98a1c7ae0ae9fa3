package shaclrdf

import (
	"strings"
	"testing"
)

func TestParseTurtleAndIngest(t *testing.T) {
	src := `
@prefix sh: <http://www.w3.org/ns/shacl#> .
@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

ex:PersonShape a sh:NodeShape ;
    sh:targetClass ex:Person ;
    sh:property [
        sh:path ex:name ;
        sh:datatype xsd:string ;
        sh:minCount 1 ;
        sh:maxCount 1 ;
    ] .
`
	triples, prefixes, err := ParseTurtle(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseTurtle() error = %v", err)
	}
	if len(triples) == 0 {
		t.Fatal("ParseTurtle() returned no triples")
	}

	schema, err := Ingest(triples, prefixes)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(schema.Shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(schema.Shapes))
	}
	ns := schema.Shapes[0]
	if ns.ID != "http://example.org/PersonShape" {
		t.Errorf("ID = %q", ns.ID)
	}
	if len(ns.Properties) != 1 {
		t.Fatalf("got %d properties, want 1", len(ns.Properties))
	}
	if ps := ns.Properties[0]; ps.Datatype == nil || *ps.Datatype != "http://www.w3.org/2001/XMLSchema#string" {
		t.Errorf("Datatype = %v", ps.Datatype)
	}
}
