package vocab

import "testing"

func TestIRIExpand(t *testing.T) {
	pt := NewPrefixTable()

	abs := NewIRI("http://example.org/Thing")
	got, err := abs.Expand(pt)
	if err != nil || got != "http://example.org/Thing" {
		t.Fatalf("Expand(absolute) = %q, %v", got, err)
	}

	prefixed := NewPrefixedIRI("sh", "NodeShape")
	got, err = prefixed.Expand(pt)
	if err != nil || got != NSSH+"NodeShape" {
		t.Fatalf("Expand(prefixed) = %q, %v", got, err)
	}

	unknown := NewPrefixedIRI("nope", "X")
	if _, err := unknown.Expand(pt); err == nil {
		t.Fatal("Expand with unknown prefix should fail")
	}
}

func TestIRICompact(t *testing.T) {
	pt := NewPrefixTable()
	iri := NewIRI(NSSH + "NodeShape")
	if got, want := iri.Compact(pt), "sh:NodeShape"; got != want {
		t.Errorf("Compact() = %q, want %q", got, want)
	}

	noMatch := NewIRI("urn:example:Foo")
	if got, want := noMatch.Compact(pt), "urn:example:Foo"; got != want {
		t.Errorf("Compact(no matching prefix) = %q, want %q", got, want)
	}
}

func TestPrefixTableLongestMatch(t *testing.T) {
	pt := EmptyPrefixTable()
	pt.Set("ex", "http://example.org/")
	pt.Set("exsub", "http://example.org/sub/")

	prefix, ns, ok := pt.LongestMatch("http://example.org/sub/Thing")
	if !ok || prefix != "exsub" || ns != "http://example.org/sub/" {
		t.Errorf("LongestMatch = %q, %q, %v; want exsub, http://example.org/sub/, true", prefix, ns, ok)
	}

	if _, _, ok := pt.LongestMatch("urn:other:X"); ok {
		t.Error("LongestMatch should report no match for an unrelated IRI")
	}
}

func TestLocalName(t *testing.T) {
	cases := map[string]string{
		"http://example.org/Thing":    "Thing",
		"http://example.org/ns#Thing": "Thing",
		"http://example.org/ns#":      "http://example.org/ns#",
		"urn:shapeconv:aux:FooAux":    "urn:shapeconv:aux:FooAux",
	}
	for in, want := range cases {
		if got := LocalName(in); got != want {
			t.Errorf("LocalName(%q) = %q, want %q", in, got, want)
		}
	}
}
