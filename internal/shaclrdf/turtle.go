package shaclrdf

import (
	"io"

	rdf "github.com/knakk/rdf"

	"github.com/rdfshapes/shapeconv/internal/vocab"
)

// ParseTurtle decodes r as Turtle and returns its triples. The decoder
// resolves every prefixed name to an absolute IRI internally before a
// triple is ever handed back (it doesn't expose the PREFIX directives it
// consumed along the way), so the prefix table returned here is always the
// well-known-defaults table -- ingest only ever sees absolute IRIs anyway.
// This is the only place this repo parses Turtle syntax -- everything
// upstream of Ingest is the real rdf.TripleDecoder (spec.md 4.7).
func ParseTurtle(r io.Reader) ([]rdf.Triple, vocab.PrefixTable, error) {
	dec := rdf.NewTripleDecoder(r, rdf.Turtle)
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, vocab.PrefixTable{}, err
	}
	return triples, vocab.NewPrefixTable(), nil
}
