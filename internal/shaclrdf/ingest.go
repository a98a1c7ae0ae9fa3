// Package shaclrdf bridges the SHACL model (internal/shaclmodel) to real
// RDF triples, via github.com/knakk/rdf. It is the one place in this repo
// that talks to an RDF term/triple representation instead of the ShExC
// or SHACL in-memory models directly.
package shaclrdf

import (
	"fmt"
	"strconv"

	rdf "github.com/knakk/rdf"

	"github.com/rdfshapes/shapeconv/internal/shaclmodel"
	"github.com/rdfshapes/shapeconv/internal/vocab"
)

// IngestKind enumerates Ingest's structural failure modes (spec.md 4.2's
// "Fail conditions"; spec.md 7 category 4, "Structural").
type IngestKind int

const (
	MalformedList IngestKind = iota
	UnrecognizedNodeKind
	MissingPath
)

func (k IngestKind) String() string {
	switch k {
	case MalformedList:
		return "MalformedList"
	case UnrecognizedNodeKind:
		return "UnrecognizedNodeKind"
	case MissingPath:
		return "MissingPath"
	default:
		return "IngestError"
	}
}

// IngestError is returned by Ingest on the first structural problem it
// finds in the triple bag. Unlike the converters, which only ever emit
// warnings, the ingest adapter fails fast: a shape graph that doesn't
// parse as SHACL at all can't be translated to anything.
type IngestError struct {
	Kind    IngestKind
	Subject string
	Detail  string
}

func (e *IngestError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Subject, e.Detail)
}

func newIngestError(kind IngestKind, subject, detail string) *IngestError {
	return &IngestError{Kind: kind, Subject: subject, Detail: detail}
}

// Well-known predicate and class IRIs used by the ingest walk (spec.md
// 4.2's exhaustive predicate table).
const (
	rdfType  = vocab.NSRDF + "type"
	rdfFirst = vocab.NSRDF + "first"
	rdfRest  = vocab.NSRDF + "rest"
	rdfNil   = vocab.NSRDF + "nil"

	shNodeShape         = vocab.NSSH + "NodeShape"
	shTargetClass       = vocab.NSSH + "targetClass"
	shTargetNode        = vocab.NSSH + "targetNode"
	shClosed            = vocab.NSSH + "closed"
	shIgnoredProperties = vocab.NSSH + "ignoredProperties"
	shProperty          = vocab.NSSH + "property"
	shPath              = vocab.NSSH + "path"
	shInversePath       = vocab.NSSH + "inversePath"
	shDatatype          = vocab.NSSH + "datatype"
	shClass             = vocab.NSSH + "class"
	shNodeKind          = vocab.NSSH + "nodeKind"
	shMinCount          = vocab.NSSH + "minCount"
	shMaxCount          = vocab.NSSH + "maxCount"
	shHasValue          = vocab.NSSH + "hasValue"
	shIn                = vocab.NSSH + "in"
	shPattern           = vocab.NSSH + "pattern"
	shOr                = vocab.NSSH + "or"
	shNode              = vocab.NSSH + "node"
)

// bag indexes a flat triple list by subject, so repeated predicate lookups
// during the shape walk don't rescan the whole list. Grounded on the
// teacher's bySubjectThenPred grouping pass in encoder.go, adapted from a
// sort-then-scan to a map since ingest needs random-access lookup by
// subject rather than ordered iteration.
type bag struct {
	bySubject map[string][]rdf.Triple
}

func newBag(triples []rdf.Triple) *bag {
	b := &bag{bySubject: make(map[string][]rdf.Triple, len(triples))}
	for _, t := range triples {
		key := termKey(t.Subj)
		b.bySubject[key] = append(b.bySubject[key], t)
	}
	return b
}

// termKey renders a term as a comparable string. Using the N-Triples
// serialization as the map key mirrors the teacher's TermsEqual, which
// compares terms by their serialized form rather than by Go equality.
func termKey(t rdf.Term) string {
	return t.Serialize(rdf.NTriples)
}

func (b *bag) values(s rdf.Term, pred string) []rdf.Term {
	var out []rdf.Term
	for _, t := range b.bySubject[termKey(s)] {
		if p, ok := t.Pred.(rdf.IRI); ok && p.String() == pred {
			out = append(out, t.Obj)
		}
	}
	return out
}

func (b *bag) value(s rdf.Term, pred string) (rdf.Term, bool) {
	vs := b.values(s, pred)
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}

func iriString(t rdf.Term) (string, bool) {
	iri, ok := t.(rdf.IRI)
	if !ok {
		return "", false
	}
	return iri.String(), true
}

func subjectLabel(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return v.String()
	case rdf.Blank:
		return "_:" + v.String()
	default:
		return t.Serialize(rdf.NTriples)
	}
}

// Ingest builds a SHACL schema from a flat triple bag plus the prefix
// table the Turtle parser collected along the way (spec.md 4.2).
func Ingest(triples []rdf.Triple, prefixes vocab.PrefixTable) (*shaclmodel.Schema, error) {
	b := newBag(triples)

	var subjects []rdf.Term
	seen := map[string]bool{}
	add := func(t rdf.Term) {
		k := termKey(t)
		if !seen[k] {
			seen[k] = true
			subjects = append(subjects, t)
		}
	}

	for _, t := range triples {
		pred, ok := t.Pred.(rdf.IRI)
		if !ok {
			continue
		}
		switch pred.String() {
		case rdfType:
			if obj, ok := t.Obj.(rdf.IRI); ok && obj.String() == shNodeShape {
				add(t.Subj)
			}
		case shNode:
			add(t.Obj)
		}
	}

	schema := shaclmodel.NewSchema()
	schema.Prefixes = prefixes

	for _, s := range subjects {
		ns, err := ingestNodeShape(b, s)
		if err != nil {
			return nil, err
		}
		schema.Shapes = append(schema.Shapes, ns)
	}
	return schema, nil
}

func ingestNodeShape(b *bag, subj rdf.Term) (*shaclmodel.NodeShape, error) {
	id := subjectLabel(subj)
	ns := &shaclmodel.NodeShape{ID: id}

	for _, v := range b.values(subj, shTargetClass) {
		if s, ok := iriString(v); ok {
			ns.TargetClasses = append(ns.TargetClasses, s)
		}
	}
	for _, v := range b.values(subj, shTargetNode) {
		if s, ok := iriString(v); ok {
			ns.TargetNodes = append(ns.TargetNodes, s)
		}
	}
	if v, ok := b.value(subj, shClosed); ok {
		if lit, ok := v.(rdf.Literal); ok {
			ns.Closed = lit.String() == "true"
		}
	}
	if v, ok := b.value(subj, shIgnoredProperties); ok {
		items, err := collectList(b, v, id)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if s, ok := iriString(item); ok {
				ns.IgnoredProperties = append(ns.IgnoredProperties, s)
			}
		}
	}
	for _, v := range b.values(subj, shProperty) {
		ps, err := ingestPropertyShape(b, v, id)
		if err != nil {
			return nil, err
		}
		ns.Properties = append(ns.Properties, ps)
	}
	return ns, nil
}

// collectList walks an RDF list (rdf:first/rdf:rest/rdf:nil) starting at
// head, returning its elements in order. The visited-node set guards
// against a cyclic rdf:rest chain, which would otherwise loop forever on
// adversarial input (spec.md 4.2's RDF-list traversal note).
func collectList(b *bag, head rdf.Term, owner string) ([]rdf.Term, error) {
	var out []rdf.Term
	visited := map[string]bool{}
	cur := head
	for {
		if iri, ok := cur.(rdf.IRI); ok && iri.String() == rdfNil {
			return out, nil
		}
		key := termKey(cur)
		if visited[key] {
			return nil, newIngestError(MalformedList, owner, "cyclic rdf:rest chain")
		}
		visited[key] = true

		first, ok := b.value(cur, rdfFirst)
		if !ok {
			return nil, newIngestError(MalformedList, owner, "list node missing rdf:first")
		}
		out = append(out, first)

		rest, ok := b.value(cur, rdfRest)
		if !ok {
			return nil, newIngestError(MalformedList, owner, "list node missing rdf:rest")
		}
		cur = rest
	}
}

func ingestPropertyShape(b *bag, subj rdf.Term, owner string) (*shaclmodel.PropertyShape, error) {
	pathVal, ok := b.value(subj, shPath)
	if !ok {
		return nil, newIngestError(MissingPath, owner, "property shape has no sh:path")
	}
	path, err := ingestPath(b, pathVal, owner)
	if err != nil {
		return nil, err
	}
	ps, err := ingestShapeConstraints(b, subj, owner)
	if err != nil {
		return nil, err
	}
	ps.Path = path
	return ps, nil
}

func ingestPath(b *bag, pathVal rdf.Term, owner string) (vocab.Path, error) {
	if s, ok := iriString(pathVal); ok {
		return vocab.Direct(vocab.NewIRI(s)), nil
	}
	blank, ok := pathVal.(rdf.Blank)
	if !ok {
		return vocab.Path{}, newIngestError(MissingPath, owner, "sh:path value is neither IRI nor blank node")
	}
	inv, ok := b.value(blank, shInversePath)
	if !ok {
		return vocab.Path{}, newIngestError(MissingPath, owner, "blank-node sh:path missing sh:inversePath")
	}
	s, ok := iriString(inv)
	if !ok {
		return vocab.Path{}, newIngestError(MissingPath, owner, "sh:inversePath value is not an IRI")
	}
	return vocab.InversePath(vocab.NewIRI(s)), nil
}

// ingestShapeConstraints reads every constraint predicate except sh:path,
// so it can be shared between a top-level property shape (which requires a
// path) and the nested shapes inside an sh:or list (which don't carry one
// of their own -- spec.md 4.3 treats sh:or members as bare class refs).
func ingestShapeConstraints(b *bag, subj rdf.Term, owner string) (*shaclmodel.PropertyShape, error) {
	ps := &shaclmodel.PropertyShape{}

	if v, ok := b.value(subj, shDatatype); ok {
		if s, ok := iriString(v); ok {
			ps.Datatype = &s
		}
	}
	if v, ok := b.value(subj, shClass); ok {
		if s, ok := iriString(v); ok {
			ps.ClassRef = &s
		}
	}
	if v, ok := b.value(subj, shNodeKind); ok {
		s, ok := iriString(v)
		if !ok {
			return nil, newIngestError(UnrecognizedNodeKind, owner, "sh:nodeKind value is not an IRI")
		}
		nk, ok := vocab.ParseSHACLTerm(vocab.LocalName(s))
		if !ok {
			return nil, newIngestError(UnrecognizedNodeKind, owner, fmt.Sprintf("unrecognized sh:nodeKind %q", s))
		}
		ps.NodeKind = &nk
	}
	if v, ok := b.value(subj, shMinCount); ok {
		if n, ok := literalInt(v); ok {
			ps.Min = &n
		}
	}
	if v, ok := b.value(subj, shMaxCount); ok {
		if n, ok := literalInt(v); ok {
			ps.Max = &n
		}
	}
	if v, ok := b.value(subj, shHasValue); ok {
		item := termToValueSetItem(v)
		ps.HasValue = &item
	}
	if v, ok := b.value(subj, shIn); ok {
		items, err := collectList(b, v, owner)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			ps.In = append(ps.In, termToValueSetItem(item))
		}
	}
	if v, ok := b.value(subj, shPattern); ok {
		if lit, ok := v.(rdf.Literal); ok {
			s := lit.String()
			ps.Pattern = &s
		}
	}
	if v, ok := b.value(subj, shOr); ok {
		items, err := collectList(b, v, owner)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			nested, err := ingestShapeConstraints(b, item, owner)
			if err != nil {
				return nil, err
			}
			ps.Or = append(ps.Or, nested)
		}
	}

	return ps, nil
}

func literalInt(t rdf.Term) (int, bool) {
	lit, ok := t.(rdf.Literal)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(lit.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

func termToValueSetItem(t rdf.Term) vocab.ValueSetItem {
	switch v := t.(type) {
	case rdf.IRI:
		return vocab.VSIIri(vocab.NewIRI(v.String()))
	case rdf.Literal:
		var dt *string
		if s := v.DataType.String(); s != "" {
			dt = &s
		}
		var datatype *vocab.IRI
		if dt != nil {
			iri := vocab.NewIRI(*dt)
			datatype = &iri
		}
		return vocab.VSILiteral(v.String(), datatype, v.Lang())
	default:
		return vocab.VSILiteral(t.Serialize(rdf.NTriples), nil, "")
	}
}
