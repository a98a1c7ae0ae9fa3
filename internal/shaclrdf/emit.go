package shaclrdf

import (
	"fmt"
	"io"
	"strings"

	rdf "github.com/knakk/rdf"

	"github.com/rdfshapes/shapeconv/internal/shaclmodel"
	"github.com/rdfshapes/shapeconv/internal/vocab"
)

// Emit builds the triple list for a SHACL schema, per spec.md 4.6: stable
// per-subject ordering (rdf:type, sh:targetClass, sh:property), fresh
// blank-node labels for property shapes and list nodes.
func Emit(schema *shaclmodel.Schema) ([]rdf.Triple, error) {
	e := &emitter{prefixes: schema.Prefixes}
	var triples []rdf.Triple
	for _, ns := range schema.Shapes {
		ts, err := e.emitNodeShape(ns)
		if err != nil {
			return nil, err
		}
		triples = append(triples, ts...)
	}
	return triples, nil
}

// EmitTurtle builds the triple list and writes it as Turtle through the
// real RDF library -- the only place in this repo Turtle bytes come out.
func EmitTurtle(schema *shaclmodel.Schema, w io.Writer) error {
	triples, err := Emit(schema)
	if err != nil {
		return err
	}
	enc := rdf.NewTripleEncoder(w, rdf.Turtle)
	if err := enc.EncodeAll(triples); err != nil {
		return err
	}
	return enc.Close()
}

type emitter struct {
	prefixes vocab.PrefixTable
	blankSeq int
}

func (e *emitter) newBlank() rdf.Blank {
	e.blankSeq++
	b, err := rdf.NewBlank(fmt.Sprintf("b%d", e.blankSeq))
	if err != nil {
		panic(err)
	}
	return b
}

func subjectTerm(id string) (rdf.Term, error) {
	if strings.HasPrefix(id, "_:") {
		return rdf.NewBlank(strings.TrimPrefix(id, "_:"))
	}
	return rdf.NewIRI(id)
}

func mustIRI(abs string) rdf.IRI {
	iri, err := rdf.NewIRI(abs)
	if err != nil {
		panic(err)
	}
	return iri
}

func (e *emitter) emitNodeShape(ns *shaclmodel.NodeShape) ([]rdf.Triple, error) {
	subj, err := subjectTerm(ns.ID)
	if err != nil {
		return nil, err
	}

	var triples []rdf.Triple
	put := func(pred string, obj rdf.Term) {
		triples = append(triples, rdf.Triple{Subj: subj, Pred: mustIRI(pred), Obj: obj})
	}

	put(rdfType, mustIRI(shNodeShape))

	for _, c := range ns.TargetClasses {
		put(shTargetClass, mustIRI(c))
	}
	for _, n := range ns.TargetNodes {
		put(shTargetNode, mustIRI(n))
	}
	if ns.Closed {
		lit, err := rdf.NewLiteral(true)
		if err != nil {
			return nil, err
		}
		put(shClosed, lit)
	}
	if len(ns.IgnoredProperties) > 0 {
		items := make([]rdf.Term, len(ns.IgnoredProperties))
		for i, p := range ns.IgnoredProperties {
			items[i] = mustIRI(p)
		}
		head, listTriples, err := e.emitList(items)
		if err != nil {
			return nil, err
		}
		triples = append(triples, listTriples...)
		put(shIgnoredProperties, head)
	}
	for _, ps := range ns.Properties {
		blank := e.newBlank()
		put(shProperty, blank)
		psTriples, err := e.emitPropertyShape(blank, ps)
		if err != nil {
			return nil, err
		}
		triples = append(triples, psTriples...)
	}
	return triples, nil
}

// emitList builds an rdf:first/rdf:rest/rdf:nil chain over items, returning
// its head term (rdf:nil itself when items is empty).
func (e *emitter) emitList(items []rdf.Term) (rdf.Term, []rdf.Triple, error) {
	if len(items) == 0 {
		return mustIRI(rdfNil), nil, nil
	}
	nodes := make([]rdf.Blank, len(items))
	for i := range items {
		nodes[i] = e.newBlank()
	}
	var triples []rdf.Triple
	for i, item := range items {
		triples = append(triples, rdf.Triple{Subj: nodes[i], Pred: mustIRI(rdfFirst), Obj: item})
		var rest rdf.Term = mustIRI(rdfNil)
		if i+1 < len(nodes) {
			rest = nodes[i+1]
		}
		triples = append(triples, rdf.Triple{Subj: nodes[i], Pred: mustIRI(rdfRest), Obj: rest})
	}
	return nodes[0], triples, nil
}

func (e *emitter) emitPropertyShape(subj rdf.Term, ps *shaclmodel.PropertyShape) ([]rdf.Triple, error) {
	var triples []rdf.Triple
	put := func(pred string, obj rdf.Term) {
		triples = append(triples, rdf.Triple{Subj: subj, Pred: mustIRI(pred), Obj: obj})
	}

	if ps.Path.Inverse {
		pathBlank := e.newBlank()
		put(shPath, pathBlank)
		triples = append(triples, rdf.Triple{
			Subj: pathBlank,
			Pred: mustIRI(shInversePath),
			Obj:  mustIRI(ps.Path.Predicate.MustExpand(e.prefixes)),
		})
	} else {
		put(shPath, mustIRI(ps.Path.Predicate.MustExpand(e.prefixes)))
	}

	rest, err := e.emitShapeConstraints(subj, ps)
	if err != nil {
		return nil, err
	}
	triples = append(triples, rest...)
	return triples, nil
}

// emitShapeConstraints emits every constraint predicate except sh:path, so
// it can be shared between a full property shape and the bare class
// constraints nested under sh:or (spec.md 4.4's inverse of the sh:or
// handling in the converter).
func (e *emitter) emitShapeConstraints(subj rdf.Term, ps *shaclmodel.PropertyShape) ([]rdf.Triple, error) {
	var triples []rdf.Triple
	put := func(pred string, obj rdf.Term) {
		triples = append(triples, rdf.Triple{Subj: subj, Pred: mustIRI(pred), Obj: obj})
	}

	if ps.Datatype != nil {
		put(shDatatype, mustIRI(*ps.Datatype))
	}
	if ps.ClassRef != nil {
		put(shClass, mustIRI(*ps.ClassRef))
	}
	if ps.NodeKind != nil {
		local, ok := ps.NodeKind.SHACLTerm()
		if !ok {
			return nil, fmt.Errorf("shaclrdf: node kind %v has no sh:NodeKind term", *ps.NodeKind)
		}
		put(shNodeKind, mustIRI(vocab.NSSH+local))
	}
	if ps.Min != nil {
		lit, err := rdf.NewLiteral(*ps.Min)
		if err != nil {
			return nil, err
		}
		put(shMinCount, lit)
	}
	if ps.Max != nil {
		lit, err := rdf.NewLiteral(*ps.Max)
		if err != nil {
			return nil, err
		}
		put(shMaxCount, lit)
	}
	if ps.HasValue != nil {
		term, err := e.valueSetItemTerm(*ps.HasValue)
		if err != nil {
			return nil, err
		}
		put(shHasValue, term)
	}
	if len(ps.In) > 0 {
		items := make([]rdf.Term, len(ps.In))
		for i, item := range ps.In {
			term, err := e.valueSetItemTerm(item)
			if err != nil {
				return nil, err
			}
			items[i] = term
		}
		head, listTriples, err := e.emitList(items)
		if err != nil {
			return nil, err
		}
		triples = append(triples, listTriples...)
		put(shIn, head)
	}
	if ps.Pattern != nil {
		lit, err := rdf.NewLiteral(*ps.Pattern)
		if err != nil {
			return nil, err
		}
		put(shPattern, lit)
	}
	if len(ps.Or) > 0 {
		items := make([]rdf.Term, len(ps.Or))
		for i, nested := range ps.Or {
			blank := e.newBlank()
			items[i] = blank
			nestedTriples, err := e.emitShapeConstraints(blank, nested)
			if err != nil {
				return nil, err
			}
			triples = append(triples, nestedTriples...)
		}
		head, listTriples, err := e.emitList(items)
		if err != nil {
			return nil, err
		}
		triples = append(triples, listTriples...)
		put(shOr, head)
	}

	return triples, nil
}

func (e *emitter) valueSetItemTerm(item vocab.ValueSetItem) (rdf.Term, error) {
	switch {
	case item.IsIRI():
		return mustIRI(item.IRI.MustExpand(e.prefixes)), nil
	case item.IsLiteral():
		if item.Datatype != nil {
			return rdf.NewTypedLiteral(item.Lex, mustIRI(item.Datatype.MustExpand(e.prefixes)))
		}
		if item.Lang != "" {
			return rdf.NewLangLiteral(item.Lex, item.Lang)
		}
		return rdf.NewLiteral(item.Lex)
	default:
		return nil, fmt.Errorf("shaclrdf: value set item is neither IRI nor literal (IRI stems are ShExC-only)")
	}
}
