package convert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rdfshapes/shapeconv/internal/shaclmodel"
	"github.com/rdfshapes/shapeconv/internal/vocab"
)

// auxAllocator assigns deterministic ids to the auxiliary shapes synthesized
// by ToShEx for sh:class and sh:or constructs (spec.md 4.3's "Auxiliary-
// shape naming"). Allocation is seeded from the local name of the
// underlying class IRI set and deduplicated by that same set, so the same
// SHACL input always produces the same auxiliary shape ids in the same
// order, and a repeated sh:class/sh:or combination is only emitted once.
type auxAllocator struct {
	byKey map[string]string // canonical class-set key -> allocated id
	used  map[string]bool   // allocated id -> true, for collision detection
	order []string          // allocated ids in allocation order
}

func newAuxAllocator() *auxAllocator {
	return &auxAllocator{
		byKey: make(map[string]string),
		used:  make(map[string]bool),
	}
}

// canonicalKey builds a order-independent, duplicate-free key for a set of
// class IRIs, so `sh:or (A B)` and `sh:or (B A)` dedup to the same
// auxiliary shape.
func canonicalKey(classes []string) string {
	set := make(map[string]bool, len(classes))
	for _, c := range classes {
		set[c] = true
	}
	sorted := make([]string, 0, len(set))
	for c := range set {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

// allocate returns the id for the auxiliary shape covering classes,
// allocating a fresh one on first use and reusing it on every subsequent
// call with the same (order-independent) class set.
func (a *auxAllocator) allocate(classes []string) string {
	key := canonicalKey(classes)
	if id, ok := a.byKey[key]; ok {
		return id
	}

	seed := auxSeed(classes)
	id := seed
	for n := 2; a.used[id]; n++ {
		id = fmt.Sprintf("%s_%d", seed, n)
	}

	a.used[id] = true
	a.byKey[key] = id
	a.order = append(a.order, id)
	return id
}

// AuxNS is the absolute namespace synthesized shape ids live under. ToShEx
// declares it under the "shexaux" prefix so these ids still print as
// compact names rather than full <...> IRIs (spec.md 4.5's "IRIs that
// match a known prefix are emitted as prefixed names").
const AuxNS = "urn:shapeconv:aux:"

// principalShapeID resolves the ShExC shape id for a SHACL node shape,
// per spec.md 9's shape-name-preservation decision: the shape's own IRI
// when it has one, else its first sh:targetClass's local name turned into
// an IRI under AuxNS, else a synthesized "_Shape{n}" using counter (shared
// across a single ToShEx call, so blank node shapes in the same schema
// never collide).
func principalShapeID(ns *shaclmodel.NodeShape, counter *int) string {
	if !strings.HasPrefix(ns.ID, "_:") {
		return ns.ID
	}
	if len(ns.TargetClasses) > 0 {
		return AuxNS + vocab.LocalName(ns.TargetClasses[0])
	}
	*counter++
	return fmt.Sprintf("%s_Shape%d", AuxNS, *counter)
}

// auxSeed derives the base local name an auxiliary shape is seeded from:
// the sole class's local name, or a joined local names when sh:or has more
// than one branch.
func auxSeed(classes []string) string {
	if len(classes) == 1 {
		return vocab.LocalName(classes[0]) + "Aux"
	}
	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = vocab.LocalName(c)
	}
	return strings.Join(parts, "Or") + "Aux"
}
