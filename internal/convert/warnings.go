// Package convert implements the two bidirectional converters between the
// SHACL and ShEx in-memory models (spec.md 4.3/4.4). Neither converter ever
// fails on well-formed input; anything the target language can't express
// exactly becomes a Warning, per spec.md 7's lossy-conversion category.
package convert

import "fmt"

// WarningKind enumerates the ways a conversion can be lossy.
type WarningKind int

const (
	// DroppedPattern marks an sh:pattern regex that wasn't a pure IRI-stem
	// prefix ("^<prefix>") and so couldn't be represented as a ShExC IRI
	// stem; the constraint is omitted rather than miscompiled.
	DroppedPattern WarningKind = iota
	// UnsupportedConstruct marks a construct with no counterpart in the
	// target language at all (e.g. a composite NodeKind ShExC has no
	// keyword for).
	UnsupportedConstruct
)

func (k WarningKind) String() string {
	switch k {
	case DroppedPattern:
		return "DroppedPattern"
	case UnsupportedConstruct:
		return "UnsupportedConstruct"
	default:
		return "Warning"
	}
}

// Warning describes one lossy step taken during conversion. Shape names an
// offending shape id when one is known.
type Warning struct {
	Kind   WarningKind
	Shape  string
	Detail string
}

func (w Warning) String() string {
	if w.Shape == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Shape, w.Detail)
}

func warnDroppedPattern(shape, pattern string) Warning {
	return Warning{Kind: DroppedPattern, Shape: shape, Detail: fmt.Sprintf("sh:pattern %q is not a pure IRI-stem prefix, dropped", pattern)}
}

func warnUnsupported(shape, detail string) Warning {
	return Warning{Kind: UnsupportedConstruct, Shape: shape, Detail: detail}
}
