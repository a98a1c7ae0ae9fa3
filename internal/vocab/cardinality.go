package vocab

import "fmt"

// Unbounded represents the "*" / infinite upper bound of a Cardinality.
const Unbounded = -1

// Cardinality is an ordered pair (Min, Max) with Min <= Max, Max == Unbounded
// meaning infinity. The zero value is (0,0); the implicit ShEx default (1,1)
// is Default.
//
// ForceExplicit marks a cardinality that is semantically (0,Unbounded) but
// whose SHACL source declared neither sh:minCount nor sh:maxCount at all
// (as opposed to declaring sh:minCount 0 explicitly). ShExC has no surface
// difference between the two in general, but spec.md 8 scenario 5 requires
// the former to render as the explicit "{0,*}" rather than the "*"
// abbreviation, so the distinction is carried through the model. The ShExC
// parser also sets it whenever a brace form was written for a pair that has
// an abbreviation ({0,1}, {0,*}, {1,*}), so re-emission keeps the braces.
type Cardinality struct {
	Min           int
	Max           int
	ForceExplicit bool
}

// Default is the implicit ShEx cardinality: exactly one.
var Default = Cardinality{Min: 1, Max: 1}

// NewCardinality constructs a cardinality from min and max exactly as
// given; callers that want an unbounded max pass vocab.Unbounded.
func NewCardinality(min, max int) Cardinality {
	return Cardinality{Min: min, Max: max}
}

// IsDefault reports whether c is exactly (1,1), the case in which ShExC
// omits any cardinality suffix.
func (c Cardinality) IsDefault() bool {
	return c.Min == 1 && c.Max == 1
}

// Abbreviation returns the canonical single-character abbreviation for c,
// or "" if c has no standard abbreviation.
func (c Cardinality) Abbreviation() string {
	if c.ForceExplicit {
		return ""
	}
	switch {
	case c.Min == 0 && c.Max == 1:
		return "?"
	case c.Min == 0 && c.Max == Unbounded:
		return "*"
	case c.Min == 1 && c.Max == Unbounded:
		return "+"
	case c.IsDefault():
		return ""
	default:
		return ""
	}
}

// String renders the cardinality using the canonical abbreviation when one
// exists, falling back to explicit {min,max} form.
func (c Cardinality) String() string {
	if c.IsDefault() {
		return ""
	}
	if a := c.Abbreviation(); a != "" {
		return a
	}
	return c.Explicit()
}

// Explicit always renders the {min,max} form, even when an abbreviation
// exists or the cardinality is the default (1,1) -- String falls back to it
// when no abbreviation applies.
func (c Cardinality) Explicit() string {
	if c.Max == Unbounded {
		return fmt.Sprintf("{%d,*}", c.Min)
	}
	if c.Min == c.Max {
		return fmt.Sprintf("{%d}", c.Min)
	}
	return fmt.Sprintf("{%d,%d}", c.Min, c.Max)
}

// Valid reports whether Min <= Max (or Max is Unbounded) and Min >= 0.
func (c Cardinality) Valid() bool {
	if c.Min < 0 {
		return false
	}
	if c.Max == Unbounded {
		return true
	}
	return c.Min <= c.Max
}

// FromSHACL builds a Cardinality from optional SHACL sh:minCount/sh:maxCount
// values, applying spec.md 8 scenario 5's defaulting rules:
//   - both absent      -> (0, Unbounded), rendered explicitly as {0,*}
//   - min present only -> (min, Unbounded)
//   - max present only -> (0, max)
//   - both present     -> (min, max)
func FromSHACL(min, max *int) Cardinality {
	switch {
	case min == nil && max == nil:
		return Cardinality{Min: 0, Max: Unbounded, ForceExplicit: true}
	case min != nil && max == nil:
		return Cardinality{Min: *min, Max: Unbounded}
	case min == nil && max != nil:
		return Cardinality{Min: 0, Max: *max}
	default:
		return Cardinality{Min: *min, Max: *max}
	}
}
