package matching

import (
	"strings"

	"github.com/gameplay-tools/gameplay-mcp/pkg/exposition"
)

// Normalization selects how label values are compared.
type Normalization int

const (
	// Exact compares values byte for byte.
	Exact Normalization = iota
	// TrimLower trims surrounding whitespace and lower-cases both sides.
	TrimLower
)

// String returns the string representation of the normalization.
func (n Normalization) String() string {
	switch n {
	case Exact:
		return "exact"
	case TrimLower:
		return "trimLower"
	default:
		return "unknown"
	}
}

// Normalize returns v in the form used for comparison.
func (n Normalization) Normalize(v string) string {
	if n == TrimLower {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return v
}

// Equal reports whether a and b are equal under n.
func (n Normalization) Equal(a, b string) bool {
	if n == TrimLower {
		return n.Normalize(a) == n.Normalize(b)
	}
	return a == b
}

// Constraint requires a sample label to equal Value under Mode.
type Constraint struct {
	Label string
	Value string
	Mode  Normalization
}

// Eq returns an exact-match constraint.
func Eq(label, value string) Constraint {
	return Constraint{Label: label, Value: value, Mode: Exact}
}

// Fold returns a trim-and-lower-case constraint.
func Fold(label, value string) Constraint {
	return Constraint{Label: label, Value: value, Mode: TrimLower}
}

// Active reports whether the constraint filters anything.
func (c Constraint) Active() bool {
	return c.Value != ""
}

// Matches reports whether s satisfies c.
func (c Constraint) Matches(s exposition.Sample) bool {
	if !c.Active() {
		return true
	}
	v, ok := s.Labels[c.Label]
	if !ok {
		return false
	}
	return c.Mode.Equal(v, c.Value)
}

// MatchesAll reports whether s satisfies every constraint.
func MatchesAll(s exposition.Sample, constraints []Constraint) bool {
	for _, c := range constraints {
		if !c.Matches(s) {
			return false
		}
	}
	return true
}

// Match is a selected sample together with the family it was read from.
type Match struct {
	Family string
	Sample exposition.Sample
}

// Select returns the samples of the named families that satisfy every
// constraint. Families are visited in the order given, samples in document
// order. With no family names, every family is visited in document order.
// Unknown family names contribute nothing.
func Select(doc *exposition.Document, constraints []Constraint, families ...string) []Match {
	if doc == nil {
		return nil
	}

	var visit []*exposition.Family
	if len(families) == 0 {
		visit = doc.Families
	} else {
		for _, name := range families {
			if f := doc.Family(name); f != nil {
				visit = append(visit, f)
			}
		}
	}

	var out []Match
	for _, f := range visit {
		for _, s := range f.Samples {
			if MatchesAll(s, constraints) {
				out = append(out, Match{Family: f.Name, Sample: s})
			}
		}
	}
	return out
}

// Samples is Select for a single family, returning bare samples.
func Samples(doc *exposition.Document, family string, constraints ...Constraint) []exposition.Sample {
	matches := Select(doc, constraints, family)
	out := make([]exposition.Sample, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Sample)
	}
	return out
}
