package search

import (
	"fmt"
	"maps"
	"slices"
)

// Equivalence records building ids that other values stand in for. Each class
// has one canonical id (the value stored in BuildingNo, e.g. "OMZ1") and any
// number of aliases (e.g. "1142").
//
// By default matching is one-directional: a record holding the canonical id
// matches a query for an alias, but a record holding an alias does not match
// a query for the canonical id. Symmetric equivalences match both ways.
//
// A nil *Equivalence has no classes.
type Equivalence struct {
	aliases   map[string][]string // canonical -> aliases
	canonical map[string]string   // alias -> canonical
	symmetric bool
}

// NewEquivalence builds the lookup from canonical id -> aliases.
func NewEquivalence(classes map[string][]string, symmetric bool) (*Equivalence, error) {
	e := &Equivalence{
		aliases:   make(map[string][]string, len(classes)),
		canonical: make(map[string]string),
		symmetric: symmetric,
	}

	// Sorted for deterministic error messages.
	for _, c := range slices.Sorted(maps.Keys(classes)) {
		if c == "" {
			return nil, ErrEmptyAlias
		}
		for _, a := range classes[c] {
			if a == "" {
				return nil, fmt.Errorf("%w: alias of %q", ErrEmptyAlias, c)
			}
			if a == c || slices.Contains(e.aliases[c], a) {
				continue
			}
			if other, ok := e.canonical[a]; ok {
				return nil, fmt.Errorf("%w: %q is an alias of both %q and %q", ErrAliasConflict, a, other, c)
			}
			if _, ok := classes[a]; ok {
				return nil, fmt.Errorf("%w: %q is both a building id and an alias of %q", ErrAliasConflict, a, c)
			}
			e.canonical[a] = c
			e.aliases[c] = append(e.aliases[c], a)
		}
	}
	return e, nil
}

// DefaultEquivalence is the built-in OMZ1 / 1142 class.
func DefaultEquivalence() *Equivalence {
	e, _ := NewEquivalence(map[string][]string{"OMZ1": {"1142"}}, false)
	return e
}

// Symmetric reports whether aliases match in both directions.
func (e *Equivalence) Symmetric() bool {
	return e != nil && e.symmetric
}

// Aliases returns the aliases of a canonical id.
func (e *Equivalence) Aliases(canonical string) []string {
	if e == nil {
		return nil
	}
	return slices.Clone(e.aliases[canonical])
}

// Canonical returns the canonical id an alias stands for.
func (e *Equivalence) Canonical(alias string) (string, bool) {
	if e == nil {
		return "", false
	}
	c, ok := e.canonical[alias]
	return c, ok
}

// Matches reports whether a record's building value satisfies a building term.
func (e *Equivalence) Matches(value, term string) bool {
	if value == term {
		return value != ""
	}
	if value == "" || e == nil {
		return false
	}
	// Record holds the canonical id, the query names an alias.
	if c, ok := e.canonical[term]; ok && c == value {
		return true
	}
	if !e.symmetric {
		return false
	}
	// Record holds an alias, the query names its canonical id or a sibling alias.
	c, ok := e.canonical[value]
	if !ok {
		return false
	}
	if term == c {
		return true
	}
	tc, ok := e.canonical[term]
	return ok && tc == c
}

// DisplayBuilding renders a BuildingNo value: canonical ids are shown as their
// first alias ("OMZ1" reads "1142").
func (e *Equivalence) DisplayBuilding(value string) string {
	if e == nil {
		return value
	}
	if a := e.aliases[value]; len(a) > 0 {
		return a[0]
	}
	return value
}

// DisplayReference renders a ReferenceDeed value: aliases are shown as their
// canonical id ("1142" reads "OMZ1").
func (e *Equivalence) DisplayReference(value string) string {
	if c, ok := e.Canonical(value); ok {
		return c
	}
	return value
}
