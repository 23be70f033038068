package domain

import (
	"sort"
	"strings"
)

// GeneSet is an unordered set of canonical gene identifiers (HGNC ids).
// All comparisons between gene sets must go through set operations so the
// result never depends on input ordering.
type GeneSet map[string]struct{}

// NormalizeGeneID canonicalizes a raw gene identifier: surrounding
// whitespace is stripped and the identifier is upper-cased, so "hgnc:1234 "
// and "HGNC:1234" compare equal. Normalization happens exactly once, when
// catalog data enters the system; stored identifiers are already canonical.
func NormalizeGeneID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// NewGeneSet builds a set from raw identifiers, normalizing and
// deduplicating. Identifiers that normalize to the empty string are dropped.
func NewGeneSet(ids ...string) GeneSet {
	set := make(GeneSet, len(ids))
	for _, id := range ids {
		canonical := NormalizeGeneID(id)
		if canonical == "" {
			continue
		}
		set[canonical] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given canonical identifier.
func (g GeneSet) Contains(id string) bool {
	_, ok := g[id]
	return ok
}

// Len returns the number of genes in the set.
func (g GeneSet) Len() int {
	return len(g)
}

// Sorted returns the identifiers in lexicographic order. Used wherever a
// deterministic rendering of the set is needed.
func (g GeneSet) Sorted() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Union returns a new set containing genes from both sets.
func (g GeneSet) Union(other GeneSet) GeneSet {
	merged := make(GeneSet, len(g)+len(other))
	for id := range g {
		merged[id] = struct{}{}
	}
	for id := range other {
		merged[id] = struct{}{}
	}
	return merged
}

// Minus returns the genes present in g but not in other.
func (g GeneSet) Minus(other GeneSet) GeneSet {
	diff := make(GeneSet)
	for id := range g {
		if _, ok := other[id]; !ok {
			diff[id] = struct{}{}
		}
	}
	return diff
}

// Equal reports whether both sets hold exactly the same genes.
func (g GeneSet) Equal(other GeneSet) bool {
	if len(g) != len(other) {
		return false
	}
	for id := range g {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}
