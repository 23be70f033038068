package domain

import "time"

// DiffResult is the outcome of comparing a historical gene set against the
// live catalog for one clinical code. Added and Removed are disjoint by
// construction; when both are empty the sets are semantically identical.
// DiffResults are transient computation results, not persisted.
type DiffResult struct {
	// ClinicalCode identifies the compared panel.
	ClinicalCode string

	// ComparedAt is when the comparison was computed.
	ComparedAt time.Time

	// Added holds genes present live but not in the historical record,
	// sorted lexicographically.
	Added []string

	// Removed holds genes present historically but not live, sorted
	// lexicographically.
	Removed []string
}

// Diff computes the set difference between a historical and a live gene set.
// Pure function: no I/O, and the result is identical regardless of how the
// input sets were built or ordered.
func Diff(clinicalCode string, historical, live GeneSet) DiffResult {
	return DiffResult{
		ClinicalCode: clinicalCode,
		ComparedAt:   time.Now().UTC(),
		Added:        live.Minus(historical).Sorted(),
		Removed:      historical.Minus(live).Sorted(),
	}
}

// Identical reports whether the comparison found no differences.
func (d DiffResult) Identical() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}
