package domain

import (
	"sort"
	"strconv"
)

// CoordinateRecord is one genomic interval tagged with the gene it belongs
// to. Records are derived on demand from a resolved gene set and never
// mutated after creation.
type CoordinateRecord struct {
	// Chromosome is the sequence region name without a "chr" prefix,
	// e.g. "1", "X", "MT".
	Chromosome string

	// Start is the 0-based inclusive interval start (BED convention).
	Start int64

	// End is the exclusive interval end.
	End int64

	// GeneID is the canonical identifier of the gene the interval maps to.
	GeneID string
}

// MergeCoordinates deduplicates records by (chromosome, start, end, gene id)
// and sorts them by (chromosome, start) in natural genome order. Callers
// combining multiple gene sets must union all records first and merge once,
// never merge per source and concatenate.
func MergeCoordinates(records []CoordinateRecord) []CoordinateRecord {
	seen := make(map[CoordinateRecord]struct{}, len(records))
	merged := make([]CoordinateRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec]; ok {
			continue
		}
		seen[rec] = struct{}{}
		merged = append(merged, rec)
	}

	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Chromosome != b.Chromosome {
			return chromosomeRank(a.Chromosome) < chromosomeRank(b.Chromosome) ||
				(chromosomeRank(a.Chromosome) == chromosomeRank(b.Chromosome) &&
					a.Chromosome < b.Chromosome)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.GeneID < b.GeneID
	})
	return merged
}

// chromosomeRank orders chromosomes in natural genome order: 1..22, X, Y,
// MT, then anything else after.
func chromosomeRank(chrom string) int {
	if n, err := strconv.Atoi(chrom); err == nil && n > 0 {
		return n
	}
	switch chrom {
	case "X":
		return 23
	case "Y":
		return 24
	case "MT", "M":
		return 25
	}
	return 26
}
