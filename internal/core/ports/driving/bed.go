package driving

import (
	"context"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

// BedExporter resolves gene sets to genomic intervals and writes BED files.
type BedExporter interface {
	// ResolveIntervals maps a gene set to coordinate records via the
	// external lookup. Genes without a known mapping are skipped and
	// counted, not failed.
	ResolveIntervals(ctx context.Context, genes domain.GeneSet) ([]domain.CoordinateRecord, *BedReport, error)

	// Export deduplicates, sorts and writes records in BED layout to the
	// destination path. Failures surface as *domain.ExportError.
	Export(ctx context.Context, records []domain.CoordinateRecord, destination string) error

	// GenerateBed resolves the gene sets selected by the filter (union of
	// all matching associations' historical gene sets), resolves intervals
	// and writes the merged BED file.
	GenerateBed(ctx context.Context, filter BedFilter, destination string) (*BedReport, error)
}

// BedFilter selects which associations contribute gene sets to an export.
// Empty fields mean no filtering on that dimension.
type BedFilter struct {
	// ClinicalCode restricts to associations for one R code.
	ClinicalCode string

	// PatientID restricts to one patient's associations.
	PatientID string
}

// BedReport summarizes an export run.
type BedReport struct {
	// GenesResolved is the number of genes with at least one interval.
	GenesResolved int

	// GenesSkipped is the number of genes with no known mapping.
	GenesSkipped int

	// Intervals is the number of deduplicated intervals written.
	Intervals int
}
