package driven

import (
	"context"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

// CoordinateLookup resolves a gene identifier to its genomic intervals.
type CoordinateLookup interface {
	// Lookup returns the intervals for a gene. An empty slice is a valid
	// "no known mapping" answer, not an error.
	Lookup(ctx context.Context, geneID string) ([]domain.CoordinateRecord, error)
}

// CoordinateCache stores resolved intervals so repeated BED generations do
// not re-query the external lookup service.
type CoordinateCache interface {
	// Get returns cached intervals for a gene. The second result is false
	// on a cache miss.
	Get(ctx context.Context, geneID string) ([]domain.CoordinateRecord, bool, error)

	// Put stores the resolved intervals for a gene, including empty results
	// so known-unmapped genes are not re-queried.
	Put(ctx context.Context, geneID string, records []domain.CoordinateRecord) error
}
