package services

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driving"
	"github.com/Miladeb77/panelgenemapper/internal/logger"
)

var _ driving.BedExporter = (*BedService)(nil)

// lookupWorkers bounds concurrent coordinate lookups against the external
// service.
const lookupWorkers = 10

// BedService resolves gene sets to genomic intervals and writes BED files.
// Interval resolution is cached so repeated exports do not re-query the
// lookup service; generation is idempotent at the file level.
type BedService struct {
	ledger driving.Ledger
	lookup driven.CoordinateLookup
	cache  driven.CoordinateCache
}

// NewBedService creates a BED export service. The cache is optional.
func NewBedService(ledger driving.Ledger, lookup driven.CoordinateLookup, cache driven.CoordinateCache) *BedService {
	return &BedService{
		ledger: ledger,
		lookup: lookup,
		cache:  cache,
	}
}

// ResolveIntervals maps every gene in the set to its intervals. Genes with
// no known mapping are counted and skipped, never failed. Lookups run on a
// bounded worker pool; a hard lookup error cancels the remaining work.
func (s *BedService) ResolveIntervals(ctx context.Context, genes domain.GeneSet) ([]domain.CoordinateRecord, *driving.BedReport, error) {
	report := &driving.BedReport{}
	var (
		mu      sync.Mutex
		records []domain.CoordinateRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupWorkers)
	for _, geneID := range genes.Sorted() {
		geneID := geneID
		g.Go(func() error {
			recs, err := s.resolveGene(gctx, geneID)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if len(recs) == 0 {
				report.GenesSkipped++
				logger.Debug("No interval mapping for %s, skipping", geneID)
				return nil
			}
			report.GenesResolved++
			records = append(records, recs...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	merged := domain.MergeCoordinates(records)
	report.Intervals = len(merged)
	return merged, report, nil
}

// resolveGene checks the cache before hitting the lookup service, and caches
// the answer including empty "known unmapped" results.
func (s *BedService) resolveGene(ctx context.Context, geneID string) ([]domain.CoordinateRecord, error) {
	if s.cache != nil {
		recs, ok, err := s.cache.Get(ctx, geneID)
		if err != nil {
			logger.Warn("Coordinate cache read for %s failed: %v", geneID, err)
		} else if ok {
			return recs, nil
		}
	}

	recs, err := s.lookup.Lookup(ctx, geneID)
	if err != nil {
		return nil, fmt.Errorf("lookup intervals for %s: %w", geneID, err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, geneID, recs); err != nil {
			logger.Warn("Coordinate cache write for %s failed: %v", geneID, err)
		}
	}
	return recs, nil
}

// Export writes records in BED layout (chrom, start, end, gene id; tab
// separated) to the destination path. Records are merged before writing so
// the output is deduplicated and ordered regardless of input order.
func (s *BedService) Export(ctx context.Context, records []domain.CoordinateRecord, destination string) error {
	merged := domain.MergeCoordinates(records)

	if dir := filepath.Dir(destination); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.ExportError{Destination: destination, Err: err}
		}
	}

	f, err := os.Create(destination)
	if err != nil {
		return &domain.ExportError{Destination: destination, Err: err}
	}

	w := bufio.NewWriter(f)
	for _, rec := range merged {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", rec.Chromosome, rec.Start, rec.End, rec.GeneID); err != nil {
			f.Close()
			return &domain.ExportError{Destination: destination, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return &domain.ExportError{Destination: destination, Err: err}
	}
	if err := f.Close(); err != nil {
		return &domain.ExportError{Destination: destination, Err: err}
	}

	logger.Info("Wrote %d intervals to %s", len(merged), destination)
	return nil
}

// GenerateBed unions the historical gene sets selected by the filter,
// resolves intervals once over the union and writes the merged BED file.
func (s *BedService) GenerateBed(ctx context.Context, filter driving.BedFilter, destination string) (*driving.BedReport, error) {
	assocs, err := s.selectAssociations(ctx, filter)
	if err != nil {
		return nil, err
	}

	genes := domain.GeneSet{}
	for _, assoc := range assocs {
		set, err := s.ledger.ResolveGenes(ctx, assoc)
		if err != nil {
			return nil, err
		}
		genes = genes.Union(set)
	}

	records, report, err := s.ResolveIntervals(ctx, genes)
	if err != nil {
		return nil, err
	}
	if err := s.Export(ctx, records, destination); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *BedService) selectAssociations(ctx context.Context, filter driving.BedFilter) ([]domain.PatientAssociation, error) {
	switch {
	case filter.PatientID != "":
		assocs, err := s.ledger.ListByPatient(ctx, filter.PatientID)
		if err != nil {
			return nil, err
		}
		if filter.ClinicalCode == "" {
			return assocs, nil
		}
		code := domain.CanonicalClinicalCode(filter.ClinicalCode)
		filtered := assocs[:0]
		for _, a := range assocs {
			if a.ClinicalCode == code {
				filtered = append(filtered, a)
			}
		}
		return filtered, nil
	case filter.ClinicalCode != "":
		return s.ledger.ListByClinicalCode(ctx, filter.ClinicalCode)
	default:
		return s.ledger.ListAll(ctx)
	}
}
