package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
)

// coordinateCache implements driven.CoordinateCache. Cached intervals
// include empty results so known-unmapped genes are not re-queried.
type coordinateCache struct {
	store *Store
}

var _ driven.CoordinateCache = (*coordinateCache)(nil)

// cachedInterval is the JSON shape intervals take in the cache table.
type cachedInterval struct {
	Chromosome string `json:"chrom"`
	Start      int64  `json:"start"`
	End        int64  `json:"end"`
}

// Get returns cached intervals for a gene.
func (c *coordinateCache) Get(ctx context.Context, geneID string) ([]domain.CoordinateRecord, bool, error) {
	var recordsJSON string
	err := c.store.db.QueryRowContext(ctx,
		"SELECT records FROM gene_intervals_cache WHERE gene_id = ?", geneID).Scan(&recordsJSON)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading interval cache for %s: %w", geneID, err)
	}

	var cached []cachedInterval
	if err := json.Unmarshal([]byte(recordsJSON), &cached); err != nil {
		return nil, false, fmt.Errorf("unmarshaling interval cache for %s: %w", geneID, err)
	}

	records := make([]domain.CoordinateRecord, 0, len(cached))
	for _, ci := range cached {
		records = append(records, domain.CoordinateRecord{
			Chromosome: ci.Chromosome,
			Start:      ci.Start,
			End:        ci.End,
			GeneID:     geneID,
		})
	}
	return records, true, nil
}

// Put stores the resolved intervals for a gene.
func (c *coordinateCache) Put(ctx context.Context, geneID string, records []domain.CoordinateRecord) error {
	cached := make([]cachedInterval, 0, len(records))
	for _, rec := range records {
		cached = append(cached, cachedInterval{
			Chromosome: rec.Chromosome,
			Start:      rec.Start,
			End:        rec.End,
		})
	}
	recordsJSON, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshalling interval cache for %s: %w", geneID, err)
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO gene_intervals_cache (gene_id, records, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(gene_id) DO UPDATE SET
			records = excluded.records,
			fetched_at = excluded.fetched_at
	`, geneID, string(recordsJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing interval cache for %s: %w", geneID, err)
	}
	return nil
}
