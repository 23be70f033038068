package memory

import (
	"context"
	"sync"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
)

// Ensure CoordinateCache implements the interface.
var _ driven.CoordinateCache = (*CoordinateCache)(nil)

// CoordinateCache is an in-memory implementation of driven.CoordinateCache.
type CoordinateCache struct {
	mu      sync.RWMutex
	entries map[string][]domain.CoordinateRecord
}

// NewCoordinateCache creates a new in-memory coordinate cache.
func NewCoordinateCache() *CoordinateCache {
	return &CoordinateCache{
		entries: make(map[string][]domain.CoordinateRecord),
	}
}

// Get returns cached intervals for a gene.
func (c *CoordinateCache) Get(_ context.Context, geneID string) ([]domain.CoordinateRecord, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	recs, ok := c.entries[geneID]
	if !ok {
		return nil, false, nil
	}
	out := make([]domain.CoordinateRecord, len(recs))
	copy(out, recs)
	return out, true, nil
}

// Put stores the resolved intervals for a gene, including empty results.
func (c *CoordinateCache) Put(_ context.Context, geneID string, records []domain.CoordinateRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := make([]domain.CoordinateRecord, len(records))
	copy(stored, records)
	c.entries[geneID] = stored
	return nil
}
