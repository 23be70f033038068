package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interfaces.
var (
	_ driven.SnapshotStore = (*SnapshotStore)(nil)
	_ driven.PanelStore    = (*SnapshotStore)(nil)
)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore and
// driven.PanelStore. Archived snapshots keep their panels readable, matching
// the durable store's behaviour.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
	panels    map[string]map[string]domain.PanelRecord
	current   string
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]domain.Snapshot),
		panels:    make(map[string]map[string]domain.PanelRecord),
	}
}

// Promote stores a snapshot with its panels and makes it current.
func (s *SnapshotStore) Promote(_ context.Context, snapshot domain.Snapshot, panels []domain.PanelRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != "" && s.current != snapshot.Version {
		prev := s.snapshots[s.current]
		prev.Archived = true
		prev.Location = "archive"
		s.snapshots[s.current] = prev
	}

	byCode := make(map[string]domain.PanelRecord, len(panels))
	for _, rec := range panels {
		byCode[rec.ClinicalCode] = rec
	}

	snapshot.Archived = false
	snapshot.Location = "live"
	snapshot.PanelCount = len(byCode)
	s.snapshots[snapshot.Version] = snapshot
	s.panels[snapshot.Version] = byCode
	s.current = snapshot.Version
	return nil
}

// Current returns the current snapshot.
func (s *SnapshotStore) Current(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == "" {
		return nil, domain.ErrNoCurrentSnapshot
	}
	snap := s.snapshots[s.current]
	return &snap, nil
}

// GetByVersion returns a snapshot by version id.
func (s *SnapshotStore) GetByVersion(_ context.Context, version string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[version]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, version)
	}
	return &snap, nil
}

// List returns all snapshots, newest version first.
func (s *SnapshotStore) List(_ context.Context) ([]domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		result = append(result, snap)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Version > result[j].Version
	})
	return result, nil
}

// GetPanel returns the record for a clinical code within a snapshot version.
func (s *SnapshotStore) GetPanel(_ context.Context, version, clinicalCode string) (*domain.PanelRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byCode, ok := s.panels[version]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, version)
	}
	rec, ok := byCode[clinicalCode]
	if !ok {
		return nil, fmt.Errorf("%w: %s in snapshot %s", domain.ErrPanelNotFound, clinicalCode, version)
	}
	return &rec, nil
}

// ListPanels returns all records of a snapshot version ordered by clinical
// code.
func (s *SnapshotStore) ListPanels(_ context.Context, version string) ([]domain.PanelRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byCode, ok := s.panels[version]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, version)
	}
	result := make([]domain.PanelRecord, 0, len(byCode))
	for _, rec := range byCode {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ClinicalCode < result[j].ClinicalCode
	})
	return result, nil
}
