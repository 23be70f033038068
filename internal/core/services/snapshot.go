package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driving"
	"github.com/Miladeb77/panelgenemapper/internal/logger"
)

// Ensure SnapshotService implements the interface.
var _ driving.CatalogOrchestrator = (*SnapshotService)(nil)

// SnapshotService coordinates snapshot builds: fetch the live catalog,
// normalize it once, and promote the result atomically. It is the single
// normalization boundary; every stored gene identifier is canonical.
type SnapshotService struct {
	snapshots driven.SnapshotStore
	panels    driven.PanelStore
	catalog   driven.CatalogClient

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewSnapshotService creates a snapshot service.
func NewSnapshotService(
	snapshots driven.SnapshotStore,
	panels driven.PanelStore,
	catalog driven.CatalogClient,
) *SnapshotService {
	return &SnapshotService{
		snapshots: snapshots,
		panels:    panels,
		catalog:   catalog,
		now:       time.Now,
	}
}

// SetClock overrides the clock used for version derivation. Test hook.
func (s *SnapshotService) SetClock(now func() time.Time) {
	s.now = now
}

// Update fetches the full live catalog, builds a snapshot versioned by
// today's date and promotes it to current. A fetch failure happens entirely
// before any write, so a failed update leaves the prior snapshot current.
func (s *SnapshotService) Update(ctx context.Context) (*domain.Snapshot, error) {
	if s.catalog == nil {
		return nil, domain.ErrNotImplemented
	}

	logger.Info("Fetching full panel catalog")
	data, err := s.catalog.FetchAllPanels(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	retrievedAt := s.now().UTC()
	snapshot := domain.Snapshot{
		Version:     domain.VersionFromTime(retrievedAt),
		RetrievedAt: retrievedAt,
	}

	records, err := BuildPanelRecords(snapshot.Version, data)
	if err != nil {
		return nil, err
	}
	snapshot.PanelCount = len(records)

	if err := s.snapshots.Promote(ctx, snapshot, records); err != nil {
		return nil, fmt.Errorf("promote snapshot %s: %w", snapshot.Version, err)
	}

	logger.Info("Promoted snapshot %s with %d panels", snapshot.Version, len(records))
	return &snapshot, nil
}

// BuildPanelRecords normalizes fetched panel data into snapshot records.
// Panels without a valid clinical code are dropped; a surviving record whose
// gene set normalizes to empty fails the whole build, as does an empty
// catalog.
func BuildPanelRecords(version string, data []domain.PanelData) ([]domain.PanelRecord, error) {
	if len(data) == 0 {
		return nil, &domain.BuildError{Reason: "catalog returned no panels"}
	}

	byCode := make(map[string]domain.PanelRecord, len(data))
	for _, pd := range data {
		code := domain.CanonicalClinicalCode(pd.ClinicalCode)
		if domain.ValidateClinicalCode(code) != nil {
			logger.Debug("Skipping panel %q: no valid clinical code", pd.Name)
			continue
		}

		genes := domain.NewGeneSet(pd.GeneIDs...)
		if genes.Len() == 0 {
			return nil, &domain.BuildError{
				Reason: fmt.Sprintf("panel %s has an empty gene set", code),
			}
		}

		// Last write wins on duplicate codes within one catalog walk.
		byCode[code] = domain.PanelRecord{
			ClinicalCode:    code,
			Name:            pd.Name,
			PanelVersion:    pd.PanelVersion,
			Genes:           genes,
			SnapshotVersion: version,
		}
	}

	if len(byCode) == 0 {
		return nil, &domain.BuildError{Reason: "no panels carry a clinical code"}
	}

	records := make([]domain.PanelRecord, 0, len(byCode))
	for _, rec := range byCode {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ClinicalCode < records[j].ClinicalCode
	})
	return records, nil
}

// Current returns the current snapshot.
func (s *SnapshotService) Current(ctx context.Context) (*domain.Snapshot, error) {
	return s.snapshots.Current(ctx)
}

// GetPanel returns the panel record for a clinical code. An empty version
// resolves against the current snapshot. The code format is validated before
// any lookup.
func (s *SnapshotService) GetPanel(ctx context.Context, version, clinicalCode string) (*domain.PanelRecord, error) {
	code := domain.CanonicalClinicalCode(clinicalCode)
	if err := domain.ValidateClinicalCode(code); err != nil {
		return nil, err
	}

	if version == "" {
		current, err := s.snapshots.Current(ctx)
		if err != nil {
			return nil, err
		}
		version = current.Version
	} else if _, err := s.snapshots.GetByVersion(ctx, version); err != nil {
		return nil, err
	}

	return s.panels.GetPanel(ctx, version, code)
}

// CompareWithAPI compares the clinical codes of the current snapshot against
// the live catalog listing.
func (s *SnapshotService) CompareWithAPI(ctx context.Context) (*driving.CatalogDrift, error) {
	current, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, err
	}

	local, err := s.panels.ListPanels(ctx, current.Version)
	if err != nil {
		return nil, fmt.Errorf("list local panels: %w", err)
	}

	live, err := s.catalog.FetchAllPanels(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch live catalog: %w", err)
	}

	localCodes := make(map[string]struct{}, len(local))
	for _, rec := range local {
		localCodes[rec.ClinicalCode] = struct{}{}
	}
	liveCodes := make(map[string]struct{}, len(live))
	for _, pd := range live {
		code := domain.CanonicalClinicalCode(pd.ClinicalCode)
		if domain.ValidateClinicalCode(code) == nil {
			liveCodes[code] = struct{}{}
		}
	}

	drift := &driving.CatalogDrift{SnapshotVersion: current.Version}
	for code := range localCodes {
		if _, ok := liveCodes[code]; !ok {
			drift.OnlyLocal = append(drift.OnlyLocal, code)
		}
	}
	for code := range liveCodes {
		if _, ok := localCodes[code]; !ok {
			drift.OnlyLive = append(drift.OnlyLive, code)
		}
	}
	sort.Strings(drift.OnlyLocal)
	sort.Strings(drift.OnlyLive)
	return drift, nil
}
