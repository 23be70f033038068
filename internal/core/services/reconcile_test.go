package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miladeb77/panelgenemapper/internal/adapters/driven/storage/memory"
	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

// flakyCatalog fails the first n FetchPanel calls, then succeeds.
type flakyCatalog struct {
	failures int
	calls    int
	panel    domain.PanelData
	sleeps   []time.Duration
}

func (f *flakyCatalog) FetchAllPanels(_ context.Context) ([]domain.PanelData, error) {
	return []domain.PanelData{f.panel}, nil
}

func (f *flakyCatalog) FetchPanel(_ context.Context, _ string) (*domain.PanelData, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	return &f.panel, nil
}

func newTestReconciler(catalog *flakyCatalog, attempts int) *ReconcileService {
	snapshots := memory.NewSnapshotStore()
	svc := NewReconcileService(catalog, snapshots, snapshots, attempts, time.Millisecond)
	svc.SetSleep(func(_ context.Context, d time.Duration) error {
		catalog.sleeps = append(catalog.sleeps, d)
		return nil
	})
	return svc
}

func TestReconcileService_ReconcileLive(t *testing.T) {
	catalog := &flakyCatalog{panel: domain.PanelData{
		ClinicalCode: "R169",
		GeneIDs:      []string{"BRCA1", "mlh1", "TP53"},
	}}
	svc := newTestReconciler(catalog, 3)

	historical := domain.NewGeneSet("BRCA1", "BRCA2", "TP53")
	diff, err := svc.ReconcileLive(context.Background(), "r169", historical)
	require.NoError(t, err)
	assert.Equal(t, "R169", diff.ClinicalCode)
	assert.Equal(t, []string{"MLH1"}, diff.Added)
	assert.Equal(t, []string{"BRCA2"}, diff.Removed)
	assert.Equal(t, 1, catalog.calls)
}

func TestReconcileService_ReconcileLive_RetriesTransientFailures(t *testing.T) {
	catalog := &flakyCatalog{
		failures: 2,
		panel:    domain.PanelData{ClinicalCode: "R169", GeneIDs: []string{"BRCA1"}},
	}
	svc := newTestReconciler(catalog, 3)

	diff, err := svc.ReconcileLive(context.Background(), "R169", domain.NewGeneSet("BRCA1"))
	require.NoError(t, err)
	assert.True(t, diff.Identical())
	assert.Equal(t, 3, catalog.calls)
	assert.Len(t, catalog.sleeps, 2)
}

func TestReconcileService_ReconcileLive_ExhaustedRetries(t *testing.T) {
	catalog := &flakyCatalog{
		failures: 10,
		panel:    domain.PanelData{ClinicalCode: "R169", GeneIDs: []string{"BRCA1"}},
	}
	svc := newTestReconciler(catalog, 3)

	_, err := svc.ReconcileLive(context.Background(), "R169", domain.NewGeneSet("BRCA1"))
	var recErr *domain.ReconciliationError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "R169", recErr.ClinicalCode)
	assert.Equal(t, 3, recErr.Attempts)
	assert.Equal(t, 3, catalog.calls)
}

func TestReconcileService_ReconcileLive_InvalidCode(t *testing.T) {
	svc := newTestReconciler(&flakyCatalog{}, 3)

	_, err := svc.ReconcileLive(context.Background(), "bogus", domain.NewGeneSet("BRCA1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReconcileService_ReconcileSnapshot(t *testing.T) {
	snapshots := memory.NewSnapshotStore()
	snapshotSvc := NewSnapshotService(snapshots, snapshots, &mockCatalog{panels: []domain.PanelData{
		{ClinicalCode: "R169", GeneIDs: []string{"BRCA1", "BRCA2"}},
	}})
	snapshotSvc.SetClock(fixedClock("2024-06-15"))
	_, err := snapshotSvc.Update(context.Background())
	require.NoError(t, err)

	// The live panel has dropped BRCA2 since the snapshot was taken.
	catalog := &flakyCatalog{panel: domain.PanelData{
		ClinicalCode: "R169",
		GeneIDs:      []string{"BRCA1"},
	}}
	svc := NewReconcileService(catalog, snapshots, snapshots, 1, time.Millisecond)

	diff, err := svc.ReconcileSnapshot(context.Background(), "", "R169")
	require.NoError(t, err)
	assert.Empty(t, diff.Added)
	assert.Equal(t, []string{"BRCA2"}, diff.Removed)
}

func TestReconcileService_ReconcileSnapshot_NoCurrentSnapshot(t *testing.T) {
	svc := newTestReconciler(&flakyCatalog{}, 1)

	_, err := svc.ReconcileSnapshot(context.Background(), "", "R169")
	assert.ErrorIs(t, err, domain.ErrNoCurrentSnapshot)
}

func TestReconcileService_ReconcileSnapshot_UnknownVersion(t *testing.T) {
	svc := newTestReconciler(&flakyCatalog{}, 1)

	_, err := svc.ReconcileSnapshot(context.Background(), "19990101", "R169")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}
