package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miladeb77/panelgenemapper/internal/adapters/driven/storage/memory"
	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driving"
)

// mockLookup implements driven.CoordinateLookup over a fixed map.
type mockLookup struct {
	mu      sync.Mutex
	calls   int
	mapping map[string][]domain.CoordinateRecord
}

func (m *mockLookup) Lookup(_ context.Context, geneID string) ([]domain.CoordinateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.mapping[geneID], nil
}

func testMapping() map[string][]domain.CoordinateRecord {
	return map[string][]domain.CoordinateRecord{
		"BRCA1": {
			{Chromosome: "17", Start: 43044294, End: 43044685, GeneID: "BRCA1"},
			{Chromosome: "17", Start: 43045677, End: 43045802, GeneID: "BRCA1"},
		},
		"GJB2": {
			{Chromosome: "13", Start: 20188901, End: 20189600, GeneID: "GJB2"},
		},
	}
}

func TestBedService_ResolveIntervals(t *testing.T) {
	lookup := &mockLookup{mapping: testMapping()}
	svc := NewBedService(nil, lookup, memory.NewCoordinateCache())

	// UNMAPPED has no interval mapping and is skipped, not failed.
	records, report, err := svc.ResolveIntervals(context.Background(),
		domain.NewGeneSet("BRCA1", "GJB2", "UNMAPPED"))
	require.NoError(t, err)
	assert.Equal(t, 2, report.GenesResolved)
	assert.Equal(t, 1, report.GenesSkipped)
	assert.Equal(t, 3, report.Intervals)
	assert.Len(t, records, 3)
	assert.Equal(t, "13", records[0].Chromosome)
}

func TestBedService_ResolveIntervals_CachesLookups(t *testing.T) {
	lookup := &mockLookup{mapping: testMapping()}
	svc := NewBedService(nil, lookup, memory.NewCoordinateCache())
	ctx := context.Background()
	genes := domain.NewGeneSet("BRCA1", "GJB2", "UNMAPPED")

	_, _, err := svc.ResolveIntervals(ctx, genes)
	require.NoError(t, err)
	assert.Equal(t, 3, lookup.calls)

	// Second resolution is served entirely from cache, including the
	// known-unmapped gene.
	_, report, err := svc.ResolveIntervals(ctx, genes)
	require.NoError(t, err)
	assert.Equal(t, 3, lookup.calls)
	assert.Equal(t, 1, report.GenesSkipped)
}

func TestBedService_Export(t *testing.T) {
	svc := NewBedService(nil, &mockLookup{}, nil)
	dest := filepath.Join(t.TempDir(), "out", "panel.bed")

	records := []domain.CoordinateRecord{
		{Chromosome: "17", Start: 200, End: 300, GeneID: "BRCA1"},
		{Chromosome: "13", Start: 100, End: 150, GeneID: "GJB2"},
		{Chromosome: "13", Start: 100, End: 150, GeneID: "GJB2"}, // duplicate
	}
	require.NoError(t, svc.Export(context.Background(), records, dest))

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "13\t100\t150\tGJB2\n17\t200\t300\tBRCA1\n", string(content))
}

func TestBedService_Export_BadDestination(t *testing.T) {
	svc := NewBedService(nil, &mockLookup{}, nil)

	// The parent "directory" is a regular file, so the write must fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := svc.Export(context.Background(), nil, filepath.Join(blocker, "out.bed"))
	var exportErr *domain.ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Contains(t, exportErr.Destination, "out.bed")
}

func TestBedService_GenerateBed_UnionsPatientPanels(t *testing.T) {
	ledger, _ := newTestLedger(t, &mockCatalog{panels: []domain.PanelData{
		{ClinicalCode: "R169", GeneIDs: []string{"BRCA1"}},
		{ClinicalCode: "R59", GeneIDs: []string{"GJB2", "BRCA1"}},
	}})
	ctx := context.Background()
	_, err := ledger.AddAssociation(ctx, "Patient_001", "R169", "2024-06-10")
	require.NoError(t, err)
	_, err = ledger.AddAssociation(ctx, "Patient_001", "R59", "2024-06-11")
	require.NoError(t, err)

	lookup := &mockLookup{mapping: testMapping()}
	svc := NewBedService(ledger, lookup, memory.NewCoordinateCache())
	dest := filepath.Join(t.TempDir(), "patient.bed")

	report, err := svc.GenerateBed(ctx, driving.BedFilter{PatientID: "Patient_001"}, dest)
	require.NoError(t, err)
	// BRCA1 appears on both panels but is resolved once.
	assert.Equal(t, 2, report.GenesResolved)
	assert.Equal(t, 3, report.Intervals)
	assert.Equal(t, 2, lookup.calls)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t,
		"13\t20188901\t20189600\tGJB2\n"+
			"17\t43044294\t43044685\tBRCA1\n"+
			"17\t43045677\t43045802\tBRCA1\n",
		string(content))
}

func TestBedService_GenerateBed_FilterByCode(t *testing.T) {
	ledger, _ := newTestLedger(t, &mockCatalog{panels: []domain.PanelData{
		{ClinicalCode: "R169", GeneIDs: []string{"BRCA1"}},
		{ClinicalCode: "R59", GeneIDs: []string{"GJB2"}},
	}})
	ctx := context.Background()
	_, err := ledger.AddAssociation(ctx, "Patient_001", "R169", "2024-06-10")
	require.NoError(t, err)
	_, err = ledger.AddAssociation(ctx, "Patient_002", "R59", "2024-06-10")
	require.NoError(t, err)

	lookup := &mockLookup{mapping: testMapping()}
	svc := NewBedService(ledger, lookup, nil)
	dest := filepath.Join(t.TempDir(), "r59.bed")

	report, err := svc.GenerateBed(ctx, driving.BedFilter{ClinicalCode: "R59"}, dest)
	require.NoError(t, err)
	assert.Equal(t, 1, report.GenesResolved)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "13\t20188901\t20189600\tGJB2\n", string(content))
}

func TestBedService_GenerateBed_UnknownPatient(t *testing.T) {
	ledger, _ := newTestLedger(t, defaultCatalog())
	svc := NewBedService(ledger, &mockLookup{}, nil)

	_, err := svc.GenerateBed(context.Background(),
		driving.BedFilter{PatientID: "Unknown_1"},
		filepath.Join(t.TempDir(), "out.bed"))
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}
