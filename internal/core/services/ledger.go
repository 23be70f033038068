package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driving"
	"github.com/Miladeb77/panelgenemapper/internal/logger"
)

var _ driving.Ledger = (*LedgerService)(nil)

// LedgerService records patient associations. Each write binds the
// association to the snapshot version current at write time; gene sets are
// resolved lazily from the panel repository and never cached on the record.
type LedgerService struct {
	associations driven.AssociationStore
	snapshots    driven.SnapshotStore
	panels       driven.PanelStore

	now func() time.Time
}

// NewLedgerService creates a ledger service.
func NewLedgerService(
	associations driven.AssociationStore,
	snapshots driven.SnapshotStore,
	panels driven.PanelStore,
) *LedgerService {
	return &LedgerService{
		associations: associations,
		snapshots:    snapshots,
		panels:       panels,
		now:          time.Now,
	}
}

// SetClock overrides the clock used for date validation. Test hook.
func (s *LedgerService) SetClock(now func() time.Time) {
	s.now = now
}

// AddAssociation validates the identifiers, resolves the clinical code
// against the current snapshot and writes the association. Validation runs
// before any store access so malformed input never reaches the database.
func (s *LedgerService) AddAssociation(ctx context.Context, patientID, clinicalCode, testDate string) (*domain.PatientAssociation, error) {
	if err := domain.ValidatePatientID(patientID); err != nil {
		return nil, err
	}
	code := domain.CanonicalClinicalCode(clinicalCode)
	if err := domain.ValidateClinicalCode(code); err != nil {
		return nil, err
	}
	date, err := domain.ParseTestDate(testDate, s.now())
	if err != nil {
		return nil, err
	}

	current, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, err
	}
	// The code must exist in the current snapshot; a valid format alone is
	// not enough to anchor an association.
	if _, err := s.panels.GetPanel(ctx, current.Version, code); err != nil {
		return nil, fmt.Errorf("resolve %s in snapshot %s: %w", code, current.Version, err)
	}

	assoc := domain.PatientAssociation{
		ID:              uuid.New().String(),
		PatientID:       patientID,
		ClinicalCode:    code,
		TestDate:        date,
		SnapshotVersion: current.Version,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.associations.Add(ctx, assoc); err != nil {
		return nil, err
	}

	logger.Info("Recorded association %s: %s / %s on %s (snapshot %s)",
		assoc.ID, patientID, code, date.Format(domain.TestDateLayout), current.Version)
	return &assoc, nil
}

// ListByPatient returns the patient's associations ordered by test date.
func (s *LedgerService) ListByPatient(ctx context.Context, patientID string) ([]domain.PatientAssociation, error) {
	if err := domain.ValidatePatientID(patientID); err != nil {
		return nil, err
	}
	assocs, err := s.associations.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(assocs) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrPatientNotFound, patientID)
	}
	return assocs, nil
}

// ListByClinicalCode returns associations for one clinical code.
func (s *LedgerService) ListByClinicalCode(ctx context.Context, clinicalCode string) ([]domain.PatientAssociation, error) {
	code := domain.CanonicalClinicalCode(clinicalCode)
	if err := domain.ValidateClinicalCode(code); err != nil {
		return nil, err
	}
	return s.associations.ListByClinicalCode(ctx, code)
}

// ListAll returns every association in the ledger.
func (s *LedgerService) ListAll(ctx context.Context) ([]domain.PatientAssociation, error) {
	return s.associations.List(ctx)
}

// ResolveGenes joins an association to its bound snapshot and returns the
// historical gene set. The bound snapshot may be archived; reads work the
// same either way.
func (s *LedgerService) ResolveGenes(ctx context.Context, assoc domain.PatientAssociation) (domain.GeneSet, error) {
	rec, err := s.panels.GetPanel(ctx, assoc.SnapshotVersion, assoc.ClinicalCode)
	if err != nil {
		if errors.Is(err, domain.ErrPanelNotFound) {
			return nil, fmt.Errorf("panel %s missing from snapshot %s: %w",
				assoc.ClinicalCode, assoc.SnapshotVersion, err)
		}
		return nil, err
	}
	return rec.Genes, nil
}
