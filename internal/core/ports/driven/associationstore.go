package driven

import (
	"context"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

// AssociationStore persists patient associations. It exclusively owns the
// ledger records and references snapshots by version id only.
type AssociationStore interface {
	// Add inserts a new association. Returns domain.ErrDuplicateAssociation
	// if the (patient id, clinical code, test date) triple already exists;
	// the uniqueness check and insert are atomic with respect to concurrent
	// writers.
	Add(ctx context.Context, assoc domain.PatientAssociation) error

	// ListByPatient returns the patient's associations ordered by test date
	// ascending. An empty result is returned as an empty slice, not an error;
	// the service layer maps it to domain.ErrPatientNotFound.
	ListByPatient(ctx context.Context, patientID string) ([]domain.PatientAssociation, error)

	// ListByClinicalCode returns associations for a clinical code ordered by
	// test date ascending.
	ListByClinicalCode(ctx context.Context, clinicalCode string) ([]domain.PatientAssociation, error)

	// List returns all associations ordered by patient id, then test date.
	List(ctx context.Context) ([]domain.PatientAssociation, error)
}
