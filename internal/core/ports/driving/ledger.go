package driving

import (
	"context"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

// Ledger manages patient-to-panel associations and their historical gene
// sets.
type Ledger interface {
	// AddAssociation validates the identifiers and date, resolves the
	// clinical code against the current snapshot and records the
	// association bound to that snapshot's version id.
	AddAssociation(ctx context.Context, patientID, clinicalCode, testDate string) (*domain.PatientAssociation, error)

	// ListByPatient returns the patient's associations ordered by test date
	// ascending, or domain.ErrPatientNotFound if none exist.
	ListByPatient(ctx context.Context, patientID string) ([]domain.PatientAssociation, error)

	// ListByClinicalCode returns associations for a clinical code.
	ListByClinicalCode(ctx context.Context, clinicalCode string) ([]domain.PatientAssociation, error)

	// ListAll returns every association in the ledger.
	ListAll(ctx context.Context) ([]domain.PatientAssociation, error)

	// ResolveGenes returns the historical gene set for an association by
	// joining its bound snapshot version to the panel repository. The gene
	// set is never cached on the association.
	ResolveGenes(ctx context.Context, assoc domain.PatientAssociation) (domain.GeneSet, error)
}
