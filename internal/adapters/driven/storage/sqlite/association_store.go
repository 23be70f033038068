package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
)

// associationStore implements driven.AssociationStore.
type associationStore struct {
	store *Store
}

var _ driven.AssociationStore = (*associationStore)(nil)

// Add inserts a new association. The UNIQUE(patient_id, clinical_code,
// test_date) constraint makes the duplicate check atomic with the insert.
func (s *associationStore) Add(ctx context.Context, assoc domain.PatientAssociation) error {
	s.store.writeMu.Lock()
	defer s.store.writeMu.Unlock()

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO patient_associations (id, patient_id, clinical_code, test_date, snapshot_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, assoc.ID, assoc.PatientID, assoc.ClinicalCode,
		assoc.TestDate.Format(domain.TestDateLayout),
		assoc.SnapshotVersion,
		assoc.CreatedAt.UTC().Format(time.RFC3339))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s / %s on %s", domain.ErrDuplicateAssociation,
			assoc.PatientID, assoc.ClinicalCode, assoc.TestDate.Format(domain.TestDateLayout))
	}
	if err != nil {
		return fmt.Errorf("inserting association: %w", err)
	}
	return nil
}

// ListByPatient returns the patient's associations ordered by test date.
func (s *associationStore) ListByPatient(ctx context.Context, patientID string) ([]domain.PatientAssociation, error) {
	return s.query(ctx, `
		SELECT id, patient_id, clinical_code, test_date, snapshot_version, created_at
		FROM patient_associations
		WHERE patient_id = ?
		ORDER BY test_date ASC, created_at ASC
	`, patientID)
}

// ListByClinicalCode returns associations for a clinical code.
func (s *associationStore) ListByClinicalCode(ctx context.Context, clinicalCode string) ([]domain.PatientAssociation, error) {
	return s.query(ctx, `
		SELECT id, patient_id, clinical_code, test_date, snapshot_version, created_at
		FROM patient_associations
		WHERE clinical_code = ?
		ORDER BY test_date ASC, created_at ASC
	`, clinicalCode)
}

// List returns all associations ordered by patient id, then test date.
func (s *associationStore) List(ctx context.Context) ([]domain.PatientAssociation, error) {
	return s.query(ctx, `
		SELECT id, patient_id, clinical_code, test_date, snapshot_version, created_at
		FROM patient_associations
		ORDER BY patient_id ASC, test_date ASC, created_at ASC
	`)
}

func (s *associationStore) query(ctx context.Context, q string, args ...any) ([]domain.PatientAssociation, error) {
	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying associations: %w", err)
	}
	defer rows.Close()

	assocs := []domain.PatientAssociation{}
	for rows.Next() {
		assoc, err := scanAssociation(rows)
		if err != nil {
			return nil, err
		}
		assocs = append(assocs, *assoc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating associations: %w", err)
	}
	return assocs, nil
}

// scanAssociation scans an association from *sql.Rows.
func scanAssociation(rows *sql.Rows) (*domain.PatientAssociation, error) {
	var assoc domain.PatientAssociation
	var testDate, createdAt string
	if err := rows.Scan(&assoc.ID, &assoc.PatientID, &assoc.ClinicalCode,
		&testDate, &assoc.SnapshotVersion, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning association: %w", err)
	}
	if t, err := time.Parse(domain.TestDateLayout, testDate); err == nil {
		assoc.TestDate = t
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		assoc.CreatedAt = t
	}
	return &assoc, nil
}
