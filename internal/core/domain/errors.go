package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoCurrentSnapshot indicates no snapshot has been built yet.
	ErrNoCurrentSnapshot = errors.New("no current snapshot")

	// ErrSnapshotNotFound indicates the requested snapshot version does not exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrPanelNotFound indicates a clinical code does not exist in the snapshot.
	ErrPanelNotFound = errors.New("panel not found")

	// ErrPatientNotFound indicates no associations exist for the patient.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrDuplicateAssociation indicates the (patient, clinical code, test date)
	// triple is already recorded in the ledger.
	ErrDuplicateAssociation = errors.New("association already exists")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")
)

// ValidationError reports a malformed identifier or date, naming the
// offending field. Validation failures are surfaced immediately, never retried.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// BuildError reports a failed snapshot build attempt. A failed build leaves
// the previous current snapshot untouched.
type BuildError struct {
	Reason string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("snapshot build failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("snapshot build failed: %s", e.Reason)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ReconciliationError reports that a live catalog fetch failed after the
// configured number of attempts.
type ReconciliationError struct {
	ClinicalCode string
	Attempts     int
	Err          error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation for %s failed after %d attempt(s): %v",
		e.ClinicalCode, e.Attempts, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// ExportError reports an I/O failure while writing an output file.
type ExportError struct {
	Destination string
	Err         error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Destination, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
