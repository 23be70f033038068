package domain

import "time"

// TestDateLayout is the accepted test date format.
const TestDateLayout = "2006-01-02"

// PatientAssociation binds a patient, a clinical code, a test date and the
// snapshot version that was current at the time of the test. The snapshot
// reference is a value, never a live handle, so archiving a snapshot never
// invalidates history.
type PatientAssociation struct {
	// ID is the unique identifier for the record.
	ID string

	// PatientID identifies the patient.
	PatientID string

	// ClinicalCode is the test-directory code that was ordered.
	ClinicalCode string

	// TestDate is the date the test was performed (date precision).
	TestDate time.Time

	// SnapshotVersion is the version id of the snapshot current at the test
	// date's ledger write. Resolved lazily against the panel repository.
	SnapshotVersion string

	// CreatedAt is when the record was written to the ledger.
	CreatedAt time.Time
}
