package domain

import (
	"regexp"
	"strings"
	"time"
)

// Identifier formats are validated at every boundary that accepts external
// input and trusted implicitly downstream.
var (
	// clinicalCodePattern matches NHS test-directory R codes, e.g. "R169"
	// or "R14.1".
	clinicalCodePattern = regexp.MustCompile(`^R\d+(\.\d+)?$`)

	// patientIDPattern keeps patient identifiers to a safe, file- and
	// query-friendly alphabet, e.g. "Patient_1234".
	patientIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)
)

// ValidateClinicalCode checks the R-code format. The code is upper-cased
// before matching so "r169" is accepted and canonicalized by callers via
// CanonicalClinicalCode.
func ValidateClinicalCode(code string) error {
	if !clinicalCodePattern.MatchString(CanonicalClinicalCode(code)) {
		return &ValidationError{
			Field:  "clinical code",
			Value:  code,
			Reason: "must be R followed by digits, e.g. R169",
		}
	}
	return nil
}

// CanonicalClinicalCode trims and upper-cases a clinical code.
func CanonicalClinicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidatePatientID checks the patient identifier format.
func ValidatePatientID(id string) error {
	if !patientIDPattern.MatchString(id) {
		return &ValidationError{
			Field:  "patient id",
			Value:  id,
			Reason: "must be 1-64 characters of letters, digits, '_' or '-'",
		}
	}
	return nil
}

// ParseTestDate parses a test date and rejects dates in the future relative
// to now. The returned time is truncated to date precision in UTC.
func ParseTestDate(value string, now time.Time) (time.Time, error) {
	parsed, err := time.Parse(TestDateLayout, value)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:  "test date",
			Value:  value,
			Reason: "must be formatted YYYY-MM-DD",
		}
	}
	if parsed.After(now) {
		return time.Time{}, &ValidationError{
			Field:  "test date",
			Value:  value,
			Reason: "must not be in the future",
		}
	}
	return parsed.UTC(), nil
}
