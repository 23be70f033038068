package domain

// PanelData is the raw shape returned by the external catalog client for a
// single clinical code, before normalization.
type PanelData struct {
	// ClinicalCode is the test-directory code the panel answers to, e.g. "R169".
	ClinicalCode string

	// Name is the human-readable panel name.
	Name string

	// PanelVersion is the catalog's own version string for the panel, e.g. "2.1".
	PanelVersion string

	// GeneIDs are the raw gene identifiers as reported by the catalog.
	GeneIDs []string
}

// PanelRecord is a normalized panel within a snapshot. Gene identifiers are
// canonical; the record never changes after the snapshot is built.
type PanelRecord struct {
	// ClinicalCode is unique within a snapshot.
	ClinicalCode string

	// Name is the panel name as of the snapshot.
	Name string

	// PanelVersion is the catalog's panel version as of the snapshot.
	PanelVersion string

	// Genes is the non-empty set of canonical gene identifiers.
	Genes GeneSet

	// SnapshotVersion is the version id of the snapshot this record belongs to.
	SnapshotVersion string
}
