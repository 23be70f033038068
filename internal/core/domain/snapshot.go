package domain

import "time"

// SnapshotVersionLayout is the time layout snapshot version ids are derived
// from, e.g. "20231111". Versions derived from dates sort chronologically as
// plain strings.
const SnapshotVersionLayout = "20060102"

// Snapshot is an immutable, versioned copy of the full gene-panel catalog at
// a point in time. Exactly one snapshot is current at any time; superseded
// snapshots are archived (compressed, read-only) but remain addressable by
// version id.
type Snapshot struct {
	// Version is the monotonic version id derived from the retrieval date.
	Version string

	// RetrievedAt is when the catalog data was fetched.
	RetrievedAt time.Time

	// Location describes where the snapshot's panel data lives
	// (live table set or archive area).
	Location string

	// Archived indicates the snapshot has been superseded and its panel
	// records moved to the compressed archive area.
	Archived bool

	// PanelCount is the number of panel records in the snapshot.
	PanelCount int
}

// VersionFromTime derives a snapshot version id from a retrieval time.
func VersionFromTime(t time.Time) string {
	return t.UTC().Format(SnapshotVersionLayout)
}

// VersionDate parses a snapshot version id back into the retrieval date.
func VersionDate(version string) (time.Time, error) {
	return time.Parse(SnapshotVersionLayout, version)
}
