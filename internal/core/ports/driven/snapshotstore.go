package driven

import (
	"context"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

// SnapshotStore owns the snapshot lifecycle and is the sole writer of the
// "current" pointer. Promotion is all-or-nothing: a failure partway leaves
// the previous current snapshot visible and intact.
type SnapshotStore interface {
	// Promote durably writes a new snapshot with its panel records and
	// atomically makes it current, archiving the previously current
	// snapshot (compressed, still addressable by version). Promoting the
	// same version id again replaces that version's panel set.
	Promote(ctx context.Context, snapshot domain.Snapshot, panels []domain.PanelRecord) error

	// Current returns the current snapshot, or domain.ErrNoCurrentSnapshot.
	Current(ctx context.Context) (*domain.Snapshot, error)

	// GetByVersion returns a snapshot (current or archived) by version id,
	// or domain.ErrSnapshotNotFound.
	GetByVersion(ctx context.Context, version string) (*domain.Snapshot, error)

	// List returns all snapshots, newest version first.
	List(ctx context.Context) ([]domain.Snapshot, error)
}

// PanelStore provides normalized read access to the panel records of a
// snapshot, live or archived. Reads have no side effects.
type PanelStore interface {
	// GetPanel returns the record for a clinical code within a snapshot
	// version, or domain.ErrPanelNotFound. Callers validate the code format
	// before lookup.
	GetPanel(ctx context.Context, version, clinicalCode string) (*domain.PanelRecord, error)

	// ListPanels returns all records of a snapshot version ordered by
	// clinical code.
	ListPanels(ctx context.Context, version string) ([]domain.PanelRecord, error)
}
