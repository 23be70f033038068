package driving

import (
	"context"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

// CatalogOrchestrator coordinates snapshot builds and catalog-level
// comparisons.
type CatalogOrchestrator interface {
	// Update fetches the full live catalog, builds a new snapshot and
	// promotes it to current. Returns the promoted snapshot.
	Update(ctx context.Context) (*domain.Snapshot, error)

	// Current returns the current snapshot.
	Current(ctx context.Context) (*domain.Snapshot, error)

	// GetPanel returns the panel record for a clinical code within the
	// given snapshot version ("" means the current snapshot). The code is
	// format-validated before lookup.
	GetPanel(ctx context.Context, version, clinicalCode string) (*domain.PanelRecord, error)

	// CompareWithAPI reports which clinical codes differ between the
	// current snapshot and the live catalog listing.
	CompareWithAPI(ctx context.Context) (*CatalogDrift, error)
}

// CatalogDrift summarizes code-level differences between the current
// snapshot and the live catalog.
type CatalogDrift struct {
	// SnapshotVersion is the local snapshot the comparison ran against.
	SnapshotVersion string

	// OnlyLocal are clinical codes present in the snapshot but absent live.
	OnlyLocal []string

	// OnlyLive are clinical codes present live but absent locally.
	OnlyLive []string
}

// InSync reports whether the local snapshot covers exactly the live codes.
func (d *CatalogDrift) InSync() bool {
	return len(d.OnlyLocal) == 0 && len(d.OnlyLive) == 0
}
