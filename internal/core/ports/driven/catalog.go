package driven

import (
	"context"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

// CatalogClient fetches panel data from the remote gene-panel catalog.
// Implementations surface network and HTTP failures as typed errors and make
// no retry promises; the core applies its own retry policy at the
// orchestration boundary.
type CatalogClient interface {
	// FetchPanel returns the live panel for one clinical code.
	FetchPanel(ctx context.Context, clinicalCode string) (*domain.PanelData, error)

	// FetchAllPanels walks the full catalog and returns one PanelData per
	// clinical code for every panel carrying a test-directory code.
	FetchAllPanels(ctx context.Context) ([]domain.PanelData, error)
}
