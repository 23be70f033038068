package driving

import (
	"context"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

// Reconciler compares historical gene sets against the live catalog.
type Reconciler interface {
	// ReconcileLive fetches the live panel for the clinical code (with the
	// configured bounded retries) and diffs it against the supplied
	// historical gene set. On exhausted retries the error is a
	// *domain.ReconciliationError carrying the attempt count.
	ReconcileLive(ctx context.Context, clinicalCode string, historical domain.GeneSet) (*domain.DiffResult, error)

	// ReconcileSnapshot resolves the clinical code's gene set from the given
	// snapshot version ("" means current) and reconciles it against the
	// live catalog.
	ReconcileSnapshot(ctx context.Context, version, clinicalCode string) (*domain.DiffResult, error)
}
