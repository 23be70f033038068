package services

import (
	"context"
	"time"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driving"
	"github.com/Miladeb77/panelgenemapper/internal/logger"
)

var _ driving.Reconciler = (*ReconcileService)(nil)

// Default retry policy for live catalog fetches. Overridable via config.
const (
	DefaultRetryAttempts = 3
	DefaultRetryBackoff  = 2 * time.Second
)

// ReconcileService diffs historical gene sets against the live catalog.
// Fetches are retried a bounded number of times with a fixed backoff; the
// diff itself is pure and runs only on a successful fetch.
type ReconcileService struct {
	catalog   driven.CatalogClient
	snapshots driven.SnapshotStore
	panels    driven.PanelStore

	attempts int
	backoff  time.Duration

	// sleep is injectable for tests; defaults to time.Sleep via the
	// context-aware wait below.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewReconcileService creates a reconcile service with the given retry
// policy. Non-positive attempts fall back to the default.
func NewReconcileService(
	catalog driven.CatalogClient,
	snapshots driven.SnapshotStore,
	panels driven.PanelStore,
	attempts int,
	backoff time.Duration,
) *ReconcileService {
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}
	return &ReconcileService{
		catalog:   catalog,
		snapshots: snapshots,
		panels:    panels,
		attempts:  attempts,
		backoff:   backoff,
		sleep:     wait,
	}
}

// SetSleep overrides the inter-attempt wait. Test hook.
func (s *ReconcileService) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	s.sleep = sleep
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ReconcileLive fetches the live panel for a clinical code and diffs it
// against the supplied historical gene set. The live gene identifiers are
// normalized before comparison so formatting drift in the catalog never
// shows up as gene churn.
func (s *ReconcileService) ReconcileLive(ctx context.Context, clinicalCode string, historical domain.GeneSet) (*domain.DiffResult, error) {
	code := domain.CanonicalClinicalCode(clinicalCode)
	if err := domain.ValidateClinicalCode(code); err != nil {
		return nil, err
	}

	live, err := s.fetchWithRetry(ctx, code)
	if err != nil {
		return nil, err
	}

	diff := domain.Diff(code, historical, domain.NewGeneSet(live.GeneIDs...))
	return &diff, nil
}

// ReconcileSnapshot resolves the historical gene set from a stored snapshot
// (current when version is "") and reconciles it against the live catalog.
func (s *ReconcileService) ReconcileSnapshot(ctx context.Context, version, clinicalCode string) (*domain.DiffResult, error) {
	code := domain.CanonicalClinicalCode(clinicalCode)
	if err := domain.ValidateClinicalCode(code); err != nil {
		return nil, err
	}

	if version == "" {
		current, err := s.snapshots.Current(ctx)
		if err != nil {
			return nil, err
		}
		version = current.Version
	}

	rec, err := s.panels.GetPanel(ctx, version, code)
	if err != nil {
		return nil, err
	}
	return s.ReconcileLive(ctx, code, rec.Genes)
}

// fetchWithRetry fetches the live panel, retrying transient failures up to
// the configured attempt count. Exhausted retries surface as a
// *domain.ReconciliationError carrying the attempt count and the last error.
func (s *ReconcileService) fetchWithRetry(ctx context.Context, code string) (*domain.PanelData, error) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		data, err := s.catalog.FetchPanel(ctx, code)
		if err == nil {
			return data, nil
		}
		lastErr = err
		logger.Warn("Live fetch for %s failed (attempt %d/%d): %v", code, attempt, s.attempts, err)

		if attempt < s.attempts {
			if werr := s.sleep(ctx, s.backoff); werr != nil {
				lastErr = werr
				break
			}
		}
	}
	return nil, &domain.ReconciliationError{
		ClinicalCode: code,
		Attempts:     s.attempts,
		Err:          lastErr,
	}
}
