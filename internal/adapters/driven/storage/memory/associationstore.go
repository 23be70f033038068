package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
)

// Ensure AssociationStore implements the interface.
var _ driven.AssociationStore = (*AssociationStore)(nil)

// AssociationStore is an in-memory implementation of driven.AssociationStore.
type AssociationStore struct {
	mu     sync.RWMutex
	assocs []domain.PatientAssociation
	seen   map[string]struct{}
}

// NewAssociationStore creates a new in-memory association store.
func NewAssociationStore() *AssociationStore {
	return &AssociationStore{
		seen: make(map[string]struct{}),
	}
}

func tripleKey(assoc domain.PatientAssociation) string {
	return fmt.Sprintf("%s|%s|%s", assoc.PatientID, assoc.ClinicalCode,
		assoc.TestDate.Format(domain.TestDateLayout))
}

// Add inserts a new association, rejecting duplicate triples.
func (s *AssociationStore) Add(_ context.Context, assoc domain.PatientAssociation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tripleKey(assoc)
	if _, ok := s.seen[key]; ok {
		return fmt.Errorf("%w: %s / %s on %s", domain.ErrDuplicateAssociation,
			assoc.PatientID, assoc.ClinicalCode, assoc.TestDate.Format(domain.TestDateLayout))
	}
	s.seen[key] = struct{}{}
	s.assocs = append(s.assocs, assoc)
	return nil
}

// ListByPatient returns the patient's associations ordered by test date.
func (s *AssociationStore) ListByPatient(_ context.Context, patientID string) ([]domain.PatientAssociation, error) {
	return s.filter(func(a domain.PatientAssociation) bool {
		return a.PatientID == patientID
	}), nil
}

// ListByClinicalCode returns associations for a clinical code.
func (s *AssociationStore) ListByClinicalCode(_ context.Context, clinicalCode string) ([]domain.PatientAssociation, error) {
	return s.filter(func(a domain.PatientAssociation) bool {
		return a.ClinicalCode == clinicalCode
	}), nil
}

// List returns all associations ordered by patient id, then test date.
func (s *AssociationStore) List(_ context.Context) ([]domain.PatientAssociation, error) {
	result := s.filter(func(domain.PatientAssociation) bool { return true })
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].PatientID != result[j].PatientID {
			return result[i].PatientID < result[j].PatientID
		}
		return result[i].TestDate.Before(result[j].TestDate)
	})
	return result, nil
}

func (s *AssociationStore) filter(keep func(domain.PatientAssociation) bool) []domain.PatientAssociation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []domain.PatientAssociation{}
	for _, a := range s.assocs {
		if keep(a) {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TestDate.Before(result[j].TestDate)
	})
	return result
}
