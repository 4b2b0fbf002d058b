// Package store holds the ordered in-memory lead collection. It is the only
// shared mutable state in the application; all mutations go through its
// methods, never through direct field assignment from outside.
package store

import (
	"sort"
	"sync"

	"prospector_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Store is a mutex-serialized ordered collection of leads. Methods hand out
// copies; callers never see a pointer into the collection.
type Store struct {
	mu    sync.RWMutex
	leads []domain.Lead
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// InsertRanked merges newly found leads ahead of the existing collection.
// New leads are sorted among themselves by qualification score descending
// (an absent score ranks as 0 here, and only here); the relative order of
// existing leads is preserved and never re-sorted.
func (s *Store) InsertRanked(newLeads []domain.Lead) {
	if len(newLeads) == 0 {
		return
	}

	ranked := make([]domain.Lead, len(newLeads))
	copy(ranked, newLeads)
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankScore(ranked[i]) > rankScore(ranked[j])
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(ranked, s.leads...)
}

// GetByID returns a copy of the lead with the given id.
func (s *Store) GetByID(id uuid.UUID) (domain.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.leads {
		if s.leads[i].ID == id {
			return s.leads[i], true
		}
	}
	return domain.Lead{}, false
}

// UpdateByID applies the mutator to exactly one lead under the store lock.
// Returns false (no-op) when the id is absent. The mutator must not block:
// it runs with the collection locked.
func (s *Store) UpdateByID(id uuid.UUID, mutate func(*domain.Lead)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.leads {
		if s.leads[i].ID == id {
			mutate(&s.leads[i])
			return true
		}
	}
	return false
}

// RemoveByID deletes one lead. Removing an absent id is a no-op, not an
// error, so deletion is idempotent.
func (s *Store) RemoveByID(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.leads {
		if s.leads[i].ID == id {
			s.leads = append(s.leads[:i], s.leads[i+1:]...)
			return true
		}
	}
	return false
}

// All returns an ordered snapshot of the collection.
func (s *Store) All() []domain.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// FindByStatus returns an ordered snapshot of leads currently in the given
// status. Bulk actions use this to freeze their target set at batch start.
func (s *Store) FindByStatus(status domain.Status) []domain.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Lead
	for i := range s.leads {
		if s.leads[i].Status == status {
			out = append(out, s.leads[i])
		}
	}
	return out
}

// Len returns the number of leads held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}

func rankScore(l domain.Lead) int {
	if l.QualificationScore == nil {
		return 0
	}
	return *l.QualificationScore
}
