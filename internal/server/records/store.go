// Package records provides the per-key in-memory tables backing the record
// CRUD collaborators (profiles, vitals, medications, appointments, reports).
// Every table is keyed by its owner — the account for profiles, the profile
// for everything else — so a lookup under the wrong owner is simply absent.
package records

import (
	"sync"

	"github.com/dmitrijs2005/healthlog/internal/common"
)

// Entity is anything with a stable id.
type Entity interface {
	EntityID() string
}

// Store is a mutex-guarded owner -> rows table. Instances are independent;
// tests construct their own.
type Store[T Entity] struct {
	mu      sync.RWMutex
	byOwner map[string][]T
}

func NewStore[T Entity]() *Store[T] {
	return &Store[T]{byOwner: make(map[string][]T)}
}

// List returns the owner's rows in insertion order.
func (s *Store[T]) List(owner string) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.byOwner[owner]
	out := make([]T, len(rows))
	copy(out, rows)
	return out
}

// Get returns the row with the given id under owner, or common.ErrNotFound.
func (s *Store[T]) Get(owner, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.byOwner[owner] {
		if row.EntityID() == id {
			return row, nil
		}
	}
	var zero T
	return zero, common.ErrNotFound
}

// Insert appends a row under owner.
func (s *Store[T]) Insert(owner string, row T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byOwner[owner] = append(s.byOwner[owner], row)
}

// Replace swaps the row with row's id under owner, or common.ErrNotFound.
func (s *Store[T]) Replace(owner string, row T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.byOwner[owner]
	for i, existing := range rows {
		if existing.EntityID() == row.EntityID() {
			rows[i] = row
			return nil
		}
	}
	return common.ErrNotFound
}

// Delete removes the row with the given id under owner, or common.ErrNotFound.
func (s *Store[T]) Delete(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.byOwner[owner]
	for i, existing := range rows {
		if existing.EntityID() == id {
			s.byOwner[owner] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

// ListMeta describes one page of a listing.
type ListMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Paginate slices items for the requested page. Page defaults to 1 and limit
// to 20; total always reflects the full filtered set.
func Paginate[T any](items []T, page, limit int) ([]T, ListMeta) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	meta := ListMeta{Page: page, Limit: limit, Total: len(items)}

	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}, meta
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
