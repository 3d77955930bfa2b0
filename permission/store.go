// Package permission holds the developer's krn permission set fetched from
// the identity service. The set is always replaced wholesale; there is no
// delta application, so concurrent sync responses resolve to last-writer-wins.
package permission

import "sync"

// Store maps krn permission-scope identifiers for the authenticated
// developer. Safe for concurrent use.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	mu   sync.RWMutex
	krns map[string]struct{}
}

// NewStore creates an empty permission [Store].
func NewStore() *Store {
	return &Store{krns: make(map[string]struct{})}
}

// ReplaceAll swaps the full permission set. The previous set is discarded
// even when krns is empty.
func (s *Store) ReplaceAll(krns []string) {
	next := make(map[string]struct{}, len(krns))
	for _, krn := range krns {
		if krn == "" {
			continue
		}
		next[krn] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.krns = next
}

// Clear drops every held permission.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.krns = make(map[string]struct{})
}

// Has reports whether the named krn is held.
func (s *Store) Has(krn string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.krns[krn]
	return ok
}

// Krns returns a copy of the held permission set.
func (s *Store) Krns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.krns))
	for krn := range s.krns {
		out = append(out, krn)
	}
	return out
}

// Count returns the number of held permissions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.krns)
}
