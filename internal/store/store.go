// Package store implements the Snapshot Store (C5): the single
// previous-observation StateTree a session keeps for diffing against,
// bounded to exactly one tree's memory (§3 "Lifecycles").
package store

import (
	"sync"

	"github.com/mkrivchun/browserlens/internal/model"
)

// Store holds at most one StateTree at a time. Put only commits on success:
// callers build the new tree, run the full observe pipeline against the
// currently stored tree, and only then call Put — a failed step leaves the
// previously committed tree in place for the next attempt.
type Store struct {
	mu   sync.Mutex
	tree *model.StateTree
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Get returns the currently stored tree, or nil if the store is empty
// (first observation in a session, or since the last Clear/Reset).
func (s *Store) Get() *model.StateTree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Put replaces the stored tree. Called only once a step has fully succeeded,
// so a mid-step failure never corrupts the baseline used for the next diff.
func (s *Store) Put(tree *model.StateTree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = tree
}

// Clear empties the store, forcing the next Observe to treat the page as
// FRESH (§6 Session.Reset()).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = nil
}
