package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/rapidfire/pkg/domain"
)

// Store implements ports.ProjectStore in memory.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	project *domain.Project
	saves   int
	saveErr error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWith creates a store pre-populated with project.
func NewStoreWith(project domain.Project) *Store {
	p := project.Clone()
	return &Store{project: &p}
}

// Save keeps a deep copy of the project, similar to serialization.
func (s *Store) Save(ctx context.Context, project domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	p := project.Clone()
	s.project = &p
	s.saves++
	return nil
}

// Load returns a copy so callers can't mutate store state directly.
func (s *Store) Load(ctx context.Context) (domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project == nil {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	if err := s.project.Validate(); err != nil {
		return domain.Project{}, fmt.Errorf("%w: %w", domain.ErrMalformedProject, err)
	}
	return s.project.Clone(), nil
}

// Saves returns how many successful saves the store has seen.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// FailSaves makes every subsequent Save return err. Pass nil to recover.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}
