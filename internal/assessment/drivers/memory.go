package drivers

import (
	"context"
	"sync"

	"github.com/atharhive/CareLens-sub001/internal/assessment"
)

// InMemoryRepository implements assessment.Repository using an in-memory map.
// Suitable for tests and single-process deployments without durability.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*assessment.AssessmentSession
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		sessions: make(map[string]*assessment.AssessmentSession),
	}
}

// Load implements assessment.Repository.
// Returns nil if the session is not found (not an error).
func (r *InMemoryRepository) Load(ctx context.Context, key string) (*assessment.AssessmentSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[key]
	if !exists {
		return nil, nil
	}
	return s.Clone(), nil
}

// Save implements assessment.Repository.
func (r *InMemoryRepository) Save(ctx context.Context, key string, s *assessment.AssessmentSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[key] = s.Clone()
	return nil
}

// Delete implements assessment.Repository.
func (r *InMemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, key)
	return nil
}

// Close implements assessment.Repository.
func (r *InMemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = nil
	return nil
}
