// Package memory keeps preferences in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/compound-backend/internal/domain"
)

// PreferencesRepository is an in-memory implementation of domain.PreferencesRepository
type PreferencesRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.Preferences
}

// NewPreferencesRepository creates an empty in-memory repository
func NewPreferencesRepository() *PreferencesRepository {
	return &PreferencesRepository{
		items: make(map[uuid.UUID]domain.Preferences),
	}
}

// Get retrieves the preferences of a profile
func (r *PreferencesRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.items[id]
	if !ok {
		return nil, domain.ErrPreferencesNotFound
	}
	return clonePreferences(prefs), nil
}

// Save creates or replaces the preferences of a profile
func (r *PreferencesRepository) Save(ctx context.Context, prefs *domain.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[prefs.ID] = *clonePreferences(*prefs)
	return nil
}

// clonePreferences copies the variable contribution slice so callers never share it
func clonePreferences(p domain.Preferences) *domain.Preferences {
	out := p
	if p.Inputs.VariableContributions != nil {
		out.Inputs.VariableContributions = append([]domain.VariableContribution(nil), p.Inputs.VariableContributions...)
	}
	if p.Inputs.TargetValue != nil {
		target := *p.Inputs.TargetValue
		out.Inputs.TargetValue = &target
	}
	return &out
}
