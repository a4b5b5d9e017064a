package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PreferencesRepository defines the interface for preference persistence operations
type PreferencesRepository interface {
	// Get retrieves the preferences of a profile
	// Returns ErrPreferencesNotFound (possibly wrapped) if none are stored
	Get(ctx context.Context, id uuid.UUID) (*Preferences, error)

	// Save creates or replaces the preferences of a profile
	Save(ctx context.Context, prefs *Preferences) error
}

// ResultCache stores serialized projection results keyed by an input fingerprint
type ResultCache interface {
	// Get returns the cached value and whether it was found
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a value; a zero ttl keeps it until evicted
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
