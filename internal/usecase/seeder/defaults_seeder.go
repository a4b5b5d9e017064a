package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/compound-backend/internal/domain"
)

// DefaultsSeeder handles seeding of the default preference profiles
type DefaultsSeeder struct {
	repo     domain.PreferencesRepository
	profiles []uuid.UUID
}

// NewDefaultsSeeder creates a new DefaultsSeeder instance
// With no extra profiles it seeds domain.DefaultProfileID only.
func NewDefaultsSeeder(repo domain.PreferencesRepository, profiles ...uuid.UUID) *DefaultsSeeder {
	if len(profiles) == 0 {
		profiles = []uuid.UUID{domain.DefaultProfileID}
	}
	return &DefaultsSeeder{
		repo:     repo,
		profiles: profiles,
	}
}

// Seed ensures every profile has stored preferences
// Existing profiles are left untouched
func (s *DefaultsSeeder) Seed(ctx context.Context) error {
	for _, id := range s.profiles {
		_, err := s.repo.Get(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrPreferencesNotFound) {
			return fmt.Errorf("failed to check profile %s: %w", id, err)
		}

		prefs := domain.DefaultPreferences(id)
		prefs.UpdatedAt = time.Now().UTC()

		// Validate before creating
		if err := prefs.Validate(); err != nil {
			return err
		}

		if err := s.repo.Save(ctx, prefs); err != nil {
			return fmt.Errorf("failed to seed profile %s: %w", id, err)
		}
	}

	return nil
}
