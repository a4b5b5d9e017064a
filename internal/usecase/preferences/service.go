package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/compound-backend/internal/domain"
	"github.com/simaogato/compound-backend/internal/logging"
)

// PreferencesService loads and stores the last-used calculator state
type PreferencesService struct {
	Repo   domain.PreferencesRepository
	Logger *slog.Logger
	now    func() time.Time
}

// NewPreferencesService creates a new PreferencesService instance
func NewPreferencesService(repo domain.PreferencesRepository, logger *slog.Logger) *PreferencesService {
	return &PreferencesService{
		Repo:   repo,
		Logger: logging.WithComponent(logger, logging.ComponentPreferences),
		now:    time.Now,
	}
}

// Load returns the stored preferences of a profile
// Falls back to the calculator defaults when nothing was saved yet
func (s *PreferencesService) Load(ctx context.Context, id uuid.UUID) (*domain.Preferences, error) {
	if id == uuid.Nil {
		return nil, errors.New("invalid profile ID")
	}

	prefs, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPreferencesNotFound) {
			return domain.DefaultPreferences(id), nil
		}
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

// Save validates and persists the preferences, stamping UpdatedAt
func (s *PreferencesService) Save(ctx context.Context, prefs *domain.Preferences) (*domain.Preferences, error) {
	if prefs == nil {
		return nil, errors.New("invalid preferences: missing body")
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	stored := *prefs
	stored.UpdatedAt = s.now().UTC()

	if err := s.Repo.Save(ctx, &stored); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	s.Logger.InfoContext(ctx, "preferences saved", logging.FieldProfileID, stored.ID.String())
	return &stored, nil
}

// Reset overwrites the profile with the calculator defaults
func (s *PreferencesService) Reset(ctx context.Context, id uuid.UUID) (*domain.Preferences, error) {
	if id == uuid.Nil {
		return nil, errors.New("invalid profile ID")
	}
	return s.Save(ctx, domain.DefaultPreferences(id))
}
