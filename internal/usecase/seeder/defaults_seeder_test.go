package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/simaogato/compound-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPreferencesRepository is a mock implementation of PreferencesRepository
type MockPreferencesRepository struct {
	mock.Mock
}

func (m *MockPreferencesRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Preferences, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Preferences), args.Error(1)
}

func (m *MockPreferencesRepository) Save(ctx context.Context, prefs *domain.Preferences) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}

func TestDefaultsSeeder_Seed_ProfileMissing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPreferencesRepository)
	seeder := NewDefaultsSeeder(mockRepo)

	// Mock Get to report the default profile as missing
	mockRepo.On("Get", ctx, domain.DefaultProfileID).Return(nil, domain.ErrPreferencesNotFound)

	mockRepo.On("Save", ctx, mock.MatchedBy(func(p *domain.Preferences) bool {
		return p.ID == domain.DefaultProfileID &&
			p.Inputs.InitialInvestment == 1000 &&
			p.Inputs.Capitalization == domain.CapitalizationMonthly &&
			!p.UpdatedAt.IsZero()
	})).Return(nil)

	// Execute
	err := seeder.Seed(ctx)

	// Assert
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestDefaultsSeeder_Seed_ProfileExists(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPreferencesRepository)
	seeder := NewDefaultsSeeder(mockRepo)

	mockRepo.On("Get", ctx, domain.DefaultProfileID).Return(domain.DefaultPreferences(domain.DefaultProfileID), nil)

	err := seeder.Seed(ctx)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	// Verify Save was NOT called (profile already exists)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestDefaultsSeeder_Seed_PartialProfilesExist(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPreferencesRepository)

	kiosk := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	seeder := NewDefaultsSeeder(mockRepo, domain.DefaultProfileID, kiosk)

	mockRepo.On("Get", ctx, domain.DefaultProfileID).Return(domain.DefaultPreferences(domain.DefaultProfileID), nil)
	mockRepo.On("Get", ctx, kiosk).Return(nil, domain.ErrPreferencesNotFound)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(p *domain.Preferences) bool {
		return p.ID == kiosk
	})).Return(nil)

	err := seeder.Seed(ctx)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestDefaultsSeeder_Seed_RepositoryError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPreferencesRepository)
	seeder := NewDefaultsSeeder(mockRepo)

	mockRepo.On("Get", ctx, domain.DefaultProfileID).Return(nil, errors.New("connection refused"))

	err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	mockRepo.AssertNotCalled(t, "Save")
}

func TestDefaultsSeeder_Seed_SaveError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPreferencesRepository)
	seeder := NewDefaultsSeeder(mockRepo)

	mockRepo.On("Get", ctx, domain.DefaultProfileID).Return(nil, domain.ErrPreferencesNotFound)
	mockRepo.On("Save", ctx, mock.Anything).Return(errors.New("read-only transaction"))

	err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed profile")
}
