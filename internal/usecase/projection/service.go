package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/simaogato/compound-backend/internal/domain"
	"github.com/simaogato/compound-backend/internal/finance"
	"github.com/simaogato/compound-backend/internal/logging"
)

// cacheKeyPrefix namespaces projection entries in a shared cache
const cacheKeyPrefix = "projection:v1:"

// ProjectionService handles projection-related operations
type ProjectionService struct {
	Cache    domain.ResultCache // optional
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// NewProjectionService creates a new ProjectionService instance
// A nil cache disables result caching.
func NewProjectionService(cache domain.ResultCache, cacheTTL time.Duration, logger *slog.Logger) *ProjectionService {
	return &ProjectionService{
		Cache:    cache,
		CacheTTL: cacheTTL,
		Logger:   logging.WithComponent(logger, logging.ComponentProjection),
	}
}

// Calculate runs a projection for the given inputs
// Logic:
//  1. Validate inputs (the engine itself never fails)
//  2. Return the cached result when the same inputs were computed before
//  3. Run the engine, rejecting results that overflow float64
//  4. Cache the result (not critical if caching fails)
func (s *ProjectionService) Calculate(ctx context.Context, inputs domain.CalculationInputs) (*domain.CalculationResults, error) {
	if err := inputs.Validate(); err != nil {
		return nil, err
	}

	key, err := CacheKey(inputs)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	results := finance.Calculate(inputs)
	if !results.Finite() {
		return nil, domain.ErrProjectionOverflow
	}
	s.Logger.DebugContext(ctx, "projection calculated",
		logging.FieldCacheKey, key,
		logging.FieldPeriods, len(results.Periods))

	s.store(ctx, key, &results)

	return &results, nil
}

// TimeToGoal returns how long the inputs take to reach targetValue
// Returns domain.ErrGoalUnreachable when the target needs more than 100 years.
func (s *ProjectionService) TimeToGoal(ctx context.Context, inputs domain.GoalInputs, targetValue float64) (*domain.GoalDuration, error) {
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	if targetValue <= 0 {
		return nil, fmt.Errorf("invalid target value %v: must be positive", targetValue)
	}

	goal, ok := finance.TimeToGoal(inputs, targetValue)
	if !ok {
		return nil, domain.ErrGoalUnreachable
	}
	return &goal, nil
}

// CacheKey fingerprints the inputs of a projection
func CacheKey(inputs domain.CalculationInputs) (string, error) {
	payload, err := json.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("failed to encode projection inputs: %w", err)
	}
	return cacheKeyPrefix + strconv.FormatUint(xxhash.Sum64(payload), 16), nil
}

func (s *ProjectionService) lookup(ctx context.Context, key string) (*domain.CalculationResults, bool) {
	if s.Cache == nil {
		return nil, false
	}

	raw, ok := s.Cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var results domain.CalculationResults
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		s.Logger.WarnContext(ctx, "discarding unreadable cached projection",
			logging.FieldCacheKey, key,
			logging.FieldError, err)
		return nil, false
	}
	return &results, true
}

func (s *ProjectionService) store(ctx context.Context, key string, results *domain.CalculationResults) {
	if s.Cache == nil {
		return
	}

	payload, err := json.Marshal(results)
	if err != nil {
		s.Logger.WarnContext(ctx, "failed to encode projection for cache", logging.FieldError, err)
		return
	}

	if err := s.Cache.Set(ctx, key, string(payload), s.CacheTTL); err != nil {
		s.Logger.WarnContext(ctx, "failed to cache projection",
			logging.FieldCacheKey, key,
			logging.FieldError, err)
	}
}
