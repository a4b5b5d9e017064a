package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/compound-backend/internal/adapter/cache"
	"github.com/simaogato/compound-backend/internal/adapter/dto"
	"github.com/simaogato/compound-backend/internal/adapter/repository/memory"
	"github.com/simaogato/compound-backend/internal/domain"
	"github.com/simaogato/compound-backend/internal/logging"
	"github.com/simaogato/compound-backend/internal/usecase/preferences"
	"github.com/simaogato/compound-backend/internal/usecase/projection"
)

const testToken = "test-token-123"

func newTestClient(t *testing.T) *ProjectionServiceClient {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)

	logger := logging.Discard()
	projectionService := projection.NewProjectionService(cache.NewMemoryCache(), time.Minute, logger)
	preferencesService := preferences.NewPreferencesService(memory.NewPreferencesRepository(), logger)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		AuthInterceptor(testToken),
	))
	RegisterProjectionServiceServer(srv, NewServer(projectionService, preferencesService))

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewProjectionServiceClient(conn)
}

func authContext() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func mustEncode(t *testing.T, v any) *structpb.Struct {
	t.Helper()
	msg, err := EncodeMessage(v)
	require.NoError(t, err)
	return msg
}

func baseRequest() dto.CalculationRequest {
	return dto.CalculationRequest{
		InitialInvestment:     1000,
		Contribution:          200,
		ContributionFrequency: "monthly",
		InterestRate:          1,
		InterestBase:          "monthly",
		Period:                12,
		PeriodUnit:            "months",
		Capitalization:        "monthly",
		InflationRate:         4,
	}
}

func TestServer_Calculate(t *testing.T) {
	client := newTestClient(t)

	req := baseRequest()
	target := 5000.0
	req.TargetValue = &target

	out, err := client.Calculate(authContext(), mustEncode(t, req))
	require.NoError(t, err)

	var resp dto.CalculationResponse
	require.NoError(t, DecodeMessage(out, &resp))

	assert.Len(t, resp.Periods, 12)
	assert.InDelta(t, 3663.33, resp.FutureValueNominal, 0.01)
	assert.InDelta(t, 3400.0, resp.TotalInvested, 1e-9)
	assert.Equal(t, "monthly", resp.EffectiveCapitalization)
	assert.Equal(t, "M1", resp.Periods[0].Label)
	assert.Equal(t, "Y1", resp.Periods[11].Label)

	require.NotNil(t, resp.TimeToGoal)
	assert.Equal(t, 18, resp.TimeToGoal.Months)
	assert.Equal(t, "1 year and 6 months", resp.TimeToGoal.Description)

	// Same inputs hit the cache and return identical results
	again, err := client.Calculate(authContext(), mustEncode(t, req))
	require.NoError(t, err)
	var cached dto.CalculationResponse
	require.NoError(t, DecodeMessage(again, &cached))
	assert.Equal(t, resp, cached)
}

func TestServer_Calculate_Errors(t *testing.T) {
	client := newTestClient(t)

	invalid := baseRequest()
	invalid.Period = 0

	badUnit := baseRequest()
	badUnit.PeriodUnit = "weeks"

	tests := []struct {
		name         string
		ctx          context.Context
		req          dto.CalculationRequest
		expectedCode codes.Code
		errMsg       string
	}{
		{
			name:         "Missing Token",
			ctx:          context.Background(),
			req:          baseRequest(),
			expectedCode: codes.Unauthenticated,
			errMsg:       "missing authorization header",
		},
		{
			name:         "Zero Period",
			ctx:          authContext(),
			req:          invalid,
			expectedCode: codes.InvalidArgument,
			errMsg:       "period must be positive",
		},
		{
			name:         "Unknown Period Unit",
			ctx:          authContext(),
			req:          badUnit,
			expectedCode: codes.InvalidArgument,
			errMsg:       "invalid period unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Calculate(tt.ctx, mustEncode(t, tt.req))

			require.Error(t, err)
			st, ok := status.FromError(err)
			require.True(t, ok, "error should be a gRPC status")
			assert.Equal(t, tt.expectedCode, st.Code())
			assert.Contains(t, st.Message(), tt.errMsg)
		})
	}
}

func TestServer_TimeToGoal(t *testing.T) {
	client := newTestClient(t)

	req := dto.GoalRequest{CalculationRequest: baseRequest(), TargetValue: 5000}

	out, err := client.TimeToGoal(authContext(), mustEncode(t, req))
	require.NoError(t, err)

	var resp dto.GoalResponse
	require.NoError(t, DecodeMessage(out, &resp))
	assert.Equal(t, 18, resp.Months)
	assert.Equal(t, 1, resp.Years)
	assert.Equal(t, 6, resp.MonthsRemainder)
}

func TestServer_TimeToGoal_Unreachable(t *testing.T) {
	client := newTestClient(t)

	req := dto.GoalRequest{
		CalculationRequest: dto.CalculationRequest{
			InitialInvestment:     100,
			ContributionFrequency: "none",
			InterestBase:          "monthly",
		},
		TargetValue: 1_000_000,
	}

	_, err := client.TimeToGoal(authContext(), mustEncode(t, req))

	require.Error(t, err)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestServer_Preferences(t *testing.T) {
	client := newTestClient(t)
	ctx := authContext()

	// Nothing stored yet: defaults come back
	out, err := client.GetPreferences(ctx, mustEncode(t, map[string]string{}))
	require.NoError(t, err)

	var prefs dto.Preferences
	require.NoError(t, DecodeMessage(out, &prefs))
	assert.Equal(t, domain.DefaultProfileID.String(), prefs.ID)
	assert.Equal(t, 1000.0, prefs.Inputs.InitialInvestment)
	assert.Nil(t, prefs.UpdatedAt)

	// Save a custom profile
	id := uuid.New()
	custom := dto.Preferences{
		ID:           id.String(),
		Inputs:       baseRequest(),
		ShowAdvanced: true,
	}
	custom.Inputs.InitialInvestment = 2500
	custom.Inputs.VariableContributions = []dto.VariableContribution{
		{Amount: 50, StartPeriod: 1, EndPeriod: 2, PeriodType: "years"},
	}

	out, err = client.SavePreferences(ctx, mustEncode(t, custom))
	require.NoError(t, err)

	var saved dto.Preferences
	require.NoError(t, DecodeMessage(out, &saved))
	assert.NotNil(t, saved.UpdatedAt)
	require.Len(t, saved.Inputs.VariableContributions, 1)
	assert.NotEmpty(t, saved.Inputs.VariableContributions[0].ID, "server should assign an id")

	out, err = client.GetPreferences(ctx, mustEncode(t, map[string]string{"id": id.String()}))
	require.NoError(t, err)

	var loaded dto.Preferences
	require.NoError(t, DecodeMessage(out, &loaded))
	assert.Equal(t, 2500.0, loaded.Inputs.InitialInvestment)
	assert.True(t, loaded.ShowAdvanced)

	// Reset brings the defaults back
	out, err = client.ResetPreferences(ctx, mustEncode(t, map[string]string{"id": id.String()}))
	require.NoError(t, err)

	var reset dto.Preferences
	require.NoError(t, DecodeMessage(out, &reset))
	assert.Equal(t, 1000.0, reset.Inputs.InitialInvestment)
	assert.False(t, reset.ShowAdvanced)
}

func TestServer_Preferences_InvalidID(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetPreferences(authContext(), mustEncode(t, map[string]string{"id": "not-a-uuid"}))

	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode codes.Code
	}{
		{"Unreachable Goal", domain.ErrGoalUnreachable, codes.FailedPrecondition},
		{"Overflow", domain.ErrProjectionOverflow, codes.InvalidArgument},
		{"Not Found", fmt.Errorf("lookup: %w", domain.ErrPreferencesNotFound), codes.NotFound},
		{"Validation", errors.New("interestRate must be a non-negative number"), codes.InvalidArgument},
		{"Invalid Enum", errors.New(`invalid capitalization "daily"`), codes.InvalidArgument},
		{"Missing Profile", errors.New("preferences must have a profile ID"), codes.InvalidArgument},
		{"Unknown", errors.New("connection refused"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.err)
			assert.Equal(t, tt.expectedCode, status.Code(err))
		})
	}

	assert.NoError(t, mapError(nil))
}
