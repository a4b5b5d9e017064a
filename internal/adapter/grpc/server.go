package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/compound-backend/internal/adapter/dto"
	"github.com/simaogato/compound-backend/internal/domain"
	"github.com/simaogato/compound-backend/internal/usecase/preferences"
	"github.com/simaogato/compound-backend/internal/usecase/projection"
)

// Server implements the ProjectionService gRPC server
type Server struct {
	ProjectionService  *projection.ProjectionService
	PreferencesService *preferences.PreferencesService
}

// NewServer creates a new gRPC server instance
func NewServer(
	projectionService *projection.ProjectionService,
	preferencesService *preferences.PreferencesService,
) *Server {
	return &Server{
		ProjectionService:  projectionService,
		PreferencesService: preferencesService,
	}
}

// profileRequest addresses a stored profile; an empty ID means the default profile
type profileRequest struct {
	ID string `json:"id"`
}

// Calculate handles the Calculate RPC
func (s *Server) Calculate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.CalculationRequest
	if err := DecodeMessage(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	inputs, err := in.ToDomain()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	results, err := s.ProjectionService.Calculate(ctx, inputs)
	if err != nil {
		return nil, mapError(err)
	}

	return encodeResponse(dto.FromDomainResults(results))
}

// TimeToGoal handles the TimeToGoal RPC
func (s *Server) TimeToGoal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.GoalRequest
	if err := DecodeMessage(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	inputs, target, err := in.ToDomain()
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	goal, err := s.ProjectionService.TimeToGoal(ctx, inputs, target)
	if err != nil {
		return nil, mapError(err)
	}

	return encodeResponse(dto.FromDomainGoal(goal))
}

// GetPreferences handles the GetPreferences RPC
func (s *Server) GetPreferences(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := decodeProfileID(req)
	if err != nil {
		return nil, err
	}

	prefs, err := s.PreferencesService.Load(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return encodeResponse(dto.FromDomainPreferences(prefs))
}

// SavePreferences handles the SavePreferences RPC
func (s *Server) SavePreferences(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.Preferences
	if err := DecodeMessage(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	id, err := parseProfileID(in.ID)
	if err != nil {
		return nil, err
	}

	prefs, err := in.ToDomain(id)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	saved, err := s.PreferencesService.Save(ctx, prefs)
	if err != nil {
		return nil, mapError(err)
	}

	return encodeResponse(dto.FromDomainPreferences(saved))
}

// ResetPreferences handles the ResetPreferences RPC
func (s *Server) ResetPreferences(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := decodeProfileID(req)
	if err != nil {
		return nil, err
	}

	prefs, err := s.PreferencesService.Reset(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return encodeResponse(dto.FromDomainPreferences(prefs))
}

func decodeProfileID(req *structpb.Struct) (uuid.UUID, error) {
	var in profileRequest
	if err := DecodeMessage(req, &in); err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	return parseProfileID(in.ID)
}

func parseProfileID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return domain.DefaultProfileID, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}
	return id, nil
}

func encodeResponse(v any) (*structpb.Struct, error) {
	out, err := EncodeMessage(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "%v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	if errors.Is(err, domain.ErrGoalUnreachable) {
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	}

	if errors.Is(err, domain.ErrProjectionOverflow) {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}

	// Map "not found" errors to NotFound
	if errors.Is(err, domain.ErrPreferencesNotFound) || strings.Contains(errorMsg, "not found") {
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	}

	// Map common validation errors to InvalidArgument
	if strings.Contains(errorMsg, "must be") ||
		strings.Contains(errorMsg, "invalid") ||
		strings.Contains(errorMsg, "must have") {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
