// Package http exposes the projection engine as a JSON API.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/simaogato/compound-backend/internal/adapter/dto"
	"github.com/simaogato/compound-backend/internal/domain"
	"github.com/simaogato/compound-backend/internal/usecase/breakdown"
	"github.com/simaogato/compound-backend/internal/usecase/export"
	"github.com/simaogato/compound-backend/internal/usecase/preferences"
	"github.com/simaogato/compound-backend/internal/usecase/projection"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Handler serves the projection and preferences endpoints
type Handler struct {
	ProjectionService  *projection.ProjectionService
	PreferencesService *preferences.PreferencesService
}

// NewHandler creates a new Handler instance
func NewHandler(projectionService *projection.ProjectionService, preferencesService *preferences.PreferencesService) *Handler {
	return &Handler{
		ProjectionService:  projectionService,
		PreferencesService: preferencesService,
	}
}

// POST /api/v1/projections
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	inputs, ok := decodeInputs(w, r)
	if !ok {
		return
	}

	results, err := h.ProjectionService.Calculate(r.Context(), inputs)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromDomainResults(results))
}

// POST /api/v1/projections/goal
func (h *Handler) TimeToGoal(w http.ResponseWriter, r *http.Request) {
	var req dto.GoalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	inputs, target, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := h.ProjectionService.TimeToGoal(r.Context(), inputs, target)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromDomainGoal(goal))
}

// POST /api/v1/projections/export
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	inputs, ok := decodeInputs(w, r)
	if !ok {
		return
	}

	results, err := h.ProjectionService.Calculate(r.Context(), inputs)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	// Headers are already sent; a failed write only means the client went away
	_ = export.WriteCSV(w, results.Periods, results.EffectiveCapitalization)
}

// POST /api/v1/projections/breakdown?points=N
func (h *Handler) Breakdown(w http.ResponseWriter, r *http.Request) {
	maxPoints := breakdown.DefaultSeriesPoints
	if raw := r.URL.Query().Get("points"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid points: must be a positive integer")
			return
		}
		maxPoints = n
	}

	inputs, ok := decodeInputs(w, r)
	if !ok {
		return
	}

	results, err := h.ProjectionService.Calculate(r.Context(), inputs)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	composition, err := breakdown.CalculateComposition(inputs.InitialInvestment, results)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	series := breakdown.InterestSeries(results.Periods, results.EffectiveCapitalization, maxPoints)

	writeJSON(w, http.StatusOK, dto.FromBreakdown(composition, series))
}

// GET /api/v1/preferences/{id}
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	prefs, err := h.PreferencesService.Load(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromDomainPreferences(prefs))
}

// PUT /api/v1/preferences/{id}
func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var req dto.Preferences
	if !decodeBody(w, r, &req) {
		return
	}

	prefs, err := req.ToDomain(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.PreferencesService.Save(r.Context(), prefs)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromDomainPreferences(saved))
}

// DELETE /api/v1/preferences/{id}
func (h *Handler) ResetPreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	prefs, err := h.PreferencesService.Reset(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromDomainPreferences(prefs))
}

// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func decodeInputs(w http.ResponseWriter, r *http.Request) (domain.CalculationInputs, bool) {
	var req dto.CalculationRequest
	if !decodeBody(w, r, &req) {
		return domain.CalculationInputs{}, false
	}

	inputs, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.CalculationInputs{}, false
	}
	return inputs, true
}

func profileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id format")
		return uuid.Nil, false
	}
	return id, true
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes before sending headers so an encoding failure still becomes a 500
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps domain errors to HTTP status codes
func writeDomainError(w http.ResponseWriter, err error) {
	msg := err.Error()

	switch {
	case errors.Is(err, domain.ErrGoalUnreachable):
		writeError(w, http.StatusUnprocessableEntity, msg)
	case errors.Is(err, domain.ErrProjectionOverflow):
		writeError(w, http.StatusBadRequest, msg)
	case errors.Is(err, domain.ErrPreferencesNotFound), strings.Contains(msg, "not found"):
		writeError(w, http.StatusNotFound, msg)
	case strings.Contains(msg, "must be"),
		strings.Contains(msg, "invalid"),
		strings.Contains(msg, "must have"):
		writeError(w, http.StatusBadRequest, msg)
	default:
		writeError(w, http.StatusInternalServerError, msg)
	}
}
