package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RouterConfig carries the cross-cutting settings of the HTTP API
type RouterConfig struct {
	APIToken       string
	AllowedOrigins []string
	Limiter        *RateLimiter // optional
	Logger         *slog.Logger
}

// NewRouter wires the handler routes, middleware and CORS
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(cfg.Logger))

	r.HandleFunc("/healthz", h.Health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	if cfg.Limiter != nil {
		api.Use(RateLimitMiddleware(cfg.Limiter))
	}
	api.Use(AuthMiddleware(cfg.APIToken))

	// Projections
	api.HandleFunc("/projections", h.Calculate).Methods("POST")
	api.HandleFunc("/projections/goal", h.TimeToGoal).Methods("POST")
	api.HandleFunc("/projections/export", h.ExportCSV).Methods("POST")
	api.HandleFunc("/projections/breakdown", h.Breakdown).Methods("POST")

	// Preferences
	api.HandleFunc("/preferences/{id}", h.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences/{id}", h.SavePreferences).Methods("PUT")
	api.HandleFunc("/preferences/{id}", h.ResetPreferences).Methods("DELETE")

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition"},
	}).Handler(r)
}
