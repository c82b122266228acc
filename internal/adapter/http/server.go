package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AlertService is the pipeline surface the API serves.
type AlertService interface {
	sharedobs.ReadinessChecker
	Refresh(ctx context.Context, days int) (domain.Snapshot, bool)
	Latest() (domain.Snapshot, bool)
	Summary(ctx context.Context) *domain.Summary
}

// Server exposes the alert API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer  *http.Server
	alerts      AlertService
	defaultDays int
	logger      *slog.Logger
}

// alertsResponse is a snapshot plus whether a newer fetch superseded it
// before it could be committed.
type alertsResponse struct {
	domain.Snapshot
	Stale bool `json:"stale"`
}

type zonesResponse struct {
	Fallback string              `json:"fallback"`
	Zones    []domain.RegionZone `json:"zones"`
}

// NewServer creates an HTTP server with the /api routes and /healthz, /readyz
// and /metrics. defaultDays is used when a request has no days parameter.
func NewServer(addr string, alerts AlertService, defaultDays int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// An alerts request waits on the upstream fetch.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		alerts:      alerts,
		defaultDays: domain.ClampDayRange(defaultDays),
		logger:      logger,
	}

	mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	mux.HandleFunc("GET /api/alerts/latest", s.handleLatest)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/zones", s.handleZones)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(alerts))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	days := s.defaultDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = domain.ClampDayRange(n)
	}

	snap, committed := s.alerts.Refresh(r.Context(), days)
	sharedobs.WriteJSON(w, http.StatusOK, alertsResponse{Snapshot: snap, Stale: !committed})
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.alerts.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no alert snapshot has been loaded yet")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, alertsResponse{Snapshot: snap})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary := s.alerts.Summary(r.Context())
	if summary == nil {
		writeError(w, http.StatusServiceUnavailable, "summary unavailable")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleZones(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, zonesResponse{
		Fallback: domain.FallbackRegion(),
		Zones:    domain.RegionZones(),
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
