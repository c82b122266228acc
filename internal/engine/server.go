package engine

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// Version is reported by GET /.
const Version = "2.0"

// Server serves the fused alert API: GET /, /alerts and /summary.
type Server struct {
	httpServer *http.Server
	catalogue  *Catalogue
	logger     *slog.Logger
}

// NewServer creates the engine HTTP server.
func NewServer(addr string, catalogue *Catalogue, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		catalogue: catalogue,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /alerts", s.handleAlerts)
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("engine server starting", "addr", s.httpServer.Addr)
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

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{
		"name":    "CANOPIX Detection Engine API",
		"version": Version,
		"status":  "online",
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, _ *http.Request) {
	features := s.catalogue.Features()
	s.logger.Debug("serving alerts", "count", len(features))
	sharedobs.WriteJSON(w, http.StatusOK, domain.FeatureCollection{Alerts: features})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.catalogue.Summary())
}
