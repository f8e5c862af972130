package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"a11ylint/internal/core/app"
)

// ObservabilityServer exposes /metrics and /health while watch mode is
// running. Bound to localhost by default via config.
type ObservabilityServer struct {
	addr   string
	health *app.HealthService
	server *http.Server
}

func NewObservabilityServer(addr string, health *app.HealthService) *ObservabilityServer {
	return &ObservabilityServer{addr: addr, health: health}
}

func (s *ObservabilityServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

// handleHealth reports the analysis session state: loaded model count
// and the id and finding count of the last published session.
func (s *ObservabilityServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.health.Check(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if status.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		slog.Warn("failed to write health response", "error", err)
	}
}

func (s *ObservabilityServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
