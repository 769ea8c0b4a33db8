// Package server exposes settleup over HTTP: the Connect SettleService, health and
// metrics endpoints, and CSV exports of settled bills.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/report"
	"github.com/mmynk/settleup/internal/service"
	"github.com/mmynk/settleup/internal/state"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// Server is the settleup HTTP server.
type Server struct {
	manager  *state.Manager
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// New creates a Server. m may be nil, in which case /metrics is not mounted and RPCs
// are not counted.
func New(manager *state.Manager, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	return &Server{manager: manager, metrics: m, gatherer: gatherer}
}

// Handler returns the chi router with all routes mounted, wrapped with h2c so Connect
// clients can use HTTP/2 without TLS.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)
	r.Use(corsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		snap := s.manager.Snapshot()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":          "ok",
			"members":         len(snap.Members),
			"active_expenses": len(snap.Expenses),
			"settled_bills":   len(snap.History),
		})
	})

	if s.metrics != nil && s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/bills/{id}/report.csv", s.handleBillCSV)

	interceptors := []connect.Interceptor{middleware.LoggingInterceptor()}
	if s.metrics != nil {
		interceptors = append(interceptors, s.metrics.Interceptor())
	}
	path, handler := apiconnect.NewSettleServiceHandler(
		service.NewSettleService(s.manager),
		connect.WithInterceptors(interceptors...),
	)
	r.Mount(path, handler)

	return h2c.NewHandler(r, &http2.Server{})
}

func (s *Server) handleBillCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := s.manager.Snapshot()
	bill, ok := snap.Bill(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": state.ErrBillNotFound.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bill-%s.csv"`, bill.ID))
	if err := report.WriteCSV(w, report.NewBillReport(bill, snap.Members)); err != nil {
		slog.Error("Failed to write bill csv", "bill_id", id, "error", err)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully within timeout.
func (s *Server) Run(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	slog.Info("Shutting down server", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
