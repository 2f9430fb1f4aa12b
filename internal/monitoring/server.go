// Package monitoring exposes the HTTP surface over the report generator
// and exporter.
package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/poolwatch/internal/core/domain"
	"github.com/vietddude/poolwatch/internal/monitoring/export"
	"github.com/vietddude/poolwatch/internal/monitoring/report"
)

// Server provides HTTP endpoints for health monitoring.
type Server struct {
	reports  *report.Generator
	exporter *export.Exporter
	server   *http.Server
}

// NewServer creates a new monitoring server.
func NewServer(reports *report.Generator, exporter *export.Exporter, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		reports:  reports,
		exporter: exporter,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/report", s.handleReport)
	mux.HandleFunc("/export", s.handleExport)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Generate(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	response := map[string]any{
		"status": string(rep.Status),
		"score":  rep.Score,
	}
	w.Header().Set("Content-Type", "application/json")

	if rep.Status == domain.StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Generate(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	var lookback time.Duration
	if raw := r.URL.Query().Get("lookback_ms"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid lookback_ms", http.StatusBadRequest)
			return
		}
		lookback = time.Duration(ms) * time.Millisecond
	}

	out, err := s.exporter.Export(format, lookback)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
	default:
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	}
	fmt.Fprint(w, out)
}
