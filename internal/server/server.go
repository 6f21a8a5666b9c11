// Package server exposes the dashboard page, the JSON APIs, and the
// health/readiness/metrics endpoints over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lyndonwx/dashboard-service/internal/config"
	"github.com/lyndonwx/dashboard-service/internal/domain"
	"github.com/lyndonwx/dashboard-service/internal/observability"
	"github.com/lyndonwx/dashboard-service/internal/storage"
	"github.com/lyndonwx/dashboard-service/web"
)

// FrameSource provides the latest forecast frame loops and the service
// readiness signal. The refresher satisfies this.
type FrameSource interface {
	Snapshot(variable string) (domain.FrameLoop, bool)
	CheckReadiness(ctx context.Context) error
}

// ReportPublisher emits an accepted report as an event. Nil disables publishing.
type ReportPublisher interface {
	Publish(ctx context.Context, r domain.PrecipReport) error
}

// Deps are the collaborators the server routes requests to. Submitter and
// Publisher may be nil when the corresponding feature is disabled.
type Deps struct {
	Frames    FrameSource
	Store     storage.ReportStore
	Submitter domain.ReportSubmitter
	Publisher ReportPublisher
	Panels    []domain.ResourceLink
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

// Server serves the dashboard page and its APIs.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *observability.Metrics

	tmpl   *template.Template
	loc    *time.Location
	panels []domain.ResourceLink

	frames    FrameSource
	store     storage.ReportStore
	submitter domain.ReportSubmitter
	publisher ReportPublisher

	station         string
	defaultVariable string
}

// NewServer builds the full route table. The dashboard template and static
// assets come from the embedded web filesystem.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	tmpl, err := template.ParseFS(web.Assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard templates: %w", err)
	}

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, fmt.Errorf("load dashboard timezone: %w", err)
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:          deps.Logger,
		metrics:         deps.Metrics,
		tmpl:            tmpl,
		loc:             loc,
		panels:          deps.Panels,
		frames:          deps.Frames,
		store:           deps.Store,
		submitter:       deps.Submitter,
		publisher:       deps.Publisher,
		station:         cfg.CoCoRaHSStation,
		defaultVariable: cfg.ForecastVariable,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /static/", http.FileServerFS(web.Assets))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/panels", s.handlePanels)
	mux.HandleFunc("GET /api/frames", s.handleFrames)
	mux.HandleFunc("POST /api/reports", s.handleSubmitReport)
	mux.HandleFunc("GET /api/reports", s.handleListReports)

	return s, nil
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

type indexData struct {
	ClockText string
	Panels    []domain.ResourceLink
	Variable  string
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.metrics.PageViews.Inc()

	data := indexData{
		ClockText: domain.ClockText(s.loc),
		Panels:    s.panels,
		Variable:  s.defaultVariable,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("render dashboard", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.frames.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handlePanels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.panels)
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	variable := r.URL.Query().Get("variable")
	if variable == "" {
		variable = s.defaultVariable
	}
	if !domain.ValidVariable(variable) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("unknown forecast variable %q", variable),
		})
		return
	}

	loop, ok := s.frames.Snapshot(variable)
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "forecast not ready",
		})
		return
	}
	writeJSON(w, http.StatusOK, loop)
}

// reportRequest carries the submission body. The date is a string so a
// missing or malformed value maps to a 400 instead of a decode error.
type reportRequest struct {
	ReportDate      string `json:"reportDate"`
	GaugeCatch      string `json:"gaugeCatch"`
	SnowfallAmount  string `json:"snowfallAmount"`
	SnowfallSWE     string `json:"snowfallSWE"`
	SnowpackDepth   string `json:"snowpackDepth"`
	SnowpackSWE     string `json:"snowpackSWE"`
	AdditionalNotes string `json:"additionalNotes"`
}

type reportResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, reportResponse{
			Message: "invalid JSON body",
		})
		return
	}

	reportDate, err := parseReportDate(req.ReportDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, reportResponse{
			Message: err.Error(),
		})
		return
	}

	report := domain.PrecipReport{
		ReportDate:      reportDate,
		GaugeCatch:      req.GaugeCatch,
		SnowfallAmount:  req.SnowfallAmount,
		SnowfallSWE:     req.SnowfallSWE,
		SnowpackDepth:   req.SnowpackDepth,
		SnowpackSWE:     req.SnowpackSWE,
		AdditionalNotes: req.AdditionalNotes,
	}
	if err := report.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, reportResponse{
			Message: err.Error(),
		})
		return
	}

	report = report.Stamp(s.station)
	s.metrics.ReportsReceived.Inc()

	ctx := r.Context()
	if err := s.store.SaveReport(ctx, report); err != nil {
		s.logger.Error("save report", "id", report.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, reportResponse{
			Message: "failed to record report",
		})
		return
	}

	if s.submitter == nil {
		s.publishReport(ctx, report)
		writeJSON(w, http.StatusOK, reportResponse{
			Success: true,
			Message: "Report recorded; CoCoRaHS relay is disabled",
			ID:      report.ID,
		})
		return
	}

	if err := s.submitter.Submit(ctx, report); err != nil {
		s.failReport(ctx, report.ID)
		switch {
		case errors.Is(err, domain.ErrRelayLogin):
			s.metrics.ReportsRelayed.WithLabelValues("login_error").Inc()
			writeJSON(w, http.StatusUnauthorized, reportResponse{
				Message: "CoCoRaHS login failed, check the relay credentials",
				ID:      report.ID,
			})
		case errors.Is(err, domain.ErrRelayRejected):
			s.metrics.ReportsRelayed.WithLabelValues("form_error").Inc()
			writeJSON(w, http.StatusBadRequest, reportResponse{
				Message: "CoCoRaHS rejected the report form",
				ID:      report.ID,
			})
		default:
			s.metrics.ReportsRelayed.WithLabelValues("error").Inc()
			s.logger.Error("relay report", "id", report.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, reportResponse{
				Message: fmt.Sprintf("An unexpected error occurred: %v", err),
				ID:      report.ID,
			})
		}
		return
	}

	s.metrics.ReportsRelayed.WithLabelValues("success").Inc()
	if err := s.store.UpdateStatus(ctx, report.ID, domain.ReportStatusSubmitted); err != nil {
		s.logger.Error("update report status", "id", report.ID, "error", err)
	}
	report.Status = domain.ReportStatusSubmitted
	s.publishReport(ctx, report)

	writeJSON(w, http.StatusOK, reportResponse{
		Success: true,
		Message: fmt.Sprintf("Report successfully submitted to CoCoRaHS for station %s", s.station),
		ID:      report.ID,
	})
}

func (s *Server) failReport(ctx context.Context, id string) {
	if err := s.store.UpdateStatus(ctx, id, domain.ReportStatusFailed); err != nil {
		s.logger.Error("update report status", "id", id, "error", err)
	}
}

// publishReport emits an accepted report as an event, with whatever status
// it was accepted under. Publishing is best-effort: the observer already got
// their answer.
func (s *Server) publishReport(ctx context.Context, report domain.PrecipReport) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, report); err != nil {
		s.logger.Error("publish report event", "id", report.ID, "error", err)
		return
	}
	s.metrics.ReportsPublished.Inc()
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("invalid limit %q", v),
			})
			return
		}
		limit = n
	}

	reports, err := s.store.ListReports(r.Context(), limit)
	if err != nil {
		s.logger.Error("list reports", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list reports",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(reports),
		"reports": reports,
	})
}

// parseReportDate accepts the formats observers actually send: a full
// timestamp, a datetime-local value, or a bare date.
func parseReportDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, domain.ErrReportDateRequired
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid reportDate %q", v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort JSON response
}
