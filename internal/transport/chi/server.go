// Package chi is the HTTP transport: a chi router over the runs, companies,
// reports and health services.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/orderdex/internal/domain"
	"github.com/kailas-cloud/orderdex/internal/domain/report"
	companiesuc "github.com/kailas-cloud/orderdex/internal/usecase/companies"
	healthuc "github.com/kailas-cloud/orderdex/internal/usecase/health"
	reportsuc "github.com/kailas-cloud/orderdex/internal/usecase/reports"
	runsuc "github.com/kailas-cloud/orderdex/internal/usecase/runs"
)

// ErrorCode is the machine-readable error class in the error envelope.
type ErrorCode string

const (
	CodeBadRequest      ErrorCode = "bad_request"
	CodeUnauthorized    ErrorCode = "unauthorized"
	CodeRunNotFound     ErrorCode = "run_not_found"
	CodeCompanyNotFound ErrorCode = "company_not_found"
	CodeNoRuns          ErrorCode = "no_runs"
	CodeUnknownReport   ErrorCode = "unknown_report"
	CodeInternalError   ErrorCode = "internal_error"
)

// ErrorResponse is the error envelope of every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error class and a safe message.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use-case services into HTTP handlers.
type Server struct {
	runs          *runsuc.Service
	companies     *companiesuc.Service
	reports       *reportsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	runs *runsuc.Service,
	companies *companiesuc.Service,
	reports *reportsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		runs:      runs,
		companies: companies,
		reports:   reports,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRunNotFound, http.StatusNotFound, CodeRunNotFound),
		sentinelHandler(domain.ErrNoRuns, http.StatusNotFound, CodeNoRuns),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeCompanyNotFound),
		sentinelHandler(domain.ErrUnknownReport, http.StatusBadRequest, CodeUnknownReport),
	}
	return s
}

// Routes mounts every endpoint on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Healthz)
	r.Get("/readyz", s.Readyz)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs", s.ListRuns)
		r.Get("/runs/latest", s.GetLatestRun)
		r.Get("/runs/{id}", s.GetRun)
		r.Get("/companies", s.ListCompanies)
		r.Get("/companies/{id}", s.GetCompany)
		r.Get("/reports/{kind}", s.GetReport)
	})
}

// Healthz handles GET /healthz — pure liveness, no dependencies touched.
func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz — store and run-store readiness.
func (s *Server) Readyz(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Check(r.Context())

	status := http.StatusOK
	if rep.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": rep.Status,
		"checks": rep.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ListRuns handles GET /api/v1/runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetLatestRun handles GET /api/v1/runs/latest.
func (s *Server) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	snap, err := s.runs.Latest(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetRun handles GET /api/v1/runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "run id is required")
		return
	}

	snap, err := s.runs.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ListCompanies handles GET /api/v1/companies.
func (s *Server) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.companies.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

// GetCompany handles GET /api/v1/companies/{id}.
func (s *Server) GetCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "company id is required")
		return
	}

	c, err := s.companies.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetReport handles GET /api/v1/reports/{kind}.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	kind := report.Kind(chi.URLParam(r, "kind"))

	rows, err := s.reports.Get(r.Context(), kind)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message},
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRunNotFound,
		domain.ErrNoRuns,
		domain.ErrNotFound,
		domain.ErrUnknownReport,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
