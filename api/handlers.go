/*
handlers.go - HTTP API handlers for the revenue tracker

PURPOSE:
  Exposes the aggregation engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates every computation to the engine.

ENDPOINTS:
  Reports:
    GET  /api/reports/general?start=&end=          General report
    GET  /api/reports/period/{periodID}?start=&end= Period report

  Records:
    GET  /api/records/{date}    Fetch one day's record
    PUT  /api/records/{date}    Create or fully replace a day's record
    POST /api/preview           Live single-day preview (no persistence)

  Registry:
    GET  /api/periods           Defined periods and sub-categories

  Scenarios:
    GET  /api/scenarios         List demo scenarios
    POST /api/scenarios/load    Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid range, unknown period, malformed body
  - 404: no record for date
  - 500: persistence failures (logged, not leaked in detail)

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/warp/revenue-engine/engine"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    engine.RecordStore
	Registry *engine.Registry
	Reporter *engine.Reporter
	Log      *logrus.Logger
}

// NewHandler wires a handler around a store. A nil registry selects the
// built-in default; a nil logger discards.
func NewHandler(store engine.RecordStore, registry *engine.Registry, log *logrus.Logger) *Handler {
	if registry == nil {
		registry = engine.DefaultRegistry()
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Handler{
		Store:    store,
		Registry: registry,
		Reporter: engine.NewReporter(store, registry),
		Log:      log,
	}
}

// =============================================================================
// REPORTS
// =============================================================================

func rangeFromQuery(r *http.Request) engine.DateRange {
	return engine.DateRange{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
}

func (h *Handler) GeneralReport(w http.ResponseWriter, r *http.Request) {
	rng := rangeFromQuery(r)
	report, err := h.Reporter.GeneralReport(r.Context(), rng)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.logDiagnostics(report.Diagnostics)
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) PeriodReport(w http.ResponseWriter, r *http.Request) {
	rng := rangeFromQuery(r)
	periodID := engine.PeriodID(chi.URLParam(r, "periodID"))
	report, err := h.Reporter.PeriodReport(r.Context(), rng, periodID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.logDiagnostics(report.Diagnostics)
	h.writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// RECORDS AND PREVIEW
// =============================================================================

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	rec, err := h.Store.GetRecord(r.Context(), date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, recordToDTO(rec))
}

func (h *Handler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	var dto RecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed record body"})
		return
	}
	dto.Date = chi.URLParam(r, "date")

	rec := recordFromDTO(dto)
	if _, err := rec.Day(); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "date must be yyyy-MM-dd"})
		return
	}
	if err := h.Store.SaveRecord(r.Context(), &rec); err != nil {
		h.writeError(w, r, err)
		return
	}

	// The save response carries the fresh preview so the form can refresh
	// its totals from the same computation the reports use.
	h.writeJSON(w, http.StatusOK, h.Reporter.Aggregator.CalculateDayPreview(rec))
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var dto RecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed record body"})
		return
	}
	rec := recordFromDTO(dto)
	h.writeJSON(w, http.StatusOK, h.Reporter.Aggregator.CalculateDayPreview(rec))
}

// =============================================================================
// REGISTRY
// =============================================================================

func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	defs := h.Registry.Periods()
	out := make([]PeriodDTO, 0, len(defs))
	for _, def := range defs {
		out = append(out, periodToDTO(def))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.WithError(err).Error("encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case engine.IsClientError(err):
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, engine.ErrRecordNotFound):
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		h.Log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func (h *Handler) logDiagnostics(diags []engine.Diagnostic) {
	for _, d := range diags {
		h.Log.WithFields(logrus.Fields{
			"code":   d.Code,
			"date":   d.Date,
			"period": d.Period,
		}).Warn(d.Detail)
	}
}
