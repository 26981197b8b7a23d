package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"painel/internal/core"
)

// queryCtx caps every catalog round-trip so a stuck database cannot hang a
// widget indefinitely.
func (s *Server) queryCtx(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := s.queryTimeout
	if timeout <= 0 {
		timeout = 7 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeServiceError maps the error taxonomy onto status codes: bad filter
// parameters are the caller's fault, data access failures mean the source is
// unavailable. Empty results never reach this path.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrInvalidMonth) || errors.Is(err, core.ErrInvalidTopN) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	var dae *core.DataAccessError
	if errors.As(err, &dae) {
		slog.ErrorContext(ctx, "Data access failure", "request_id", requestIDFrom(ctx), "op", dae.Op, "error", dae.Err)
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "fonte de dados indisponível"})
		return
	}
	slog.ErrorContext(ctx, "Unexpected report error", "request_id", requestIDFrom(ctx), "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "erro interno"})
}

// handleMonths returns the reference-month options for the month selector.
func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryCtx(r)
	defer cancel()

	months, err := s.reports.ReferenceMonths(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Months []string `json:"months"`
		NoData bool     `json:"no_data"`
	}{Months: months, NoData: len(months) == 0})
}

// handleTopProviders returns the ranking widget for one month.
// Params: month=2006-01 (required), top=5|10|20|50 (default 10).
func (s *Server) handleTopProviders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryCtx(r)
	defer cancel()

	month, present, err := ParseMonthParam(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if !present {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "parâmetro month é obrigatório"})
		return
	}
	topN, err := ParseTopNParam(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	rep, err := s.reports.ProviderRanking(ctx, month, topN)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleCategoryMatrix returns the month × category table and chart.
// Params: categories=a,b,c (optional; empty shows all).
func (s *Server) handleCategoryMatrix(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryCtx(r)
	defer cancel()

	rep, err := s.reports.CategoryMatrix(ctx, ParseCategoriesParam(r.URL.Query()))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleYearOverYear returns the YoY comparison table and chart.
// Params: categories=a,b,c (optional; empty shows all).
func (s *Server) handleYearOverYear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryCtx(r)
	defer cancel()

	rep, err := s.reports.YearOverYear(ctx, ParseCategoriesParam(r.URL.Query()))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleSummary returns one full dashboard interaction: month options plus the
// ranking. Params: month (optional, defaults to the latest), top (default 10).
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryCtx(r)
	defer cancel()

	month, _, err := ParseMonthParam(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	topN, err := ParseTopNParam(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	rep, err := s.reports.Summary(ctx, month, topN)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
