package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"quiz-analytics/internal/domain"
)

// ReportBuilder produces reports for a dataset and top-N value.
type ReportBuilder interface {
	Build(ctx context.Context, source string, n int) (domain.Report, error)
}

// ReportHandler serves GET /report?dataset=<name>&n=<N>.
type ReportHandler struct {
	reports     ReportBuilder
	defaultTopN int
}

func NewReportHandler(reports ReportBuilder, defaultTopN int) *ReportHandler {
	return &ReportHandler{reports: reports, defaultTopN: defaultTopN}
}

func (h *ReportHandler) ServeReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	n := h.defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "n must be an integer")
			return
		}
		n = parsed
	}

	report, err := h.reports.Build(r.Context(), r.URL.Query().Get("dataset"), n)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("build report failed", "error", err)
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func statusFor(err error) int {
	var schemaErr *domain.SchemaError
	switch {
	case errors.Is(err, domain.ErrInvalidTopN):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDatasetNotFound):
		return http.StatusNotFound
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorPayload{Message: message})
}
