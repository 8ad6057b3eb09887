package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/analytics"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/metrics"
)

// handleAnalytics serves GET /api/v1/analytics. An empty order list yields
// a zeroed summary rather than an error.
func (s *HTTPServer) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("analytics")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	orders, err := s.store.ListOrders(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("analytics fetch failed")
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	metrics.IncAnalyticsRun()
	writeJSON(w, http.StatusOK, analytics.Compute(orders))
}

// handleAnalyticsExport serves GET /api/v1/analytics/export as an xlsx
// attachment.
func (s *HTTPServer) handleAnalyticsExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("analytics_export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	orders, err := s.store.ListOrders(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("analytics export fetch failed")
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	metrics.IncAnalyticsRun()
	summary := analytics.Compute(orders)

	var buf bytes.Buffer
	if err := analytics.WriteExcel(summary, &buf); err != nil {
		s.logger.Error().Err(err).Msg("analytics export failed")
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	filename := fmt.Sprintf("service-report_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
