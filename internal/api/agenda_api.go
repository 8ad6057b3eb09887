package api

import (
	"net/http"
	"time"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/calendar"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/metrics"
)

// AgendaResponse is the rendered calendar layout for one view. Exactly one
// of Day, Week or Month is populated, matching the requested mode.
type AgendaResponse struct {
	View  string                 `json:"view"`
	Date  string                 `json:"date"`
	Day   []calendar.EventBox    `json:"day,omitempty"`
	Week  []calendar.DayColumn   `json:"week,omitempty"`
	Month [][]calendar.MonthCell `json:"month,omitempty"`
}

// handleAgenda serves GET /api/v1/agenda?date=YYYY-MM-DD&view=day|week|month.
// The layout is recomputed from a fresh store snapshot on every call; a
// failed fetch never leaves stale geometry behind.
func (s *HTTPServer) handleAgenda(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()

	date := time.Now()
	if dateStr := q.Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	mode := calendar.ViewMode(q.Get("view"))
	if mode == "" {
		mode = calendar.ViewWeek
	}
	if !mode.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid view; expected day, week or month")
		return
	}

	orders, err := s.store.ListOrders(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("agenda fetch failed")
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	resp := AgendaResponse{
		View: string(mode),
		Date: date.Format("2006-01-02"),
	}
	switch mode {
	case calendar.ViewDay:
		resp.Day = calendar.LayoutDay(orders, date, s.grid)
	case calendar.ViewWeek:
		resp.Week = calendar.LayoutWeek(orders, date, s.grid)
	case calendar.ViewMonth:
		resp.Month = calendar.LayoutMonth(orders, date)
	}

	writeJSON(w, http.StatusOK, resp)
}
