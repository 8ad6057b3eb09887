package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/calendar"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/metrics"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/store"
)

// CreateOrderRequest is the request body for POST /api/v1/orders.
type CreateOrderRequest struct {
	CustomerID         string     `json:"customer_id,omitempty"`
	MachineID          string     `json:"machine_id,omitempty"`
	TechnicianID       string     `json:"technician_id,omitempty"`
	ScheduledStart     time.Time  `json:"scheduled_start"`
	ScheduledEnd       *time.Time `json:"scheduled_end,omitempty"`
	EstimatedMinutes   int        `json:"estimated_duration,omitempty"`
	Priority           string     `json:"priority,omitempty"`
	Type               string     `json:"type,omitempty"`
	ProblemDescription string     `json:"problem_description"`
}

// handleOrders serves GET (full list) and POST (create) on /api/v1/orders.
func (s *HTTPServer) handleOrders(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("orders")

	switch r.Method {
	case http.MethodGet:
		s.listOrders(w, r)
	case http.MethodPost:
		s.createOrder(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fromStr, toStr := q.Get("from"), q.Get("to")

	var orders []model.ServiceOrder
	var err error
	if fromStr != "" && toStr != "" {
		var from, to time.Time
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date; expected YYYY-MM-DD")
			return
		}
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date; expected YYYY-MM-DD")
			return
		}
		orders, err = s.store.ListOrdersBetween(r.Context(), from, to.AddDate(0, 0, 1))
	} else {
		orders, err = s.store.ListOrders(r.Context())
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("list orders failed")
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	if orders == nil {
		orders = []model.ServiceOrder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (s *HTTPServer) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.ProblemDescription == "" {
		writeError(w, http.StatusBadRequest, "problem_description is required")
		return
	}
	if req.ScheduledStart.IsZero() {
		writeError(w, http.StatusBadRequest, "scheduled_start is required")
		return
	}

	order := model.ServiceOrder{
		ScheduledStart:     req.ScheduledStart,
		ScheduledEnd:       req.ScheduledEnd,
		EstimatedMinutes:   req.EstimatedMinutes,
		Priority:           model.Priority(req.Priority),
		Type:               model.OrderType(req.Type),
		ProblemDescription: req.ProblemDescription,
		TechnicianID:       req.TechnicianID,
	}
	if req.CustomerID != "" {
		order.Customer = &model.Customer{ID: req.CustomerID}
	}
	if req.MachineID != "" {
		order.Machine = &model.Machine{ID: req.MachineID}
	}
	if order.Priority != "" && !order.Priority.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid priority")
		return
	}
	if order.Type == "" {
		order.Type = model.TypeCorrective
	}
	if !order.Type.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid type")
		return
	}

	if err := s.store.CreateOrder(r.Context(), &order); err != nil {
		s.logger.Error().Err(err).Msg("create order failed")
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	created, err := s.store.GetOrder(r.Context(), order.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load created order")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// RescheduleRequest is the request body for PATCH .../schedule. Either
// target_hour (drag-and-drop semantics) or explicit timestamps must be set.
type RescheduleRequest struct {
	TargetHour     *int       `json:"target_hour,omitempty"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
}

// RescheduleResponse reports whether anything was written.
type RescheduleResponse struct {
	Updated bool                `json:"updated"`
	Order   *model.ServiceOrder `json:"order,omitempty"`
}

// StatusRequest is the request body for PATCH .../status.
type StatusRequest struct {
	Status string `json:"status"`
}

// DiagnosisRequest is the request body for PATCH .../diagnosis.
type DiagnosisRequest struct {
	Diagnosis  string `json:"diagnosis"`
	Resolution string `json:"resolution,omitempty"`
}

// handleOrderByID routes /api/v1/orders/{id}[/schedule|/status|/diagnosis].
func (s *HTTPServer) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/orders/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		writeError(w, http.StatusBadRequest, "order id is required")
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "":
		metrics.IncHTTP("order_get")
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.getOrder(w, r, id)
	case "schedule":
		metrics.IncHTTP("order_schedule")
		if r.Method != http.MethodPatch {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed; use PATCH")
			return
		}
		s.reschedule(w, r, id)
	case "status":
		metrics.IncHTTP("order_status")
		if r.Method != http.MethodPatch {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed; use PATCH")
			return
		}
		s.updateStatus(w, r, id)
	case "diagnosis":
		metrics.IncHTTP("order_diagnosis")
		if r.Method != http.MethodPatch {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed; use PATCH")
			return
		}
		s.updateDiagnosis(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "unknown order action")
	}
}

func (s *HTTPServer) getOrder(w http.ResponseWriter, r *http.Request, id string) {
	order, err := s.store.GetOrder(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *HTTPServer) reschedule(w http.ResponseWriter, r *http.Request, id string) {
	var req RescheduleRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := s.store.GetOrder(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	switch {
	case req.TargetHour != nil:
		updated, err := s.rescheduler.DropOnHour(r.Context(), order, *req.TargetHour)
		if errors.Is(err, calendar.ErrUpdatePending) {
			writeError(w, http.StatusConflict, "reschedule already in flight")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to reschedule order")
			return
		}
		if !updated {
			// Same-hour drop: nothing was written.
			writeJSON(w, http.StatusOK, RescheduleResponse{Updated: false, Order: order})
			return
		}
	case req.ScheduledStart != nil:
		if err := s.store.UpdateSchedule(r.Context(), id, *req.ScheduledStart, req.ScheduledEnd); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to reschedule order")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "target_hour or scheduled_start is required")
		return
	}

	refreshed, err := s.store.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	writeJSON(w, http.StatusOK, RescheduleResponse{Updated: true, Order: refreshed})
}

func (s *HTTPServer) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req StatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := s.store.UpdateStatus(r.Context(), id, model.Status(req.Status))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if errors.Is(err, store.ErrInvalidTransition) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	metrics.IncStatusChange(req.Status)
	writeJSON(w, http.StatusOK, order)
}

func (s *HTTPServer) updateDiagnosis(w http.ResponseWriter, r *http.Request, id string) {
	var req DiagnosisRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.store.UpdateDiagnosis(r.Context(), id, req.Diagnosis, req.Resolution)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update diagnosis")
		return
	}

	order, err := s.store.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// handleTechnicians serves GET /api/v1/technicians.
func (s *HTTPServer) handleTechnicians(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("technicians")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	techs, err := s.store.ListTechnicians(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list technicians")
		return
	}
	if techs == nil {
		techs = []model.Technician{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"technicians": techs})
}
