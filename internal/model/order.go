package model

import "time"

// Status represents the lifecycle state of a service order.
type Status string

const (
	StatusToDo          Status = "to_do"
	StatusEnRoute       Status = "en_route"
	StatusInService     Status = "in_service"
	StatusAwaitingParts Status = "awaiting_parts"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
)

// IsValid reports whether the status is a known enumeration value.
func (s Status) IsValid() bool {
	switch s {
	case StatusToDo, StatusEnRoute, StatusInService, StatusAwaitingParts,
		StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the order can no longer change status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Priority represents order urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// OrderType represents the kind of service performed on site.
type OrderType string

const (
	TypeInstallation OrderType = "installation"
	TypeCorrective   OrderType = "corrective"
	TypePreventive   OrderType = "preventive"
	TypeTraining     OrderType = "training"
)

func (t OrderType) IsValid() bool {
	switch t {
	case TypeInstallation, TypeCorrective, TypePreventive, TypeTraining:
		return true
	}
	return false
}

// DefaultEstimatedMinutes is assumed when an order has no explicit
// duration estimate.
const DefaultEstimatedMinutes = 60

// Customer is the joined customer reference on an order.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Machine is the joined machine reference on an order.
type Machine struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number,omitempty"`
}

// Technician is the joined technician profile on an order.
type Technician struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// ServiceOrder is the unit of scheduled field work.
type ServiceOrder struct {
	ID                 string      `json:"id"`
	Code               string      `json:"code"`
	ScheduledStart     time.Time   `json:"scheduled_start"`
	ScheduledEnd       *time.Time  `json:"scheduled_end,omitempty"`
	EstimatedMinutes   int         `json:"estimated_duration,omitempty"`
	Status             Status      `json:"status"`
	Priority           Priority    `json:"priority"`
	Type               OrderType   `json:"type"`
	ProblemDescription string      `json:"problem_description"`
	Diagnosis          string      `json:"diagnosis,omitempty"`
	Resolution         string      `json:"resolution,omitempty"`
	StartedAt          *time.Time  `json:"started_at,omitempty"`
	FinishedAt         *time.Time  `json:"finished_at,omitempty"`
	TechnicianID       string      `json:"technician_id,omitempty"`
	Customer           *Customer   `json:"customer,omitempty"`
	Machine            *Machine    `json:"machine,omitempty"`
	Technician         *Technician `json:"technician,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// EffectiveEnd returns the explicit scheduled end when present, otherwise
// the start plus the estimated duration. Synthesized ends are never
// persisted back to the store.
func (o *ServiceOrder) EffectiveEnd() time.Time {
	if o.ScheduledEnd != nil {
		return *o.ScheduledEnd
	}
	minutes := o.EstimatedMinutes
	if minutes <= 0 {
		minutes = DefaultEstimatedMinutes
	}
	return o.ScheduledStart.Add(time.Duration(minutes) * time.Minute)
}

// HasSchedule reports whether the order carries a usable start timestamp.
// Orders with a zero start (e.g. unparseable data in the store) are kept in
// listings but never placed on the calendar.
func (o *ServiceOrder) HasSchedule() bool {
	return !o.ScheduledStart.IsZero()
}

// ResolutionDuration returns the time between work start and finish, and
// whether both timestamps are present.
func (o *ServiceOrder) ResolutionDuration() (time.Duration, bool) {
	if o.StartedAt == nil || o.FinishedAt == nil {
		return 0, false
	}
	return o.FinishedAt.Sub(*o.StartedAt), true
}

// transitions maps each status to the statuses an order may move to next.
// This mirrors the guided technician flow: head out, work, wait for parts
// if needed, close out. Cancellation is allowed from any non-terminal state.
var transitions = map[Status][]Status{
	StatusToDo:          {StatusEnRoute, StatusInService, StatusCancelled},
	StatusEnRoute:       {StatusInService, StatusCancelled},
	StatusInService:     {StatusAwaitingParts, StatusCompleted, StatusCancelled},
	StatusAwaitingParts: {StatusInService, StatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
