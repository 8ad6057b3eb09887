package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
)

const orderColumns = `
	o.id, o.code, o.scheduled_start, o.scheduled_end, o.estimated_minutes,
	o.status, o.priority, o.type, o.problem_description, o.diagnosis, o.resolution,
	o.started_at, o.finished_at, o.technician_id, o.created_at, o.updated_at,
	c.id, c.name, c.phone, c.address,
	m.id, m.model, m.serial_number,
	t.id, t.name, t.phone`

const orderJoins = `
	FROM service_orders o
	LEFT JOIN customers c ON c.id = o.customer_id
	LEFT JOIN machines m ON m.id = o.machine_id
	LEFT JOIN technicians t ON t.id = o.technician_id`

// ListOrders returns all orders with customer, machine and technician
// resolved, ordered by scheduled start ascending. Consumers rely on this
// ordering and do not re-sort.
func (s *Store) ListOrders(ctx context.Context) ([]model.ServiceOrder, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT"+orderColumns+orderJoins+" ORDER BY o.scheduled_start ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.ServiceOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// ListOrdersBetween returns orders scheduled in [from, to), same joins and
// ordering as ListOrders.
func (s *Store) ListOrdersBetween(ctx context.Context, from, to time.Time) ([]model.ServiceOrder, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT"+orderColumns+orderJoins+
			" WHERE o.scheduled_start >= ? AND o.scheduled_start < ? ORDER BY o.scheduled_start ASC",
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.ServiceOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// GetOrder returns one order by id, joins resolved.
func (s *Store) GetOrder(ctx context.Context, id string) (*model.ServiceOrder, error) {
	row := s.QueryRowContext(ctx,
		"SELECT"+orderColumns+orderJoins+" WHERE o.id = ?", id,
	)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// CreateOrder inserts a new order, assigning id and code when absent.
func (s *Store) CreateOrder(ctx context.Context, o *model.ServiceOrder) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Code == "" {
		o.Code = generateCode(o.ScheduledStart)
	}
	if o.Status == "" {
		o.Status = model.StatusToDo
	}
	if o.Priority == "" {
		o.Priority = model.PriorityMedium
	}
	if o.EstimatedMinutes <= 0 {
		o.EstimatedMinutes = model.DefaultEstimatedMinutes
	}

	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	var customerID, machineID, technicianID interface{}
	if o.Customer != nil {
		customerID = o.Customer.ID
	}
	if o.Machine != nil {
		machineID = o.Machine.ID
	}
	if o.TechnicianID != "" {
		technicianID = o.TechnicianID
	}

	_, err := s.ExecContext(ctx, `
		INSERT INTO service_orders (
			id, code, customer_id, machine_id, technician_id,
			scheduled_start, scheduled_end, estimated_minutes,
			status, priority, type, problem_description, diagnosis, resolution,
			started_at, finished_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Code, customerID, machineID, technicianID,
		o.ScheduledStart, o.ScheduledEnd, o.EstimatedMinutes,
		o.Status, o.Priority, o.Type, o.ProblemDescription, o.Diagnosis, o.Resolution,
		o.StartedAt, o.FinishedAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// UpdateSchedule moves an order to a new start and optional end. Both
// columns change in a single statement: a failed update applies neither.
func (s *Store) UpdateSchedule(ctx context.Context, id string, start time.Time, end *time.Time) error {
	res, err := s.ExecContext(ctx, `
		UPDATE service_orders
		SET scheduled_start = ?, scheduled_end = ?, updated_at = ?
		WHERE id = ?`,
		start, end, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus moves an order through the technician workflow. Entering
// in_service stamps started_at once; completing stamps finished_at.
func (s *Store) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.ServiceOrder, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	now := time.Now()
	startedAt := current.StartedAt
	if status == model.StatusInService && startedAt == nil {
		startedAt = &now
	}
	finishedAt := current.FinishedAt
	if status == model.StatusCompleted && finishedAt == nil {
		finishedAt = &now
	}

	_, err = s.ExecContext(ctx, `
		UPDATE service_orders
		SET status = ?, started_at = ?, finished_at = ?, updated_at = ?
		WHERE id = ?`,
		status, startedAt, finishedAt, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return s.GetOrder(ctx, id)
}

// UpdateDiagnosis records the technician's findings on an order.
func (s *Store) UpdateDiagnosis(ctx context.Context, id, diagnosis, resolution string) error {
	res, err := s.ExecContext(ctx, `
		UPDATE service_orders
		SET diagnosis = ?, resolution = ?, updated_at = ?
		WHERE id = ?`,
		diagnosis, resolution, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update diagnosis: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func generateCode(start time.Time) string {
	if start.IsZero() {
		start = time.Now()
	}
	return fmt.Sprintf("OS-%s-%s", start.Format("20060102"), uuid.NewString()[:8])
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*model.ServiceOrder, error) {
	var o model.ServiceOrder
	var scheduledStart sql.NullTime
	var scheduledEnd, startedAt, finishedAt sql.NullTime
	var diagnosis, resolution, technicianID sql.NullString
	var custID, custName, custPhone, custAddress sql.NullString
	var machID, machModel, machSerial sql.NullString
	var techID, techName, techPhone sql.NullString

	err := row.Scan(
		&o.ID, &o.Code, &scheduledStart, &scheduledEnd, &o.EstimatedMinutes,
		&o.Status, &o.Priority, &o.Type, &o.ProblemDescription, &diagnosis, &resolution,
		&startedAt, &finishedAt, &technicianID, &o.CreatedAt, &o.UpdatedAt,
		&custID, &custName, &custPhone, &custAddress,
		&machID, &machModel, &machSerial,
		&techID, &techName, &techPhone,
	)
	if err != nil {
		return nil, err
	}

	// A start that fails to scan stays the zero time; the calendar skips
	// such orders instead of failing the whole listing.
	if scheduledStart.Valid {
		o.ScheduledStart = scheduledStart.Time
	}
	if scheduledEnd.Valid {
		end := scheduledEnd.Time
		o.ScheduledEnd = &end
	}
	if startedAt.Valid {
		t := startedAt.Time
		o.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		o.FinishedAt = &t
	}
	o.Diagnosis = diagnosis.String
	o.Resolution = resolution.String
	o.TechnicianID = technicianID.String

	if custID.Valid {
		o.Customer = &model.Customer{
			ID:      custID.String,
			Name:    custName.String,
			Phone:   custPhone.String,
			Address: custAddress.String,
		}
	}
	if machID.Valid {
		o.Machine = &model.Machine{
			ID:           machID.String,
			Model:        machModel.String,
			SerialNumber: machSerial.String,
		}
	}
	if techID.Valid {
		o.Technician = &model.Technician{
			ID:    techID.String,
			Name:  techName.String,
			Phone: techPhone.String,
		}
	}

	return &o, nil
}
