package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
)

// CreateCustomer inserts a customer, assigning an id when absent.
func (s *Store) CreateCustomer(ctx context.Context, c *model.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.ExecContext(ctx,
		"INSERT INTO customers (id, name, phone, address) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, c.Phone, c.Address,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// CreateMachine inserts a machine owned by a customer.
func (s *Store) CreateMachine(ctx context.Context, customerID string, m *model.Machine) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := s.ExecContext(ctx,
		"INSERT INTO machines (id, customer_id, model, serial_number) VALUES (?, ?, ?, ?)",
		m.ID, customerID, m.Model, m.SerialNumber,
	)
	if err != nil {
		return fmt.Errorf("insert machine: %w", err)
	}
	return nil
}

// CreateTechnician inserts a technician profile.
func (s *Store) CreateTechnician(ctx context.Context, t *model.Technician) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := s.ExecContext(ctx,
		"INSERT INTO technicians (id, name, phone) VALUES (?, ?, ?)",
		t.ID, t.Name, t.Phone,
	)
	if err != nil {
		return fmt.Errorf("insert technician: %w", err)
	}
	return nil
}

// ListTechnicians returns all technician profiles ordered by name.
func (s *Store) ListTechnicians(ctx context.Context) ([]model.Technician, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT id, name, phone FROM technicians ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	defer rows.Close()

	var techs []model.Technician
	for rows.Next() {
		var t model.Technician
		var phone sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &phone); err != nil {
			return nil, err
		}
		t.Phone = phone.String
		techs = append(techs, t)
	}
	return techs, rows.Err()
}
