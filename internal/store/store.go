// Package store is the relational order store backing the scheduling and
// analytics views. It is the single source of truth: views re-derive their
// state from fresh snapshots rather than mutating local copies.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when an order id does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidTransition is returned for a status change the technician
	// workflow does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Store wraps the sqlite connection.
type Store struct {
	*sql.DB
	path   string
	logger *zerolog.Logger
}

// Open initializes the database connection and creates tables if they
// don't exist.
func Open(path string, logger *zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	s := &Store{DB: db, path: path, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("order store initialized")
	return s, nil
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT,
			address TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS machines (
			id TEXT PRIMARY KEY,
			customer_id TEXT,
			model TEXT NOT NULL,
			serial_number TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (customer_id) REFERENCES customers(id)
		)`,
		`CREATE TABLE IF NOT EXISTS technicians (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS service_orders (
			id TEXT PRIMARY KEY,
			code TEXT UNIQUE NOT NULL,
			customer_id TEXT,
			machine_id TEXT,
			technician_id TEXT,
			scheduled_start DATETIME NOT NULL,
			scheduled_end DATETIME,
			estimated_minutes INTEGER NOT NULL DEFAULT 60,
			status TEXT NOT NULL DEFAULT 'to_do',
			priority TEXT NOT NULL DEFAULT 'medium',
			type TEXT NOT NULL DEFAULT 'corrective',
			problem_description TEXT NOT NULL,
			diagnosis TEXT,
			resolution TEXT,
			started_at DATETIME,
			finished_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (customer_id) REFERENCES customers(id),
			FOREIGN KEY (machine_id) REFERENCES machines(id),
			FOREIGN KEY (technician_id) REFERENCES technicians(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_scheduled_start
			ON service_orders(scheduled_start)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status
			ON service_orders(status)`,
	}

	for _, q := range queries {
		if _, err := s.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Backup copies the database file to dest.
func (s *Store) Backup(dest string) error {
	source, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer destination.Close()

	_, err = io.Copy(destination, source)
	return err
}

// CleanupBackups removes backup files older than retention, returning the
// removed count.
func (s *Store) CleanupBackups(dir string, retention time.Duration) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	deleted := 0
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, file.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}
