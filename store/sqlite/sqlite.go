/*
Package sqlite provides a SQLite-backed calculation history.

PURPOSE:
  Every completed entitlement calculation is kept so its summary can be
  viewed again, exported to CSV/PDF later, or compared with a recalculation.
  Calculations themselves are pure; the history is a record of what was
  answered, never an input to a new answer.

APPEND-ONLY:
  Records are inserted once and never updated.

KEY TABLES:
  calculations: One row per calculation (input, result, rendered summary)

INDEXES:
  - idx_calculations_employee: History for one employee, newest first

CONCURRENCY:
  Uses sync.RWMutex for thread-safety around the shared *sql.DB.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so history reads do not
  block the writer.

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/leave-entitlement/generic"
)

// timestampLayout sorts lexically in time order (fixed-width, UTC).
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements calculation history using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculations (
		id TEXT PRIMARY KEY,
		employee_number TEXT NOT NULL,
		region TEXT NOT NULL,
		leave_start TEXT NOT NULL,
		leave_end TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		holidays_available BOOLEAN NOT NULL DEFAULT TRUE,
		input_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		summary TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_employee
		ON calculations(employee_number, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CALCULATION HISTORY
// =============================================================================

// CalculationRecord is one stored calculation.
type CalculationRecord struct {
	ID                string
	EmployeeNumber    string
	Region            string
	LeaveStart        generic.TimePoint
	LeaveEnd          generic.TimePoint
	TotalHours        string
	HolidaysAvailable bool
	InputJSON         string
	ResultJSON        string
	Summary           string
	CreatedAt         time.Time
}

// SaveCalculation inserts a record. IDs are unique; saving the same ID twice
// is an error.
func (s *Store) SaveCalculation(ctx context.Context, rec CalculationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO calculations (
			id, employee_number, region, leave_start, leave_end, total_hours,
			holidays_available, input_json, result_json, summary, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.EmployeeNumber,
		rec.Region,
		rec.LeaveStart.String(),
		rec.LeaveEnd.String(),
		rec.TotalHours,
		rec.HolidaysAvailable,
		rec.InputJSON,
		rec.ResultJSON,
		rec.Summary,
		rec.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// GetCalculation returns a record by ID, or generic.ErrNotFound.
func (s *Store) GetCalculation(ctx context.Context, id string) (*CalculationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_number, region, leave_start, leave_end, total_hours,
		       holidays_available, input_json, result_json, summary, created_at
		FROM calculations
		WHERE id = ?
	`

	rec, err := scanCalculation(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("calculation %s: %w", id, generic.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListCalculations returns records newest first. An empty employeeNumber
// lists every employee. limit <= 0 means no limit.
func (s *Store) ListCalculations(ctx context.Context, employeeNumber string, limit int) ([]CalculationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_number, region, leave_start, leave_end, total_hours,
		       holidays_available, input_json, result_json, summary, created_at
		FROM calculations
		WHERE (? = '' OR employee_number = ?)
		ORDER BY created_at DESC
		LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, employeeNumber, employeeNumber, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CalculationRecord
	for rows.Next() {
		rec, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row rowScanner) (*CalculationRecord, error) {
	var rec CalculationRecord
	var leaveStart, leaveEnd, createdAt string

	err := row.Scan(
		&rec.ID,
		&rec.EmployeeNumber,
		&rec.Region,
		&leaveStart,
		&leaveEnd,
		&rec.TotalHours,
		&rec.HolidaysAvailable,
		&rec.InputJSON,
		&rec.ResultJSON,
		&rec.Summary,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if rec.LeaveStart, err = generic.ParseDate(leaveStart); err != nil {
		return nil, fmt.Errorf("corrupt leave_start %q: %w", leaveStart, err)
	}
	if rec.LeaveEnd, err = generic.ParseDate(leaveEnd); err != nil {
		return nil, fmt.Errorf("corrupt leave_end %q: %w", leaveEnd, err)
	}
	if rec.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return nil, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}
	return &rec, nil
}
