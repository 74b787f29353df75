/*
Package sqlite provides a SQLite-backed implementation of engine.Repository.

PURPOSE:
  The production data store for the budget engine. In the original system
  the data lived in a hosted relational service; the same schema and
  queries apply to PostgreSQL with minor dialect differences.

KEY TABLES:
  wage_configs:        One row per (worker, scope); NULL phase_id = default
  phases:              Phase records (date bounds, allocated budget)
  phase_workers:       Roster membership
  attendance_entries:  Day-level attendance facts

INVARIANT ENFORCEMENT:
  Partial unique indexes enforce the wage-config cardinality rules at the
  store, not in application code:
  - at most one default config per worker      (phase_id IS NULL)
  - at most one override per (worker, phase)   (phase_id IS NOT NULL)
  SaveWageConfig upserts by scope (delete + insert in one transaction).

PRECEDENCE QUERY:
  GetWageConfig resolves override-then-default in a single query: rows for
  the requested phase and the default row are both selected, ordered so
  the override sorts first, LIMIT 1.

APPROVAL FLIPS:
  SetAttendanceApproved is a single-row UPDATE touching only the approved
  column. A concurrent report build sees the pre- or post-approval row,
  never a torn entry.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/budget.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/repository.go: Interface definition and contract
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/budget-engine/engine"
)

const dateFormat = "2006-01-02"

// Store implements engine.Repository plus the write side used by the
// admin API and scenario seeding.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Wage configurations (defaults and phase-scoped overrides)
	CREATE TABLE IF NOT EXISTS wage_configs (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		phase_id TEXT,
		wage_type TEXT NOT NULL,
		daily_rate TEXT NOT NULL DEFAULT '0',
		monthly_salary TEXT NOT NULL DEFAULT '0',
		working_days_per_month INTEGER NOT NULL DEFAULT 26,
		created_at TEXT NOT NULL
	);

	-- CRITICAL: cardinality invariants live here, not in app code
	CREATE UNIQUE INDEX IF NOT EXISTS idx_wage_configs_default
		ON wage_configs(worker_id) WHERE phase_id IS NULL;
	CREATE UNIQUE INDEX IF NOT EXISTS idx_wage_configs_override
		ON wage_configs(worker_id, phase_id) WHERE phase_id IS NOT NULL;

	-- Phases (milestones)
	CREATE TABLE IF NOT EXISTS phases (
		id TEXT PRIMARY KEY,
		project_id TEXT,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		allocated_budget TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_phases_project
		ON phases(project_id) WHERE project_id IS NOT NULL;

	-- Roster membership
	CREATE TABLE IF NOT EXISTS phase_workers (
		phase_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		PRIMARY KEY (phase_id, worker_id)
	);

	-- Attendance facts (immutable except status/approved)
	CREATE TABLE IF NOT EXISTS attendance_entries (
		id TEXT PRIMARY KEY,
		phase_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		task_id TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		approved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- Hot path: per-phase, per-worker, ranged attendance fetches
	CREATE INDEX IF NOT EXISTS idx_attendance_phase_worker_date
		ON attendance_entries(phase_id, worker_id, date);
	CREATE INDEX IF NOT EXISTS idx_attendance_phase_date
		ON attendance_entries(phase_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// REPOSITORY - Read side (engine.Repository interface)
// =============================================================================

// GetWageConfig resolves override-then-default in one query: the override
// row (phase_id set) sorts before the default row (phase_id NULL).
func (s *Store) GetWageConfig(ctx context.Context, workerID engine.WorkerID, phaseID *engine.PhaseID) (*engine.WageConfig, error) {
	var row *sql.Row
	if phaseID != nil {
		row = s.db.QueryRowContext(ctx, `
			SELECT id, worker_id, phase_id, wage_type, daily_rate, monthly_salary, working_days_per_month
			FROM wage_configs
			WHERE worker_id = ? AND (phase_id = ? OR phase_id IS NULL)
			ORDER BY (phase_id IS NULL) ASC
			LIMIT 1
		`, workerID, *phaseID)
	} else {
		row = s.db.QueryRowContext(ctx, `
			SELECT id, worker_id, phase_id, wage_type, daily_rate, monthly_salary, working_days_per_month
			FROM wage_configs
			WHERE worker_id = ? AND phase_id IS NULL
		`, workerID)
	}
	return scanWageConfig(row)
}

func scanWageConfig(row *sql.Row) (*engine.WageConfig, error) {
	var cfg engine.WageConfig
	var phase sql.NullString
	var dailyRate, monthlySalary string

	err := row.Scan(&cfg.ID, &cfg.WorkerID, &phase, &cfg.Type, &dailyRate, &monthlySalary, &cfg.WorkingDaysPerMonth)
	if err == sql.ErrNoRows {
		return nil, engine.ErrWageConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan wage config: %w", err)
	}
	if phase.Valid {
		id := engine.PhaseID(phase.String)
		cfg.PhaseID = &id
	}
	cfg.DailyRate = engine.MustParseMoney(dailyRate)
	cfg.MonthlySalary = engine.MustParseMoney(monthlySalary)
	return &cfg, nil
}

func (s *Store) GetPhase(ctx context.Context, phaseID engine.PhaseID) (*engine.Phase, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, start_date, end_date, allocated_budget
		FROM phases WHERE id = ?
	`, phaseID)

	var phase engine.Phase
	var projectID sql.NullString
	var start, end, allocated string

	err := row.Scan(&phase.ID, &projectID, &phase.Name, &start, &end, &allocated)
	if err == sql.ErrNoRows {
		return nil, engine.ErrPhaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan phase: %w", err)
	}
	phase.ProjectID = projectID.String
	if phase.Start, err = time.ParseInLocation(dateFormat, start, time.UTC); err != nil {
		return nil, fmt.Errorf("parse phase start %q: %w", start, err)
	}
	if phase.End, err = time.ParseInLocation(dateFormat, end, time.UTC); err != nil {
		return nil, fmt.Errorf("parse phase end %q: %w", end, err)
	}
	phase.AllocatedBudget = engine.MustParseMoney(allocated)
	return &phase, nil
}

func (s *Store) GetRoster(ctx context.Context, phaseID engine.PhaseID) ([]engine.WorkerID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT worker_id FROM phase_workers WHERE phase_id = ? ORDER BY worker_id
	`, phaseID)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	defer rows.Close()

	var roster []engine.WorkerID
	for rows.Next() {
		var id engine.WorkerID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		roster = append(roster, id)
	}
	return roster, rows.Err()
}

func (s *Store) GetAttendance(ctx context.Context, phaseID engine.PhaseID, workerID *engine.WorkerID, window *engine.DateRange) ([]engine.AttendanceEntry, error) {
	query := `
		SELECT id, phase_id, worker_id, task_id, date, status, approved, created_at
		FROM attendance_entries WHERE phase_id = ?`
	args := []any{phaseID}

	if workerID != nil {
		query += ` AND worker_id = ?`
		args = append(args, *workerID)
	}
	if window != nil {
		query += ` AND date >= ? AND date <= ?`
		args = append(args, window.Start.Format(dateFormat), window.End.Format(dateFormat))
	}
	query += ` ORDER BY date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()

	var entries []engine.AttendanceEntry
	for rows.Next() {
		var e engine.AttendanceEntry
		var date, createdAt string
		if err := rows.Scan(&e.ID, &e.PhaseID, &e.WorkerID, &e.TaskID, &date, &e.Status, &e.Approved, &createdAt); err != nil {
			return nil, err
		}
		if e.Date, err = time.ParseInLocation(dateFormat, date, time.UTC); err != nil {
			return nil, fmt.Errorf("parse attendance date %q: %w", date, err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SetAttendanceApproved flips the approval flag on a single row.
func (s *Store) SetAttendanceApproved(ctx context.Context, entryID engine.EntryID, approved bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE attendance_entries SET approved = ? WHERE id = ?
	`, approved, entryID)
	if err != nil {
		return fmt.Errorf("update approval: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return engine.ErrEntryNotFound
	}
	return nil
}

// =============================================================================
// WRITE SIDE - Admin API and scenario seeding
// =============================================================================

// SaveWageConfig upserts by scope: any existing config for the same
// (worker, phase-or-default) scope is replaced in the same transaction.
func (s *Store) SaveWageConfig(ctx context.Context, cfg engine.WageConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.WorkingDaysPerMonth <= 0 {
		cfg.WorkingDaysPerMonth = engine.DefaultWorkingDaysPerMonth
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if cfg.PhaseID != nil {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM wage_configs WHERE worker_id = ? AND phase_id = ?`,
			cfg.WorkerID, *cfg.PhaseID)
	} else {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM wage_configs WHERE worker_id = ? AND phase_id IS NULL`,
			cfg.WorkerID)
	}
	if err != nil {
		return fmt.Errorf("clear wage config scope: %w", err)
	}

	var phase any
	if cfg.PhaseID != nil {
		phase = string(*cfg.PhaseID)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO wage_configs
		(id, worker_id, phase_id, wage_type, daily_rate, monthly_salary, working_days_per_month, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		cfg.ID,
		cfg.WorkerID,
		phase,
		cfg.Type,
		cfg.DailyRate.String(),
		cfg.MonthlySalary.String(),
		cfg.WorkingDaysPerMonth,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert wage config: %w", err)
	}
	return tx.Commit()
}

func (s *Store) SavePhase(ctx context.Context, phase engine.Phase) error {
	var project any
	if phase.ProjectID != "" {
		project = phase.ProjectID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phases (id, project_id, name, start_date, end_date, allocated_budget)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			name = excluded.name,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			allocated_budget = excluded.allocated_budget
	`,
		phase.ID,
		project,
		phase.Name,
		phase.Start.Format(dateFormat),
		phase.End.Format(dateFormat),
		phase.AllocatedBudget.String(),
	)
	if err != nil {
		return fmt.Errorf("save phase: %w", err)
	}
	return nil
}

func (s *Store) AddRosterWorkers(ctx context.Context, phaseID engine.PhaseID, workers []engine.WorkerID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, workerID := range workers {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO phase_workers (phase_id, worker_id) VALUES (?, ?)
		`, phaseID, workerID); err != nil {
			return fmt.Errorf("add roster worker %s: %w", workerID, err)
		}
	}
	return tx.Commit()
}

// SaveAttendance stores a new entry, assigning an id when absent.
func (s *Store) SaveAttendance(ctx context.Context, entry engine.AttendanceEntry) (engine.EntryID, error) {
	if entry.ID == "" {
		entry.ID = engine.EntryID(uuid.NewString())
	}
	if entry.Status == "" {
		entry.Status = engine.StatusUnrecorded
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_entries (id, phase_id, worker_id, task_id, date, status, approved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.PhaseID,
		entry.WorkerID,
		entry.TaskID,
		entry.Date.Format(dateFormat),
		entry.Status,
		entry.Approved,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert attendance entry: %w", err)
	}
	return entry.ID, nil
}

// Reset clears all data. Only used by demo scenario loading.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"wage_configs", "phases", "phase_workers", "attendance_entries"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
