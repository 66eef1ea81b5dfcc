/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements the engine's persistence interfaces (ShiftRepository,
  ProjectionRepository) plus the read-only collaborators (Directory,
  KPIHistory) using SQLite. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

REPLACE-BY-KEY ENFORCEMENT:
  shifts and projections carry natural-key primary keys
  ((schedulable_id, date) and (schedulable_id, month)); writes go through
  INSERT OR REPLACE so a save for an existing key swaps the whole row.
  No history tables exist.

KEY TABLES:
  shifts:         one row per (schedulable, day)
  projections:    one row per (schedulable, month), incl. workflow fields
  employees, divisions, hormone_units: reference data
  employee_kpis:  trailing performance records keyed by (employee, month)

DECIMALS:
  Hours, money and rates are stored as TEXT and parsed with
  decimal.NewFromString, never as REAL.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/mgmt.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: interface definitions
  - engine/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/chantela-crypto/MGMT-sub003/engine"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

var (
	_ engine.ShiftRepository      = (*Store)(nil)
	_ engine.ProjectionRepository = (*Store)(nil)
	_ engine.Directory            = (*Store)(nil)
	_ engine.KPIHistory           = (*Store)(nil)
)

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
func (s *Store) Close() error { return s.db.Close() }

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- One row per (schedulable, day); saves replace the whole row
	CREATE TABLE IF NOT EXISTS shifts (
		schedulable_id  TEXT NOT NULL,
		date            TEXT NOT NULL,
		id              TEXT NOT NULL,
		start_time      TEXT NOT NULL,
		end_time        TEXT NOT NULL,
		scheduled_hours TEXT NOT NULL,
		location        TEXT NOT NULL,
		division_id     TEXT NOT NULL,
		created_by      TEXT,
		created_at      TEXT NOT NULL,
		locked          INTEGER NOT NULL DEFAULT 0,
		version         INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (schedulable_id, date)
	);

	-- One row per (schedulable, month); never deleted, only replaced
	CREATE TABLE IF NOT EXISTS projections (
		schedulable_id            TEXT NOT NULL,
		month                     TEXT NOT NULL,
		scheduled_hours           TEXT NOT NULL,
		estimated_productivity    TEXT NOT NULL,
		service_sales_per_hour    TEXT NOT NULL,
		retail_percentage         TEXT NOT NULL,
		effective_hours           TEXT NOT NULL,
		projected_service_revenue TEXT NOT NULL,
		projected_retail_revenue  TEXT NOT NULL,
		total_revenue_goal        TEXT NOT NULL,
		is_submitted              INTEGER NOT NULL DEFAULT 0,
		submitted_at              TEXT,
		submitted_by              TEXT,
		updated_by                TEXT,
		updated_at                TEXT NOT NULL,
		version                   INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (schedulable_id, month)
	);

	CREATE INDEX IF NOT EXISTS idx_projections_month
		ON projections(month);

	-- Reference data (owned by the hosting application)
	CREATE TABLE IF NOT EXISTS divisions (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		color TEXT
	);

	CREATE TABLE IF NOT EXISTS employees (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		division_id      TEXT NOT NULL,
		locations_json   TEXT,
		category         TEXT,
		experience_level TEXT,
		created_at       TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS hormone_units (
		unit_id             TEXT PRIMARY KEY,
		location            TEXT,
		np_ids_json         TEXT,
		specialist_ids_json TEXT,
		created_at          TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employee_kpis (
		employee_id            TEXT NOT NULL,
		month                  TEXT NOT NULL,
		productivity_rate      TEXT NOT NULL,
		retail_percentage      TEXT NOT NULL,
		attendance_rate        TEXT NOT NULL,
		service_sales_per_hour TEXT NOT NULL,
		hours_sold             TEXT NOT NULL,
		PRIMARY KEY (employee_id, month)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SHIFT REPOSITORY
// =============================================================================

func (s *Store) PutShift(ctx context.Context, entry engine.ShiftEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO shifts
			(schedulable_id, date, id, start_time, end_time, scheduled_hours,
			 location, division_id, created_by, created_at, locked, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(entry.SchedulableID), entry.Date.String(), string(entry.ID),
		entry.StartTime, entry.EndTime, entry.ScheduledHours.String(),
		entry.Location, string(entry.DivisionID), entry.CreatedBy,
		entry.CreatedAt.UTC().Format(time.RFC3339), boolToInt(entry.Locked), entry.Version)
	return err
}

func (s *Store) GetShift(ctx context.Context, id engine.SchedulableID, day engine.DayKey) (*engine.ShiftEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT schedulable_id, date, id, start_time, end_time, scheduled_hours,
		       location, division_id, created_by, created_at, locked, version
		FROM shifts WHERE schedulable_id = ? AND date = ?`,
		string(id), day.String())

	entry, err := scanShift(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Store) DeleteShift(ctx context.Context, id engine.SchedulableID, day engine.DayKey) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM shifts WHERE schedulable_id = ? AND date = ?`,
		string(id), day.String())
	return err
}

func (s *Store) ListShifts(ctx context.Context, id engine.SchedulableID) ([]engine.ShiftEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT schedulable_id, date, id, start_time, end_time, scheduled_hours,
		       location, division_id, created_by, created_at, locked, version
		FROM shifts WHERE schedulable_id = ? ORDER BY date`,
		string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShifts(rows)
}

func (s *Store) ListShiftsInMonth(ctx context.Context, id engine.SchedulableID, month engine.MonthKey) ([]engine.ShiftEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT schedulable_id, date, id, start_time, end_time, scheduled_hours,
		       location, division_id, created_by, created_at, locked, version
		FROM shifts
		WHERE schedulable_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		string(id),
		month.Start().Format("2006-01-02"),
		month.End().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShifts(rows)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanShift(row rowScanner) (*engine.ShiftEntry, error) {
	var (
		entry                   engine.ShiftEntry
		schedulableID, date, id string
		hours, createdAt        string
		createdBy, divisionID   string
		locked                  int
	)
	err := row.Scan(&schedulableID, &date, &id, &entry.StartTime, &entry.EndTime,
		&hours, &entry.Location, &divisionID, &createdBy, &createdAt, &locked, &entry.Version)
	if err != nil {
		return nil, err
	}

	entry.SchedulableID = engine.SchedulableID(schedulableID)
	entry.ID = engine.ShiftID(id)
	entry.DivisionID = engine.DivisionID(divisionID)
	entry.CreatedBy = createdBy
	entry.Locked = locked != 0
	if entry.Date, err = engine.ParseDayKey(date); err != nil {
		return nil, err
	}
	if entry.ScheduledHours, err = decimal.NewFromString(hours); err != nil {
		return nil, fmt.Errorf("bad scheduled_hours %q: %w", hours, err)
	}
	if entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	return &entry, nil
}

func collectShifts(rows *sql.Rows) ([]engine.ShiftEntry, error) {
	var out []engine.ShiftEntry
	for rows.Next() {
		entry, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	return out, rows.Err()
}

// =============================================================================
// PROJECTION REPOSITORY
// =============================================================================

func (s *Store) PutProjection(ctx context.Context, p engine.RevenueProjection) error {
	var submittedAt any
	if p.SubmittedAt != nil {
		submittedAt = p.SubmittedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO projections
			(schedulable_id, month, scheduled_hours, estimated_productivity,
			 service_sales_per_hour, retail_percentage, effective_hours,
			 projected_service_revenue, projected_retail_revenue,
			 total_revenue_goal, is_submitted, submitted_at, submitted_by,
			 updated_by, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.SchedulableID), p.Month.String(),
		p.Inputs.ScheduledHours.String(), p.Inputs.EstimatedProductivity.String(),
		p.Inputs.ServiceSalesPerHour.String(), p.Inputs.RetailPercentage.String(),
		p.Derived.EffectiveHours.String(), p.Derived.ProjectedServiceRevenue.String(),
		p.Derived.ProjectedRetailRevenue.String(), p.Derived.TotalRevenueGoal.String(),
		boolToInt(p.IsSubmitted), submittedAt, p.SubmittedBy,
		p.UpdatedBy, p.UpdatedAt.UTC().Format(time.RFC3339), p.Version)
	return err
}

func (s *Store) GetProjection(ctx context.Context, id engine.SchedulableID, month engine.MonthKey) (*engine.RevenueProjection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT schedulable_id, month, scheduled_hours, estimated_productivity,
		       service_sales_per_hour, retail_percentage, effective_hours,
		       projected_service_revenue, projected_retail_revenue,
		       total_revenue_goal, is_submitted, submitted_at, submitted_by,
		       updated_by, updated_at, version
		FROM projections WHERE schedulable_id = ? AND month = ?`,
		string(id), month.String())

	p, err := scanProjection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListProjections(ctx context.Context, month engine.MonthKey) ([]engine.RevenueProjection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT schedulable_id, month, scheduled_hours, estimated_productivity,
		       service_sales_per_hour, retail_percentage, effective_hours,
		       projected_service_revenue, projected_retail_revenue,
		       total_revenue_goal, is_submitted, submitted_at, submitted_by,
		       updated_by, updated_at, version
		FROM projections WHERE month = ? ORDER BY schedulable_id`,
		month.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.RevenueProjection
	for rows.Next() {
		p, err := scanProjection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProjection(row rowScanner) (*engine.RevenueProjection, error) {
	var (
		p                        engine.RevenueProjection
		schedulableID, month     string
		sh, ep, ssph, rp         string
		eh, psr, prr, trg        string
		submitted                int
		submittedAt, submittedBy sql.NullString
		updatedBy                sql.NullString
		updatedAt                string
	)
	err := row.Scan(&schedulableID, &month, &sh, &ep, &ssph, &rp,
		&eh, &psr, &prr, &trg, &submitted, &submittedAt, &submittedBy,
		&updatedBy, &updatedAt, &p.Version)
	if err != nil {
		return nil, err
	}

	p.SchedulableID = engine.SchedulableID(schedulableID)
	if p.Month, err = engine.ParseMonthKey(month); err != nil {
		return nil, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&p.Inputs.ScheduledHours:           sh,
		&p.Inputs.EstimatedProductivity:    ep,
		&p.Inputs.ServiceSalesPerHour:      ssph,
		&p.Inputs.RetailPercentage:         rp,
		&p.Derived.EffectiveHours:          eh,
		&p.Derived.ProjectedServiceRevenue: psr,
		&p.Derived.ProjectedRetailRevenue:  prr,
		&p.Derived.TotalRevenueGoal:        trg,
	}); err != nil {
		return nil, err
	}

	p.IsSubmitted = submitted != 0
	p.SubmittedBy = submittedBy.String
	p.UpdatedBy = updatedBy.String
	if submittedAt.Valid {
		t, err := time.Parse(time.RFC3339, submittedAt.String)
		if err != nil {
			return nil, err
		}
		p.SubmittedAt = &t
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseDecimals(fields map[*decimal.Decimal]string) error {
	for dst, raw := range fields {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("bad decimal %q: %w", raw, err)
		}
		*dst = d
	}
	return nil
}

// =============================================================================
// DIRECTORY - reference data
// =============================================================================

// SaveDivision upserts reference data supplied by the hosting application.
func (s *Store) SaveDivision(ctx context.Context, d engine.Division) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO divisions (id, name, color) VALUES (?, ?, ?)`,
		string(d.ID), d.Name, d.Color)
	return err
}

func (s *Store) SaveEmployee(ctx context.Context, e engine.Employee) error {
	locations, err := json.Marshal(e.Locations)
	if err != nil {
		return err
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees
			(id, name, division_id, locations_json, category, experience_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(e.ID), e.Name, string(e.DivisionID), string(locations),
		e.Category, e.ExperienceLevel, createdAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) SaveUnit(ctx context.Context, u engine.HormoneUnit) error {
	npIDs, err := json.Marshal(u.NPIDs)
	if err != nil {
		return err
	}
	specialistIDs, err := json.Marshal(u.SpecialistIDs)
	if err != nil {
		return err
	}
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO hormone_units
			(unit_id, location, np_ids_json, specialist_ids_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(u.UnitID), u.Location, string(npIDs), string(specialistIDs),
		createdAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id engine.SchedulableID) (*engine.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, division_id, locations_json, category, experience_level, created_at
		FROM employees WHERE id = ?`, string(id))
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]engine.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, division_id, locations_json, category, experience_level, created_at
		FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanEmployee(row rowScanner) (*engine.Employee, error) {
	var (
		e                         engine.Employee
		id, divisionID, createdAt string
		locations                 sql.NullString
		category, experience      sql.NullString
	)
	err := row.Scan(&id, &e.Name, &divisionID, &locations, &category, &experience, &createdAt)
	if err != nil {
		return nil, err
	}
	e.ID = engine.SchedulableID(id)
	e.DivisionID = engine.DivisionID(divisionID)
	e.Category = category.String
	e.ExperienceLevel = experience.String
	if locations.Valid && locations.String != "" {
		if err := json.Unmarshal([]byte(locations.String), &e.Locations); err != nil {
			return nil, err
		}
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) GetUnit(ctx context.Context, id engine.SchedulableID) (*engine.HormoneUnit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT unit_id, location, np_ids_json, specialist_ids_json, created_at
		FROM hormone_units WHERE unit_id = ?`, string(id))
	u, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (s *Store) ListUnits(ctx context.Context) ([]engine.HormoneUnit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT unit_id, location, np_ids_json, specialist_ids_json, created_at
		FROM hormone_units ORDER BY unit_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.HormoneUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func scanUnit(row rowScanner) (*engine.HormoneUnit, error) {
	var (
		u                            engine.HormoneUnit
		unitID, createdAt            string
		location, npIDs, specialists sql.NullString
	)
	err := row.Scan(&unitID, &location, &npIDs, &specialists, &createdAt)
	if err != nil {
		return nil, err
	}
	u.UnitID = engine.SchedulableID(unitID)
	u.Location = location.String
	if npIDs.Valid && npIDs.String != "" {
		if err := json.Unmarshal([]byte(npIDs.String), &u.NPIDs); err != nil {
			return nil, err
		}
	}
	if specialists.Valid && specialists.String != "" {
		if err := json.Unmarshal([]byte(specialists.String), &u.SpecialistIDs); err != nil {
			return nil, err
		}
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetDivision(ctx context.Context, id engine.DivisionID) (*engine.Division, error) {
	var d engine.Division
	var divID string
	var color sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM divisions WHERE id = ?`, string(id)).
		Scan(&divID, &d.Name, &color)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.ID = engine.DivisionID(divID)
	d.Color = color.String
	return &d, nil
}

func (s *Store) ListDivisions(ctx context.Context) ([]engine.Division, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM divisions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Division
	for rows.Next() {
		var d engine.Division
		var id string
		var color sql.NullString
		if err := rows.Scan(&id, &d.Name, &color); err != nil {
			return nil, err
		}
		d.ID = engine.DivisionID(id)
		d.Color = color.String
		out = append(out, d)
	}
	return out, rows.Err()
}

// =============================================================================
// KPI HISTORY
// =============================================================================

// SaveKPI upserts a trailing performance record.
func (s *Store) SaveKPI(ctx context.Context, k engine.EmployeeKPI) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employee_kpis
			(employee_id, month, productivity_rate, retail_percentage,
			 attendance_rate, service_sales_per_hour, hours_sold)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(k.EmployeeID), k.Month.String(),
		k.ProductivityRate.String(), k.RetailPercentage.String(),
		k.AttendanceRate.String(), k.ServiceSalesPerHour.String(),
		k.HoursSold.String())
	return err
}

func (s *Store) KPIFor(ctx context.Context, employeeID engine.SchedulableID, month engine.MonthKey) (*engine.EmployeeKPI, error) {
	var (
		k                        engine.EmployeeKPI
		id, m                    string
		prod, retail, attendance string
		ssph, hoursSold          string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT employee_id, month, productivity_rate, retail_percentage,
		       attendance_rate, service_sales_per_hour, hours_sold
		FROM employee_kpis WHERE employee_id = ? AND month = ?`,
		string(employeeID), month.String()).
		Scan(&id, &m, &prod, &retail, &attendance, &ssph, &hoursSold)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	k.EmployeeID = engine.SchedulableID(id)
	if k.Month, err = engine.ParseMonthKey(m); err != nil {
		return nil, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&k.ProductivityRate:    prod,
		&k.RetailPercentage:    retail,
		&k.AttendanceRate:      attendance,
		&k.ServiceSalesPerHour: ssph,
		&k.HoursSold:           hoursSold,
	}); err != nil {
		return nil, err
	}
	return &k, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
