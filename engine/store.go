/*
store.go - Persistence and collaborator interfaces

PURPOSE:
  Defines the boundary between the engine and the hosting application.
  The engine owns no storage technology: shifts and projections go through
  repository interfaces, reference data (employees, divisions, hormone
  units, KPI records) is consulted read-only, and results flow out through
  a small callback sink.

REPLACE-BY-KEY CONTRACT:
  PutShift/PutProjection are full-record upserts. A save for an existing
  key replaces it; no history is kept and no partial updates exist.
  Deletes are explicit (shifts) or absent (projections).

READ-ONLY COLLABORATORS:
  Directory and KPIHistory are owned elsewhere. Implementations may be
  backed by anything; Get* returning (nil, nil) means "no record", which
  is meaningful (e.g. no prior KPI => seed from fallbacks, not an error).

CALLBACK SINK:
  Every shift mutation reports the entity's new scheduled-hours total and
  the refreshed shift list; every projection save reports the projection.
  Other parts of the hosting system (summary cards, durable caches) read
  these independently of the tables, so a missed notification is a bug.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite
  - engine/store: in-memory for tests/dev

SEE ALSO:
  - schedule/shift.go, forecast/planner.go: callers
*/
package engine

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REPOSITORIES - owned records, replace-by-key
// =============================================================================

// ShiftRepository persists shift entries keyed by (SchedulableID, Date).
type ShiftRepository interface {
	// PutShift inserts or fully replaces the entry for its key.
	PutShift(ctx context.Context, entry ShiftEntry) error

	// GetShift returns the entry for the key, or (nil, nil) when absent.
	GetShift(ctx context.Context, id SchedulableID, day DayKey) (*ShiftEntry, error)

	// DeleteShift removes the keyed entry. Deleting an absent key is a no-op.
	DeleteShift(ctx context.Context, id SchedulableID, day DayKey) error

	// ListShifts returns every entry for the schedulable, ordered by date.
	ListShifts(ctx context.Context, id SchedulableID) ([]ShiftEntry, error)

	// ListShiftsInMonth returns the schedulable's entries within the month.
	ListShiftsInMonth(ctx context.Context, id SchedulableID, month MonthKey) ([]ShiftEntry, error)
}

// ProjectionRepository persists revenue projections keyed by
// (SchedulableID, MonthKey). There is no delete: projections are only
// replaced or re-submitted.
type ProjectionRepository interface {
	PutProjection(ctx context.Context, p RevenueProjection) error

	// GetProjection returns the record for the key, or (nil, nil) when absent.
	GetProjection(ctx context.Context, id SchedulableID, month MonthKey) (*RevenueProjection, error)

	// ListProjections returns all records for the month.
	ListProjections(ctx context.Context, month MonthKey) ([]RevenueProjection, error)
}

// =============================================================================
// READ-ONLY COLLABORATORS - reference data owned by the hosting application
// =============================================================================

// Directory resolves schedulable and division reference data.
type Directory interface {
	// GetEmployee returns (nil, nil) when the id is not an employee.
	GetEmployee(ctx context.Context, id SchedulableID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	// GetUnit returns (nil, nil) when the id is not a hormone unit.
	GetUnit(ctx context.Context, id SchedulableID) (*HormoneUnit, error)
	ListUnits(ctx context.Context) ([]HormoneUnit, error)

	GetDivision(ctx context.Context, id DivisionID) (*Division, error)
	ListDivisions(ctx context.Context) ([]Division, error)
}

// KPIHistory looks up trailing performance records.
type KPIHistory interface {
	// KPIFor returns the record for (employee, month), or (nil, nil) when
	// none exists. Absence of data is not an error.
	KPIFor(ctx context.Context, employeeID SchedulableID, month MonthKey) (*EmployeeKPI, error)
}

// =============================================================================
// CALLBACK SINK - results pushed to the hosting application
// =============================================================================

// ScheduleSink receives engine outputs. The engine is a library invoked
// in-process; these callbacks are its only write path out.
type ScheduleSink interface {
	// OnScheduledHours reports the entity's new rolled-up total after any
	// shift mutation.
	OnScheduledHours(ctx context.Context, id SchedulableID, total decimal.Decimal) error

	// OnSchedule reports the entity's refreshed shift list.
	OnSchedule(ctx context.Context, id SchedulableID, shifts []ShiftEntry) error

	// OnProjection reports a saved or submitted projection so the hosting
	// application can durably cache it (reload must not lose submitted state).
	OnProjection(ctx context.Context, p RevenueProjection) error
}

// NopSink discards all notifications. Useful in tests that only exercise
// storage behavior.
type NopSink struct{}

func (NopSink) OnScheduledHours(context.Context, SchedulableID, decimal.Decimal) error { return nil }
func (NopSink) OnSchedule(context.Context, SchedulableID, []ShiftEntry) error          { return nil }
func (NopSink) OnProjection(context.Context, RevenueProjection) error                  { return nil }

var _ ScheduleSink = NopSink{}
