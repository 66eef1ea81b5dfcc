/*
Package engine provides the core scheduling and revenue-projection model.

PURPOSE:
  This package contains the shared types and pure algorithms for staffing a
  service business: schedulable entities (employees and hormone units),
  calendar shift entries, monthly revenue projections, and the lock/cutoff
  rules that gate edits. Services in schedule/ and forecast/ build on these
  primitives; they hold no business math of their own beyond orchestration.

KEY CONCEPTS IN THIS FILE (types.go):
  - Schedulable: anything that can be assigned shifts (employee or unit)
  - ShiftEntry: one day's start/end assignment, keyed by (schedulable, date)
  - RevenueProjection: a per-entity, per-month forecast with derived fields
  - EmployeeKPI: trailing performance record consulted read-only
  - Role: supplied actor role (never verified here)

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for hours and money, never float64
  2. Replace-by-key: shifts and projections are full-record upserts, no history
  3. Derived fields are a pure function of inputs (see projection.go)
  4. Type safety: strong ID types prevent mixing schedulable/division IDs

SEE ALSO:
  - clock.go: wall-clock duration math and rounding policies
  - period.go: month keys and year-boundary wrapping
  - projection.go: the input -> derived cascade and seed defaults
  - lock.go: the monthly cutoff rule
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type SchedulableID string
type DivisionID string
type ShiftID string

// DivisionHormone is the fixed division every hormone unit belongs to.
const DivisionHormone DivisionID = "hormone"

// =============================================================================
// ROLES - supplied by the caller, never verified
// =============================================================================

type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin" // privileged override role
)

// Privileged reports whether the role bypasses the monthly edit lock.
func (r Role) Privileged() bool { return r == RoleAdmin }

// =============================================================================
// SCHEDULABLE - polymorphic over employees and hormone units
// =============================================================================

type Kind string

const (
	KindEmployee Kind = "employee"
	KindUnit     Kind = "unit"
)

// Schedulable is anything shifts can be assigned to.
// Domain records (Employee, HormoneUnit) implement this.
type Schedulable interface {
	// SchedulableID returns the unique identifier for this entity.
	SchedulableID() SchedulableID

	// SchedulableKind distinguishes employees from hormone units.
	SchedulableKind() Kind

	// HomeDivision returns the division association.
	HomeDivision() DivisionID

	// LocationTags returns zero or more location tags.
	LocationTags() []string
}

// Employee is a staff member that can be scheduled.
type Employee struct {
	ID              SchedulableID
	Name            string
	DivisionID      DivisionID
	Locations       []string
	Category        string
	ExperienceLevel string
	CreatedAt       time.Time
}

func (e Employee) SchedulableID() SchedulableID { return e.ID }
func (e Employee) SchedulableKind() Kind        { return KindEmployee }
func (e Employee) HomeDivision() DivisionID     { return e.DivisionID }
func (e Employee) LocationTags() []string       { return e.Locations }

// HormoneUnit is a bookable unit (room + equipment) with no KPI history.
// Units always belong to the fixed hormone division.
type HormoneUnit struct {
	UnitID        SchedulableID
	Location      string
	NPIDs         []string
	SpecialistIDs []string
	CreatedAt     time.Time
}

func (u HormoneUnit) SchedulableID() SchedulableID { return u.UnitID }
func (u HormoneUnit) SchedulableKind() Kind        { return KindUnit }
func (u HormoneUnit) HomeDivision() DivisionID     { return DivisionHormone }
func (u HormoneUnit) LocationTags() []string {
	if u.Location == "" {
		return nil
	}
	return []string{u.Location}
}

// Compile-time checks that both records implement Schedulable.
var (
	_ Schedulable = Employee{}
	_ Schedulable = HormoneUnit{}
)

// Division is read-only reference data owned elsewhere.
type Division struct {
	ID    DivisionID
	Name  string
	Color string
}

// =============================================================================
// SHIFT ENTRY - one day's assignment, keyed by (schedulable, date)
// =============================================================================

// ShiftEntry records a single day's start/end assignment for one schedulable.
//
// Invariant: at most one entry per (SchedulableID, Date). A save for an
// existing key replaces the record; no history is kept. ScheduledHours is
// always recomputed from StartTime/EndTime at write time, never accepted
// as independent input.
type ShiftEntry struct {
	ID             ShiftID
	SchedulableID  SchedulableID
	Date           DayKey
	StartTime      string // "HH:MM"
	EndTime        string // "HH:MM"
	ScheduledHours decimal.Decimal
	Location       string
	DivisionID     DivisionID
	CreatedBy      string
	CreatedAt      time.Time
	Locked         bool

	// Version is a monotonic counter for optimistic upserts.
	// Zero on the wire means "no conflict check" (last-write-wins).
	Version int64
}

// Key identifies a shift slot.
type Key struct {
	SchedulableID SchedulableID
	Date          DayKey
}

func (s ShiftEntry) Key() Key { return Key{SchedulableID: s.SchedulableID, Date: s.Date} }

// =============================================================================
// KPI RECORD - trailing performance data, consulted read-only
// =============================================================================

// EmployeeKPI is a historical performance record keyed by (employee, month).
// The engine never writes these; they arrive from the hosting application.
type EmployeeKPI struct {
	EmployeeID          SchedulableID
	Month               MonthKey
	ProductivityRate    decimal.Decimal // percent, 0-100
	RetailPercentage    decimal.Decimal // percent of service revenue
	AttendanceRate      decimal.Decimal // percent, 0-100
	ServiceSalesPerHour decimal.Decimal // currency per effective hour
	HoursSold           decimal.Decimal
}
