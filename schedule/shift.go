/*
Package schedule implements the calendar shift store.

PURPOSE:
  Keyed upsert/delete of shift entries and per-entity hour rollups. One
  entry per (schedulable, date); a save for an existing key replaces it.
  Scheduled hours are recomputed from start/end at write time using the
  full-precision calendar policy (see engine/clock.go).

ROLLUP SCOPE:
  The source system sums ALL shifts ever entered for an entity, not just
  the month being viewed. Both behaviors are reachable here via Scope so
  call sites are explicit instead of silently inconsistent: AllTime() is
  the source behavior and the default feed for projection seeding;
  ForMonth() is the period-scoped alternative.

NOTIFICATIONS:
  Every upsert/remove notifies the sink with the entity's new total and
  refreshed shift list. Summary cards and projection seeding read
  scheduled hours independently of the shift table, so skipping a
  notification leaves them stale.

SEE ALSO:
  - weekly.go: weekly recurring templates (0.5h rounding policy)
  - engine/lock.go: the cutoff gating mutations
*/
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chantela-crypto/MGMT-sub003/engine"
)

// =============================================================================
// ROLLUP SCOPE
// =============================================================================

// Scope selects which shifts a rollup sums.
type Scope struct {
	month *engine.MonthKey
}

// AllTime sums every shift ever entered for the entity (source behavior).
func AllTime() Scope { return Scope{} }

// ForMonth sums only the given month's shifts.
func ForMonth(m engine.MonthKey) Scope { return Scope{month: &m} }

// =============================================================================
// SHIFT STORE
// =============================================================================

// Store owns shift mutations and rollups.
type Store struct {
	Shifts engine.ShiftRepository
	Sink   engine.ScheduleSink
	Clock  engine.Clock
}

func NewStore(shifts engine.ShiftRepository, sink engine.ScheduleSink, clock engine.Clock) *Store {
	if sink == nil {
		sink = engine.NopSink{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &Store{Shifts: shifts, Sink: sink, Clock: clock}
}

// UpsertInput carries the raw UI inputs for a shift save. ScheduledHours is
// deliberately absent: it is derived, never accepted.
type UpsertInput struct {
	SchedulableID engine.SchedulableID
	Date          engine.DayKey
	StartTime     string
	EndTime       string
	Location      string
	DivisionID    engine.DivisionID
	ActorID       string
	ActorRole     engine.Role

	// ExpectedVersion enables the optimistic conflict check. Zero keeps the
	// source's last-write-wins semantics.
	ExpectedVersion int64
}

// Upsert computes scheduled hours, replaces any existing entry for the
// (schedulable, date) key and returns the new entry.
//
// Errors: LockedPeriodError after the monthly cutoff for non-privileged
// roles, ValidationError for a missing division/location or malformed
// time, InvalidRangeError when the computed duration is not positive,
// ConflictError when ExpectedVersion is set and stale.
func (s *Store) Upsert(ctx context.Context, in UpsertInput) (*engine.ShiftEntry, error) {
	now := s.Clock()
	if engine.Locked(now, in.ActorRole) {
		return nil, &engine.LockedPeriodError{Role: in.ActorRole, At: now}
	}
	if in.SchedulableID == "" {
		return nil, &engine.ValidationError{Field: "schedulableId", Message: "required"}
	}
	if in.Date.IsZero() {
		return nil, &engine.ValidationError{Field: "date", Message: "required"}
	}
	if in.DivisionID == "" {
		return nil, &engine.ValidationError{Field: "divisionId", Message: "required"}
	}
	if in.Location == "" {
		return nil, &engine.ValidationError{Field: "location", Message: "required"}
	}

	hours, err := engine.ShiftHours(in.StartTime, in.EndTime)
	if err != nil {
		return nil, &engine.ValidationError{Field: "startTime/endTime", Message: err.Error()}
	}
	if !hours.IsPositive() {
		return nil, &engine.InvalidRangeError{
			SchedulableID: in.SchedulableID,
			Date:          in.Date,
			StartTime:     in.StartTime,
			EndTime:       in.EndTime,
		}
	}

	existing, err := s.Shifts.GetShift(ctx, in.SchedulableID, in.Date)
	if err != nil {
		return nil, err
	}
	if in.ExpectedVersion > 0 && existing != nil && existing.Version != in.ExpectedVersion {
		return nil, &engine.ConflictError{
			SchedulableID: in.SchedulableID,
			Expected:      in.ExpectedVersion,
			Actual:        existing.Version,
		}
	}

	entry := engine.ShiftEntry{
		ID:             shiftID(in.SchedulableID, in.Date),
		SchedulableID:  in.SchedulableID,
		Date:           in.Date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		ScheduledHours: hours,
		Location:       in.Location,
		DivisionID:     in.DivisionID,
		CreatedBy:      in.ActorID,
		CreatedAt:      now,
		Locked:         engine.StateAt(now, engine.RoleStaff) == engine.LockClosed,
		Version:        1,
	}
	if existing != nil {
		entry.CreatedAt = existing.CreatedAt
		entry.Version = existing.Version + 1
	}

	if err := s.Shifts.PutShift(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.notify(ctx, in.SchedulableID); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Remove deletes the keyed entry if present; removing an absent key is a
// no-op. Either way the sink hears the entity's current total.
func (s *Store) Remove(ctx context.Context, id engine.SchedulableID, day engine.DayKey, role engine.Role) error {
	now := s.Clock()
	if engine.Locked(now, role) {
		return &engine.LockedPeriodError{Role: role, At: now}
	}
	if err := s.Shifts.DeleteShift(ctx, id, day); err != nil {
		return err
	}
	return s.notify(ctx, id)
}

// Rollup sums scheduled hours for the entity within the scope.
func (s *Store) Rollup(ctx context.Context, id engine.SchedulableID, scope Scope) (decimal.Decimal, error) {
	var (
		entries []engine.ShiftEntry
		err     error
	)
	if scope.month != nil {
		entries, err = s.Shifts.ListShiftsInMonth(ctx, id, *scope.month)
	} else {
		entries, err = s.Shifts.ListShifts(ctx, id)
	}
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.ScheduledHours)
	}
	return total, nil
}

// ScheduledHours is the all-time rollup, the feed projection seeding uses.
func (s *Store) ScheduledHours(ctx context.Context, id engine.SchedulableID) (decimal.Decimal, error) {
	return s.Rollup(ctx, id, AllTime())
}

// List returns the entity's shifts ordered by date.
func (s *Store) List(ctx context.Context, id engine.SchedulableID) ([]engine.ShiftEntry, error) {
	return s.Shifts.ListShifts(ctx, id)
}

func (s *Store) notify(ctx context.Context, id engine.SchedulableID) error {
	total, err := s.Rollup(ctx, id, AllTime())
	if err != nil {
		return err
	}
	if err := s.Sink.OnScheduledHours(ctx, id, total); err != nil {
		return err
	}
	shifts, err := s.Shifts.ListShifts(ctx, id)
	if err != nil {
		return err
	}
	return s.Sink.OnSchedule(ctx, id, shifts)
}

// shiftID is deterministic per key so replace-by-key keeps a stable ID.
func shiftID(id engine.SchedulableID, day engine.DayKey) engine.ShiftID {
	return engine.ShiftID(fmt.Sprintf("shift-%s-%s", id, day))
}
