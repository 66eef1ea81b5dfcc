package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantela-crypto/MGMT-sub003/engine"
	"github.com/chantela-crypto/MGMT-sub003/engine/store"
	"github.com/chantela-crypto/MGMT-sub003/schedule"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// midMonth pins the clock safely inside the edit window.
func midMonth() time.Time {
	return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func afterCutoff() time.Time {
	return time.Date(2025, time.March, 26, 0, 0, 0, 0, time.UTC)
}

func newTestStore(clock engine.Clock) (*schedule.Store, *store.Memory, *store.Recorder) {
	mem := store.NewMemory()
	rec := store.NewRecorder()
	return schedule.NewStore(mem, rec, clock), mem, rec
}

func upsert(id string, day engine.DayKey, start, end string) schedule.UpsertInput {
	return schedule.UpsertInput{
		SchedulableID: engine.SchedulableID(id),
		Date:          day,
		StartTime:     start,
		EndTime:       end,
		Location:      "downtown",
		DivisionID:    "laser",
		ActorID:       "mgr-1",
		ActorRole:     engine.RoleManager,
	}
}

// =============================================================================
// REPLACE-BY-KEY
// =============================================================================

func TestUpsert_SecondSaveReplacesNotAppends(t *testing.T) {
	// GIVEN: an existing 09:00-17:00 shift for (emp-1, March 10)
	// WHEN: saving 10:00-16:00 for the same key
	// THEN: one entry remains, with the new times and recomputed hours

	s, _, _ := newTestStore(midMonth)
	ctx := context.Background()
	day := engine.NewDayKey(2025, time.March, 10)

	first, err := s.Upsert(ctx, upsert("emp-1", day, "09:00", "17:00"))
	require.NoError(t, err)
	assert.True(t, first.ScheduledHours.Equal(decimal.NewFromInt(8)))

	second, err := s.Upsert(ctx, upsert("emp-1", day, "10:00", "16:00"))
	require.NoError(t, err)
	assert.True(t, second.ScheduledHours.Equal(decimal.NewFromInt(6)), "got %s", second.ScheduledHours)
	assert.Equal(t, first.ID, second.ID, "replace keeps a stable id")
	assert.Equal(t, first.CreatedAt, second.CreatedAt, "replace preserves CreatedAt")
	assert.Equal(t, int64(2), second.Version)

	entries, err := s.List(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, entries, 1, "same key must not append")
	assert.Equal(t, "10:00", entries[0].StartTime)
}

func TestUpsert_DistinctDaysAccumulate(t *testing.T) {
	s, _, _ := newTestStore(midMonth)
	ctx := context.Background()

	for dayNum := 10; dayNum <= 12; dayNum++ {
		_, err := s.Upsert(ctx, upsert("emp-1", engine.NewDayKey(2025, time.March, dayNum), "09:00", "17:00"))
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	total, err := s.Rollup(ctx, "emp-1", schedule.AllTime())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(24)), "got %s", total)
}

// =============================================================================
// VALIDATION AND RANGE
// =============================================================================

func TestUpsert_RejectsNonPositiveRange(t *testing.T) {
	// A zero-length or inverted range is rejected, not clamped into a
	// zero-hour entry.
	s, _, _ := newTestStore(midMonth)
	ctx := context.Background()
	day := engine.NewDayKey(2025, time.March, 10)

	_, err := s.Upsert(ctx, upsert("emp-1", day, "17:00", "09:00"))
	assert.ErrorIs(t, err, engine.ErrInvalidRange)

	_, err = s.Upsert(ctx, upsert("emp-1", day, "09:00", "09:00"))
	assert.ErrorIs(t, err, engine.ErrInvalidRange)

	entries, err := s.List(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected saves must not persist")
}

func TestUpsert_RequiresDivisionAndLocation(t *testing.T) {
	s, _, _ := newTestStore(midMonth)
	ctx := context.Background()
	day := engine.NewDayKey(2025, time.March, 10)

	in := upsert("emp-1", day, "09:00", "17:00")
	in.DivisionID = ""
	_, err := s.Upsert(ctx, in)
	assert.ErrorIs(t, err, engine.ErrValidation)

	in = upsert("emp-1", day, "09:00", "17:00")
	in.Location = ""
	_, err = s.Upsert(ctx, in)
	assert.ErrorIs(t, err, engine.ErrValidation)

	in = upsert("emp-1", day, "9am", "17:00")
	_, err = s.Upsert(ctx, in)
	assert.ErrorIs(t, err, engine.ErrValidation)
}

// =============================================================================
// LOCK GATING
// =============================================================================

func TestUpsert_LockedAfterCutoffForStaff(t *testing.T) {
	// GIVEN: the clock is past the 25th
	// WHEN: a manager saves a shift
	// THEN: the save is rejected with the lock error; admin still goes through

	s, _, _ := newTestStore(afterCutoff)
	ctx := context.Background()
	day := engine.NewDayKey(2025, time.March, 27)

	_, err := s.Upsert(ctx, upsert("emp-1", day, "09:00", "17:00"))
	assert.ErrorIs(t, err, engine.ErrLockedPeriod)

	in := upsert("emp-1", day, "09:00", "17:00")
	in.ActorRole = engine.RoleAdmin
	entry, err := s.Upsert(ctx, in)
	require.NoError(t, err)
	assert.True(t, entry.Locked, "entries written after the cutoff carry the locked marker")
}

func TestRemove_LockedAfterCutoff(t *testing.T) {
	s, _, _ := newTestStore(afterCutoff)
	err := s.Remove(context.Background(), "emp-1", engine.NewDayKey(2025, time.March, 10), engine.RoleStaff)
	assert.ErrorIs(t, err, engine.ErrLockedPeriod)
}

// =============================================================================
// REMOVE
// =============================================================================

func TestRemove_DeletesAndNotifies(t *testing.T) {
	s, _, rec := newTestStore(midMonth)
	ctx := context.Background()
	day := engine.NewDayKey(2025, time.March, 10)

	_, err := s.Upsert(ctx, upsert("emp-1", day, "09:00", "17:00"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "emp-1", day, engine.RoleManager))

	entries, err := s.List(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.True(t, rec.Hours["emp-1"].IsZero(), "sink hears the zeroed total")
}

func TestRemove_AbsentKeyIsNoOp(t *testing.T) {
	s, _, _ := newTestStore(midMonth)
	err := s.Remove(context.Background(), "emp-1", engine.NewDayKey(2025, time.March, 10), engine.RoleManager)
	assert.NoError(t, err, "removing a shift that does not exist must not fail")
}

// =============================================================================
// ROLLUP SCOPES
// =============================================================================

func TestRollup_AllTimeSpansMonths(t *testing.T) {
	// GIVEN: 8h in February and 8h in March
	// WHEN: rolling up all-time vs per-month
	// THEN: all-time sums both; month scope sums only its own

	s, _, _ := newTestStore(midMonth)
	ctx := context.Background()

	_, err := s.Upsert(ctx, upsert("emp-1", engine.NewDayKey(2025, time.February, 14), "09:00", "17:00"))
	require.NoError(t, err)
	_, err = s.Upsert(ctx, upsert("emp-1", engine.NewDayKey(2025, time.March, 10), "09:00", "17:00"))
	require.NoError(t, err)

	all, err := s.Rollup(ctx, "emp-1", schedule.AllTime())
	require.NoError(t, err)
	assert.True(t, all.Equal(decimal.NewFromInt(16)), "got %s", all)

	march, err := s.Rollup(ctx, "emp-1", schedule.ForMonth(engine.NewMonthKey(2025, time.March)))
	require.NoError(t, err)
	assert.True(t, march.Equal(decimal.NewFromInt(8)), "got %s", march)

	hours, err := s.ScheduledHours(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, hours.Equal(all), "ScheduledHours is the all-time rollup")
}

func TestRollup_UnknownEntityIsZero(t *testing.T) {
	s, _, _ := newTestStore(midMonth)
	total, err := s.Rollup(context.Background(), "nobody", schedule.AllTime())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

// =============================================================================
// SINK NOTIFICATIONS
// =============================================================================

func TestUpsert_NotifiesSinkWithFreshTotals(t *testing.T) {
	s, _, rec := newTestStore(midMonth)
	ctx := context.Background()

	_, err := s.Upsert(ctx, upsert("emp-1", engine.NewDayKey(2025, time.March, 10), "09:00", "17:00"))
	require.NoError(t, err)
	assert.True(t, rec.Hours["emp-1"].Equal(decimal.NewFromInt(8)))
	assert.Len(t, rec.Schedules["emp-1"], 1)

	// Replacing the same key refreshes, it does not double-count.
	_, err = s.Upsert(ctx, upsert("emp-1", engine.NewDayKey(2025, time.March, 10), "10:00", "16:00"))
	require.NoError(t, err)
	assert.True(t, rec.Hours["emp-1"].Equal(decimal.NewFromInt(6)), "got %s", rec.Hours["emp-1"])
	assert.Len(t, rec.Schedules["emp-1"], 1)
}

// =============================================================================
// OPTIMISTIC VERSIONING
// =============================================================================

func TestUpsert_VersionConflict(t *testing.T) {
	// GIVEN: a shift at version 1
	// WHEN: writing with a stale expected version
	// THEN: conflict; the right expected version goes through

	s, _, _ := newTestStore(midMonth)
	ctx := context.Background()
	day := engine.NewDayKey(2025, time.March, 10)

	first, err := s.Upsert(ctx, upsert("emp-1", day, "09:00", "17:00"))
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Version)

	stale := upsert("emp-1", day, "10:00", "16:00")
	stale.ExpectedVersion = 99
	_, err = s.Upsert(ctx, stale)
	assert.ErrorIs(t, err, engine.ErrConflict)

	fresh := upsert("emp-1", day, "10:00", "16:00")
	fresh.ExpectedVersion = first.Version
	updated, err := s.Upsert(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	// Zero expected version keeps last-write-wins.
	lww := upsert("emp-1", day, "11:00", "15:00")
	updated, err = s.Upsert(ctx, lww)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.Version)
}
