package forecast_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantela-crypto/MGMT-sub003/engine"
	"github.com/chantela-crypto/MGMT-sub003/engine/store"
	"github.com/chantela-crypto/MGMT-sub003/forecast"
	"github.com/chantela-crypto/MGMT-sub003/schedule"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func midMonth() time.Time {
	return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func afterCutoff() time.Time {
	return time.Date(2025, time.March, 26, 0, 0, 0, 0, time.UTC)
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fixture struct {
	mem     *store.Memory
	rec     *store.Recorder
	shifts  *schedule.Store
	planner *forecast.Planner
}

func newFixture(clock engine.Clock) *fixture {
	mem := store.NewMemory()
	rec := store.NewRecorder()
	shifts := schedule.NewStore(mem, rec, clock)
	return &fixture{
		mem:     mem,
		rec:     rec,
		shifts:  shifts,
		planner: forecast.NewPlanner(mem, mem, mem, shifts, rec, clock),
	}
}

func (f *fixture) addEmployee(id string) {
	f.mem.SaveEmployee(engine.Employee{
		ID:         engine.SchedulableID(id),
		Name:       "Test Employee",
		DivisionID: "laser",
	})
}

func (f *fixture) addUnit(id string) {
	f.mem.SaveUnit(engine.HormoneUnit{UnitID: engine.SchedulableID(id)})
}

func inputs(hours, prod, ssph, retail int64) engine.ProjectionInputs {
	return engine.ProjectionInputs{
		ScheduledHours:        d(hours),
		EstimatedProductivity: d(prod),
		ServiceSalesPerHour:   d(ssph),
		RetailPercentage:      d(retail),
	}
}

// =============================================================================
// AUTO-SEEDING
// =============================================================================

func TestGet_SeedsEmployeeDraftWithoutPersisting(t *testing.T) {
	// GIVEN: an employee with shifts but no stored projection
	// WHEN: reading the month
	// THEN: a seeded draft comes back (Version 0) and nothing is stored

	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	ctx := context.Background()

	_, err := f.shifts.Upsert(ctx, schedule.UpsertInput{
		SchedulableID: "emp-1",
		Date:          engine.NewDayKey(2025, time.March, 10),
		StartTime:     "09:00",
		EndTime:       "17:00",
		Location:      "downtown",
		DivisionID:    "laser",
		ActorRole:     engine.RoleManager,
	})
	require.NoError(t, err)

	month := engine.NewMonthKey(2025, time.March)
	p, err := f.planner.Get(ctx, "emp-1", month)
	require.NoError(t, err)

	assert.Equal(t, int64(0), p.Version, "seeded drafts are not persisted")
	assert.True(t, p.Inputs.ScheduledHours.Equal(d(8)), "hours come from the rollup, got %s", p.Inputs.ScheduledHours)
	assert.True(t, p.Inputs.EstimatedProductivity.Equal(d(85)), "no KPI history -> fallback")
	assert.False(t, p.IsSubmitted)

	stored, err := f.mem.GetProjection(ctx, "emp-1", month)
	require.NoError(t, err)
	assert.Nil(t, stored, "Get must not write")
}

func TestGet_SeedsFromPriorMonthKPI(t *testing.T) {
	// GIVEN: a February KPI record at 88% productivity, $162/h
	// WHEN: seeding March
	// THEN: productivity is 89 (bumped), sales per hour carries over

	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	f.mem.SetKPI(engine.EmployeeKPI{
		EmployeeID:          "emp-1",
		Month:               engine.NewMonthKey(2025, time.February),
		ProductivityRate:    d(88),
		ServiceSalesPerHour: d(162),
	})

	p, err := f.planner.Get(context.Background(), "emp-1", engine.NewMonthKey(2025, time.March))
	require.NoError(t, err)
	assert.True(t, p.Inputs.EstimatedProductivity.Equal(d(89)), "got %s", p.Inputs.EstimatedProductivity)
	assert.True(t, p.Inputs.ServiceSalesPerHour.Equal(d(162)))
}

func TestGet_FallsBackTwoMonths(t *testing.T) {
	// No February record; January's is the trailing fallback. Seeding a
	// January projection reaches December of the prior year.
	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	f.mem.SetKPI(engine.EmployeeKPI{
		EmployeeID:          "emp-1",
		Month:               engine.NewMonthKey(2025, time.January),
		ProductivityRate:    d(70),
		ServiceSalesPerHour: d(140),
	})

	p, err := f.planner.Get(context.Background(), "emp-1", engine.NewMonthKey(2025, time.March))
	require.NoError(t, err)
	assert.True(t, p.Inputs.EstimatedProductivity.Equal(d(71)), "got %s", p.Inputs.EstimatedProductivity)

	f.mem.SetKPI(engine.EmployeeKPI{
		EmployeeID:          "emp-1",
		Month:               engine.NewMonthKey(2024, time.December),
		ProductivityRate:    d(95),
		ServiceSalesPerHour: d(170),
	})
	p, err = f.planner.Get(context.Background(), "emp-1", engine.NewMonthKey(2025, time.January))
	require.NoError(t, err)
	assert.True(t, p.Inputs.EstimatedProductivity.Equal(d(96)), "year wrap, got %s", p.Inputs.EstimatedProductivity)
}

func TestGet_UnitUsesFixedSeeds(t *testing.T) {
	f := newFixture(midMonth)
	f.addUnit("unit-h1")

	p, err := f.planner.Get(context.Background(), "unit-h1", engine.NewMonthKey(2025, time.March))
	require.NoError(t, err)
	assert.True(t, p.Inputs.ScheduledHours.Equal(d(160)))
	assert.True(t, p.Inputs.EstimatedProductivity.Equal(d(85)))
	assert.True(t, p.Inputs.ServiceSalesPerHour.Equal(d(180)))
	assert.True(t, p.Inputs.RetailPercentage.Equal(d(25)))
	// Derived fields are already computed on the draft.
	assert.True(t, p.Derived.EffectiveHours.Equal(d(136)), "got %s", p.Derived.EffectiveHours)
}

func TestGet_UnknownSchedulable(t *testing.T) {
	f := newFixture(midMonth)
	_, err := f.planner.Get(context.Background(), "ghost", engine.NewMonthKey(2025, time.March))
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

// =============================================================================
// SET INPUTS
// =============================================================================

func TestSetInputs_CreatesAndDerives(t *testing.T) {
	// GIVEN: no stored projection
	// WHEN: writing the four inputs
	// THEN: the record persists with all derived fields recomputed

	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	ctx := context.Background()
	month := engine.NewMonthKey(2025, time.March)

	p, err := f.planner.SetInputs(ctx, "emp-1", month, inputs(160, 85, 150, 20), "mgr-1", engine.RoleManager, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Version)
	assert.True(t, p.Derived.TotalRevenueGoal.Equal(d(24480)), "got %s", p.Derived.TotalRevenueGoal)
	assert.Equal(t, "mgr-1", p.UpdatedBy)

	stored, err := f.mem.GetProjection(ctx, "emp-1", month)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Derived.TotalRevenueGoal.Equal(d(24480)))

	// The sink heard the new record.
	require.Len(t, f.rec.Projections, 1)
	assert.True(t, f.rec.Projections[0].Derived.TotalRevenueGoal.Equal(d(24480)))
}

func TestSetInputs_ChangeRecomputesEverything(t *testing.T) {
	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	ctx := context.Background()
	month := engine.NewMonthKey(2025, time.March)

	_, err := f.planner.SetInputs(ctx, "emp-1", month, inputs(160, 85, 150, 20), "mgr-1", engine.RoleManager, 0)
	require.NoError(t, err)

	p, err := f.planner.SetInputs(ctx, "emp-1", month, inputs(80, 85, 150, 20), "mgr-1", engine.RoleManager, 0)
	require.NoError(t, err)
	assert.True(t, p.Derived.EffectiveHours.Equal(d(68)), "got %s", p.Derived.EffectiveHours)
	assert.True(t, p.Derived.ProjectedServiceRevenue.Equal(d(10200)))
	assert.True(t, p.Derived.ProjectedRetailRevenue.Equal(d(2040)))
	assert.True(t, p.Derived.TotalRevenueGoal.Equal(d(12240)))
	assert.Equal(t, int64(2), p.Version)
}

func TestSetInputs_PreservesSubmissionState(t *testing.T) {
	// Editing a submitted projection keeps its submitted stamp.
	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	ctx := context.Background()
	month := engine.NewMonthKey(2025, time.March)
	workflow := forecast.NewWorkflow(f.mem, f.rec, midMonth)

	_, err := f.planner.SetInputs(ctx, "emp-1", month, inputs(160, 85, 150, 20), "mgr-1", engine.RoleManager, 0)
	require.NoError(t, err)
	_, err = workflow.Submit(ctx, "emp-1", month, "mgr-1", engine.RoleManager)
	require.NoError(t, err)

	p, err := f.planner.SetInputs(ctx, "emp-1", month, inputs(150, 85, 150, 20), "mgr-2", engine.RoleManager, 0)
	require.NoError(t, err)
	assert.True(t, p.IsSubmitted, "edit must not un-submit")
	assert.Equal(t, "mgr-1", p.SubmittedBy)
	require.NotNil(t, p.SubmittedAt)
}

func TestSetInputs_LockedAfterCutoff(t *testing.T) {
	f := newFixture(afterCutoff)
	f.addEmployee("emp-1")
	month := engine.NewMonthKey(2025, time.March)

	_, err := f.planner.SetInputs(context.Background(), "emp-1", month, inputs(160, 85, 150, 20), "mgr-1", engine.RoleManager, 0)
	assert.ErrorIs(t, err, engine.ErrLockedPeriod)

	// Admin passes.
	_, err = f.planner.SetInputs(context.Background(), "emp-1", month, inputs(160, 85, 150, 20), "adm-1", engine.RoleAdmin, 0)
	assert.NoError(t, err)
}

func TestSetInputs_VersionConflict(t *testing.T) {
	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	ctx := context.Background()
	month := engine.NewMonthKey(2025, time.March)

	first, err := f.planner.SetInputs(ctx, "emp-1", month, inputs(160, 85, 150, 20), "mgr-1", engine.RoleManager, 0)
	require.NoError(t, err)

	_, err = f.planner.SetInputs(ctx, "emp-1", month, inputs(150, 85, 150, 20), "mgr-2", engine.RoleManager, 99)
	assert.ErrorIs(t, err, engine.ErrConflict)

	p, err := f.planner.SetInputs(ctx, "emp-1", month, inputs(150, 85, 150, 20), "mgr-2", engine.RoleManager, first.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.Version)
}

func TestSetInputs_UnknownSchedulable(t *testing.T) {
	f := newFixture(midMonth)
	_, err := f.planner.SetInputs(context.Background(), "ghost", engine.NewMonthKey(2025, time.March), inputs(160, 85, 150, 20), "mgr-1", engine.RoleManager, 0)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}
