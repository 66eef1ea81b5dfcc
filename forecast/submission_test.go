package forecast_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantela-crypto/MGMT-sub003/engine"
	"github.com/chantela-crypto/MGMT-sub003/forecast"
)

func TestSubmit_StampsDraft(t *testing.T) {
	// GIVEN: a stored draft projection
	// WHEN: submitting it
	// THEN: it flips to Submitted with the actor and timestamp stamped

	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	ctx := context.Background()
	month := engine.NewMonthKey(2025, time.March)
	workflow := forecast.NewWorkflow(f.mem, f.rec, midMonth)

	_, err := f.planner.SetInputs(ctx, "emp-1", month, inputs(160, 85, 150, 20), "mgr-1", engine.RoleManager, 0)
	require.NoError(t, err)

	p, err := workflow.Submit(ctx, "emp-1", month, "mgr-1", engine.RoleManager)
	require.NoError(t, err)
	assert.True(t, p.IsSubmitted)
	assert.Equal(t, "mgr-1", p.SubmittedBy)
	require.NotNil(t, p.SubmittedAt)
	assert.Equal(t, midMonth(), *p.SubmittedAt)
	assert.Equal(t, int64(2), p.Version)
}

func TestSubmit_WithoutProjectionFails(t *testing.T) {
	// Submit requires an existing record; it never creates one.
	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	workflow := forecast.NewWorkflow(f.mem, f.rec, midMonth)

	_, err := workflow.Submit(context.Background(), "emp-1", engine.NewMonthKey(2025, time.March), "mgr-1", engine.RoleManager)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestSubmit_ResubmitRestampsSingleRecord(t *testing.T) {
	// GIVEN: an already-submitted projection
	// WHEN: submitting again with a different actor and a later clock
	// THEN: the same record is re-stamped; no duplicate appears

	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	ctx := context.Background()
	month := engine.NewMonthKey(2025, time.March)

	_, err := f.planner.SetInputs(ctx, "emp-1", month, inputs(160, 85, 150, 20), "mgr-1", engine.RoleManager, 0)
	require.NoError(t, err)

	first := forecast.NewWorkflow(f.mem, f.rec, midMonth)
	_, err = first.Submit(ctx, "emp-1", month, "mgr-1", engine.RoleManager)
	require.NoError(t, err)

	later := func() time.Time { return midMonth().Add(48 * time.Hour) }
	second := forecast.NewWorkflow(f.mem, f.rec, later)
	p, err := second.Submit(ctx, "emp-1", month, "mgr-2", engine.RoleManager)
	require.NoError(t, err)

	assert.True(t, p.IsSubmitted)
	assert.Equal(t, "mgr-2", p.SubmittedBy)
	assert.Equal(t, later(), *p.SubmittedAt)

	records, err := f.mem.ListProjections(ctx, month)
	require.NoError(t, err)
	assert.Len(t, records, 1, "resubmit must not duplicate")
}

func TestSubmit_LockedAfterCutoff(t *testing.T) {
	f := newFixture(midMonth)
	f.addEmployee("emp-1")
	ctx := context.Background()
	month := engine.NewMonthKey(2025, time.March)

	_, err := f.planner.SetInputs(ctx, "emp-1", month, inputs(160, 85, 150, 20), "mgr-1", engine.RoleManager, 0)
	require.NoError(t, err)

	workflow := forecast.NewWorkflow(f.mem, f.rec, afterCutoff)
	_, err = workflow.Submit(ctx, "emp-1", month, "mgr-1", engine.RoleManager)
	assert.ErrorIs(t, err, engine.ErrLockedPeriod)

	// Admin can still submit.
	p, err := workflow.Submit(ctx, "emp-1", month, "adm-1", engine.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, p.IsSubmitted)
}
