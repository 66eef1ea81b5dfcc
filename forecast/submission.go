/*
submission.go - Monthly submission workflow

PURPOSE:
  Tracks Draft -> Submitted per (schedulable, month), gated by the lock
  policy. There is no Submitted -> Draft transition: resubmission simply
  re-stamps the same record. Submitted inputs stay editable for the
  privileged role (and re-derivable via the planner); for everyone else
  the UI treats them as read-only.

DURABILITY:
  Every submission is persisted through the repository AND pushed to the
  sink so the hosting application can cache it; a reload must not lose
  submitted state.
*/
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/chantela-crypto/MGMT-sub003/engine"
)

// Workflow owns the submission state machine.
type Workflow struct {
	Projections engine.ProjectionRepository
	Sink        engine.ScheduleSink
	Clock       engine.Clock
}

func NewWorkflow(projections engine.ProjectionRepository, sink engine.ScheduleSink, clock engine.Clock) *Workflow {
	if sink == nil {
		sink = engine.NopSink{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &Workflow{Projections: projections, Sink: sink, Clock: clock}
}

// Submit flips the keyed projection to Submitted, stamping SubmittedAt and
// SubmittedBy. Submitting an already-submitted record re-stamps it without
// creating a duplicate.
//
// Errors: NotFoundError when no projection exists for the key,
// LockedPeriodError when the window is closed for a non-privileged role.
func (w *Workflow) Submit(ctx context.Context, id engine.SchedulableID, month engine.MonthKey, actorID string, role engine.Role) (*engine.RevenueProjection, error) {
	now := w.Clock()
	if engine.Locked(now, role) {
		return nil, &engine.LockedPeriodError{Role: role, At: now}
	}

	record, err := w.Projections.GetProjection(ctx, id, month)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &engine.NotFoundError{Kind: "projection", Key: fmt.Sprintf("%s/%s", id, month)}
	}

	record.IsSubmitted = true
	record.SubmittedAt = &now
	record.SubmittedBy = actorID
	record.Version++

	if err := w.Projections.PutProjection(ctx, *record); err != nil {
		return nil, err
	}
	if err := w.Sink.OnProjection(ctx, *record); err != nil {
		return nil, err
	}
	return record, nil
}
