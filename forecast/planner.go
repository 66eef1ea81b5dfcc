/*
Package forecast implements monthly revenue projections.

PURPOSE:
  Persistence and seeding for RevenueProjection records, the monthly
  submission workflow, and the underperformance flag. The math lives in
  engine/projection.go; this package orchestrates repositories, KPI
  lookups and the callback sink around it.

AUTO-SEEDING:
  When no projection exists for a (schedulable, month) key, Get returns a
  seeded draft without persisting it (Version 0). Employees seed from the
  prior month's KPI record, falling back to two months prior and then to
  fixed defaults; hormone units always use fixed defaults. Prior-month
  math wraps year boundaries (see engine/period.go).

THE DERIVATION INVARIANT:
  SetInputs always rebuilds ALL derived fields via engine.Derive before
  persisting. Nothing here patches a single derived value.

SEE ALSO:
  - submission.go: Draft -> Submitted workflow
  - underperformance.go: trailing-KPI threshold flag
*/
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chantela-crypto/MGMT-sub003/engine"
)

// HoursSource supplies the externally rolled-up scheduled hours used to
// seed a new projection. schedule.Store satisfies this.
type HoursSource interface {
	ScheduledHours(ctx context.Context, id engine.SchedulableID) (decimal.Decimal, error)
}

// Planner owns projection reads and writes.
type Planner struct {
	Projections engine.ProjectionRepository
	Directory   engine.Directory
	KPI         engine.KPIHistory
	Hours       HoursSource
	Sink        engine.ScheduleSink
	Clock       engine.Clock
	Defaults    engine.SeedDefaults
}

func NewPlanner(
	projections engine.ProjectionRepository,
	directory engine.Directory,
	kpi engine.KPIHistory,
	hours HoursSource,
	sink engine.ScheduleSink,
	clock engine.Clock,
) *Planner {
	if sink == nil {
		sink = engine.NopSink{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &Planner{
		Projections: projections,
		Directory:   directory,
		KPI:         kpi,
		Hours:       hours,
		Sink:        sink,
		Clock:       clock,
		Defaults:    engine.DefaultSeeds(),
	}
}

// Get returns the stored projection for the key, or a seeded draft when
// none exists yet. Seeded drafts carry Version 0 and are not persisted
// until the first SetInputs.
func (p *Planner) Get(ctx context.Context, id engine.SchedulableID, month engine.MonthKey) (*engine.RevenueProjection, error) {
	stored, err := p.Projections.GetProjection(ctx, id, month)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}
	return p.seed(ctx, id, month)
}

// SetInputs replaces the four input fields and atomically recomputes every
// derived field before persisting. Creates the record on first edit.
//
// Errors: LockedPeriodError for non-privileged roles after the cutoff,
// NotFoundError when the schedulable is unknown, ConflictError when
// expectedVersion is set and stale.
func (p *Planner) SetInputs(
	ctx context.Context,
	id engine.SchedulableID,
	month engine.MonthKey,
	inputs engine.ProjectionInputs,
	actorID string,
	role engine.Role,
	expectedVersion int64,
) (*engine.RevenueProjection, error) {
	now := p.Clock()
	if engine.Locked(now, role) {
		return nil, &engine.LockedPeriodError{Role: role, At: now}
	}
	if _, err := p.kindOf(ctx, id); err != nil {
		return nil, err
	}

	existing, err := p.Projections.GetProjection(ctx, id, month)
	if err != nil {
		return nil, err
	}
	if expectedVersion > 0 && existing != nil && existing.Version != expectedVersion {
		return nil, &engine.ConflictError{SchedulableID: id, Expected: expectedVersion, Actual: existing.Version}
	}

	record := engine.RevenueProjection{
		SchedulableID: id,
		Month:         month,
		Inputs:        inputs,
		UpdatedBy:     actorID,
		UpdatedAt:     now,
		Version:       1,
	}
	if existing != nil {
		record.IsSubmitted = existing.IsSubmitted
		record.SubmittedAt = existing.SubmittedAt
		record.SubmittedBy = existing.SubmittedBy
		record.Version = existing.Version + 1
	}
	record.Recompute()

	if err := p.Projections.PutProjection(ctx, record); err != nil {
		return nil, err
	}
	if err := p.Sink.OnProjection(ctx, record); err != nil {
		return nil, err
	}
	return &record, nil
}

// seed builds the default draft for a period with no record yet.
func (p *Planner) seed(ctx context.Context, id engine.SchedulableID, month engine.MonthKey) (*engine.RevenueProjection, error) {
	kind, err := p.kindOf(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		rollup decimal.Decimal
		prior  *engine.EmployeeKPI
	)
	if kind == engine.KindEmployee {
		if p.Hours != nil {
			rollup, err = p.Hours.ScheduledHours(ctx, id)
			if err != nil {
				return nil, err
			}
		}
		prior, err = LatestKPI(ctx, p.KPI, id, month)
		if err != nil {
			return nil, err
		}
	}

	draft := engine.RevenueProjection{
		SchedulableID: id,
		Month:         month,
		Inputs:        engine.SeedInputs(kind, rollup, prior, p.Defaults),
	}
	draft.Recompute()
	return &draft, nil
}

// kindOf resolves whether the id is an employee or a hormone unit.
func (p *Planner) kindOf(ctx context.Context, id engine.SchedulableID) (engine.Kind, error) {
	if emp, err := p.Directory.GetEmployee(ctx, id); err != nil {
		return "", err
	} else if emp != nil {
		return engine.KindEmployee, nil
	}
	if unit, err := p.Directory.GetUnit(ctx, id); err != nil {
		return "", err
	} else if unit != nil {
		return engine.KindUnit, nil
	}
	return "", &engine.NotFoundError{Kind: "schedulable", Key: string(id)}
}

// LatestKPI returns the most recent trailing record for the month: the
// prior month's, else two months prior (wrapping year boundaries both
// times), else nil. Absence of data is not an error.
func LatestKPI(ctx context.Context, history engine.KPIHistory, id engine.SchedulableID, month engine.MonthKey) (*engine.EmployeeKPI, error) {
	if history == nil {
		return nil, nil
	}
	for _, back := range []engine.MonthKey{month.Prev(), month.PrevN(2)} {
		record, err := history.KPIFor(ctx, id, back)
		if err != nil {
			return nil, fmt.Errorf("kpi lookup for %s %s: %w", id, back, err)
		}
		if record != nil {
			return record, nil
		}
	}
	return nil, nil
}
