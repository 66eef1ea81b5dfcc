/*
projection.go - The derived-hours/revenue cascade

PURPOSE:
  Pure derivation of effective hours and revenue fields from four inputs:

    effectiveHours          = round(scheduledHours * productivity / 100)
    projectedServiceRevenue = effectiveHours * serviceSalesPerHour
    projectedRetailRevenue  = round(serviceRevenue * retailPct / 100)
    totalRevenueGoal        = serviceRevenue + retailRevenue

KEY INVARIANT:
  Derived fields are ALWAYS a pure function of the four inputs. Any change
  to one input recomputes all four derived fields atomically via Derive();
  nothing ever patches a single derived field in place. A stale derived
  value is a correctness bug, not a display glitch.

SEEDING:
  When no projection exists yet for a (schedulable, month) key, inputs are
  seeded from the prior month's KPI record (employees) or fixed defaults
  (hormone units, which have no KPI history). See SeedDefaults.

SEE ALSO:
  - forecast/planner.go: persistence and auto-seed orchestration
  - period.go: prior-month wrapping
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// INPUTS AND DERIVED FIELDS
// =============================================================================

// ProjectionInputs are the four editable fields of a revenue projection.
type ProjectionInputs struct {
	ScheduledHours        decimal.Decimal
	EstimatedProductivity decimal.Decimal // percent, 0-100
	ServiceSalesPerHour   decimal.Decimal // currency
	RetailPercentage      decimal.Decimal // percent of service revenue
}

// ProjectionDerived are the stored fields computed from ProjectionInputs.
// Never set these independently of an input change.
type ProjectionDerived struct {
	EffectiveHours          decimal.Decimal
	ProjectedServiceRevenue decimal.Decimal
	ProjectedRetailRevenue  decimal.Decimal
	TotalRevenueGoal        decimal.Decimal
}

// Derive recomputes all four derived fields from the inputs. Idempotent:
// the same inputs always produce identical outputs.
func Derive(in ProjectionInputs) ProjectionDerived {
	effective := in.ScheduledHours.Mul(in.EstimatedProductivity).Div(hundred).Round(0)
	service := effective.Mul(in.ServiceSalesPerHour)
	retail := service.Mul(in.RetailPercentage).Div(hundred).Round(0)

	return ProjectionDerived{
		EffectiveHours:          effective,
		ProjectedServiceRevenue: service,
		ProjectedRetailRevenue:  retail,
		TotalRevenueGoal:        service.Add(retail),
	}
}

// =============================================================================
// REVENUE PROJECTION - keyed by (schedulable, month)
// =============================================================================

// RevenueProjection is a per-entity, per-month forecast. Created on first
// edit for a key, updated via full replace-by-key, never deleted (only
// re-submitted).
type RevenueProjection struct {
	SchedulableID SchedulableID
	Month         MonthKey

	Inputs  ProjectionInputs
	Derived ProjectionDerived

	// Workflow fields (see forecast/submission.go)
	IsSubmitted bool
	SubmittedAt *time.Time
	SubmittedBy string

	UpdatedBy string
	UpdatedAt time.Time

	// Version is a monotonic counter for optimistic upserts. Zero on a
	// seeded, never-persisted projection.
	Version int64
}

// Recompute rebuilds the derived fields from the current inputs.
func (p *RevenueProjection) Recompute() { p.Derived = Derive(p.Inputs) }

// =============================================================================
// SEED DEFAULTS - inputs for a period with no projection yet
// =============================================================================

// SeedDefaults holds the tunable constants used to seed a new projection.
// factory/ can load these from JSON; DefaultSeeds matches the source system.
type SeedDefaults struct {
	// Employee seeds. Productivity comes from the prior month's KPI plus
	// Bump, capped at Cap; these are the fallbacks when no KPI exists.
	Productivity        decimal.Decimal
	ProductivityBump    decimal.Decimal
	ProductivityCap     decimal.Decimal
	ServiceSalesPerHour decimal.Decimal
	RetailPercentage    decimal.Decimal

	// Hormone units have no KPI history: all four inputs are fixed.
	UnitHours               decimal.Decimal
	UnitProductivity        decimal.Decimal
	UnitServiceSalesPerHour decimal.Decimal
	UnitRetailPercentage    decimal.Decimal
}

// DefaultSeeds are the source system's constants.
func DefaultSeeds() SeedDefaults {
	return SeedDefaults{
		Productivity:        decimal.NewFromInt(85),
		ProductivityBump:    decimal.NewFromInt(1),
		ProductivityCap:     decimal.NewFromInt(100),
		ServiceSalesPerHour: decimal.NewFromInt(150),
		RetailPercentage:    decimal.NewFromInt(20),

		UnitHours:               decimal.NewFromInt(160),
		UnitProductivity:        decimal.NewFromInt(85),
		UnitServiceSalesPerHour: decimal.NewFromInt(180),
		UnitRetailPercentage:    decimal.NewFromInt(25),
	}
}

// SeedInputs builds the default inputs for a new (schedulable, month) key.
//
// Employees: scheduledHours is the externally supplied rollup; productivity
// is min(prior KPI productivityRate + bump, cap) or the fallback when prior
// is nil; serviceSalesPerHour comes from the prior KPI or the fallback;
// retailPercentage is fixed. Units ignore rollup and prior entirely.
func SeedInputs(kind Kind, rollup decimal.Decimal, prior *EmployeeKPI, def SeedDefaults) ProjectionInputs {
	if kind == KindUnit {
		return ProjectionInputs{
			ScheduledHours:        def.UnitHours,
			EstimatedProductivity: def.UnitProductivity,
			ServiceSalesPerHour:   def.UnitServiceSalesPerHour,
			RetailPercentage:      def.UnitRetailPercentage,
		}
	}

	productivity := def.Productivity
	salesPerHour := def.ServiceSalesPerHour
	if prior != nil {
		productivity = prior.ProductivityRate.Add(def.ProductivityBump)
		if productivity.GreaterThan(def.ProductivityCap) {
			productivity = def.ProductivityCap
		}
		salesPerHour = prior.ServiceSalesPerHour
	}

	return ProjectionInputs{
		ScheduledHours:        rollup,
		EstimatedProductivity: productivity,
		ServiceSalesPerHour:   salesPerHour,
		RetailPercentage:      def.RetailPercentage,
	}
}
