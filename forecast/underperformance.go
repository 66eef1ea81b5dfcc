/*
underperformance.go - Trailing-KPI warning flag

PURPOSE:
  Flags an employee from their most recent prior-month KPI record. The
  flag is computed on demand, never stored.

THE RULE:
  Flagged iff productivityRate < 80 OR retailPercentage < 10 OR
  attendanceRate < 90. No record means NOT flagged: absence of data is
  never treated as failure.
*/
package forecast

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chantela-crypto/MGMT-sub003/engine"
)

// Thresholds are the fixed limits an employee must stay above.
type Thresholds struct {
	Productivity decimal.Decimal
	Retail       decimal.Decimal
	Attendance   decimal.Decimal
}

// DefaultThresholds match the source system.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Productivity: decimal.NewFromInt(80),
		Retail:       decimal.NewFromInt(10),
		Attendance:   decimal.NewFromInt(90),
	}
}

// Assessment explains a flag for the UI.
type Assessment struct {
	EmployeeID engine.SchedulableID
	Month      engine.MonthKey // the KPI month consulted
	Flagged    bool
	Reasons    []string
	Record     *engine.EmployeeKPI
}

// Evaluator computes underperformance flags from KPI history.
type Evaluator struct {
	KPI        engine.KPIHistory
	Clock      engine.Clock
	Thresholds Thresholds
}

func NewEvaluator(kpi engine.KPIHistory, clock engine.Clock) *Evaluator {
	if clock == nil {
		clock = time.Now
	}
	return &Evaluator{KPI: kpi, Clock: clock, Thresholds: DefaultThresholds()}
}

// IsUnderperforming reports whether the employee's trailing KPI record
// falls below any threshold. No record => false.
func (e *Evaluator) IsUnderperforming(ctx context.Context, employeeID engine.SchedulableID) (bool, error) {
	assessment, err := e.Evaluate(ctx, employeeID)
	if err != nil {
		return false, err
	}
	return assessment.Flagged, nil
}

// Evaluate returns the flag plus which thresholds tripped.
func (e *Evaluator) Evaluate(ctx context.Context, employeeID engine.SchedulableID) (*Assessment, error) {
	current := engine.MonthOf(e.Clock())
	record, err := LatestKPI(ctx, e.KPI, employeeID, current)
	if err != nil {
		return nil, err
	}

	assessment := &Assessment{EmployeeID: employeeID, Month: current.Prev()}
	if record == nil {
		return assessment, nil
	}
	assessment.Month = record.Month
	assessment.Record = record

	if record.ProductivityRate.LessThan(e.Thresholds.Productivity) {
		assessment.Reasons = append(assessment.Reasons, "productivity below threshold")
	}
	if record.RetailPercentage.LessThan(e.Thresholds.Retail) {
		assessment.Reasons = append(assessment.Reasons, "retail percentage below threshold")
	}
	if record.AttendanceRate.LessThan(e.Thresholds.Attendance) {
		assessment.Reasons = append(assessment.Reasons, "attendance below threshold")
	}
	assessment.Flagged = len(assessment.Reasons) > 0
	return assessment, nil
}
