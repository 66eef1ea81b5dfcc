package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chantela-crypto/MGMT-sub003/engine"
)

// =============================================================================
// WEEKLY TEMPLATE - recurring schedules with the 0.5h rounding policy
// =============================================================================

// DaySlot is one weekday's recurring start/end. Empty strings mean off.
type DaySlot struct {
	StartTime string
	EndTime   string
}

func (d DaySlot) IsOff() bool { return d.StartTime == "" || d.EndTime == "" }

// WeeklyTemplate is a recurring weekly schedule, indexed by time.Weekday.
// Unlike calendar shifts, per-day hours round to the nearest half hour.
type WeeklyTemplate struct {
	Days [7]DaySlot
}

// Set assigns a weekday's slot.
func (t *WeeklyTemplate) Set(day time.Weekday, start, end string) {
	t.Days[day] = DaySlot{StartTime: start, EndTime: end}
}

// DayHours returns the weekday's duration under the weekly rounding policy.
// Off days are zero.
func (t *WeeklyTemplate) DayHours(day time.Weekday) (decimal.Decimal, error) {
	slot := t.Days[day]
	if slot.IsOff() {
		return decimal.Zero, nil
	}
	return engine.WeeklyShiftHours(slot.StartTime, slot.EndTime)
}

// WeeklyHours sums the seven days.
func (t *WeeklyTemplate) WeeklyHours() (decimal.Decimal, error) {
	total := decimal.Zero
	for day := time.Sunday; day <= time.Saturday; day++ {
		h, err := t.DayHours(day)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(h)
	}
	return total, nil
}

// MonthlyHours converts the weekly total into a monthly scheduled-hours
// estimate: round(weekly * 4.33). Feeds projection seeding as an
// alternative to the calendar rollup.
func (t *WeeklyTemplate) MonthlyHours() (decimal.Decimal, error) {
	weekly, err := t.WeeklyHours()
	if err != nil {
		return decimal.Zero, err
	}
	return engine.MonthlyEstimate(weekly), nil
}
