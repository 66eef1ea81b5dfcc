/*
clock.go - Wall-clock duration math

PURPOSE:
  Converts (start, end) "HH:MM" pairs into durations in hours. Two rounding
  policies exist side by side and both are load-bearing:

    ShiftHours:       ad-hoc calendar shifts keep full fractional precision
    WeeklyShiftHours: weekly recurring schedules round to the nearest 0.5h

  Callers choose which policy applies; the policies must never be merged.

NEGATIVE DURATIONS:
  An end time at or before the start time (e.g. an overnight wrap entered as
  22:00-06:00) clamps to ZERO hours. This is inherited source behavior, kept
  on purpose; overnight shifts are entered as two calendar days.

MONTHLY ESTIMATE:
  Weekly recurring totals convert to a monthly estimate with the standard
  4.33 weeks-per-month factor, rounded to the nearest whole hour.

SEE ALSO:
  - schedule/weekly.go: weekly templates built on WeeklyShiftHours
  - period.go: month keys
*/
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// WeeksPerMonth is the factor used to turn a weekly recurring total into a
// monthly scheduled-hours estimate.
var WeeksPerMonth = decimal.NewFromFloat(4.33)

var (
	minutesPerHour = decimal.NewFromInt(60)
	two            = decimal.NewFromInt(2)
)

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q: out of range", s)
	}
	return h*60 + m, nil
}

// ShiftHours returns end-start in hours with full fractional precision.
// Results at or below zero clamp to zero.
func ShiftHours(start, end string) (decimal.Decimal, error) {
	s, err := ParseClock(start)
	if err != nil {
		return decimal.Zero, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return decimal.Zero, err
	}
	if e <= s {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(int64(e - s)).Div(minutesPerHour), nil
}

// WeeklyShiftHours returns end-start in hours rounded to the nearest 0.5h.
// This is the weekly recurring-schedule policy; calendar shifts use
// ShiftHours instead.
func WeeklyShiftHours(start, end string) (decimal.Decimal, error) {
	h, err := ShiftHours(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundToHalfHour(h), nil
}

// RoundToHalfHour rounds to the nearest 0.5.
func RoundToHalfHour(hours decimal.Decimal) decimal.Decimal {
	return hours.Mul(two).Round(0).Div(two)
}

// MonthlyEstimate converts a weekly recurring total into a monthly
// scheduled-hours estimate: round(weekly * 4.33).
func MonthlyEstimate(weeklyHours decimal.Decimal) decimal.Decimal {
	return weeklyHours.Mul(WeeksPerMonth).Round(0)
}
