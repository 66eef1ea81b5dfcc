package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH KEY - Projections and KPI records are keyed by calendar month
// =============================================================================

// MonthKey identifies a calendar month. Projections, KPI records and
// submission state are all keyed by (SchedulableID, MonthKey).
type MonthKey struct {
	Year  int
	Month time.Month
}

func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey{Year: year, Month: month}
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses "YYYY-MM".
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return MonthOf(t), nil
}

// Prev returns the month before this one. January wraps to December of the
// previous year.
func (m MonthKey) Prev() MonthKey {
	if m.Month == time.January {
		return MonthKey{Year: m.Year - 1, Month: time.December}
	}
	return MonthKey{Year: m.Year, Month: m.Month - 1}
}

// PrevN walks back n months, wrapping year boundaries as needed. Two months
// prior to February therefore lands on December of the previous year.
func (m MonthKey) PrevN(n int) MonthKey {
	out := m
	for i := 0; i < n; i++ {
		out = out.Prev()
	}
	return out
}

// Next returns the month after this one.
func (m MonthKey) Next() MonthKey {
	if m.Month == time.December {
		return MonthKey{Year: m.Year + 1, Month: time.January}
	}
	return MonthKey{Year: m.Year, Month: m.Month + 1}
}

// Start returns midnight on the first day of the month (UTC).
func (m MonthKey) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight on the last day of the month (UTC).
func (m MonthKey) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

// Contains reports whether t falls inside the month.
func (m MonthKey) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

func (m MonthKey) IsZero() bool { return m.Year == 0 && m.Month == 0 }

// String formats as "2006-01".
func (m MonthKey) String() string { return m.Start().Format("2006-01") }

// =============================================================================
// DAY KEY - Shifts are keyed by calendar day, no time zone
// =============================================================================

// DayKey identifies a calendar day without a time zone. Shift entries are
// keyed by (SchedulableID, DayKey).
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDayKey(year int, month time.Month, day int) DayKey {
	return DayKey{Year: year, Month: month, Day: day}
}

// DayOf returns the day containing t.
func DayOf(t time.Time) DayKey {
	return DayKey{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDayKey parses "YYYY-MM-DD".
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DayKey{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return DayOf(t), nil
}

// Time returns midnight on the day (UTC).
func (d DayKey) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// MonthKey returns the month containing the day.
func (d DayKey) MonthKey() MonthKey { return MonthKey{Year: d.Year, Month: d.Month} }

func (d DayKey) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

func (d DayKey) Before(other DayKey) bool { return d.Time().Before(other.Time()) }

// String formats as "2006-01-02".
func (d DayKey) String() string { return d.Time().Format("2006-01-02") }
