package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantela-crypto/MGMT-sub003/engine"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"23:59", 1439, false},
		{"9:30", 570, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"0900", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tc := range cases {
		got, err := engine.ParseClock(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.minutes, got, "input %q", tc.in)
	}
}

func TestShiftHours_FullPrecision(t *testing.T) {
	// GIVEN: a standard 09:00-17:00 day
	// WHEN: computing calendar shift hours
	// THEN: the full 8 hours come back, no rounding

	h, err := engine.ShiftHours("09:00", "17:00")
	require.NoError(t, err)
	assert.True(t, h.Equal(decimal.NewFromInt(8)), "got %s", h)

	// Fractional durations keep their precision under the calendar policy.
	h, err = engine.ShiftHours("09:00", "17:20")
	require.NoError(t, err)
	want := decimal.NewFromInt(25).Div(decimal.NewFromInt(3)) // 8h20m
	assert.True(t, h.Equal(want), "got %s want %s", h, want)
}

func TestShiftHours_NegativeClampsToZero(t *testing.T) {
	// GIVEN: an end time before the start (overnight wrap entered on one day)
	// WHEN: computing shift hours
	// THEN: the duration clamps to zero rather than going negative

	h, err := engine.ShiftHours("22:00", "06:00")
	require.NoError(t, err)
	assert.True(t, h.IsZero(), "got %s", h)

	// Equal start and end also clamp.
	h, err = engine.ShiftHours("09:00", "09:00")
	require.NoError(t, err)
	assert.True(t, h.IsZero(), "got %s", h)
}

func TestWeeklyShiftHours_RoundsToHalfHour(t *testing.T) {
	cases := []struct {
		start, end string
		want       string
	}{
		{"09:00", "17:00", "8"},   // exact
		{"09:00", "17:20", "8.5"}, // 8.33 rounds up
		{"09:00", "17:10", "8"},   // 8.17 rounds down
		{"09:15", "17:00", "8"},   // 7.75 rounds up to 8
		{"17:00", "09:00", "0"},   // clamp applies before rounding
	}
	for _, tc := range cases {
		got, err := engine.WeeklyShiftHours(tc.start, tc.end)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"%s-%s: got %s want %s", tc.start, tc.end, got, tc.want)
	}
}

func TestMonthlyEstimate(t *testing.T) {
	// GIVEN: a 46-hour recurring week
	// WHEN: converting to a monthly estimate
	// THEN: 46 * 4.33 = 199.18 rounds to 199 whole hours

	got := engine.MonthlyEstimate(decimal.NewFromInt(46))
	assert.True(t, got.Equal(decimal.NewFromInt(199)), "got %s", got)

	got = engine.MonthlyEstimate(decimal.NewFromInt(40))
	assert.True(t, got.Equal(decimal.NewFromInt(173)), "got %s", got)
}
