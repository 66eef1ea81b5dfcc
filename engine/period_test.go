package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantela-crypto/MGMT-sub003/engine"
)

func TestMonthKey_PrevWrapsYear(t *testing.T) {
	// GIVEN: January 2025
	// WHEN: stepping back one month
	// THEN: December 2024

	jan := engine.NewMonthKey(2025, time.January)
	assert.Equal(t, engine.NewMonthKey(2024, time.December), jan.Prev())

	// Mid-year months do not wrap.
	assert.Equal(t, engine.NewMonthKey(2025, time.June), engine.NewMonthKey(2025, time.July).Prev())
}

func TestMonthKey_PrevNWrapsYear(t *testing.T) {
	// Two months before February lands in the previous year.
	feb := engine.NewMonthKey(2025, time.February)
	assert.Equal(t, engine.NewMonthKey(2024, time.December), feb.PrevN(2))

	assert.Equal(t, feb, feb.PrevN(0))
	assert.Equal(t, engine.NewMonthKey(2024, time.February), feb.PrevN(12))
}

func TestMonthKey_NextWrapsYear(t *testing.T) {
	dec := engine.NewMonthKey(2024, time.December)
	assert.Equal(t, engine.NewMonthKey(2025, time.January), dec.Next())
}

func TestMonthKey_ParseAndString(t *testing.T) {
	m, err := engine.ParseMonthKey("2025-03")
	require.NoError(t, err)
	assert.Equal(t, engine.NewMonthKey(2025, time.March), m)
	assert.Equal(t, "2025-03", m.String())

	_, err = engine.ParseMonthKey("2025-13")
	assert.Error(t, err)
	_, err = engine.ParseMonthKey("March 2025")
	assert.Error(t, err)
}

func TestMonthKey_Bounds(t *testing.T) {
	m := engine.NewMonthKey(2025, time.February)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), m.Start())
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), m.End())

	assert.True(t, m.Contains(time.Date(2025, time.February, 14, 12, 0, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDayKey_ParseAndMonth(t *testing.T) {
	d, err := engine.ParseDayKey("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, engine.NewDayKey(2025, time.March, 10), d)
	assert.Equal(t, "2025-03-10", d.String())
	assert.Equal(t, engine.NewMonthKey(2025, time.March), d.MonthKey())

	_, err = engine.ParseDayKey("2025-02-30")
	assert.Error(t, err)
}

func TestDayKey_Before(t *testing.T) {
	a := engine.NewDayKey(2025, time.March, 10)
	b := engine.NewDayKey(2025, time.March, 11)
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}
