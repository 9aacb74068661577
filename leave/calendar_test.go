package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// DAY COUNTING
// =============================================================================

func TestCountDays_WorkingDays_FullWeek(t *testing.T) {
	// GIVEN: Monday through Friday (2023-09-04 to 2023-09-08)
	// WHEN: Counting working days
	// THEN: 5 days

	start := leave.NewDate(2023, time.September, 4)
	end := leave.NewDate(2023, time.September, 8)

	assert.Equal(t, 5, leave.CountDays(start, end, leave.CountWorkingDays))
}

func TestCountDays_WorkingDays_SpansWeekend(t *testing.T) {
	// GIVEN: Friday through Monday (2023-09-08 to 2023-09-11)
	// WHEN: Counting working days
	// THEN: Saturday and Sunday are skipped: 2 days

	start := leave.NewDate(2023, time.September, 8)
	end := leave.NewDate(2023, time.September, 11)

	assert.Equal(t, 2, leave.CountDays(start, end, leave.CountWorkingDays))
}

func TestCountDays_WorkingDays_WeekendOnly(t *testing.T) {
	// GIVEN: Saturday and Sunday only
	// WHEN: Counting working days
	// THEN: 0 days

	start := leave.NewDate(2023, time.September, 9)
	end := leave.NewDate(2023, time.September, 10)

	assert.Equal(t, 0, leave.CountDays(start, end, leave.CountWorkingDays))
}

func TestCountDays_AllDays_SpansWeekend(t *testing.T) {
	// GIVEN: Friday through Monday
	// WHEN: Counting all calendar days
	// THEN: 4 days, weekend included

	start := leave.NewDate(2023, time.September, 8)
	end := leave.NewDate(2023, time.September, 11)

	assert.Equal(t, 4, leave.CountDays(start, end, leave.CountAllDays))
}

func TestCountDays_SingleDay(t *testing.T) {
	// A one-day range counts as 1 under both policies (when it's a weekday).
	d := leave.NewDate(2023, time.September, 6) // Wednesday

	assert.Equal(t, 1, leave.CountDays(d, d, leave.CountWorkingDays))
	assert.Equal(t, 1, leave.CountDays(d, d, leave.CountAllDays))
}

func TestCountDays_InvertedRange_Zero(t *testing.T) {
	// GIVEN: start after end
	// WHEN: Counting days
	// THEN: 0 under both policies, no panic

	start := leave.NewDate(2023, time.September, 11)
	end := leave.NewDate(2023, time.September, 8)

	assert.Equal(t, 0, leave.CountDays(start, end, leave.CountWorkingDays))
	assert.Equal(t, 0, leave.CountDays(start, end, leave.CountAllDays))
}

func TestCountDays_AllDays_FullYear(t *testing.T) {
	start := leave.NewDate(2023, time.January, 1)
	end := leave.NewDate(2023, time.December, 31)

	assert.Equal(t, 365, leave.CountDays(start, end, leave.CountAllDays))
}

// =============================================================================
// DATE HELPERS
// =============================================================================

func TestParseDate_Valid(t *testing.T) {
	d, err := leave.ParseDate("2023-09-15")
	require.NoError(t, err)
	assert.Equal(t, 2023, d.Year())
	assert.Equal(t, time.September, d.Month())
	assert.Equal(t, 15, d.Day())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := leave.ParseDate("15/09/2023")
	assert.Error(t, err)
}

func TestDate_EndOfMonth(t *testing.T) {
	assert.Equal(t, leave.NewDate(2023, time.February, 28), leave.NewDate(2023, time.February, 10).EndOfMonth())
	assert.Equal(t, leave.NewDate(2024, time.February, 29), leave.NewDate(2024, time.February, 10).EndOfMonth())
	assert.Equal(t, leave.NewDate(2023, time.December, 31), leave.NewDate(2023, time.December, 1).EndOfMonth())
}

func TestDate_AddMonths_EndOfMonthNormalization(t *testing.T) {
	// time.AddDate semantics: Aug 31 + 1 month lands on Oct 1.
	d := leave.NewDate(2023, time.August, 31).AddMonths(1)
	assert.Equal(t, leave.NewDate(2023, time.October, 1), d)
}

func TestDate_IsWeekend(t *testing.T) {
	assert.True(t, leave.NewDate(2023, time.September, 9).IsWeekend())   // Saturday
	assert.True(t, leave.NewDate(2023, time.September, 10).IsWeekend())  // Sunday
	assert.False(t, leave.NewDate(2023, time.September, 11).IsWeekend()) // Monday
}

func TestMaxDate(t *testing.T) {
	a := leave.NewDate(2023, time.March, 1)
	b := leave.NewDate(2023, time.March, 2)

	assert.Equal(t, b, leave.MaxDate(a, b))
	assert.Equal(t, b, leave.MaxDate(b, a))
	assert.Equal(t, a, leave.MaxDate(a, a))
}

func TestDate_String(t *testing.T) {
	assert.Equal(t, "2023-09-15", leave.NewDate(2023, time.September, 15).String())
}
