package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/leave-engine/leave"
)

var defaultRate = leave.MustDays("1.75")

func hiredOn(d leave.Date) *leave.Employee {
	return &leave.Employee{ID: "emp-1", Name: "Test", HireDate: d, Active: true}
}

func assertDays(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, leave.MustDays(want).Equal(got), "want %s days, got %s", want, got)
}

// =============================================================================
// ACCRUAL CALCULATION
// =============================================================================

func TestAccruedDays_FirstFullMonthAfterProbation(t *testing.T) {
	// GIVEN: Hired 2023-01-01, probation ends 2023-07-01
	// WHEN: Computing accrual as of 2023-09-15
	// THEN: July is the probation month, August is the only completed
	//       month, September is still running: 1 * 1.75 = 1.75

	e := hiredOn(leave.NewDate(2023, time.January, 1))

	got := leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.September, 15))
	assertDays(t, "1.75", got)
}

func TestAccruedDays_BeforeProbationEnd_Zero(t *testing.T) {
	// GIVEN: Hired 2023-01-01, probation ends 2023-07-01
	// WHEN: Computing accrual on 2023-06-30
	// THEN: Nothing accrued yet

	e := hiredOn(leave.NewDate(2023, time.January, 1))

	got := leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.June, 30))
	assertDays(t, "0", got)
}

func TestAccruedDays_OnProbationEnd_Zero(t *testing.T) {
	// The probation month itself never counts as a full month.
	e := hiredOn(leave.NewDate(2023, time.January, 1))

	got := leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.July, 1))
	assertDays(t, "0", got)
}

func TestAccruedDays_MonthCompletesOnlyStrictlyBefore(t *testing.T) {
	// August counts only once its last day (Aug 31) is strictly before asOf.
	e := hiredOn(leave.NewDate(2023, time.January, 1))

	assertDays(t, "0", leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.August, 31)))
	assertDays(t, "1.75", leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.September, 1)))
}

func TestAccruedDays_AccumulatesMonthly(t *testing.T) {
	e := hiredOn(leave.NewDate(2023, time.January, 1))

	assertDays(t, "3.5", leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.October, 2)))
	assertDays(t, "5.25", leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.November, 2)))
	assertDays(t, "7", leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.December, 2)))
}

func TestAccruedDays_NeverDecreasesOverTime(t *testing.T) {
	// Accrual as of a later date is never less than as of an earlier one.
	e := hiredOn(leave.NewDate(2023, time.January, 1))

	prev := decimal.Zero
	for asOf := leave.NewDate(2023, time.July, 1); asOf.Before(leave.NewDate(2025, time.January, 1)); asOf = asOf.AddDays(7) {
		got := leave.AccruedDays(e, defaultRate, asOf)
		assert.True(t, got.GreaterThanOrEqual(prev), "accrual dropped from %s to %s at %s", prev, got, asOf)
		prev = got
	}
}

func TestAccruedDays_NoHireDate_Zero(t *testing.T) {
	e := &leave.Employee{ID: "emp-1", Name: "No hire date", Active: true}

	got := leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.September, 15))
	assertDays(t, "0", got)
}

func TestAccruedDays_ManualOverride_Wins(t *testing.T) {
	// GIVEN: A manual balance of 12.5 days
	// WHEN: Computing accrual at any date, even pre-probation
	// THEN: The override is returned unconditionally

	manual := leave.MustDays("12.5")
	e := hiredOn(leave.NewDate(2023, time.January, 1))
	e.ManualAnnualBalance = &manual

	assertDays(t, "12.5", leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.February, 1)))
	assertDays(t, "12.5", leave.AccruedDays(e, defaultRate, leave.NewDate(2024, time.September, 15)))
}

func TestAccruedDays_ManualOverride_WithoutHireDate(t *testing.T) {
	// The override applies even when no hire date is recorded.
	manual := leave.MustDays("5")
	e := &leave.Employee{ID: "emp-1", ManualAnnualBalance: &manual, Active: true}

	assertDays(t, "5", leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.September, 15)))
}

func TestAccruedDays_ProbationOverride(t *testing.T) {
	// GIVEN: Hired 2023-01-01 with probation shortened to 2023-03-01
	// WHEN: Computing accrual as of 2023-06-15
	// THEN: March is the probation month; April and May completed: 3.50

	override := leave.NewDate(2023, time.March, 1)
	e := hiredOn(leave.NewDate(2023, time.January, 1))
	e.ProbationEndOverride = &override

	got := leave.AccruedDays(e, defaultRate, leave.NewDate(2023, time.June, 15))
	assertDays(t, "3.5", got)
}

func TestAccruedDaysForType_CustomRate(t *testing.T) {
	rate := leave.MustDays("2")
	lt := &leave.LeaveTypeDef{ID: "annual", Name: "Annual Leave", IsAccrual: true, AccrualRate: &rate}
	e := hiredOn(leave.NewDate(2023, time.January, 1))

	got := leave.AccruedDaysForType(e, lt, leave.NewDate(2023, time.October, 2))
	assertDays(t, "4", got)
}

func TestAccruedDaysForType_DefaultRateFallback(t *testing.T) {
	lt := &leave.LeaveTypeDef{ID: "annual", Name: "Annual Leave", IsAccrual: true}
	e := hiredOn(leave.NewDate(2023, time.January, 1))

	got := leave.AccruedDaysForType(e, lt, leave.NewDate(2023, time.September, 15))
	assertDays(t, "1.75", got)
}

// =============================================================================
// PROBATION
// =============================================================================

func TestProbationEnd_SixMonthsFromHire(t *testing.T) {
	e := hiredOn(leave.NewDate(2023, time.January, 15))
	assert.Equal(t, leave.NewDate(2023, time.July, 15), e.ProbationEnd())
}

func TestProbationEnd_OverrideWins(t *testing.T) {
	override := leave.NewDate(2023, time.February, 1)
	e := hiredOn(leave.NewDate(2023, time.January, 15))
	e.ProbationEndOverride = &override

	assert.Equal(t, override, e.ProbationEnd())
}

func TestProbationEnd_NoHireDate_Zero(t *testing.T) {
	e := &leave.Employee{ID: "emp-1"}
	assert.True(t, e.ProbationEnd().IsZero())
}
