/*
accrual.go - Annual-leave accrual calculation

PURPOSE:
  Computes how many annual-leave days an employee has earned as of a
  target date. Accrual is monthly: each fully completed calendar month
  after probation ends earns AccrualRate days (default 1.75).

FULL-MONTH RULE:
  A month counts only once its last calendar day is strictly before
  asOf. The month in which probation ends is therefore never counted
  as a full month, and the month containing asOf has not yet completed.

  Example: hired 2023-01-01, probation ends 2023-07-01.
    asOf 2023-09-15 -> July is the probation month (partial), August is
    the first full month, September is still running: 1 * 1.75 = 1.75.

PRECEDENCE:
  1. Manual override on the employee wins unconditionally.
  2. No hire date -> 0.
  3. Before probation end -> 0.
  4. Otherwise full months * rate.

Results are decimal with two fractional digits; decimal arithmetic
throughout so repeated monthly accumulation never drifts.
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// AccruedDays returns the employee's entitled annual-leave days as of
// asOf, at the given monthly rate. Pure: no store access, no clock.
func AccruedDays(e *Employee, rate decimal.Decimal, asOf Date) decimal.Decimal {
	if e.ManualAnnualBalance != nil {
		return *e.ManualAnnualBalance
	}
	if e.HireDate.IsZero() {
		return decimal.Zero
	}

	probationEnd := e.ProbationEnd()
	if asOf.Before(probationEnd) {
		return decimal.Zero
	}

	months := fullMonthsCompleted(probationEnd, asOf)
	return decimal.NewFromInt(int64(months)).Mul(rate).Round(2)
}

// AccruedDaysForType resolves the rate from the leave type, falling back
// to DefaultAccrualRate when unset.
func AccruedDaysForType(e *Employee, lt *LeaveTypeDef, asOf Date) decimal.Decimal {
	return AccruedDays(e, lt.Rate(), asOf)
}

// fullMonthsCompleted counts calendar months after the month in which
// probation ends whose last day falls strictly before asOf. The probation
// month itself never counts, even when probation ends on its first day.
func fullMonthsCompleted(probationEnd, asOf Date) int {
	months := 0
	for cur := probationEnd.StartOfMonth().AddMonths(1); cur.BeforeOrEqual(asOf); cur = cur.AddMonths(1) {
		if cur.EndOfMonth().Before(asOf) {
			months++
		}
	}
	return months
}
