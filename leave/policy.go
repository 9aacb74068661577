/*
policy.go - Eligibility, gender restriction, and allocation policy

PURPOSE:
  The rules deciding who may take which leave, the default leave-type
  catalog, per-employee balance initialization, and the monthly accrual
  run that tops up annual-leave allocations.

GENDER RESTRICTION:
  A leave type named for one gender is permitted only to employees whose
  recorded gender matches (Maternity -> F, Paternity -> M). Every other
  type is unrestricted.

MONTHLY ACCRUAL:
  RunMonthlyAccrual recomputes each employee's total accrued days and,
  when the total exceeds the current allocation, appends a
  LeaveAllocation audit record and raises allocated to the new total.
  Allocated never decreases. Per-employee work is independent; each
  balance update still goes through the ledger's atomic path.
*/
package leave

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// DEFAULT CATALOG
// =============================================================================

// Well-known leave type names the policy layer keys on.
const (
	TypeAnnual    = "Annual Leave"
	TypeSick      = "Sick Leave"
	TypeStudy     = "Study Leave"
	TypePaternity = "Paternity Leave"
	TypeMaternity = "Maternity Leave"
)

// DefaultLeaveTypes returns the standard catalog. Annual leave is the
// only accrual-based type; the rest carry fixed yearly caps.
func DefaultLeaveTypes() []*LeaveTypeDef {
	capDays := func(s string) *decimal.Decimal { d := MustDays(s); return &d }
	rate := MustDays("1.75")

	return []*LeaveTypeDef{
		{
			ID:             "annual",
			Name:           TypeAnnual,
			Description:    "Annual vacation leave that accrues at 1.75 days per month",
			IsAccrual:      true,
			AccrualRate:    &rate,
			CountingPolicy: CountWorkingDays,
			Active:         true,
		},
		{
			ID:                    "sick",
			Name:                  TypeSick,
			Description:           "Medical leave for illness",
			MaxDaysPerYear:        capDays("7"),
			CountingPolicy:        CountWorkingDays,
			RequiresDocumentation: true,
			Active:                true,
		},
		{
			ID:                    "study",
			Name:                  TypeStudy,
			Description:           "Leave for educational purposes",
			MaxDaysPerYear:        capDays("3"),
			CountingPolicy:        CountWorkingDays,
			RequiresDocumentation: true,
			Active:                true,
		},
		{
			ID:                    "paternity",
			Name:                  TypePaternity,
			Description:           "Leave for new fathers",
			MaxDaysPerYear:        capDays("14"),
			CountingPolicy:        CountAllDays,
			RequiresDocumentation: true,
			Active:                true,
		},
		{
			ID:                    "maternity",
			Name:                  TypeMaternity,
			Description:           "Leave for new mothers",
			MaxDaysPerYear:        capDays("90"),
			CountingPolicy:        CountAllDays,
			RequiresDocumentation: true,
			Active:                true,
		},
	}
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// IsEligible reports whether the employee is past probation as of the
// given date. Employees without a hire date are never eligible.
func IsEligible(e *Employee, asOf Date) bool {
	if e.HireDate.IsZero() {
		return false
	}
	return asOf.AfterOrEqual(e.ProbationEnd())
}

// GenderAllowed reports whether the leave type is open to the employee's
// recorded gender.
func GenderAllowed(leaveTypeName string, g Gender) bool {
	switch leaveTypeName {
	case TypePaternity:
		return g == GenderMale
	case TypeMaternity:
		return g == GenderFemale
	default:
		return true
	}
}

// =============================================================================
// ALLOCATOR - balance initialization and monthly accrual
// =============================================================================

// Allocator seeds and tops up balances.
type Allocator struct {
	Types       LeaveTypeStore
	Allocations AllocationStore
	Ledger      *Ledger
	Clock       Clock
}

func NewAllocator(store Store, clock Clock) *Allocator {
	return &Allocator{
		Types:       store,
		Allocations: store,
		Ledger:      NewLedger(store),
		Clock:       clock,
	}
}

// InitializeBalances ensures a balance record exists for every active
// leave type the employee's gender permits, and sets its allocation:
// the accrual result for accrual-based types, the yearly cap for the
// rest when the employee is eligible, zero otherwise.
func (a *Allocator) InitializeBalances(ctx context.Context, e *Employee, year int) error {
	today := a.Clock.Today()

	types, err := a.Types.ListLeaveTypes(ctx, true)
	if err != nil {
		return fmt.Errorf("listing leave types: %w", err)
	}

	for _, lt := range types {
		if !GenderAllowed(lt.Name, e.Gender) {
			continue
		}

		key := BalanceKey{Employee: e.ID, LeaveType: lt.ID, Year: year}

		var allocated decimal.Decimal
		switch {
		case lt.IsAccrual:
			allocated = AccruedDaysForType(e, lt, today)
		case lt.MaxDaysPerYear != nil && IsEligible(e, today):
			allocated = *lt.MaxDaysPerYear
		default:
			allocated = decimal.Zero
		}

		if _, err := a.Ledger.SetAllocated(ctx, key, allocated); err != nil {
			return fmt.Errorf("initializing %s balance for %s: %w", lt.Name, e.ID, err)
		}
	}
	return nil
}

// RunMonthlyAccrual tops up the annual-leave allocation for every
// employee with a hire date, appending an audit record per raise.
// Returns the allocations created. Safe to re-run: a second pass in the
// same month finds no positive diff and records nothing.
func (a *Allocator) RunMonthlyAccrual(ctx context.Context, employees []*Employee) ([]*LeaveAllocation, error) {
	today := a.Clock.Today()

	annual, err := a.Types.GetLeaveTypeByName(ctx, TypeAnnual)
	if err != nil {
		return nil, err
	}
	if !annual.IsAccrual {
		return nil, &ValidationError{Code: "not_accrual", Message: "annual leave type is not accrual-based"}
	}

	var created []*LeaveAllocation
	for _, e := range employees {
		if !e.Active || e.HireDate.IsZero() {
			continue
		}

		total := AccruedDaysForType(e, annual, today)
		key := BalanceKey{Employee: e.ID, LeaveType: annual.ID, Year: today.Year()}

		delta, err := a.Ledger.RaiseAllocated(ctx, key, total)
		if err != nil {
			return created, fmt.Errorf("raising allocation for %s: %w", e.ID, err)
		}
		if !delta.IsPositive() {
			continue
		}

		alloc := &LeaveAllocation{
			ID:        AllocationID(uuid.NewString()),
			Employee:  e.ID,
			LeaveType: annual.ID,
			Date:      today,
			DaysAdded: delta,
			Reason:    "Monthly accrual update",
		}
		if err := a.Allocations.AppendAllocation(ctx, alloc); err != nil {
			return created, fmt.Errorf("recording allocation for %s: %w", e.ID, err)
		}
		created = append(created, alloc)
	}
	return created, nil
}
