package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/leave/store"
)

// =============================================================================
// DEFAULT CATALOG
// =============================================================================

func TestDefaultLeaveTypes_Catalog(t *testing.T) {
	types := leave.DefaultLeaveTypes()
	require.Len(t, types, 5)

	byName := make(map[string]*leave.LeaveTypeDef)
	for _, lt := range types {
		byName[lt.Name] = lt
		assert.True(t, lt.Active)
	}

	annual := byName[leave.TypeAnnual]
	require.NotNil(t, annual)
	assert.True(t, annual.IsAccrual)
	assert.Nil(t, annual.MaxDaysPerYear)
	assert.True(t, leave.MustDays("1.75").Equal(annual.Rate()))
	assert.Equal(t, leave.CountWorkingDays, annual.CountingPolicy)

	sick := byName[leave.TypeSick]
	require.NotNil(t, sick)
	assert.False(t, sick.IsAccrual)
	assert.True(t, leave.MustDays("7").Equal(*sick.MaxDaysPerYear))

	study := byName[leave.TypeStudy]
	require.NotNil(t, study)
	assert.True(t, leave.MustDays("3").Equal(*study.MaxDaysPerYear))

	paternity := byName[leave.TypePaternity]
	require.NotNil(t, paternity)
	assert.True(t, leave.MustDays("14").Equal(*paternity.MaxDaysPerYear))
	assert.Equal(t, leave.CountAllDays, paternity.CountingPolicy)

	maternity := byName[leave.TypeMaternity]
	require.NotNil(t, maternity)
	assert.True(t, leave.MustDays("90").Equal(*maternity.MaxDaysPerYear))
	assert.Equal(t, leave.CountAllDays, maternity.CountingPolicy)
}

// =============================================================================
// ELIGIBILITY AND GENDER
// =============================================================================

func TestIsEligible(t *testing.T) {
	e := hiredOn(leave.NewDate(2023, time.January, 1)) // probation ends 2023-07-01

	assert.False(t, leave.IsEligible(e, leave.NewDate(2023, time.June, 30)))
	assert.True(t, leave.IsEligible(e, leave.NewDate(2023, time.July, 1)), "eligible on the boundary day")
	assert.True(t, leave.IsEligible(e, leave.NewDate(2024, time.January, 1)))
}

func TestIsEligible_NoHireDate_Never(t *testing.T) {
	e := &leave.Employee{ID: "emp-x", Active: true}
	assert.False(t, leave.IsEligible(e, leave.NewDate(2030, time.January, 1)))
}

func TestIsEligible_Override(t *testing.T) {
	override := leave.NewDate(2023, time.March, 1)
	e := hiredOn(leave.NewDate(2023, time.January, 1))
	e.ProbationEndOverride = &override

	assert.True(t, leave.IsEligible(e, leave.NewDate(2023, time.March, 1)))
	assert.False(t, leave.IsEligible(e, leave.NewDate(2023, time.February, 28)))
}

func TestGenderAllowed(t *testing.T) {
	assert.True(t, leave.GenderAllowed(leave.TypeAnnual, leave.GenderMale))
	assert.True(t, leave.GenderAllowed(leave.TypeAnnual, leave.GenderFemale))
	assert.True(t, leave.GenderAllowed(leave.TypeSick, leave.GenderOther))

	assert.True(t, leave.GenderAllowed(leave.TypePaternity, leave.GenderMale))
	assert.False(t, leave.GenderAllowed(leave.TypePaternity, leave.GenderFemale))

	assert.True(t, leave.GenderAllowed(leave.TypeMaternity, leave.GenderFemale))
	assert.False(t, leave.GenderAllowed(leave.TypeMaternity, leave.GenderMale))
}

// =============================================================================
// BALANCE INITIALIZATION
// =============================================================================

func newAllocatorFixture(t *testing.T) (*leave.Allocator, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	ctx := context.Background()
	for _, lt := range leave.DefaultLeaveTypes() {
		require.NoError(t, mem.PutLeaveType(ctx, lt))
	}
	clock := leave.FixedClock{Date: leave.NewDate(2024, time.June, 3)}
	return leave.NewAllocator(mem, clock), mem
}

func TestInitializeBalances_EligibleFemale(t *testing.T) {
	// GIVEN: Hired 2023-01-01 (10 completed months by 2024-06-03)
	// WHEN: Initializing 2024 balances
	// THEN: annual = 17.50 accrued, fixed types at their caps, no
	//       paternity row

	a, mem := newAllocatorFixture(t)
	ctx := context.Background()

	e := &leave.Employee{
		ID: "emp-f", Name: "F", Gender: leave.GenderFemale,
		HireDate: leave.NewDate(2023, time.January, 1), Active: true,
	}
	require.NoError(t, mem.PutEmployee(ctx, e))
	require.NoError(t, a.InitializeBalances(ctx, e, 2024))

	balances, err := mem.ListBalances(ctx, "emp-f", 2024)
	require.NoError(t, err)

	byType := make(map[leave.LeaveTypeID]*leave.LeaveBalance)
	for _, b := range balances {
		byType[b.Key.LeaveType] = b
	}

	require.Len(t, balances, 4)
	assert.True(t, leave.MustDays("17.5").Equal(byType["annual"].Allocated))
	assert.True(t, leave.MustDays("7").Equal(byType["sick"].Allocated))
	assert.True(t, leave.MustDays("3").Equal(byType["study"].Allocated))
	assert.True(t, leave.MustDays("90").Equal(byType["maternity"].Allocated))
	assert.NotContains(t, byType, leave.LeaveTypeID("paternity"))
}

func TestInitializeBalances_MaleGetsPaternityNotMaternity(t *testing.T) {
	a, mem := newAllocatorFixture(t)
	ctx := context.Background()

	e := &leave.Employee{
		ID: "emp-m", Name: "M", Gender: leave.GenderMale,
		HireDate: leave.NewDate(2023, time.January, 1), Active: true,
	}
	require.NoError(t, mem.PutEmployee(ctx, e))
	require.NoError(t, a.InitializeBalances(ctx, e, 2024))

	balances, err := mem.ListBalances(ctx, "emp-m", 2024)
	require.NoError(t, err)

	byType := make(map[leave.LeaveTypeID]*leave.LeaveBalance)
	for _, b := range balances {
		byType[b.Key.LeaveType] = b
	}
	assert.Contains(t, byType, leave.LeaveTypeID("paternity"))
	assert.NotContains(t, byType, leave.LeaveTypeID("maternity"))
	assert.True(t, leave.MustDays("14").Equal(byType["paternity"].Allocated))
}

func TestInitializeBalances_OnProbation_ZeroFixedTypes(t *testing.T) {
	// GIVEN: Hired 2024-03-01, still on probation at 2024-06-03
	// WHEN: Initializing balances
	// THEN: Rows exist but everything is zero

	a, mem := newAllocatorFixture(t)
	ctx := context.Background()

	e := &leave.Employee{
		ID: "emp-new", Name: "N", Gender: leave.GenderFemale,
		HireDate: leave.NewDate(2024, time.March, 1), Active: true,
	}
	require.NoError(t, mem.PutEmployee(ctx, e))
	require.NoError(t, a.InitializeBalances(ctx, e, 2024))

	balances, err := mem.ListBalances(ctx, "emp-new", 2024)
	require.NoError(t, err)
	require.Len(t, balances, 4)
	for _, b := range balances {
		assert.True(t, b.Allocated.IsZero(), "%s should be zero during probation", b.Key.LeaveType)
	}
}

func TestInitializeBalances_ManualOverride(t *testing.T) {
	a, mem := newAllocatorFixture(t)
	ctx := context.Background()

	manual := leave.MustDays("21")
	e := &leave.Employee{
		ID: "emp-o", Name: "O", Gender: leave.GenderFemale,
		HireDate: leave.NewDate(2023, time.January, 1), Active: true,
		ManualAnnualBalance: &manual,
	}
	require.NoError(t, mem.PutEmployee(ctx, e))
	require.NoError(t, a.InitializeBalances(ctx, e, 2024))

	b, err := mem.GetBalance(ctx, leave.BalanceKey{Employee: "emp-o", LeaveType: "annual", Year: 2024})
	require.NoError(t, err)
	assert.True(t, leave.MustDays("21").Equal(b.Allocated))
}

// =============================================================================
// MONTHLY ACCRUAL RUN
// =============================================================================

func TestRunMonthlyAccrual_TopsUpAndAudits(t *testing.T) {
	// GIVEN: An employee whose allocation trails the computed accrual
	// WHEN: The monthly run executes
	// THEN: Allocated is raised to the total and one audit record appended

	a, mem := newAllocatorFixture(t)
	ctx := context.Background()

	e := &leave.Employee{
		ID: "emp-1", Name: "A", Gender: leave.GenderFemale,
		HireDate: leave.NewDate(2023, time.January, 1), Active: true,
	}
	require.NoError(t, mem.PutEmployee(ctx, e))

	// Last month's state: 9 months accrued.
	key := leave.BalanceKey{Employee: "emp-1", LeaveType: "annual", Year: 2024}
	_, err := a.Ledger.SetAllocated(ctx, key, leave.MustDays("15.75"))
	require.NoError(t, err)

	created, err := a.RunMonthlyAccrual(ctx, []*leave.Employee{e})
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.True(t, leave.MustDays("1.75").Equal(created[0].DaysAdded))
	assert.Equal(t, leave.EmployeeID("emp-1"), created[0].Employee)
	assert.NotEmpty(t, created[0].ID)

	b, err := mem.GetBalance(ctx, key)
	require.NoError(t, err)
	assert.True(t, leave.MustDays("17.5").Equal(b.Allocated))

	allocs, err := mem.ListAllocations(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, allocs, 1)
}

func TestRunMonthlyAccrual_Rerun_NoDoubleCredit(t *testing.T) {
	// GIVEN: An accrual run already brought the balance up to date
	// WHEN: Running again in the same month
	// THEN: No delta, no new audit records

	a, mem := newAllocatorFixture(t)
	ctx := context.Background()

	e := &leave.Employee{
		ID: "emp-1", Name: "A", Gender: leave.GenderFemale,
		HireDate: leave.NewDate(2023, time.January, 1), Active: true,
	}
	require.NoError(t, mem.PutEmployee(ctx, e))

	first, err := a.RunMonthlyAccrual(ctx, []*leave.Employee{e})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := a.RunMonthlyAccrual(ctx, []*leave.Employee{e})
	require.NoError(t, err)
	assert.Empty(t, second)

	allocs, err := mem.ListAllocations(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, allocs, 1)
}

func TestRunMonthlyAccrual_SkipsInactiveAndUndated(t *testing.T) {
	a, _ := newAllocatorFixture(t)
	ctx := context.Background()

	employees := []*leave.Employee{
		{ID: "emp-inactive", HireDate: leave.NewDate(2023, time.January, 1), Active: false},
		{ID: "emp-undated", Active: true},
	}

	created, err := a.RunMonthlyAccrual(ctx, employees)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestRunMonthlyAccrual_DoesNotLowerManualOverride(t *testing.T) {
	// An employee whose manual balance exceeds the computed accrual keeps
	// it: allocated never decreases.
	a, mem := newAllocatorFixture(t)
	ctx := context.Background()

	manual := leave.MustDays("30")
	e := &leave.Employee{
		ID: "emp-o", Gender: leave.GenderFemale,
		HireDate: leave.NewDate(2023, time.January, 1), Active: true,
		ManualAnnualBalance: &manual,
	}
	require.NoError(t, mem.PutEmployee(ctx, e))
	require.NoError(t, a.InitializeBalances(ctx, e, 2024))

	created, err := a.RunMonthlyAccrual(ctx, []*leave.Employee{e})
	require.NoError(t, err)
	assert.Empty(t, created)

	b, err := mem.GetBalance(ctx, leave.BalanceKey{Employee: "emp-o", LeaveType: "annual", Year: 2024})
	require.NoError(t, err)
	assert.True(t, leave.MustDays("30").Equal(b.Allocated))
}
