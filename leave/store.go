/*
store.go - Persistence and collaborator interfaces

PURPOSE:
  Defines the seams between the engine and its external collaborators:
  a durable keyed store for employees/types/balances/requests/allocations,
  a clock supplying "today", and a best-effort notifier.

ATOMICITY CONTRACT:
  BalanceStore.Update is the only way a balance changes. Implementations
  must apply the mutation as a single atomic read-modify-write on the
  (employee, leave type, year) key: concurrent updates to the same key
  serialize (row lock, version check + retry, or equivalent); updates to
  different keys are independent. The record is created lazily (all
  zeroes) if it does not exist when Update runs.

IMPLEMENTATIONS:
  - leave/store/memory.go: in-memory, mutex-serialized (tests/dev)
  - store/sqlite/sqlite.go: SQLite with optimistic version checks
*/
package leave

import (
	"context"
	"log"
	"time"
)

// =============================================================================
// STORES
// =============================================================================

type DepartmentStore interface {
	PutDepartment(ctx context.Context, d *Department) error
	ListDepartments(ctx context.Context) ([]*Department, error)
}

type EmployeeStore interface {
	PutEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
}

type LeaveTypeStore interface {
	PutLeaveType(ctx context.Context, lt *LeaveTypeDef) error
	GetLeaveType(ctx context.Context, id LeaveTypeID) (*LeaveTypeDef, error)
	// GetLeaveTypeByName looks up by the unique name.
	GetLeaveTypeByName(ctx context.Context, name string) (*LeaveTypeDef, error)
	ListLeaveTypes(ctx context.Context, activeOnly bool) ([]*LeaveTypeDef, error)
}

// BalanceStore persists LeaveBalance records.
type BalanceStore interface {
	// Get returns the balance for key, or an all-zero record (not yet
	// persisted) when none exists.
	GetBalance(ctx context.Context, key BalanceKey) (*LeaveBalance, error)

	// ListBalances returns all balances for an employee in a year.
	ListBalances(ctx context.Context, employee EmployeeID, year int) ([]*LeaveBalance, error)

	// UpdateBalance applies fn to the current record for key as a single
	// atomic read-modify-write, creating the record lazily. If fn returns
	// an error, nothing is persisted and that error is returned.
	UpdateBalance(ctx context.Context, key BalanceKey, fn func(*LeaveBalance) error) (*LeaveBalance, error)
}

type RequestStore interface {
	PutRequest(ctx context.Context, r *LeaveRequest) error
	GetRequest(ctx context.Context, id RequestID) (*LeaveRequest, error)
	// ListRequestsByEmployee returns the employee's requests, newest first.
	ListRequestsByEmployee(ctx context.Context, employee EmployeeID) ([]*LeaveRequest, error)
	// ListRequestsByStatus returns all requests in any of the given statuses.
	ListRequestsByStatus(ctx context.Context, statuses ...RequestStatus) ([]*LeaveRequest, error)
}

// AllocationStore is append-only: allocations are never mutated or deleted.
type AllocationStore interface {
	AppendAllocation(ctx context.Context, a *LeaveAllocation) error
	ListAllocations(ctx context.Context, employee EmployeeID) ([]*LeaveAllocation, error)
}

// Store aggregates everything the workflow service needs.
type Store interface {
	DepartmentStore
	EmployeeStore
	LeaveTypeStore
	BalanceStore
	RequestStore
	AllocationStore
}

// =============================================================================
// CLOCK - injectable "today"
// =============================================================================

// Clock supplies the current date for eligibility and recall math.
// Inject FixedClock in tests for determinism.
type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Today() Date { return DateOf(nowFunc()) }

// nowFunc is a seam for SystemClock tests.
var nowFunc = time.Now

// FixedClock always returns the same date.
type FixedClock struct {
	Date Date
}

func (c FixedClock) Today() Date { return c.Date }

// =============================================================================
// NOTIFIER - best-effort status-change fanout
// =============================================================================

// Notifier is invoked after a request transitions into HOD_APPROVED,
// APPROVED, or REJECTED. Failures are logged and swallowed; they never
// roll back the transition.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, r *LeaveRequest)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) NotifyStatusChange(context.Context, *LeaveRequest) {}

// LogNotifier writes status changes to the standard logger.
type LogNotifier struct{}

func (LogNotifier) NotifyStatusChange(_ context.Context, r *LeaveRequest) {
	log.Printf("[Notify] request %s for %s is now %s (%s to %s)",
		r.ID, r.Employee, r.Status, r.StartDate, r.EndDate)
}
