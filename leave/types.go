/*
Package leave implements the leave accounting engine.

PURPOSE:
  This package contains the domain model and algorithms for tracking
  employee leave entitlements: day counting, monthly accrual, the
  per-employee balance ledger, and the multi-step approval workflow
  that moves requests between states while keeping balances consistent.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: identity, role, department, hire date, probation
  - LeaveTypeDef: a kind of leave (Annual, Sick, ...) and its rules
  - LeaveBalance: allocated/used/pending days for (employee, type, year)
  - LeaveRequest: a request moving through the approval state machine
  - LeaveAllocation: append-only audit record of an accrual top-up

DESIGN PRINCIPLES:
  1. Precision: day quantities are decimal.Decimal, never float
  2. Derived balance: available = allocated - used - pending, computed
  3. Explicit time: every operation takes dates in, nothing reads the
     wall clock directly (see Clock in store.go)

SEE ALSO:
  - calendar.go: Date type and day counting
  - ledger.go:   atomic balance adjustments
  - workflow.go: request state machine
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ROLES AND GENDER
// =============================================================================

// Role is the closed set of authorization levels. Authorization is a
// predicate over roles (see CanApprove), not behavior attached to them.
type Role string

const (
	RoleEmployee   Role = "EMPLOYEE"
	RoleHOD        Role = "HOD"
	RoleManagement Role = "MANAGEMENT"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// =============================================================================
// DEPARTMENT AND EMPLOYEE
// =============================================================================

type DepartmentID string

type Department struct {
	ID   DepartmentID
	Name string
}

type EmployeeID string

// Employee is the subject of all balances and requests.
//
// Probation: an employee becomes leave-eligible six months after hire,
// unless ProbationEndOverride is set. Employees with no hire date are
// never eligible.
type Employee struct {
	ID         EmployeeID
	Name       string
	Email      string
	Role       Role
	Department DepartmentID
	Gender     Gender

	// HireDate is zero when unknown; such employees accrue nothing.
	HireDate Date

	// ManualAnnualBalance, when set, overrides the computed annual-leave
	// accrual entirely.
	ManualAnnualBalance *decimal.Decimal

	// ProbationEndOverride, when set, replaces the hire+6-months rule.
	ProbationEndOverride *Date

	Active bool
}

// ProbationEnd returns the date the employee becomes leave-eligible:
// the explicit override if present, otherwise hire date + 6 months.
// Returns the zero Date when the hire date is unknown.
func (e *Employee) ProbationEnd() Date {
	if e.ProbationEndOverride != nil {
		return *e.ProbationEndOverride
	}
	if e.HireDate.IsZero() {
		return Date{}
	}
	return e.HireDate.AddMonths(6)
}

func (e *Employee) IsHOD() bool        { return e.Role == RoleHOD }
func (e *Employee) IsManagement() bool { return e.Role == RoleManagement }

// =============================================================================
// LEAVE TYPE
// =============================================================================

type LeaveTypeID string

// LeaveTypeDef defines a kind of leave and the rules that govern it.
// Immutable once created except by administrative edit.
type LeaveTypeDef struct {
	ID          LeaveTypeID
	Name        string // unique
	Description string

	// MaxDaysPerYear is the yearly cap for non-accrual types; nil for
	// uncapped (accrual-based) types.
	MaxDaysPerYear *decimal.Decimal

	// IsAccrual marks the type as accrual-based (annual leave).
	// AccrualRate is days per completed month; only meaningful when
	// IsAccrual is set. Nil means the default rate applies.
	IsAccrual   bool
	AccrualRate *decimal.Decimal

	CountingPolicy        CountingPolicy
	RequiresDocumentation bool
	Active                bool
}

// Rate returns the monthly accrual rate, falling back to the default.
func (lt *LeaveTypeDef) Rate() decimal.Decimal {
	if lt.AccrualRate != nil {
		return *lt.AccrualRate
	}
	return DefaultAccrualRate
}

// DefaultAccrualRate is the monthly annual-leave accrual used when a
// leave type does not specify its own.
var DefaultAccrualRate = decimal.RequireFromString("1.75")

// =============================================================================
// BALANCE - allocated / used / pending per (employee, type, year)
// =============================================================================

// BalanceKey identifies a single balance record. Atomic mutations are
// serialized per key (see BalanceStore.Update).
type BalanceKey struct {
	Employee  EmployeeID
	LeaveType LeaveTypeID
	Year      int
}

// LeaveBalance tracks one employee's days for one leave type and year.
// Created lazily on first access; mutated only through the ledger's
// adjustment operations; never deleted.
type LeaveBalance struct {
	Key       BalanceKey
	Allocated decimal.Decimal
	Used      decimal.Decimal
	Pending   decimal.Decimal

	// Version supports optimistic concurrency in stores that use it.
	Version int64
}

// Available is the derived quantity callers budget against.
// Normal workflow never drives it negative; only an administrative
// override that lowers Allocated below Used+Pending can.
func (b *LeaveBalance) Available() decimal.Decimal {
	return b.Allocated.Sub(b.Used).Sub(b.Pending)
}

// =============================================================================
// REQUEST - one trip through the approval state machine
// =============================================================================

type RequestID string

type RequestStatus string

const (
	StatusPending     RequestStatus = "PENDING"
	StatusHODApproved RequestStatus = "HOD_APPROVED"
	StatusApproved    RequestStatus = "APPROVED"
	StatusRejected    RequestStatus = "REJECTED"
	StatusCancelled   RequestStatus = "CANCELLED"
	StatusRecalled    RequestStatus = "RECALLED"
)

// Terminal reports whether a status admits no further transitions.
// APPROVED is non-terminal: it can still be recalled.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusRecalled
}

// Approval records one actor's action on a request.
type Approval struct {
	By      EmployeeID
	At      Date
	Comment string
}

// LeaveRequest is a request for a contiguous date range of leave.
// DaysRequested is computed from the range and the leave type's
// counting policy, never user-supplied. Mutated only through the
// workflow transitions; immutable once in a terminal state.
type LeaveRequest struct {
	ID        RequestID
	Employee  EmployeeID
	LeaveType LeaveTypeID
	StartDate Date
	EndDate   Date

	DaysRequested decimal.Decimal
	Reason        string
	Status        RequestStatus

	HODApproval        *Approval
	ManagementApproval *Approval

	RejectedBy      *Approval
	RejectionReason string

	RecalledBy *Approval
	// DaysRestored is set on recall: the portion of DaysRequested given
	// back to the balance (full amount if the leave had not started).
	DaysRestored *decimal.Decimal

	CreatedAt Date
	UpdatedAt Date
}

// =============================================================================
// ALLOCATION - append-only accrual audit record
// =============================================================================

type AllocationID string

// LeaveAllocation records one accrual top-up. Created only by the
// monthly accrual run; never mutated or deleted.
type LeaveAllocation struct {
	ID        AllocationID
	Employee  EmployeeID
	LeaveType LeaveTypeID
	Date      Date
	DaysAdded decimal.Decimal
	Reason    string
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// Days builds a day quantity from an integer count.
func Days(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// MustDays parses a decimal day quantity, panicking on bad input.
// For literals in catalogs and tests.
func MustDays(s string) decimal.Decimal { return decimal.RequireFromString(s) }
