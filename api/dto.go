/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the external contract. Day quantities are serialized as decimal
  strings ("1.75"), never floats.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

VALIDATION:
  Handlers validate; DTOs are pure data carriers.
*/
package api

import (
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type DepartmentDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeeDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role"`
	Department    string `json:"department"`
	Gender        string `json:"gender,omitempty"`
	HireDate      string `json:"hire_date,omitempty"`
	ProbationEnd  string `json:"probation_end,omitempty"`
	LeaveEligible bool   `json:"leave_eligible"`
	Active        bool   `json:"active"`
}

type CreateEmployeeRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Gender     string `json:"gender"`
	HireDate   string `json:"hire_date"`

	// Optional admin overrides.
	ManualAnnualBalance string `json:"manual_annual_balance,omitempty"`
	ProbationEndDate    string `json:"probation_end_date,omitempty"`
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

type LeaveTypeDTO struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Description           string `json:"description,omitempty"`
	MaxDaysPerYear        string `json:"max_days_per_year,omitempty"`
	IsAccrual             bool   `json:"is_accrual"`
	AccrualRate           string `json:"accrual_rate,omitempty"`
	CountingPolicy        string `json:"counting_policy"`
	RequiresDocumentation bool   `json:"requires_documentation"`
	Active                bool   `json:"active"`
}

// =============================================================================
// BALANCES
// =============================================================================

type BalanceDTO struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	Year       int    `json:"year"`
	Allocated  string `json:"allocated"`
	Used       string `json:"used"`
	Pending    string `json:"pending"`
	Available  string `json:"available"`
}

// =============================================================================
// REQUESTS
// =============================================================================

type SubmitRequestBody struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

// ActionBody carries the acting employee and an optional comment for
// approval endpoints; Reason is required by the reject endpoint.
type ActionBody struct {
	Actor   string `json:"actor"`
	Comment string `json:"comment,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type ApprovalDTO struct {
	By      string `json:"by"`
	At      string `json:"at"`
	Comment string `json:"comment,omitempty"`
}

type RequestDTO struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	LeaveType     string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DaysRequested string `json:"days_requested"`
	Reason        string `json:"reason,omitempty"`
	Status        string `json:"status"`

	HODApproval        *ApprovalDTO `json:"hod_approval,omitempty"`
	ManagementApproval *ApprovalDTO `json:"management_approval,omitempty"`
	RejectedBy         *ApprovalDTO `json:"rejected_by,omitempty"`
	RejectionReason    string       `json:"rejection_reason,omitempty"`
	RecalledBy         *ApprovalDTO `json:"recalled_by,omitempty"`
	DaysRestored       string       `json:"days_restored,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

type AllocationDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	Date       string `json:"date"`
	DaysAdded  string `json:"days_added"`
	Reason     string `json:"reason,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toEmployeeDTO(e *leave.Employee, today leave.Date) EmployeeDTO {
	dto := EmployeeDTO{
		ID:            string(e.ID),
		Name:          e.Name,
		Email:         e.Email,
		Role:          string(e.Role),
		Department:    string(e.Department),
		Gender:        string(e.Gender),
		LeaveEligible: leave.IsEligible(e, today),
		Active:        e.Active,
	}
	if !e.HireDate.IsZero() {
		dto.HireDate = e.HireDate.String()
		dto.ProbationEnd = e.ProbationEnd().String()
	}
	return dto
}

func toLeaveTypeDTO(lt *leave.LeaveTypeDef) LeaveTypeDTO {
	dto := LeaveTypeDTO{
		ID:                    string(lt.ID),
		Name:                  lt.Name,
		Description:           lt.Description,
		IsAccrual:             lt.IsAccrual,
		CountingPolicy:        string(lt.CountingPolicy),
		RequiresDocumentation: lt.RequiresDocumentation,
		Active:                lt.Active,
	}
	if lt.MaxDaysPerYear != nil {
		dto.MaxDaysPerYear = lt.MaxDaysPerYear.String()
	}
	if lt.AccrualRate != nil {
		dto.AccrualRate = lt.AccrualRate.String()
	}
	return dto
}

func toBalanceDTO(b *leave.LeaveBalance) BalanceDTO {
	return BalanceDTO{
		EmployeeID: string(b.Key.Employee),
		LeaveType:  string(b.Key.LeaveType),
		Year:       b.Key.Year,
		Allocated:  b.Allocated.String(),
		Used:       b.Used.String(),
		Pending:    b.Pending.String(),
		Available:  b.Available().String(),
	}
}

func toApprovalDTO(a *leave.Approval) *ApprovalDTO {
	if a == nil {
		return nil
	}
	return &ApprovalDTO{By: string(a.By), At: a.At.String(), Comment: a.Comment}
}

func toRequestDTO(r *leave.LeaveRequest) RequestDTO {
	dto := RequestDTO{
		ID:                 string(r.ID),
		EmployeeID:         string(r.Employee),
		LeaveType:          string(r.LeaveType),
		StartDate:          r.StartDate.String(),
		EndDate:            r.EndDate.String(),
		DaysRequested:      r.DaysRequested.String(),
		Reason:             r.Reason,
		Status:             string(r.Status),
		HODApproval:        toApprovalDTO(r.HODApproval),
		ManagementApproval: toApprovalDTO(r.ManagementApproval),
		RejectedBy:         toApprovalDTO(r.RejectedBy),
		RejectionReason:    r.RejectionReason,
		RecalledBy:         toApprovalDTO(r.RecalledBy),
		CreatedAt:          r.CreatedAt.String(),
		UpdatedAt:          r.UpdatedAt.String(),
	}
	if r.DaysRestored != nil {
		dto.DaysRestored = r.DaysRestored.String()
	}
	return dto
}

func toAllocationDTO(a *leave.LeaveAllocation) AllocationDTO {
	return AllocationDTO{
		ID:         string(a.ID),
		EmployeeID: string(a.Employee),
		LeaveType:  string(a.LeaveType),
		Date:       a.Date.String(),
		DaysAdded:  a.DaysAdded.String(),
		Reason:     a.Reason,
	}
}
