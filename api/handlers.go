/*
handlers.go - HTTP API handlers for the leave engine

PURPOSE:
  Exposes the engine via REST. Handles HTTP request/response and JSON
  serialization, delegating all rules to the leave package.

ENDPOINTS:
  Employees:
    GET    /api/employees                     List employees
    POST   /api/employees                     Create employee (+init balances)
    GET    /api/employees/{id}                Employee details
    GET    /api/employees/{id}/balances       All balances for current year
    GET    /api/employees/{id}/requests       Employee's requests
    GET    /api/employees/{id}/allocations    Accrual audit trail
    POST   /api/employees/{id}/requests       Submit leave request

  Leave types:
    GET    /api/leave-types                   Catalog

  Requests:
    GET    /api/requests/pending?actor=...    What the actor may act on
    POST   /api/requests/{id}/hod-approve     First-level approval
    POST   /api/requests/{id}/approve         Final approval
    POST   /api/requests/{id}/reject          Reject (reason required)
    POST   /api/requests/{id}/recall          Recall approved leave

  Admin:
    POST   /api/admin/accrual/run             Run monthly accrual now

ERROR HANDLING:
  Domain errors map to HTTP status by category:
  - 400: validation, missing rejection reason
  - 403: unauthorized actor
  - 404: unknown employee/leave type/request
  - 409: invalid transition, insufficient balance, concurrency conflict
  - 500: everything else

SECURITY NOTE:
  Actors are caller-supplied identities; authentication is an outer
  concern and not part of this service.
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/leave"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     leave.Store
	Service   *leave.Service
	Allocator *leave.Allocator
	Clock     leave.Clock
}

// NewHandler wires a handler around the given store and clock.
func NewHandler(store leave.Store, clock leave.Clock, notifier leave.Notifier) *Handler {
	return &Handler{
		Store:     store,
		Service:   leave.NewService(store, clock, notifier),
		Allocator: leave.NewAllocator(store, clock),
		Clock:     clock,
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	today := h.Clock.Today()
	out := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeDTO(e, today))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var body CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if body.ID == "" || body.Name == "" {
		writeBadRequest(w, "id and name are required")
		return
	}

	emp := &leave.Employee{
		ID:         leave.EmployeeID(body.ID),
		Name:       body.Name,
		Email:      body.Email,
		Role:       leave.Role(body.Role),
		Department: leave.DepartmentID(body.Department),
		Gender:     leave.Gender(body.Gender),
		Active:     true,
	}
	if emp.Role == "" {
		emp.Role = leave.RoleEmployee
	}

	if body.HireDate != "" {
		d, err := leave.ParseDate(body.HireDate)
		if err != nil {
			writeBadRequest(w, "hire_date must be YYYY-MM-DD")
			return
		}
		emp.HireDate = d
	}
	if body.ProbationEndDate != "" {
		d, err := leave.ParseDate(body.ProbationEndDate)
		if err != nil {
			writeBadRequest(w, "probation_end_date must be YYYY-MM-DD")
			return
		}
		emp.ProbationEndOverride = &d
	}
	if body.ManualAnnualBalance != "" {
		d, err := decimal.NewFromString(body.ManualAnnualBalance)
		if err != nil {
			writeBadRequest(w, "manual_annual_balance must be a decimal")
			return
		}
		emp.ManualAnnualBalance = &d
	}

	if err := h.Store.PutEmployee(r.Context(), emp); err != nil {
		writeError(w, err)
		return
	}

	// New employees get their balance rows for the current year up front.
	if err := h.Allocator.InitializeBalances(r.Context(), emp, h.Clock.Today().Year()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp, h.Clock.Today()))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), leave.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	if emp == nil {
		writeError(w, &leave.NotFoundError{Kind: "employee", ID: chi.URLParam(r, "id")})
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp, h.Clock.Today()))
}

func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	id := leave.EmployeeID(chi.URLParam(r, "id"))
	year := h.Clock.Today().Year()

	balances, err := h.Store.ListBalances(r.Context(), id, year)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]BalanceDTO, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceDTO(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.ListRequestsByEmployee(r.Context(), leave.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]RequestDTO, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, toRequestDTO(req))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetAllocations(w http.ResponseWriter, r *http.Request) {
	allocs, err := h.Store.ListAllocations(r.Context(), leave.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]AllocationDTO, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, toAllocationDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// DEPARTMENTS
// =============================================================================

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]DepartmentDTO, 0, len(departments))
	for _, d := range departments {
		out = append(out, DepartmentDTO{ID: string(d.ID), Name: d.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Store.ListLeaveTypes(r.Context(), true)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]LeaveTypeDTO, 0, len(types))
	for _, lt := range types {
		out = append(out, toLeaveTypeDTO(lt))
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// REQUEST LIFECYCLE
// =============================================================================

func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	employeeID := leave.EmployeeID(chi.URLParam(r, "id"))

	var body SubmitRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	start, err := leave.ParseDate(body.StartDate)
	if err != nil {
		writeBadRequest(w, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := leave.ParseDate(body.EndDate)
	if err != nil {
		writeBadRequest(w, "end_date must be YYYY-MM-DD")
		return
	}

	req, err := h.Service.Submit(r.Context(), employeeID, leave.LeaveTypeID(body.LeaveType), start, end, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(req))
}

func (h *Handler) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	actor := leave.EmployeeID(r.URL.Query().Get("actor"))
	if actor == "" {
		writeBadRequest(w, "actor query parameter is required")
		return
	}
	reqs, err := h.Service.PendingApprovals(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]RequestDTO, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, toRequestDTO(req))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) HODApprove(w http.ResponseWriter, r *http.Request) {
	h.requestAction(w, r, func(body ActionBody, id leave.RequestID) (*leave.LeaveRequest, error) {
		return h.Service.HODApprove(r.Context(), leave.EmployeeID(body.Actor), id, body.Comment)
	})
}

func (h *Handler) ManagementApprove(w http.ResponseWriter, r *http.Request) {
	h.requestAction(w, r, func(body ActionBody, id leave.RequestID) (*leave.LeaveRequest, error) {
		return h.Service.ManagementApprove(r.Context(), leave.EmployeeID(body.Actor), id, body.Comment)
	})
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.requestAction(w, r, func(body ActionBody, id leave.RequestID) (*leave.LeaveRequest, error) {
		return h.Service.Reject(r.Context(), leave.EmployeeID(body.Actor), id, body.Reason)
	})
}

func (h *Handler) RecallRequest(w http.ResponseWriter, r *http.Request) {
	h.requestAction(w, r, func(body ActionBody, id leave.RequestID) (*leave.LeaveRequest, error) {
		return h.Service.Recall(r.Context(), leave.EmployeeID(body.Actor), id)
	})
}

func (h *Handler) requestAction(w http.ResponseWriter, r *http.Request, fn func(ActionBody, leave.RequestID) (*leave.LeaveRequest, error)) {
	var body ActionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if body.Actor == "" {
		writeBadRequest(w, "actor is required")
		return
	}
	req, err := fn(body, leave.RequestID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(req))
}

// =============================================================================
// ADMIN
// =============================================================================

// RunAccrual triggers the monthly accrual job immediately for all
// employees. The scheduler calls the same path on its own cadence.
func (h *Handler) RunAccrual(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	allocs, err := h.Allocator.RunMonthlyAccrual(r.Context(), employees)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]AllocationDTO, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, toAllocationDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, leave.ErrValidation), errors.Is(err, leave.ErrMissingReason):
		status = http.StatusBadRequest
	case errors.Is(err, leave.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, leave.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, leave.ErrInvalidTransition),
		errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrConcurrentModification):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
