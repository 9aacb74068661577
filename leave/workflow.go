/*
workflow.go - Leave request state machine

PURPOSE:
  Governs the lifecycle of a leave request and triggers the matching
  ledger adjustments. All validation happens before any mutation; the
  balance adjustment is always the last step before persisting the
  request, so a failed check never leaves a partial reservation.

STATE MACHINE:

  PENDING ──HOD approve──▶ HOD_APPROVED ──mgmt approve──▶ APPROVED
     │                          │                             │
     │ (submitter is HOD:       │                          recall
     │  mgmt approves direct)   │                             │
     ├──────mgmt approve────────┼────▶ APPROVED           RECALLED
     │                          │
     └────────reject────────────┴────▶ REJECTED

  REJECTED, CANCELLED and RECALLED are terminal. Any other move fails
  with InvalidTransitionError and mutates nothing.

BALANCE EFFECTS:
  Submit              reserve days (+pending)
  HOD approve         none (days stay pending)
  Management approve  pending -> used
  Reject              release reservation (-pending)
  Recall              restore unused days (-used)

AUTHORIZATION:
  CanApprove(actor, request): management always; an HOD only for
  requests from their own department and never for another HOD.

NOTIFICATIONS:
  After a transition into HOD_APPROVED, APPROVED or REJECTED the
  notifier is invoked best-effort. It cannot fail the transition.
*/
package leave

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes the engine's operations to external collaborators
// (HTTP handlers, scheduled jobs, CLIs).
type Service struct {
	Store    Store
	Ledger   *Ledger
	Clock    Clock
	Notifier Notifier
}

func NewService(store Store, clock Clock, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		Store:    store,
		Ledger:   NewLedger(store),
		Clock:    clock,
		Notifier: notifier,
	}
}

// CanApprove reports whether actor may act on the request: management
// always; an HOD for requests from their own department, unless the
// requester is an HOD too (HOD requests go straight to management).
func CanApprove(actor, requester *Employee) bool {
	if actor.IsManagement() {
		return true
	}
	if actor.IsHOD() && actor.Department == requester.Department {
		return !requester.IsHOD()
	}
	return false
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit validates a new request, reserves the computed days, and
// persists it in PENDING. Order of checks mirrors the contract: all
// validation first, the reservation last.
func (s *Service) Submit(ctx context.Context, employeeID EmployeeID, leaveTypeID LeaveTypeID, start, end Date, reason string) (*LeaveRequest, error) {
	emp, err := s.employee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	lt, err := s.leaveType(ctx, leaveTypeID)
	if err != nil {
		return nil, err
	}

	today := s.Clock.Today()

	if start.After(end) {
		return nil, &ValidationError{Code: "invalid_range", Message: "start date cannot be after end date"}
	}
	if start.Before(today) {
		return nil, &ValidationError{Code: "past_start_date", Message: "cannot request leave for past dates"}
	}
	if !IsEligible(emp, start) {
		return nil, &ValidationError{
			Code:    "on_probation",
			Message: fmt.Sprintf("not eligible for leave until %s", emp.ProbationEnd()),
		}
	}
	if !GenderAllowed(lt.Name, emp.Gender) {
		return nil, &ValidationError{
			Code:    "gender_restricted",
			Message: fmt.Sprintf("%s is not available for this employee", lt.Name),
		}
	}

	days := Days(CountDays(start, end, lt.CountingPolicy))
	key := BalanceKey{Employee: emp.ID, LeaveType: lt.ID, Year: start.Year()}

	// Fast availability check before touching anything; Reserve repeats
	// it inside the atomic update so concurrent submissions serialize.
	bal, err := s.Ledger.Balance(ctx, key)
	if err != nil {
		return nil, err
	}
	if bal.Available().LessThan(days) {
		return nil, &InsufficientBalanceError{Key: key, Available: bal.Available(), Requested: days}
	}

	if _, err := s.Ledger.Reserve(ctx, key, days); err != nil {
		return nil, err
	}

	req := &LeaveRequest{
		ID:            RequestID(uuid.NewString()),
		Employee:      emp.ID,
		LeaveType:     lt.ID,
		StartDate:     start,
		EndDate:       end,
		DaysRequested: days,
		Reason:        reason,
		Status:        StatusPending,
		CreatedAt:     today,
		UpdatedAt:     today,
	}
	if err := s.Store.PutRequest(ctx, req); err != nil {
		// Persisting failed after the reservation; give the days back so
		// the balance does not leak a phantom hold.
		s.Ledger.ReleasePending(ctx, key, days)
		return nil, fmt.Errorf("persisting request: %w", err)
	}
	return req, nil
}

// =============================================================================
// HOD APPROVAL
// =============================================================================

// HODApprove moves PENDING to HOD_APPROVED. The actor must be the HOD
// of the requester's department, and the requester must not be an HOD
// themselves. Days stay pending; no balance mutation.
func (s *Service) HODApprove(ctx context.Context, actorID EmployeeID, requestID RequestID, comment string) (*LeaveRequest, error) {
	actor, req, requester, err := s.loadApprovalParties(ctx, actorID, requestID)
	if err != nil {
		return nil, err
	}

	if !actor.IsHOD() || actor.Department != requester.Department || requester.IsHOD() {
		return nil, &UnauthorizedError{Actor: actorID, Operation: "HOD-approve this request"}
	}
	if req.Status != StatusPending {
		return nil, &InvalidTransitionError{RequestID: req.ID, From: req.Status, Attempted: "HOD-approve"}
	}

	now := s.Clock.Today()
	req.Status = StatusHODApproved
	req.HODApproval = &Approval{By: actorID, At: now, Comment: comment}
	req.UpdatedAt = now

	if err := s.Store.PutRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("persisting request: %w", err)
	}
	s.notify(ctx, req)
	return req, nil
}

// =============================================================================
// MANAGEMENT APPROVAL
// =============================================================================

// ManagementApprove moves PENDING or HOD_APPROVED to APPROVED and
// settles the reservation: pending -> used, atomically per balance key.
// The PENDING -> APPROVED shortcut covers requests submitted by HODs,
// which skip HOD-level review.
func (s *Service) ManagementApprove(ctx context.Context, actorID EmployeeID, requestID RequestID, comment string) (*LeaveRequest, error) {
	actor, req, _, err := s.loadApprovalParties(ctx, actorID, requestID)
	if err != nil {
		return nil, err
	}

	if !actor.IsManagement() {
		return nil, &UnauthorizedError{Actor: actorID, Operation: "grant final approval"}
	}
	if req.Status != StatusPending && req.Status != StatusHODApproved {
		return nil, &InvalidTransitionError{RequestID: req.ID, From: req.Status, Attempted: "approve"}
	}

	key := s.balanceKey(req)
	if _, err := s.Ledger.CommitPending(ctx, key, req.DaysRequested); err != nil {
		return nil, err
	}

	now := s.Clock.Today()
	req.Status = StatusApproved
	req.ManagementApproval = &Approval{By: actorID, At: now, Comment: comment}
	req.UpdatedAt = now

	if err := s.Store.PutRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("persisting request: %w", err)
	}
	s.notify(ctx, req)
	return req, nil
}

// =============================================================================
// REJECT
// =============================================================================

// Reject moves PENDING or HOD_APPROVED to REJECTED and releases the
// reservation. A non-empty reason is mandatory.
func (s *Service) Reject(ctx context.Context, actorID EmployeeID, requestID RequestID, reason string) (*LeaveRequest, error) {
	actor, req, requester, err := s.loadApprovalParties(ctx, actorID, requestID)
	if err != nil {
		return nil, err
	}

	if !CanApprove(actor, requester) {
		return nil, &UnauthorizedError{Actor: actorID, Operation: "reject this request"}
	}
	if req.Status != StatusPending && req.Status != StatusHODApproved {
		return nil, &InvalidTransitionError{RequestID: req.ID, From: req.Status, Attempted: "reject"}
	}
	if reason == "" {
		return nil, ErrMissingReason
	}

	key := s.balanceKey(req)
	if _, err := s.Ledger.ReleasePending(ctx, key, req.DaysRequested); err != nil {
		return nil, err
	}

	now := s.Clock.Today()
	req.Status = StatusRejected
	req.RejectedBy = &Approval{By: actorID, At: now}
	req.RejectionReason = reason
	req.UpdatedAt = now

	if err := s.Store.PutRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("persisting request: %w", err)
	}
	s.notify(ctx, req)
	return req, nil
}

// =============================================================================
// RECALL
// =============================================================================

// Recall reverses an APPROVED leave (management only). A leave whose
// end date has passed cannot be recalled. Days restored: the full
// request if it has not started, otherwise the count for
// [max(today, start), end] under the request's counting policy.
func (s *Service) Recall(ctx context.Context, actorID EmployeeID, requestID RequestID) (*LeaveRequest, error) {
	actor, req, _, err := s.loadApprovalParties(ctx, actorID, requestID)
	if err != nil {
		return nil, err
	}

	if !actor.IsManagement() {
		return nil, &UnauthorizedError{Actor: actorID, Operation: "recall approved leave"}
	}
	if req.Status != StatusApproved {
		return nil, &InvalidTransitionError{RequestID: req.ID, From: req.Status, Attempted: "recall"}
	}

	today := s.Clock.Today()
	if req.EndDate.Before(today) {
		return nil, &ValidationError{Code: "leave_completed", Message: "leave has already completed"}
	}

	lt, err := s.leaveType(ctx, req.LeaveType)
	if err != nil {
		return nil, err
	}

	var restore decimal.Decimal
	if req.StartDate.After(today) {
		restore = req.DaysRequested
	} else {
		restore = Days(CountDays(MaxDate(today, req.StartDate), req.EndDate, lt.CountingPolicy))
	}

	key := s.balanceKey(req)
	if _, err := s.Ledger.RestoreUsed(ctx, key, restore); err != nil {
		return nil, err
	}

	req.Status = StatusRecalled
	req.RecalledBy = &Approval{By: actorID, At: today}
	req.DaysRestored = &restore
	req.UpdatedAt = today

	if err := s.Store.PutRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("persisting request: %w", err)
	}
	return req, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// GetBalance returns the balance record for (employee, type, year).
func (s *Service) GetBalance(ctx context.Context, employeeID EmployeeID, leaveTypeID LeaveTypeID, year int) (*LeaveBalance, error) {
	return s.Ledger.Balance(ctx, BalanceKey{Employee: employeeID, LeaveType: leaveTypeID, Year: year})
}

// PendingApprovals lists the requests the actor may currently act on:
// for an HOD, PENDING requests from non-HOD employees in their
// department; for management, everything awaiting final approval plus
// PENDING requests submitted by HODs.
func (s *Service) PendingApprovals(ctx context.Context, actorID EmployeeID) ([]*LeaveRequest, error) {
	actor, err := s.employee(ctx, actorID)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.IsManagement():
		all, err := s.Store.ListRequestsByStatus(ctx, StatusPending, StatusHODApproved)
		if err != nil {
			return nil, err
		}
		var out []*LeaveRequest
		for _, r := range all {
			if r.Status == StatusHODApproved {
				out = append(out, r)
				continue
			}
			requester, err := s.employee(ctx, r.Employee)
			if err != nil {
				return nil, err
			}
			if requester.IsHOD() {
				out = append(out, r)
			}
		}
		return out, nil

	case actor.IsHOD():
		pending, err := s.Store.ListRequestsByStatus(ctx, StatusPending)
		if err != nil {
			return nil, err
		}
		var out []*LeaveRequest
		for _, r := range pending {
			requester, err := s.employee(ctx, r.Employee)
			if err != nil {
				return nil, err
			}
			if requester.Department == actor.Department && !requester.IsHOD() {
				out = append(out, r)
			}
		}
		return out, nil

	default:
		return nil, &UnauthorizedError{Actor: actorID, Operation: "view pending approvals"}
	}
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

func (s *Service) balanceKey(req *LeaveRequest) BalanceKey {
	return BalanceKey{Employee: req.Employee, LeaveType: req.LeaveType, Year: req.StartDate.Year()}
}

func (s *Service) employee(ctx context.Context, id EmployeeID) (*Employee, error) {
	e, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, &NotFoundError{Kind: "employee", ID: string(id)}
	}
	return e, nil
}

func (s *Service) leaveType(ctx context.Context, id LeaveTypeID) (*LeaveTypeDef, error) {
	lt, err := s.Store.GetLeaveType(ctx, id)
	if err != nil {
		return nil, err
	}
	if lt == nil {
		return nil, &NotFoundError{Kind: "leave type", ID: string(id)}
	}
	return lt, nil
}

func (s *Service) loadApprovalParties(ctx context.Context, actorID EmployeeID, requestID RequestID) (*Employee, *LeaveRequest, *Employee, error) {
	actor, err := s.employee(ctx, actorID)
	if err != nil {
		return nil, nil, nil, err
	}
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, nil, nil, err
	}
	if req == nil {
		return nil, nil, nil, &NotFoundError{Kind: "request", ID: string(requestID)}
	}
	requester, err := s.employee(ctx, req.Employee)
	if err != nil {
		return nil, nil, nil, err
	}
	return actor, req, requester, nil
}

// notify fans out a status change, best-effort. A panicking notifier
// must not take the transition down with it.
func (s *Service) notify(ctx context.Context, req *LeaveRequest) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Notify] panic notifying for request %s: %v", req.ID, r)
		}
	}()
	s.Notifier.NotifyStatusChange(ctx, req)
}
