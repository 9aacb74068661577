// Package store provides in-memory implementations of the leave
// persistence interfaces, used by tests and for -db=:memory:-style dev
// runs without SQLite.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Memory implements leave.Store. A single mutex serializes balance
// updates, which trivially satisfies the per-key atomic
// read-modify-write contract.
type Memory struct {
	mu          sync.RWMutex
	departments map[leave.DepartmentID]leave.Department
	employees   map[leave.EmployeeID]leave.Employee
	leaveTypes  map[leave.LeaveTypeID]leave.LeaveTypeDef
	balances    map[leave.BalanceKey]leave.LeaveBalance
	requests    map[leave.RequestID]leave.LeaveRequest
	reqOrder    []leave.RequestID
	allocations []leave.LeaveAllocation
}

func NewMemory() *Memory {
	return &Memory{
		departments: make(map[leave.DepartmentID]leave.Department),
		employees:   make(map[leave.EmployeeID]leave.Employee),
		leaveTypes:  make(map[leave.LeaveTypeID]leave.LeaveTypeDef),
		balances:    make(map[leave.BalanceKey]leave.LeaveBalance),
		requests:    make(map[leave.RequestID]leave.LeaveRequest),
	}
}

// =============================================================================
// DEPARTMENTS
// =============================================================================

func (m *Memory) PutDepartment(_ context.Context, d *leave.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.departments[d.ID] = *d
	return nil
}

func (m *Memory) ListDepartments(_ context.Context) ([]*leave.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*leave.Department, 0, len(m.departments))
	for _, d := range m.departments {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) PutEmployee(_ context.Context, e *leave.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = *e
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id leave.EmployeeID) (*leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]*leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*leave.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

func (m *Memory) PutLeaveType(_ context.Context, lt *leave.LeaveTypeDef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveTypes[lt.ID] = *lt
	return nil
}

func (m *Memory) GetLeaveType(_ context.Context, id leave.LeaveTypeID) (*leave.LeaveTypeDef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lt, ok := m.leaveTypes[id]
	if !ok {
		return nil, nil
	}
	return &lt, nil
}

func (m *Memory) GetLeaveTypeByName(_ context.Context, name string) (*leave.LeaveTypeDef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, lt := range m.leaveTypes {
		if lt.Name == name {
			lt := lt
			return &lt, nil
		}
	}
	return nil, &leave.NotFoundError{Kind: "leave type", ID: name}
}

func (m *Memory) ListLeaveTypes(_ context.Context, activeOnly bool) ([]*leave.LeaveTypeDef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*leave.LeaveTypeDef, 0, len(m.leaveTypes))
	for _, lt := range m.leaveTypes {
		if activeOnly && !lt.Active {
			continue
		}
		lt := lt
		out = append(out, &lt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// =============================================================================
// BALANCES
// =============================================================================

func (m *Memory) GetBalance(_ context.Context, key leave.BalanceKey) (*leave.LeaveBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.balances[key]
	if !ok {
		return &leave.LeaveBalance{Key: key}, nil
	}
	return &b, nil
}

func (m *Memory) ListBalances(_ context.Context, employee leave.EmployeeID, year int) ([]*leave.LeaveBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*leave.LeaveBalance
	for _, b := range m.balances {
		if b.Key.Employee == employee && b.Key.Year == year {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.LeaveType < out[j].Key.LeaveType })
	return out, nil
}

// UpdateBalance runs fn under the store lock: the whole read-modify-write
// is one critical section, so same-key updates serialize and lost updates
// cannot happen.
func (m *Memory) UpdateBalance(_ context.Context, key leave.BalanceKey, fn func(*leave.LeaveBalance) error) (*leave.LeaveBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.balances[key]
	if !ok {
		b = leave.LeaveBalance{Key: key}
	}
	if err := fn(&b); err != nil {
		return nil, err
	}
	b.Version++
	m.balances[key] = b
	out := b
	return &out, nil
}

// =============================================================================
// REQUESTS
// =============================================================================

func (m *Memory) PutRequest(_ context.Context, r *leave.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.requests[r.ID]; !exists {
		m.reqOrder = append(m.reqOrder, r.ID)
	}
	m.requests[r.ID] = *r
	return nil
}

func (m *Memory) GetRequest(_ context.Context, id leave.RequestID) (*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) ListRequestsByEmployee(_ context.Context, employee leave.EmployeeID) ([]*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*leave.LeaveRequest
	// reqOrder is insertion order; walk backwards for newest-first.
	for i := len(m.reqOrder) - 1; i >= 0; i-- {
		r := m.requests[m.reqOrder[i]]
		if r.Employee == employee {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

func (m *Memory) ListRequestsByStatus(_ context.Context, statuses ...leave.RequestStatus) ([]*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := make(map[leave.RequestStatus]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []*leave.LeaveRequest
	for _, id := range m.reqOrder {
		r := m.requests[id]
		if want[r.Status] {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

// =============================================================================
// ALLOCATIONS (append-only)
// =============================================================================

func (m *Memory) AppendAllocation(_ context.Context, a *leave.LeaveAllocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allocations = append(m.allocations, *a)
	return nil
}

func (m *Memory) ListAllocations(_ context.Context, employee leave.EmployeeID) ([]*leave.LeaveAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*leave.LeaveAllocation
	for _, a := range m.allocations {
		if a.Employee == employee {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}
