/*
Package sqlite provides a SQLite-backed implementation of the leave
storage interfaces.

PURPOSE:
  Implements leave.Store using SQLite. The same patterns apply to
  PostgreSQL in production - only minor SQL dialect differences.

KEY TABLES:
  departments:       org units referenced by employees
  employees:         identity, role, hire/probation dates, override
  leave_types:       the leave catalog
  leave_balances:    allocated/used/pending per (employee, type, year)
  leave_requests:    requests with full approval-trail columns
  leave_allocations: append-only accrual audit records

CONCURRENCY:
  Balance mutations use optimistic version checks: read the row and its
  version, apply the mutation, then UPDATE ... WHERE version = ?. A lost
  race reads the fresh row and retries; after balanceUpdateRetries
  attempts the caller gets leave.ErrConcurrentModification. Different
  balance keys never contend.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not
  block the single writer.

DECIMALS AND DATES:
  Day quantities are stored as decimal strings, never REAL. Dates are
  stored as YYYY-MM-DD text.

SEE ALSO:
  - leave/store.go:        interface definitions and atomicity contract
  - leave/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/leave"
)

// balanceUpdateRetries bounds optimistic-lock retry loops.
const balanceUpdateRetries = 5

// Store implements leave.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent updates.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS departments (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS employees (
		id                     TEXT PRIMARY KEY,
		name                   TEXT NOT NULL,
		email                  TEXT,
		role                   TEXT NOT NULL,
		department_id          TEXT,
		gender                 TEXT,
		hire_date              TEXT,
		manual_annual_balance  TEXT,
		probation_end_override TEXT,
		active                 INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS leave_types (
		id                     TEXT PRIMARY KEY,
		name                   TEXT NOT NULL UNIQUE,
		description            TEXT,
		max_days_per_year      TEXT,
		is_accrual             INTEGER NOT NULL DEFAULT 0,
		accrual_rate           TEXT,
		counting_policy        TEXT NOT NULL,
		requires_documentation INTEGER NOT NULL DEFAULT 0,
		active                 INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS leave_balances (
		employee_id   TEXT NOT NULL,
		leave_type_id TEXT NOT NULL,
		year          INTEGER NOT NULL,
		allocated     TEXT NOT NULL DEFAULT '0',
		used          TEXT NOT NULL DEFAULT '0',
		pending       TEXT NOT NULL DEFAULT '0',
		version       INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (employee_id, leave_type_id, year)
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id                  TEXT PRIMARY KEY,
		employee_id         TEXT NOT NULL,
		leave_type_id       TEXT NOT NULL,
		start_date          TEXT NOT NULL,
		end_date            TEXT NOT NULL,
		days_requested      TEXT NOT NULL,
		reason              TEXT,
		status              TEXT NOT NULL,
		hod_approved_by     TEXT,
		hod_approved_at     TEXT,
		hod_comment         TEXT,
		mgmt_approved_by    TEXT,
		mgmt_approved_at    TEXT,
		mgmt_comment        TEXT,
		rejected_by         TEXT,
		rejected_at         TEXT,
		rejection_reason    TEXT,
		recalled_by         TEXT,
		recalled_at         TEXT,
		days_restored       TEXT,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_employee
		ON leave_requests(employee_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON leave_requests(status);

	-- Append-only: no UPDATE or DELETE is ever issued against this table.
	CREATE TABLE IF NOT EXISTS leave_allocations (
		id            TEXT PRIMARY KEY,
		employee_id   TEXT NOT NULL,
		leave_type_id TEXT NOT NULL,
		allocation_date TEXT NOT NULL,
		days_added    TEXT NOT NULL,
		reason        TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_allocations_employee
		ON leave_allocations(employee_id, allocation_date DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DEPARTMENTS
// =============================================================================

func (s *Store) PutDepartment(ctx context.Context, d *leave.Department) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO departments (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		string(d.ID), d.Name)
	return err
}

func (s *Store) ListDepartments(ctx context.Context) ([]*leave.Department, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*leave.Department
	for rows.Next() {
		var d leave.Department
		var id string
		if err := rows.Scan(&id, &d.Name); err != nil {
			return nil, err
		}
		d.ID = leave.DepartmentID(id)
		out = append(out, &d)
	}
	return out, rows.Err()
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) PutEmployee(ctx context.Context, e *leave.Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees
			(id, name, email, role, department_id, gender, hire_date,
			 manual_annual_balance, probation_end_override, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			department_id = excluded.department_id,
			gender = excluded.gender,
			hire_date = excluded.hire_date,
			manual_annual_balance = excluded.manual_annual_balance,
			probation_end_override = excluded.probation_end_override,
			active = excluded.active`,
		string(e.ID), e.Name, e.Email, string(e.Role), string(e.Department),
		string(e.Gender), nullDate(e.HireDate), nullDecimal(e.ManualAnnualBalance),
		nullDatePtr(e.ProbationEndOverride), boolInt(e.Active))
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id leave.EmployeeID) (*leave.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, department_id, gender, hire_date,
		       manual_annual_balance, probation_end_override, active
		FROM employees WHERE id = ?`, string(id))
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]*leave.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, role, department_id, gender, hire_date,
		       manual_annual_balance, probation_end_override, active
		FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*leave.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(r rowScanner) (*leave.Employee, error) {
	var e leave.Employee
	var id, role, dept, gender string
	var email, hire, manual, probation sql.NullString
	var active int

	if err := r.Scan(&id, &e.Name, &email, &role, &dept, &gender, &hire, &manual, &probation, &active); err != nil {
		return nil, err
	}
	e.ID = leave.EmployeeID(id)
	e.Email = email.String
	e.Role = leave.Role(role)
	e.Department = leave.DepartmentID(dept)
	e.Gender = leave.Gender(gender)
	e.Active = active != 0

	var err error
	if hire.Valid && hire.String != "" {
		if e.HireDate, err = leave.ParseDate(hire.String); err != nil {
			return nil, fmt.Errorf("bad hire_date for %s: %w", id, err)
		}
	}
	if manual.Valid && manual.String != "" {
		d, err := decimal.NewFromString(manual.String)
		if err != nil {
			return nil, fmt.Errorf("bad manual_annual_balance for %s: %w", id, err)
		}
		e.ManualAnnualBalance = &d
	}
	if probation.Valid && probation.String != "" {
		d, err := leave.ParseDate(probation.String)
		if err != nil {
			return nil, fmt.Errorf("bad probation_end_override for %s: %w", id, err)
		}
		e.ProbationEndOverride = &d
	}
	return &e, nil
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

func (s *Store) PutLeaveType(ctx context.Context, lt *leave.LeaveTypeDef) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_types
			(id, name, description, max_days_per_year, is_accrual,
			 accrual_rate, counting_policy, requires_documentation, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			max_days_per_year = excluded.max_days_per_year,
			is_accrual = excluded.is_accrual,
			accrual_rate = excluded.accrual_rate,
			counting_policy = excluded.counting_policy,
			requires_documentation = excluded.requires_documentation,
			active = excluded.active`,
		string(lt.ID), lt.Name, lt.Description, nullDecimal(lt.MaxDaysPerYear),
		boolInt(lt.IsAccrual), nullDecimal(lt.AccrualRate), string(lt.CountingPolicy),
		boolInt(lt.RequiresDocumentation), boolInt(lt.Active))
	return err
}

const leaveTypeCols = `id, name, description, max_days_per_year, is_accrual,
	accrual_rate, counting_policy, requires_documentation, active`

func (s *Store) GetLeaveType(ctx context.Context, id leave.LeaveTypeID) (*leave.LeaveTypeDef, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leaveTypeCols+` FROM leave_types WHERE id = ?`, string(id))
	lt, err := scanLeaveType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return lt, err
}

func (s *Store) GetLeaveTypeByName(ctx context.Context, name string) (*leave.LeaveTypeDef, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leaveTypeCols+` FROM leave_types WHERE name = ?`, name)
	lt, err := scanLeaveType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &leave.NotFoundError{Kind: "leave type", ID: name}
	}
	return lt, err
}

func (s *Store) ListLeaveTypes(ctx context.Context, activeOnly bool) ([]*leave.LeaveTypeDef, error) {
	q := `SELECT ` + leaveTypeCols + ` FROM leave_types`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*leave.LeaveTypeDef
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lt)
	}
	return out, rows.Err()
}

func scanLeaveType(r rowScanner) (*leave.LeaveTypeDef, error) {
	var lt leave.LeaveTypeDef
	var id, policy string
	var desc, maxDays, rate sql.NullString
	var isAccrual, requiresDoc, active int

	if err := r.Scan(&id, &lt.Name, &desc, &maxDays, &isAccrual, &rate, &policy, &requiresDoc, &active); err != nil {
		return nil, err
	}
	lt.ID = leave.LeaveTypeID(id)
	lt.Description = desc.String
	lt.IsAccrual = isAccrual != 0
	lt.CountingPolicy = leave.CountingPolicy(policy)
	lt.RequiresDocumentation = requiresDoc != 0
	lt.Active = active != 0

	if maxDays.Valid && maxDays.String != "" {
		d, err := decimal.NewFromString(maxDays.String)
		if err != nil {
			return nil, fmt.Errorf("bad max_days_per_year for %s: %w", id, err)
		}
		lt.MaxDaysPerYear = &d
	}
	if rate.Valid && rate.String != "" {
		d, err := decimal.NewFromString(rate.String)
		if err != nil {
			return nil, fmt.Errorf("bad accrual_rate for %s: %w", id, err)
		}
		lt.AccrualRate = &d
	}
	return &lt, nil
}

// =============================================================================
// BALANCES - optimistic version check and retry
// =============================================================================

func (s *Store) GetBalance(ctx context.Context, key leave.BalanceKey) (*leave.LeaveBalance, error) {
	b, err := s.readBalance(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return &leave.LeaveBalance{Key: key}, nil
	}
	return b, err
}

func (s *Store) ListBalances(ctx context.Context, employee leave.EmployeeID, year int) ([]*leave.LeaveBalance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, leave_type_id, year, allocated, used, pending, version
		FROM leave_balances
		WHERE employee_id = ? AND year = ?
		ORDER BY leave_type_id`, string(employee), year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*leave.LeaveBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateBalance applies fn under an optimistic version check. The row is
// created lazily (all zeroes, version 0) on first touch. A concurrent
// writer bumping the version between our read and write causes a re-read
// and retry; persistent contention surfaces ErrConcurrentModification.
func (s *Store) UpdateBalance(ctx context.Context, key leave.BalanceKey, fn func(*leave.LeaveBalance) error) (*leave.LeaveBalance, error) {
	for attempt := 0; attempt < balanceUpdateRetries; attempt++ {
		b, err := s.readBalance(ctx, key)
		if errors.Is(err, sql.ErrNoRows) {
			b = &leave.LeaveBalance{Key: key}
			if err := s.insertZeroBalance(ctx, key); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}

		if err := fn(b); err != nil {
			return nil, err
		}

		res, err := s.db.ExecContext(ctx, `
			UPDATE leave_balances
			SET allocated = ?, used = ?, pending = ?, version = version + 1
			WHERE employee_id = ? AND leave_type_id = ? AND year = ? AND version = ?`,
			b.Allocated.String(), b.Used.String(), b.Pending.String(),
			string(key.Employee), string(key.LeaveType), key.Year, b.Version)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 1 {
			b.Version++
			return b, nil
		}
		// Lost the version race; reload and retry.
	}
	return nil, leave.ErrConcurrentModification
}

func (s *Store) readBalance(ctx context.Context, key leave.BalanceKey) (*leave.LeaveBalance, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT employee_id, leave_type_id, year, allocated, used, pending, version
		FROM leave_balances
		WHERE employee_id = ? AND leave_type_id = ? AND year = ?`,
		string(key.Employee), string(key.LeaveType), key.Year)
	return scanBalance(row)
}

// insertZeroBalance creates the lazy row; a racing insert is fine, the
// follow-up versioned UPDATE arbitrates.
func (s *Store) insertZeroBalance(ctx context.Context, key leave.BalanceKey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_balances (employee_id, leave_type_id, year)
		VALUES (?, ?, ?)
		ON CONFLICT(employee_id, leave_type_id, year) DO NOTHING`,
		string(key.Employee), string(key.LeaveType), key.Year)
	return err
}

func scanBalance(r rowScanner) (*leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	var emp, lt, allocated, used, pending string
	var year int

	if err := r.Scan(&emp, &lt, &year, &allocated, &used, &pending, &b.Version); err != nil {
		return nil, err
	}
	b.Key = leave.BalanceKey{
		Employee:  leave.EmployeeID(emp),
		LeaveType: leave.LeaveTypeID(lt),
		Year:      year,
	}
	var err error
	if b.Allocated, err = decimal.NewFromString(allocated); err != nil {
		return nil, err
	}
	if b.Used, err = decimal.NewFromString(used); err != nil {
		return nil, err
	}
	if b.Pending, err = decimal.NewFromString(pending); err != nil {
		return nil, err
	}
	return &b, nil
}

// =============================================================================
// REQUESTS
// =============================================================================

func (s *Store) PutRequest(ctx context.Context, r *leave.LeaveRequest) error {
	hodBy, hodAt, hodComment := approvalCols(r.HODApproval)
	mgmtBy, mgmtAt, mgmtComment := approvalCols(r.ManagementApproval)
	rejBy, rejAt, _ := approvalCols(r.RejectedBy)
	recBy, recAt, _ := approvalCols(r.RecalledBy)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_requests
			(id, employee_id, leave_type_id, start_date, end_date,
			 days_requested, reason, status,
			 hod_approved_by, hod_approved_at, hod_comment,
			 mgmt_approved_by, mgmt_approved_at, mgmt_comment,
			 rejected_by, rejected_at, rejection_reason,
			 recalled_by, recalled_at, days_restored,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			hod_approved_by = excluded.hod_approved_by,
			hod_approved_at = excluded.hod_approved_at,
			hod_comment = excluded.hod_comment,
			mgmt_approved_by = excluded.mgmt_approved_by,
			mgmt_approved_at = excluded.mgmt_approved_at,
			mgmt_comment = excluded.mgmt_comment,
			rejected_by = excluded.rejected_by,
			rejected_at = excluded.rejected_at,
			rejection_reason = excluded.rejection_reason,
			recalled_by = excluded.recalled_by,
			recalled_at = excluded.recalled_at,
			days_restored = excluded.days_restored,
			updated_at = excluded.updated_at`,
		string(r.ID), string(r.Employee), string(r.LeaveType),
		r.StartDate.String(), r.EndDate.String(),
		r.DaysRequested.String(), r.Reason, string(r.Status),
		hodBy, hodAt, hodComment,
		mgmtBy, mgmtAt, mgmtComment,
		rejBy, rejAt, r.RejectionReason,
		recBy, recAt, nullDecimal(r.DaysRestored),
		r.CreatedAt.String(), r.UpdatedAt.String())
	return err
}

const requestCols = `id, employee_id, leave_type_id, start_date, end_date,
	days_requested, reason, status,
	hod_approved_by, hod_approved_at, hod_comment,
	mgmt_approved_by, mgmt_approved_at, mgmt_comment,
	rejected_by, rejected_at, rejection_reason,
	recalled_by, recalled_at, days_restored,
	created_at, updated_at`

func (s *Store) GetRequest(ctx context.Context, id leave.RequestID) (*leave.LeaveRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestCols+` FROM leave_requests WHERE id = ?`, string(id))
	r, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

func (s *Store) ListRequestsByEmployee(ctx context.Context, employee leave.EmployeeID) ([]*leave.LeaveRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestCols+` FROM leave_requests
		 WHERE employee_id = ? ORDER BY created_at DESC, id DESC`, string(employee))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *Store) ListRequestsByStatus(ctx context.Context, statuses ...leave.RequestStatus) ([]*leave.LeaveRequest, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	q := `SELECT ` + requestCols + ` FROM leave_requests WHERE status IN (?`
	args := []any{string(statuses[0])}
	for _, st := range statuses[1:] {
		q += `, ?`
		args = append(args, string(st))
	}
	q += `) ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func collectRequests(rows *sql.Rows) ([]*leave.LeaveRequest, error) {
	var out []*leave.LeaveRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRequest(rs rowScanner) (*leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	var id, emp, lt, start, end, daysReq, status, created, updated string
	var reason, rejReason sql.NullString
	var hodBy, hodAt, hodComment sql.NullString
	var mgmtBy, mgmtAt, mgmtComment sql.NullString
	var rejBy, rejAt sql.NullString
	var recBy, recAt, restored sql.NullString

	if err := rs.Scan(&id, &emp, &lt, &start, &end, &daysReq, &reason, &status,
		&hodBy, &hodAt, &hodComment,
		&mgmtBy, &mgmtAt, &mgmtComment,
		&rejBy, &rejAt, &rejReason,
		&recBy, &recAt, &restored,
		&created, &updated); err != nil {
		return nil, err
	}

	r.ID = leave.RequestID(id)
	r.Employee = leave.EmployeeID(emp)
	r.LeaveType = leave.LeaveTypeID(lt)
	r.Reason = reason.String
	r.Status = leave.RequestStatus(status)
	r.RejectionReason = rejReason.String

	var err error
	if r.StartDate, err = leave.ParseDate(start); err != nil {
		return nil, err
	}
	if r.EndDate, err = leave.ParseDate(end); err != nil {
		return nil, err
	}
	if r.DaysRequested, err = decimal.NewFromString(daysReq); err != nil {
		return nil, err
	}
	if r.CreatedAt, err = leave.ParseDate(created); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = leave.ParseDate(updated); err != nil {
		return nil, err
	}

	if r.HODApproval, err = approvalFromCols(hodBy, hodAt, hodComment); err != nil {
		return nil, err
	}
	if r.ManagementApproval, err = approvalFromCols(mgmtBy, mgmtAt, mgmtComment); err != nil {
		return nil, err
	}
	if r.RejectedBy, err = approvalFromCols(rejBy, rejAt, sql.NullString{}); err != nil {
		return nil, err
	}
	if r.RecalledBy, err = approvalFromCols(recBy, recAt, sql.NullString{}); err != nil {
		return nil, err
	}
	if restored.Valid && restored.String != "" {
		d, err := decimal.NewFromString(restored.String)
		if err != nil {
			return nil, err
		}
		r.DaysRestored = &d
	}
	return &r, nil
}

// =============================================================================
// ALLOCATIONS (append-only)
// =============================================================================

func (s *Store) AppendAllocation(ctx context.Context, a *leave.LeaveAllocation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_allocations
			(id, employee_id, leave_type_id, allocation_date, days_added, reason)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(a.ID), string(a.Employee), string(a.LeaveType),
		a.Date.String(), a.DaysAdded.String(), a.Reason)
	return err
}

func (s *Store) ListAllocations(ctx context.Context, employee leave.EmployeeID) ([]*leave.LeaveAllocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, leave_type_id, allocation_date, days_added, reason
		FROM leave_allocations
		WHERE employee_id = ?
		ORDER BY allocation_date DESC, id`, string(employee))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*leave.LeaveAllocation
	for rows.Next() {
		var a leave.LeaveAllocation
		var id, emp, lt, date, days string
		var reason sql.NullString
		if err := rows.Scan(&id, &emp, &lt, &date, &days, &reason); err != nil {
			return nil, err
		}
		a.ID = leave.AllocationID(id)
		a.Employee = leave.EmployeeID(emp)
		a.LeaveType = leave.LeaveTypeID(lt)
		a.Reason = reason.String
		if a.Date, err = leave.ParseDate(date); err != nil {
			return nil, err
		}
		if a.DaysAdded, err = decimal.NewFromString(days); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// =============================================================================
// COLUMN HELPERS
// =============================================================================

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullDate(d leave.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func nullDatePtr(d *leave.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func approvalCols(a *leave.Approval) (by, at, comment any) {
	if a == nil {
		return nil, nil, nil
	}
	return string(a.By), a.At.String(), a.Comment
}

func approvalFromCols(by, at, comment sql.NullString) (*leave.Approval, error) {
	if !by.Valid || by.String == "" {
		return nil, nil
	}
	a := &leave.Approval{By: leave.EmployeeID(by.String), Comment: comment.String}
	if at.Valid && at.String != "" {
		d, err := leave.ParseDate(at.String)
		if err != nil {
			return nil, err
		}
		a.At = d
	}
	return a, nil
}
