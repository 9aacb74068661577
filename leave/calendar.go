package leave

import (
	"time"
)

// =============================================================================
// DATE - day-granular calendar date
// =============================================================================

// Date is a calendar date with no time-of-day component. All engine
// arithmetic (probation, accrual months, day counts) is over Dates.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date (in the time's location,
// then normalized to UTC midnight).
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.After(o) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.Before(o) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date { return NewDate(d.Year(), d.Month(), 1) }

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date {
	return NewDate(d.Year(), d.Month()+1, 1).AddDays(-1)
}

func (d Date) String() string { return d.t.Format("2006-01-02") }

// MaxDate returns the later of two dates.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// =============================================================================
// DAY COUNTING
// =============================================================================

// CountingPolicy selects which calendar days count against a balance.
type CountingPolicy string

const (
	// CountWorkingDays counts Monday through Friday only.
	CountWorkingDays CountingPolicy = "WORKING_DAYS"
	// CountAllDays counts every calendar day, weekends included.
	CountAllDays CountingPolicy = "ALL_DAYS"
)

// CountDays returns the number of leave days in [start, end] inclusive
// under the given policy. Returns 0 when start is after end. Pure.
func CountDays(start, end Date, policy CountingPolicy) int {
	if start.After(end) {
		return 0
	}
	if policy == CountAllDays {
		return int(end.t.Sub(start.t).Hours()/24) + 1
	}
	n := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if !d.IsWeekend() {
			n++
		}
	}
	return n
}
