/*
seed.go - Catalog and demo data seeding

PURPOSE:
  Populates a fresh store with the default leave-type catalog and,
  optionally, a small demo org chart so the API is usable out of the
  box. The catalog seed is idempotent; demo data overwrites by ID, so
  reloads are safe too.

DEMO ORG:
  Two departments (Engineering, Operations), one HOD each, a management
  account, and a mix of pre- and post-probation employees so the
  approval chain and eligibility paths are all exercisable from day one.

NOTE:
  SeedDemo is for development and demo environments only.
*/
package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/leave"
)

// SeedLeaveTypes writes the default catalog.
func SeedLeaveTypes(ctx context.Context, store leave.Store) error {
	for _, lt := range leave.DefaultLeaveTypes() {
		if err := store.PutLeaveType(ctx, lt); err != nil {
			return fmt.Errorf("seeding leave type %s: %w", lt.Name, err)
		}
	}
	return nil
}

// SeedDemo loads the demo org chart and initializes everyone's balances
// for the current year. The catalog must already be seeded.
func SeedDemo(ctx context.Context, store leave.Store, clock leave.Clock) error {
	today := clock.Today()
	year := today.Year()

	departments := []*leave.Department{
		{ID: "eng", Name: "Engineering"},
		{ID: "ops", Name: "Operations"},
	}
	for _, d := range departments {
		if err := store.PutDepartment(ctx, d); err != nil {
			return fmt.Errorf("seeding department %s: %w", d.ID, err)
		}
	}

	manual := decimal.NewFromFloat(15)

	employees := []*leave.Employee{
		{
			ID: "mgmt-dana", Name: "Dana Okafor", Email: "dana@example.com",
			Role: leave.RoleManagement, Department: "ops", Gender: leave.GenderFemale,
			HireDate: leave.NewDate(year-6, 3, 1), Active: true,
		},
		{
			ID: "hod-priya", Name: "Priya Sharma", Email: "priya@example.com",
			Role: leave.RoleHOD, Department: "eng", Gender: leave.GenderFemale,
			HireDate: leave.NewDate(year-4, 6, 15), Active: true,
		},
		{
			ID: "hod-marcus", Name: "Marcus Bell", Email: "marcus@example.com",
			Role: leave.RoleHOD, Department: "ops", Gender: leave.GenderMale,
			HireDate: leave.NewDate(year-3, 1, 10), Active: true,
		},
		{
			// Past probation, normal accrual history.
			ID: "emp-alice", Name: "Alice Johnson", Email: "alice@example.com",
			Role: leave.RoleEmployee, Department: "eng", Gender: leave.GenderFemale,
			HireDate: leave.NewDate(year-2, 4, 1), Active: true,
		},
		{
			// Recent hire still inside the six-month probation window.
			ID: "emp-bob", Name: "Bob Chen", Email: "bob@example.com",
			Role: leave.RoleEmployee, Department: "eng", Gender: leave.GenderMale,
			HireDate: today.AddMonths(-2), Active: true,
		},
		{
			// Transferred in with a negotiated opening balance.
			ID: "emp-carol", Name: "Carol Davis", Email: "carol@example.com",
			Role: leave.RoleEmployee, Department: "ops", Gender: leave.GenderFemale,
			HireDate: leave.NewDate(year-1, 9, 1), Active: true,
			ManualAnnualBalance: &manual,
		},
	}

	allocator := leave.NewAllocator(store, clock)
	for _, e := range employees {
		if err := store.PutEmployee(ctx, e); err != nil {
			return fmt.Errorf("seeding employee %s: %w", e.ID, err)
		}
		if err := allocator.InitializeBalances(ctx, e, year); err != nil {
			return fmt.Errorf("initializing balances for %s: %w", e.ID, err)
		}
	}
	return nil
}
