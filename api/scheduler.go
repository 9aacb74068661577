/*
scheduler.go - Automated monthly accrual scheduler

PURPOSE:
  Runs the annual-leave accrual top-up on the first day of each month
  without an external cron. The job itself is idempotent (a re-run in
  the same month finds no positive diff), so an occasional extra run
  is harmless.

DESIGN:
  - Background goroutine with a check ticker
  - Runs the accrual when the month has rolled over since the last run
  - RunNow() for admin/manual triggering

USAGE:
  scheduler := NewAccrualScheduler(store, clock)
  scheduler.Start()
  // ... later
  scheduler.Stop()
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/leave-engine/leave"
)

// AccrualScheduler triggers the monthly accrual run.
type AccrualScheduler struct {
	Store         leave.Store
	Allocator     *leave.Allocator
	Clock         leave.Clock
	CheckInterval time.Duration

	mu      sync.Mutex
	lastRun leave.Date
	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewAccrualScheduler creates a scheduler checking hourly.
func NewAccrualScheduler(store leave.Store, clock leave.Clock) *AccrualScheduler {
	return &AccrualScheduler{
		Store:         store,
		Allocator:     leave.NewAllocator(store, clock),
		Clock:         clock,
		CheckInterval: time.Hour,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (s *AccrualScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)
	go s.run()

	log.Printf("[Accrual] Scheduler started, check interval %v", s.CheckInterval)
}

// Stop stops the scheduler and waits for the loop to exit.
func (s *AccrualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		log.Println("[Accrual] Scheduler stopped")
	}
}

func (s *AccrualScheduler) run() {
	defer s.wg.Done()

	s.checkAndRun()
	for {
		select {
		case <-s.ticker.C:
			s.checkAndRun()
		case <-s.stop:
			return
		}
	}
}

// checkAndRun fires the accrual once per calendar month, on or after
// the 1st.
func (s *AccrualScheduler) checkAndRun() {
	today := s.Clock.Today()

	s.mu.Lock()
	alreadyRan := !s.lastRun.IsZero() &&
		s.lastRun.Year() == today.Year() && s.lastRun.Month() == today.Month()
	s.mu.Unlock()

	if alreadyRan {
		return
	}
	s.RunNow()
}

// RunNow runs the accrual immediately for all employees.
func (s *AccrualScheduler) RunNow() {
	ctx := context.Background()
	today := s.Clock.Today()

	employees, err := s.Store.ListEmployees(ctx)
	if err != nil {
		log.Printf("[Accrual] Error listing employees: %v", err)
		return
	}

	allocs, err := s.Allocator.RunMonthlyAccrual(ctx, employees)
	if err != nil {
		log.Printf("[Accrual] Run failed: %v", err)
		return
	}

	s.mu.Lock()
	s.lastRun = today
	s.mu.Unlock()

	if len(allocs) > 0 {
		log.Printf("[Accrual] Completed: %d allocation(s) recorded", len(allocs))
	}
}
