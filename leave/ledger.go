/*
ledger.go - Atomic balance adjustments

PURPOSE:
  The Ledger is the only code path that mutates LeaveBalance records.
  Each adjustment is one atomic read-modify-write on a single
  (employee, leave type, year) key, delegated to BalanceStore.Update,
  which serializes concurrent mutations of the same key.

ADJUSTMENTS AND WHO CALLS THEM:
  Reserve         +pending          Submit
  CommitPending   pending -> used   Management approval
  ReleasePending  -pending          Rejection
  RestoreUsed     -used             Recall
  RaiseAllocated  allocated = n     Monthly accrual (monotonic top-up)

INVARIANT:
  available = allocated - used - pending after every adjustment. The
  workflow checks available before Reserve, so normal flow never drives
  it negative; only an administrative override of allocated can.

WHY NOT CHECK INSIDE EVERY ADJUSTMENT?
  CommitPending, ReleasePending and RestoreUsed reverse or settle a
  reservation that already passed the availability check; re-checking
  would wrongly fail when an override lowered allocated afterwards.
*/
package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger applies balance adjustments through an atomic store.
type Ledger struct {
	Balances BalanceStore
}

func NewLedger(balances BalanceStore) *Ledger {
	return &Ledger{Balances: balances}
}

// Balance returns the current record for key, all-zero if never touched.
func (l *Ledger) Balance(ctx context.Context, key BalanceKey) (*LeaveBalance, error) {
	return l.Balances.GetBalance(ctx, key)
}

// Reserve holds days for a submitted request by incrementing pending.
// Fails with InsufficientBalanceError when days exceed available; the
// check and the increment happen inside one atomic update, so two
// concurrent submissions cannot both pass against the same headroom.
func (l *Ledger) Reserve(ctx context.Context, key BalanceKey, days decimal.Decimal) (*LeaveBalance, error) {
	return l.Balances.UpdateBalance(ctx, key, func(b *LeaveBalance) error {
		if b.Available().LessThan(days) {
			return &InsufficientBalanceError{Key: key, Available: b.Available(), Requested: days}
		}
		b.Pending = b.Pending.Add(days)
		return nil
	})
}

// CommitPending settles an approved request: pending -> used.
func (l *Ledger) CommitPending(ctx context.Context, key BalanceKey, days decimal.Decimal) (*LeaveBalance, error) {
	return l.Balances.UpdateBalance(ctx, key, func(b *LeaveBalance) error {
		b.Pending = b.Pending.Sub(days)
		b.Used = b.Used.Add(days)
		return nil
	})
}

// ReleasePending drops a reservation after rejection or cancellation.
func (l *Ledger) ReleasePending(ctx context.Context, key BalanceKey, days decimal.Decimal) (*LeaveBalance, error) {
	return l.Balances.UpdateBalance(ctx, key, func(b *LeaveBalance) error {
		b.Pending = b.Pending.Sub(days)
		return nil
	})
}

// RestoreUsed gives back unused days when an approved leave is recalled.
func (l *Ledger) RestoreUsed(ctx context.Context, key BalanceKey, days decimal.Decimal) (*LeaveBalance, error) {
	return l.Balances.UpdateBalance(ctx, key, func(b *LeaveBalance) error {
		b.Used = b.Used.Sub(days)
		return nil
	})
}

// RaiseAllocated lifts allocated to total if that is an increase, and
// reports the delta actually applied. Never decreases allocated: a drop
// in computed accrual is not back-applied.
func (l *Ledger) RaiseAllocated(ctx context.Context, key BalanceKey, total decimal.Decimal) (delta decimal.Decimal, err error) {
	_, err = l.Balances.UpdateBalance(ctx, key, func(b *LeaveBalance) error {
		delta = total.Sub(b.Allocated)
		if delta.IsPositive() {
			b.Allocated = total
		} else {
			delta = decimal.Zero
		}
		return nil
	})
	return delta, err
}

// SetAllocated overwrites allocated outright. Used by balance
// initialization, where the target value is authoritative.
func (l *Ledger) SetAllocated(ctx context.Context, key BalanceKey, total decimal.Decimal) (*LeaveBalance, error) {
	return l.Balances.UpdateBalance(ctx, key, func(b *LeaveBalance) error {
		b.Allocated = total
		return nil
	})
}
