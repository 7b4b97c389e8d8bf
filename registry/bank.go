package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/openclear-io/sealedbid/core"
)

// Bank is the fund-movement boundary between the registry and the hosting
// environment. Attach collects funds a caller attached to an operation into
// registry custody; Transfer releases custody funds to a recipient. Both
// report success or failure synchronously; a failure aborts the enclosing
// registry operation, which rolls back its own bookkeeping.
type Bank interface {
	Attach(ctx context.Context, from core.Identity, amount decimal.Decimal) error
	Transfer(ctx context.Context, to core.Identity, amount decimal.Decimal) error
}

// LedgerBank is an in-process Bank backed by a balance table. It backs the
// daemon's local mode and the test suite; a production deployment substitutes
// the environment's own value-transfer primitive.
type LedgerBank struct {
	mu       sync.Mutex
	balances map[core.Identity]decimal.Decimal
	custody  decimal.Decimal
}

// NewLedgerBank creates an empty LedgerBank. Accounts are funded via Deposit.
func NewLedgerBank() *LedgerBank {
	return &LedgerBank{
		balances: make(map[core.Identity]decimal.Decimal),
	}
}

// Deposit credits an account. This is the environment's funding boundary, not
// part of the auction protocol.
func (b *LedgerBank) Deposit(account core.Identity, amount decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] = b.balances[account].Add(amount)
}

// Balance returns the spendable balance of an account.
func (b *LedgerBank) Balance(account core.Identity) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account]
}

// Custody returns the total funds currently held on behalf of the registry.
func (b *LedgerBank) Custody() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.custody
}

// Attach debits the caller and moves the amount into custody. Fails if the
// caller's balance cannot cover the attachment; nothing moves on failure.
func (b *LedgerBank) Attach(_ context.Context, from core.Identity, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("attach %s from %s: negative amount", amount, from)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	balance := b.balances[from]
	if balance.LessThan(amount) {
		return fmt.Errorf("attach %s from %s: insufficient balance %s", amount, from, balance)
	}
	b.balances[from] = balance.Sub(amount)
	b.custody = b.custody.Add(amount)
	return nil
}

// Transfer releases custody funds to the recipient. Fails if custody cannot
// cover the amount; nothing moves on failure.
func (b *LedgerBank) Transfer(_ context.Context, to core.Identity, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("transfer %s to %s: negative amount", amount, to)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.custody.LessThan(amount) {
		return fmt.Errorf("transfer %s to %s: custody holds only %s", amount, to, b.custody)
	}
	b.custody = b.custody.Sub(amount)
	b.balances[to] = b.balances[to].Add(amount)
	return nil
}
