package vault

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/feral-file/royalty-ledger/internal/domain"
	"github.com/feral-file/royalty-ledger/internal/money"
)

// Transfer moves an amount between two vault accounts
type Transfer struct {
	From   domain.Address
	To     domain.Address
	Amount money.Amount
}

// Vault is the value-transfer primitive the ledger engine settles through.
// Apply is all-or-nothing: either every transfer in the batch lands, or the
// vault is left untouched and an error is returned.
//
//go:generate mockgen -source=vault.go -destination=../mocks/vault.go -package=mocks -mock_names=Vault=MockVault
type Vault interface {
	// Apply executes a batch of transfers atomically, in order
	Apply(ctx context.Context, transfers []Transfer) error
	// Balance returns the current balance of an account
	Balance(ctx context.Context, account domain.Address) (money.Amount, error)
	// Credit deposits funds into an account
	Credit(ctx context.Context, account domain.Address, amount money.Amount) error
}

// memoryVault is an in-process Vault keeping balances under a single mutex
type memoryVault struct {
	mu       sync.Mutex
	balances map[domain.Address]money.Amount
}

// NewMemoryVault creates a vault seeded with the given balances
func NewMemoryVault(initial map[domain.Address]money.Amount) Vault {
	balances := make(map[domain.Address]money.Amount, len(initial))
	for account, amount := range initial {
		balances[account] = amount
	}
	return &memoryVault{balances: balances}
}

// Apply executes a batch of transfers atomically, in order. The batch is
// validated against a working copy of the touched balances; nothing is
// written back until every transfer has cleared.
func (v *memoryVault) Apply(_ context.Context, transfers []Transfer) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	staged := make(map[domain.Address]money.Amount, len(transfers)*2)
	balance := func(account domain.Address) money.Amount {
		if amount, ok := staged[account]; ok {
			return amount
		}
		return v.balances[account]
	}

	for i, t := range transfers {
		if t.Amount == 0 {
			continue
		}

		from := balance(t.From)
		if from < t.Amount {
			return fmt.Errorf("transfer %d: debit %d from %q exceeds balance %d: %w",
				i, t.Amount, t.From, from, domain.ErrInsufficientFunds)
		}

		// Debit first so a self-transfer reads its own post-debit balance
		staged[t.From] = from - t.Amount

		to := balance(t.To)
		if to > math.MaxUint64-t.Amount {
			return fmt.Errorf("transfer %d: credit to %q overflows: %w",
				i, t.To, domain.ErrInsufficientFunds)
		}
		staged[t.To] = to + t.Amount
	}

	for account, amount := range staged {
		v.balances[account] = amount
	}

	return nil
}

// Balance returns the current balance of an account
func (v *memoryVault) Balance(_ context.Context, account domain.Address) (money.Amount, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balances[account], nil
}

// Credit deposits funds into an account
func (v *memoryVault) Credit(_ context.Context, account domain.Address, amount money.Amount) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	current := v.balances[account]
	if current > math.MaxUint64-amount {
		return fmt.Errorf("credit %d to %q overflows balance %d", amount, account, current)
	}
	v.balances[account] = current + amount

	return nil
}
