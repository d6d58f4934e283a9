package vault_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/royalty-ledger/internal/domain"
	"github.com/feral-file/royalty-ledger/internal/money"
	"github.com/feral-file/royalty-ledger/internal/vault"
)

func balanceOf(t *testing.T, v vault.Vault, account domain.Address) money.Amount {
	t.Helper()
	amount, err := v.Balance(context.Background(), account)
	require.NoError(t, err)
	return amount
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("moves value between accounts", func(t *testing.T) {
		v := vault.NewMemoryVault(map[domain.Address]money.Amount{
			"alice": 100,
		})

		err := v.Apply(ctx, []vault.Transfer{
			{From: "alice", To: "bob", Amount: 40},
		})
		require.NoError(t, err)

		assert.Equal(t, money.Amount(60), balanceOf(t, v, "alice"))
		assert.Equal(t, money.Amount(40), balanceOf(t, v, "bob"))
	})

	t.Run("batch is ordered", func(t *testing.T) {
		// bob starts empty; he can pay carol only because alice's
		// transfer lands first within the same batch
		v := vault.NewMemoryVault(map[domain.Address]money.Amount{
			"alice": 100,
		})

		err := v.Apply(ctx, []vault.Transfer{
			{From: "alice", To: "bob", Amount: 100},
			{From: "bob", To: "carol", Amount: 70},
		})
		require.NoError(t, err)

		assert.Equal(t, money.Amount(0), balanceOf(t, v, "alice"))
		assert.Equal(t, money.Amount(30), balanceOf(t, v, "bob"))
		assert.Equal(t, money.Amount(70), balanceOf(t, v, "carol"))
	})

	t.Run("failed batch leaves the vault untouched", func(t *testing.T) {
		v := vault.NewMemoryVault(map[domain.Address]money.Amount{
			"alice": 100,
			"bob":   50,
		})

		err := v.Apply(ctx, []vault.Transfer{
			{From: "alice", To: "bob", Amount: 60}, // would clear alone
			{From: "bob", To: "carol", Amount: 200},
		})
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)

		assert.Equal(t, money.Amount(100), balanceOf(t, v, "alice"))
		assert.Equal(t, money.Amount(50), balanceOf(t, v, "bob"))
		assert.Equal(t, money.Amount(0), balanceOf(t, v, "carol"))
	})

	t.Run("zero-amount transfers are skipped", func(t *testing.T) {
		v := vault.NewMemoryVault(nil)

		// "alice" has no balance at all, but a zero transfer never debits
		err := v.Apply(ctx, []vault.Transfer{
			{From: "alice", To: "bob", Amount: 0},
		})
		require.NoError(t, err)
		assert.Equal(t, money.Amount(0), balanceOf(t, v, "bob"))
	})

	t.Run("self transfer is a no-op", func(t *testing.T) {
		v := vault.NewMemoryVault(map[domain.Address]money.Amount{
			"alice": 100,
		})

		err := v.Apply(ctx, []vault.Transfer{
			{From: "alice", To: "alice", Amount: 100},
		})
		require.NoError(t, err)
		assert.Equal(t, money.Amount(100), balanceOf(t, v, "alice"))
	})

	t.Run("credit overflow rejects the batch", func(t *testing.T) {
		v := vault.NewMemoryVault(map[domain.Address]money.Amount{
			"alice": math.MaxUint64,
			"bob":   10,
		})

		err := v.Apply(ctx, []vault.Transfer{
			{From: "bob", To: "alice", Amount: 1},
		})
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Equal(t, money.Amount(10), balanceOf(t, v, "bob"))
	})

	t.Run("empty batch", func(t *testing.T) {
		v := vault.NewMemoryVault(nil)
		assert.NoError(t, v.Apply(ctx, nil))
	})
}

func TestCredit(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemoryVault(nil)

	require.NoError(t, v.Credit(ctx, "alice", 100))
	require.NoError(t, v.Credit(ctx, "alice", 25))
	assert.Equal(t, money.Amount(125), balanceOf(t, v, "alice"))

	err := v.Credit(ctx, "alice", math.MaxUint64)
	assert.Error(t, err)
	assert.Equal(t, money.Amount(125), balanceOf(t, v, "alice"))
}

func TestNewMemoryVaultCopiesSeed(t *testing.T) {
	seed := map[domain.Address]money.Amount{"alice": 100}
	v := vault.NewMemoryVault(seed)

	seed["alice"] = 0
	assert.Equal(t, money.Amount(100), balanceOf(t, v, "alice"))
}
