package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/royalty-ledger/internal/money"
	"github.com/feral-file/royalty-ledger/internal/registry"
)

func writeGenesis(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadGenesis(t *testing.T) {
	t.Run("loads balances", func(t *testing.T) {
		path := writeGenesis(t, `{"alice": 1000000, "bob": 500000}`)

		balances, err := registry.LoadGenesis(path)
		require.NoError(t, err)
		assert.Len(t, balances, 2)
		assert.Equal(t, money.Amount(1000000), balances["alice"])
		assert.Equal(t, money.Amount(500000), balances["bob"])
	})

	t.Run("empty file content", func(t *testing.T) {
		path := writeGenesis(t, `{}`)

		balances, err := registry.LoadGenesis(path)
		require.NoError(t, err)
		assert.Empty(t, balances)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := registry.LoadGenesis(filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorContains(t, err, "failed to read genesis file")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeGenesis(t, `{"alice": `)

		_, err := registry.LoadGenesis(path)
		assert.ErrorContains(t, err, "failed to parse genesis JSON")
	})

	t.Run("rejects empty address", func(t *testing.T) {
		path := writeGenesis(t, `{"": 100}`)

		_, err := registry.LoadGenesis(path)
		assert.ErrorContains(t, err, "empty account address")
	})

	t.Run("rejects direct treasury funding", func(t *testing.T) {
		path := writeGenesis(t, `{"treasury": 100}`)

		_, err := registry.LoadGenesis(path)
		assert.ErrorContains(t, err, "treasury")
	})
}
