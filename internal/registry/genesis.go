package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/feral-file/royalty-ledger/internal/domain"
	"github.com/feral-file/royalty-ledger/internal/money"
)

// GenesisData represents the structure of the genesis.json file.
// Key: account address, value: initial balance in the smallest currency unit.
type GenesisData map[string]uint64

// GenesisBalances are the funding balances the vault is seeded with
type GenesisBalances map[domain.Address]money.Amount

// LoadGenesis loads the initial account balances from a JSON file
func LoadGenesis(filePath string) (GenesisBalances, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec,G304 // This should be a trusted file
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}

	var genesisData GenesisData
	if err := json.Unmarshal(data, &genesisData); err != nil {
		return nil, fmt.Errorf("failed to parse genesis JSON: %w", err)
	}

	balances := make(GenesisBalances, len(genesisData))
	for account, amount := range genesisData {
		if account == "" {
			return nil, fmt.Errorf("genesis file contains an empty account address")
		}
		if account == string(domain.TreasuryAddress) {
			return nil, fmt.Errorf("genesis file must not fund the treasury account directly")
		}
		balances[domain.Address(account)] = money.Amount(amount)
	}

	return balances, nil
}
