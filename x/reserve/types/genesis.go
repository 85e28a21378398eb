package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AccountBalance is one account's holdings
type AccountBalance struct {
	Address sdk.AccAddress `json:"address"`
	Coins   sdk.Coins      `json:"coins"`
}

// GenesisState is the exported reserve ledger
type GenesisState struct {
	Balances []AccountBalance `json:"balances"`
}

// DefaultGenesis returns an empty ledger
func DefaultGenesis() *GenesisState {
	return &GenesisState{Balances: []AccountBalance{}}
}

// Validate ensures every entry is a valid, unique account balance
func (gs GenesisState) Validate() error {
	seen := make(map[string]bool, len(gs.Balances))
	for _, b := range gs.Balances {
		if b.Address.Empty() {
			return fmt.Errorf("empty address in reserve genesis")
		}
		if seen[b.Address.String()] {
			return fmt.Errorf("duplicate balance for %s", b.Address)
		}
		seen[b.Address.String()] = true
		if err := b.Coins.Validate(); err != nil {
			return fmt.Errorf("invalid coins for %s: %w", b.Address, err)
		}
	}
	return nil
}
