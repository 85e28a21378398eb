package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "reserve"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// LedgerVersion is the layout version written at genesis
	LedgerVersion uint64 = 1
)

var (
	BalancePrefix = []byte{0x01}
	SupplyPrefix  = []byte{0x02}

	// LedgerVersionKey keeps the store non-empty from genesis on
	LedgerVersionKey = []byte{0x03}
)

// GetBalanceKey returns the store key of addr's balance of denom
func GetBalanceKey(addr sdk.AccAddress, denom string) []byte {
	key := append([]byte{}, BalancePrefix...)
	key = append(key, address.MustLengthPrefix(addr)...)
	return append(key, []byte(denom)...)
}

// GetAccountPrefix returns the prefix of every balance held by addr
func GetAccountPrefix(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, BalancePrefix...), address.MustLengthPrefix(addr)...)
}

// GetSupplyKey returns the store key of denom's total supply
func GetSupplyKey(denom string) []byte {
	return append(append([]byte{}, SupplyPrefix...), []byte(denom)...)
}
