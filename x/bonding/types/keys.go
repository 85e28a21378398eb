package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "bonding"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	GatewayConfigKey      = []byte{0x01} // swap gateway config
	BondingConfigKey      = []byte{0x02} // bonding controller config
	GraduationConfigKey   = []byte{0x03} // graduated asset factory config
	TaxCollectorConfigKey = []byte{0x04} // tax collector config

	CapabilityKeyPrefix = []byte{0x10} // prefix for capability grants
	ReentrancyLockKey   = []byte{0x11} // in-flight operation marker

	PairKeyPrefix      = []byte{0x20} // prefix for pairs by token
	TokenInfoKeyPrefix = []byte{0x21} // prefix for token info by token
	TokenIndexPrefix   = []byte{0x22} // prefix for launch order index
	TokenCountKey      = []byte{0x23} // key for number of launched tokens
	ProfileKeyPrefix   = []byte{0x24} // prefix for creator profiles

	BondingSupplyPrefix  = []byte{0x30} // prefix for bonding token supply
	BondingBalancePrefix = []byte{0x31} // prefix for bonding token balances

	GraduatedAssetPrefix = []byte{0x40} // prefix for graduated assets by address
	AgentBalancePrefix   = []byte{0x41} // prefix for graduated asset balances
	PendingSeedPrefix    = []byte{0x42} // prefix for failed venue seeds awaiting retry

	TaxAccumulatorKey = []byte{0x50} // tax collector accumulator
)

// GetCapabilityKey returns the store key for a capability grant
func GetCapabilityKey(capability Capability, addr sdk.AccAddress) []byte {
	key := append([]byte{}, CapabilityKeyPrefix...)
	key = append(key, address.MustLengthPrefix([]byte(capability))...)
	return append(key, addr...)
}

// GetCapabilityPrefix returns the prefix for all holders of a capability
func GetCapabilityPrefix(capability Capability) []byte {
	key := append([]byte{}, CapabilityKeyPrefix...)
	return append(key, address.MustLengthPrefix([]byte(capability))...)
}

// GetPairKey returns the store key for the pair of a bonding token
func GetPairKey(token sdk.AccAddress) []byte {
	return append(append([]byte{}, PairKeyPrefix...), token...)
}

// GetTokenInfoKey returns the store key for token info
func GetTokenInfoKey(token sdk.AccAddress) []byte {
	return append(append([]byte{}, TokenInfoKeyPrefix...), token...)
}

// GetTokenIndexKey returns the store key for the token launched at index
func GetTokenIndexKey(index uint64) []byte {
	return append(append([]byte{}, TokenIndexPrefix...), sdk.Uint64ToBigEndian(index)...)
}

// GetProfileKey returns the store key for a creator profile
func GetProfileKey(creator sdk.AccAddress) []byte {
	return append(append([]byte{}, ProfileKeyPrefix...), creator...)
}

// GetBondingSupplyKey returns the store key for a bonding token's supply
func GetBondingSupplyKey(token sdk.AccAddress) []byte {
	return append(append([]byte{}, BondingSupplyPrefix...), token...)
}

// GetBondingBalanceKey returns the store key for a holder's bonding token balance
func GetBondingBalanceKey(token, holder sdk.AccAddress) []byte {
	key := append([]byte{}, BondingBalancePrefix...)
	key = append(key, address.MustLengthPrefix(token)...)
	return append(key, holder...)
}

// GetBondingBalancePrefix returns the prefix for all balances of a bonding token
func GetBondingBalancePrefix(token sdk.AccAddress) []byte {
	key := append([]byte{}, BondingBalancePrefix...)
	return append(key, address.MustLengthPrefix(token)...)
}

// GetGraduatedAssetKey returns the store key for a graduated asset
func GetGraduatedAssetKey(asset sdk.AccAddress) []byte {
	return append(append([]byte{}, GraduatedAssetPrefix...), asset...)
}

// GetAgentBalanceKey returns the store key for a holder's graduated asset balance
func GetAgentBalanceKey(asset, holder sdk.AccAddress) []byte {
	key := append([]byte{}, AgentBalancePrefix...)
	key = append(key, address.MustLengthPrefix(asset)...)
	return append(key, holder...)
}

// GetAgentBalancePrefix returns the prefix for all balances of a graduated asset
func GetAgentBalancePrefix(asset sdk.AccAddress) []byte {
	key := append([]byte{}, AgentBalancePrefix...)
	return append(key, address.MustLengthPrefix(asset)...)
}

// GetPendingSeedKey returns the store key for a pending venue seed
func GetPendingSeedKey(token sdk.AccAddress) []byte {
	return append(append([]byte{}, PendingSeedPrefix...), token...)
}
