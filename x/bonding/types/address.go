package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// Derivation keys for module-owned accounts.
var (
	tokenDerivationKey   = []byte("token")
	pairDerivationKey    = []byte("pair")
	agentDerivationKey   = []byte("agent")
	factoryDerivationKey = []byte("factory")
)

// ControllerAddress is the module account. It holds the reserve asset raised
// by every pair and the undistributed tax balance.
func ControllerAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(ModuleName)
}

// FactoryAddress escrows graduated-asset LP supply until the venue accepts it.
func FactoryAddress() sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, factoryDerivationKey))
}

// TokenAddress derives the address of the bonding token launched at index.
func TokenAddress(index uint64) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, tokenDerivationKey, sdk.Uint64ToBigEndian(index)))
}

// PairAddress derives the address holding a bonding token's pool reserves.
func PairAddress(token sdk.AccAddress) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, pairDerivationKey, token))
}

// AgentAddress derives the address of the graduated asset for a bonding token.
func AgentAddress(token sdk.AccAddress) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, agentDerivationKey, token))
}
