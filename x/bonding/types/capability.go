package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Capability names a privilege that can be granted to an address.
type Capability string

const (
	// CapabilityAdmin initializes components and runs operator actions.
	CapabilityAdmin Capability = "admin"
	// CapabilityCreator may register new pairs.
	CapabilityCreator Capability = "creator"
	// CapabilityExecutor may drive gateway swaps.
	CapabilityExecutor Capability = "executor"
	// CapabilityBonding may create graduated assets.
	CapabilityBonding Capability = "bonding"
	// CapabilityTaxRouter may deliver converted tax to the collector.
	CapabilityTaxRouter Capability = "tax_router"
)

// AllCapabilities lists every capability in a stable order.
var AllCapabilities = []Capability{
	CapabilityAdmin,
	CapabilityCreator,
	CapabilityExecutor,
	CapabilityBonding,
	CapabilityTaxRouter,
}

// Validate returns an error for unknown capability names.
func (c Capability) Validate() error {
	for _, known := range AllCapabilities {
		if c == known {
			return nil
		}
	}
	return ErrInvalidParams.Wrapf("unknown capability %q", string(c))
}

// Operation identifies a state-changing entry point.
type Operation string

const (
	OpInitialize           Operation = "initialize"
	OpGrantCapability      Operation = "grant_capability"
	OpRevokeCapability     Operation = "revoke_capability"
	OpCreatePair           Operation = "create_pair"
	OpGatewayBuy           Operation = "gateway_buy"
	OpGatewaySell          Operation = "gateway_sell"
	OpCreateGraduatedAsset Operation = "create_graduated_asset"
	OpRetrySeedLiquidity   Operation = "retry_seed_liquidity"
	OpForceTaxSwap         Operation = "force_tax_swap"
	OpDepositTax           Operation = "deposit_tax"
	OpMaybeSwapTax         Operation = "maybe_swap_tax"
	OpLaunch               Operation = "launch"
	OpBuy                  Operation = "buy"
	OpSell                 Operation = "sell"
	OpUnwrap               Operation = "unwrap"
	OpTransferBonding      Operation = "transfer_bonding"
	OpTransferAgent        Operation = "transfer_agent"
)

// requiredCapabilities maps privileged operations to the capability they need.
// Operations absent from the table are open to any caller.
var requiredCapabilities = map[Operation]Capability{
	OpInitialize:           CapabilityAdmin,
	OpGrantCapability:      CapabilityAdmin,
	OpRevokeCapability:     CapabilityAdmin,
	OpRetrySeedLiquidity:   CapabilityAdmin,
	OpForceTaxSwap:         CapabilityAdmin,
	OpCreatePair:           CapabilityCreator,
	OpGatewayBuy:           CapabilityExecutor,
	OpGatewaySell:          CapabilityExecutor,
	OpCreateGraduatedAsset: CapabilityBonding,
	OpDepositTax:           CapabilityTaxRouter,
}

var publicOperations = map[Operation]bool{
	OpLaunch:          true,
	OpBuy:             true,
	OpSell:            true,
	OpUnwrap:          true,
	OpTransferBonding: true,
	OpTransferAgent:   true,
	OpMaybeSwapTax:    true,
}

// RequiredCapability reports the capability op requires. The boolean is false
// for public operations. Unknown operations return ErrInvalidOperation.
func RequiredCapability(op Operation) (Capability, bool, error) {
	if c, ok := requiredCapabilities[op]; ok {
		return c, true, nil
	}
	if publicOperations[op] {
		return "", false, nil
	}
	return "", false, ErrInvalidOperation.Wrap(string(op))
}

// CapabilityGrant records that Address holds Capability.
type CapabilityGrant struct {
	Capability Capability     `json:"capability"`
	Address    sdk.AccAddress `json:"address"`
}

// DefaultCapabilityGrants wires the module account to the capabilities the
// controller exercises on its own behalf.
func DefaultCapabilityGrants() []CapabilityGrant {
	controller := ControllerAddress()
	return []CapabilityGrant{
		{Capability: CapabilityCreator, Address: controller},
		{Capability: CapabilityExecutor, Address: controller},
		{Capability: CapabilityBonding, Address: controller},
	}
}
