package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Balance is a token balance entry of one of the module's ledgers.
type Balance struct {
	Token  sdk.AccAddress `json:"token"`
	Holder sdk.AccAddress `json:"holder"`
	Amount math.Int       `json:"amount"`
}

// GenesisState is the exported state of the bonding module. A nil component
// config leaves that component uninitialized.
type GenesisState struct {
	Gateway         *GatewayParams          `json:"gateway,omitempty"`
	Bonding         *BondingParams          `json:"bonding,omitempty"`
	Graduation      *GraduationConfigParams `json:"graduation,omitempty"`
	TaxCollector    *TaxCollectorParams     `json:"tax_collector,omitempty"`
	Capabilities    []CapabilityGrant       `json:"capabilities"`
	Tokens          []TokenInfo             `json:"tokens"`
	Pairs           []Pair                  `json:"pairs"`
	BondingBalances []Balance               `json:"bonding_balances"`
	GraduatedAssets []GraduatedAsset        `json:"graduated_assets"`
	AgentBalances   []Balance               `json:"agent_balances"`
	PendingSeeds    []PendingSeed           `json:"pending_seeds"`
	TaxAccumulator  TaxAccumulator          `json:"tax_accumulator"`
}

// DefaultGenesis returns the default genesis state for the bonding module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Capabilities:    DefaultCapabilityGrants(),
		Tokens:          []TokenInfo{},
		Pairs:           []Pair{},
		BondingBalances: []Balance{},
		GraduatedAssets: []GraduatedAsset{},
		AgentBalances:   []Balance{},
		PendingSeeds:    []PendingSeed{},
		TaxAccumulator:  NewTaxAccumulator(),
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if gs.Gateway != nil {
		if err := gs.Gateway.Validate(); err != nil {
			return fmt.Errorf("gateway: %w", err)
		}
	}
	if gs.Bonding != nil {
		if err := gs.Bonding.Validate(); err != nil {
			return fmt.Errorf("bonding: %w", err)
		}
	}
	if gs.Graduation != nil {
		if err := gs.Graduation.Supply.Validate(); err != nil {
			return fmt.Errorf("graduation: %w", err)
		}
		if err := gs.Graduation.Tax.Validate(); err != nil {
			return fmt.Errorf("graduation tax: %w", err)
		}
		if gs.Bonding != nil {
			if err := ValidateSupplyFits(*gs.Bonding, gs.Graduation.Supply); err != nil {
				return err
			}
		}
	}
	if gs.TaxCollector != nil {
		if err := gs.TaxCollector.Validate(); err != nil {
			return fmt.Errorf("tax collector: %w", err)
		}
	}

	for _, g := range gs.Capabilities {
		if err := g.Capability.Validate(); err != nil {
			return err
		}
		if g.Address.Empty() {
			return ErrInvalidGenesis.Wrapf("empty address for capability %s", g.Capability)
		}
	}

	pairs := make(map[string]bool, len(gs.Pairs))
	for _, p := range gs.Pairs {
		key := p.Token.String()
		if pairs[key] {
			return ErrInvalidGenesis.Wrapf("duplicate pair %s", key)
		}
		pairs[key] = true
		if p.ReserveA.IsNil() || p.ReserveB.IsNil() || p.ReserveA.IsNegative() || p.ReserveB.IsNegative() {
			return ErrInvalidGenesis.Wrapf("pair %s has invalid reserves", key)
		}
	}

	seenIndex := make(map[uint64]bool, len(gs.Tokens))
	seenToken := make(map[string]bool, len(gs.Tokens))
	for _, t := range gs.Tokens {
		if seenIndex[t.Index] {
			return ErrInvalidGenesis.Wrapf("duplicate token index %d", t.Index)
		}
		if seenToken[t.Token.String()] {
			return ErrInvalidGenesis.Wrapf("duplicate token %s", t.Token)
		}
		seenIndex[t.Index] = true
		seenToken[t.Token.String()] = true
		if !pairs[t.Token.String()] {
			return ErrInvalidGenesis.Wrapf("token %s has no pair", t.Token)
		}
		if t.TradingOnUniswap && t.AgentToken.Empty() {
			return ErrInvalidGenesis.Wrapf("graduated token %s has no agent token", t.Token)
		}
	}
	for i := range gs.Tokens {
		if !seenIndex[uint64(i)] {
			return ErrInvalidGenesis.Wrapf("token indexes must be contiguous from 0, missing %d", i)
		}
	}

	for _, b := range append(append([]Balance{}, gs.BondingBalances...), gs.AgentBalances...) {
		if b.Amount.IsNil() || b.Amount.IsNegative() {
			return ErrInvalidGenesis.Wrapf("negative balance for %s", b.Holder)
		}
	}
	for _, a := range gs.GraduatedAssets {
		if a.TotalSupply.GT(a.MaxSupply) {
			return ErrInvalidGenesis.Wrapf("asset %s supply exceeds max", a.Address)
		}
		if !a.UnwrapMinted.Equal(a.BondingBurned) {
			return ErrInvalidGenesis.Wrapf("asset %s unwrap minted != bonding burned", a.Address)
		}
	}
	return gs.TaxAccumulator.Validate()
}
