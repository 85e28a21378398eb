package keeper

import (
	"context"
	"fmt"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// InitGenesis initializes the bonding module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	store := k.getStore(ctx)

	// Component configs
	if genState.Gateway != nil {
		if err := storeParams(store, types.GatewayConfigKey, *genState.Gateway); err != nil {
			return fmt.Errorf("failed to set gateway params: %w", err)
		}
	}
	if genState.Bonding != nil {
		if err := storeParams(store, types.BondingConfigKey, *genState.Bonding); err != nil {
			return fmt.Errorf("failed to set bonding params: %w", err)
		}
	}
	if genState.Graduation != nil {
		if err := storeParams(store, types.GraduationConfigKey, *genState.Graduation); err != nil {
			return fmt.Errorf("failed to set graduation params: %w", err)
		}
	}
	if genState.TaxCollector != nil {
		if err := storeParams(store, types.TaxCollectorConfigKey, *genState.TaxCollector); err != nil {
			return fmt.Errorf("failed to set tax collector params: %w", err)
		}
	}

	for _, grant := range genState.Capabilities {
		k.setCapability(ctx, grant.Capability, grant.Address)
	}

	for _, pair := range genState.Pairs {
		if err := k.SetPair(ctx, pair); err != nil {
			return fmt.Errorf("failed to set pair %s: %w", pair.Token, err)
		}
	}

	// Tokens are appended in index order so the launch index and profiles line up
	tokens := append([]types.TokenInfo{}, genState.Tokens...)
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Index < tokens[j].Index })
	for _, info := range tokens {
		k.appendToken(ctx, info.Token)
		if err := k.SetTokenInfo(ctx, info); err != nil {
			return fmt.Errorf("failed to set token %s: %w", info.Token, err)
		}
		if err := k.addToProfile(ctx, info.Creator, info.Token); err != nil {
			return fmt.Errorf("failed to index creator of %s: %w", info.Token, err)
		}
	}

	// Supplies are derived from the balances
	supplies := make(map[string]math.Int)
	for _, b := range genState.BondingBalances {
		if err := k.setBondingBalance(ctx, b.Token, b.Holder, b.Amount); err != nil {
			return fmt.Errorf("failed to set bonding balance: %w", err)
		}
		key := string(b.Token)
		if s, ok := supplies[key]; ok {
			supplies[key] = s.Add(b.Amount)
		} else {
			supplies[key] = b.Amount
		}
	}
	for token, supply := range supplies {
		if err := setInt(store, types.GetBondingSupplyKey(sdk.AccAddress(token)), supply); err != nil {
			return fmt.Errorf("failed to set bonding supply: %w", err)
		}
	}

	for _, asset := range genState.GraduatedAssets {
		if err := k.SetGraduatedAsset(ctx, asset); err != nil {
			return fmt.Errorf("failed to set graduated asset %s: %w", asset.Address, err)
		}
	}
	for _, b := range genState.AgentBalances {
		if err := k.setAgentBalance(ctx, b.Token, b.Holder, b.Amount); err != nil {
			return fmt.Errorf("failed to set graduated asset balance: %w", err)
		}
	}
	for _, seed := range genState.PendingSeeds {
		if err := k.SetPendingSeed(ctx, seed); err != nil {
			return fmt.Errorf("failed to set pending seed %s: %w", seed.Token, err)
		}
	}

	if err := k.SetTaxAccumulator(ctx, genState.TaxAccumulator); err != nil {
		return fmt.Errorf("failed to set tax accumulator: %w", err)
	}
	return nil
}

// ExportGenesis returns the bonding module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	genesis := types.DefaultGenesis()

	if p, err := k.GetGatewayParams(ctx); err == nil {
		genesis.Gateway = &p
	}
	if p, err := k.GetBondingParams(ctx); err == nil {
		genesis.Bonding = &p
	}
	if p, err := k.GetGraduationParams(ctx); err == nil {
		genesis.Graduation = &p
	}
	if p, err := k.GetTaxCollectorParams(ctx); err == nil {
		genesis.TaxCollector = &p
	}

	genesis.Capabilities = k.GetAllCapabilityGrants(ctx)

	tokens, err := k.GetAllTokenInfos(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to export tokens: %w", err)
	}
	genesis.Tokens = tokens

	pairs, err := k.GetAllPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export pairs: %w", err)
	}
	genesis.Pairs = pairs
	genesis.BondingBalances = k.GetBondingBalances(ctx)

	assets, err := k.GetAllGraduatedAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export graduated assets: %w", err)
	}
	genesis.GraduatedAssets = assets
	genesis.AgentBalances = k.GetAgentBalances(ctx)

	seeds, err := k.GetAllPendingSeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export pending seeds: %w", err)
	}
	genesis.PendingSeeds = seeds

	acc, err := k.GetTaxAccumulator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export tax accumulator: %w", err)
	}
	genesis.TaxAccumulator = acc
	return genesis, nil
}
