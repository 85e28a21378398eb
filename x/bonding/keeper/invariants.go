package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// RegisterInvariants registers all bonding invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "pair-reserves", PairReservesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "bonding-supply", BondingSupplyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "graduated-supply", GraduatedSupplyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "tax-accounting", TaxAccountingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "asset-backing", AssetBackingInvariant(k))
}

// AllInvariants runs all invariants of the bonding module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, inv := range []sdk.Invariant{
			PairReservesInvariant(k),
			BondingSupplyInvariant(k),
			GraduatedSupplyInvariant(k),
			TaxAccountingInvariant(k),
		} {
			if res, stop := inv(ctx); stop {
				return res, stop
			}
		}
		return AssetBackingInvariant(k)(ctx)
	}
}

// CheckInvariants returns the first broken invariant as an error.
func CheckInvariants(ctx sdk.Context, k Keeper) error {
	if msg, broken := AllInvariants(k)(ctx); broken {
		return types.ErrInvariantViolation.Wrap(msg)
	}
	return nil
}

// PairReservesInvariant checks that every trading pair holds exactly its
// token reserve on the bonding ledger and that the stored k is current.
func PairReservesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pairs, err := k.GetAllPairs(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pair-reserves", err.Error()), true
		}
		for _, pair := range pairs {
			info, err := k.GetTokenInfo(ctx, pair.Token)
			if err != nil || info.Graduated() {
				continue
			}
			held := k.BondingBalance(ctx, pair.Token, pair.Address())
			if !held.Equal(pair.ReserveA) {
				count++
				msg += fmt.Sprintf("pair %s: ledger balance %s != reserve %s\n", pair.Token, held, pair.ReserveA)
			}
			if pair.AssetBalance.IsNegative() {
				count++
				msg += fmt.Sprintf("pair %s: negative asset balance %s\n", pair.Token, pair.AssetBalance)
			}
			if pair.KLast.IsNil() || pair.K().Cmp(pair.KLast.BigInt()) != 0 {
				count++
				msg += fmt.Sprintf("pair %s: reserve product %s != k_last %s\n", pair.Token, pair.K(), pair.KLast)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pair-reserves",
			fmt.Sprintf("found %d pair reserve mismatches\n%s", count, msg),
		), broken
	}
}

// BondingSupplyInvariant checks that each bonding token's supply equals the
// sum of its balances.
func BondingSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		sums := make(map[string]math.Int)
		for _, b := range k.GetBondingBalances(ctx) {
			if s, ok := sums[string(b.Token)]; ok {
				sums[string(b.Token)] = s.Add(b.Amount)
			} else {
				sums[string(b.Token)] = b.Amount
			}
		}
		infos, err := k.GetAllTokenInfos(ctx, 0, 0)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "bonding-supply", err.Error()), true
		}
		for _, info := range infos {
			sum, ok := sums[string(info.Token)]
			if !ok {
				sum = math.ZeroInt()
			}
			supply := k.BondingSupply(ctx, info.Token)
			if !supply.Equal(sum) {
				count++
				msg += fmt.Sprintf("token %s: supply %s != sum of balances %s\n", info.Token, supply, sum)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "bonding-supply",
			fmt.Sprintf("found %d bonding supply mismatches\n%s", count, msg),
		), broken
	}
}

// GraduatedSupplyInvariant checks the graduated assets: supply within the
// cap, supply equal to the sum of balances and unwraps minted 1:1 for burns.
func GraduatedSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		sums := make(map[string]math.Int)
		for _, b := range k.GetAgentBalances(ctx) {
			if s, ok := sums[string(b.Token)]; ok {
				sums[string(b.Token)] = s.Add(b.Amount)
			} else {
				sums[string(b.Token)] = b.Amount
			}
		}
		assets, err := k.GetAllGraduatedAssets(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "graduated-supply", err.Error()), true
		}
		for _, asset := range assets {
			if asset.TotalSupply.GT(asset.MaxSupply) {
				count++
				msg += fmt.Sprintf("asset %s: supply %s > max %s\n", asset.Address, asset.TotalSupply, asset.MaxSupply)
			}
			sum, ok := sums[string(asset.Address)]
			if !ok {
				sum = math.ZeroInt()
			}
			if !asset.TotalSupply.Equal(sum) {
				count++
				msg += fmt.Sprintf("asset %s: supply %s != sum of balances %s\n", asset.Address, asset.TotalSupply, sum)
			}
			if !asset.UnwrapMinted.Equal(asset.BondingBurned) {
				count++
				msg += fmt.Sprintf("asset %s: unwrap minted %s != bonding burned %s\n", asset.Address, asset.UnwrapMinted, asset.BondingBurned)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "graduated-supply",
			fmt.Sprintf("found %d graduated supply violations\n%s", count, msg),
		), broken
	}
}

// TaxAccountingInvariant checks balance == received - forwarded.
func TaxAccountingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		acc, err := k.GetTaxAccumulator(ctx)
		if err == nil {
			err = acc.Validate()
		}
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "tax-accounting", err.Error()), true
		}
		return sdk.FormatInvariant(types.ModuleName, "tax-accounting", "tax accumulator consistent"), false
	}
}

// AssetBackingInvariant checks that the module account holds at least the
// reserve asset it owes: raised pair balances, unswapped tax and escrowed
// pending seeds.
func AssetBackingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		gp, err := k.GetGatewayParams(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "asset-backing", "gateway not initialized"), false
		}

		owed := math.ZeroInt()
		pairs, err := k.GetAllPairs(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "asset-backing", err.Error()), true
		}
		for _, pair := range pairs {
			owed = owed.Add(pair.AssetBalance)
		}
		seeds, err := k.GetAllPendingSeeds(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "asset-backing", err.Error()), true
		}
		for _, seed := range seeds {
			owed = owed.Add(seed.AmountAsset)
		}
		acc, err := k.GetTaxAccumulator(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "asset-backing", err.Error()), true
		}
		owed = owed.Add(acc.Balance)

		held := k.bankKeeper.GetBalance(ctx, types.ControllerAddress(), gp.AssetDenom).Amount
		broken := held.LT(owed)
		return sdk.FormatInvariant(
			types.ModuleName, "asset-backing",
			fmt.Sprintf("module holds %s%s, owes %s%s\n", held, gp.AssetDenom, owed, gp.AssetDenom),
		), broken
	}
}
