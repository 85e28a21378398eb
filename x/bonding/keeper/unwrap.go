package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// Unwrap converts each holder's bonding balance 1:1 into the graduated asset.
// Holders with nothing to unwrap are skipped. Anyone may call it.
func (k Keeper) Unwrap(ctx context.Context, caller, token sdk.AccAddress, holders []sdk.AccAddress) ([]types.UnwrapResult, error) {
	var results []types.UnwrapResult
	err := k.withGuard(ctx, types.OpUnwrap, func(ctx sdk.Context) error {
		if err := k.authorize(ctx, types.OpUnwrap, caller); err != nil {
			return err
		}
		info, err := k.GetTokenInfo(ctx, token)
		if err != nil {
			return err
		}
		if !info.Graduated() {
			return types.ErrNotGraduated.Wrapf("token %s", token)
		}
		asset, err := k.GetGraduatedAsset(ctx, info.AgentToken)
		if err != nil {
			return err
		}

		results = make([]types.UnwrapResult, 0, len(holders))
		for _, holder := range holders {
			bal := k.BondingBalance(ctx, token, holder)
			if !bal.IsPositive() {
				continue
			}
			if asset.TotalSupply.Add(bal).GT(asset.MaxSupply) {
				return types.ErrSupplyMismatch.Wrapf("unwrapping %s for %s exceeds max supply %s", bal, holder, asset.MaxSupply)
			}
			if err := k.burnBonding(ctx, token, holder, bal); err != nil {
				return err
			}
			if err := k.mintAgent(ctx, &asset, holder, bal); err != nil {
				return err
			}
			asset.BondingBurned = asset.BondingBurned.Add(bal)
			asset.UnwrapMinted = asset.UnwrapMinted.Add(bal)

			ctx.EventManager().EmitEvent(sdk.NewEvent(
				types.EventTypeUnwrap,
				sdk.NewAttribute(types.AttributeKeyToken, token.String()),
				sdk.NewAttribute(types.AttributeKeyAgentToken, asset.Address.String()),
				sdk.NewAttribute(types.AttributeKeyHolder, holder.String()),
				sdk.NewAttribute(types.AttributeKeyAmount, bal.String()),
			))
			results = append(results, types.UnwrapResult{Holder: holder, Amount: bal})
		}
		return k.SetGraduatedAsset(ctx, asset)
	})
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		k.metrics.UnwrappedTokens.Add(toFloat(r.Amount))
	}
	return results, nil
}
