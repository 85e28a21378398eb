package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// GetGraduatedAsset returns a graduated asset by address
func (k Keeper) GetGraduatedAsset(ctx context.Context, addr sdk.AccAddress) (types.GraduatedAsset, error) {
	asset, found, err := getJSON[types.GraduatedAsset](k.getStore(ctx), types.GetGraduatedAssetKey(addr))
	if err != nil {
		return types.GraduatedAsset{}, err
	}
	if !found {
		return types.GraduatedAsset{}, types.ErrTokenNotFound.Wrapf("graduated asset %s", addr)
	}
	return asset, nil
}

// GetGraduatedAssetByToken returns the graduated asset of a bonding token
func (k Keeper) GetGraduatedAssetByToken(ctx context.Context, token sdk.AccAddress) (types.GraduatedAsset, error) {
	return k.GetGraduatedAsset(ctx, types.AgentAddress(token))
}

// SetGraduatedAsset persists a graduated asset
func (k Keeper) SetGraduatedAsset(ctx context.Context, asset types.GraduatedAsset) error {
	return setJSON(k.getStore(ctx), types.GetGraduatedAssetKey(asset.Address), asset)
}

// GetAllGraduatedAssets returns every graduated asset
func (k Keeper) GetAllGraduatedAssets(ctx context.Context) ([]types.GraduatedAsset, error) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.GraduatedAssetPrefix)
	defer iter.Close()

	assets := []types.GraduatedAsset{}
	for ; iter.Valid(); iter.Next() {
		var asset types.GraduatedAsset
		if err := json.Unmarshal(iter.Value(), &asset); err != nil {
			return nil, fmt.Errorf("GetAllGraduatedAssets: decode %x: %w", iter.Key(), err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// AgentBalance returns holder's balance of a graduated asset
func (k Keeper) AgentBalance(ctx context.Context, asset, holder sdk.AccAddress) math.Int {
	bal, err := getInt(k.getStore(ctx), types.GetAgentBalanceKey(asset, holder))
	if err != nil {
		k.Logger(ctx).Error("corrupt graduated asset balance", "asset", asset.String(), "holder", holder.String(), "error", err)
		return math.ZeroInt()
	}
	return bal
}

// GetAgentBalances returns every non-zero graduated asset balance.
func (k Keeper) GetAgentBalances(ctx context.Context) []types.Balance {
	return k.iterateBalances(ctx, types.AgentBalancePrefix)
}

func (k Keeper) setAgentBalance(ctx context.Context, asset, holder sdk.AccAddress, amount math.Int) error {
	return setInt(k.getStore(ctx), types.GetAgentBalanceKey(asset, holder), amount)
}

// mintAgent credits to and raises the asset's supply. The caller persists asset.
func (k Keeper) mintAgent(ctx context.Context, asset *types.GraduatedAsset, to sdk.AccAddress, amount math.Int) error {
	if amount.IsNil() || amount.IsZero() {
		return nil
	}
	total := asset.TotalSupply.Add(amount)
	if total.GT(asset.MaxSupply) {
		return types.ErrSupplyMismatch.Wrapf("minting %s would raise supply to %s above max %s", amount, total, asset.MaxSupply)
	}
	if to.Empty() {
		return types.ErrInvalidAddress.Wrap("mint recipient cannot be empty")
	}
	if err := k.setAgentBalance(ctx, asset.Address, to, k.AgentBalance(ctx, asset.Address, to).Add(amount)); err != nil {
		return err
	}
	asset.TotalSupply = total
	return nil
}

// moveAgent transfers balance without applying any transfer rule.
func (k Keeper) moveAgent(ctx context.Context, asset, from, to sdk.AccAddress, amount math.Int) error {
	bal := k.AgentBalance(ctx, asset, from)
	if bal.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("%s holds %s of %s, need %s", from, bal, asset, amount)
	}
	if err := k.setAgentBalance(ctx, asset, from, bal.Sub(amount)); err != nil {
		return err
	}
	return k.setAgentBalance(ctx, asset, to, k.AgentBalance(ctx, asset, to).Add(amount))
}

// TransferAgent moves a graduated asset from sender to recipient under the
// asset's standing rules and returns the amount received after tax.
//
// Checks run in order: bot protection, per-transaction cap, per-wallet cap,
// sender balance. Buys (sender is the pool) and sells (recipient is the pool)
// are taxed; the tax is held by the asset and forwarded on sells once it
// reaches the swap threshold.
func (k Keeper) TransferAgent(ctx context.Context, assetAddr, from, to sdk.AccAddress, amount math.Int) (math.Int, error) {
	received := math.ZeroInt()
	err := k.withGuard(ctx, types.OpTransferAgent, func(ctx sdk.Context) error {
		asset, err := k.GetGraduatedAsset(ctx, assetAddr)
		if err != nil {
			return err
		}
		received, err = k.transferAgent(ctx, &asset, from, to, amount)
		if err != nil {
			return err
		}
		return k.SetGraduatedAsset(ctx, asset)
	})
	return received, err
}

func (k Keeper) transferAgent(ctx sdk.Context, asset *types.GraduatedAsset, from, to sdk.AccAddress, amount math.Int) (math.Int, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}
	if from.Empty() || to.Empty() {
		return math.ZeroInt(), types.ErrInvalidAddress.Wrap("sender and recipient are required")
	}

	// 1. Bot protection: only the factory and vault may move tokens
	if asset.BotProtectionActive(blockTime(ctx)) && !asset.Exempt(from) {
		return math.ZeroInt(), types.ErrBotProtectionActive.Wrapf("transfers open at %d", asset.BotProtectionUntil)
	}

	// 2. Per-transaction cap
	if !asset.Exempt(from) && !asset.Exempt(to) && amount.GT(asset.Limits.MaxTokensPerTxn) {
		return math.ZeroInt(), types.ErrExceedsMaxTransaction.Wrapf("%s > %s", amount, asset.Limits.MaxTokensPerTxn)
	}

	// 3. Tax and per-wallet cap
	tax := math.ZeroInt()
	switch {
	case asset.IsPool(from):
		tax = types.MulBps(amount, asset.Tax.ProjectBuyTaxBasisPoints)
	case asset.IsPool(to):
		tax = types.MulBps(amount, asset.Tax.ProjectSellTaxBasisPoints)
	}
	received := amount.Sub(tax)
	if !asset.Exempt(to) && !asset.IsPool(to) {
		after := k.AgentBalance(ctx, asset.Address, to).Add(received)
		if after.GT(asset.Limits.MaxTokensPerWallet) {
			return math.ZeroInt(), types.ErrExceedsMaxWallet.Wrapf("%s would hold %s > %s", to, after, asset.Limits.MaxTokensPerWallet)
		}
	}

	// 4. Balances
	if err := k.moveAgent(ctx, asset.Address, from, to, amount); err != nil {
		return math.ZeroInt(), err
	}
	if tax.IsPositive() {
		if err := k.moveAgent(ctx, asset.Address, to, asset.Address, tax); err != nil {
			return math.ZeroInt(), err
		}
		asset.PendingTax = asset.PendingTax.Add(tax)
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTransfer,
		sdk.NewAttribute(types.AttributeKeyAgentToken, asset.Address.String()),
		sdk.NewAttribute(types.AttributeKeySender, from.String()),
		sdk.NewAttribute(types.AttributeKeyRecipient, to.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, received.String()),
		sdk.NewAttribute(types.AttributeKeyTax, tax.String()),
	))

	if asset.IsPool(to) && asset.PendingTax.IsPositive() && asset.PendingTax.GTE(asset.TaxSwapThreshold()) {
		k.forwardAgentTax(ctx, asset)
	}
	return received, nil
}

// forwardAgentTax swaps the asset's pending tax to its tax recipient. Router
// failures keep the tax pending and never fail the transfer.
func (k Keeper) forwardAgentTax(ctx sdk.Context, asset *types.GraduatedAsset) {
	gp, err := k.GetGatewayParams(ctx)
	if err != nil {
		return
	}
	amount := asset.PendingTax

	cacheCtx, write := ctx.CacheContext()
	out, err := k.routeSwap(cacheCtx, types.SwapRequest{
		TokenIn:      asset.Address.String(),
		TokenOut:     gp.AssetDenom,
		AmountIn:     amount,
		MinAmountOut: math.ZeroInt(),
		Recipient:    asset.Tax.TaxRecipient,
	}, func(ctx sdk.Context) error {
		return k.moveAgent(ctx, asset.Address, asset.Address, k.router.Address(), amount)
	})
	if err != nil {
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeAgentTaxFailed,
			sdk.NewAttribute(types.AttributeKeyAgentToken, asset.Address.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyError, err.Error()),
		))
		k.metrics.AgentTaxForwarded.WithLabelValues("failed").Inc()
		k.Logger(ctx).Error("graduated asset tax forward failed, tax retained", "asset", asset.Address.String(), "error", err)
		return
	}
	write()

	asset.PendingTax = math.ZeroInt()
	if asset.Tax.TaxRecipient.Equals(types.ControllerAddress()) && out.IsPositive() {
		if err := k.onTaxReceived(ctx, out); err != nil {
			k.Logger(ctx).Error("failed to credit forwarded tax", "error", errorsmod.Wrap(err, "onTaxReceived"))
		}
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeAgentTaxForwarded,
		sdk.NewAttribute(types.AttributeKeyAgentToken, asset.Address.String()),
		sdk.NewAttribute(types.AttributeKeyAmountIn, amount.String()),
		sdk.NewAttribute(types.AttributeKeyAmountOut, out.String()),
	))
	k.metrics.AgentTaxForwarded.WithLabelValues("success").Inc()
}
