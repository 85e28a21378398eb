package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// GatewayBuy swaps assetIn of trader's reserve asset for bonding tokens.
// Requires the executor capability.
func (k Keeper) GatewayBuy(ctx context.Context, caller, token, trader sdk.AccAddress, assetIn, minOut math.Int) (types.SwapResult, error) {
	var res types.SwapResult
	err := k.withGuard(ctx, types.OpGatewayBuy, func(ctx sdk.Context) error {
		var err error
		res, err = k.gatewayBuy(ctx, caller, token, trader, assetIn, minOut)
		return err
	})
	return res, err
}

// GatewaySell swaps tokenIn of trader's bonding tokens for reserve asset.
// Requires the executor capability.
func (k Keeper) GatewaySell(ctx context.Context, caller, token, trader sdk.AccAddress, tokenIn, minOut math.Int) (types.SwapResult, error) {
	var res types.SwapResult
	err := k.withGuard(ctx, types.OpGatewaySell, func(ctx sdk.Context) error {
		var err error
		res, err = k.gatewaySell(ctx, caller, token, trader, tokenIn, minOut)
		return err
	})
	return res, err
}

func (k Keeper) gatewayBuy(ctx sdk.Context, caller, token, trader sdk.AccAddress, assetIn, minOut math.Int) (types.SwapResult, error) {
	// 1. Authorization and limits
	if err := k.authorize(ctx, types.OpGatewayBuy, caller); err != nil {
		return types.SwapResult{}, err
	}
	gp, err := k.GetGatewayParams(ctx)
	if err != nil {
		return types.SwapResult{}, err
	}
	if assetIn.IsNil() || !assetIn.IsPositive() {
		return types.SwapResult{}, types.ErrInsufficientInput.Wrap("asset in must be positive")
	}
	if assetIn.GT(gp.MaxTx) {
		return types.SwapResult{}, types.ErrExceedsMaxTransaction.Wrapf("%s > %s", assetIn, gp.MaxTx)
	}

	// 2. Price the swap against a copy of the pair
	pair, err := k.GetPair(ctx, token)
	if err != nil {
		return types.SwapResult{}, err
	}
	tax := types.MulBps(assetIn, gp.BuyTaxBps)
	net := assetIn.Sub(tax)
	out, err := pair.Swap(net, pair.Asset, blockTime(ctx))
	if err != nil {
		return types.SwapResult{}, err
	}
	if !minOut.IsNil() && out.LT(minOut) {
		return types.SwapResult{}, types.ErrSlippageExceeded.Wrapf("got %s, want at least %s", out, minOut)
	}

	// 3. Move funds
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, trader, types.ModuleName, coins(pair.Asset, assetIn)); err != nil {
		return types.SwapResult{}, errorsmod.Wrap(types.ErrInsufficientFunds, err.Error())
	}
	if err := k.transferBonding(ctx, token, pair.Address(), trader, out); err != nil {
		return types.SwapResult{}, err
	}
	pair.AssetBalance = pair.AssetBalance.Add(net)
	if err := k.SetPair(ctx, pair); err != nil {
		return types.SwapResult{}, err
	}

	// 4. Forward tax
	if tax.IsPositive() {
		if err := k.onTaxReceived(ctx, tax); err != nil {
			return types.SwapResult{}, err
		}
		k.metrics.TaxAccrued.WithLabelValues(types.SideBuy).Add(toFloat(tax))
	}
	k.emitSwapEvent(ctx, types.SideBuy, trader, pair, assetIn, out, tax)
	k.maybeSwap(ctx)

	return types.SwapResult{AmountIn: assetIn, AmountOut: out, Tax: tax, Pair: pair}, nil
}

func (k Keeper) gatewaySell(ctx sdk.Context, caller, token, trader sdk.AccAddress, tokenIn, minOut math.Int) (types.SwapResult, error) {
	// 1. Authorization and limits
	if err := k.authorize(ctx, types.OpGatewaySell, caller); err != nil {
		return types.SwapResult{}, err
	}
	gp, err := k.GetGatewayParams(ctx)
	if err != nil {
		return types.SwapResult{}, err
	}
	if tokenIn.IsNil() || !tokenIn.IsPositive() {
		return types.SwapResult{}, types.ErrInsufficientInput.Wrap("token in must be positive")
	}

	// 2. Price the swap against a copy of the pair; the cap is in asset terms
	pair, err := k.GetPair(ctx, token)
	if err != nil {
		return types.SwapResult{}, err
	}
	out, err := pair.Swap(tokenIn, token.String(), blockTime(ctx))
	if err != nil {
		return types.SwapResult{}, err
	}
	if out.GT(gp.MaxTx) {
		return types.SwapResult{}, types.ErrExceedsMaxTransaction.Wrapf("sale worth %s > %s", out, gp.MaxTx)
	}
	if out.GT(pair.AssetBalance) {
		return types.SwapResult{}, types.ErrInsufficientLiquidity.Wrapf("pair holds %s, sale needs %s", pair.AssetBalance, out)
	}
	tax := types.MulBps(out, gp.SellTaxBps)
	net := out.Sub(tax)
	if !minOut.IsNil() && net.LT(minOut) {
		return types.SwapResult{}, types.ErrSlippageExceeded.Wrapf("got %s, want at least %s", net, minOut)
	}

	// 3. Move funds
	if err := k.transferBonding(ctx, token, trader, pair.Address(), tokenIn); err != nil {
		return types.SwapResult{}, err
	}
	pair.AssetBalance = pair.AssetBalance.Sub(out)
	if err := k.SetPair(ctx, pair); err != nil {
		return types.SwapResult{}, err
	}
	if net.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, trader, coins(pair.Asset, net)); err != nil {
			return types.SwapResult{}, errorsmod.Wrap(types.ErrInsufficientFunds, err.Error())
		}
	}

	// 4. Forward tax
	if tax.IsPositive() {
		if err := k.onTaxReceived(ctx, tax); err != nil {
			return types.SwapResult{}, err
		}
		k.metrics.TaxAccrued.WithLabelValues(types.SideSell).Add(toFloat(tax))
	}
	k.emitSwapEvent(ctx, types.SideSell, trader, pair, tokenIn, net, tax)
	k.maybeSwap(ctx)

	return types.SwapResult{AmountIn: tokenIn, AmountOut: net, Tax: tax, Pair: pair}, nil
}

// QuoteBuy returns the tokens and tax a buy of assetIn would produce now.
func (k Keeper) QuoteBuy(ctx context.Context, token sdk.AccAddress, assetIn math.Int) (out, tax math.Int, err error) {
	gp, err := k.GetGatewayParams(ctx)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	pair, err := k.GetPair(ctx, token)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	if assetIn.IsNil() || !assetIn.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInsufficientInput.Wrap("asset in must be positive")
	}
	tax = types.MulBps(assetIn, gp.BuyTaxBps)
	out, err = pair.GetAmountOut(assetIn.Sub(tax), pair.Asset)
	return out, tax, err
}

// QuoteSell returns the asset paid out and tax a sale of tokenIn would produce now.
func (k Keeper) QuoteSell(ctx context.Context, token sdk.AccAddress, tokenIn math.Int) (out, tax math.Int, err error) {
	gp, err := k.GetGatewayParams(ctx)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	pair, err := k.GetPair(ctx, token)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	gross, err := pair.GetAmountOut(tokenIn, token.String())
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	tax = types.MulBps(gross, gp.SellTaxBps)
	return gross.Sub(tax), tax, nil
}

func (k Keeper) emitSwapEvent(ctx sdk.Context, side string, trader sdk.AccAddress, pair types.Pair, in, out, tax math.Int) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSwap,
		sdk.NewAttribute(types.AttributeKeySide, side),
		sdk.NewAttribute(types.AttributeKeyToken, pair.Token.String()),
		sdk.NewAttribute(types.AttributeKeyTrader, trader.String()),
		sdk.NewAttribute(types.AttributeKeyAmountIn, in.String()),
		sdk.NewAttribute(types.AttributeKeyAmountOut, out.String()),
		sdk.NewAttribute(types.AttributeKeyTax, tax.String()),
		sdk.NewAttribute(types.AttributeKeyReserveA, pair.ReserveA.String()),
		sdk.NewAttribute(types.AttributeKeyReserveB, pair.ReserveB.String()),
	))
}
