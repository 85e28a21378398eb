package keeper

import (
	"context"
	"fmt"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// GetTaxAccumulator returns the collector's running totals
func (k Keeper) GetTaxAccumulator(ctx context.Context) (types.TaxAccumulator, error) {
	acc, found, err := getJSON[types.TaxAccumulator](k.getStore(ctx), types.TaxAccumulatorKey)
	if err != nil {
		return types.TaxAccumulator{}, err
	}
	if !found {
		return types.NewTaxAccumulator(), nil
	}
	return acc, nil
}

// SetTaxAccumulator persists the collector's running totals
func (k Keeper) SetTaxAccumulator(ctx context.Context, acc types.TaxAccumulator) error {
	return setJSON(k.getStore(ctx), types.TaxAccumulatorKey, acc)
}

// onTaxReceived credits tax the module account already holds.
func (k Keeper) onTaxReceived(ctx sdk.Context, amount math.Int) error {
	acc, err := k.GetTaxAccumulator(ctx)
	if err != nil {
		return err
	}
	acc.Receive(amount)
	if err := k.SetTaxAccumulator(ctx, acc); err != nil {
		return err
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTaxReceived,
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))
	k.metrics.TaxBalance.Set(toFloat(acc.Balance))
	return nil
}

// DepositTax pulls amount of reserve asset from caller into the collector.
// Requires the tax_router capability.
func (k Keeper) DepositTax(ctx context.Context, caller sdk.AccAddress, amount math.Int) error {
	return k.withGuard(ctx, types.OpDepositTax, func(ctx sdk.Context) error {
		if err := k.authorize(ctx, types.OpDepositTax, caller); err != nil {
			return err
		}
		if amount.IsNil() || !amount.IsPositive() {
			return types.ErrZeroAmount
		}
		gp, err := k.GetGatewayParams(ctx)
		if err != nil {
			return err
		}
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, caller, types.ModuleName, coins(gp.AssetDenom, amount)); err != nil {
			return errorsmod.Wrap(types.ErrInsufficientFunds, err.Error())
		}
		if err := k.onTaxReceived(ctx, amount); err != nil {
			return err
		}
		k.maybeSwap(ctx)
		return nil
	})
}

// MaybeSwap converts the accumulated tax when a threshold is met. Router
// failures are recorded and reported as swapped=false.
func (k Keeper) MaybeSwap(ctx context.Context) (bool, error) {
	var swapped bool
	err := k.withGuard(ctx, types.OpMaybeSwapTax, func(ctx sdk.Context) error {
		swapped = k.maybeSwap(ctx)
		return nil
	})
	return swapped, err
}

// ForceSwap converts the whole accumulated balance regardless of thresholds
// and cooldown. Admin only. Router failures are returned.
func (k Keeper) ForceSwap(ctx context.Context, caller sdk.AccAddress) (math.Int, error) {
	converted := math.ZeroInt()
	err := k.withGuard(ctx, types.OpForceTaxSwap, func(ctx sdk.Context) error {
		if err := k.authorize(ctx, types.OpForceTaxSwap, caller); err != nil {
			return err
		}
		params, err := k.GetTaxCollectorParams(ctx)
		if err != nil {
			return err
		}
		acc, err := k.GetTaxAccumulator(ctx)
		if err != nil {
			return err
		}
		if !acc.Balance.IsPositive() {
			return types.ErrNothingToSwap.Wrap("tax balance is zero")
		}
		converted, err = k.swapTax(ctx, acc, params)
		return err
	})
	// A failed conversion is still recorded on the accumulator.
	if err != nil && errorsmod.IsOf(err, types.ErrTaxSwapFailed) {
		k.recordTaxFailure(ctx, err)
	}
	return converted, err
}

// maybeSwap never fails the surrounding operation.
func (k Keeper) maybeSwap(ctx sdk.Context) bool {
	params, err := k.GetTaxCollectorParams(ctx)
	if err != nil {
		return false
	}
	acc, err := k.GetTaxAccumulator(ctx)
	if err != nil {
		k.Logger(ctx).Error("failed to load tax accumulator", "error", err)
		return false
	}
	if !types.ShouldSwap(acc, params, blockTime(ctx)) {
		return false
	}
	if _, err := k.swapTax(ctx, acc, params); err != nil {
		k.recordTaxFailure(ctx, err)
		return false
	}
	return true
}

// swapTax sends the full balance through the router to the treasury on a
// cached branch. Nothing is written when the router fails.
func (k Keeper) swapTax(ctx sdk.Context, acc types.TaxAccumulator, params types.TaxCollectorParams) (math.Int, error) {
	gp, err := k.GetGatewayParams(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	amount := acc.Balance
	minOut := types.MulBps(amount, params.MinOutputBps)

	cacheCtx, write := ctx.CacheContext()
	out, err := k.routeSwap(cacheCtx, types.SwapRequest{
		TokenIn:      gp.AssetDenom,
		TokenOut:     params.TaxAssetDenom,
		AmountIn:     amount,
		MinAmountOut: minOut,
		Recipient:    params.Treasury,
	}, func(ctx sdk.Context) error {
		return k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, k.router.Address(), coins(gp.AssetDenom, amount))
	})
	if err != nil {
		k.metrics.TaxSwaps.WithLabelValues("failed").Inc()
		return math.ZeroInt(), errorsmod.Wrap(types.ErrTaxSwapFailed, err.Error())
	}
	write()

	acc.Forward(amount, out, blockTime(ctx))
	if err := k.SetTaxAccumulator(ctx, acc); err != nil {
		return math.ZeroInt(), err
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTaxSwapped,
		sdk.NewAttribute(types.AttributeKeyAmountIn, amount.String()),
		sdk.NewAttribute(types.AttributeKeyAmountOut, out.String()),
		sdk.NewAttribute(types.AttributeKeyRecipient, params.Treasury.String()),
	))
	k.metrics.TaxSwaps.WithLabelValues("success").Inc()
	k.metrics.TaxBalance.Set(toFloat(acc.Balance))
	k.Logger(ctx).Info("tax converted", "amount_in", amount.String(), "amount_out", out.String())
	return out, nil
}

func (k Keeper) recordTaxFailure(ctx context.Context, cause error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	acc, err := k.GetTaxAccumulator(ctx)
	if err != nil {
		k.Logger(ctx).Error("failed to load tax accumulator", "error", err)
		return
	}
	acc.Fail(cause)
	if err := k.SetTaxAccumulator(ctx, acc); err != nil {
		k.Logger(ctx).Error("failed to record tax swap failure", "error", err)
		return
	}
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTaxSwapFailed,
		sdk.NewAttribute(types.AttributeKeyAmount, acc.Balance.String()),
		sdk.NewAttribute(types.AttributeKeyError, cause.Error()),
		sdk.NewAttribute(types.AttributeKeyAttempts, strconv.FormatUint(acc.FailedSwaps, 10)),
	))
	k.Logger(ctx).Error("tax swap failed, balance retained", "balance", acc.Balance.String(), "error", cause)
}

// routeSwap funds the router with fund and then asks it to swap, checking
// the minimum output.
func (k Keeper) routeSwap(ctx sdk.Context, req types.SwapRequest, fund func(ctx sdk.Context) error) (math.Int, error) {
	if k.router == nil {
		return math.ZeroInt(), fmt.Errorf("no swap router configured")
	}
	if err := fund(ctx); err != nil {
		return math.ZeroInt(), fmt.Errorf("fund router: %w", err)
	}
	out, err := k.router.SwapExactIn(ctx, req)
	if err != nil {
		return math.ZeroInt(), err
	}
	if out.IsNil() || out.LT(req.MinAmountOut) {
		return math.ZeroInt(), fmt.Errorf("router returned %s, below minimum %s", out, req.MinAmountOut)
	}
	return out, nil
}
