package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// Launch creates a bonding token, seeds its pair with the full supply against
// a virtual asset reserve and executes the creator's initial buy.
func (k Keeper) Launch(ctx context.Context, creator sdk.AccAddress, req types.LaunchRequest) (types.LaunchResult, error) {
	var res types.LaunchResult
	err := k.withGuard(ctx, types.OpLaunch, func(ctx sdk.Context) error {
		var err error
		res, err = k.launch(ctx, creator, req)
		return err
	})
	if err != nil {
		k.metrics.Launches.WithLabelValues("failed").Inc()
		return types.LaunchResult{}, err
	}
	k.metrics.Launches.WithLabelValues("success").Inc()
	k.metrics.TokensActive.Set(float64(k.TokenCount(ctx)))
	k.Logger(ctx).Info("token launched", "token", res.Token.String(), "index", res.Index, "creator", creator.String())
	return res, nil
}

func (k Keeper) launch(ctx sdk.Context, creator sdk.AccAddress, req types.LaunchRequest) (types.LaunchResult, error) {
	bp, err := k.GetBondingParams(ctx)
	if err != nil {
		return types.LaunchResult{}, err
	}
	gp, err := k.GetGatewayParams(ctx)
	if err != nil {
		return types.LaunchResult{}, err
	}

	// 1. Validate request
	if req.PurchaseAmount.IsNil() || req.PurchaseAmount.IsZero() {
		return types.LaunchResult{}, types.ErrZeroPurchase
	}
	if req.PurchaseAmount.IsNegative() {
		return types.LaunchResult{}, types.ErrInvalidAmount.Wrap("purchase amount cannot be negative")
	}
	if !req.PurchaseAmount.GT(bp.LaunchFee) {
		return types.LaunchResult{}, types.ErrInsufficientPurchase.Wrapf("purchase %s, fee %s", req.PurchaseAmount, bp.LaunchFee)
	}
	if creator.Empty() {
		return types.LaunchResult{}, types.ErrInvalidAddress.Wrap("creator cannot be empty")
	}
	if err := req.Validate(); err != nil {
		return types.LaunchResult{}, err
	}

	// 2. Collect launch fee
	if bp.LaunchFee.IsPositive() {
		if err := k.bankKeeper.SendCoins(ctx, creator, bp.FeeTo, coins(gp.AssetDenom, bp.LaunchFee)); err != nil {
			return types.LaunchResult{}, errorsmod.Wrap(types.ErrInsufficientFunds, err.Error())
		}
	}

	// 3. Mint the supply into a new pair
	index := k.TokenCount(ctx)
	token := types.TokenAddress(index)
	pair, err := k.createPair(ctx, types.ControllerAddress(), token)
	if err != nil {
		return types.LaunchResult{}, err
	}
	k.appendToken(ctx, token)

	supply, err := bp.TotalSupply()
	if err != nil {
		return types.LaunchResult{}, err
	}
	if err := k.mintBonding(ctx, token, pair.Address(), supply); err != nil {
		return types.LaunchResult{}, err
	}
	liquidity, err := VirtualLiquidity(supply, bp.AssetRate, bp.AssetDecimals)
	if err != nil {
		return types.LaunchResult{}, err
	}
	now := blockTime(ctx)
	if err := pair.AddInitialLiquidity(supply, liquidity, now); err != nil {
		return types.LaunchResult{}, err
	}
	if err := k.SetPair(ctx, pair); err != nil {
		return types.LaunchResult{}, err
	}

	// 4. Record the token
	info := types.TokenInfo{
		Index:       index,
		Creator:     creator,
		Token:       token,
		Pair:        pair.Address(),
		Description: req.Description,
		Cores:       req.Cores,
		Image:       req.Image,
		URLs:        req.URLs,
		Data:        types.NewMarketData(req.Name, req.Ticker, supply, pair, now),
		Trading:     true,
		Phase:       types.PhaseLaunched,
		LaunchedAt:  now,
	}
	if err := k.addToProfile(ctx, creator, token); err != nil {
		return types.LaunchResult{}, err
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeLaunched,
		sdk.NewAttribute(types.AttributeKeyToken, token.String()),
		sdk.NewAttribute(types.AttributeKeyPair, pair.Address().String()),
		sdk.NewAttribute(types.AttributeKeyCreator, creator.String()),
		sdk.NewAttribute(types.AttributeKeyIndex, strconv.FormatUint(index, 10)),
	))

	// 5. Initial buy for the creator
	if err := k.SetTokenInfo(ctx, info); err != nil {
		return types.LaunchResult{}, err
	}
	initialBuy := req.PurchaseAmount.Sub(bp.LaunchFee)
	swap, err := k.gatewayBuy(ctx, types.ControllerAddress(), token, creator, initialBuy, math.ZeroInt())
	if err != nil {
		return types.LaunchResult{}, err
	}
	info.Phase = types.PhaseTrading
	graduated, err := k.afterBuy(ctx, &info, swap, bp)
	if err != nil {
		return types.LaunchResult{}, err
	}
	if err := k.SetTokenInfo(ctx, info); err != nil {
		return types.LaunchResult{}, err
	}

	return types.LaunchResult{
		Token:      token,
		Pair:       pair.Address(),
		Index:      index,
		InitialBuy: swap,
		TokenInfo:  info,
		Graduated:  graduated,
	}, nil
}

// Buy spends amountIn of reserve asset on token through the gateway. The buy
// that lifts raised liquidity to the graduation threshold also graduates the
// token.
func (k Keeper) Buy(ctx context.Context, trader, token sdk.AccAddress, amountIn, minOut math.Int) (types.TradeResult, error) {
	var res types.TradeResult
	err := k.withGuard(ctx, types.OpBuy, func(ctx sdk.Context) error {
		var err error
		res, err = k.buy(ctx, trader, token, amountIn, minOut)
		return err
	})
	k.recordTrade(types.SideBuy, res, err)
	return res, err
}

// Sell returns amountIn of token to the pool through the gateway.
func (k Keeper) Sell(ctx context.Context, trader, token sdk.AccAddress, amountIn, minOut math.Int) (types.TradeResult, error) {
	var res types.TradeResult
	err := k.withGuard(ctx, types.OpSell, func(ctx sdk.Context) error {
		var err error
		res, err = k.sell(ctx, trader, token, amountIn, minOut)
		return err
	})
	k.recordTrade(types.SideSell, res, err)
	return res, err
}

func (k Keeper) buy(ctx sdk.Context, trader, token sdk.AccAddress, amountIn, minOut math.Int) (types.TradeResult, error) {
	bp, info, err := k.tradable(ctx, token, types.SideBuy, amountIn)
	if err != nil {
		return types.TradeResult{}, err
	}
	swap, err := k.gatewayBuy(ctx, types.ControllerAddress(), token, trader, amountIn, minOut)
	if err != nil {
		return types.TradeResult{}, err
	}
	graduated, err := k.afterBuy(ctx, &info, swap, bp)
	if err != nil {
		return types.TradeResult{}, err
	}
	if err := k.SetTokenInfo(ctx, info); err != nil {
		return types.TradeResult{}, err
	}
	k.emitTradeEvent(ctx, types.EventTypeBuy, trader, token, swap)
	return types.TradeResult{SwapResult: swap, Graduated: graduated, AgentToken: info.AgentToken}, nil
}

func (k Keeper) sell(ctx sdk.Context, trader, token sdk.AccAddress, amountIn, minOut math.Int) (types.TradeResult, error) {
	_, info, err := k.tradable(ctx, token, types.SideSell, amountIn)
	if err != nil {
		return types.TradeResult{}, err
	}
	swap, err := k.gatewaySell(ctx, types.ControllerAddress(), token, trader, amountIn, minOut)
	if err != nil {
		return types.TradeResult{}, err
	}
	info.Data.Update(swap.Pair, swap.AmountOut.Add(swap.Tax), blockTime(ctx))
	if err := k.SetTokenInfo(ctx, info); err != nil {
		return types.TradeResult{}, err
	}
	k.emitTradeEvent(ctx, types.EventTypeSell, trader, token, swap)
	return types.TradeResult{SwapResult: swap}, nil
}

// tradable loads the controller config and token and applies the
// controller's pre-trade checks. MaxTx caps the reserve asset side of the
// trade: the amount spent on a buy, the amount a sale would pay out.
func (k Keeper) tradable(ctx sdk.Context, token sdk.AccAddress, side string, amountIn math.Int) (types.BondingParams, types.TokenInfo, error) {
	bp, err := k.GetBondingParams(ctx)
	if err != nil {
		return types.BondingParams{}, types.TokenInfo{}, err
	}
	info, err := k.GetTokenInfo(ctx, token)
	if err != nil {
		return types.BondingParams{}, types.TokenInfo{}, err
	}
	if info.TradingOnUniswap {
		return types.BondingParams{}, types.TokenInfo{}, types.ErrAlreadyGraduated.Wrapf("token %s trades on its venue", token)
	}
	if !info.Trading {
		return types.BondingParams{}, types.TokenInfo{}, types.ErrTradingDisabled.Wrapf("token %s", token)
	}
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return types.BondingParams{}, types.TokenInfo{}, types.ErrZeroAmount
	}
	value := amountIn
	if side == types.SideSell {
		if value, err = k.saleValue(ctx, token, amountIn); err != nil {
			return types.BondingParams{}, types.TokenInfo{}, err
		}
	}
	if value.GT(bp.MaxTx) {
		return types.BondingParams{}, types.TokenInfo{}, types.ErrExceedsMaxTransaction.Wrapf("%s worth %s > %s", side, value, bp.MaxTx)
	}
	return bp, info, nil
}

// saleValue prices amount of token in reserve asset at the pair's current
// reserves, before tax.
func (k Keeper) saleValue(ctx sdk.Context, token sdk.AccAddress, amount math.Int) (math.Int, error) {
	pair, err := k.GetPair(ctx, token)
	if err != nil {
		return math.ZeroInt(), err
	}
	return pair.GetAmountOut(amount, token.String())
}

// afterBuy refreshes market data and graduates the token once raised
// liquidity reaches the threshold.
func (k Keeper) afterBuy(ctx sdk.Context, info *types.TokenInfo, swap types.SwapResult, bp types.BondingParams) (bool, error) {
	info.Data.Update(swap.Pair, swap.AmountIn.Sub(swap.Tax), blockTime(ctx))
	if info.Data.Liquidity.LT(bp.GradThreshold) {
		return false, nil
	}
	if err := k.graduate(ctx, info); err != nil {
		return false, err
	}
	return true, nil
}

// VirtualLiquidity sizes the virtual reserve asset a new pair is seeded with.
func VirtualLiquidity(supply, assetRate math.Int, assetDecimals uint32) (math.Int, error) {
	if !supply.IsPositive() || !assetRate.IsPositive() {
		return math.ZeroInt(), types.ErrInvalidParams.Wrap("supply and asset rate must be positive")
	}
	unit := types.Pow10(assetDecimals)
	k := math.NewInt(types.CurveConstant).MulRaw(types.BasisPointsDenominator).Quo(assetRate)
	liquidity := k.MulRaw(types.BasisPointsDenominator).Mul(unit).Quo(supply).Mul(unit).QuoRaw(types.BasisPointsDenominator)
	if !liquidity.IsPositive() {
		return math.ZeroInt(), types.ErrInsufficientLiquidity.Wrapf("supply %s too large for asset rate %s", supply, assetRate)
	}
	return liquidity, nil
}

func (k Keeper) emitTradeEvent(ctx sdk.Context, eventType string, trader, token sdk.AccAddress, swap types.SwapResult) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		eventType,
		sdk.NewAttribute(types.AttributeKeyToken, token.String()),
		sdk.NewAttribute(types.AttributeKeyTrader, trader.String()),
		sdk.NewAttribute(types.AttributeKeyAmountIn, swap.AmountIn.String()),
		sdk.NewAttribute(types.AttributeKeyAmountOut, swap.AmountOut.String()),
		sdk.NewAttribute(types.AttributeKeyTax, swap.Tax.String()),
	))
}

func (k Keeper) recordTrade(side string, res types.TradeResult, err error) {
	if err != nil {
		k.metrics.Trades.WithLabelValues(side, "failed").Inc()
		return
	}
	k.metrics.Trades.WithLabelValues(side, "success").Inc()
	if side == types.SideBuy {
		k.metrics.TradeVolume.WithLabelValues(side).Add(toFloat(res.AmountIn))
	} else {
		k.metrics.TradeVolume.WithLabelValues(side).Add(toFloat(res.AmountOut.Add(res.Tax)))
	}
}
