package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/sqrtprice"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// graduate migrates a token whose raised liquidity reached the threshold.
// Venue failures do not undo graduation; they leave a pending seed.
func (k Keeper) graduate(ctx sdk.Context, info *types.TokenInfo) error {
	if !info.AgentToken.Empty() {
		return types.ErrAlreadyGraduated.Wrapf("token %s already has asset %s", info.Token, info.AgentToken)
	}
	info.Phase = types.PhaseGraduating
	info.Trading = false

	asset, err := k.createGraduatedAsset(ctx, types.ControllerAddress(), *info)
	if err != nil {
		return err
	}

	info.AgentToken = asset.Address
	info.TradingOnUniswap = true
	info.Phase = types.PhaseGraduated

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeGraduated,
		sdk.NewAttribute(types.AttributeKeyToken, info.Token.String()),
		sdk.NewAttribute(types.AttributeKeyAgentToken, asset.Address.String()),
		sdk.NewAttribute(types.AttributeKeyPool, asset.Pool.String()),
	))
	k.metrics.Graduations.Inc()
	k.Logger(ctx).Info("token graduated", "token", info.Token.String(), "asset", asset.Address.String(), "seeded", asset.Seeded)
	return nil
}

// CreateGraduatedAsset mints the graduated asset for a bonding token and seeds
// its venue pool. Requires the bonding capability.
func (k Keeper) CreateGraduatedAsset(ctx context.Context, caller sdk.AccAddress, token sdk.AccAddress) (types.GraduatedAsset, error) {
	var asset types.GraduatedAsset
	err := k.withGuard(ctx, types.OpCreateGraduatedAsset, func(ctx sdk.Context) error {
		info, err := k.GetTokenInfo(ctx, token)
		if err != nil {
			return err
		}
		asset, err = k.createGraduatedAsset(ctx, caller, info)
		return err
	})
	return asset, err
}

func (k Keeper) createGraduatedAsset(ctx sdk.Context, caller sdk.AccAddress, info types.TokenInfo) (types.GraduatedAsset, error) {
	// 1. Authorization and config
	if err := k.authorize(ctx, types.OpCreateGraduatedAsset, caller); err != nil {
		return types.GraduatedAsset{}, err
	}
	gc, err := k.GetGraduationParams(ctx)
	if err != nil {
		return types.GraduatedAsset{}, err
	}
	bp, err := k.GetBondingParams(ctx)
	if err != nil {
		return types.GraduatedAsset{}, err
	}
	gp, err := k.GetGatewayParams(ctx)
	if err != nil {
		return types.GraduatedAsset{}, err
	}
	supply := gc.Supply
	if supply.LpSupply.Add(supply.VaultSupply).GT(supply.MaxSupply) {
		return types.GraduatedAsset{}, types.ErrSupplyMismatch.Wrapf("lp %s + vault %s > max %s", supply.LpSupply, supply.VaultSupply, supply.MaxSupply)
	}

	addr := types.AgentAddress(info.Token)
	if k.getStore(ctx).Has(types.GetGraduatedAssetKey(addr)) {
		return types.GraduatedAsset{}, types.ErrAlreadyGraduated.Wrapf("asset %s exists", addr)
	}

	// 2. Price the venue pool from the final curve reserves
	pair, err := k.GetPair(ctx, info.Token)
	if err != nil {
		return types.GraduatedAsset{}, err
	}
	sqrtPrice, err := sqrtprice.SqrtPriceX96(pair.ReserveA, pair.ReserveB, bp.TokenDecimals, bp.AssetDecimals)
	if err != nil {
		return types.GraduatedAsset{}, err
	}

	// 3. Retire the curve
	remaining := k.BondingBalance(ctx, info.Token, pair.Address())
	if remaining.IsPositive() {
		if err := k.burnBonding(ctx, info.Token, pair.Address(), remaining); err != nil {
			return types.GraduatedAsset{}, err
		}
	}
	amountAsset := pair.AssetBalance
	pair.AssetBalance = math.ZeroInt()
	if err := k.SetPair(ctx, pair); err != nil {
		return types.GraduatedAsset{}, err
	}

	// 4. Mint the LP and vault allocations
	now := blockTime(ctx)
	asset := types.GraduatedAsset{
		Address:            addr,
		BondingToken:       info.Token,
		Name:               info.Data.Name,
		Ticker:             info.Data.Ticker,
		Decimals:           bp.TokenDecimals,
		TotalSupply:        math.ZeroInt(),
		MaxSupply:          supply.MaxSupply,
		UnwrapMinted:       math.ZeroInt(),
		BondingBurned:      math.ZeroInt(),
		PairBurned:         remaining,
		CreatedAt:          now,
		BotProtectionUntil: now + supply.BotProtectionDurationSeconds,
		SeedSqrtPriceX96:   sqrtPrice,
		PendingTax:         math.ZeroInt(),
		Limits:             supply,
		Tax:                gc.Tax,
	}
	if k.venue != nil {
		asset.Pool = k.venue.PoolAddress(gp.AssetDenom, addr)
	}
	if err := k.mintAgent(ctx, &asset, types.FactoryAddress(), supply.LpSupply); err != nil {
		return types.GraduatedAsset{}, err
	}
	if err := k.mintAgent(ctx, &asset, supply.Vault, supply.VaultSupply); err != nil {
		return types.GraduatedAsset{}, err
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeGraduatedAssetMinted,
		sdk.NewAttribute(types.AttributeKeyToken, info.Token.String()),
		sdk.NewAttribute(types.AttributeKeyAgentToken, addr.String()),
		sdk.NewAttribute(types.AttributeKeySqrtPrice, sqrtPrice.String()),
	))

	// 5. Seed the venue; failure leaves a pending seed for an operator retry
	seed := types.PendingSeed{
		Token:        info.Token,
		Asset:        addr,
		AmountAsset:  amountAsset,
		AmountToken:  supply.LpSupply,
		SqrtPriceX96: sqrtPrice,
	}
	if err := k.seedLiquidity(ctx, &asset, seed, gp.AssetDenom); err != nil && !errorsmod.IsOf(err, types.ErrLiquiditySeedFailed) {
		return types.GraduatedAsset{}, err
	}

	if err := k.SetGraduatedAsset(ctx, asset); err != nil {
		return types.GraduatedAsset{}, err
	}
	return asset, nil
}

// seedLiquidity hands the escrowed amounts to the venue on a cached branch.
// On failure the branch is dropped and seed is stored as pending.
func (k Keeper) seedLiquidity(ctx sdk.Context, asset *types.GraduatedAsset, seed types.PendingSeed, assetDenom string) error {
	cacheCtx, write := ctx.CacheContext()
	positionID, err := k.openPosition(cacheCtx, asset, seed, assetDenom)
	if err != nil {
		seed.Attempts++
		seed.LastError = err.Error()
		seed.LastAttempt = blockTime(ctx)
		if perr := k.SetPendingSeed(ctx, seed); perr != nil {
			return perr
		}
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeLiquiditySeedFailed,
			sdk.NewAttribute(types.AttributeKeyToken, seed.Token.String()),
			sdk.NewAttribute(types.AttributeKeyAgentToken, seed.Asset.String()),
			sdk.NewAttribute(types.AttributeKeyAttempts, strconv.FormatUint(uint64(seed.Attempts), 10)),
			sdk.NewAttribute(types.AttributeKeyError, err.Error()),
		))
		k.metrics.SeedFailures.Inc()
		k.Logger(ctx).Error("liquidity seeding failed", "token", seed.Token.String(), "attempts", seed.Attempts, "error", err)
		return errorsmod.Wrap(types.ErrLiquiditySeedFailed, err.Error())
	}
	write()

	asset.Seeded = true
	asset.PositionID = positionID
	k.getStore(ctx).Delete(types.GetPendingSeedKey(seed.Token))
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeLiquiditySeeded,
		sdk.NewAttribute(types.AttributeKeyToken, seed.Token.String()),
		sdk.NewAttribute(types.AttributeKeyAgentToken, seed.Asset.String()),
		sdk.NewAttribute(types.AttributeKeyPool, asset.Pool.String()),
		sdk.NewAttribute(types.AttributeKeyPosition, positionID),
	))
	return nil
}

func (k Keeper) openPosition(ctx sdk.Context, asset *types.GraduatedAsset, seed types.PendingSeed, assetDenom string) (string, error) {
	if k.venue == nil {
		return "", errorsmod.Wrap(types.ErrLiquiditySeedFailed, "no liquidity venue configured")
	}
	if asset.Pool.Empty() {
		asset.Pool = k.venue.PoolAddress(assetDenom, asset.Address)
	}
	if seed.AmountAsset.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, asset.Pool, coins(assetDenom, seed.AmountAsset)); err != nil {
			return "", err
		}
	}
	if seed.AmountToken.IsPositive() {
		if err := k.moveAgent(ctx, asset.Address, types.FactoryAddress(), asset.Pool, seed.AmountToken); err != nil {
			return "", err
		}
	}
	return k.venue.SeedLiquidity(ctx, types.SeedRequest{
		Asset:        assetDenom,
		Token:        asset.Address,
		Pool:         asset.Pool,
		AmountAsset:  seed.AmountAsset,
		AmountToken:  seed.AmountToken,
		SqrtPriceX96: seed.SqrtPriceX96,
	})
}

// RetrySeedLiquidity retries a failed venue seed. Admin only. The attempt is
// recorded even when the venue fails again.
func (k Keeper) RetrySeedLiquidity(ctx context.Context, caller, token sdk.AccAddress) (string, error) {
	var (
		positionID string
		seedErr    error
	)
	err := k.withGuard(ctx, types.OpRetrySeedLiquidity, func(ctx sdk.Context) error {
		if err := k.authorize(ctx, types.OpRetrySeedLiquidity, caller); err != nil {
			return err
		}
		seed, err := k.GetPendingSeed(ctx, token)
		if err != nil {
			return err
		}
		asset, err := k.GetGraduatedAsset(ctx, seed.Asset)
		if err != nil {
			return err
		}
		gp, err := k.GetGatewayParams(ctx)
		if err != nil {
			return err
		}
		seedErr = k.seedLiquidity(ctx, &asset, seed, gp.AssetDenom)
		positionID = asset.PositionID
		return k.SetGraduatedAsset(ctx, asset)
	})
	switch {
	case err != nil:
		k.metrics.SeedRetries.WithLabelValues("rejected").Inc()
		return "", err
	case seedErr != nil:
		k.metrics.SeedRetries.WithLabelValues("failed").Inc()
		return "", seedErr
	}
	k.metrics.SeedRetries.WithLabelValues("success").Inc()
	return positionID, nil
}

// GetPendingSeed returns the pending venue seed of a bonding token
func (k Keeper) GetPendingSeed(ctx context.Context, token sdk.AccAddress) (types.PendingSeed, error) {
	seed, found, err := getJSON[types.PendingSeed](k.getStore(ctx), types.GetPendingSeedKey(token))
	if err != nil {
		return types.PendingSeed{}, err
	}
	if !found {
		return types.PendingSeed{}, types.ErrNoPendingSeed.Wrapf("token %s", token)
	}
	return seed, nil
}

// SetPendingSeed persists a pending venue seed
func (k Keeper) SetPendingSeed(ctx context.Context, seed types.PendingSeed) error {
	return setJSON(k.getStore(ctx), types.GetPendingSeedKey(seed.Token), seed)
}

// GetAllPendingSeeds returns every pending venue seed
func (k Keeper) GetAllPendingSeeds(ctx context.Context) ([]types.PendingSeed, error) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PendingSeedPrefix)
	defer iter.Close()

	seeds := []types.PendingSeed{}
	for ; iter.Valid(); iter.Next() {
		seed, _, err := getJSON[types.PendingSeed](k.getStore(ctx), iter.Key())
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}
