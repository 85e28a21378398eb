package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper moves the reserve asset.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// LiquidityVenue is the external concentrated-liquidity venue graduated
// assets are seeded into.
type LiquidityVenue interface {
	// PoolAddress returns the pool for (asset, token); it need not exist yet.
	PoolAddress(asset string, token sdk.AccAddress) sdk.AccAddress
	// SeedLiquidity opens the pool at req.SqrtPriceX96 with the amounts
	// already transferred to req.Pool and returns the position identifier.
	SeedLiquidity(ctx context.Context, req SeedRequest) (string, error)
}

// SwapRouter converts tax into its destination asset.
type SwapRouter interface {
	// Address is the account that receives tokenIn before SwapExactIn.
	Address() sdk.AccAddress
	SwapExactIn(ctx context.Context, req SwapRequest) (math.Int, error)
}
