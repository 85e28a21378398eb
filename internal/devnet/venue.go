// Package devnet provides in-process stand-ins for the external liquidity
// venue and swap router the bonding module talks to.
package devnet

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	"github.com/google/uuid"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

const venueModule = "venue"

// Position is a liquidity position opened on the venue.
type Position struct {
	ID           string         `json:"id"`
	Pool         sdk.AccAddress `json:"pool"`
	Asset        string         `json:"asset"`
	Token        sdk.AccAddress `json:"token"`
	AmountAsset  math.Int       `json:"amount_asset"`
	AmountToken  math.Int       `json:"amount_token"`
	SqrtPriceX96 math.Int       `json:"sqrt_price_x96"`
}

// Venue records seeded pools in memory. Failures can be injected and a hook
// can run before each seed.
type Venue struct {
	mu        sync.Mutex
	positions map[string]Position
	failWith  error
	hook      func(ctx context.Context, req types.SeedRequest) error
}

var _ types.LiquidityVenue = (*Venue)(nil)

// NewVenue returns an empty venue.
func NewVenue() *Venue {
	return &Venue{positions: make(map[string]Position)}
}

// PoolAddress derives the pool of (asset, token).
func (v *Venue) PoolAddress(asset string, token sdk.AccAddress) sdk.AccAddress {
	return address.Module(venueModule, []byte(asset), token)
}

// SeedLiquidity opens a position at the requested price.
func (v *Venue) SeedLiquidity(ctx context.Context, req types.SeedRequest) (string, error) {
	v.mu.Lock()
	failWith, hook := v.failWith, v.hook
	v.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, req); err != nil {
			return "", err
		}
	}
	if failWith != nil {
		return "", failWith
	}
	if !req.Pool.Equals(v.PoolAddress(req.Asset, req.Token)) {
		return "", fmt.Errorf("pool %s does not belong to %s/%s", req.Pool, req.Asset, req.Token)
	}
	if req.SqrtPriceX96.IsNil() || !req.SqrtPriceX96.IsPositive() {
		return "", fmt.Errorf("invalid sqrt price %s", req.SqrtPriceX96)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	key := req.Pool.String()
	if _, ok := v.positions[key]; ok {
		return "", fmt.Errorf("pool %s already initialized", req.Pool)
	}
	pos := Position{
		ID:           uuid.New().String(),
		Pool:         req.Pool,
		Asset:        req.Asset,
		Token:        req.Token,
		AmountAsset:  req.AmountAsset,
		AmountToken:  req.AmountToken,
		SqrtPriceX96: req.SqrtPriceX96,
	}
	v.positions[key] = pos
	sdk.UnwrapSDKContext(ctx).Logger().Info("venue pool seeded", "pool", key, "position", pos.ID)
	return pos.ID, nil
}

// Position returns the position opened on pool.
func (v *Venue) Position(pool sdk.AccAddress) (Position, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	pos, ok := v.positions[pool.String()]
	return pos, ok
}

// FailWith makes every following seed fail with err; nil clears it.
func (v *Venue) FailWith(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failWith = err
}

// SetHook installs fn to run before each seed.
func (v *Venue) SetHook(fn func(ctx context.Context, req types.SeedRequest) error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hook = fn
}
