package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// withGuard runs fn on a cached branch of ctx holding the module-wide
// reentrancy lock. State and events reach ctx only when fn succeeds.
func (k Keeper) withGuard(ctx context.Context, op types.Operation, fn func(ctx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.acquireReentrancyLock(sdkCtx, op); err != nil {
		return err
	}

	cacheCtx, write := sdkCtx.CacheContext()
	// The lock is set on the parent so nested entry from either branch is rejected.
	defer k.releaseReentrancyLock(sdkCtx)

	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

// acquireReentrancyLock marks an operation as in flight
func (k Keeper) acquireReentrancyLock(ctx sdk.Context, op types.Operation) error {
	store := k.getStore(ctx)
	if held := store.Get(types.ReentrancyLockKey); held != nil {
		return types.ErrReentrantCall.Wrapf("%s called while %s is in flight", op, string(held))
	}
	store.Set(types.ReentrancyLockKey, []byte(op))
	return nil
}

// releaseReentrancyLock clears the in-flight marker
func (k Keeper) releaseReentrancyLock(ctx sdk.Context) {
	k.getStore(ctx).Delete(types.ReentrancyLockKey)
}

// Locked reports whether an operation is currently in flight.
func (k Keeper) Locked(ctx context.Context) bool {
	return k.getStore(ctx).Has(types.ReentrancyLockKey)
}
