package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// CreatePair registers an unseeded pair between token and the reserve asset.
// Requires the creator capability.
func (k Keeper) CreatePair(ctx context.Context, caller, token sdk.AccAddress) (types.Pair, error) {
	var pair types.Pair
	err := k.withGuard(ctx, types.OpCreatePair, func(ctx sdk.Context) error {
		var err error
		pair, err = k.createPair(ctx, caller, token)
		return err
	})
	return pair, err
}

func (k Keeper) createPair(ctx sdk.Context, caller, token sdk.AccAddress) (types.Pair, error) {
	if err := k.authorize(ctx, types.OpCreatePair, caller); err != nil {
		return types.Pair{}, err
	}
	gp, err := k.GetGatewayParams(ctx)
	if err != nil {
		return types.Pair{}, err
	}
	if token.Empty() {
		return types.Pair{}, types.ErrInvalidAddress.Wrap("token cannot be empty")
	}
	if k.getStore(ctx).Has(types.GetPairKey(token)) {
		return types.Pair{}, types.ErrPairAlreadyExists.Wrapf("token %s", token)
	}

	pair := types.NewPair(token, gp.AssetDenom)
	if err := k.SetPair(ctx, pair); err != nil {
		return types.Pair{}, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypePairCreated,
		sdk.NewAttribute(types.AttributeKeyToken, token.String()),
		sdk.NewAttribute(types.AttributeKeyPair, pair.Address().String()),
	))
	return pair, nil
}

// GetPair returns the pair of a bonding token
func (k Keeper) GetPair(ctx context.Context, token sdk.AccAddress) (types.Pair, error) {
	pair, found, err := getJSON[types.Pair](k.getStore(ctx), types.GetPairKey(token))
	if err != nil {
		return types.Pair{}, err
	}
	if !found {
		return types.Pair{}, types.ErrPairNotFound.Wrapf("token %s", token)
	}
	return pair, nil
}

// SetPair persists a pair
func (k Keeper) SetPair(ctx context.Context, pair types.Pair) error {
	return setJSON(k.getStore(ctx), types.GetPairKey(pair.Token), pair)
}

// IteratePairs calls cb for every pair until cb returns true
func (k Keeper) IteratePairs(ctx context.Context, cb func(pair types.Pair) (stop bool)) error {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PairKeyPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var pair types.Pair
		if err := json.Unmarshal(iter.Value(), &pair); err != nil {
			return fmt.Errorf("IteratePairs: decode %x: %w", iter.Key(), err)
		}
		if cb(pair) {
			return nil
		}
	}
	return nil
}

// GetAllPairs returns every pair
func (k Keeper) GetAllPairs(ctx context.Context) ([]types.Pair, error) {
	pairs := []types.Pair{}
	err := k.IteratePairs(ctx, func(pair types.Pair) bool {
		pairs = append(pairs, pair)
		return false
	})
	return pairs, err
}
