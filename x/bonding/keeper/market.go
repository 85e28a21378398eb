package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// GetTokenInfo returns the record of a launched token
func (k Keeper) GetTokenInfo(ctx context.Context, token sdk.AccAddress) (types.TokenInfo, error) {
	info, found, err := getJSON[types.TokenInfo](k.getStore(ctx), types.GetTokenInfoKey(token))
	if err != nil {
		return types.TokenInfo{}, err
	}
	if !found {
		return types.TokenInfo{}, types.ErrTokenNotFound.Wrapf("token %s", token)
	}
	return info, nil
}

// SetTokenInfo persists a token record
func (k Keeper) SetTokenInfo(ctx context.Context, info types.TokenInfo) error {
	return setJSON(k.getStore(ctx), types.GetTokenInfoKey(info.Token), info)
}

// TokenCount returns the number of launched tokens
func (k Keeper) TokenCount(ctx context.Context) uint64 {
	return getUint64(k.getStore(ctx), types.TokenCountKey)
}

// appendToken assigns the next launch index to token.
func (k Keeper) appendToken(ctx context.Context, token sdk.AccAddress) uint64 {
	store := k.getStore(ctx)
	index := getUint64(store, types.TokenCountKey)
	store.Set(types.GetTokenIndexKey(index), token)
	setUint64(store, types.TokenCountKey, index+1)
	return index
}

// GetTokenByIndex returns the token launched at index
func (k Keeper) GetTokenByIndex(ctx context.Context, index uint64) (types.TokenInfo, error) {
	bz := k.getStore(ctx).Get(types.GetTokenIndexKey(index))
	if bz == nil {
		return types.TokenInfo{}, types.ErrTokenNotFound.Wrapf("index %d", index)
	}
	return k.GetTokenInfo(ctx, sdk.AccAddress(bz))
}

// GetAllTokenInfos returns launched tokens in launch order, skipping offset
// and returning at most limit entries. A zero limit returns all.
func (k Keeper) GetAllTokenInfos(ctx context.Context, offset, limit uint64) ([]types.TokenInfo, error) {
	count := k.TokenCount(ctx)
	end := count
	if limit > 0 && offset+limit < count {
		end = offset + limit
	}
	infos := []types.TokenInfo{}
	for i := offset; i < end; i++ {
		info, err := k.GetTokenByIndex(ctx, i)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GetProfile returns a creator's profile
func (k Keeper) GetProfile(ctx context.Context, user sdk.AccAddress) (types.Profile, error) {
	profile, found, err := getJSON[types.Profile](k.getStore(ctx), types.GetProfileKey(user))
	if err != nil {
		return types.Profile{}, err
	}
	if !found {
		return types.Profile{User: user, Tokens: []sdk.AccAddress{}}, nil
	}
	return profile, nil
}

// GetUserTokens returns the tokens a creator has launched
func (k Keeper) GetUserTokens(ctx context.Context, user sdk.AccAddress) ([]sdk.AccAddress, error) {
	profile, err := k.GetProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	return profile.Tokens, nil
}

func (k Keeper) addToProfile(ctx context.Context, user, token sdk.AccAddress) error {
	profile, err := k.GetProfile(ctx, user)
	if err != nil {
		return err
	}
	profile.Tokens = append(profile.Tokens, token)
	return setJSON(k.getStore(ctx), types.GetProfileKey(user), profile)
}
