package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// Keeper maintains the state of the bonding module
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper
	venue      types.LiquidityVenue
	router     types.SwapRouter
	authority  string // address holding the admin capability implicitly
	metrics    *BondingMetrics
}

// NewKeeper creates a new bonding Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	venue types.LiquidityVenue,
	router types.SwapRouter,
	authority string,
) *Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(fmt.Sprintf("invalid authority address: %s", err))
	}
	return &Keeper{
		storeKey:   key,
		bankKeeper: bankKeeper,
		venue:      venue,
		router:     router,
		authority:  authority,
		metrics:    NewBondingMetrics(),
	}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// GetAuthority returns the module's authority.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// getStore returns the KVStore for the bonding module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

func blockTime(ctx context.Context) int64 {
	return sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
}

func getJSON[T any](store storetypes.KVStore, key []byte) (T, bool, error) {
	var v T
	bz := store.Get(key)
	if bz == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(bz, &v); err != nil {
		return v, false, fmt.Errorf("decode %x: %w", key, err)
	}
	return v, true, nil
}

func setJSON(store storetypes.KVStore, key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %x: %w", key, err)
	}
	store.Set(key, bz)
	return nil
}

func getInt(store storetypes.KVStore, key []byte) (math.Int, error) {
	bz := store.Get(key)
	if bz == nil {
		return math.ZeroInt(), nil
	}
	var v math.Int
	if err := v.Unmarshal(bz); err != nil {
		return math.ZeroInt(), fmt.Errorf("decode int %x: %w", key, err)
	}
	return v, nil
}

func setInt(store storetypes.KVStore, key []byte, v math.Int) error {
	if v.IsZero() {
		store.Delete(key)
		return nil
	}
	bz, err := v.Marshal()
	if err != nil {
		return fmt.Errorf("encode int %x: %w", key, err)
	}
	store.Set(key, bz)
	return nil
}

func getUint64(store storetypes.KVStore, key []byte) uint64 {
	bz := store.Get(key)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func setUint64(store storetypes.KVStore, key []byte, v uint64) {
	store.Set(key, sdk.Uint64ToBigEndian(v))
}

func coins(denom string, amount math.Int) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(denom, amount))
}
