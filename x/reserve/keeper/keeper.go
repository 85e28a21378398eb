package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/fairlaunch/x/reserve/types"
)

// Keeper is a store-backed ledger of the reserve asset and any other coin the
// devnet moves. It serves as the bonding module's bank.
type Keeper struct {
	storeKey storetypes.StoreKey
}

// NewKeeper creates a new reserve Keeper instance
func NewKeeper(key storetypes.StoreKey) Keeper {
	return Keeper{storeKey: key}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

func getAmount(store storetypes.KVStore, key []byte) math.Int {
	bz := store.Get(key)
	if bz == nil {
		return math.ZeroInt()
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		panic(fmt.Sprintf("corrupt reserve entry %x: %s", key, err))
	}
	return amount
}

func setAmount(store storetypes.KVStore, key []byte, amount math.Int) error {
	if amount.IsZero() {
		store.Delete(key)
		return nil
	}
	bz, err := amount.Marshal()
	if err != nil {
		return err
	}
	store.Set(key, bz)
	return nil
}

// GetBalance returns addr's balance of denom
func (k Keeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, getAmount(k.getStore(ctx), types.GetBalanceKey(addr, denom)))
}

// GetAllBalances returns every coin addr holds
func (k Keeper) GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins {
	prefix := types.GetAccountPrefix(addr)
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iter.Close()

	coins := sdk.NewCoins()
	for ; iter.Valid(); iter.Next() {
		var amount math.Int
		if err := amount.Unmarshal(iter.Value()); err != nil {
			k.Logger(ctx).Error("corrupt balance entry", "address", addr.String(), "error", err)
			continue
		}
		coins = coins.Add(sdk.NewCoin(string(iter.Key()[len(prefix):]), amount))
	}
	return coins
}

// GetSupply returns the minted supply of denom
func (k Keeper) GetSupply(ctx context.Context, denom string) sdk.Coin {
	return sdk.NewCoin(denom, getAmount(k.getStore(ctx), types.GetSupplyKey(denom)))
}

// SendCoins moves amt from fromAddr to toAddr
func (k Keeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}
	if toAddr.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "recipient cannot be empty")
	}
	store := k.getStore(ctx)
	for _, coin := range amt {
		fromKey := types.GetBalanceKey(fromAddr, coin.Denom)
		bal := getAmount(store, fromKey)
		if bal.LT(coin.Amount) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s%s is smaller than %s", bal, coin.Denom, coin)
		}
		if err := setAmount(store, fromKey, bal.Sub(coin.Amount)); err != nil {
			return err
		}
		toKey := types.GetBalanceKey(toAddr, coin.Denom)
		if err := setAmount(store, toKey, getAmount(store, toKey).Add(coin.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// SendCoinsFromAccountToModule moves amt into a module account
func (k Keeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return k.SendCoins(ctx, senderAddr, authtypes.NewModuleAddress(recipientModule), amt)
}

// SendCoinsFromModuleToAccount moves amt out of a module account
func (k Keeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return k.SendCoins(ctx, authtypes.NewModuleAddress(senderModule), recipientAddr, amt)
}

// MintCoins credits amt to addr and raises supply
func (k Keeper) MintCoins(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}
	store := k.getStore(ctx)
	for _, coin := range amt {
		key := types.GetBalanceKey(addr, coin.Denom)
		if err := setAmount(store, key, getAmount(store, key).Add(coin.Amount)); err != nil {
			return err
		}
		supplyKey := types.GetSupplyKey(coin.Denom)
		if err := setAmount(store, supplyKey, getAmount(store, supplyKey).Add(coin.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// BurnCoins debits amt from addr and lowers supply
func (k Keeper) BurnCoins(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}
	store := k.getStore(ctx)
	for _, coin := range amt {
		key := types.GetBalanceKey(addr, coin.Denom)
		bal := getAmount(store, key)
		if bal.LT(coin.Amount) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s%s is smaller than %s", bal, coin.Denom, coin)
		}
		if err := setAmount(store, key, bal.Sub(coin.Amount)); err != nil {
			return err
		}
		supplyKey := types.GetSupplyKey(coin.Denom)
		if err := setAmount(store, supplyKey, getAmount(store, supplyKey).Sub(coin.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// InitGenesis loads balances and derives supplies from them
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid reserve genesis: %w", err)
	}
	k.getStore(ctx).Set(types.LedgerVersionKey, sdk.Uint64ToBigEndian(types.LedgerVersion))
	for _, b := range genState.Balances {
		if err := k.MintCoins(ctx, b.Address, b.Coins); err != nil {
			return fmt.Errorf("failed to set balance of %s: %w", b.Address, err)
		}
	}
	return nil
}

// GetLedgerVersion returns the layout version written at genesis, or zero
// before genesis ran.
func (k Keeper) GetLedgerVersion(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.LedgerVersionKey)
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

// ExportGenesis returns every non-zero balance
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.BalancePrefix)
	defer iter.Close()

	genesis := types.DefaultGenesis()
	index := make(map[string]int)
	for ; iter.Valid(); iter.Next() {
		key := iter.Key()[len(types.BalancePrefix):]
		addrLen := int(key[0])
		addr := sdk.AccAddress(append([]byte{}, key[1:1+addrLen]...))
		denom := string(key[1+addrLen:])
		var amount math.Int
		if err := amount.Unmarshal(iter.Value()); err != nil {
			k.Logger(ctx).Error("corrupt balance entry", "address", addr.String(), "error", err)
			continue
		}
		i, ok := index[addr.String()]
		if !ok {
			i = len(genesis.Balances)
			index[addr.String()] = i
			genesis.Balances = append(genesis.Balances, types.AccountBalance{Address: addr, Coins: sdk.NewCoins()})
		}
		genesis.Balances[i].Coins = genesis.Balances[i].Coins.Add(sdk.NewCoin(denom, amount))
	}
	return genesis
}
