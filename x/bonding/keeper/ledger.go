package keeper

import (
	"context"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// BondingBalance returns holder's balance of a bonding token.
func (k Keeper) BondingBalance(ctx context.Context, token, holder sdk.AccAddress) math.Int {
	bal, err := getInt(k.getStore(ctx), types.GetBondingBalanceKey(token, holder))
	if err != nil {
		k.Logger(ctx).Error("corrupt bonding balance", "token", token.String(), "holder", holder.String(), "error", err)
		return math.ZeroInt()
	}
	return bal
}

// BondingSupply returns the outstanding supply of a bonding token.
func (k Keeper) BondingSupply(ctx context.Context, token sdk.AccAddress) math.Int {
	supply, err := getInt(k.getStore(ctx), types.GetBondingSupplyKey(token))
	if err != nil {
		k.Logger(ctx).Error("corrupt bonding supply", "token", token.String(), "error", err)
		return math.ZeroInt()
	}
	return supply
}

func (k Keeper) setBondingBalance(ctx context.Context, token, holder sdk.AccAddress, amount math.Int) error {
	return setInt(k.getStore(ctx), types.GetBondingBalanceKey(token, holder), amount)
}

func (k Keeper) mintBonding(ctx context.Context, token, to sdk.AccAddress, amount math.Int) error {
	store := k.getStore(ctx)
	supply := k.BondingSupply(ctx, token).Add(amount)
	if err := setInt(store, types.GetBondingSupplyKey(token), supply); err != nil {
		return err
	}
	return k.setBondingBalance(ctx, token, to, k.BondingBalance(ctx, token, to).Add(amount))
}

func (k Keeper) burnBonding(ctx context.Context, token, from sdk.AccAddress, amount math.Int) error {
	bal := k.BondingBalance(ctx, token, from)
	if bal.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("%s holds %s of %s, need %s", from, bal, token, amount)
	}
	if err := k.setBondingBalance(ctx, token, from, bal.Sub(amount)); err != nil {
		return err
	}
	supply := k.BondingSupply(ctx, token)
	if supply.LT(amount) {
		return types.ErrInvariantViolation.Wrapf("burn of %s exceeds supply %s", amount, supply)
	}
	return setInt(k.getStore(ctx), types.GetBondingSupplyKey(token), supply.Sub(amount))
}

func (k Keeper) transferBonding(ctx context.Context, token, from, to sdk.AccAddress, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}
	bal := k.BondingBalance(ctx, token, from)
	if bal.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("%s holds %s of %s, need %s", from, bal, token, amount)
	}
	if err := k.setBondingBalance(ctx, token, from, bal.Sub(amount)); err != nil {
		return err
	}
	return k.setBondingBalance(ctx, token, to, k.BondingBalance(ctx, token, to).Add(amount))
}

// TransferBonding moves bonding tokens between holders before graduation.
// Transfers are capped by the controller's max transaction, valued in
// reserve asset at the pair's current reserves.
func (k Keeper) TransferBonding(ctx context.Context, token, from, to sdk.AccAddress, amount math.Int) error {
	return k.withGuard(ctx, types.OpTransferBonding, func(ctx sdk.Context) error {
		if amount.IsNil() || !amount.IsPositive() {
			return types.ErrZeroAmount
		}
		if to.Empty() {
			return types.ErrInvalidAddress.Wrap("recipient cannot be empty")
		}
		info, err := k.GetTokenInfo(ctx, token)
		if err != nil {
			return err
		}
		if info.Graduated() {
			return types.ErrAlreadyGraduated.Wrapf("%s must be unwrapped", token)
		}
		bp, err := k.GetBondingParams(ctx)
		if err != nil {
			return err
		}
		value, err := k.saleValue(ctx, token, amount)
		if err != nil {
			return err
		}
		if value.GT(bp.MaxTx) {
			return types.ErrExceedsMaxTransaction.Wrapf("transfer worth %s > %s", value, bp.MaxTx)
		}
		if err := k.transferBonding(ctx, token, from, to, amount); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeyToken, token.String()),
			sdk.NewAttribute(types.AttributeKeySender, from.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		))
		return nil
	})
}

// GetBondingBalances returns every non-zero bonding token balance.
func (k Keeper) GetBondingBalances(ctx context.Context) []types.Balance {
	return k.iterateBalances(ctx, types.BondingBalancePrefix)
}

func (k Keeper) iterateBalances(ctx context.Context, prefix []byte) []types.Balance {
	store := k.getStore(ctx)
	iter := storetypes.KVStorePrefixIterator(store, prefix)
	defer iter.Close()

	balances := []types.Balance{}
	for ; iter.Valid(); iter.Next() {
		key := iter.Key()[len(prefix):]
		tokenLen := int(key[0])
		token := sdk.AccAddress(append([]byte{}, key[1:1+tokenLen]...))
		holder := sdk.AccAddress(append([]byte{}, key[1+tokenLen:]...))

		var amount math.Int
		if err := amount.Unmarshal(iter.Value()); err != nil {
			k.Logger(ctx).Error("corrupt balance entry", "token", token.String(), "error", err)
			continue
		}
		balances = append(balances, types.Balance{Token: token, Holder: holder, Amount: amount})
	}
	return balances
}
