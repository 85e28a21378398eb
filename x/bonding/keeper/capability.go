package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// HasCapability reports whether addr holds capability. The authority holds
// the admin capability without a grant.
func (k Keeper) HasCapability(ctx context.Context, capability types.Capability, addr sdk.AccAddress) bool {
	if capability == types.CapabilityAdmin && addr.String() == k.authority {
		return true
	}
	return k.getStore(ctx).Has(types.GetCapabilityKey(capability, addr))
}

// authorize checks the caller against the capability op requires.
func (k Keeper) authorize(ctx context.Context, op types.Operation, caller sdk.AccAddress) error {
	capability, required, err := types.RequiredCapability(op)
	if err != nil {
		return err
	}
	if !required {
		return nil
	}
	if caller.Empty() || !k.HasCapability(ctx, capability, caller) {
		return types.ErrUnauthorized.Wrapf("%s requires %s capability; caller %s", op, capability, caller)
	}
	return nil
}

// GrantCapability gives addr a capability. Admin only.
func (k Keeper) GrantCapability(ctx context.Context, caller sdk.AccAddress, capability types.Capability, addr sdk.AccAddress) error {
	return k.withGuard(ctx, types.OpGrantCapability, func(ctx sdk.Context) error {
		if err := k.authorize(ctx, types.OpGrantCapability, caller); err != nil {
			return err
		}
		if err := capability.Validate(); err != nil {
			return err
		}
		if addr.Empty() {
			return types.ErrInvalidAddress.Wrap("grantee cannot be empty")
		}
		k.setCapability(ctx, capability, addr)
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeCapabilityGranted,
			sdk.NewAttribute(types.AttributeKeyCapability, string(capability)),
			sdk.NewAttribute(types.AttributeKeyAddress, addr.String()),
		))
		return nil
	})
}

// RevokeCapability removes a capability from addr. Admin only.
func (k Keeper) RevokeCapability(ctx context.Context, caller sdk.AccAddress, capability types.Capability, addr sdk.AccAddress) error {
	return k.withGuard(ctx, types.OpRevokeCapability, func(ctx sdk.Context) error {
		if err := k.authorize(ctx, types.OpRevokeCapability, caller); err != nil {
			return err
		}
		if err := capability.Validate(); err != nil {
			return err
		}
		k.getStore(ctx).Delete(types.GetCapabilityKey(capability, addr))
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeCapabilityRevoked,
			sdk.NewAttribute(types.AttributeKeyCapability, string(capability)),
			sdk.NewAttribute(types.AttributeKeyAddress, addr.String()),
		))
		return nil
	})
}

func (k Keeper) setCapability(ctx context.Context, capability types.Capability, addr sdk.AccAddress) {
	k.getStore(ctx).Set(types.GetCapabilityKey(capability, addr), []byte{0x01})
}

// GetAllCapabilityGrants returns every stored grant.
func (k Keeper) GetAllCapabilityGrants(ctx context.Context) []types.CapabilityGrant {
	store := k.getStore(ctx)
	grants := []types.CapabilityGrant{}
	for _, capability := range types.AllCapabilities {
		prefix := types.GetCapabilityPrefix(capability)
		iter := storetypes.KVStorePrefixIterator(store, prefix)
		for ; iter.Valid(); iter.Next() {
			addr := sdk.AccAddress(append([]byte{}, iter.Key()[len(prefix):]...))
			grants = append(grants, types.CapabilityGrant{Capability: capability, Address: addr})
		}
		iter.Close()
	}
	return grants
}
