package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

const (
	componentGateway      = "gateway"
	componentBonding      = "bonding"
	componentGraduation   = "graduation"
	componentTaxCollector = "tax_collector"
)

func loadParams[P any](store storetypes.KVStore, key []byte, component string) (P, error) {
	cfg, found, err := getJSON[types.Config[P]](store, key)
	if err != nil {
		var zero P
		return zero, err
	}
	if !found || cfg.Status != types.StatusInitialized {
		var zero P
		return zero, types.ErrNotInitialized.Wrap(component)
	}
	return cfg.Params, nil
}

func storeParams[P any](store storetypes.KVStore, key []byte, params P) error {
	return setJSON(store, key, types.Config[P]{Status: types.StatusInitialized, Params: params})
}

func initStatus(store storetypes.KVStore, key []byte) types.InitStatus {
	if !store.Has(key) {
		return types.StatusUninitialized
	}
	return types.StatusInitialized
}

// GetGatewayParams returns the gateway config or ErrNotInitialized.
func (k Keeper) GetGatewayParams(ctx context.Context) (types.GatewayParams, error) {
	return loadParams[types.GatewayParams](k.getStore(ctx), types.GatewayConfigKey, componentGateway)
}

// GetBondingParams returns the controller config or ErrNotInitialized.
func (k Keeper) GetBondingParams(ctx context.Context) (types.BondingParams, error) {
	return loadParams[types.BondingParams](k.getStore(ctx), types.BondingConfigKey, componentBonding)
}

// GetGraduationParams returns the factory config or ErrNotInitialized.
func (k Keeper) GetGraduationParams(ctx context.Context) (types.GraduationConfigParams, error) {
	return loadParams[types.GraduationConfigParams](k.getStore(ctx), types.GraduationConfigKey, componentGraduation)
}

// GetTaxCollectorParams returns the collector config or ErrNotInitialized.
func (k Keeper) GetTaxCollectorParams(ctx context.Context) (types.TaxCollectorParams, error) {
	return loadParams[types.TaxCollectorParams](k.getStore(ctx), types.TaxCollectorConfigKey, componentTaxCollector)
}

// InitStatuses reports the setup state of every component.
func (k Keeper) InitStatuses(ctx context.Context) map[string]types.InitStatus {
	store := k.getStore(ctx)
	return map[string]types.InitStatus{
		componentGateway:      initStatus(store, types.GatewayConfigKey),
		componentBonding:      initStatus(store, types.BondingConfigKey),
		componentGraduation:   initStatus(store, types.GraduationConfigKey),
		componentTaxCollector: initStatus(store, types.TaxCollectorConfigKey),
	}
}

// InitializeGateway sets the gateway config once.
func (k Keeper) InitializeGateway(ctx context.Context, caller sdk.AccAddress, params types.GatewayParams) error {
	return k.initialize(ctx, caller, componentGateway, types.GatewayConfigKey, params.Validate, func(ctx sdk.Context) error {
		return storeParams(k.getStore(ctx), types.GatewayConfigKey, params)
	})
}

// InitializeBonding sets the controller config once.
func (k Keeper) InitializeBonding(ctx context.Context, caller sdk.AccAddress, params types.BondingParams) error {
	return k.initialize(ctx, caller, componentBonding, types.BondingConfigKey, params.Validate, func(ctx sdk.Context) error {
		if gp, err := k.GetGraduationParams(ctx); err == nil {
			if err := types.ValidateSupplyFits(params, gp.Supply); err != nil {
				return err
			}
		}
		return storeParams(k.getStore(ctx), types.BondingConfigKey, params)
	})
}

// InitializeGraduation sets the graduated asset supply and tax config once.
func (k Keeper) InitializeGraduation(ctx context.Context, caller sdk.AccAddress, supply types.GraduationParams, tax types.AgentTaxParams) error {
	validate := func() error {
		if err := supply.Validate(); err != nil {
			return err
		}
		return tax.Validate()
	}
	return k.initialize(ctx, caller, componentGraduation, types.GraduationConfigKey, validate, func(ctx sdk.Context) error {
		if bp, err := k.GetBondingParams(ctx); err == nil {
			if err := types.ValidateSupplyFits(bp, supply); err != nil {
				return err
			}
		}
		return storeParams(k.getStore(ctx), types.GraduationConfigKey, types.GraduationConfigParams{Supply: supply, Tax: tax})
	})
}

// InitializeTaxCollector sets the tax collector config once.
func (k Keeper) InitializeTaxCollector(ctx context.Context, caller sdk.AccAddress, params types.TaxCollectorParams) error {
	return k.initialize(ctx, caller, componentTaxCollector, types.TaxCollectorConfigKey, params.Validate, func(ctx sdk.Context) error {
		return storeParams(k.getStore(ctx), types.TaxCollectorConfigKey, params)
	})
}

func (k Keeper) initialize(
	ctx context.Context,
	caller sdk.AccAddress,
	component string,
	key []byte,
	validate func() error,
	persist func(ctx sdk.Context) error,
) error {
	return k.withGuard(ctx, types.OpInitialize, func(ctx sdk.Context) error {
		if err := k.authorize(ctx, types.OpInitialize, caller); err != nil {
			return err
		}
		if initStatus(k.getStore(ctx), key) == types.StatusInitialized {
			return types.ErrAlreadyInitialized.Wrap(component)
		}
		if err := validate(); err != nil {
			return err
		}
		if err := persist(ctx); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeInitialized,
			sdk.NewAttribute(types.AttributeKeyComponent, component),
		))
		k.Logger(ctx).Info("component initialized", "component", component)
		return nil
	})
}
