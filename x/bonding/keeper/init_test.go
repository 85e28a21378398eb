package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/fairlaunch/testutil/keeper"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

func TestInitialize(t *testing.T) {
	f := keepertest.NewBondingFixture(t)
	k, ctx := f.Keeper, f.Ctx

	for component, status := range k.InitStatuses(ctx) {
		require.Equal(t, types.StatusUninitialized, status, component)
	}
	_, err := k.GetGatewayParams(ctx)
	require.ErrorIs(t, err, types.ErrNotInitialized)

	err = k.InitializeGateway(ctx, alice, keepertest.TestGatewayParams())
	require.ErrorIs(t, err, types.ErrUnauthorized)

	bad := keepertest.TestGatewayParams()
	bad.MaxTx = math.ZeroInt()
	require.Error(t, k.InitializeGateway(ctx, keepertest.Authority, bad))
	require.Equal(t, types.StatusUninitialized, k.InitStatuses(ctx)["gateway"])

	require.NoError(t, k.InitializeGateway(ctx, keepertest.Authority, keepertest.TestGatewayParams()))
	require.Equal(t, types.StatusInitialized, k.InitStatuses(ctx)["gateway"])
	gp, err := k.GetGatewayParams(ctx)
	require.NoError(t, err)
	require.Equal(t, types.DefaultAssetDenom, gp.AssetDenom)

	err = k.InitializeGateway(ctx, keepertest.Authority, keepertest.TestGatewayParams())
	require.ErrorIs(t, err, types.ErrAlreadyInitialized)
}

func TestInitializeSupplyMustFit(t *testing.T) {
	f := keepertest.NewBondingFixture(t)
	k, ctx := f.Keeper, f.Ctx
	require.NoError(t, k.InitializeBonding(ctx, keepertest.Authority, keepertest.TestBondingParams()))

	// 200M LP + 100M vault + 1B bonding does not fit a 1B cap
	grad := keepertest.TestGraduationParams()
	grad.Supply.MaxSupply = types.WholeTokens(1_000_000_000)
	err := k.InitializeGraduation(ctx, keepertest.Authority, grad.Supply, grad.Tax)
	require.ErrorIs(t, err, types.ErrSupplyMismatch)

	grad = keepertest.TestGraduationParams()
	require.NoError(t, k.InitializeGraduation(ctx, keepertest.Authority, grad.Supply, grad.Tax))
	got, err := k.GetGraduationParams(ctx)
	require.NoError(t, err)
	require.Equal(t, grad.Tax.TaxSwapThresholdBasisPoints, got.Tax.TaxSwapThresholdBasisPoints)
}

func TestCapabilities(t *testing.T) {
	f := keepertest.BondingKeeper(t)
	k, ctx := f.Keeper, f.Ctx

	err := k.GrantCapability(ctx, alice, types.CapabilityExecutor, bob)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	require.NoError(t, k.GrantCapability(ctx, keepertest.Authority, types.CapabilityAdmin, alice))
	require.True(t, k.HasCapability(ctx, types.CapabilityAdmin, alice))

	// A granted admin can grant in turn
	require.NoError(t, k.GrantCapability(ctx, alice, types.CapabilityExecutor, bob))
	require.True(t, k.HasCapability(ctx, types.CapabilityExecutor, bob))

	require.Error(t, k.GrantCapability(ctx, alice, types.Capability("root"), bob))
	require.ErrorIs(t, k.GrantCapability(ctx, alice, types.CapabilityExecutor, nil), types.ErrInvalidAddress)

	require.NoError(t, k.RevokeCapability(ctx, keepertest.Authority, types.CapabilityExecutor, bob))
	require.False(t, k.HasCapability(ctx, types.CapabilityExecutor, bob))

	grants := k.GetAllCapabilityGrants(ctx)
	require.Len(t, grants, len(types.DefaultCapabilityGrants())+1)
}
