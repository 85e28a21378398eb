package keeper_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/fairlaunch/testutil/keeper"
	"github.com/paw-chain/fairlaunch/x/bonding/keeper"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

func TestGenesis(t *testing.T) {
	f := keepertest.NewBondingFixture(t)
	got, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.Nil(t, got.Gateway)
	require.Empty(t, got.Tokens)
	require.Len(t, got.Capabilities, len(types.DefaultCapabilityGrants()))
	require.NoError(t, got.Validate())
}

func TestGenesisRoundTrip(t *testing.T) {
	f := keepertest.BondingKeeper(t)
	f.Venue.FailWith(errors.New("venue unavailable"))
	token, _ := f.Graduate(t, creator, trader)
	f.Launch(t, alice, 500)

	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Tokens, 2)
	require.Len(t, exported.Pairs, 2)
	require.Len(t, exported.GraduatedAssets, 1)
	require.Len(t, exported.PendingSeeds, 1)
	require.Equal(t, token, exported.PendingSeeds[0].Token)
	require.NotNil(t, exported.Graduation)

	reserveState := f.Reserve.ExportGenesis(f.Ctx)

	g := keepertest.NewBondingFixture(t)
	require.NoError(t, g.Reserve.InitGenesis(g.Ctx, *reserveState))
	require.NoError(t, g.Keeper.InitGenesis(g.Ctx, *exported))

	reimported, err := g.Keeper.ExportGenesis(g.Ctx)
	require.NoError(t, err)
	want, err := json.Marshal(exported)
	require.NoError(t, err)
	have, err := json.Marshal(reimported)
	require.NoError(t, err)
	require.JSONEq(t, string(want), string(have))

	require.Equal(t, f.Keeper.TokenCount(f.Ctx), g.Keeper.TokenCount(g.Ctx))
	requireIntEqual(t, f.Keeper.BondingSupply(f.Ctx, token), g.Keeper.BondingSupply(g.Ctx, token))
	require.NoError(t, keeper.CheckInvariants(g.Ctx, *g.Keeper))

	// The imported state keeps working
	g.Venue.FailWith(nil)
	_, err = g.Keeper.RetrySeedLiquidity(g.Ctx, keepertest.Authority, token)
	require.NoError(t, err)
	require.NoError(t, keeper.CheckInvariants(g.Ctx, *g.Keeper))
}

func TestInitGenesisRejectsInvalid(t *testing.T) {
	f := keepertest.NewBondingFixture(t)
	gs := types.DefaultGenesis()
	gs.Tokens = []types.TokenInfo{{Index: 0, Token: types.TokenAddress(0)}}
	require.ErrorIs(t, f.Keeper.InitGenesis(f.Ctx, *gs), types.ErrInvalidGenesis)
}
