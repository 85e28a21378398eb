package keeper_test

import (
	"context"
	"errors"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/fairlaunch/testutil/keeper"
	"github.com/paw-chain/fairlaunch/x/bonding/sqrtprice"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

func (suite *KeeperTestSuite) TestGraduation() {
	f := suite.f
	k := suite.keeper()
	token, asset := f.Graduate(suite.T(), creator, trader)
	ctx := f.Ctx

	info, err := k.GetTokenInfo(ctx, token)
	suite.Require().NoError(err)
	suite.Require().True(info.Graduated())
	suite.Require().False(info.Trading)
	suite.Require().Equal(types.PhaseGraduated, info.Phase)
	suite.Require().Equal(asset.Address, info.AgentToken)

	// Trading on the curve is closed
	f.Fund(suite.T(), trader, 10)
	_, err = k.Buy(ctx, trader, token, whole(1), math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrAlreadyGraduated)
	_, err = k.Sell(ctx, trader, token, whole(1), math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrAlreadyGraduated)
	err = k.TransferBonding(ctx, token, trader, alice, whole(1))
	suite.Require().ErrorIs(err, types.ErrAlreadyGraduated)

	// The pair's remaining tokens are burned and its asset moved to the venue
	pair, err := k.GetPair(ctx, token)
	suite.Require().NoError(err)
	suite.Require().True(pair.AssetBalance.IsZero())
	suite.Require().True(k.BondingBalance(ctx, token, pair.Address()).IsZero())
	requireIntEqual(suite.T(), pair.ReserveA, asset.PairBurned)

	wantPrice, err := sqrtprice.SqrtPriceX96(pair.ReserveA, pair.ReserveB, types.DefaultDecimals, types.DefaultDecimals)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), wantPrice, asset.SeedSqrtPriceX96)

	// LP supply sits in the venue pool, vault supply with the vault
	gp := keepertest.TestGraduationParams().Supply
	suite.Require().True(asset.Seeded)
	suite.Require().NotEmpty(asset.PositionID)
	suite.Require().Equal(f.Venue.PoolAddress(types.DefaultAssetDenom, asset.Address), asset.Pool)
	requireIntEqual(suite.T(), gp.LpSupply, k.AgentBalance(ctx, asset.Address, asset.Pool))
	requireIntEqual(suite.T(), gp.VaultSupply, k.AgentBalance(ctx, asset.Address, keepertest.Vault))
	suite.Require().True(k.AgentBalance(ctx, asset.Address, types.FactoryAddress()).IsZero())
	requireIntEqual(suite.T(), gp.LpSupply.Add(gp.VaultSupply), asset.TotalSupply)
	suite.Require().Equal(ctx.BlockTime().Unix()+gp.BotProtectionDurationSeconds, asset.BotProtectionUntil)

	pos, ok := f.Venue.Position(asset.Pool)
	suite.Require().True(ok)
	suite.Require().Equal(asset.PositionID, pos.ID)
	requireIntEqual(suite.T(), whole(10_890), pos.AmountAsset)
	requireIntEqual(suite.T(), gp.LpSupply, pos.AmountToken)
	requireIntEqual(suite.T(), whole(10_890), f.Balance(asset.Pool))

	// 110 of accumulated tax was converted on the graduating buy
	acc, err := k.GetTaxAccumulator(ctx)
	suite.Require().NoError(err)
	suite.Require().True(acc.Balance.IsZero())
	requireIntEqual(suite.T(), whole(110), acc.TotalForwarded)
	requireIntEqual(suite.T(), whole(110), f.Reserve.GetBalance(ctx, keepertest.Treasury, "utax").Amount)
	suite.Require().Equal(uint64(1), f.Router.Swaps())

	_, err = k.GetPendingSeed(ctx, token)
	suite.Require().ErrorIs(err, types.ErrNoPendingSeed)
	suite.Require().True(f.Balance(types.ControllerAddress()).IsZero())

	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestCreateGraduatedAssetRequiresBonding() {
	f := suite.f
	token := f.Launch(suite.T(), creator, 1_100).Token
	_, err := suite.keeper().CreateGraduatedAsset(f.Ctx, stranger, token)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	_, err = suite.keeper().CreateGraduatedAsset(f.Ctx, types.ControllerAddress(), types.TokenAddress(7))
	suite.Require().ErrorIs(err, types.ErrTokenNotFound)
}

func (suite *KeeperTestSuite) TestSeedFailureLeavesPendingSeed() {
	f := suite.f
	k := suite.keeper()
	f.Venue.FailWith(errors.New("venue unavailable"))

	token, asset := f.Graduate(suite.T(), creator, trader)
	ctx := f.Ctx

	// Graduation commits even though the venue rejected the seed
	info, err := k.GetTokenInfo(ctx, token)
	suite.Require().NoError(err)
	suite.Require().True(info.Graduated())
	suite.Require().False(asset.Seeded)
	suite.Require().Empty(asset.PositionID)

	seed, err := k.GetPendingSeed(ctx, token)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(1), seed.Attempts)
	suite.Require().Contains(seed.LastError, "venue unavailable")
	requireIntEqual(suite.T(), whole(10_890), seed.AmountAsset)

	// The escrow stays with the module and the factory
	requireIntEqual(suite.T(), whole(10_890), f.Balance(types.ControllerAddress()))
	suite.Require().True(f.Balance(asset.Pool).IsZero())
	requireIntEqual(suite.T(), seed.AmountToken, k.AgentBalance(ctx, asset.Address, types.FactoryAddress()))
	suite.checkInvariants()

	// Only the admin may retry
	_, err = k.RetrySeedLiquidity(ctx, stranger, token)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	// A retry that fails again is still recorded
	_, err = k.RetrySeedLiquidity(ctx, keepertest.Authority, token)
	suite.Require().ErrorIs(err, types.ErrLiquiditySeedFailed)
	seed, err = k.GetPendingSeed(ctx, token)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(2), seed.Attempts)

	f.Venue.FailWith(nil)
	positionID, err := k.RetrySeedLiquidity(ctx, keepertest.Authority, token)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(positionID)

	asset, err = k.GetGraduatedAsset(ctx, asset.Address)
	suite.Require().NoError(err)
	suite.Require().True(asset.Seeded)
	suite.Require().Equal(positionID, asset.PositionID)
	_, err = k.GetPendingSeed(ctx, token)
	suite.Require().ErrorIs(err, types.ErrNoPendingSeed)
	requireIntEqual(suite.T(), whole(10_890), f.Balance(asset.Pool))
	suite.Require().True(f.Balance(types.ControllerAddress()).IsZero())

	_, err = k.RetrySeedLiquidity(ctx, keepertest.Authority, token)
	suite.Require().ErrorIs(err, types.ErrNoPendingSeed)
	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestReentrantVenueCallRejected() {
	f := suite.f
	k := suite.keeper()
	res := f.Launch(suite.T(), creator, 1_100)
	f.Fund(suite.T(), alice, 10)

	var hookErr error
	f.Venue.SetHook(func(ctx context.Context, _ types.SeedRequest) error {
		_, hookErr = k.Buy(ctx, alice, res.Token, whole(10), math.ZeroInt())
		return hookErr
	})

	f.Fund(suite.T(), trader, 10_000)
	for i := 0; i < 2; i++ {
		_, err := k.Buy(f.Ctx, trader, res.Token, whole(5_000), math.ZeroInt())
		suite.Require().NoError(err)
	}

	suite.Require().ErrorIs(hookErr, types.ErrReentrantCall)
	suite.Require().False(k.Locked(f.Ctx))

	// The venue call failed, so the seed is pending and the reentrant buy left no trace
	seed, err := k.GetPendingSeed(f.Ctx, res.Token)
	suite.Require().NoError(err)
	suite.Require().Contains(seed.LastError, "reentrant")
	requireIntEqual(suite.T(), whole(10), f.Balance(alice))
	suite.Require().True(k.BondingBalance(f.Ctx, res.Token, alice).IsZero())
	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestUnwrap() {
	f := suite.f
	k := suite.keeper()
	res := f.Launch(suite.T(), creator, 1_100)

	_, err := k.Unwrap(f.Ctx, stranger, res.Token, []sdk.AccAddress{creator})
	suite.Require().ErrorIs(err, types.ErrNotGraduated)

	token, asset := suite.graduateLaunched(res.Token)
	ctx := f.Ctx
	creatorHeld := k.BondingBalance(ctx, token, creator)
	traderHeld := k.BondingBalance(ctx, token, trader)
	suite.Require().True(creatorHeld.IsPositive())
	suite.Require().True(traderHeld.IsPositive())

	results, err := k.Unwrap(ctx, stranger, token, []sdk.AccAddress{creator, trader, bob})
	suite.Require().NoError(err)
	suite.Require().Len(results, 2)
	suite.Require().Equal(creator, results[0].Holder)
	requireIntEqual(suite.T(), creatorHeld, results[0].Amount)
	requireIntEqual(suite.T(), traderHeld, results[1].Amount)

	// Every bonding token is now a graduated asset
	suite.Require().True(k.BondingSupply(ctx, token).IsZero())
	requireIntEqual(suite.T(), creatorHeld, k.AgentBalance(ctx, asset.Address, creator))
	requireIntEqual(suite.T(), traderHeld, k.AgentBalance(ctx, asset.Address, trader))

	asset, err = k.GetGraduatedAsset(ctx, asset.Address)
	suite.Require().NoError(err)
	unwrapped := creatorHeld.Add(traderHeld)
	requireIntEqual(suite.T(), unwrapped, asset.UnwrapMinted)
	requireIntEqual(suite.T(), unwrapped, asset.BondingBurned)
	gp := keepertest.TestGraduationParams().Supply
	requireIntEqual(suite.T(), gp.LpSupply.Add(gp.VaultSupply).Add(unwrapped), asset.TotalSupply)

	// A second unwrap has nothing left to convert
	results, err = k.Unwrap(ctx, stranger, token, []sdk.AccAddress{creator, trader})
	suite.Require().NoError(err)
	suite.Require().Empty(results)

	suite.checkInvariants()
}

// graduateLaunched buys token up to graduation with two maximal buys.
func (suite *KeeperTestSuite) graduateLaunched(token sdk.AccAddress) (sdk.AccAddress, types.GraduatedAsset) {
	f := suite.f
	f.Fund(suite.T(), trader, 10_000)
	for i := 0; i < 2; i++ {
		_, err := suite.keeper().Buy(f.Ctx, trader, token, whole(5_000), math.ZeroInt())
		suite.Require().NoError(err)
	}
	asset, err := suite.keeper().GetGraduatedAssetByToken(f.Ctx, token)
	suite.Require().NoError(err)
	return token, asset
}
