package keeper_test

import (
	"errors"
	"time"

	keepertest "github.com/paw-chain/fairlaunch/testutil/keeper"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

const taxDenom = "utax"

func (suite *KeeperTestSuite) grantTaxRouter() {
	suite.Require().NoError(suite.keeper().GrantCapability(suite.f.Ctx, keepertest.Authority, types.CapabilityTaxRouter, alice))
}

func (suite *KeeperTestSuite) TestDepositTax() {
	f := suite.f
	k := suite.keeper()
	f.Fund(suite.T(), alice, 1_000)

	err := k.DepositTax(f.Ctx, alice, whole(50))
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	suite.grantTaxRouter()
	suite.Require().ErrorIs(k.DepositTax(f.Ctx, alice, whole(0)), types.ErrZeroAmount)

	// Below the minimum the tax accumulates
	suite.Require().NoError(k.DepositTax(f.Ctx, alice, whole(50)))
	acc, err := k.GetTaxAccumulator(f.Ctx)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(50), acc.Balance)
	requireIntEqual(suite.T(), whole(50), f.Balance(types.ControllerAddress()))

	swapped, err := k.MaybeSwap(f.Ctx)
	suite.Require().NoError(err)
	suite.Require().False(swapped)

	// Crossing the minimum after the cooldown converts everything
	suite.Require().NoError(k.DepositTax(f.Ctx, alice, whole(60)))
	acc, err = k.GetTaxAccumulator(f.Ctx)
	suite.Require().NoError(err)
	suite.Require().True(acc.Balance.IsZero())
	requireIntEqual(suite.T(), whole(110), acc.TotalReceived)
	requireIntEqual(suite.T(), whole(110), acc.TotalConverted)
	suite.Require().Equal(uint64(1), acc.Swaps)
	suite.Require().Equal(f.Ctx.BlockTime().Unix(), acc.LastSwapTime)
	requireIntEqual(suite.T(), whole(110), f.Reserve.GetBalance(f.Ctx, keepertest.Treasury, taxDenom).Amount)
	suite.Require().True(f.Balance(types.ControllerAddress()).IsZero())
	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestMaybeSwapCooldown() {
	f := suite.f
	k := suite.keeper()
	f.Fund(suite.T(), alice, 10_000)
	suite.grantTaxRouter()

	suite.Require().NoError(k.DepositTax(f.Ctx, alice, whole(100)))
	suite.Require().NoError(k.DepositTax(f.Ctx, alice, whole(200)))

	// The cooldown holds the second deposit back
	acc, err := k.GetTaxAccumulator(f.Ctx)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(200), acc.Balance)
	swapped, err := k.MaybeSwap(f.Ctx)
	suite.Require().NoError(err)
	suite.Require().False(swapped)

	f.Advance(time.Hour)
	swapped, err = k.MaybeSwap(f.Ctx)
	suite.Require().NoError(err)
	suite.Require().True(swapped)

	// The maximum threshold ignores the cooldown
	suite.Require().NoError(k.DepositTax(f.Ctx, alice, whole(1_000)))
	acc, err = k.GetTaxAccumulator(f.Ctx)
	suite.Require().NoError(err)
	suite.Require().True(acc.Balance.IsZero())
	suite.Require().Equal(uint64(3), acc.Swaps)
	requireIntEqual(suite.T(), whole(1_300), f.Reserve.GetBalance(f.Ctx, keepertest.Treasury, taxDenom).Amount)
}

func (suite *KeeperTestSuite) TestForceSwap() {
	f := suite.f
	k := suite.keeper()

	_, err := k.ForceSwap(f.Ctx, keepertest.Authority)
	suite.Require().ErrorIs(err, types.ErrNothingToSwap)

	f.Fund(suite.T(), alice, 100)
	suite.grantTaxRouter()
	suite.Require().NoError(k.DepositTax(f.Ctx, alice, whole(5)))

	_, err = k.ForceSwap(f.Ctx, stranger)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	out, err := k.ForceSwap(f.Ctx, keepertest.Authority)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(5), out)
	requireIntEqual(suite.T(), whole(5), f.Reserve.GetBalance(f.Ctx, keepertest.Treasury, taxDenom).Amount)
}

func (suite *KeeperTestSuite) TestRouterFailureRetainsTax() {
	f := suite.f
	k := suite.keeper()
	f.Fund(suite.T(), alice, 1_000)
	suite.grantTaxRouter()
	f.Router.FailWith(errors.New("router paused"))

	// The deposit succeeds; the failed conversion is only recorded
	suite.Require().NoError(k.DepositTax(f.Ctx, alice, whole(150)))
	acc, err := k.GetTaxAccumulator(f.Ctx)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(150), acc.Balance)
	suite.Require().Equal(uint64(1), acc.FailedSwaps)
	suite.Require().Contains(acc.LastError, "router paused")
	requireIntEqual(suite.T(), whole(150), f.Balance(types.ControllerAddress()))
	suite.Require().True(f.Balance(f.Router.Address()).IsZero())

	_, err = k.ForceSwap(f.Ctx, keepertest.Authority)
	suite.Require().ErrorIs(err, types.ErrTaxSwapFailed)
	acc, err = k.GetTaxAccumulator(f.Ctx)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(150), acc.Balance)
	suite.Require().Equal(uint64(2), acc.FailedSwaps)
	suite.checkInvariants()

	f.Router.FailWith(nil)
	swapped, err := k.MaybeSwap(f.Ctx)
	suite.Require().NoError(err)
	suite.Require().True(swapped)
	acc, err = k.GetTaxAccumulator(f.Ctx)
	suite.Require().NoError(err)
	suite.Require().True(acc.Balance.IsZero())
	suite.Require().Empty(acc.LastError)
}

func (suite *KeeperTestSuite) TestTaxCollectorNotInitialized() {
	f := keepertest.NewBondingFixture(suite.T())
	swapped, err := f.Keeper.MaybeSwap(f.Ctx)
	suite.Require().NoError(err)
	suite.Require().False(swapped)

	_, err = f.Keeper.ForceSwap(f.Ctx, keepertest.Authority)
	suite.Require().ErrorIs(err, types.ErrNotInitialized)
}
