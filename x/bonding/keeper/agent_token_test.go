package keeper_test

import (
	"errors"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/fairlaunch/testutil/keeper"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// unwrappedAsset graduates a token and unwraps the trader's position.
func (suite *KeeperTestSuite) unwrappedAsset() types.GraduatedAsset {
	f := suite.f
	token, asset := f.Graduate(suite.T(), creator, trader)
	_, err := suite.keeper().Unwrap(f.Ctx, trader, token, []sdk.AccAddress{trader})
	suite.Require().NoError(err)
	asset, err = suite.keeper().GetGraduatedAsset(f.Ctx, asset.Address)
	suite.Require().NoError(err)
	return asset
}

func (suite *KeeperTestSuite) TestAgentBotProtection() {
	f := suite.f
	k := suite.keeper()
	asset := suite.unwrappedAsset()

	_, err := k.TransferAgent(f.Ctx, asset.Address, trader, alice, whole(1_000))
	suite.Require().ErrorIs(err, types.ErrBotProtectionActive)

	// The vault is exempt
	received, err := k.TransferAgent(f.Ctx, asset.Address, keepertest.Vault, alice, whole(1_000))
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(1_000), received)

	f.Advance(time.Duration(asset.Limits.BotProtectionDurationSeconds) * time.Second)
	received, err = k.TransferAgent(f.Ctx, asset.Address, trader, alice, whole(1_000))
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(1_000), received)
	requireIntEqual(suite.T(), whole(2_000), k.AgentBalance(f.Ctx, asset.Address, alice))
}

func (suite *KeeperTestSuite) TestAgentTransferLimits() {
	f := suite.f
	k := suite.keeper()
	asset := suite.unwrappedAsset()
	f.Advance(61 * time.Second)

	maxTxn := asset.Limits.MaxTokensPerTxn
	maxWallet := asset.Limits.MaxTokensPerWallet

	_, err := k.TransferAgent(f.Ctx, asset.Address, trader, alice, maxTxn.AddRaw(1))
	suite.Require().ErrorIs(err, types.ErrExceedsMaxTransaction)

	// Two maximal transfers fit the wallet, a third would not
	for i := 0; i < 2; i++ {
		_, err = k.TransferAgent(f.Ctx, asset.Address, trader, alice, maxTxn)
		suite.Require().NoError(err)
	}
	requireIntEqual(suite.T(), maxWallet, k.AgentBalance(f.Ctx, asset.Address, alice))
	_, err = k.TransferAgent(f.Ctx, asset.Address, trader, alice, whole(1))
	suite.Require().ErrorIs(err, types.ErrExceedsMaxWallet)

	// Exempt senders skip the per-transaction cap but not the wallet cap
	_, err = k.TransferAgent(f.Ctx, asset.Address, keepertest.Vault, bob, maxTxn.AddRaw(1))
	suite.Require().NoError(err)
	_, err = k.TransferAgent(f.Ctx, asset.Address, keepertest.Vault, bob, maxWallet)
	suite.Require().ErrorIs(err, types.ErrExceedsMaxWallet)

	_, err = k.TransferAgent(f.Ctx, asset.Address, stranger, bob, whole(1))
	suite.Require().ErrorIs(err, types.ErrInsufficientBalance)

	_, err = k.TransferAgent(f.Ctx, types.AgentAddress(types.TokenAddress(9)), trader, bob, whole(1))
	suite.Require().ErrorIs(err, types.ErrTokenNotFound)
	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestAgentPoolTax() {
	f := suite.f
	k := suite.keeper()
	asset := suite.unwrappedAsset()
	f.Advance(61 * time.Second)
	poolBefore := k.AgentBalance(f.Ctx, asset.Address, asset.Pool)

	// A small sell is taxed and the tax held by the asset
	received, err := k.TransferAgent(f.Ctx, asset.Address, trader, asset.Pool, whole(1_000_000))
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(990_000), received)
	requireIntEqual(suite.T(), whole(10_000), k.AgentBalance(f.Ctx, asset.Address, asset.Address))
	requireIntEqual(suite.T(), poolBefore.Add(whole(990_000)), k.AgentBalance(f.Ctx, asset.Address, asset.Pool))

	stored, err := k.GetGraduatedAsset(f.Ctx, asset.Address)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(10_000), stored.PendingTax)
	suite.Require().True(stored.PendingTax.LT(stored.TaxSwapThreshold()))

	// Buys from the pool are taxed too
	received, err = k.TransferAgent(f.Ctx, asset.Address, asset.Pool, alice, whole(1_000_000))
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(990_000), received)
	requireIntEqual(suite.T(), whole(990_000), k.AgentBalance(f.Ctx, asset.Address, alice))

	// A sell that lifts pending tax over the threshold forwards all of it
	treasuryBefore := f.Balance(keepertest.Treasury)
	_, err = k.TransferAgent(f.Ctx, asset.Address, trader, asset.Pool, whole(9_900_000))
	suite.Require().NoError(err)

	stored, err = k.GetGraduatedAsset(f.Ctx, asset.Address)
	suite.Require().NoError(err)
	suite.Require().True(stored.PendingTax.IsZero())
	forwarded := whole(10_000 + 10_000 + 99_000)
	requireIntEqual(suite.T(), treasuryBefore.Add(forwarded), f.Balance(keepertest.Treasury))
	requireIntEqual(suite.T(), forwarded, k.AgentBalance(f.Ctx, asset.Address, f.Router.Address()))
	suite.Require().True(k.AgentBalance(f.Ctx, asset.Address, asset.Address).IsZero())
	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestAgentTaxForwardFailureKeepsTax() {
	f := suite.f
	k := suite.keeper()
	asset := suite.unwrappedAsset()
	f.Advance(61 * time.Second)
	f.Router.FailWith(errors.New("router paused"))

	_, err := k.TransferAgent(f.Ctx, asset.Address, trader, asset.Pool, whole(9_900_000))
	suite.Require().NoError(err)

	stored, err := k.GetGraduatedAsset(f.Ctx, asset.Address)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(99_000), stored.PendingTax)
	requireIntEqual(suite.T(), whole(99_000), k.AgentBalance(f.Ctx, asset.Address, asset.Address))

	// The next sell retries once the router is back
	f.Router.FailWith(nil)
	_, err = k.TransferAgent(f.Ctx, asset.Address, trader, asset.Pool, whole(100))
	suite.Require().NoError(err)
	stored, err = k.GetGraduatedAsset(f.Ctx, asset.Address)
	suite.Require().NoError(err)
	suite.Require().True(stored.PendingTax.IsZero())
}
