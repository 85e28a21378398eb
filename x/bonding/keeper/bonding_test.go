package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/fairlaunch/testutil/keeper"
	"github.com/paw-chain/fairlaunch/x/bonding/keeper"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

func TestVirtualLiquidity(t *testing.T) {
	liquidity, err := keeper.VirtualLiquidity(whole(1_000_000_000), math.NewInt(5_000), types.DefaultDecimals)
	require.NoError(t, err)
	requireIntEqual(t, whole(6_000), liquidity)

	_, err = keeper.VirtualLiquidity(math.ZeroInt(), math.NewInt(5_000), types.DefaultDecimals)
	require.ErrorIs(t, err, types.ErrInvalidParams)

	_, err = keeper.VirtualLiquidity(whole(1_000_000_000), math.NewInt(5_000), 0)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
}

func (suite *KeeperTestSuite) TestLaunch() {
	f := suite.f
	res := f.Launch(suite.T(), creator, 1_100)
	ctx := f.Ctx
	k := suite.keeper()

	suite.Require().Equal(uint64(0), res.Index)
	suite.Require().Equal(types.TokenAddress(0), res.Token)
	suite.Require().Equal(types.PairAddress(res.Token), res.Pair)
	suite.Require().False(res.Graduated)
	suite.Require().Equal(uint64(1), k.TokenCount(ctx))

	// Fee goes to FeeTo, the rest buys from the curve
	requireIntEqual(suite.T(), whole(100), f.Balance(keepertest.FeeTo))
	suite.Require().True(f.Balance(creator).IsZero())
	requireIntEqual(suite.T(), whole(1_000), res.InitialBuy.AmountIn)
	requireIntEqual(suite.T(), whole(10), res.InitialBuy.Tax)

	supply := whole(1_000_000_000)
	wantOut := supply.Mul(whole(990)).Quo(whole(6_990))
	requireIntEqual(suite.T(), wantOut, res.InitialBuy.AmountOut)
	requireIntEqual(suite.T(), wantOut, k.BondingBalance(ctx, res.Token, creator))
	requireIntEqual(suite.T(), supply, k.BondingSupply(ctx, res.Token))

	pair, err := k.GetPair(ctx, res.Token)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(990), pair.AssetBalance)
	requireIntEqual(suite.T(), whole(6_990), pair.ReserveB)
	requireIntEqual(suite.T(), supply.Sub(wantOut), pair.ReserveA)

	info, err := k.GetTokenInfo(ctx, res.Token)
	suite.Require().NoError(err)
	suite.Require().True(info.Trading)
	suite.Require().False(info.Graduated())
	suite.Require().Equal(types.PhaseTrading, info.Phase)
	suite.Require().Equal("Fair Agent", info.Data.Name)
	suite.Require().Equal("FAIR", info.Data.Ticker)
	suite.Require().Equal([]uint32{0, 1}, info.Cores)
	requireIntEqual(suite.T(), whole(990), info.Data.Liquidity)
	suite.Require().Equal(keepertest.GenesisTime.Unix(), info.LaunchedAt)

	tokens, err := k.GetUserTokens(ctx, creator)
	suite.Require().NoError(err)
	suite.Require().Equal(1, len(tokens))
	suite.Require().Equal(res.Token, tokens[0])

	acc, err := k.GetTaxAccumulator(ctx)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(10), acc.Balance)
	requireIntEqual(suite.T(), whole(1_000), f.Balance(types.ControllerAddress()))

	// A second launch takes the next index
	res2 := f.Launch(suite.T(), creator, 200)
	suite.Require().Equal(uint64(1), res2.Index)
	suite.Require().NotEqual(res.Token, res2.Token)
	tokens, err = k.GetUserTokens(ctx, creator)
	suite.Require().NoError(err)
	suite.Require().Equal(2, len(tokens))

	infos, err := k.GetAllTokenInfos(ctx, 1, 10)
	suite.Require().NoError(err)
	suite.Require().Equal(1, len(infos))
	suite.Require().Equal(res2.Token, infos[0].Token)

	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestLaunchErrors() {
	f := suite.f
	k := suite.keeper()
	f.Fund(suite.T(), creator, 1_000)

	tests := []struct {
		name    string
		creator sdk.AccAddress
		req     types.LaunchRequest
		err     error
	}{
		{
			name:    "zero purchase",
			creator: creator,
			req:     types.LaunchRequest{Name: "A", Ticker: "A", PurchaseAmount: math.ZeroInt()},
			err:     types.ErrZeroPurchase,
		},
		{
			name:    "purchase does not cover fee",
			creator: creator,
			req:     types.LaunchRequest{Name: "A", Ticker: "A", PurchaseAmount: whole(100)},
			err:     types.ErrInsufficientPurchase,
		},
		{
			name:    "missing name",
			creator: creator,
			req:     types.LaunchRequest{Ticker: "A", PurchaseAmount: whole(200)},
			err:     types.ErrInvalidMetadata,
		},
		{
			name:    "unfunded creator",
			creator: stranger,
			req:     types.LaunchRequest{Name: "A", Ticker: "A", PurchaseAmount: whole(200)},
			err:     types.ErrInsufficientFunds,
		},
	}
	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := k.Launch(f.Ctx, tc.creator, tc.req)
			suite.Require().ErrorIs(err, tc.err)
		})
	}

	// Nothing was recorded by the failed launches
	suite.Require().Equal(uint64(0), k.TokenCount(f.Ctx))
	requireIntEqual(suite.T(), whole(1_000), f.Balance(creator))
	suite.Require().True(f.Balance(keepertest.FeeTo).IsZero())
	suite.Require().False(k.Locked(f.Ctx))
}

func TestLaunchNotInitialized(t *testing.T) {
	f := keepertest.NewBondingFixture(t)
	f.Fund(t, creator, 1_100)
	_, err := f.Keeper.Launch(f.Ctx, creator, types.LaunchRequest{Name: "A", Ticker: "A", PurchaseAmount: whole(1_100)})
	require.ErrorIs(t, err, types.ErrNotInitialized)
}

func (suite *KeeperTestSuite) TestLaunchGraduatesImmediately() {
	f := suite.f
	// 11,000 after the fee nets 10,890 into the pair, above the threshold
	res := f.Launch(suite.T(), creator, 11_100)
	suite.Require().True(res.Graduated)
	suite.Require().True(res.TokenInfo.Graduated())
	suite.Require().Equal(types.PhaseGraduated, res.TokenInfo.Phase)
	suite.Require().Equal(types.AgentAddress(res.Token), res.TokenInfo.AgentToken)

	asset, err := suite.keeper().GetGraduatedAssetByToken(f.Ctx, res.Token)
	suite.Require().NoError(err)
	suite.Require().True(asset.Seeded)
	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestBuy() {
	f := suite.f
	k := suite.keeper()
	token := f.Launch(suite.T(), creator, 1_100).Token
	f.Fund(suite.T(), trader, 2_000)

	out, tax, err := k.QuoteBuy(f.Ctx, token, whole(1_000))
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(10), tax)

	res, err := k.Buy(f.Ctx, trader, token, whole(1_000), out)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), out, res.AmountOut)
	requireIntEqual(suite.T(), tax, res.Tax)
	suite.Require().False(res.Graduated)
	requireIntEqual(suite.T(), out, k.BondingBalance(f.Ctx, token, trader))
	requireIntEqual(suite.T(), whole(1_000), f.Balance(trader))

	info, err := k.GetTokenInfo(f.Ctx, token)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(990+990), info.Data.Liquidity)
	requireIntEqual(suite.T(), whole(990+990), info.Data.Volume)

	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestBuyErrors() {
	f := suite.f
	k := suite.keeper()
	token := f.Launch(suite.T(), creator, 1_100).Token
	f.Fund(suite.T(), trader, 10_000)

	out, _, err := k.QuoteBuy(f.Ctx, token, whole(1_000))
	suite.Require().NoError(err)
	pairBefore, err := k.GetPair(f.Ctx, token)
	suite.Require().NoError(err)

	_, err = k.Buy(f.Ctx, trader, token, whole(1_000), out.AddRaw(1))
	suite.Require().ErrorIs(err, types.ErrSlippageExceeded)

	_, err = k.Buy(f.Ctx, trader, token, whole(5_001), math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrExceedsMaxTransaction)

	_, err = k.Buy(f.Ctx, trader, token, math.ZeroInt(), math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrZeroAmount)

	_, err = k.Buy(f.Ctx, trader, types.TokenAddress(42), whole(1), math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrTokenNotFound)

	_, err = k.Buy(f.Ctx, stranger, token, whole(1), math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrInsufficientFunds)

	// Failed buys leave balances and reserves untouched
	requireIntEqual(suite.T(), whole(10_000), f.Balance(trader))
	suite.Require().True(k.BondingBalance(f.Ctx, token, trader).IsZero())
	pairAfter, err := k.GetPair(f.Ctx, token)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), pairBefore.ReserveA, pairAfter.ReserveA)
	requireIntEqual(suite.T(), pairBefore.ReserveB, pairAfter.ReserveB)
	suite.Require().False(k.Locked(f.Ctx))
}

func (suite *KeeperTestSuite) TestSell() {
	f := suite.f
	k := suite.keeper()
	token := f.Launch(suite.T(), creator, 1_100).Token
	f.Fund(suite.T(), trader, 1_000)

	_, err := k.Buy(f.Ctx, trader, token, whole(1_000), math.ZeroInt())
	suite.Require().NoError(err)
	held := k.BondingBalance(f.Ctx, token, trader)

	_, err = k.Sell(f.Ctx, trader, token, held.AddRaw(1), math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrInsufficientBalance)

	quoted, tax, err := k.QuoteSell(f.Ctx, token, held)
	suite.Require().NoError(err)
	suite.Require().True(tax.IsPositive())

	_, err = k.Sell(f.Ctx, trader, token, held, quoted.AddRaw(1))
	suite.Require().ErrorIs(err, types.ErrSlippageExceeded)

	res, err := k.Sell(f.Ctx, trader, token, held, quoted)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), quoted, res.AmountOut)
	requireIntEqual(suite.T(), tax, res.Tax)
	requireIntEqual(suite.T(), quoted, f.Balance(trader))
	suite.Require().True(k.BondingBalance(f.Ctx, token, trader).IsZero())

	// The round trip pays tax both ways
	suite.Require().True(quoted.LT(whole(990)))

	acc, err := k.GetTaxAccumulator(f.Ctx)
	suite.Require().NoError(err)
	requireIntEqual(suite.T(), whole(20).Add(tax), acc.Balance)

	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestSellEverythingBought() {
	f := suite.f
	k := suite.keeper()
	token := f.Launch(suite.T(), creator, 1_100).Token
	f.Fund(suite.T(), trader, 4_000)

	bought, err := k.Buy(f.Ctx, trader, token, whole(4_000), math.ZeroInt())
	suite.Require().NoError(err)
	// Far more tokens than the asset-denominated cap
	suite.Require().True(bought.AmountOut.GT(whole(5_000)))

	res, err := k.Sell(f.Ctx, trader, token, bought.AmountOut, math.ZeroInt())
	suite.Require().NoError(err)
	suite.Require().True(res.AmountOut.IsPositive())
	suite.Require().True(k.BondingBalance(f.Ctx, token, trader).IsZero())
	requireIntEqual(suite.T(), res.AmountOut, f.Balance(trader))

	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestSellCappedByAssetValue() {
	f := suite.f
	k := suite.keeper()
	token := f.Launch(suite.T(), creator, 1_100).Token
	f.Fund(suite.T(), trader, 8_000)

	for i := 0; i < 2; i++ {
		res, err := k.Buy(f.Ctx, trader, token, whole(4_000), math.ZeroInt())
		suite.Require().NoError(err)
		suite.Require().False(res.Graduated)
	}
	held := k.BondingBalance(f.Ctx, token, trader)

	// Selling everything would pay out about 7,920 of reserve asset
	net, tax, err := k.QuoteSell(f.Ctx, token, held)
	suite.Require().NoError(err)
	suite.Require().True(net.Add(tax).GT(whole(5_000)))

	_, err = k.Sell(f.Ctx, trader, token, held, math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrExceedsMaxTransaction)
	requireIntEqual(suite.T(), held, k.BondingBalance(f.Ctx, token, trader))

	_, err = k.Sell(f.Ctx, trader, token, held.QuoRaw(4), math.ZeroInt())
	suite.Require().NoError(err)

	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestTransferBonding() {
	f := suite.f
	k := suite.keeper()
	// 5,900 spent on the initial buy, more than the 5,000 transfer cap
	token := f.Launch(suite.T(), creator, 6_000).Token
	held := k.BondingBalance(f.Ctx, token, creator)

	suite.Require().NoError(k.TransferBonding(f.Ctx, token, creator, alice, whole(1_000)))
	requireIntEqual(suite.T(), whole(1_000), k.BondingBalance(f.Ctx, token, alice))
	requireIntEqual(suite.T(), held.Sub(whole(1_000)), k.BondingBalance(f.Ctx, token, creator))

	// The cap applies to the reserve value of the tokens, not their count
	err := k.TransferBonding(f.Ctx, token, creator, alice, held.Sub(whole(1_000)))
	suite.Require().ErrorIs(err, types.ErrExceedsMaxTransaction)
	half := held.QuoRaw(2)
	suite.Require().NoError(k.TransferBonding(f.Ctx, token, creator, alice, half))

	err = k.TransferBonding(f.Ctx, token, bob, alice, whole(1))
	suite.Require().ErrorIs(err, types.ErrInsufficientBalance)

	err = k.TransferBonding(f.Ctx, token, creator, alice, math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrZeroAmount)

	suite.checkInvariants()
}

func (suite *KeeperTestSuite) TestGatewayRequiresExecutor() {
	f := suite.f
	k := suite.keeper()
	token := f.Launch(suite.T(), creator, 1_100).Token
	f.Fund(suite.T(), trader, 100)

	_, err := k.GatewayBuy(f.Ctx, trader, token, trader, whole(10), math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	// A granted executor may route swaps directly
	suite.Require().NoError(k.GrantCapability(f.Ctx, keepertest.Authority, types.CapabilityExecutor, alice))
	res, err := k.GatewayBuy(f.Ctx, alice, token, trader, whole(10), math.ZeroInt())
	suite.Require().NoError(err)
	suite.Require().True(res.AmountOut.IsPositive())

	_, err = k.GatewaySell(f.Ctx, bob, token, trader, res.AmountOut, math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrUnauthorized)
	_, err = k.GatewaySell(f.Ctx, alice, token, trader, res.AmountOut, math.ZeroInt())
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestCreatePair() {
	f := suite.f
	k := suite.keeper()
	token := types.TokenAddress(99)

	_, err := k.CreatePair(f.Ctx, stranger, token)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	suite.Require().NoError(k.GrantCapability(f.Ctx, keepertest.Authority, types.CapabilityCreator, alice))
	pair, err := k.CreatePair(f.Ctx, alice, token)
	suite.Require().NoError(err)
	suite.Require().False(pair.Seeded())
	suite.Require().Equal(types.DefaultAssetDenom, pair.Asset)

	_, err = k.CreatePair(f.Ctx, alice, token)
	suite.Require().ErrorIs(err, types.ErrPairAlreadyExists)

	_, err = k.GetPair(f.Ctx, types.TokenAddress(100))
	suite.Require().ErrorIs(err, types.ErrPairNotFound)
}
