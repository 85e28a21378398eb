package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/fairlaunch/internal/devnet"
	"github.com/paw-chain/fairlaunch/x/bonding/keeper"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
	reservekeeper "github.com/paw-chain/fairlaunch/x/reserve/keeper"
	reservetypes "github.com/paw-chain/fairlaunch/x/reserve/types"
)

// GenesisTime is the block time every fixture starts at.
var GenesisTime = time.Unix(1_760_000_000, 0).UTC()

// Well-known fixture accounts.
var (
	Authority = sdk.AccAddress([]byte("authority___________"))
	FeeTo     = sdk.AccAddress([]byte("fee_to______________"))
	Vault     = sdk.AccAddress([]byte("vault_______________"))
	Treasury  = sdk.AccAddress([]byte("treasury____________"))
)

// BondingFixture wires a bonding keeper to a reserve ledger and the devnet
// venue and router over an in-memory store.
type BondingFixture struct {
	Ctx     sdk.Context
	Keeper  *keeper.Keeper
	Reserve reservekeeper.Keeper
	Venue   *devnet.Venue
	Router  *devnet.Router
}

// TestGatewayParams charges 1% each way and allows large gateway swaps.
func TestGatewayParams() types.GatewayParams {
	return types.DefaultGatewayParams()
}

// TestBondingParams uses a 100 token launch fee, a 5,000 token max
// transaction and a 10,000 token graduation threshold.
func TestBondingParams() types.BondingParams {
	bp := types.DefaultBondingParams(FeeTo)
	bp.MaxTx = types.WholeTokens(5_000)
	return bp
}

// TestGraduationParams returns the default supply split with a 1 bps tax
// forwarding threshold.
func TestGraduationParams() types.GraduationConfigParams {
	tax := types.DefaultAgentTaxParams(Treasury)
	tax.TaxSwapThresholdBasisPoints = 1
	return types.GraduationConfigParams{
		Supply: types.DefaultGraduationParams(Vault),
		Tax:    tax,
	}
}

// TestTaxCollectorParams converts at 100 tokens once the cooldown passed, or
// at 1,000 tokens immediately.
func TestTaxCollectorParams() types.TaxCollectorParams {
	tp := types.DefaultTaxCollectorParams(Treasury)
	tp.MinSwapThreshold = types.WholeTokens(100)
	return tp
}

// BondingKeeper creates a bonding keeper with every component initialized
func BondingKeeper(t testing.TB) *BondingFixture {
	f := NewBondingFixture(t)
	ctx := f.Ctx
	require.NoError(t, f.Keeper.InitializeGateway(ctx, Authority, TestGatewayParams()))
	require.NoError(t, f.Keeper.InitializeBonding(ctx, Authority, TestBondingParams()))
	grad := TestGraduationParams()
	require.NoError(t, f.Keeper.InitializeGraduation(ctx, Authority, grad.Supply, grad.Tax))
	require.NoError(t, f.Keeper.InitializeTaxCollector(ctx, Authority, TestTaxCollectorParams()))
	return f
}

// NewBondingFixture creates a bonding keeper from default genesis with no
// component initialized
func NewBondingFixture(t testing.TB) *BondingFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	reserveKey := storetypes.NewKVStoreKey(reservetypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(reserveKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	reserve := reservekeeper.NewKeeper(reserveKey)
	venue := devnet.NewVenue()
	router := devnet.NewRouter(reserve, math.LegacyOneDec())

	k := keeper.NewKeeper(storeKey, reserve, venue, router, Authority.String())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Time: GenesisTime}, false, log.NewNopLogger())

	// Initialize module genesis
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return &BondingFixture{
		Ctx:     ctx,
		Keeper:  k,
		Reserve: reserve,
		Venue:   venue,
		Router:  router,
	}
}

// Fund mints whole tokens of the reserve asset to addr.
func (f *BondingFixture) Fund(t testing.TB, addr sdk.AccAddress, wholeTokens int64) {
	coins := sdk.NewCoins(sdk.NewCoin(types.DefaultAssetDenom, types.WholeTokens(wholeTokens)))
	require.NoError(t, f.Reserve.MintCoins(f.Ctx, addr, coins))
}

// Balance returns addr's reserve asset balance.
func (f *BondingFixture) Balance(addr sdk.AccAddress) math.Int {
	return f.Reserve.GetBalance(f.Ctx, addr, types.DefaultAssetDenom).Amount
}

// Advance moves block time forward by d.
func (f *BondingFixture) Advance(d time.Duration) {
	f.Ctx = f.Ctx.WithBlockTime(f.Ctx.BlockTime().Add(d))
}

// Launch launches a token for creator, funding the purchase first.
func (f *BondingFixture) Launch(t testing.TB, creator sdk.AccAddress, purchaseWhole int64) types.LaunchResult {
	f.Fund(t, creator, purchaseWhole)
	res, err := f.Keeper.Launch(f.Ctx, creator, types.LaunchRequest{
		Name:           "Fair Agent",
		Ticker:         "FAIR",
		Cores:          []uint32{0, 1},
		Description:    "test token",
		Image:          "https://example.com/fair.png",
		PurchaseAmount: types.WholeTokens(purchaseWhole),
	})
	require.NoError(t, err)
	return res
}

// Graduate launches a token and buys it up to graduation, returning the
// bonding token and its graduated asset record.
func (f *BondingFixture) Graduate(t testing.TB, creator, trader sdk.AccAddress) (sdk.AccAddress, types.GraduatedAsset) {
	res := f.Launch(t, creator, 1_100)
	f.Fund(t, trader, 10_000)
	var last types.TradeResult
	for i := 0; i < 2; i++ {
		var err error
		last, err = f.Keeper.Buy(f.Ctx, trader, res.Token, types.WholeTokens(5_000), math.ZeroInt())
		require.NoError(t, err)
	}
	require.True(t, last.Graduated)
	asset, err := f.Keeper.GetGraduatedAssetByToken(f.Ctx, res.Token)
	require.NoError(t, err)
	return res.Token, asset
}
