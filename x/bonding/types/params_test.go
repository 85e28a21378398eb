package types_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

var (
	feeTo    = sdk.AccAddress([]byte("fee_to______________"))
	vault    = sdk.AccAddress([]byte("vault_______________"))
	treasury = sdk.AccAddress([]byte("treasury____________"))
)

func TestDefaultParamsValidate(t *testing.T) {
	require.NoError(t, types.DefaultGatewayParams().Validate())
	require.NoError(t, types.DefaultBondingParams(feeTo).Validate())
	require.NoError(t, types.DefaultGraduationParams(vault).Validate())
	require.NoError(t, types.DefaultAgentTaxParams(treasury).Validate())
	require.NoError(t, types.DefaultTaxCollectorParams(treasury).Validate())
	require.NoError(t, types.ValidateSupplyFits(types.DefaultBondingParams(feeTo), types.DefaultGraduationParams(vault)))
}

func TestGatewayParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *types.GatewayParams)
	}{
		{"empty denom", func(p *types.GatewayParams) { p.AssetDenom = "" }},
		{"buy tax above 100%", func(p *types.GatewayParams) { p.BuyTaxBps = 10_001 }},
		{"sell tax above 100%", func(p *types.GatewayParams) { p.SellTaxBps = 10_001 }},
		{"zero max tx", func(p *types.GatewayParams) { p.MaxTx = math.ZeroInt() }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := types.DefaultGatewayParams()
			tc.modify(&p)
			require.Error(t, p.Validate())
		})
	}
}

func TestBondingParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *types.BondingParams)
	}{
		{"empty fee recipient", func(p *types.BondingParams) { p.FeeTo = nil }},
		{"negative fee", func(p *types.BondingParams) { p.LaunchFee = math.NewInt(-1) }},
		{"zero supply", func(p *types.BondingParams) { p.InitialSupply = math.ZeroInt() }},
		{"zero asset rate", func(p *types.BondingParams) { p.AssetRate = math.ZeroInt() }},
		{"zero max tx", func(p *types.BondingParams) { p.MaxTx = math.ZeroInt() }},
		{"zero threshold", func(p *types.BondingParams) { p.GradThreshold = math.ZeroInt() }},
		{"too many decimals", func(p *types.BondingParams) { p.TokenDecimals = 37 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := types.DefaultBondingParams(feeTo)
			tc.modify(&p)
			require.Error(t, p.Validate())
		})
	}
}

func TestGraduationParamsValidate(t *testing.T) {
	p := types.DefaultGraduationParams(vault)
	p.LpSupply = p.MaxSupply
	err := p.Validate()
	require.ErrorIs(t, err, types.ErrSupplyMismatch)

	p = types.DefaultGraduationParams(vault)
	p.BotProtectionDurationSeconds = -1
	require.Error(t, p.Validate())
}

func TestValidateSupplyFits(t *testing.T) {
	bp := types.DefaultBondingParams(feeTo)
	gp := types.DefaultGraduationParams(vault)
	gp.MaxSupply = types.WholeTokens(1_000_000_000)
	require.ErrorIs(t, types.ValidateSupplyFits(bp, gp), types.ErrSupplyMismatch)
}

func TestTotalSupply(t *testing.T) {
	bp := types.DefaultBondingParams(feeTo)
	supply, err := bp.TotalSupply()
	require.NoError(t, err)
	require.Equal(t, types.WholeTokens(1_000_000_000), supply)
}

func TestMulBps(t *testing.T) {
	require.Equal(t, math.NewInt(100), types.MulBps(math.NewInt(10_000), 100))
	require.Equal(t, math.NewInt(9), types.MulBps(math.NewInt(999), 100))
	require.True(t, types.MulBps(math.NewInt(99), 100).IsZero())
	require.True(t, types.MulBps(math.NewInt(1_000), 0).IsZero())
	require.Equal(t, math.NewInt(1_000), types.MulBps(math.NewInt(1_000), types.BasisPointsDenominator))
}

func TestShouldSwap(t *testing.T) {
	params := types.DefaultTaxCollectorParams(treasury)
	acc := types.NewTaxAccumulator()
	require.False(t, types.ShouldSwap(acc, params, 10_000), "empty balance")

	acc.Receive(types.WholeTokens(5))
	require.False(t, types.ShouldSwap(acc, params, 10_000), "below min")

	acc.Receive(types.WholeTokens(5))
	require.True(t, types.ShouldSwap(acc, params, 10_000), "min reached after cooldown")

	acc.LastSwapTime = 9_000
	require.False(t, types.ShouldSwap(acc, params, 10_000), "cooldown pending")

	acc.Receive(types.WholeTokens(990))
	require.True(t, types.ShouldSwap(acc, params, 10_000), "max ignores cooldown")
}

func TestTaxAccumulator(t *testing.T) {
	acc := types.NewTaxAccumulator()
	acc.Receive(math.NewInt(100))
	acc.Forward(math.NewInt(60), math.NewInt(58), 42)
	require.NoError(t, acc.Validate())
	require.Equal(t, math.NewInt(40), acc.Balance)
	require.Equal(t, math.NewInt(60), acc.TotalForwarded)
	require.Equal(t, math.NewInt(58), acc.TotalConverted)
	require.Equal(t, int64(42), acc.LastSwapTime)
	require.Equal(t, uint64(1), acc.Swaps)

	acc.Fail(types.ErrTaxSwapFailed)
	require.Equal(t, uint64(1), acc.FailedSwaps)
	require.NotEmpty(t, acc.LastError)

	acc.Balance = math.NewInt(41)
	require.ErrorIs(t, acc.Validate(), types.ErrInvariantViolation)
}
