package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// BasisPointsDenominator is 100% in basis points.
	BasisPointsDenominator = 10_000

	// DefaultDecimals is the decimal count of bonding tokens, graduated assets
	// and the default reserve asset.
	DefaultDecimals = 18

	// CurveConstant is the K used to size a new pair's virtual asset reserve.
	CurveConstant = 3_000_000_000_000

	// MarketWindowSeconds is the rolling window of MarketData.Volume24H.
	MarketWindowSeconds = 86_400

	// DefaultAssetDenom is the reserve asset denomination.
	DefaultAssetDenom = "ufair"
)

// InitStatus tracks the two-phase setup of a component.
type InitStatus uint8

const (
	StatusUninitialized InitStatus = iota
	StatusInitialized
)

func (s InitStatus) String() string {
	if s == StatusInitialized {
		return "initialized"
	}
	return "uninitialized"
}

// Config is the persisted record of a component's setup state.
type Config[P any] struct {
	Status InitStatus `json:"status"`
	Params P          `json:"params"`
}

// GatewayParams configures the swap gateway (pair factory and router).
type GatewayParams struct {
	AssetDenom string   `json:"asset_denom"`
	BuyTaxBps  uint32   `json:"buy_tax_bps"`
	SellTaxBps uint32   `json:"sell_tax_bps"`
	MaxTx      math.Int `json:"max_tx"`
}

// BondingParams configures the bonding controller.
type BondingParams struct {
	FeeTo         sdk.AccAddress `json:"fee_to"`
	LaunchFee     math.Int       `json:"launch_fee"`
	InitialSupply math.Int       `json:"initial_supply"`
	AssetRate     math.Int       `json:"asset_rate"`
	MaxTx         math.Int       `json:"max_tx"`
	GradThreshold math.Int       `json:"grad_threshold"`
	TokenDecimals uint32         `json:"token_decimals"`
	AssetDecimals uint32         `json:"asset_decimals"`
}

// GraduationParams sets the supply split and transfer limits of graduated assets.
type GraduationParams struct {
	MaxSupply                    math.Int       `json:"max_supply"`
	LpSupply                     math.Int       `json:"lp_supply"`
	VaultSupply                  math.Int       `json:"vault_supply"`
	MaxTokensPerWallet           math.Int       `json:"max_tokens_per_wallet"`
	MaxTokensPerTxn              math.Int       `json:"max_tokens_per_txn"`
	BotProtectionDurationSeconds int64          `json:"bot_protection_duration_seconds"`
	Vault                        sdk.AccAddress `json:"vault"`
}

// AgentTaxParams sets the tax applied to graduated asset trades.
type AgentTaxParams struct {
	ProjectBuyTaxBasisPoints    uint32         `json:"project_buy_tax_basis_points"`
	ProjectSellTaxBasisPoints   uint32         `json:"project_sell_tax_basis_points"`
	TaxSwapThresholdBasisPoints uint32         `json:"tax_swap_threshold_basis_points"`
	TaxRecipient                sdk.AccAddress `json:"tax_recipient"`
}

// GraduationConfigParams bundles the factory's supply and tax settings.
type GraduationConfigParams struct {
	Supply GraduationParams `json:"supply"`
	Tax    AgentTaxParams   `json:"tax"`
}

// TaxCollectorParams configures conversion of accumulated tax.
type TaxCollectorParams struct {
	TaxAssetDenom       string         `json:"tax_asset_denom"`
	Treasury            sdk.AccAddress `json:"treasury"`
	MinSwapThreshold    math.Int       `json:"min_swap_threshold"`
	MaxSwapThreshold    math.Int       `json:"max_swap_threshold"`
	SwapCooldownSeconds int64          `json:"swap_cooldown_seconds"`
	MinOutputBps        uint32         `json:"min_output_bps"`
}

// DefaultGatewayParams returns the gateway settings used by devnets and tests.
func DefaultGatewayParams() GatewayParams {
	return GatewayParams{
		AssetDenom: DefaultAssetDenom,
		BuyTaxBps:  100,
		SellTaxBps: 100,
		MaxTx:      WholeTokens(1_000_000),
	}
}

// DefaultBondingParams returns controller settings paying fees to feeTo.
func DefaultBondingParams(feeTo sdk.AccAddress) BondingParams {
	return BondingParams{
		FeeTo:         feeTo,
		LaunchFee:     WholeTokens(100),
		InitialSupply: math.NewInt(1_000_000_000),
		AssetRate:     math.NewInt(5_000),
		MaxTx:         WholeTokens(1_000_000),
		GradThreshold: WholeTokens(10_000),
		TokenDecimals: DefaultDecimals,
		AssetDecimals: DefaultDecimals,
	}
}

// DefaultGraduationParams reserves 200M LP and 100M vault tokens out of a
// 2B max supply, leaving room to unwrap a full 1B bonding supply.
func DefaultGraduationParams(vault sdk.AccAddress) GraduationParams {
	return GraduationParams{
		MaxSupply:                    WholeTokens(2_000_000_000),
		LpSupply:                     WholeTokens(200_000_000),
		VaultSupply:                  WholeTokens(100_000_000),
		MaxTokensPerWallet:           WholeTokens(20_000_000),
		MaxTokensPerTxn:              WholeTokens(10_000_000),
		BotProtectionDurationSeconds: 60,
		Vault:                        vault,
	}
}

// DefaultAgentTaxParams applies a 1% project tax each way.
func DefaultAgentTaxParams(recipient sdk.AccAddress) AgentTaxParams {
	return AgentTaxParams{
		ProjectBuyTaxBasisPoints:    100,
		ProjectSellTaxBasisPoints:   100,
		TaxSwapThresholdBasisPoints: 10,
		TaxRecipient:                recipient,
	}
}

// DefaultTaxCollectorParams returns collector settings forwarding to treasury.
func DefaultTaxCollectorParams(treasury sdk.AccAddress) TaxCollectorParams {
	return TaxCollectorParams{
		TaxAssetDenom:       "utax",
		Treasury:            treasury,
		MinSwapThreshold:    WholeTokens(10),
		MaxSwapThreshold:    WholeTokens(1_000),
		SwapCooldownSeconds: 3_600,
		MinOutputBps:        0,
	}
}

// Validate performs basic validation of gateway params
func (p GatewayParams) Validate() error {
	if err := sdk.ValidateDenom(p.AssetDenom); err != nil {
		return ErrInvalidParams.Wrapf("asset denom: %s", err)
	}
	if err := validateBps("buy tax", p.BuyTaxBps); err != nil {
		return err
	}
	if err := validateBps("sell tax", p.SellTaxBps); err != nil {
		return err
	}
	return validatePositive("max tx", p.MaxTx)
}

// Validate performs basic validation of bonding params
func (p BondingParams) Validate() error {
	if p.FeeTo.Empty() {
		return ErrInvalidAddress.Wrap("fee recipient cannot be empty")
	}
	if p.LaunchFee.IsNil() || p.LaunchFee.IsNegative() {
		return ErrInvalidParams.Wrap("launch fee cannot be negative")
	}
	for name, v := range map[string]math.Int{
		"initial supply": p.InitialSupply,
		"asset rate":     p.AssetRate,
		"max tx":         p.MaxTx,
		"grad threshold": p.GradThreshold,
	} {
		if err := validatePositive(name, v); err != nil {
			return err
		}
	}
	if p.TokenDecimals > 36 || p.AssetDecimals > 36 {
		return ErrInvalidDecimals.Wrapf("token=%d asset=%d", p.TokenDecimals, p.AssetDecimals)
	}
	if _, err := p.TotalSupply(); err != nil {
		return err
	}
	return nil
}

// TotalSupply returns InitialSupply scaled to base units.
func (p BondingParams) TotalSupply() (math.Int, error) {
	supply, err := p.InitialSupply.SafeMul(Pow10(p.TokenDecimals))
	if err != nil {
		return math.ZeroInt(), ErrInvalidParams.Wrapf("initial supply overflows: %s", err)
	}
	return supply, nil
}

// Validate performs basic validation of graduation params
func (p GraduationParams) Validate() error {
	for name, v := range map[string]math.Int{
		"max supply":            p.MaxSupply,
		"max tokens per wallet": p.MaxTokensPerWallet,
		"max tokens per txn":    p.MaxTokensPerTxn,
	} {
		if err := validatePositive(name, v); err != nil {
			return err
		}
	}
	if p.LpSupply.IsNil() || p.LpSupply.IsNegative() || p.VaultSupply.IsNil() || p.VaultSupply.IsNegative() {
		return ErrInvalidParams.Wrap("lp and vault supply cannot be negative")
	}
	if p.LpSupply.Add(p.VaultSupply).GT(p.MaxSupply) {
		return ErrSupplyMismatch.Wrapf("lp %s + vault %s > max %s", p.LpSupply, p.VaultSupply, p.MaxSupply)
	}
	if p.BotProtectionDurationSeconds < 0 {
		return ErrInvalidParams.Wrap("bot protection duration cannot be negative")
	}
	if p.VaultSupply.IsPositive() && p.Vault.Empty() {
		return ErrInvalidAddress.Wrap("vault cannot be empty when vault supply is set")
	}
	return nil
}

// Validate performs basic validation of graduated asset tax params
func (p AgentTaxParams) Validate() error {
	if err := validateBps("project buy tax", p.ProjectBuyTaxBasisPoints); err != nil {
		return err
	}
	if err := validateBps("project sell tax", p.ProjectSellTaxBasisPoints); err != nil {
		return err
	}
	if err := validateBps("tax swap threshold", p.TaxSwapThresholdBasisPoints); err != nil {
		return err
	}
	if p.TaxRecipient.Empty() {
		return ErrInvalidAddress.Wrap("tax recipient cannot be empty")
	}
	return nil
}

// Validate performs basic validation of tax collector params
func (p TaxCollectorParams) Validate() error {
	if err := sdk.ValidateDenom(p.TaxAssetDenom); err != nil {
		return ErrInvalidParams.Wrapf("tax asset denom: %s", err)
	}
	if p.Treasury.Empty() {
		return ErrInvalidAddress.Wrap("treasury cannot be empty")
	}
	if err := validatePositive("min swap threshold", p.MinSwapThreshold); err != nil {
		return err
	}
	if err := validatePositive("max swap threshold", p.MaxSwapThreshold); err != nil {
		return err
	}
	if p.MinSwapThreshold.GT(p.MaxSwapThreshold) {
		return ErrInvalidParams.Wrapf("min swap threshold %s > max %s", p.MinSwapThreshold, p.MaxSwapThreshold)
	}
	if p.SwapCooldownSeconds < 0 {
		return ErrInvalidParams.Wrap("swap cooldown cannot be negative")
	}
	return validateBps("min output", p.MinOutputBps)
}

// ValidateSupplyFits checks that every circulating bonding token can be
// unwrapped after the LP and vault allocations are minted.
func ValidateSupplyFits(bp BondingParams, gp GraduationParams) error {
	supply, err := bp.TotalSupply()
	if err != nil {
		return err
	}
	total := gp.LpSupply.Add(gp.VaultSupply).Add(supply)
	if total.GT(gp.MaxSupply) {
		return ErrSupplyMismatch.Wrapf("lp + vault + bonding supply %s > max supply %s", total, gp.MaxSupply)
	}
	return nil
}

// MulBps returns floor(amount * bps / 10000).
func MulBps(amount math.Int, bps uint32) math.Int {
	if bps == 0 || amount.IsZero() {
		return math.ZeroInt()
	}
	return amount.MulRaw(int64(bps)).QuoRaw(BasisPointsDenominator)
}

// Pow10 returns 10^exp as a math.Int.
func Pow10(exp uint32) math.Int {
	return math.NewIntWithDecimal(1, int(exp))
}

// WholeTokens scales n by 10^DefaultDecimals.
func WholeTokens(n int64) math.Int {
	return math.NewInt(n).Mul(Pow10(DefaultDecimals))
}

func validateBps(name string, bps uint32) error {
	if bps > BasisPointsDenominator {
		return ErrInvalidParams.Wrapf("%s basis points %d exceed %d", name, bps, BasisPointsDenominator)
	}
	return nil
}

func validatePositive(name string, v math.Int) error {
	if v.IsNil() || !v.IsPositive() {
		return ErrInvalidParams.Wrap(fmt.Sprintf("%s must be positive", name))
	}
	return nil
}
