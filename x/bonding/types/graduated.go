package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GraduatedAsset is the capped-supply token a bonding token migrates into.
type GraduatedAsset struct {
	Address            sdk.AccAddress   `json:"address"`
	BondingToken       sdk.AccAddress   `json:"bonding_token"`
	Name               string           `json:"name"`
	Ticker             string           `json:"ticker"`
	Decimals           uint32           `json:"decimals"`
	TotalSupply        math.Int         `json:"total_supply"`
	MaxSupply          math.Int         `json:"max_supply"`
	UnwrapMinted       math.Int         `json:"unwrap_minted"`
	BondingBurned      math.Int         `json:"bonding_burned"`
	PairBurned         math.Int         `json:"pair_burned"`
	CreatedAt          int64            `json:"created_at"`
	BotProtectionUntil int64            `json:"bot_protection_until"`
	Pool               sdk.AccAddress   `json:"pool"`
	PositionID         string           `json:"position_id,omitempty"`
	SeedSqrtPriceX96   math.Int         `json:"seed_sqrt_price_x96"`
	Seeded             bool             `json:"seeded"`
	PendingTax         math.Int         `json:"pending_tax"`
	Limits             GraduationParams `json:"limits"`
	Tax                AgentTaxParams   `json:"tax"`
}

// BotProtectionActive reports whether transfers are still restricted at now.
func (a GraduatedAsset) BotProtectionActive(now int64) bool {
	return now < a.BotProtectionUntil
}

// Exempt reports whether addr bypasses per-transaction and per-wallet limits.
func (a GraduatedAsset) Exempt(addr sdk.AccAddress) bool {
	return addr.Equals(FactoryAddress()) || addr.Equals(a.Address) || (!a.Limits.Vault.Empty() && addr.Equals(a.Limits.Vault))
}

// IsPool reports whether addr is the venue pool of the asset.
func (a GraduatedAsset) IsPool(addr sdk.AccAddress) bool {
	return !a.Pool.Empty() && addr.Equals(a.Pool)
}

// TaxSwapThreshold is the pending tax at which it is forwarded.
func (a GraduatedAsset) TaxSwapThreshold() math.Int {
	return MulBps(a.TotalSupply, a.Tax.TaxSwapThresholdBasisPoints)
}

// PendingSeed records a venue seed that failed and awaits an operator retry.
type PendingSeed struct {
	Token        sdk.AccAddress `json:"token"`
	Asset        sdk.AccAddress `json:"asset"`
	AmountAsset  math.Int       `json:"amount_asset"`
	AmountToken  math.Int       `json:"amount_token"`
	SqrtPriceX96 math.Int       `json:"sqrt_price_x96"`
	Attempts     uint32         `json:"attempts"`
	LastError    string         `json:"last_error"`
	LastAttempt  int64          `json:"last_attempt"`
}

// SeedRequest is handed to the venue to open the graduated asset's pool.
type SeedRequest struct {
	Asset        string         `json:"asset"`
	Token        sdk.AccAddress `json:"token"`
	Pool         sdk.AccAddress `json:"pool"`
	AmountAsset  math.Int       `json:"amount_asset"`
	AmountToken  math.Int       `json:"amount_token"`
	SqrtPriceX96 math.Int       `json:"sqrt_price_x96"`
}

// SwapRequest is handed to the router to convert tax.
type SwapRequest struct {
	TokenIn      string         `json:"token_in"`
	TokenOut     string         `json:"token_out"`
	AmountIn     math.Int       `json:"amount_in"`
	MinAmountOut math.Int       `json:"min_amount_out"`
	Recipient    sdk.AccAddress `json:"recipient"`
}
