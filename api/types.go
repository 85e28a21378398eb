package api

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse reports liveness and the committed height
type HealthResponse struct {
	Status    string `json:"status"`
	ChainID   string `json:"chain_id"`
	Height    int64  `json:"height"`
	Timestamp int64  `json:"timestamp"`
}

// BlockResponse wraps the result of a mutating request with the height of the
// block that committed it
type BlockResponse struct {
	Height int64 `json:"height"`
	Result any   `json:"result"`
}

// TokenListResponse is one page of launched tokens
type TokenListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
	Total  uint64          `json:"total"`
	Offset uint64          `json:"offset"`
	Limit  uint64          `json:"limit"`
}

// TokenResponse is a launched token with display values
type TokenResponse struct {
	types.TokenInfo
	PhaseName  string                `json:"phase_name"`
	Price      string                `json:"display_price"`
	MarketCap  string                `json:"display_market_cap"`
	Liquidity  string                `json:"display_liquidity"`
	AgentAsset *types.GraduatedAsset `json:"agent_asset,omitempty"`
}

// PairResponse is a pair with its spot prices
type PairResponse struct {
	types.Pair
	Address    sdk.AccAddress `json:"address"`
	PriceALast math.Int       `json:"price_a_last"`
	PriceBLast math.Int       `json:"price_b_last"`
	// Asset per token, adjusted for decimals
	Price string `json:"display_price"`
}

// QuoteResponse is the expected result of a trade
type QuoteResponse struct {
	Side      string   `json:"side"`
	AmountIn  math.Int `json:"amount_in"`
	AmountOut math.Int `json:"amount_out"`
	Tax       math.Int `json:"tax"`
	Display   string   `json:"display_amount_out"`
}

// TaxResponse is the tax collector state
type TaxResponse struct {
	Accumulator types.TaxAccumulator     `json:"accumulator"`
	Params      types.TaxCollectorParams `json:"params"`
	Balance     string                   `json:"display_balance"`
}

// AccountResponse lists an account's reserve balances and launched tokens
type AccountResponse struct {
	Address  sdk.AccAddress   `json:"address"`
	Balances sdk.Coins        `json:"balances"`
	Launched []sdk.AccAddress `json:"launched"`
}

// LaunchRequest launches a token. PurchaseAmount is a decimal amount of the
// reserve asset including the launch fee.
type LaunchRequest struct {
	Creator        string     `json:"creator" binding:"required"`
	Name           string     `json:"name" binding:"required"`
	Ticker         string     `json:"ticker" binding:"required"`
	Cores          []uint32   `json:"cores"`
	Description    string     `json:"description"`
	Image          string     `json:"image"`
	URLs           types.URLs `json:"urls"`
	PurchaseAmount string     `json:"purchase_amount" binding:"required"`
}

// TradeRequest buys or sells a bonding token. Amounts are decimals; MinOut
// defaults to zero.
type TradeRequest struct {
	Trader string `json:"trader" binding:"required"`
	Amount string `json:"amount" binding:"required"`
	MinOut string `json:"min_out"`
}

// UnwrapRequest converts holders' bonding balances after graduation
type UnwrapRequest struct {
	Caller  string   `json:"caller" binding:"required"`
	Holders []string `json:"holders" binding:"required,min=1,max=100"`
}

// FaucetRequest mints reserve asset to a devnet account
type FaucetRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}
