package types

import (
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	MaxNameLength        = 64
	MaxTickerLength      = 16
	MaxDescriptionLength = 2_048
	MaxURLLength         = 512
	MaxCores             = 32
)

// Phase is the lifecycle stage of a launched token.
type Phase uint8

const (
	PhaseLaunched Phase = iota
	PhaseTrading
	PhaseGraduating
	PhaseGraduated
)

func (p Phase) String() string {
	switch p {
	case PhaseLaunched:
		return "launched"
	case PhaseTrading:
		return "trading"
	case PhaseGraduating:
		return "graduating"
	case PhaseGraduated:
		return "graduated"
	default:
		return "unknown"
	}
}

// URLs holds the social links published with a launch.
type URLs struct {
	Twitter  string `json:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Youtube  string `json:"youtube,omitempty"`
	Website  string `json:"website,omitempty"`
}

// MarketData is recomputed by the controller after every trade.
type MarketData struct {
	Name        string   `json:"name"`
	Ticker      string   `json:"ticker"`
	Supply      math.Int `json:"supply"`
	Price       math.Int `json:"price"`
	PrevPrice   math.Int `json:"prev_price"`
	MarketCap   math.Int `json:"market_cap"`
	Liquidity   math.Int `json:"liquidity"`
	Volume      math.Int `json:"volume"`
	Volume24H   math.Int `json:"volume_24h"`
	LastUpdated int64    `json:"last_updated"`
}

// NewMarketData returns the market data of a freshly seeded pair.
func NewMarketData(name, ticker string, supply math.Int, pair Pair, now int64) MarketData {
	d := MarketData{
		Name:        name,
		Ticker:      ticker,
		Supply:      supply,
		Price:       math.ZeroInt(),
		PrevPrice:   math.ZeroInt(),
		MarketCap:   math.ZeroInt(),
		Liquidity:   math.ZeroInt(),
		Volume:      math.ZeroInt(),
		Volume24H:   math.ZeroInt(),
		LastUpdated: now,
	}
	d.Price, d.MarketCap = quote(supply, pair)
	d.PrevPrice = d.Price
	d.Liquidity = pair.AssetBalance
	return d
}

// Update recomputes price, market cap and liquidity from the post-trade pair
// and adds volume. Volume24H restarts once the window has elapsed, at which
// point the previous price is rolled into PrevPrice.
func (d *MarketData) Update(pair Pair, volume math.Int, now int64) {
	reset := now-d.LastUpdated > MarketWindowSeconds
	if reset {
		d.LastUpdated = now
		d.PrevPrice = d.Price
		d.Volume24H = volume
	} else {
		d.Volume24H = d.Volume24H.Add(volume)
	}
	d.Volume = d.Volume.Add(volume)
	d.Price, d.MarketCap = quote(d.Supply, pair)
	d.Liquidity = pair.AssetBalance
}

// quote returns (tokens per asset unit, market cap in asset).
func quote(supply math.Int, pair Pair) (math.Int, math.Int) {
	if !pair.ReserveA.IsPositive() || !pair.ReserveB.IsPositive() {
		return math.ZeroInt(), math.ZeroInt()
	}
	price := pair.ReserveA.Quo(pair.ReserveB)
	mcap := supply.Mul(pair.ReserveB).Quo(pair.ReserveA)
	return price, mcap
}

// TokenInfo is the controller's record of a launched token.
type TokenInfo struct {
	Index            uint64         `json:"index"`
	Creator          sdk.AccAddress `json:"creator"`
	Token            sdk.AccAddress `json:"token"`
	Pair             sdk.AccAddress `json:"pair"`
	AgentToken       sdk.AccAddress `json:"agent_token"`
	Description      string         `json:"description"`
	Cores            []uint32       `json:"cores"`
	Image            string         `json:"image"`
	URLs             URLs           `json:"urls"`
	Data             MarketData     `json:"data"`
	Trading          bool           `json:"trading"`
	TradingOnUniswap bool           `json:"trading_on_uniswap"`
	Phase            Phase          `json:"phase"`
	LaunchedAt       int64          `json:"launched_at"`
}

// Graduated reports whether the token has migrated to its graduated asset.
func (t TokenInfo) Graduated() bool {
	return t.TradingOnUniswap
}

// Profile lists the tokens a creator has launched.
type Profile struct {
	User   sdk.AccAddress   `json:"user"`
	Tokens []sdk.AccAddress `json:"tokens"`
}

// LaunchRequest carries the creator-supplied launch parameters.
type LaunchRequest struct {
	Name           string   `json:"name"`
	Ticker         string   `json:"ticker"`
	Cores          []uint32 `json:"cores"`
	Description    string   `json:"description"`
	Image          string   `json:"image"`
	URLs           URLs     `json:"urls"`
	PurchaseAmount math.Int `json:"purchase_amount"`
}

// Validate performs basic validation of the launch metadata
func (r LaunchRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	ticker := strings.TrimSpace(r.Ticker)
	if name == "" || len(name) > MaxNameLength {
		return ErrInvalidMetadata.Wrapf("name must be 1-%d characters", MaxNameLength)
	}
	if ticker == "" || len(ticker) > MaxTickerLength {
		return ErrInvalidMetadata.Wrapf("ticker must be 1-%d characters", MaxTickerLength)
	}
	if len(r.Description) > MaxDescriptionLength {
		return ErrInvalidMetadata.Wrapf("description exceeds %d characters", MaxDescriptionLength)
	}
	if len(r.Cores) > MaxCores {
		return ErrInvalidMetadata.Wrapf("at most %d cores", MaxCores)
	}
	for _, u := range []string{r.Image, r.URLs.Twitter, r.URLs.Telegram, r.URLs.Youtube, r.URLs.Website} {
		if len(u) > MaxURLLength {
			return ErrInvalidMetadata.Wrapf("url exceeds %d characters", MaxURLLength)
		}
	}
	return nil
}

// LaunchResult is returned by a successful launch.
type LaunchResult struct {
	Token      sdk.AccAddress `json:"token"`
	Pair       sdk.AccAddress `json:"pair"`
	Index      uint64         `json:"index"`
	InitialBuy SwapResult     `json:"initial_buy"`
	TokenInfo  TokenInfo      `json:"token_info"`
	Graduated  bool           `json:"graduated"`
}

// SwapResult describes one gateway swap.
type SwapResult struct {
	AmountIn  math.Int `json:"amount_in"`
	AmountOut math.Int `json:"amount_out"`
	Tax       math.Int `json:"tax"`
	Pair      Pair     `json:"pair"`
}

// TradeResult describes one controller buy or sell.
type TradeResult struct {
	SwapResult
	Graduated  bool           `json:"graduated"`
	AgentToken sdk.AccAddress `json:"agent_token,omitempty"`
}

// UnwrapResult reports the amounts converted per holder.
type UnwrapResult struct {
	Holder sdk.AccAddress `json:"holder"`
	Amount math.Int       `json:"amount"`
}
