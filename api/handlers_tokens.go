package api

import (
	"net/http"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/fairlaunch/internal/units"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// displayPlaces is the precision of rendered prices
const displayPlaces = 18

func (s *Server) decimals() (token, asset uint32) {
	bp := s.app.Params().Bonding
	return bp.TokenDecimals, bp.AssetDecimals
}

// tokenParam parses the :token path parameter
func (s *Server) tokenParam(c *gin.Context) (sdk.AccAddress, bool) {
	token, err := ParseAddress("token", c.Param("token"))
	if err != nil {
		badRequest(c, "Invalid token address", err)
		return nil, false
	}
	return token, true
}

func (s *Server) tokenResponse(ctx sdk.Context, info types.TokenInfo) (TokenResponse, error) {
	tokenDec, assetDec := s.decimals()
	resp := TokenResponse{
		TokenInfo: info,
		PhaseName: info.Phase.String(),
		Price:     "0",
		MarketCap: units.Format(info.Data.MarketCap, assetDec),
		Liquidity: units.Format(info.Data.Liquidity, assetDec),
	}
	if pair, err := s.app.BondingKeeper.GetPair(ctx, info.Token); err == nil {
		resp.Price = units.Price(pair.ReserveB, pair.ReserveA, assetDec, tokenDec, displayPlaces)
	}
	if info.Graduated() {
		asset, err := s.app.BondingKeeper.GetGraduatedAsset(ctx, info.AgentToken)
		if err != nil {
			return TokenResponse{}, err
		}
		resp.AgentAsset = &asset
	}
	return resp, nil
}

// handleListTokens returns launched tokens in launch order
func (s *Server) handleListTokens(c *gin.Context) {
	offset := ValidateOffset(c.Query("offset"))
	limit := ValidateLimit(c.Query("limit"), DefaultPageLimit, MaxPageLimit)

	resp := TokenListResponse{Tokens: []TokenResponse{}, Offset: offset, Limit: limit}
	ok := s.query(c, func(ctx sdk.Context) error {
		resp.Total = s.app.BondingKeeper.TokenCount(ctx)
		if offset >= resp.Total {
			return nil
		}
		infos, err := s.app.BondingKeeper.GetAllTokenInfos(ctx, offset, limit)
		if err != nil {
			return err
		}
		for _, info := range infos {
			tr, err := s.tokenResponse(ctx, info)
			if err != nil {
				return err
			}
			resp.Tokens = append(resp.Tokens, tr)
		}
		return nil
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleGetToken returns a single token
func (s *Server) handleGetToken(c *gin.Context) {
	token, ok := s.tokenParam(c)
	if !ok {
		return
	}

	var resp TokenResponse
	ok = s.query(c, func(ctx sdk.Context) error {
		info, err := s.app.BondingKeeper.GetTokenInfo(ctx, token)
		if err != nil {
			return err
		}
		resp, err = s.tokenResponse(ctx, info)
		return err
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleGetPair returns the bonding pair of a token
func (s *Server) handleGetPair(c *gin.Context) {
	token, ok := s.tokenParam(c)
	if !ok {
		return
	}

	var pair types.Pair
	ok = s.query(c, func(ctx sdk.Context) error {
		var err error
		pair, err = s.app.BondingKeeper.GetPair(ctx, token)
		return err
	})
	if !ok {
		return
	}

	tokenDec, assetDec := s.decimals()
	c.JSON(http.StatusOK, PairResponse{
		Pair:       pair,
		Address:    pair.Address(),
		PriceALast: pair.PriceALast(),
		PriceBLast: pair.PriceBLast(),
		Price:      units.Price(pair.ReserveB, pair.ReserveA, assetDec, tokenDec, displayPlaces),
	})
}

// handleGetQuote quotes a buy (asset in) or sell (token in)
func (s *Server) handleGetQuote(c *gin.Context) {
	token, ok := s.tokenParam(c)
	if !ok {
		return
	}

	side := strings.ToLower(c.DefaultQuery("side", "buy"))
	tokenDec, assetDec := s.decimals()
	inDec, outDec := assetDec, tokenDec
	switch side {
	case "buy":
	case "sell":
		inDec, outDec = tokenDec, assetDec
	default:
		badRequest(c, "side must be buy or sell", nil)
		return
	}

	amountIn, err := ParseAmount("amount", c.Query("amount"), inDec, false)
	if err != nil {
		badRequest(c, "Invalid amount", err)
		return
	}

	var out, tax math.Int
	ok = s.query(c, func(ctx sdk.Context) error {
		var err error
		if side == "buy" {
			out, tax, err = s.app.BondingKeeper.QuoteBuy(ctx, token, amountIn)
		} else {
			out, tax, err = s.app.BondingKeeper.QuoteSell(ctx, token, amountIn)
		}
		return err
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		Side:      side,
		AmountIn:  amountIn,
		AmountOut: out,
		Tax:       tax,
		Display:   units.Format(out, outDec),
	})
}
