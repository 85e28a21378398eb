package api

import (
	"context"
	"net/http"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

// handleLaunch launches a token with an initial purchase
func (s *Server) handleLaunch(c *gin.Context) {
	var req LaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	creator, err := ParseAddress("creator", req.Creator)
	if err != nil {
		badRequest(c, "Invalid creator address", err)
		return
	}
	_, assetDec := s.decimals()
	purchase, err := ParseAmount("purchase_amount", req.PurchaseAmount, assetDec, false)
	if err != nil {
		badRequest(c, "Invalid purchase amount", err)
		return
	}

	launch := types.LaunchRequest{
		Name:           req.Name,
		Ticker:         req.Ticker,
		Cores:          req.Cores,
		Description:    req.Description,
		Image:          req.Image,
		URLs:           req.URLs,
		PurchaseAmount: purchase,
	}
	if err := launch.Validate(); err != nil {
		s.writeError(c, err)
		return
	}

	var res types.LaunchResult
	height, ok := s.exec(c, func(ctx sdk.Context) error {
		var err error
		res, err = s.app.BondingKeeper.Launch(ctx, creator, launch)
		return err
	})
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, BlockResponse{Height: height, Result: res})
}

// handleBuy buys a bonding token with the reserve asset
func (s *Server) handleBuy(c *gin.Context) {
	_, assetDec := s.decimals()
	s.handleTrade(c, assetDec, s.app.BondingKeeper.Buy)
}

// handleSell sells a bonding token for the reserve asset
func (s *Server) handleSell(c *gin.Context) {
	tokenDec, _ := s.decimals()
	s.handleTrade(c, tokenDec, s.app.BondingKeeper.Sell)
}

type tradeFunc func(ctx context.Context, trader, token sdk.AccAddress, amountIn, minOut math.Int) (types.TradeResult, error)

func (s *Server) handleTrade(c *gin.Context, inDecimals uint32, trade tradeFunc) {
	token, ok := s.tokenParam(c)
	if !ok {
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	trader, err := ParseAddress("trader", req.Trader)
	if err != nil {
		badRequest(c, "Invalid trader address", err)
		return
	}
	amount, err := ParseAmount("amount", req.Amount, inDecimals, false)
	if err != nil {
		badRequest(c, "Invalid amount", err)
		return
	}
	// min_out is in base units of the output side
	minOut := math.ZeroInt()
	if req.MinOut != "" {
		var ok bool
		minOut, ok = math.NewIntFromString(req.MinOut)
		if !ok || minOut.IsNegative() {
			badRequest(c, "Invalid min_out", ValidationError{Field: "min_out", Message: "must be a non-negative integer in base units"})
			return
		}
	}

	var res types.TradeResult
	height, ok := s.exec(c, func(ctx sdk.Context) error {
		var err error
		res, err = trade(ctx, trader, token, amount, minOut)
		return err
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, BlockResponse{Height: height, Result: res})
}

// handleUnwrap converts holders' bonding balances into the graduated asset
func (s *Server) handleUnwrap(c *gin.Context) {
	token, ok := s.tokenParam(c)
	if !ok {
		return
	}

	var req UnwrapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	caller, err := ParseAddress("caller", req.Caller)
	if err != nil {
		badRequest(c, "Invalid caller address", err)
		return
	}
	holders := make([]sdk.AccAddress, 0, len(req.Holders))
	for _, h := range req.Holders {
		holder, err := ParseAddress("holders", h)
		if err != nil {
			badRequest(c, "Invalid holder address", err)
			return
		}
		holders = append(holders, holder)
	}

	var res []types.UnwrapResult
	height, ok := s.exec(c, func(ctx sdk.Context) error {
		var err error
		res, err = s.app.BondingKeeper.Unwrap(ctx, caller, token, holders)
		return err
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, BlockResponse{Height: height, Result: res})
}
