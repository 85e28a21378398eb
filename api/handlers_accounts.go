package api

import (
	"net/http"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/fairlaunch/internal/units"
)

// handleGetTax returns the tax collector state
func (s *Server) handleGetTax(c *gin.Context) {
	var resp TaxResponse
	ok := s.query(c, func(ctx sdk.Context) error {
		var err error
		if resp.Params, err = s.app.BondingKeeper.GetTaxCollectorParams(ctx); err != nil {
			return err
		}
		resp.Accumulator, err = s.app.BondingKeeper.GetTaxAccumulator(ctx)
		return err
	})
	if !ok {
		return
	}

	_, assetDec := s.decimals()
	resp.Balance = units.Format(resp.Accumulator.Balance, assetDec)
	c.JSON(http.StatusOK, resp)
}

// handleGetAccount returns an account's reserve balances and launches
func (s *Server) handleGetAccount(c *gin.Context) {
	addr, err := ParseAddress("address", c.Param("address"))
	if err != nil {
		badRequest(c, "Invalid address", err)
		return
	}

	resp := AccountResponse{Address: addr}
	ok := s.query(c, func(ctx sdk.Context) error {
		resp.Balances = s.app.ReserveKeeper.GetAllBalances(ctx, addr)
		launched, err := s.app.BondingKeeper.GetUserTokens(ctx, addr)
		resp.Launched = launched
		return err
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleFaucet mints reserve asset to a devnet account
func (s *Server) handleFaucet(c *gin.Context) {
	if !s.config.FaucetLimit.IsPositive() {
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Error: "Faucet disabled",
			Code:  "FAUCET_DISABLED",
		})
		return
	}

	var req FaucetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	addr, err := ParseAddress("address", req.Address)
	if err != nil {
		badRequest(c, "Invalid address", err)
		return
	}
	_, assetDec := s.decimals()
	amount, err := ParseAmount("amount", req.Amount, assetDec, false)
	if err != nil {
		badRequest(c, "Invalid amount", err)
		return
	}
	if !amount.IsPositive() || amount.GT(s.config.FaucetLimit) {
		badRequest(c, "Invalid amount", ValidationError{
			Field:   "amount",
			Message: "must be positive and at most " + units.Format(s.config.FaucetLimit, assetDec),
		})
		return
	}

	denom := s.app.Params().Gateway.AssetDenom
	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	height, ok := s.exec(c, func(ctx sdk.Context) error {
		return s.app.ReserveKeeper.MintCoins(ctx, addr, coins)
	})
	if !ok {
		return
	}

	s.logger.Info("faucet", "address", addr.String(), "amount", coins.String())
	c.JSON(http.StatusOK, BlockResponse{Height: height, Result: coins})
}
