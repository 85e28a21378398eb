package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// API version 1
	v1 := s.router.Group("/v1")
	{
		// Token routes (public read, per-block write)
		tokens := v1.Group("/tokens")
		{
			tokens.GET("", s.handleListTokens)
			tokens.GET("/:token", s.handleGetToken)
			tokens.GET("/:token/pair", s.handleGetPair)
			tokens.GET("/:token/quote", s.handleGetQuote)

			tokens.POST("/:token/buy", s.handleBuy)
			tokens.POST("/:token/sell", s.handleSell)
			tokens.POST("/:token/unwrap", s.handleUnwrap)
		}

		v1.POST("/launch", s.handleLaunch)

		// Tax collector state
		v1.GET("/tax", s.handleGetTax)

		// Devnet accounts
		v1.GET("/accounts/:address", s.handleGetAccount)
		v1.POST("/faucet", s.handleFaucet)
	}
}
