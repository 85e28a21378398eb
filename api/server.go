// Package api serves the devnet REST interface over a FairlaunchApp. Reads
// run against committed state and every mutating request is its own block.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/fairlaunch/app"
)

// Server holds the API server state
type Server struct {
	router *gin.Engine
	config *Config
	app    *app.FairlaunchApp
	logger log.Logger
}

// Config holds the API server configuration
type Config struct {
	Host            string
	Port            string
	CORSOrigins     []string
	RateLimitRPS    int
	FaucetLimit     math.Int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "127.0.0.1",
		Port:            "5080",
		CORSOrigins:     []string{"*"},
		RateLimitRPS:    50,
		FaucetLimit:     math.ZeroInt(),
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// ConfigFromApp builds the server configuration from the node config.
func ConfigFromApp(cfg app.Config) (*Config, error) {
	limit, err := cfg.FaucetLimit()
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	c.Host = cfg.API.Host
	c.Port = cfg.API.Port
	c.CORSOrigins = cfg.API.CORSOrigins
	c.RateLimitRPS = cfg.API.RateLimitRPS
	c.FaucetLimit = limit
	return c, nil
}

// NewServer creates a new API server instance
func NewServer(a *app.FairlaunchApp, config *Config, logger log.Logger) (*Server, error) {
	if a == nil {
		return nil, errors.New("app is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.FaucetLimit.IsNil() {
		config.FaucetLimit = math.ZeroInt()
	}

	server := &Server{
		config: config,
		app:    a,
		logger: logger.With("module", "api"),
	}
	server.setupRouter()
	return server, nil
}

// setupRouter configures the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware(s.logger))
	router.Use(SecurityHeadersMiddleware())
	router.Use(RequestSizeLimitMiddleware(MaxRequestSize))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(s.logger))
	router.Use(s.CORSMiddleware())
	if s.config.RateLimitRPS > 0 {
		router.Use(RateLimitMiddleware(NewClientLimiter(s.config.RateLimitRPS, clientIdleTTL)))
	}

	router.GET("/health", s.healthCheck)

	s.router = router
	s.registerRoutes()
}

// Handler exposes the router for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		ChainID:   s.app.ChainID(),
		Height:    s.app.LastBlockHeight(),
		Timestamp: time.Now().Unix(),
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:           net.JoinHostPort(s.config.Host, s.config.Port),
		Handler:        s.router,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// query runs fn on committed state and reports failures to the client.
func (s *Server) query(c *gin.Context, fn func(ctx sdk.Context) error) bool {
	if err := s.app.Query(fn); err != nil {
		s.writeError(c, err)
		return false
	}
	return true
}

// exec runs fn as a block and reports failures to the client. It returns
// the height of the block.
func (s *Server) exec(c *gin.Context, fn func(ctx sdk.Context) error) (int64, bool) {
	var height int64
	err := s.app.Exec(func(ctx sdk.Context) error {
		height = ctx.BlockHeight()
		return fn(ctx)
	})
	if err != nil {
		s.writeError(c, err)
		return 0, false
	}
	return height, true
}
