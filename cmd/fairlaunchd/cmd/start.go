package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paw-chain/fairlaunch/api"
	"github.com/paw-chain/fairlaunch/app"
)

const flagTaxInterval = "tax-interval"

// StartCmd runs the REST server, the metrics endpoint and the tax sweeper
// until interrupted.
func StartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"serve"},
		Short:   "Run the devnet REST and metrics servers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			a, cfg, err := openApp(cmd, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			apiConfig, err := api.ConfigFromApp(cfg)
			if err != nil {
				return err
			}
			server, err := api.NewServer(a, apiConfig, logger)
			if err != nil {
				return err
			}
			interval, _ := cmd.Flags().GetDuration(flagTaxInterval)

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Start(gCtx)
			})
			if cfg.Telemetry.Enabled {
				g.Go(func() error {
					return serveMetrics(gCtx, cfg.Telemetry.MetricsPort, logger)
				})
			}
			if interval > 0 {
				g.Go(func() error {
					sweepTax(gCtx, a, interval, logger)
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().Duration(flagTaxInterval, time.Minute, "how often to offer accumulated tax to the router (0 disables)")
	return cmd
}

// serveMetrics exposes the Prometheus registry on port until ctx is done.
func serveMetrics(ctx context.Context, port int, logger log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("starting metrics server", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// sweepTax runs the collector's threshold check once per interval so tax is
// converted even when no trades arrive.
func sweepTax(ctx context.Context, a *app.FairlaunchApp, interval time.Duration, logger log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var swapped bool
			err := a.Exec(func(ctx sdk.Context) error {
				var err error
				swapped, err = a.BondingKeeper.MaybeSwap(ctx)
				return err
			})
			if err != nil {
				logger.Error("tax sweep failed", "error", err)
				continue
			}
			if swapped {
				logger.Info("swept accumulated tax", "height", a.LastBlockHeight())
			}
		}
	}
}
