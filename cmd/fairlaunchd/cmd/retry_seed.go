package cmd

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

const (
	flagMaxTries = "max-tries"
	flagInterval = "interval"
)

// RetrySeedCmd retries a failed venue seed as the authority, backing off
// between venue failures. Other errors stop the retry immediately.
func RetrySeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry-seed [bonding-token]",
		Short: "Retry seeding venue liquidity for a graduated token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid token address: %w", err)
			}
			maxTries, _ := cmd.Flags().GetUint(flagMaxTries)
			interval, _ := cmd.Flags().GetDuration(flagInterval)

			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			a, cfg, err := openApp(cmd, logger)
			if err != nil {
				return err
			}
			defer a.Close()
			authority, err := cfg.AuthorityAddress()
			if err != nil {
				return err
			}

			operation := func() (string, error) {
				var positionID string
				err := a.Exec(func(ctx sdk.Context) error {
					var err error
					positionID, err = a.BondingKeeper.RetrySeedLiquidity(ctx, authority, token)
					return err
				})
				if err != nil && types.KindOf(err) != types.KindExternalDependencyFailure {
					return "", backoff.Permanent(err)
				}
				return positionID, err
			}

			policy := backoff.NewExponentialBackOff()
			policy.InitialInterval = interval
			policy.MaxInterval = interval * 10
			notify := func(err error, next time.Duration) {
				logger.Info("seed attempt failed", "token", token.String(), "error", err, "backoff", next)
			}

			positionID, err := backoff.Retry(cmdContext(cmd), operation,
				backoff.WithBackOff(policy),
				backoff.WithMaxTries(maxTries),
				backoff.WithNotify(notify))
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"token":       token.String(),
				"position_id": positionID,
			})
		},
	}

	cmd.Flags().Uint(flagMaxTries, 5, "attempts before giving up")
	cmd.Flags().Duration(flagInterval, time.Second, "initial delay between attempts")
	return cmd
}
