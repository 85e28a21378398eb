package cmd

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/paw-chain/fairlaunch/x/bonding/sqrtprice"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

const (
	flagDecimals0 = "decimals0"
	flagDecimals1 = "decimals1"
)

// SqrtPriceCmd encodes a reserve ratio as a Q64.96 square-root price.
func SqrtPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sqrt-price [amount0] [amount1]",
		Short: "Encode amount1/amount0 (base units) as a Q64.96 sqrt price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount0, ok := math.NewIntFromString(args[0])
			if !ok {
				return fmt.Errorf("invalid amount0 %q", args[0])
			}
			amount1, ok := math.NewIntFromString(args[1])
			if !ok {
				return fmt.Errorf("invalid amount1 %q", args[1])
			}
			decimals0, _ := cmd.Flags().GetUint32(flagDecimals0)
			decimals1, _ := cmd.Flags().GetUint32(flagDecimals1)

			sqrtPrice, err := sqrtprice.SqrtPriceX96(amount0, amount1, decimals0, decimals1)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"sqrt_price_x96": sqrtPrice.String(),
				"price":          sqrtprice.PriceFromSqrtX96(sqrtPrice).String(),
			})
		},
	}

	cmd.Flags().Uint32(flagDecimals0, types.DefaultDecimals, "decimals of amount0")
	cmd.Flags().Uint32(flagDecimals1, types.DefaultDecimals, "decimals of amount1")
	return cmd
}
