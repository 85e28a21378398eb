package cmd

import (
	"fmt"

	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/fairlaunch/app"
	"github.com/paw-chain/fairlaunch/internal/units"
	"github.com/paw-chain/fairlaunch/x/bonding/keeper"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

const (
	flagPurchase = "purchase"
	flagBuy      = "buy"
	flagMaxBuys  = "max-buys"
)

// SimulationTrade is one buy made during a simulation.
type SimulationTrade struct {
	Height    int64          `json:"height"`
	Trader    sdk.AccAddress `json:"trader"`
	AmountIn  string         `json:"amount_in"`
	AmountOut string         `json:"amount_out"`
	Graduated bool           `json:"graduated"`
}

// SimulationReport summarizes a launch run through graduation and unwrap.
type SimulationReport struct {
	Token       sdk.AccAddress       `json:"token"`
	AgentToken  sdk.AccAddress       `json:"agent_token"`
	Trades      []SimulationTrade    `json:"trades"`
	Unwrapped   []types.UnwrapResult `json:"unwrapped"`
	Asset       types.GraduatedAsset `json:"asset"`
	Tax         types.TaxAccumulator `json:"tax"`
	Height      int64                `json:"height"`
	InvariantOK bool                 `json:"invariants_ok"`
}

// SimulateCmd runs a launch, buys until graduation and unwraps every holder
// on an in-memory devnet.
func SimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a launch through graduation on an in-memory devnet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			cfg, err := app.LoadConfig(homeDir(cmd))
			if err != nil {
				return err
			}
			cfg.DBBackend = app.DBBackendMemDB

			a, err := app.NewFairlaunchApp(logger, dbm.NewMemDB(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.InitChain(app.NewDefaultGenesisState()); err != nil {
				return err
			}

			decimals := a.Params().Bonding.AssetDecimals
			purchaseStr, _ := cmd.Flags().GetString(flagPurchase)
			purchase, err := units.Parse(purchaseStr, decimals)
			if err != nil {
				return err
			}
			buyStr, _ := cmd.Flags().GetString(flagBuy)
			buy, err := units.Parse(buyStr, decimals)
			if err != nil {
				return err
			}
			maxBuys, _ := cmd.Flags().GetInt(flagMaxBuys)

			report, err := simulate(a, purchase, buy, maxBuys)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}

	cmd.Flags().String(flagPurchase, "1100", "creator purchase including the launch fee")
	cmd.Flags().String(flagBuy, "5000", "reserve asset spent by each trader")
	cmd.Flags().Int(flagMaxBuys, 100, "give up if the token has not graduated after this many buys")
	return cmd
}

func simulate(a *app.FairlaunchApp, purchase, buy math.Int, maxBuys int) (SimulationReport, error) {
	var report SimulationReport
	k := a.BondingKeeper
	denom := a.Params().Gateway.AssetDenom
	creator := app.DevnetAccount("creator")
	holders := []sdk.AccAddress{creator}

	fund := func(ctx sdk.Context, addr sdk.AccAddress, amount math.Int) error {
		return a.ReserveKeeper.MintCoins(ctx, addr, sdk.NewCoins(sdk.NewCoin(denom, amount)))
	}

	var launched types.LaunchResult
	err := a.Exec(func(ctx sdk.Context) error {
		if err := fund(ctx, creator, purchase); err != nil {
			return err
		}
		var err error
		launched, err = k.Launch(ctx, creator, types.LaunchRequest{
			Name:           "Simulated Agent",
			Ticker:         "SIM",
			Cores:          []uint32{0},
			Description:    "devnet simulation",
			PurchaseAmount: purchase,
		})
		return err
	})
	if err != nil {
		return report, fmt.Errorf("launch: %w", err)
	}
	report.Token = launched.Token

	graduated := launched.Graduated
	for i := 0; !graduated; i++ {
		if i >= maxBuys {
			return report, fmt.Errorf("token not graduated after %d buys", maxBuys)
		}
		trader := app.DevnetAccount(fmt.Sprintf("trader-%d", i))
		holders = append(holders, trader)

		var trade SimulationTrade
		err := a.Exec(func(ctx sdk.Context) error {
			if err := fund(ctx, trader, buy); err != nil {
				return err
			}
			res, err := k.Buy(ctx, trader, launched.Token, buy, math.ZeroInt())
			if err != nil {
				return err
			}
			trade = SimulationTrade{
				Height:    ctx.BlockHeight(),
				Trader:    trader,
				AmountIn:  res.AmountIn.String(),
				AmountOut: res.AmountOut.String(),
				Graduated: res.Graduated,
			}
			return nil
		})
		if err != nil {
			return report, fmt.Errorf("buy %d: %w", i, err)
		}
		report.Trades = append(report.Trades, trade)
		graduated = trade.Graduated
	}

	err = a.Exec(func(ctx sdk.Context) error {
		var err error
		report.Unwrapped, err = k.Unwrap(ctx, creator, launched.Token, holders)
		return err
	})
	if err != nil {
		return report, fmt.Errorf("unwrap: %w", err)
	}

	err = a.Query(func(ctx sdk.Context) error {
		info, err := k.GetTokenInfo(ctx, launched.Token)
		if err != nil {
			return err
		}
		report.AgentToken = info.AgentToken
		if report.Asset, err = k.GetGraduatedAsset(ctx, info.AgentToken); err != nil {
			return err
		}
		if report.Tax, err = k.GetTaxAccumulator(ctx); err != nil {
			return err
		}
		report.InvariantOK = keeper.CheckInvariants(ctx, *k) == nil
		return nil
	})
	report.Height = a.LastBlockHeight()
	return report, err
}
