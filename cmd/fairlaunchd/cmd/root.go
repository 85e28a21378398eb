package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/paw-chain/fairlaunch/app"
)

const (
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"

	// GenesisFileName is the genesis file inside the home directory.
	GenesisFileName = "genesis.json"
)

// NewRootCmd creates a new root command for fairlaunchd. It is called once in
// the main function.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fairlaunchd",
		Short: "Fair launch devnet daemon",
		Long: `fairlaunchd runs a single-process devnet of the bonding-curve launch engine:
tokens launch on a constant-product curve, graduate into a standard asset once
enough reserve is raised, and seed an external liquidity venue.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flags.FlagHome, app.DefaultNodeHome, "directory for config and data")
	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String(flagLogFormat, "plain", "log format (plain|json)")

	rootCmd.AddCommand(
		InitConfigCmd(),
		StartCmd(),
		SimulateCmd(),
		SqrtPriceCmd(),
		RetrySeedCmd(),
		ExportCmd(),
	)

	return rootCmd
}

func newLogger(cmd *cobra.Command) (log.Logger, error) {
	levelStr, _ := cmd.Flags().GetString(flagLogLevel)
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelStr, err)
	}
	opts := []log.Option{log.LevelOption(level)}

	format, _ := cmd.Flags().GetString(flagLogFormat)
	switch format {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "plain":
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	return log.NewLogger(cmd.ErrOrStderr(), opts...), nil
}

func homeDir(cmd *cobra.Command) string {
	home, _ := cmd.Flags().GetString(flags.FlagHome)
	return home
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// readGenesis loads home/genesis.json, or the default genesis if absent.
func readGenesis(home string) (app.GenesisState, error) {
	path := filepath.Join(home, GenesisFileName)
	bz, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return app.NewDefaultGenesisState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read genesis: %w", err)
	}
	var genesis app.GenesisState
	if err := json.Unmarshal(bz, &genesis); err != nil {
		return nil, fmt.Errorf("decode genesis %s: %w", path, err)
	}
	return genesis, nil
}

// openApp loads the node at home and runs genesis on a fresh database.
func openApp(cmd *cobra.Command, logger log.Logger) (*app.FairlaunchApp, app.Config, error) {
	home := homeDir(cmd)
	cfg, err := app.LoadConfig(home)
	if err != nil {
		return nil, app.Config{}, err
	}
	db, err := app.OpenDB(home, cfg)
	if err != nil {
		return nil, app.Config{}, err
	}
	a, err := app.NewFairlaunchApp(logger, db, cfg)
	if err != nil {
		_ = db.Close()
		return nil, app.Config{}, err
	}

	if a.LastBlockHeight() == 0 {
		genesis, err := readGenesis(home)
		if err == nil {
			err = a.InitChain(genesis)
		}
		if err != nil {
			_ = a.Close()
			return nil, app.Config{}, err
		}
		logger.Info("initialized chain", "chain_id", a.ChainID(), "home", home)
	}
	return a, cfg, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
