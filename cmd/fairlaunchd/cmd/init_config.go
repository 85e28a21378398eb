package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paw-chain/fairlaunch/app"
)

const (
	flagForce     = "force"
	flagChainID   = "chain-id"
	flagDBBackend = "db-backend"
)

// InitConfigCmd writes a default config and genesis into the home directory.
func InitConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default devnet config and genesis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := homeDir(cmd)
			force, _ := cmd.Flags().GetBool(flagForce)

			cfgPath := filepath.Join(home, app.ConfigFileName)
			if _, err := os.Stat(cfgPath); err == nil && !force {
				return fmt.Errorf("%s already exists; use --%s to overwrite", cfgPath, flagForce)
			}

			cfg := app.DefaultConfig()
			if chainID, _ := cmd.Flags().GetString(flagChainID); chainID != "" {
				cfg.ChainID = chainID
			}
			if backend, _ := cmd.Flags().GetString(flagDBBackend); backend != "" {
				cfg.DBBackend = backend
			}
			path, err := app.WriteConfig(home, cfg)
			if err != nil {
				return err
			}

			genesis, err := json.MarshalIndent(app.NewDefaultGenesisState(), "", "  ")
			if err != nil {
				return err
			}
			genesisPath := filepath.Join(home, GenesisFileName)
			if err := os.WriteFile(genesisPath, genesis, 0o600); err != nil {
				return fmt.Errorf("write genesis: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\nwrote %s\n", path, genesisPath)
			return nil
		},
	}

	cmd.Flags().Bool(flagForce, false, "overwrite an existing config")
	cmd.Flags().String(flagChainID, "", "chain id of the devnet")
	cmd.Flags().String(flagDBBackend, "", "database backend (goleveldb|memdb)")
	return cmd
}
