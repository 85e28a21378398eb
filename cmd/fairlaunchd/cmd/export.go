package cmd

import (
	"github.com/spf13/cobra"
)

// ExportCmd prints the committed state of every module as genesis JSON.
func ExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the committed state as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			a, _, err := openApp(cmd, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			genesis, err := a.ExportGenesis()
			if err != nil {
				return err
			}
			return printJSON(cmd, genesis)
		},
	}
}
