package main

import (
	"context"
	"os"

	"github.com/paw-chain/fairlaunch/app"
	"github.com/paw-chain/fairlaunch/cmd/fairlaunchd/cmd"
)

func main() {
	// Bech32 prefixes must be set before any address is rendered.
	app.SetAddressPrefixes()

	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
