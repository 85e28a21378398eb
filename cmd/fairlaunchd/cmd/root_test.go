package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/fairlaunch/app"
	"github.com/paw-chain/fairlaunch/cmd/fairlaunchd/cmd"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := cmd.NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInitConfig(t *testing.T) {
	home := t.TempDir()

	_, err := execute(t, "init-config", "--home", home, "--chain-id", "test-chain")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(home, app.ConfigFileName))
	require.FileExists(t, filepath.Join(home, cmd.GenesisFileName))

	cfg, err := app.LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "test-chain", cfg.ChainID)

	_, err = execute(t, "init-config", "--home", home)
	require.Error(t, err)

	_, err = execute(t, "init-config", "--home", home, "--force")
	require.NoError(t, err)
}

func TestSimulate(t *testing.T) {
	out, err := execute(t, "simulate", "--home", t.TempDir())
	require.NoError(t, err)

	var report cmd.SimulationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotEmpty(t, report.Trades)
	require.True(t, report.Trades[len(report.Trades)-1].Graduated)
	require.False(t, report.AgentToken.Empty())
	require.NotEmpty(t, report.Unwrapped)
	require.True(t, report.InvariantOK)
}

func TestSimulateGivesUp(t *testing.T) {
	_, err := execute(t, "simulate", "--home", t.TempDir(), "--buy", "1", "--max-buys", "2")
	require.ErrorContains(t, err, "not graduated")
}

func TestSqrtPrice(t *testing.T) {
	out, err := execute(t, "sqrt-price", "1", "1")
	require.NoError(t, err)

	var res map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, "79228162514264337593543950336", res["sqrt_price_x96"])

	_, err = execute(t, "sqrt-price", "0", "1")
	require.Error(t, err)
	_, err = execute(t, "sqrt-price", "abc", "1")
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, "export", "--home", home)
	require.NoError(t, err)

	var genesis app.GenesisState
	require.NoError(t, json.Unmarshal([]byte(out), &genesis))
	require.Contains(t, genesis, types.ModuleName)

	_, err = os.Stat(filepath.Join(home, "data"))
	require.NoError(t, err)

	// the second open reuses the committed database instead of running genesis
	again, err := execute(t, "export", "--home", home)
	require.NoError(t, err)
	require.JSONEq(t, out, again)
}

func TestRetrySeedWithoutPendingSeed(t *testing.T) {
	token := app.DevnetAccount("unknown-token").String()

	_, err := execute(t, "retry-seed", token, "--home", t.TempDir(), "--interval", "1ms")
	require.ErrorIs(t, err, types.ErrNoPendingSeed)

	_, err = execute(t, "retry-seed", "not-an-address", "--home", t.TempDir())
	require.Error(t, err)
}
