// Package app wires the bonding and reserve modules over a commit multistore
// and runs each state transition as a committed block.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/internal/devnet"
	bondingkeeper "github.com/paw-chain/fairlaunch/x/bonding/keeper"
	bondingtypes "github.com/paw-chain/fairlaunch/x/bonding/types"
	reservekeeper "github.com/paw-chain/fairlaunch/x/reserve/keeper"
	reservetypes "github.com/paw-chain/fairlaunch/x/reserve/types"
)

const (
	appName = "fairlaunch"

	// Bech32PrefixAccAddr is the account address prefix of the devnet.
	Bech32PrefixAccAddr = "fair"
)

// DefaultNodeHome is the default home directory for the devnet daemon.
var DefaultNodeHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	DefaultNodeHome = filepath.Join(userHomeDir, ".fairlaunch")
}

// SetAddressPrefixes configures and seals the global bech32 prefixes.
func SetAddressPrefixes() {
	cfg := sdk.GetConfig()
	cfg.SetBech32PrefixForAccount(Bech32PrefixAccAddr, Bech32PrefixAccAddr+"pub")
	cfg.Seal()
}

// Option customizes a FairlaunchApp.
type Option func(*FairlaunchApp)

// WithClock replaces the wall clock used for block times.
func WithClock(now func() time.Time) Option {
	return func(app *FairlaunchApp) {
		app.now = now
	}
}

// FairlaunchApp owns the module keepers and the committed state. Blocks are
// serialized: one Exec runs at a time and queries never see partial blocks.
type FairlaunchApp struct {
	logger  log.Logger
	db      dbm.DB
	cms     storetypes.CommitMultiStore
	keys    map[string]*storetypes.KVStoreKey
	chainID string
	params  Params
	now     func() time.Time

	mu     sync.RWMutex
	height int64

	BondingKeeper *bondingkeeper.Keeper
	ReserveKeeper reservekeeper.Keeper
	Venue         *devnet.Venue
	Router        *devnet.Router
}

// NewFairlaunchApp mounts the module stores on db and loads the latest
// committed version.
func NewFairlaunchApp(logger log.Logger, db dbm.DB, cfg Config, opts ...Option) (*FairlaunchApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	rate, err := cfg.RouterRate()
	if err != nil {
		return nil, err
	}

	keys := storetypes.NewKVStoreKeys(bondingtypes.StoreKey, reservetypes.StoreKey)
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load latest version: %w", err)
	}

	app := &FairlaunchApp{
		logger:  logger.With("module", appName),
		db:      db,
		cms:     cms,
		keys:    keys,
		chainID: cfg.ChainID,
		params:  params,
		now:     time.Now,
		height:  cms.LastCommitID().Version,
	}
	for _, opt := range opts {
		opt(app)
	}

	app.ReserveKeeper = reservekeeper.NewKeeper(keys[reservetypes.StoreKey])
	app.Venue = devnet.NewVenue()
	app.Router = devnet.NewRouter(app.ReserveKeeper, rate)
	app.BondingKeeper = bondingkeeper.NewKeeper(
		keys[bondingtypes.StoreKey],
		app.ReserveKeeper,
		app.Venue,
		app.Router,
		cfg.Accounts.Authority,
	)

	return app, nil
}

// OpenDB opens the configured backend under home/data.
func OpenDB(home string, cfg Config) (dbm.DB, error) {
	if cfg.DBBackend == DBBackendMemDB {
		return dbm.NewMemDB(), nil
	}
	dataDir := filepath.Join(home, "data")
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return dbm.NewDB(appName, dbm.BackendType(cfg.DBBackend), dataDir)
}

// Name returns the application name.
func (app *FairlaunchApp) Name() string { return appName }

// ChainID returns the configured chain id.
func (app *FairlaunchApp) ChainID() string { return app.chainID }

// LastBlockHeight returns the height of the last committed block.
func (app *FairlaunchApp) LastBlockHeight() int64 {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.height
}

// Params returns the component settings applied at genesis.
func (app *FairlaunchApp) Params() Params { return app.params }

// GetKey returns the KVStoreKey for the provided store key.
func (app *FairlaunchApp) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// Logger returns the application logger.
func (app *FairlaunchApp) Logger() log.Logger { return app.logger }

func (app *FairlaunchApp) newContext(ms storetypes.MultiStore, height int64) sdk.Context {
	header := cmtproto.Header{
		ChainID: app.chainID,
		Height:  height,
		Time:    app.now().UTC(),
	}
	return sdk.NewContext(ms, header, false, app.logger)
}

// Exec runs fn as the next block and commits its writes. Nothing is written
// when fn fails, except for external dependency failures: the keeper has
// already rolled the operation back and kept only its record of the attempt.
func (app *FairlaunchApp) Exec(fn func(ctx sdk.Context) error) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	ctx := app.newContext(app.cms, app.height+1)
	cacheCtx, write := ctx.CacheContext()
	err := fn(cacheCtx)
	if err != nil && bondingtypes.KindOf(err) != bondingtypes.KindExternalDependencyFailure {
		return err
	}
	write()

	commitID := app.cms.Commit()
	app.height = commitID.Version
	app.logger.Debug("committed block", "height", app.height, "hash", fmt.Sprintf("%X", commitID.Hash))
	return err
}

// Query runs fn against a throwaway branch of the committed state.
func (app *FairlaunchApp) Query(fn func(ctx sdk.Context) error) error {
	app.mu.RLock()
	defer app.mu.RUnlock()

	return fn(app.newContext(app.cms.CacheMultiStore(), app.height))
}

// Close releases the database.
func (app *FairlaunchApp) Close() error {
	return app.db.Close()
}

// GenesisState represents the genesis state of the devnet, keyed by module.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState returns empty module genesis states.
func NewDefaultGenesisState() GenesisState {
	return GenesisState{
		bondingtypes.ModuleName: mustMarshalJSON(bondingtypes.DefaultGenesis()),
		reservetypes.ModuleName: mustMarshalJSON(reservetypes.DefaultGenesis()),
	}
}

func mustMarshalJSON(v any) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}

// InitChain loads genesis as block one and initializes every component that
// genesis left uninitialized with the configured params.
func (app *FairlaunchApp) InitChain(genesis GenesisState) error {
	if app.LastBlockHeight() > 0 {
		return fmt.Errorf("chain already initialized at height %d", app.LastBlockHeight())
	}

	reserveGenesis := reservetypes.DefaultGenesis()
	if raw, ok := genesis[reservetypes.ModuleName]; ok {
		if err := json.Unmarshal(raw, reserveGenesis); err != nil {
			return fmt.Errorf("decode %s genesis: %w", reservetypes.ModuleName, err)
		}
	}
	bondingGenesis := bondingtypes.DefaultGenesis()
	if raw, ok := genesis[bondingtypes.ModuleName]; ok {
		if err := json.Unmarshal(raw, bondingGenesis); err != nil {
			return fmt.Errorf("decode %s genesis: %w", bondingtypes.ModuleName, err)
		}
	}

	return app.Exec(func(ctx sdk.Context) error {
		if err := app.ReserveKeeper.InitGenesis(ctx, *reserveGenesis); err != nil {
			return err
		}
		if err := app.BondingKeeper.InitGenesis(ctx, *bondingGenesis); err != nil {
			return err
		}
		return app.initComponents(ctx)
	})
}

func (app *FairlaunchApp) initComponents(ctx sdk.Context) error {
	authority := sdk.MustAccAddressFromBech32(app.BondingKeeper.GetAuthority())
	k := app.BondingKeeper
	statuses := k.InitStatuses(ctx)
	if statuses["gateway"] != bondingtypes.StatusInitialized {
		if err := k.InitializeGateway(ctx, authority, app.params.Gateway); err != nil {
			return err
		}
	}
	if statuses["bonding"] != bondingtypes.StatusInitialized {
		if err := k.InitializeBonding(ctx, authority, app.params.Bonding); err != nil {
			return err
		}
	}
	if statuses["graduation"] != bondingtypes.StatusInitialized {
		grad := app.params.Graduation
		if err := k.InitializeGraduation(ctx, authority, grad.Supply, grad.Tax); err != nil {
			return err
		}
	}
	if statuses["tax_collector"] != bondingtypes.StatusInitialized {
		if err := k.InitializeTaxCollector(ctx, authority, app.params.TaxCollector); err != nil {
			return err
		}
	}
	return nil
}

// ExportGenesis exports the committed state of every module.
func (app *FairlaunchApp) ExportGenesis() (GenesisState, error) {
	genesis := make(GenesisState)
	err := app.Query(func(ctx sdk.Context) error {
		bonding, err := app.BondingKeeper.ExportGenesis(ctx)
		if err != nil {
			return err
		}
		genesis[bondingtypes.ModuleName] = mustMarshalJSON(bonding)
		genesis[reservetypes.ModuleName] = mustMarshalJSON(app.ReserveKeeper.ExportGenesis(ctx))
		return nil
	})
	return genesis, err
}
