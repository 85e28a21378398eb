package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	"github.com/spf13/viper"

	"github.com/paw-chain/fairlaunch/internal/units"
	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

const (
	// ConfigFileName is the devnet config file inside the home directory.
	ConfigFileName = "fairlaunch.toml"

	// EnvPrefix prefixes environment overrides, e.g. FAIRLAUNCH_API_PORT.
	EnvPrefix = "FAIRLAUNCH"

	DBBackendGoLevelDB = "goleveldb"
	DBBackendMemDB     = "memdb"
)

// Config is the devnet node configuration.
type Config struct {
	ChainID   string          `mapstructure:"chain-id"`
	DBBackend string          `mapstructure:"db-backend"`
	Accounts  AccountsConfig  `mapstructure:"accounts"`
	Market    MarketConfig    `mapstructure:"market"`
	API       APIConfig       `mapstructure:"api"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AccountsConfig names the privileged accounts as bech32 addresses.
type AccountsConfig struct {
	Authority string `mapstructure:"authority"`
	FeeTo     string `mapstructure:"fee-to"`
	Vault     string `mapstructure:"vault"`
	Treasury  string `mapstructure:"treasury"`
}

// MarketConfig overrides the launch economics. Amounts are whole-token
// decimals such as "100" or "0.5".
type MarketConfig struct {
	LaunchFee     string `mapstructure:"launch-fee"`
	MaxTx         string `mapstructure:"max-tx"`
	GradThreshold string `mapstructure:"grad-threshold"`
	RouterRate    string `mapstructure:"router-rate"`
	FaucetLimit   string `mapstructure:"faucet-limit"`
}

// APIConfig configures the REST server.
type APIConfig struct {
	Host         string   `mapstructure:"host"`
	Port         string   `mapstructure:"port"`
	CORSOrigins  []string `mapstructure:"cors-origins"`
	RateLimitRPS int      `mapstructure:"rate-limit-rps"`
}

// TelemetryConfig configures the Prometheus endpoint.
type TelemetryConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics-port"`
}

// DevnetAccount derives a deterministic well-known account from name.
func DevnetAccount(name string) sdk.AccAddress {
	return address.Module("fairlaunch-devnet", []byte(name))
}

// DefaultConfig returns a single-node devnet configuration.
func DefaultConfig() Config {
	return Config{
		ChainID:   "fairlaunch-devnet-1",
		DBBackend: DBBackendGoLevelDB,
		Accounts: AccountsConfig{
			Authority: DevnetAccount("authority").String(),
			FeeTo:     DevnetAccount("fee-to").String(),
			Vault:     DevnetAccount("vault").String(),
			Treasury:  DevnetAccount("treasury").String(),
		},
		Market: MarketConfig{
			LaunchFee:     "100",
			MaxTx:         "1000000",
			GradThreshold: "10000",
			RouterRate:    "1",
			FaucetLimit:   "100000",
		},
		API: APIConfig{
			Host:         "127.0.0.1",
			Port:         "5080",
			CORSOrigins:  []string{"*"},
			RateLimitRPS: 50,
		},
		Telemetry: TelemetryConfig{
			Enabled:     true,
			MetricsPort: 36660,
		},
	}
}

func newViper(defaults Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", defaults.ChainID)
	v.SetDefault("db-backend", defaults.DBBackend)
	v.SetDefault("accounts.authority", defaults.Accounts.Authority)
	v.SetDefault("accounts.fee-to", defaults.Accounts.FeeTo)
	v.SetDefault("accounts.vault", defaults.Accounts.Vault)
	v.SetDefault("accounts.treasury", defaults.Accounts.Treasury)
	v.SetDefault("market.launch-fee", defaults.Market.LaunchFee)
	v.SetDefault("market.max-tx", defaults.Market.MaxTx)
	v.SetDefault("market.grad-threshold", defaults.Market.GradThreshold)
	v.SetDefault("market.router-rate", defaults.Market.RouterRate)
	v.SetDefault("market.faucet-limit", defaults.Market.FaucetLimit)
	v.SetDefault("api.host", defaults.API.Host)
	v.SetDefault("api.port", defaults.API.Port)
	v.SetDefault("api.cors-origins", defaults.API.CORSOrigins)
	v.SetDefault("api.rate-limit-rps", defaults.API.RateLimitRPS)
	v.SetDefault("telemetry.enabled", defaults.Telemetry.Enabled)
	v.SetDefault("telemetry.metrics-port", defaults.Telemetry.MetricsPort)
	return v
}

// LoadConfig reads home/fairlaunch.toml, falling back to defaults for missing
// keys and honoring FAIRLAUNCH_* environment overrides. A missing file is not
// an error.
func LoadConfig(home string) (Config, error) {
	v := newViper(DefaultConfig())
	path := filepath.Join(home, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// WriteConfig writes cfg to home/fairlaunch.toml, creating home if needed.
func WriteConfig(home string, cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(home, 0o750); err != nil {
		return "", fmt.Errorf("create home %s: %w", home, err)
	}
	path := filepath.Join(home, ConfigFileName)
	if err := newViper(cfg).WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config %s: %w", path, err)
	}
	return path, nil
}

// Validate checks the addresses, amounts and backend.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ChainID) == "" {
		return fmt.Errorf("chain-id cannot be empty")
	}
	switch c.DBBackend {
	case DBBackendGoLevelDB, DBBackendMemDB:
	default:
		return fmt.Errorf("unsupported db-backend %q", c.DBBackend)
	}
	if _, err := c.Params(); err != nil {
		return err
	}
	if _, err := c.RouterRate(); err != nil {
		return err
	}
	if _, err := c.FaucetLimit(); err != nil {
		return err
	}
	return nil
}

// AuthorityAddress returns the parsed authority account.
func (c Config) AuthorityAddress() (sdk.AccAddress, error) {
	return parseAccount("authority", c.Accounts.Authority)
}

// RouterRate is the devnet router's output per unit of input.
func (c Config) RouterRate() (math.LegacyDec, error) {
	rate, err := math.LegacyNewDecFromStr(c.Market.RouterRate)
	if err != nil {
		return math.LegacyDec{}, fmt.Errorf("router-rate: %w", err)
	}
	if !rate.IsPositive() {
		return math.LegacyDec{}, fmt.Errorf("router-rate must be positive")
	}
	return rate, nil
}

// FaucetLimit is the largest amount a single faucet request may mint.
func (c Config) FaucetLimit() (math.Int, error) {
	return parseAmount("faucet-limit", c.Market.FaucetLimit)
}

// Params holds the component settings applied when the chain starts.
type Params struct {
	Gateway      types.GatewayParams
	Bonding      types.BondingParams
	Graduation   types.GraduationConfigParams
	TaxCollector types.TaxCollectorParams
}

// Params builds the component settings from the defaults and the overrides.
func (c Config) Params() (Params, error) {
	if _, err := c.AuthorityAddress(); err != nil {
		return Params{}, err
	}
	feeTo, err := parseAccount("fee-to", c.Accounts.FeeTo)
	if err != nil {
		return Params{}, err
	}
	vault, err := parseAccount("vault", c.Accounts.Vault)
	if err != nil {
		return Params{}, err
	}
	treasury, err := parseAccount("treasury", c.Accounts.Treasury)
	if err != nil {
		return Params{}, err
	}

	bonding := types.DefaultBondingParams(feeTo)
	if bonding.LaunchFee, err = parseAmount("launch-fee", c.Market.LaunchFee); err != nil {
		return Params{}, err
	}
	if bonding.MaxTx, err = parseAmount("max-tx", c.Market.MaxTx); err != nil {
		return Params{}, err
	}
	if bonding.GradThreshold, err = parseAmount("grad-threshold", c.Market.GradThreshold); err != nil {
		return Params{}, err
	}

	p := Params{
		Gateway: types.DefaultGatewayParams(),
		Bonding: bonding,
		Graduation: types.GraduationConfigParams{
			Supply: types.DefaultGraduationParams(vault),
			Tax:    types.DefaultAgentTaxParams(treasury),
		},
		TaxCollector: types.DefaultTaxCollectorParams(treasury),
	}
	if err := p.Bonding.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func parseAccount(name, bech string) (sdk.AccAddress, error) {
	addr, err := sdk.AccAddressFromBech32(bech)
	if err != nil {
		return nil, fmt.Errorf("accounts.%s: %w", name, err)
	}
	return addr, nil
}

func parseAmount(name, s string) (math.Int, error) {
	amt, err := units.Parse(s, types.DefaultDecimals)
	if err != nil {
		return math.Int{}, fmt.Errorf("market.%s: %w", name, err)
	}
	return amt, nil
}
