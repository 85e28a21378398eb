package keeper

import (
	"math/big"
	"sync"

	"cosmossdk.io/math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BondingMetrics holds all Prometheus metrics for the bonding module
type BondingMetrics struct {
	// Launch metrics
	Launches     *prometheus.CounterVec
	TokensActive prometheus.Gauge

	// Trade metrics
	Trades      *prometheus.CounterVec
	TradeVolume *prometheus.CounterVec
	TaxAccrued  *prometheus.CounterVec

	// Graduation metrics
	Graduations     prometheus.Counter
	SeedFailures    prometheus.Counter
	SeedRetries     *prometheus.CounterVec
	UnwrappedTokens prometheus.Counter

	// Tax collector metrics
	TaxSwaps          *prometheus.CounterVec
	TaxBalance        prometheus.Gauge
	AgentTaxForwarded *prometheus.CounterVec
}

var (
	bondingMetricsOnce sync.Once
	bondingMetrics     *BondingMetrics
)

// NewBondingMetrics creates and registers bonding metrics (singleton pattern)
func NewBondingMetrics() *BondingMetrics {
	bondingMetricsOnce.Do(func() {
		bondingMetrics = &BondingMetrics{
			Launches: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "fairlaunch",
					Subsystem: "bonding",
					Name:      "launches_total",
					Help:      "Total number of token launches",
				},
				[]string{"status"},
			),
			TokensActive: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "fairlaunch",
					Subsystem: "bonding",
					Name:      "tokens_launched",
					Help:      "Number of tokens launched",
				},
			),
			Trades: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "fairlaunch",
					Subsystem: "bonding",
					Name:      "trades_total",
					Help:      "Total number of bonding curve trades",
				},
				[]string{"side", "status"},
			),
			TradeVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "fairlaunch",
					Subsystem: "bonding",
					Name:      "trade_volume_total",
					Help:      "Reserve asset traded in base units",
				},
				[]string{"side"},
			),
			TaxAccrued: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "fairlaunch",
					Subsystem: "bonding",
					Name:      "tax_accrued_total",
					Help:      "Gateway tax accrued in base units",
				},
				[]string{"side"},
			),
			Graduations: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "fairlaunch",
					Subsystem: "bonding",
					Name:      "graduations_total",
					Help:      "Total number of graduated tokens",
				},
			),
			SeedFailures: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "fairlaunch",
					Subsystem: "bonding",
					Name:      "liquidity_seed_failures_total",
					Help:      "Venue seeding attempts that failed",
				},
			),
			SeedRetries: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "fairlaunch",
					Subsystem: "bonding",
					Name:      "liquidity_seed_retries_total",
					Help:      "Operator retries of venue seeding",
				},
				[]string{"status"},
			),
			UnwrappedTokens: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "fairlaunch",
					Subsystem: "bonding",
					Name:      "unwraps_total",
					Help:      "Holder balances converted into graduated assets",
				},
			),
			TaxSwaps: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "fairlaunch",
					Subsystem: "tax",
					Name:      "swaps_total",
					Help:      "Tax collector conversion attempts",
				},
				[]string{"status"},
			),
			TaxBalance: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "fairlaunch",
					Subsystem: "tax",
					Name:      "balance",
					Help:      "Unconverted tax balance in base units (float approximation)",
				},
			),
			AgentTaxForwarded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "fairlaunch",
					Subsystem: "tax",
					Name:      "agent_forwards_total",
					Help:      "Graduated asset tax forwarding attempts",
				},
				[]string{"status"},
			),
		}
	})
	return bondingMetrics
}

// toFloat approximates an amount for gauges and counters.
func toFloat(amount math.Int) float64 {
	if amount.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(amount.BigInt()).Float64()
	return f
}
