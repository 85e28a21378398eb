package types

import (
	"cosmossdk.io/math"
)

// TaxAccumulator tracks reserve-asset tax held by the collector.
type TaxAccumulator struct {
	Balance        math.Int `json:"balance"`
	TotalReceived  math.Int `json:"total_received"`
	TotalForwarded math.Int `json:"total_forwarded"`
	TotalConverted math.Int `json:"total_converted"`
	LastSwapTime   int64    `json:"last_swap_time"`
	Swaps          uint64   `json:"swaps"`
	FailedSwaps    uint64   `json:"failed_swaps"`
	LastError      string   `json:"last_error,omitempty"`
}

// NewTaxAccumulator returns an empty accumulator.
func NewTaxAccumulator() TaxAccumulator {
	return TaxAccumulator{
		Balance:        math.ZeroInt(),
		TotalReceived:  math.ZeroInt(),
		TotalForwarded: math.ZeroInt(),
		TotalConverted: math.ZeroInt(),
	}
}

// Receive credits amount of incoming tax.
func (t *TaxAccumulator) Receive(amount math.Int) {
	t.Balance = t.Balance.Add(amount)
	t.TotalReceived = t.TotalReceived.Add(amount)
}

// Forward records a successful conversion of amount into converted.
func (t *TaxAccumulator) Forward(amount, converted math.Int, now int64) {
	t.Balance = t.Balance.Sub(amount)
	t.TotalForwarded = t.TotalForwarded.Add(amount)
	t.TotalConverted = t.TotalConverted.Add(converted)
	t.LastSwapTime = now
	t.Swaps++
	t.LastError = ""
}

// Fail records a conversion attempt that the router rejected.
func (t *TaxAccumulator) Fail(err error) {
	t.FailedSwaps++
	if err != nil {
		t.LastError = err.Error()
	}
}

// Validate checks the accounting identity of the accumulator.
func (t TaxAccumulator) Validate() error {
	for _, v := range []math.Int{t.Balance, t.TotalReceived, t.TotalForwarded, t.TotalConverted} {
		if v.IsNil() || v.IsNegative() {
			return ErrInvariantViolation.Wrap("tax accumulator amounts must be non-negative")
		}
	}
	if t.TotalForwarded.GT(t.TotalReceived) {
		return ErrInvariantViolation.Wrapf("forwarded %s exceeds received %s", t.TotalForwarded, t.TotalReceived)
	}
	if !t.TotalReceived.Sub(t.TotalForwarded).Equal(t.Balance) {
		return ErrInvariantViolation.Wrapf("balance %s != received %s - forwarded %s", t.Balance, t.TotalReceived, t.TotalForwarded)
	}
	return nil
}

// ShouldSwap decides whether the accumulated balance is converted at now.
func ShouldSwap(acc TaxAccumulator, params TaxCollectorParams, now int64) bool {
	if !acc.Balance.IsPositive() {
		return false
	}
	if acc.Balance.GTE(params.MaxSwapThreshold) {
		return true
	}
	return acc.Balance.GTE(params.MinSwapThreshold) && now-acc.LastSwapTime >= params.SwapCooldownSeconds
}
