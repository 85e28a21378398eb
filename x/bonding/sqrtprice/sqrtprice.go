// Package sqrtprice converts reserve ratios into the Q64.96 square-root price
// format used to initialize concentrated-liquidity pools.
package sqrtprice

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

const (
	// Resolution is the number of fractional bits of a Q64.96 value.
	Resolution = 96

	// MaxBits bounds an encoded sqrt price to the width venues accept.
	MaxBits = 160

	// MaxDecimals caps the decimal difference the encoder will scale across.
	MaxDecimals = 36

	decPrecision = 18
)

var (
	q96       = new(big.Int).Lsh(big.NewInt(1), Resolution)
	q192      = new(big.Int).Lsh(big.NewInt(1), 2*Resolution)
	precision = new(big.Int).Exp(big.NewInt(10), big.NewInt(decPrecision), nil)
)

// Q96 returns 2^96, the encoding of a 1:1 price.
func Q96() math.Int {
	return math.NewIntFromBigInt(q96)
}

// Sqrt returns floor(sqrt(n)) using integer Newton iteration. Negative inputs
// are treated as zero.
func Sqrt(n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		return new(big.Int)
	}
	if n.Cmp(big.NewInt(2)) < 0 {
		return new(big.Int).Set(n)
	}

	x := new(big.Int).Set(n)
	y := new(big.Int).Add(x, big.NewInt(1))
	y.Rsh(y, 1)
	for y.Cmp(x) < 0 {
		x.Set(y)
		// y = (x + n/x) / 2
		y.Quo(n, x)
		y.Add(y, x)
		y.Rsh(y, 1)
	}
	return x
}

// SqrtPriceX96 encodes the price amount1/amount0 as floor(sqrt(price) * 2^96).
// The amount with fewer decimals is scaled up first so both sides are compared
// in the same base unit.
func SqrtPriceX96(amount0, amount1 math.Int, decimals0, decimals1 uint32) (math.Int, error) {
	if amount0.IsNil() || amount1.IsNil() || !amount0.IsPositive() || !amount1.IsPositive() {
		return math.ZeroInt(), types.ErrInsufficientAmount.Wrapf("amount0=%s amount1=%s", amount0, amount1)
	}
	if decimals0 > MaxDecimals || decimals1 > MaxDecimals {
		return math.ZeroInt(), types.ErrInvalidDecimals.Wrapf("decimals %d/%d exceed %d", decimals0, decimals1, MaxDecimals)
	}

	a0 := amount0.BigInt()
	a1 := amount1.BigInt()
	switch {
	case decimals0 > decimals1:
		a1.Mul(a1, pow10(decimals0-decimals1))
	case decimals1 > decimals0:
		a0.Mul(a0, pow10(decimals1-decimals0))
	}

	ratioX192 := new(big.Int).Lsh(a1, 2*Resolution)
	ratioX192.Quo(ratioX192, a0)

	root := Sqrt(ratioX192)
	if root.BitLen() > MaxBits {
		return math.ZeroInt(), types.ErrPriceOverflow.Wrapf("sqrt price needs %d bits", root.BitLen())
	}
	return math.NewIntFromBigInt(root), nil
}

// PriceFromSqrtX96 decodes a Q64.96 sqrt price back into amount1 per amount0.
func PriceFromSqrtX96(sqrtPriceX96 math.Int) math.LegacyDec {
	if sqrtPriceX96.IsNil() || !sqrtPriceX96.IsPositive() {
		return math.LegacyZeroDec()
	}
	s := sqrtPriceX96.BigInt()
	num := new(big.Int).Mul(s, s)
	num.Mul(num, precision)
	num.Quo(num, q192)
	return math.LegacyNewDecFromBigIntWithPrec(num, decPrecision)
}

func pow10(exp uint32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}
