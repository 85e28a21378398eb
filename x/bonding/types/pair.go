package types

import (
	"math/big"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	priceResolution = uint(96)
	accumulatorMod  = new(big.Int).Lsh(big.NewInt(1), 256)
)

// Pair is the constant-product pool between a bonding token (side A) and the
// reserve asset (side B). ReserveB includes the virtual seed, AssetBalance
// counts only reserve asset actually deposited by traders.
type Pair struct {
	Token                sdk.AccAddress `json:"token"`
	Asset                string         `json:"asset"`
	ReserveA             math.Int       `json:"reserve_a"`
	ReserveB             math.Int       `json:"reserve_b"`
	KLast                math.Int       `json:"k_last"`
	PriceACumulativeLast math.Int       `json:"price_a_cumulative_last"`
	PriceBCumulativeLast math.Int       `json:"price_b_cumulative_last"`
	LastUpdateTimestamp  int64          `json:"last_update_timestamp"`
	SeedReserveB         math.Int       `json:"seed_reserve_b"`
	AssetBalance         math.Int       `json:"asset_balance"`
}

// NewPair returns an unseeded pair.
func NewPair(token sdk.AccAddress, asset string) Pair {
	return Pair{
		Token:                token,
		Asset:                asset,
		ReserveA:             math.ZeroInt(),
		ReserveB:             math.ZeroInt(),
		KLast:                math.ZeroInt(),
		PriceACumulativeLast: math.ZeroInt(),
		PriceBCumulativeLast: math.ZeroInt(),
		SeedReserveB:         math.ZeroInt(),
		AssetBalance:         math.ZeroInt(),
	}
}

// Address returns the account holding the pair's token reserve.
func (p Pair) Address() sdk.AccAddress {
	return PairAddress(p.Token)
}

// Seeded reports whether initial liquidity has been added.
func (p Pair) Seeded() bool {
	return p.ReserveA.IsPositive() || p.ReserveB.IsPositive()
}

// K returns the current reserve product.
func (p Pair) K() *big.Int {
	return new(big.Int).Mul(p.ReserveA.BigInt(), p.ReserveB.BigInt())
}

// AddInitialLiquidity seeds an empty pair. The asset side may be entirely
// virtual.
func (p *Pair) AddInitialLiquidity(reserveA, reserveB math.Int, now int64) error {
	if p.Seeded() {
		return ErrPairAlreadySeeded.Wrapf("pair %s", p.Token)
	}
	if reserveA.IsNil() || reserveB.IsNil() || !reserveA.IsPositive() || !reserveB.IsPositive() {
		return ErrInsufficientLiquidity.Wrapf("initial reserves %s/%s", reserveA, reserveB)
	}
	k, err := reserveA.SafeMul(reserveB)
	if err != nil {
		return ErrInvalidAmount.Wrapf("reserve product overflows: %s", err)
	}
	p.ReserveA = reserveA
	p.ReserveB = reserveB
	p.SeedReserveB = reserveB
	p.KLast = k
	p.LastUpdateTimestamp = now
	return nil
}

// GetAmountOut quotes the output of swapping amountIn of tokenIn without
// modifying the pair.
func (p Pair) GetAmountOut(amountIn math.Int, tokenIn string) (math.Int, error) {
	reserveIn, reserveOut, _, err := p.orient(tokenIn)
	if err != nil {
		return math.ZeroInt(), err
	}
	return amountOut(amountIn, reserveIn, reserveOut)
}

// Swap exchanges amountIn of tokenIn against the pool at time now and returns
// the amount of the other side paid out. The pair is left untouched when an
// error is returned.
func (p *Pair) Swap(amountIn math.Int, tokenIn string, now int64) (math.Int, error) {
	reserveIn, reserveOut, tokenSideIn, err := p.orient(tokenIn)
	if err != nil {
		return math.ZeroInt(), err
	}
	out, err := amountOut(amountIn, reserveIn, reserveOut)
	if err != nil {
		return math.ZeroInt(), err
	}

	priceA, priceB, ts := p.accumulate(now)

	newIn := reserveIn.Add(amountIn)
	newOut := reserveOut.Sub(out)
	if !newOut.IsPositive() {
		return math.ZeroInt(), ErrInsufficientLiquidity.Wrap("swap would empty the pool")
	}
	k, err := newIn.SafeMul(newOut)
	if err != nil {
		return math.ZeroInt(), ErrInvalidAmount.Wrapf("reserve product overflows: %s", err)
	}

	p.PriceACumulativeLast = priceA
	p.PriceBCumulativeLast = priceB
	p.LastUpdateTimestamp = ts
	if tokenSideIn {
		p.ReserveA, p.ReserveB = newIn, newOut
	} else {
		p.ReserveB, p.ReserveA = newIn, newOut
	}
	p.KLast = k
	return out, nil
}

// PriceALast returns the spot price of A in B as a Q64.96 value.
func (p Pair) PriceALast() math.Int {
	return wrappingAdd(math.ZeroInt(), q96Ratio(p.ReserveB, p.ReserveA))
}

// PriceBLast returns the spot price of B in A as a Q64.96 value.
func (p Pair) PriceBLast() math.Int {
	return wrappingAdd(math.ZeroInt(), q96Ratio(p.ReserveA, p.ReserveB))
}

// Raised returns the reserve asset deposited on top of the virtual seed.
func (p Pair) Raised() math.Int {
	return p.AssetBalance
}

// orient returns (reserveIn, reserveOut, tokenSideIn).
func (p Pair) orient(tokenIn string) (math.Int, math.Int, bool, error) {
	if !p.Seeded() {
		return math.ZeroInt(), math.ZeroInt(), false, ErrPairNotSeeded.Wrapf("pair %s", p.Token)
	}
	switch tokenIn {
	case p.Token.String():
		return p.ReserveA, p.ReserveB, true, nil
	case p.Asset:
		return p.ReserveB, p.ReserveA, false, nil
	default:
		return math.ZeroInt(), math.ZeroInt(), false, ErrInvalidToken.Wrapf("%s is not part of pair %s", tokenIn, p.Token)
	}
}

// accumulate returns the price accumulators advanced to now using the current
// reserves. Values wrap modulo 2^256.
func (p Pair) accumulate(now int64) (math.Int, math.Int, int64) {
	priceA, priceB := p.PriceACumulativeLast, p.PriceBCumulativeLast
	if now <= p.LastUpdateTimestamp {
		return priceA, priceB, p.LastUpdateTimestamp
	}
	elapsed := big.NewInt(now - p.LastUpdateTimestamp)
	if p.ReserveA.IsPositive() && p.ReserveB.IsPositive() {
		priceA = wrappingAdd(priceA, new(big.Int).Mul(q96Ratio(p.ReserveB, p.ReserveA), elapsed))
		priceB = wrappingAdd(priceB, new(big.Int).Mul(q96Ratio(p.ReserveA, p.ReserveB), elapsed))
	}
	return priceA, priceB, now
}

func amountOut(amountIn, reserveIn, reserveOut math.Int) (math.Int, error) {
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.ZeroInt(), ErrInsufficientInput.Wrap("amount in must be positive")
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.ZeroInt(), ErrInsufficientLiquidity.Wrapf("reserves %s/%s", reserveIn, reserveOut)
	}
	num := new(big.Int).Mul(reserveOut.BigInt(), amountIn.BigInt())
	den := new(big.Int).Add(reserveIn.BigInt(), amountIn.BigInt())
	if den.BitLen() > math.MaxBitLen {
		return math.ZeroInt(), ErrInvalidAmount.Wrap("amount in overflows reserve")
	}
	out := num.Quo(num, den)
	if out.Cmp(reserveOut.BigInt()) >= 0 {
		return math.ZeroInt(), ErrInsufficientLiquidity.Wrap("swap would empty the pool")
	}
	return math.NewIntFromBigInt(out), nil
}

func q96Ratio(num, den math.Int) *big.Int {
	if num.IsNil() || den.IsNil() || !den.IsPositive() {
		return new(big.Int)
	}
	r := new(big.Int).Lsh(num.BigInt(), priceResolution)
	return r.Quo(r, den.BigInt())
}

func wrappingAdd(acc math.Int, delta *big.Int) math.Int {
	sum := new(big.Int).Add(acc.BigInt(), delta)
	return math.NewIntFromBigInt(sum.Mod(sum, accumulatorMod))
}
