package types_test

import (
	"math/big"
	"reflect"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

var testToken = types.TokenAddress(0)

func seededPair(t require.TestingT, reserveA, reserveB math.Int) types.Pair {
	p := types.NewPair(testToken, types.DefaultAssetDenom)
	require.NoError(t, p.AddInitialLiquidity(reserveA, reserveB, 1_000))
	return p
}

func TestAddInitialLiquidity(t *testing.T) {
	p := types.NewPair(testToken, types.DefaultAssetDenom)
	require.False(t, p.Seeded())

	err := p.AddInitialLiquidity(math.ZeroInt(), math.NewInt(10), 1)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)

	require.NoError(t, p.AddInitialLiquidity(math.NewInt(1_000), math.NewInt(10), 1))
	require.True(t, p.Seeded())
	require.Equal(t, math.NewInt(10_000), p.KLast)
	require.Equal(t, math.NewInt(10), p.SeedReserveB)
	require.True(t, p.AssetBalance.IsZero())

	err = p.AddInitialLiquidity(math.NewInt(1), math.NewInt(1), 2)
	require.ErrorIs(t, err, types.ErrPairAlreadySeeded)
}

func TestSwap(t *testing.T) {
	t.Run("asset in", func(t *testing.T) {
		p := seededPair(t, math.NewInt(1_000_000), math.NewInt(1_000))
		out, err := p.Swap(math.NewInt(1_000), types.DefaultAssetDenom, 1_010)
		require.NoError(t, err)
		// 1_000_000 * 1_000 / 2_000
		require.Equal(t, math.NewInt(500_000), out)
		require.Equal(t, math.NewInt(500_000), p.ReserveA)
		require.Equal(t, math.NewInt(2_000), p.ReserveB)
		require.Equal(t, int64(1_010), p.LastUpdateTimestamp)
	})

	t.Run("token in", func(t *testing.T) {
		p := seededPair(t, math.NewInt(1_000_000), math.NewInt(1_000))
		out, err := p.Swap(math.NewInt(1_000_000), testToken.String(), 1_000)
		require.NoError(t, err)
		require.Equal(t, math.NewInt(500), out)
		require.Equal(t, math.NewInt(2_000_000), p.ReserveA)
		require.Equal(t, math.NewInt(500), p.ReserveB)
	})

	t.Run("quote matches swap", func(t *testing.T) {
		p := seededPair(t, math.NewInt(1_000_000), math.NewInt(1_000))
		quoted, err := p.GetAmountOut(math.NewInt(333), types.DefaultAssetDenom)
		require.NoError(t, err)
		out, err := p.Swap(math.NewInt(333), types.DefaultAssetDenom, 1_000)
		require.NoError(t, err)
		require.Equal(t, quoted, out)
	})

	t.Run("errors leave the pair untouched", func(t *testing.T) {
		p := seededPair(t, math.NewInt(1_000_000), math.NewInt(1_000))
		before := p

		_, err := p.Swap(math.ZeroInt(), types.DefaultAssetDenom, 2_000)
		require.ErrorIs(t, err, types.ErrInsufficientInput)

		_, err = p.Swap(math.NewInt(10), "uother", 2_000)
		require.ErrorIs(t, err, types.ErrInvalidToken)

		require.Equal(t, before, p)
	})

	t.Run("unseeded pair", func(t *testing.T) {
		p := types.NewPair(testToken, types.DefaultAssetDenom)
		_, err := p.Swap(math.NewInt(1), types.DefaultAssetDenom, 1)
		require.ErrorIs(t, err, types.ErrPairNotSeeded)
	})
}

func TestPriceAccumulators(t *testing.T) {
	p := seededPair(t, math.NewInt(4_000), math.NewInt(1_000))
	q96 := new(big.Int).Lsh(big.NewInt(1), 96)

	// PriceALast is B per A, PriceBLast is A per B
	require.Zero(t, new(big.Int).Quo(q96, big.NewInt(4)).Cmp(p.PriceALast().BigInt()))
	require.Zero(t, new(big.Int).Mul(q96, big.NewInt(4)).Cmp(p.PriceBLast().BigInt()))

	// Ten seconds at the seed price accumulate before the swap applies
	_, err := p.Swap(math.NewInt(1_000), types.DefaultAssetDenom, 1_010)
	require.NoError(t, err)
	wantA := new(big.Int).Mul(new(big.Int).Quo(q96, big.NewInt(4)), big.NewInt(10))
	wantB := new(big.Int).Mul(new(big.Int).Mul(q96, big.NewInt(4)), big.NewInt(10))
	require.Zero(t, wantA.Cmp(p.PriceACumulativeLast.BigInt()))
	require.Zero(t, wantB.Cmp(p.PriceBCumulativeLast.BigInt()))

	// No time elapsed, no accumulation
	before := p.PriceACumulativeLast
	_, err = p.Swap(math.NewInt(10), types.DefaultAssetDenom, 1_010)
	require.NoError(t, err)
	require.Equal(t, before, p.PriceACumulativeLast)
}

func TestPairAddress(t *testing.T) {
	p := types.NewPair(testToken, types.DefaultAssetDenom)
	require.Equal(t, types.PairAddress(testToken), p.Address())
	require.NotEqual(t, sdk.AccAddress(testToken), p.Address())
}

// TestSwapProperties checks that k never decreases, outputs stay strictly
// below the out reserve and reserves move by exactly the swapped amounts.
func TestSwapProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ra := rapid.Int64Range(1_000, 1<<55).Draw(t, "reserveA")
		rb := rapid.Int64Range(1_000, 1<<55).Draw(t, "reserveB")
		p := types.NewPair(testToken, types.DefaultAssetDenom)
		if err := p.AddInitialLiquidity(math.NewInt(ra), math.NewInt(rb), 0); err != nil {
			t.Fatalf("seed: %v", err)
		}

		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		now := int64(0)
		for i := 0; i < steps; i++ {
			buy := rapid.Bool().Draw(t, "buy")
			in := math.NewInt(rapid.Int64Range(1, 1<<50).Draw(t, "amountIn"))
			now += rapid.Int64Range(0, 3_600).Draw(t, "elapsed")

			tokenIn := testToken.String()
			reserveIn, reserveOut := p.ReserveA, p.ReserveB
			if buy {
				tokenIn = types.DefaultAssetDenom
				reserveIn, reserveOut = p.ReserveB, p.ReserveA
			}
			kBefore := p.K()
			before := p

			out, err := p.Swap(in, tokenIn, now)
			if err != nil {
				if !reflect.DeepEqual(p, before) {
					t.Fatalf("failed swap mutated the pair")
				}
				continue
			}
			if !out.LT(reserveOut) {
				t.Fatalf("out %s drains reserve %s", out, reserveOut)
			}
			if p.K().Cmp(kBefore) < 0 {
				t.Fatalf("k decreased from %s to %s", kBefore, p.K())
			}
			newIn, newOut := p.ReserveA, p.ReserveB
			if buy {
				newIn, newOut = p.ReserveB, p.ReserveA
			}
			if !newIn.Equal(reserveIn.Add(in)) || !newOut.Equal(reserveOut.Sub(out)) {
				t.Fatalf("reserves moved incorrectly")
			}
			if p.K().Cmp(p.KLast.BigInt()) != 0 {
				t.Fatalf("k_last %s not updated to %s", p.KLast, p.K())
			}
		}
	})
}
