package devnet

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/paw-chain/fairlaunch/x/bonding/types"
)

const routerModule = "router"

// Bank is the ledger the router settles on.
type Bank interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	MintCoins(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error
	BurnCoins(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error
}

// Router converts at a fixed rate. Input held on the bank is burned and
// output is minted to the recipient. Input held elsewhere, such as graduated
// asset tax, stays with the router.
type Router struct {
	bank Bank
	rate math.LegacyDec

	mu       sync.Mutex
	failWith error
	swaps    uint64
}

var _ types.SwapRouter = (*Router)(nil)

// NewRouter returns a router paying rate units of output per unit of input.
func NewRouter(bank Bank, rate math.LegacyDec) *Router {
	return &Router{bank: bank, rate: rate}
}

// Address is the account that is funded before each swap.
func (r *Router) Address() sdk.AccAddress {
	return address.Module(routerModule, []byte("swap"))
}

// SwapExactIn swaps req.AmountIn and pays the output to req.Recipient.
func (r *Router) SwapExactIn(ctx context.Context, req types.SwapRequest) (math.Int, error) {
	r.mu.Lock()
	failWith := r.failWith
	r.mu.Unlock()
	if failWith != nil {
		return math.ZeroInt(), failWith
	}
	if req.AmountIn.IsNil() || !req.AmountIn.IsPositive() {
		return math.ZeroInt(), fmt.Errorf("amount in must be positive")
	}
	if req.Recipient.Empty() {
		return math.ZeroInt(), fmt.Errorf("recipient cannot be empty")
	}

	held := r.bank.GetBalance(ctx, r.Address(), req.TokenIn)
	if held.Amount.GTE(req.AmountIn) {
		if err := r.bank.BurnCoins(ctx, r.Address(), sdk.NewCoins(sdk.NewCoin(req.TokenIn, req.AmountIn))); err != nil {
			return math.ZeroInt(), fmt.Errorf("burn input: %w", err)
		}
	}

	out := r.rate.MulInt(req.AmountIn).TruncateInt()
	if out.LT(req.MinAmountOut) {
		return math.ZeroInt(), fmt.Errorf("output %s below minimum %s", out, req.MinAmountOut)
	}
	if out.IsPositive() {
		if err := r.bank.MintCoins(ctx, req.Recipient, sdk.NewCoins(sdk.NewCoin(req.TokenOut, out))); err != nil {
			return math.ZeroInt(), fmt.Errorf("mint output: %w", err)
		}
	}

	r.mu.Lock()
	r.swaps++
	r.mu.Unlock()
	return out, nil
}

// Swaps returns the number of successful swaps.
func (r *Router) Swaps() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.swaps
}

// FailWith makes every following swap fail with err; nil clears it.
func (r *Router) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}
