package types

import (
	"cosmossdk.io/errors"
)

// Bonding module sentinel errors
var (
	ErrInvalidAmount          = errors.Register(ModuleName, 2, "invalid amount")
	ErrZeroAmount             = errors.Register(ModuleName, 3, "amount cannot be zero")
	ErrInsufficientAmount     = errors.Register(ModuleName, 4, "insufficient amount")
	ErrInsufficientInput      = errors.Register(ModuleName, 5, "insufficient input amount")
	ErrInsufficientLiquidity  = errors.Register(ModuleName, 6, "insufficient liquidity")
	ErrInsufficientBalance    = errors.Register(ModuleName, 7, "insufficient balance")
	ErrInsufficientFunds      = errors.Register(ModuleName, 8, "insufficient funds")
	ErrZeroPurchase           = errors.Register(ModuleName, 9, "purchase amount cannot be zero")
	ErrInsufficientPurchase   = errors.Register(ModuleName, 10, "purchase amount must exceed launch fee")
	ErrSlippageExceeded       = errors.Register(ModuleName, 11, "output amount less than minimum required")
	ErrExceedsMaxTransaction  = errors.Register(ModuleName, 12, "amount exceeds max transaction")
	ErrExceedsMaxWallet       = errors.Register(ModuleName, 13, "balance would exceed max wallet")
	ErrInvalidToken           = errors.Register(ModuleName, 14, "invalid token")
	ErrInvalidAddress         = errors.Register(ModuleName, 15, "invalid address")
	ErrInvalidParams          = errors.Register(ModuleName, 16, "invalid parameters")
	ErrInvalidDecimals        = errors.Register(ModuleName, 17, "invalid decimals")
	ErrInvalidMetadata        = errors.Register(ModuleName, 18, "invalid token metadata")
	ErrPriceOverflow          = errors.Register(ModuleName, 19, "sqrt price overflow")
	ErrUnauthorized           = errors.Register(ModuleName, 20, "caller lacks required capability")
	ErrTokenNotFound          = errors.Register(ModuleName, 21, "token not found")
	ErrPairNotFound           = errors.Register(ModuleName, 22, "pair not found")
	ErrPairAlreadyExists      = errors.Register(ModuleName, 23, "pair already exists")
	ErrPairAlreadySeeded      = errors.Register(ModuleName, 24, "pair already seeded")
	ErrPairNotSeeded          = errors.Register(ModuleName, 25, "pair has no liquidity")
	ErrTradingDisabled        = errors.Register(ModuleName, 26, "trading is disabled")
	ErrAlreadyGraduated       = errors.Register(ModuleName, 27, "token already graduated")
	ErrNotGraduated           = errors.Register(ModuleName, 28, "token not graduated")
	ErrBotProtectionActive    = errors.Register(ModuleName, 29, "bot protection window active")
	ErrAlreadyInitialized     = errors.Register(ModuleName, 30, "component already initialized")
	ErrNotInitialized         = errors.Register(ModuleName, 31, "component not initialized")
	ErrSupplyMismatch         = errors.Register(ModuleName, 32, "supply allocation exceeds max supply")
	ErrReentrantCall          = errors.Register(ModuleName, 33, "reentrant call")
	ErrInvariantViolation     = errors.Register(ModuleName, 34, "invariant violation")
	ErrLiquiditySeedFailed    = errors.Register(ModuleName, 35, "liquidity seeding failed")
	ErrTaxSwapFailed          = errors.Register(ModuleName, 36, "tax swap failed")
	ErrNoPendingSeed          = errors.Register(ModuleName, 37, "no pending liquidity seed")
	ErrNothingToSwap          = errors.Register(ModuleName, 38, "tax balance below swap threshold")
	ErrInvalidGenesis         = errors.Register(ModuleName, 39, "invalid genesis state")
	ErrInvalidOperation       = errors.Register(ModuleName, 40, "unknown operation")
)

// ErrorKind groups sentinel errors by how callers are expected to react.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAuthorization
	KindInvariantViolation
	KindLifecycleViolation
	KindExternalDependencyFailure
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindInvariantViolation:
		return "invariant_violation"
	case KindLifecycleViolation:
		return "lifecycle_violation"
	case KindExternalDependencyFailure:
		return "external_dependency_failure"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

var errorKinds = []struct {
	err  *errors.Error
	kind ErrorKind
}{
	{ErrInvalidAmount, KindValidation},
	{ErrZeroAmount, KindValidation},
	{ErrInsufficientAmount, KindValidation},
	{ErrInsufficientInput, KindValidation},
	{ErrInsufficientLiquidity, KindInvariantViolation},
	{ErrInsufficientBalance, KindValidation},
	{ErrInsufficientFunds, KindValidation},
	{ErrZeroPurchase, KindValidation},
	{ErrInsufficientPurchase, KindValidation},
	{ErrSlippageExceeded, KindInvariantViolation},
	{ErrExceedsMaxTransaction, KindInvariantViolation},
	{ErrExceedsMaxWallet, KindInvariantViolation},
	{ErrInvalidToken, KindValidation},
	{ErrInvalidAddress, KindValidation},
	{ErrInvalidParams, KindValidation},
	{ErrInvalidDecimals, KindValidation},
	{ErrInvalidMetadata, KindValidation},
	{ErrPriceOverflow, KindValidation},
	{ErrTokenNotFound, KindValidation},
	{ErrPairNotFound, KindValidation},
	{ErrNothingToSwap, KindValidation},
	{ErrInvalidGenesis, KindValidation},
	{ErrInvalidOperation, KindValidation},
	{ErrUnauthorized, KindAuthorization},
	{ErrBotProtectionActive, KindAuthorization},
	{ErrSupplyMismatch, KindInvariantViolation},
	{ErrInvariantViolation, KindInvariantViolation},
	{ErrReentrantCall, KindInvariantViolation},
	{ErrPairAlreadyExists, KindLifecycleViolation},
	{ErrPairAlreadySeeded, KindLifecycleViolation},
	{ErrPairNotSeeded, KindLifecycleViolation},
	{ErrTradingDisabled, KindLifecycleViolation},
	{ErrAlreadyGraduated, KindLifecycleViolation},
	{ErrNotGraduated, KindLifecycleViolation},
	{ErrAlreadyInitialized, KindLifecycleViolation},
	{ErrNotInitialized, KindLifecycleViolation},
	{ErrNoPendingSeed, KindLifecycleViolation},
	{ErrLiquiditySeedFailed, KindExternalDependencyFailure},
	{ErrTaxSwapFailed, KindExternalDependencyFailure},
}

// KindOf classifies err by the first registered sentinel it wraps. Errors
// that do not originate in this module are reported as KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, ek := range errorKinds {
		if errors.IsOf(err, ek.err) {
			return ek.kind
		}
	}
	return KindInternal
}
