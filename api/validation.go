package api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/fairlaunch/internal/units"
)

// Validation constants
const (
	MaxRequestSize     = 1 << 20 // 1 MB
	MaxRequestIDLength = 64
	MaxAmountLength    = 80
	MaxAddressLength   = 100
	DefaultPageLimit   = 50
	MaxPageLimit       = 200
)

// Numeric string (positive decimal)
var numericRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseAddress validates a bech32 account address
func ParseAddress(field, address string) (sdk.AccAddress, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ValidationError{Field: field, Message: "address is required"}
	}
	if len(address) > MaxAddressLength {
		return nil, ValidationError{Field: field, Message: "address too long"}
	}
	addr, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		return nil, ValidationError{Field: field, Message: fmt.Sprintf("invalid address: %s", err)}
	}
	return addr, nil
}

// ParseAmount validates a decimal amount and scales it to base units. Empty
// strings are rejected unless optional is set, in which case they are zero.
func ParseAmount(field, amount string, decimals uint32, optional bool) (math.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		if optional {
			return math.ZeroInt(), nil
		}
		return math.Int{}, ValidationError{Field: field, Message: "amount is required"}
	}
	if len(amount) > MaxAmountLength {
		return math.Int{}, ValidationError{Field: field, Message: "amount too long"}
	}
	if !numericRegex.MatchString(amount) {
		return math.Int{}, ValidationError{Field: field, Message: "amount must be a positive decimal"}
	}
	v, err := units.Parse(amount, decimals)
	if err != nil {
		return math.Int{}, ValidationError{Field: field, Message: err.Error()}
	}
	return v, nil
}

// ValidateLimit validates limit query parameter
func ValidateLimit(limitStr string, defaultLimit, maxLimit uint64) uint64 {
	limit := defaultLimit
	if v, err := strconv.ParseUint(limitStr, 10, 64); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

// ValidateOffset validates offset query parameter
func ValidateOffset(offsetStr string) uint64 {
	offset, err := strconv.ParseUint(offsetStr, 10, 64)
	if err != nil {
		return 0
	}
	return offset
}
