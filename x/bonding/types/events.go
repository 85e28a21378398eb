package types

// Event types for the bonding module
const (
	EventTypeInitialized          = "component_initialized"
	EventTypeCapabilityGranted    = "capability_granted"
	EventTypeCapabilityRevoked    = "capability_revoked"
	EventTypePairCreated          = "pair_created"
	EventTypeSwap                 = "gateway_swap"
	EventTypeLaunched             = "launched"
	EventTypeBuy                  = "buy"
	EventTypeSell                 = "sell"
	EventTypeGraduated            = "graduated"
	EventTypeGraduatedAssetMinted = "graduated_asset_created"
	EventTypeLiquiditySeeded      = "liquidity_seeded"
	EventTypeLiquiditySeedFailed  = "liquidity_seed_failed"
	EventTypeUnwrap               = "unwrap"
	EventTypeTaxReceived          = "tax_received"
	EventTypeTaxSwapped           = "tax_swapped"
	EventTypeTaxSwapFailed        = "tax_swap_failed"
	EventTypeAgentTaxForwarded    = "agent_tax_forwarded"
	EventTypeAgentTaxFailed       = "agent_tax_forward_failed"
	EventTypeTransfer             = "transfer"

	AttributeKeyComponent  = "component"
	AttributeKeyCapability = "capability"
	AttributeKeyAddress    = "address"
	AttributeKeyCreator    = "creator"
	AttributeKeyToken      = "token"
	AttributeKeyPair       = "pair"
	AttributeKeyIndex      = "index"
	AttributeKeyTrader     = "trader"
	AttributeKeySide       = "side"
	AttributeKeyAmountIn   = "amount_in"
	AttributeKeyAmountOut  = "amount_out"
	AttributeKeyTax        = "tax"
	AttributeKeyReserveA   = "reserve_a"
	AttributeKeyReserveB   = "reserve_b"
	AttributeKeyAgentToken = "agent_token"
	AttributeKeyPool       = "pool"
	AttributeKeyPosition   = "position_id"
	AttributeKeySqrtPrice  = "sqrt_price_x96"
	AttributeKeyAmount     = "amount"
	AttributeKeyHolder     = "holder"
	AttributeKeySender     = "sender"
	AttributeKeyRecipient  = "recipient"
	AttributeKeyError      = "error"
	AttributeKeyAttempts   = "attempts"

	SideBuy  = "buy"
	SideSell = "sell"
)
