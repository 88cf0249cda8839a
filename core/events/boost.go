package events

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/GenerationSoftware/pt-v5-vault-boost/core/types"
)

const (
	// TypeBoostCounterpartySet is emitted when a liquidation pair is bound to a
	// token during configuration.
	TypeBoostCounterpartySet = "boost.counterpartySet"
	// TypeBoostConfigured captures a full boost re-baseline via SetBoost.
	TypeBoostConfigured = "boost.configured"
	// TypeBoostRatesUpdated is emitted when rate parameters change without
	// discarding accrued value.
	TypeBoostRatesUpdated = "boost.ratesUpdated"
	// TypeBoostCounterpartyUpdated is emitted when the liquidation pair is
	// swapped with no accrual side effect.
	TypeBoostCounterpartyUpdated = "boost.counterpartyUpdated"
	// TypeBoostDeposited captures a top-up of boost token custody.
	TypeBoostDeposited = "boost.deposited"
	// TypeBoostWithdrawn captures an owner withdrawal from custody.
	TypeBoostWithdrawn = "boost.withdrawn"
	// TypeBoostAccrued is emitted every time pending accrual is committed.
	TypeBoostAccrued = "boost.accrued"
	// TypeBoostLiquidated captures a liquidation draw against available balance.
	TypeBoostLiquidated = "boost.liquidated"
	// TypeBoostContributed captures the settlement half of a draw, when prize
	// tokens are forwarded to the contribution sink.
	TypeBoostContributed = "boost.contributed"
)

// BoostCounterpartySet records the liquidation pair bound during SetBoost.
type BoostCounterpartySet struct {
	Token           common.Address
	LiquidationPair common.Address
}

// EventType satisfies the Event interface.
func (BoostCounterpartySet) EventType() string { return TypeBoostCounterpartySet }

// Event converts the structured payload into a broadcastable event.
func (e BoostCounterpartySet) Event() *types.Event {
	return &types.Event{Type: TypeBoostCounterpartySet, Attributes: map[string]string{
		"token":           e.Token.Hex(),
		"liquidationPair": e.LiquidationPair.Hex(),
	}}
}

// BoostConfigured captures the parameters installed by a SetBoost call.
type BoostConfigured struct {
	Token           common.Address
	LiquidationPair common.Address
	RateMultiplier  *big.Int
	TokensPerSecond *big.Int
	Available       *big.Int
	LastAccruedAt   uint64
}

// EventType satisfies the Event interface.
func (BoostConfigured) EventType() string { return TypeBoostConfigured }

// Event converts the structured payload into a broadcastable event.
func (e BoostConfigured) Event() *types.Event {
	return &types.Event{Type: TypeBoostConfigured, Attributes: map[string]string{
		"token":           e.Token.Hex(),
		"liquidationPair": e.LiquidationPair.Hex(),
		"rateMultiplier":  formatAmount(e.RateMultiplier),
		"tokensPerSecond": formatAmount(e.TokensPerSecond),
		"available":       formatAmount(e.Available),
		"lastAccruedAt":   strconv.FormatUint(e.LastAccruedAt, 10),
	}}
}

// BoostRatesUpdated captures a non-destructive rate swap.
type BoostRatesUpdated struct {
	Token           common.Address
	RateMultiplier  *big.Int
	TokensPerSecond *big.Int
	Available       *big.Int
}

// EventType satisfies the Event interface.
func (BoostRatesUpdated) EventType() string { return TypeBoostRatesUpdated }

// Event converts the structured payload into a broadcastable event.
func (e BoostRatesUpdated) Event() *types.Event {
	return &types.Event{Type: TypeBoostRatesUpdated, Attributes: map[string]string{
		"token":           e.Token.Hex(),
		"rateMultiplier":  formatAmount(e.RateMultiplier),
		"tokensPerSecond": formatAmount(e.TokensPerSecond),
		"available":       formatAmount(e.Available),
	}}
}

// BoostCounterpartyUpdated captures a liquidation pair swap.
type BoostCounterpartyUpdated struct {
	Token           common.Address
	OldPair         common.Address
	LiquidationPair common.Address
}

// EventType satisfies the Event interface.
func (BoostCounterpartyUpdated) EventType() string { return TypeBoostCounterpartyUpdated }

// Event converts the structured payload into a broadcastable event.
func (e BoostCounterpartyUpdated) Event() *types.Event {
	attrs := map[string]string{
		"token":           e.Token.Hex(),
		"liquidationPair": e.LiquidationPair.Hex(),
	}
	if !zeroAddress(e.OldPair) {
		attrs["oldPair"] = e.OldPair.Hex()
	}
	return &types.Event{Type: TypeBoostCounterpartyUpdated, Attributes: attrs}
}

// BoostDeposited captures boost tokens moved into ledger custody.
type BoostDeposited struct {
	Token     common.Address
	From      common.Address
	Amount    *big.Int
	Available *big.Int
}

// EventType satisfies the Event interface.
func (BoostDeposited) EventType() string { return TypeBoostDeposited }

// Event converts the structured payload into a broadcastable event.
func (e BoostDeposited) Event() *types.Event {
	return &types.Event{Type: TypeBoostDeposited, Attributes: map[string]string{
		"token":     e.Token.Hex(),
		"from":      e.From.Hex(),
		"amount":    formatAmount(e.Amount),
		"available": formatAmount(e.Available),
	}}
}

// BoostWithdrawn captures boost tokens released back to the owner.
type BoostWithdrawn struct {
	Token     common.Address
	To        common.Address
	Amount    *big.Int
	Available *big.Int
}

// EventType satisfies the Event interface.
func (BoostWithdrawn) EventType() string { return TypeBoostWithdrawn }

// Event converts the structured payload into a broadcastable event.
func (e BoostWithdrawn) Event() *types.Event {
	return &types.Event{Type: TypeBoostWithdrawn, Attributes: map[string]string{
		"token":     e.Token.Hex(),
		"to":        e.To.Hex(),
		"amount":    formatAmount(e.Amount),
		"available": formatAmount(e.Available),
	}}
}

// BoostAccrued captures a committed accrual projection.
type BoostAccrued struct {
	Token     common.Address
	Available *big.Int
	AccruedAt uint64
}

// EventType satisfies the Event interface.
func (BoostAccrued) EventType() string { return TypeBoostAccrued }

// Event converts the structured payload into a broadcastable event.
func (e BoostAccrued) Event() *types.Event {
	return &types.Event{Type: TypeBoostAccrued, Attributes: map[string]string{
		"token":     e.Token.Hex(),
		"available": formatAmount(e.Available),
		"accruedAt": strconv.FormatUint(e.AccruedAt, 10),
	}}
}

// BoostLiquidated captures a draw against the available balance, reporting the
// remaining headroom after the draw.
type BoostLiquidated struct {
	Token     common.Address
	Pair      common.Address
	Receiver  common.Address
	AmountOut *big.Int
	Available *big.Int
}

// EventType satisfies the Event interface.
func (BoostLiquidated) EventType() string { return TypeBoostLiquidated }

// Event converts the structured payload into a broadcastable event.
func (e BoostLiquidated) Event() *types.Event {
	return &types.Event{Type: TypeBoostLiquidated, Attributes: map[string]string{
		"token":     e.Token.Hex(),
		"pair":      e.Pair.Hex(),
		"receiver":  e.Receiver.Hex(),
		"amountOut": formatAmount(e.AmountOut),
		"available": formatAmount(e.Available),
	}}
}

// BoostContributed captures prize tokens forwarded to the contribution sink
// on behalf of the beneficiary.
type BoostContributed struct {
	Token       common.Address
	Pair        common.Address
	Beneficiary common.Address
	AmountIn    *big.Int
	Committed   *big.Int
}

// EventType satisfies the Event interface.
func (BoostContributed) EventType() string { return TypeBoostContributed }

// Event converts the structured payload into a broadcastable event.
func (e BoostContributed) Event() *types.Event {
	return &types.Event{Type: TypeBoostContributed, Attributes: map[string]string{
		"token":       e.Token.Hex(),
		"pair":        e.Pair.Hex(),
		"beneficiary": e.Beneficiary.Hex(),
		"amountIn":    formatAmount(e.AmountIn),
		"committed":   formatAmount(e.Committed),
	}}
}
