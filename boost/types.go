package boost

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Boost tracks the accrual state for a single boosted token. Amount values
// are denominated in wei and expressed as big integers.
type Boost struct {
	// LiquidationPair is the sole counterparty authorised to draw down the
	// available balance. The zero address means the token is not boosted.
	LiquidationPair common.Address
	// RateMultiplier scales the beneficiary's time-weighted supply into
	// supply-proportional accrual, expressed as an 18-decimal fixed point
	// scalar strictly below 2e18.
	RateMultiplier *big.Int
	// TokensPerSecond is the flat accrual rate, independent of supply.
	TokensPerSecond *big.Int
	// Available is the amount currently authorised for withdrawal by the
	// liquidation pair. Never exceeds actual custody balance.
	Available *big.Int
	// LastAccruedAt is the unix timestamp through which Available has been
	// computed.
	LastAccruedAt uint64
}

// Clone returns a deep copy of the boost record.
func (b *Boost) Clone() *Boost {
	if b == nil {
		return nil
	}
	clone := &Boost{
		LiquidationPair: b.LiquidationPair,
		LastAccruedAt:   b.LastAccruedAt,
	}
	if b.RateMultiplier != nil {
		clone.RateMultiplier = new(big.Int).Set(b.RateMultiplier)
	}
	if b.TokensPerSecond != nil {
		clone.TokensPerSecond = new(big.Int).Set(b.TokensPerSecond)
	}
	if b.Available != nil {
		clone.Available = new(big.Int).Set(b.Available)
	}
	return clone
}

// Boosted reports whether a liquidation pair has been configured.
func (b *Boost) Boosted() bool {
	return b != nil && b.LiquidationPair != (common.Address{})
}

func (b *Boost) normalize() *Boost {
	if b == nil {
		return &Boost{
			RateMultiplier:  big.NewInt(0),
			TokensPerSecond: big.NewInt(0),
			Available:       big.NewInt(0),
		}
	}
	if b.RateMultiplier == nil {
		b.RateMultiplier = big.NewInt(0)
	}
	if b.TokensPerSecond == nil {
		b.TokensPerSecond = big.NewInt(0)
	}
	if b.Available == nil {
		b.Available = big.NewInt(0)
	}
	return b
}

// Receipt binds a liquidation draw to its settlement. VerifyContribution
// rejects settlements whose receipt names a token the caller is not the
// registered pair for.
type Receipt struct {
	ID    uuid.UUID
	Token common.Address
}
