package boost

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrNilState                  = errors.New("boost: state not configured")
	ErrNilCustody                = errors.New("boost: custody not configured")
	ErrInvalidToken              = errors.New("boost: invalid token")
	ErrInvalidCounterparty       = errors.New("boost: invalid counterparty")
	ErrUnauthorized              = errors.New("boost: unauthorized")
	ErrNotBoosted                = errors.New("boost: token not boosted")
	ErrZeroAmount                = errors.New("boost: amount must be positive")
	ErrNegativeValue             = errors.New("boost: value must not be negative")
	ErrRateMultiplierRange       = errors.New("boost: rate multiplier out of range")
	ErrUnsupportedReferenceToken = errors.New("boost: unsupported reference token")
	ErrInvalidReceipt            = errors.New("boost: invalid receipt")
	ErrStaleTimestamp            = errors.New("boost: timestamp precedes last accrual")
	ErrArithmeticOverflow        = errors.New("boost: accrual arithmetic overflow")
	ErrInsufficientCustody       = errors.New("boost: insufficient custody balance")
)

// InsufficientAvailableError is returned when a liquidation draw requests more
// than the currently accrued available balance.
type InsufficientAvailableError struct {
	Requested *big.Int
	Available *big.Int
}

// Error implements the error interface.
func (e *InsufficientAvailableError) Error() string {
	return fmt.Sprintf("boost: insufficient available balance: requested %s, available %s", e.Requested, e.Available)
}
