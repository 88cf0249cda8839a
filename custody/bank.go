// Package custody provides an in-process token bank. The boost ledger only
// sees a ledger-scoped view of it through the Account adapter.
package custody

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidAmount     = errors.New("custody: amount must be positive")
	ErrInsufficientFunds = errors.New("custody: insufficient balance")
)

// Bank tracks per-token, per-holder balances.
type Bank struct {
	mu       sync.Mutex
	balances map[common.Address]map[common.Address]*big.Int
}

// NewBank constructs an empty bank.
func NewBank() *Bank {
	return &Bank{balances: make(map[common.Address]map[common.Address]*big.Int)}
}

// Mint credits freshly created tokens to a holder.
func (b *Bank) Mint(token, holder common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	balance := b.balanceLocked(token, holder)
	b.setLocked(token, holder, new(big.Int).Add(balance, amount))
	return nil
}

// BalanceOf returns a copy of the holder's balance for the token.
func (b *Bank) BalanceOf(token, holder common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return new(big.Int).Set(b.balanceLocked(token, holder))
}

// Transfer moves tokens between holders, rejecting overdrafts.
func (b *Bank) Transfer(token, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	fromBalance := b.balanceLocked(token, from)
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	b.setLocked(token, from, new(big.Int).Sub(fromBalance, amount))
	toBalance := b.balanceLocked(token, to)
	b.setLocked(token, to, new(big.Int).Add(toBalance, amount))
	return nil
}

func (b *Bank) balanceLocked(token, holder common.Address) *big.Int {
	holders, ok := b.balances[token]
	if !ok {
		return big.NewInt(0)
	}
	balance, ok := holders[holder]
	if !ok {
		return big.NewInt(0)
	}
	return balance
}

func (b *Bank) setLocked(token, holder common.Address, amount *big.Int) {
	holders, ok := b.balances[token]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		b.balances[token] = holders
	}
	holders[holder] = amount
}

// Account is a holder-scoped view of the bank satisfying the ledger's
// custody capability: balance reads and outbound transfers are implicitly
// scoped to the holder, inbound transfers land in the holder's custody.
type Account struct {
	bank   *Bank
	holder common.Address
}

// Account returns the custody view for a holder.
func (b *Bank) Account(holder common.Address) *Account {
	return &Account{bank: b, holder: holder}
}

// Holder returns the account identity backing this view.
func (a *Account) Holder() common.Address { return a.holder }

// BalanceOf reports the holder's custody balance for the token.
func (a *Account) BalanceOf(token common.Address) (*big.Int, error) {
	return a.bank.BalanceOf(token, a.holder), nil
}

// Transfer moves tokens out of the holder's custody.
func (a *Account) Transfer(token, to common.Address, amount *big.Int) error {
	return a.bank.Transfer(token, a.holder, to, amount)
}

// TransferFrom pulls tokens from another holder into custody.
func (a *Account) TransferFrom(token, from common.Address, amount *big.Int) error {
	return a.bank.Transfer(token, from, a.holder, amount)
}
