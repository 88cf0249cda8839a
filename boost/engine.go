package boost

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/GenerationSoftware/pt-v5-vault-boost/core/events"
)

// LedgerState describes the persistence the engine needs from the
// surrounding state implementation. A nil record means the token has never
// been configured.
type LedgerState interface {
	GetBoost(token common.Address) (*Boost, error)
	PutBoost(token common.Address, boost *Boost) error
}

// Custody exposes the ledger's token holdings. BalanceOf reports the amount
// of a token currently held in custody; TransferFrom always deposits into the
// ledger's own custody, so the destination is implicit. Transfer failures
// must be propagated to the caller, never swallowed.
type Custody interface {
	BalanceOf(token common.Address) (*big.Int, error)
	Transfer(token, to common.Address, amount *big.Int) error
	TransferFrom(token, from common.Address, amount *big.Int) error
}

// ContributionSink accepts prize token contributions attributed to the
// beneficiary and returns the amount it committed.
type ContributionSink interface {
	Contribute(beneficiary common.Address, amount *big.Int) (*big.Int, error)
}

// SupplyOracle reports the beneficiary's time-weighted total claim weight and
// the period grid used by quantized accrual.
type SupplyOracle interface {
	IntegratedSupplyBetween(beneficiary common.Address, from, to uint64) (*big.Int, error)
	PeriodEndOnOrAfter(timestamp uint64) uint64
	PeriodLength() uint64
}

// Engine is the boost ledger: it owns the per-token accrual state machine and
// gates every withdrawal against the authorised counterparty and actual
// custody balance. All operations serialise on an internal mutex and finalise
// bookkeeping before issuing any custody transfer, so a re-entrant read
// during a transfer observes the post-operation state.
type Engine struct {
	mu      sync.Mutex
	state   LedgerState
	custody Custody
	oracle  SupplyOracle
	sink    ContributionSink
	emitter events.Emitter

	owner       common.Address
	beneficiary common.Address
	prizeToken  common.Address
	sinkAddress common.Address
	quantize    bool
}

// NewEngine constructs a boost ledger bound to its beneficiary vault, prize
// token and contribution sink identity.
func NewEngine(owner, beneficiary, prizeToken, sinkAddress common.Address) *Engine {
	return &Engine{
		owner:       owner,
		beneficiary: beneficiary,
		prizeToken:  prizeToken,
		sinkAddress: sinkAddress,
		emitter:     events.NoopEmitter{},
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state LedgerState) { e.state = state }

// SetCustody wires the engine to the token custody capability.
func (e *Engine) SetCustody(custody Custody) { e.custody = custody }

// SetOracle wires the engine to the supply-weighted time average oracle.
func (e *Engine) SetOracle(oracle SupplyOracle) { e.oracle = oracle }

// SetSink wires the engine to the contribution sink.
func (e *Engine) SetSink(sink ContributionSink) { e.sink = sink }

// SetEmitter installs the event sink used for observability. A nil emitter
// restores the default discard behaviour.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	e.emitter = emitter
}

// SetPeriodQuantization toggles snapping of supply-proportional accrual
// windows to closed oracle periods.
func (e *Engine) SetPeriodQuantization(enabled bool) { e.quantize = enabled }

// Owner returns the ledger owner identity.
func (e *Engine) Owner() common.Address { return e.owner }

// Beneficiary returns the vault whose winning chance this ledger boosts.
func (e *Engine) Beneficiary() common.Address { return e.beneficiary }

// PrizeToken returns the reference token accepted as payment for draws.
func (e *Engine) PrizeToken() common.Address { return e.prizeToken }

// TargetOf returns the contribution sink identity for the reference token.
func (e *Engine) TargetOf(referenceToken common.Address) (common.Address, error) {
	if referenceToken != e.prizeToken {
		return common.Address{}, ErrUnsupportedReferenceToken
	}
	return e.sinkAddress, nil
}

// BoostOf returns a copy of the stored record for the token. Unconfigured
// tokens yield a zero-valued record.
func (e *Engine) BoostOf(token common.Address) (*Boost, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	boost, err := e.loadBoost(token)
	if err != nil {
		return nil, err
	}
	return boost.Clone(), nil
}

// SetBoost installs (or fully replaces) the accrual schedule for a token.
// Any previously accrued-but-uncommitted value is discarded: the owner is
// re-baselining the schedule. A seed larger than actual custody balance
// clamps silently to the balance.
func (e *Engine) SetBoost(caller, token, pair common.Address, rateMultiplier, tokensPerSecond, seedAvailable *big.Int, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireWired(); err != nil {
		return err
	}
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if token == (common.Address{}) {
		return ErrInvalidToken
	}
	if pair == (common.Address{}) {
		return ErrInvalidCounterparty
	}
	rateMultiplier, tokensPerSecond, err := normalizeRates(rateMultiplier, tokensPerSecond)
	if err != nil {
		return err
	}
	if seedAvailable == nil {
		seedAvailable = big.NewInt(0)
	}
	if seedAvailable.Sign() < 0 {
		return ErrNegativeValue
	}
	balance, err := e.custody.BalanceOf(token)
	if err != nil {
		return err
	}
	boost := &Boost{
		LiquidationPair: pair,
		RateMultiplier:  new(big.Int).Set(rateMultiplier),
		TokensPerSecond: new(big.Int).Set(tokensPerSecond),
		Available:       new(big.Int).Set(minBig(seedAvailable, balance)),
		LastAccruedAt:   now,
	}
	if err := e.state.PutBoost(token, boost); err != nil {
		return err
	}
	e.emitter.Emit(events.BoostCounterpartySet{Token: token, LiquidationPair: pair})
	e.emitter.Emit(events.BoostConfigured{
		Token:           token,
		LiquidationPair: pair,
		RateMultiplier:  boost.RateMultiplier,
		TokensPerSecond: boost.TokensPerSecond,
		Available:       boost.Available,
		LastAccruedAt:   boost.LastAccruedAt,
	})
	return nil
}

// UpdateRates commits pending accrual under the old rates, then swaps in the
// new rate parameters without touching Available or the liquidation pair.
// This is the non-destructive counterpart to SetBoost.
func (e *Engine) UpdateRates(caller, token common.Address, rateMultiplier, tokensPerSecond *big.Int, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireWired(); err != nil {
		return err
	}
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	rateMultiplier, tokensPerSecond, err := normalizeRates(rateMultiplier, tokensPerSecond)
	if err != nil {
		return err
	}
	boost, err := e.loadBoost(token)
	if err != nil {
		return err
	}
	if !boost.Boosted() {
		return ErrNotBoosted
	}
	if err := e.commitAccrual(token, boost, now); err != nil {
		return err
	}
	boost.RateMultiplier = new(big.Int).Set(rateMultiplier)
	boost.TokensPerSecond = new(big.Int).Set(tokensPerSecond)
	if err := e.state.PutBoost(token, boost); err != nil {
		return err
	}
	e.emitter.Emit(events.BoostRatesUpdated{
		Token:           token,
		RateMultiplier:  boost.RateMultiplier,
		TokensPerSecond: boost.TokensPerSecond,
		Available:       boost.Available,
	})
	return nil
}

// UpdateCounterparty swaps the liquidation pair with no accrual side effect.
func (e *Engine) UpdateCounterparty(caller, token, pair common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireWired(); err != nil {
		return err
	}
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if pair == (common.Address{}) {
		return ErrInvalidCounterparty
	}
	boost, err := e.loadBoost(token)
	if err != nil {
		return err
	}
	if !boost.Boosted() {
		return ErrNotBoosted
	}
	oldPair := boost.LiquidationPair
	boost.LiquidationPair = pair
	if err := e.state.PutBoost(token, boost); err != nil {
		return err
	}
	e.emitter.Emit(events.BoostCounterpartyUpdated{Token: token, OldPair: oldPair, LiquidationPair: pair})
	return nil
}

// Accrue commits the accrual projection for the token through now and
// returns the resulting available balance. Calling twice with the same
// timestamp is a no-op on the second call.
func (e *Engine) Accrue(token common.Address, now uint64) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireWired(); err != nil {
		return nil, err
	}
	boost, err := e.loadBoost(token)
	if err != nil {
		return nil, err
	}
	if err := e.commitAccrual(token, boost, now); err != nil {
		return nil, err
	}
	if err := e.state.PutBoost(token, boost); err != nil {
		return nil, err
	}
	e.emitter.Emit(events.BoostAccrued{Token: token, Available: boost.Available, AccruedAt: boost.LastAccruedAt})
	return new(big.Int).Set(boost.Available), nil
}

// LiquidatableBalanceOf commits the current projection and returns the
// freshly committed available balance. This deliberately mutates state: the
// liquidation pair relies on it as the commit point before a draw.
func (e *Engine) LiquidatableBalanceOf(token common.Address, now uint64) (*big.Int, error) {
	return e.Accrue(token, now)
}

// ComputeAvailable is the pure projection of the accrual schedule: it
// returns what Accrue would commit at now without mutating any state.
func (e *Engine) ComputeAvailable(token common.Address, now uint64) (*big.Int, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireWired(); err != nil {
		return nil, 0, err
	}
	boost, err := e.loadBoost(token)
	if err != nil {
		return nil, 0, err
	}
	return e.project(boost, token, now)
}

// Deposit accrues the existing schedule against the pre-deposit balance,
// then moves amount of token from the depositor into custody. Ordering
// matters: the deposited amount must not itself be treated as accrued.
func (e *Engine) Deposit(token common.Address, amount *big.Int, from common.Address, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireWired(); err != nil {
		return err
	}
	boost, err := e.loadBoost(token)
	if err != nil {
		return err
	}
	if !boost.Boosted() {
		return ErrNotBoosted
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if err := e.commitAccrual(token, boost, now); err != nil {
		return err
	}
	if err := e.state.PutBoost(token, boost); err != nil {
		return err
	}
	if err := e.custody.TransferFrom(token, from, amount); err != nil {
		return err
	}
	e.emitter.Emit(events.BoostDeposited{Token: token, From: from, Amount: amount, Available: boost.Available})
	return nil
}

// Withdraw releases custody back to the owner. The available balance is
// re-clamped against the post-withdrawal custody balance, so an owner
// withdrawal can shrink Available but never raise it.
func (e *Engine) Withdraw(caller, token common.Address, amount *big.Int, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireWired(); err != nil {
		return err
	}
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	boost, err := e.loadBoost(token)
	if err != nil {
		return err
	}
	if err := e.commitAccrual(token, boost, now); err != nil {
		return err
	}
	balance, err := e.custody.BalanceOf(token)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientCustody
	}
	remaining := new(big.Int).Sub(balance, amount)
	boost.Available = minBig(boost.Available, remaining)
	if err := e.state.PutBoost(token, boost); err != nil {
		return err
	}
	if err := e.custody.Transfer(token, e.owner, amount); err != nil {
		return err
	}
	e.emitter.Emit(events.BoostWithdrawn{Token: token, To: e.owner, Amount: amount, Available: boost.Available})
	return nil
}

// TransferOut is the liquidation draw: the registered pair exchanges part of
// the available balance for a receipt binding the later settlement. The
// reduced available balance is committed before the token leaves custody.
func (e *Engine) TransferOut(caller, receiver, token common.Address, amountOut *big.Int, now uint64) (*Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireWired(); err != nil {
		return nil, err
	}
	boost, err := e.loadBoost(token)
	if err != nil {
		return nil, err
	}
	if caller != boost.LiquidationPair || !boost.Boosted() {
		return nil, ErrUnauthorized
	}
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	accrued, accruedAt, err := e.project(boost, token, now)
	if err != nil {
		return nil, err
	}
	if amountOut.Cmp(accrued) > 0 {
		return nil, &InsufficientAvailableError{
			Requested: new(big.Int).Set(amountOut),
			Available: accrued,
		}
	}
	boost.Available = new(big.Int).Sub(accrued, amountOut)
	boost.LastAccruedAt = accruedAt
	if err := e.state.PutBoost(token, boost); err != nil {
		return nil, err
	}
	if err := e.custody.Transfer(token, receiver, amountOut); err != nil {
		return nil, err
	}
	e.emitter.Emit(events.BoostLiquidated{
		Token:     token,
		Pair:      caller,
		Receiver:  receiver,
		AmountOut: amountOut,
		Available: boost.Available,
	})
	return &Receipt{ID: uuid.New(), Token: token}, nil
}

// VerifyContribution settles a draw: the pair pays amountIn of the reference
// token, which is forwarded to the contribution sink and attributed to the
// beneficiary. The committed contribution amount is returned.
func (e *Engine) VerifyContribution(caller, referenceToken common.Address, amountIn *big.Int, receipt *Receipt, now uint64) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireWired(); err != nil {
		return nil, err
	}
	if referenceToken != e.prizeToken {
		return nil, ErrUnsupportedReferenceToken
	}
	if receipt == nil || receipt.Token == (common.Address{}) {
		return nil, ErrInvalidReceipt
	}
	boost, err := e.loadBoost(receipt.Token)
	if err != nil {
		return nil, err
	}
	if !boost.Boosted() || caller != boost.LiquidationPair {
		return nil, ErrUnauthorized
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if err := e.custody.TransferFrom(referenceToken, caller, amountIn); err != nil {
		return nil, err
	}
	if err := e.custody.Transfer(referenceToken, e.sinkAddress, amountIn); err != nil {
		return nil, err
	}
	committed, err := e.sink.Contribute(e.beneficiary, amountIn)
	if err != nil {
		return nil, err
	}
	e.emitter.Emit(events.BoostContributed{
		Token:       receipt.Token,
		Pair:        caller,
		Beneficiary: e.beneficiary,
		AmountIn:    amountIn,
		Committed:   committed,
	})
	return committed, nil
}

// commitAccrual folds the projection into the record in place. Callers
// persist the record afterwards.
func (e *Engine) commitAccrual(token common.Address, boost *Boost, now uint64) error {
	accrued, accruedAt, err := e.project(boost, token, now)
	if err != nil {
		return err
	}
	boost.Available = accrued
	boost.LastAccruedAt = accruedAt
	return nil
}

// project computes (available, accruedAt) at now without mutating the
// record. The clamp runs against the sum of prior available and the accrual
// delta, so a shrinking custody balance caps total available rather than
// just new accrual.
func (e *Engine) project(boost *Boost, token common.Address, now uint64) (*big.Int, uint64, error) {
	if now < boost.LastAccruedAt {
		return nil, 0, ErrStaleTimestamp
	}
	accruedAt := now
	if e.quantize && boost.RateMultiplier.Sign() > 0 && e.oracle != nil {
		accruedAt = e.closedPeriodEnd(now)
		if accruedAt < boost.LastAccruedAt {
			accruedAt = boost.LastAccruedAt
		}
	}
	deltaTime := accruedAt - boost.LastAccruedAt
	if deltaTime == 0 {
		return new(big.Int).Set(boost.Available), boost.LastAccruedAt, nil
	}
	delta := big.NewInt(0)
	if boost.TokensPerSecond.Sign() > 0 {
		flat, err := flatAccrual(boost.TokensPerSecond, deltaTime)
		if err != nil {
			return nil, 0, err
		}
		delta, err = checkedAdd(delta, flat)
		if err != nil {
			return nil, 0, err
		}
	}
	if boost.RateMultiplier.Sign() > 0 && e.oracle != nil {
		weight, err := e.oracle.IntegratedSupplyBetween(e.beneficiary, boost.LastAccruedAt, accruedAt)
		if err != nil {
			return nil, 0, err
		}
		proportional, err := supplyAccrual(boost.RateMultiplier, weight, deltaTime)
		if err != nil {
			return nil, 0, err
		}
		delta, err = checkedAdd(delta, proportional)
		if err != nil {
			return nil, 0, err
		}
	}
	balance, err := e.custody.BalanceOf(token)
	if err != nil {
		return nil, 0, err
	}
	projected, err := checkedAdd(boost.Available, delta)
	if err != nil {
		return nil, 0, err
	}
	return new(big.Int).Set(minBig(projected, balance)), accruedAt, nil
}

// closedPeriodEnd returns the latest fully closed oracle period boundary at
// or before now.
func (e *Engine) closedPeriodEnd(now uint64) uint64 {
	boundary := e.oracle.PeriodEndOnOrAfter(now)
	if boundary <= now {
		return boundary
	}
	length := e.oracle.PeriodLength()
	if boundary < length {
		return 0
	}
	return boundary - length
}

func (e *Engine) loadBoost(token common.Address) (*Boost, error) {
	boost, err := e.state.GetBoost(token)
	if err != nil {
		return nil, err
	}
	return boost.normalize(), nil
}

func (e *Engine) requireOwner(caller common.Address) error {
	if caller != e.owner {
		return ErrUnauthorized
	}
	return nil
}

func (e *Engine) requireWired() error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.custody == nil {
		return ErrNilCustody
	}
	return nil
}

func normalizeRates(rateMultiplier, tokensPerSecond *big.Int) (*big.Int, *big.Int, error) {
	if rateMultiplier == nil {
		rateMultiplier = big.NewInt(0)
	}
	if tokensPerSecond == nil {
		tokensPerSecond = big.NewInt(0)
	}
	if tokensPerSecond.Sign() < 0 {
		return nil, nil, ErrNegativeValue
	}
	if rateMultiplier.Sign() < 0 || rateMultiplier.Cmp(maxRateMultiplier) >= 0 {
		return nil, nil, ErrRateMultiplierRange
	}
	return rateMultiplier, tokensPerSecond, nil
}
