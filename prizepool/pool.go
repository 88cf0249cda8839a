// Package prizepool implements the two collaborator capabilities the boost
// ledger settles against: the contribution sink that records prize token
// contributions per beneficiary, and the supply oracle that reports the
// time-weighted total claim weight over a window, quantized to a fixed
// period grid.
package prizepool

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidAmount = errors.New("prizepool: amount must be positive")
	ErrInvalidWindow = errors.New("prizepool: window end must follow start")
	ErrTimeReversal  = errors.New("prizepool: observation older than last")
)

type observation struct {
	at     uint64
	supply *big.Int
}

// Pool records contributions and total-supply observations per beneficiary.
type Pool struct {
	mu            sync.Mutex
	periodOffset  uint64
	periodLength  uint64
	contributions map[common.Address]*big.Int
	observations  map[common.Address][]observation
}

// New constructs a pool whose period grid starts at periodOffset and repeats
// every periodLength seconds.
func New(periodOffset, periodLength uint64) *Pool {
	return &Pool{
		periodOffset:  periodOffset,
		periodLength:  periodLength,
		contributions: make(map[common.Address]*big.Int),
		observations:  make(map[common.Address][]observation),
	}
}

// Contribute records a prize token contribution attributed to the
// beneficiary and returns the committed amount.
func (p *Pool) Contribute(beneficiary common.Address, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	total, ok := p.contributions[beneficiary]
	if !ok {
		total = big.NewInt(0)
	}
	p.contributions[beneficiary] = new(big.Int).Add(total, amount)
	return new(big.Int).Set(amount), nil
}

// ContributedTotal returns the cumulative contributions recorded for the
// beneficiary.
func (p *Pool) ContributedTotal(beneficiary common.Address) *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total, ok := p.contributions[beneficiary]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(total)
}

// Observe records the beneficiary's total claim weight as of the given
// timestamp. Observations must arrive in non-decreasing time order; the
// weight is treated as constant until the next observation.
func (p *Pool) Observe(beneficiary common.Address, supply *big.Int, at uint64) error {
	if supply == nil || supply.Sign() < 0 {
		return ErrInvalidAmount
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	series := p.observations[beneficiary]
	if n := len(series); n > 0 && series[n-1].at > at {
		return ErrTimeReversal
	}
	p.observations[beneficiary] = append(series, observation{at: at, supply: new(big.Int).Set(supply)})
	return nil
}

// IntegratedSupplyBetween returns the time-weighted average claim weight of
// the beneficiary over [from, to], truncating toward zero. Weight before the
// first observation counts as zero.
func (p *Pool) IntegratedSupplyBetween(beneficiary common.Address, from, to uint64) (*big.Int, error) {
	if to <= from {
		return nil, ErrInvalidWindow
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	series := p.observations[beneficiary]
	integral := big.NewInt(0)
	for i, obs := range series {
		start := obs.at
		if start < from {
			start = from
		}
		if start >= to {
			break
		}
		end := to
		if i+1 < len(series) && series[i+1].at < to {
			end = series[i+1].at
		}
		if end <= start {
			continue
		}
		span := new(big.Int).SetUint64(end - start)
		integral.Add(integral, span.Mul(span, obs.supply))
	}
	window := new(big.Int).SetUint64(to - from)
	return integral.Quo(integral, window), nil
}

// PeriodEndOnOrAfter returns the first period boundary at or after the
// timestamp.
func (p *Pool) PeriodEndOnOrAfter(timestamp uint64) uint64 {
	if p.periodLength == 0 {
		return timestamp
	}
	if timestamp <= p.periodOffset {
		return p.periodOffset
	}
	elapsed := timestamp - p.periodOffset
	periods := elapsed / p.periodLength
	if elapsed%p.periodLength != 0 {
		periods++
	}
	return p.periodOffset + periods*p.periodLength
}

// PeriodLength returns the oracle's quantization period in seconds.
func (p *Pool) PeriodLength() uint64 {
	return p.periodLength
}
