package prizepool

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var beneficiary = common.HexToAddress("0x0000000000000000000000000000000000000a02")

func TestContributeAccumulates(t *testing.T) {
	pool := New(0, 3600)

	committed, err := pool.Contribute(beneficiary, big.NewInt(40))
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if committed.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("expected committed 40, got %s", committed)
	}
	if _, err := pool.Contribute(beneficiary, big.NewInt(60)); err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if total := pool.ContributedTotal(beneficiary); total.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected total 100, got %s", total)
	}

	other := common.HexToAddress("0x0000000000000000000000000000000000000a03")
	if total := pool.ContributedTotal(other); total.Sign() != 0 {
		t.Fatalf("expected zero for other beneficiary, got %s", total)
	}
}

func TestContributeRejectsNonPositive(t *testing.T) {
	pool := New(0, 3600)
	if _, err := pool.Contribute(beneficiary, big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := pool.Contribute(beneficiary, nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for nil, got %v", err)
	}
}

func TestObserveRejectsTimeReversal(t *testing.T) {
	pool := New(0, 3600)
	if err := pool.Observe(beneficiary, big.NewInt(10), 100); err != nil {
		t.Fatalf("observe: %v", err)
	}
	if err := pool.Observe(beneficiary, big.NewInt(10), 100); err != nil {
		t.Fatalf("observe at same timestamp: %v", err)
	}
	if err := pool.Observe(beneficiary, big.NewInt(10), 99); !errors.Is(err, ErrTimeReversal) {
		t.Fatalf("expected time reversal, got %v", err)
	}
	if err := pool.Observe(beneficiary, big.NewInt(-1), 200); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestIntegratedSupplyPiecewiseConstant(t *testing.T) {
	pool := New(0, 3600)
	if err := pool.Observe(beneficiary, big.NewInt(10), 0); err != nil {
		t.Fatalf("observe: %v", err)
	}
	if err := pool.Observe(beneficiary, big.NewInt(20), 10); err != nil {
		t.Fatalf("observe: %v", err)
	}

	// 10 for ten seconds, then 20 for ten seconds: average 15.
	avg, err := pool.IntegratedSupplyBetween(beneficiary, 0, 20)
	if err != nil {
		t.Fatalf("integrated supply: %v", err)
	}
	if avg.Cmp(big.NewInt(15)) != 0 {
		t.Fatalf("expected average 15, got %s", avg)
	}

	// Window straddling the step: 10 for five seconds, 20 for five.
	avg, err = pool.IntegratedSupplyBetween(beneficiary, 5, 15)
	if err != nil {
		t.Fatalf("integrated supply: %v", err)
	}
	if avg.Cmp(big.NewInt(15)) != 0 {
		t.Fatalf("expected straddling average 15, got %s", avg)
	}
}

func TestIntegratedSupplyZeroBeforeFirstObservation(t *testing.T) {
	pool := New(0, 3600)
	if err := pool.Observe(beneficiary, big.NewInt(10), 10); err != nil {
		t.Fatalf("observe: %v", err)
	}

	avg, err := pool.IntegratedSupplyBetween(beneficiary, 0, 10)
	if err != nil {
		t.Fatalf("integrated supply: %v", err)
	}
	if avg.Sign() != 0 {
		t.Fatalf("expected zero weight before first observation, got %s", avg)
	}

	// Half the window before the first observation: 10 for ten of twenty
	// seconds averages to 5.
	avg, err = pool.IntegratedSupplyBetween(beneficiary, 0, 20)
	if err != nil {
		t.Fatalf("integrated supply: %v", err)
	}
	if avg.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("expected average 5, got %s", avg)
	}
}

func TestIntegratedSupplyInvalidWindow(t *testing.T) {
	pool := New(0, 3600)
	if _, err := pool.IntegratedSupplyBetween(beneficiary, 10, 10); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected invalid window, got %v", err)
	}
	if _, err := pool.IntegratedSupplyBetween(beneficiary, 10, 5); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected invalid window, got %v", err)
	}
}

func TestIntegratedSupplyUnknownBeneficiary(t *testing.T) {
	pool := New(0, 3600)
	avg, err := pool.IntegratedSupplyBetween(beneficiary, 0, 10)
	if err != nil {
		t.Fatalf("integrated supply: %v", err)
	}
	if avg.Sign() != 0 {
		t.Fatalf("expected zero weight for unknown beneficiary, got %s", avg)
	}
}

func TestPeriodEndOnOrAfter(t *testing.T) {
	pool := New(50, 100)
	cases := []struct {
		timestamp uint64
		want      uint64
	}{
		{0, 50},
		{50, 50},
		{51, 150},
		{150, 150},
		{151, 250},
	}
	for _, c := range cases {
		if got := pool.PeriodEndOnOrAfter(c.timestamp); got != c.want {
			t.Fatalf("at %d: expected %d, got %d", c.timestamp, c.want, got)
		}
	}
	if got := New(0, 0).PeriodEndOnOrAfter(42); got != 42 {
		t.Fatalf("expected degenerate grid to be the identity, got %d", got)
	}
	if pool.PeriodLength() != 100 {
		t.Fatalf("expected period length 100, got %d", pool.PeriodLength())
	}
}
