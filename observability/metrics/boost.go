package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// BoostMetrics groups the prometheus instruments tracking ledger activity.
type BoostMetrics struct {
	accruals      *prometheus.CounterVec
	deposits      *prometheus.CounterVec
	withdrawals   *prometheus.CounterVec
	liquidations  *prometheus.CounterVec
	contributions prometheus.Counter
	available     *prometheus.GaugeVec
}

var (
	boostOnce     sync.Once
	boostRegistry *BoostMetrics
)

// Boost returns the lazily-initialised ledger metrics registry.
func Boost() *BoostMetrics {
	boostOnce.Do(func() {
		boostRegistry = &BoostMetrics{
			accruals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "boost",
				Name:      "accruals_total",
				Help:      "Count of committed accrual projections per token.",
			}, []string{"token"}),
			deposits: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "boost",
				Name:      "deposits_total",
				Help:      "Count of custody deposits per token.",
			}, []string{"token"}),
			withdrawals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "boost",
				Name:      "withdrawals_total",
				Help:      "Count of owner withdrawals per token.",
			}, []string{"token"}),
			liquidations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "boost",
				Name:      "liquidations_total",
				Help:      "Count of liquidation draws per token.",
			}, []string{"token"}),
			contributions: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "boost",
				Name:      "contributions_total",
				Help:      "Count of settled prize token contributions.",
			}),
			available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "boost",
				Name:      "available",
				Help:      "Latest committed available balance per token, in wei.",
			}, []string{"token"}),
		}
		prometheus.MustRegister(
			boostRegistry.accruals,
			boostRegistry.deposits,
			boostRegistry.withdrawals,
			boostRegistry.liquidations,
			boostRegistry.contributions,
			boostRegistry.available,
		)
	})
	return boostRegistry
}

// ObserveAccrual records a committed accrual and the resulting available
// balance.
func (m *BoostMetrics) ObserveAccrual(token string, available *big.Int) {
	if m == nil {
		return
	}
	m.accruals.WithLabelValues(token).Inc()
	m.setAvailable(token, available)
}

// ObserveDeposit records a custody deposit.
func (m *BoostMetrics) ObserveDeposit(token string) {
	if m == nil {
		return
	}
	m.deposits.WithLabelValues(token).Inc()
}

// ObserveWithdrawal records an owner withdrawal and the re-clamped available
// balance.
func (m *BoostMetrics) ObserveWithdrawal(token string, available *big.Int) {
	if m == nil {
		return
	}
	m.withdrawals.WithLabelValues(token).Inc()
	m.setAvailable(token, available)
}

// ObserveLiquidation records a liquidation draw and the remaining available
// balance.
func (m *BoostMetrics) ObserveLiquidation(token string, available *big.Int) {
	if m == nil {
		return
	}
	m.liquidations.WithLabelValues(token).Inc()
	m.setAvailable(token, available)
}

// ObserveContribution records a settled contribution.
func (m *BoostMetrics) ObserveContribution() {
	if m == nil {
		return
	}
	m.contributions.Inc()
}

func (m *BoostMetrics) setAvailable(token string, available *big.Int) {
	if available == nil {
		return
	}
	value, _ := new(big.Float).SetInt(available).Float64()
	m.available.WithLabelValues(token).Set(value)
}
