package metrics

import (
	"github.com/GenerationSoftware/pt-v5-vault-boost/core/events"
)

// Recorder adapts the ledger's event stream into prometheus instruments. It
// satisfies the events.Emitter interface so the daemon can install it
// directly on the engine.
type Recorder struct {
	metrics *BoostMetrics
}

// NewRecorder wires a recorder to the supplied metrics registry.
func NewRecorder(metrics *BoostMetrics) *Recorder {
	return &Recorder{metrics: metrics}
}

// Emit implements events.Emitter.
func (r *Recorder) Emit(evt events.Event) {
	if r == nil || r.metrics == nil {
		return
	}
	switch e := evt.(type) {
	case events.BoostAccrued:
		r.metrics.ObserveAccrual(e.Token.Hex(), e.Available)
	case events.BoostDeposited:
		r.metrics.ObserveDeposit(e.Token.Hex())
	case events.BoostWithdrawn:
		r.metrics.ObserveWithdrawal(e.Token.Hex(), e.Available)
	case events.BoostLiquidated:
		r.metrics.ObserveLiquidation(e.Token.Hex(), e.Available)
	case events.BoostContributed:
		r.metrics.ObserveContribution()
	}
}
