// Package rpc exposes the boost ledger over HTTP: read projections, accrual
// commits and contribution totals, plus health and prometheus endpoints.
package rpc

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GenerationSoftware/pt-v5-vault-boost/boost"
	"github.com/GenerationSoftware/pt-v5-vault-boost/prizepool"
)

// Server wires HTTP handlers to the ledger engine.
type Server struct {
	engine *boost.Engine
	pool   *prizepool.Pool
	logger *slog.Logger
	now    func() uint64
}

// NewServer constructs the HTTP surface for an engine. The pool may be nil
// when the daemon runs without a local prize pool.
func NewServer(engine *boost.Engine, pool *prizepool.Pool, logger *slog.Logger) *Server {
	return &Server{
		engine: engine,
		pool:   pool,
		logger: logger,
		now:    func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// SetClock overrides the server clock; tests use it to pin timestamps.
func (s *Server) SetClock(now func() uint64) {
	if now != nil {
		s.now = now
	}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Get("/boosts/{token}", s.getBoost)
		r.Post("/boosts/{token}/accrue", s.postAccrue)
		r.Get("/contributions/{beneficiary}", s.getContributions)
	})
	return r
}

type boostResponse struct {
	Token              string `json:"token"`
	LiquidationPair    string `json:"liquidationPair"`
	RateMultiplier     string `json:"rateMultiplier"`
	TokensPerSecond    string `json:"tokensPerSecond"`
	Available          string `json:"available"`
	LastAccruedAt      uint64 `json:"lastAccruedAt"`
	ProjectedAvailable string `json:"projectedAvailable"`
	ProjectedAt        uint64 `json:"projectedAt"`
}

func (s *Server) getBoost(w http.ResponseWriter, r *http.Request) {
	token, ok := parseAddress(w, chi.URLParam(r, "token"))
	if !ok {
		return
	}
	record, err := s.engine.BoostOf(token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !record.Boosted() {
		writeJSONError(w, http.StatusNotFound, boost.ErrNotBoosted.Error())
		return
	}
	projected, projectedAt, err := s.engine.ComputeAvailable(token, s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boostResponse{
		Token:              token.Hex(),
		LiquidationPair:    record.LiquidationPair.Hex(),
		RateMultiplier:     record.RateMultiplier.String(),
		TokensPerSecond:    record.TokensPerSecond.String(),
		Available:          record.Available.String(),
		LastAccruedAt:      record.LastAccruedAt,
		ProjectedAvailable: projected.String(),
		ProjectedAt:        projectedAt,
	})
}

type accrueResponse struct {
	Token     string `json:"token"`
	Available string `json:"available"`
	AccruedAt uint64 `json:"accruedAt"`
}

func (s *Server) postAccrue(w http.ResponseWriter, r *http.Request) {
	token, ok := parseAddress(w, chi.URLParam(r, "token"))
	if !ok {
		return
	}
	now := s.now()
	available, err := s.engine.Accrue(token, now)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accrueResponse{
		Token:     token.Hex(),
		Available: available.String(),
		AccruedAt: now,
	})
}

type contributionsResponse struct {
	Beneficiary string `json:"beneficiary"`
	Contributed string `json:"contributed"`
}

func (s *Server) getContributions(w http.ResponseWriter, r *http.Request) {
	if s.pool == nil {
		writeJSONError(w, http.StatusNotFound, "no local prize pool")
		return
	}
	beneficiary, ok := parseAddress(w, chi.URLParam(r, "beneficiary"))
	if !ok {
		return
	}
	total := s.pool.ContributedTotal(beneficiary)
	writeJSON(w, http.StatusOK, contributionsResponse{
		Beneficiary: beneficiary.Hex(),
		Contributed: total.String(),
	})
}

func parseAddress(w http.ResponseWriter, raw string) (common.Address, bool) {
	if !common.IsHexAddress(raw) {
		writeJSONError(w, http.StatusBadRequest, "invalid address")
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var insufficient *boost.InsufficientAvailableError
	switch {
	case errors.Is(err, boost.ErrNotBoosted):
		status = http.StatusNotFound
	case errors.Is(err, boost.ErrInvalidToken),
		errors.Is(err, boost.ErrZeroAmount),
		errors.Is(err, boost.ErrStaleTimestamp):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, boost.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.As(err, &insufficient):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("rpc request failed", slog.Any("error", err))
	}
	writeJSONError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
