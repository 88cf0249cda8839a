package rpc

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/GenerationSoftware/pt-v5-vault-boost/boost"
	"github.com/GenerationSoftware/pt-v5-vault-boost/custody"
	"github.com/GenerationSoftware/pt-v5-vault-boost/prizepool"
	"github.com/GenerationSoftware/pt-v5-vault-boost/storage"
)

var (
	owner       = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	beneficiary = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	prizeToken  = common.HexToAddress("0x0000000000000000000000000000000000000a03")
	sinkAddr    = common.HexToAddress("0x0000000000000000000000000000000000000a04")
	ledgerAddr  = common.HexToAddress("0x0000000000000000000000000000000000000a05")
	token       = common.HexToAddress("0x0000000000000000000000000000000000000b01")
	pair        = common.HexToAddress("0x0000000000000000000000000000000000000b02")
)

func newTestServer(t *testing.T) (*Server, *boost.Engine, *custody.Bank, *prizepool.Pool) {
	t.Helper()
	bank := custody.NewBank()
	pool := prizepool.New(0, 3600)
	engine := boost.NewEngine(owner, beneficiary, prizeToken, sinkAddr)
	engine.SetState(boost.NewLedgerStore(storage.NewMemDB()))
	engine.SetCustody(bank.Account(ledgerAddr))
	engine.SetOracle(pool)
	engine.SetSink(pool)

	server := NewServer(engine, pool, nil)
	server.SetClock(func() uint64 { return 1000 })
	return server, engine, bank, pool
}

func doRequest(t *testing.T, server *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestGetBoostUnknownToken(t *testing.T) {
	server, _, _, _ := newTestServer(t)
	rec := doRequest(t, server, http.MethodGet, "/v1/boosts/"+token.Hex())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body)
	}
}

func TestGetBoostInvalidAddress(t *testing.T) {
	server, _, _, _ := newTestServer(t)
	rec := doRequest(t, server, http.MethodGet, "/v1/boosts/nonsense")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetBoostProjectsAvailable(t *testing.T) {
	server, engine, bank, _ := newTestServer(t)
	if err := bank.Mint(token, ledgerAddr, big.NewInt(10_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := engine.SetBoost(owner, token, pair, nil, big.NewInt(2), nil, 0); err != nil {
		t.Fatalf("set boost: %v", err)
	}

	rec := doRequest(t, server, http.MethodGet, "/v1/boosts/"+token.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		Token              string `json:"token"`
		LiquidationPair    string `json:"liquidationPair"`
		Available          string `json:"available"`
		ProjectedAvailable string `json:"projectedAvailable"`
		ProjectedAt        uint64 `json:"projectedAt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token != token.Hex() || body.LiquidationPair != pair.Hex() {
		t.Fatalf("unexpected identities: %+v", body)
	}
	if body.Available != "0" {
		t.Fatalf("expected committed available 0, got %s", body.Available)
	}
	// Clock pinned at 1000 with 2 tokens per second.
	if body.ProjectedAvailable != "2000" || body.ProjectedAt != 1000 {
		t.Fatalf("unexpected projection: %+v", body)
	}
}

func TestPostAccrueCommits(t *testing.T) {
	server, engine, bank, _ := newTestServer(t)
	if err := bank.Mint(token, ledgerAddr, big.NewInt(10_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := engine.SetBoost(owner, token, pair, nil, big.NewInt(2), nil, 0); err != nil {
		t.Fatalf("set boost: %v", err)
	}

	rec := doRequest(t, server, http.MethodPost, "/v1/boosts/"+token.Hex()+"/accrue")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		Available string `json:"available"`
		AccruedAt uint64 `json:"accruedAt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Available != "2000" || body.AccruedAt != 1000 {
		t.Fatalf("unexpected accrual: %+v", body)
	}

	record, err := engine.BoostOf(token)
	if err != nil {
		t.Fatalf("boost of: %v", err)
	}
	if record.LastAccruedAt != 1000 {
		t.Fatalf("accrue endpoint did not commit, lastAccruedAt %d", record.LastAccruedAt)
	}
}

func TestGetContributions(t *testing.T) {
	server, _, _, pool := newTestServer(t)
	if _, err := pool.Contribute(beneficiary, big.NewInt(75)); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	rec := doRequest(t, server, http.MethodGet, "/v1/contributions/"+beneficiary.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		Beneficiary string `json:"beneficiary"`
		Contributed string `json:"contributed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Contributed != "75" {
		t.Fatalf("expected 75 contributed, got %s", body.Contributed)
	}
}

func TestHealthz(t *testing.T) {
	server, _, _, _ := newTestServer(t)
	rec := doRequest(t, server, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body)
	}
}
