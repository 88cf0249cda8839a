package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GenerationSoftware/pt-v5-vault-boost/boost"
	"github.com/GenerationSoftware/pt-v5-vault-boost/config"
	"github.com/GenerationSoftware/pt-v5-vault-boost/core/events"
	"github.com/GenerationSoftware/pt-v5-vault-boost/core/types"
	"github.com/GenerationSoftware/pt-v5-vault-boost/custody"
	"github.com/GenerationSoftware/pt-v5-vault-boost/observability/logging"
	"github.com/GenerationSoftware/pt-v5-vault-boost/observability/metrics"
	"github.com/GenerationSoftware/pt-v5-vault-boost/prizepool"
	"github.com/GenerationSoftware/pt-v5-vault-boost/rpc"
	"github.com/GenerationSoftware/pt-v5-vault-boost/storage"
)

func main() {
	configFile := flag.String("config", "./boostd.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("BOOST_ENV"))
	logger := logging.Setup("boostd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open database", slog.String("dataDir", cfg.DataDir), slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	bank := custody.NewBank()
	pool := prizepool.New(cfg.PeriodOffset, cfg.PeriodSeconds)

	engine := boost.NewEngine(
		cfg.OwnerAddress(),
		cfg.BeneficiaryAddress(),
		cfg.PrizeTokenAddress(),
		cfg.PrizePoolAddress(),
	)
	engine.SetState(boost.NewLedgerStore(db))
	engine.SetCustody(bank.Account(cfg.LedgerAddress()))
	engine.SetOracle(pool)
	engine.SetSink(pool)
	engine.SetPeriodQuantization(cfg.PeriodQuantization)
	engine.SetEmitter(newLoggingEmitter(logger, metrics.NewRecorder(metrics.Boost())))

	server := rpc.NewServer(engine, pool, logger)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("boostd listening", slog.String("address", cfg.ListenAddress))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
}

// loggingEmitter forwards ledger events to the structured logger and the
// metrics recorder.
type loggingEmitter struct {
	logger   *slog.Logger
	recorder *metrics.Recorder
}

func newLoggingEmitter(logger *slog.Logger, recorder *metrics.Recorder) *loggingEmitter {
	return &loggingEmitter{logger: logger, recorder: recorder}
}

// Emit implements events.Emitter.
func (l *loggingEmitter) Emit(evt events.Event) {
	if l.recorder != nil {
		l.recorder.Emit(evt)
	}
	if l.logger == nil {
		return
	}
	attrs := []any{slog.String("type", evt.EventType())}
	if payload, ok := evt.(interface{ Event() *types.Event }); ok {
		if e := payload.Event(); e != nil {
			for key, value := range e.Attributes {
				attrs = append(attrs, slog.String(key, value))
			}
		}
	}
	l.logger.Info("ledger event", attrs...)
}
