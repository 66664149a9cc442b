package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trustline-faucet/faucet/internal/api"
	"github.com/trustline-faucet/faucet/internal/application/services"
	"github.com/trustline-faucet/faucet/internal/config"
	"github.com/trustline-faucet/faucet/internal/domain"
	"github.com/trustline-faucet/faucet/internal/infrastructure/ledger"
	"github.com/trustline-faucet/faucet/internal/infrastructure/memory"
	"github.com/trustline-faucet/faucet/internal/infrastructure/persistence/postgres"
	"github.com/trustline-faucet/faucet/internal/interfaces/rest/handlers"
	"github.com/trustline-faucet/faucet/internal/interfaces/rest/middleware"
	"github.com/trustline-faucet/faucet/internal/observability"
	"github.com/trustline-faucet/faucet/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting faucet service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"token", cfg.Token.Code,
		"issuer", cfg.Token.Issuer,
		"faucet_account", cfg.Wallet.Account,
		"node", cfg.Ledger.Node,
	)

	metrics := observability.Faucet()

	expiry := memory.NewDelayQueue()
	defer expiry.Close()

	tracker := memory.NewActivityTracker(cfg.Claims.TTL)
	defer tracker.Close()

	queue := memory.NewPayoutQueue(cfg.Scheduler.ForceExpire, expiry)
	queue.OnForcedExpiry(func(claimID string) {
		metrics.ForcedExpiry()
		logger.Debug("payout force-expired", "claim_id", claimID)
	})
	ids := memory.NewClaimCounter(cfg.Claims.IDPolicy == config.ClaimIDCounter)

	dialer := ledger.NewDialer(cfg.Ledger.Node, cfg.Ledger.DialTimeout, cfg.Ledger.RequestTimeout, logger)
	ledgerClient := ledger.NewClient(dialer, logger)
	defer ledgerClient.Close()

	gateway := ledger.NewRetryGateway(ledgerClient, cfg.Retry)
	signer, err := ledger.NewWalletSigner(cfg.Wallet.Secret, cfg.Wallet.Account)
	if err != nil {
		logger.Error("failed to load faucet wallet", "account", cfg.Wallet.Account, "error", err)
		os.Exit(1)
	}

	eligibility := services.NewEligibilityService(gateway, cfg.Token.Issuer, cfg.Token.Code)
	claimService := services.NewClaimService(
		eligibility,
		tracker,
		queue,
		ids,
		services.ClaimSettings{
			Token:          cfg.Token.Code,
			SuppressRepeat: cfg.Claims.SuppressRepeat || cfg.Claims.IDPolicy == config.ClaimIDAccount,
			TxsPerLedger:   cfg.Scheduler.TxsPerLedger,
			TickPeriod:     cfg.Scheduler.TickPeriod,
		},
		metrics,
		logger,
	)

	template := domain.TransactionTemplate{
		Faucet:     cfg.Wallet.Account,
		Issuer:     cfg.Token.Issuer,
		Token:      cfg.Token.Code,
		FeeDrops:   cfg.Transaction.EffectiveFeeDrops(),
		MaxLedgers: cfg.Transaction.MaxLedgers,
		Memo:       cfg.Transaction.Memo,
	}

	var opts []worker.SchedulerOption
	if cfg.Database.Enabled {
		ctx := context.Background()
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		journal := postgres.NewSubmissionJournal(db.Pool)
		if err := journal.EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare submission journal", "error", err)
			os.Exit(1)
		}
		opts = append(opts, worker.WithJournal(journal))
	}

	scheduler := worker.NewBatchScheduler(
		queue,
		tracker,
		dialer,
		signer,
		template,
		cfg.Scheduler,
		metrics,
		logger,
		opts...,
	)

	statusService := services.NewStatusService(
		tracker,
		queue,
		scheduler,
		claimService,
		cfg.Scheduler.TxsPerLedger,
		cfg.Scheduler.TickPeriod,
	)

	docs, err := api.DocsHandler()
	if err != nil {
		logger.Error("failed to load openapi document", "error", err)
		os.Exit(1)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, logger)
	}

	h := handlers.NewHandlers(claimService, statusService, logger)
	router := http.Handler(h.Routes(limiter, docs))

	handler := middleware.Recovery(logger)(router)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		if err := scheduler.Start(workerCtx); err != nil {
			logger.Error("scheduler stopped", "error", err)
		}
	}()

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	cancelWorkers()
	select {
	case <-schedulerDone:
	case <-shutdownCtx.Done():
		logger.Warn("scheduler did not stop before shutdown deadline")
	}

	logger.Info("server exited",
		"queued", queue.Len(),
		"claims_accepted", claimService.Accepted(),
	)
}
