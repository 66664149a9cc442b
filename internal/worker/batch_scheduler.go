package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/config"
	"github.com/trustline-faucet/faucet/internal/domain"
	"github.com/trustline-faucet/faucet/internal/observability"
)

var (
	ErrTickInProgress  = errors.New("scheduler tick already in progress")
	ErrFaucetExhausted = errors.New("faucet holds no balance of the configured token")
)

// TickReport summarises one completed tick.
type TickReport struct {
	ID       string
	Snapshot domain.FaucetSnapshot
	Drained  int
	Accepted int
	Failed   int
	Duration time.Duration
}

type SchedulerOption func(*BatchScheduler)

// WithJournal records every submission outcome in the given journal.
func WithJournal(j application.SubmissionJournal) SchedulerOption {
	return func(s *BatchScheduler) { s.journal = j }
}

// WithClock sets the function used to derive timestamps.
func WithClock(clock func() time.Time) SchedulerOption {
	return func(s *BatchScheduler) { s.now = clock }
}

// BatchScheduler drains the payout queue once per period into a window of
// consecutive account sequence numbers and submits the batch concurrently.
type BatchScheduler struct {
	queue    application.PayoutQueue
	tracker  application.ActivityTracker
	dialer   application.LedgerDialer
	signer   application.Signer
	journal  application.SubmissionJournal
	template domain.TransactionTemplate
	cfg      config.SchedulerConfig
	metrics  *observability.FaucetMetrics
	logger   *slog.Logger
	now      func() time.Time

	running atomic.Bool
}

func NewBatchScheduler(
	queue application.PayoutQueue,
	tracker application.ActivityTracker,
	dialer application.LedgerDialer,
	signer application.Signer,
	template domain.TransactionTemplate,
	cfg config.SchedulerConfig,
	metrics *observability.FaucetMetrics,
	logger *slog.Logger,
	opts ...SchedulerOption,
) *BatchScheduler {
	s := &BatchScheduler{
		queue:    queue,
		tracker:  tracker,
		dialer:   dialer,
		signer:   signer,
		template: template,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Running reports whether a tick is in progress.
func (s *BatchScheduler) Running() bool {
	return s.running.Load()
}

// Start runs ticks every period until ctx is cancelled, then waits for the
// in-flight tick to finish.
func (s *BatchScheduler) Start(ctx context.Context) error {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	spec := "@every " + s.cfg.TickPeriod.String()
	if _, err := c.AddFunc(spec, func() { s.runTick(ctx) }); err != nil {
		return fmt.Errorf("schedule tick %q: %w", spec, err)
	}

	s.logger.Info("batch scheduler started",
		"tick_period", s.cfg.TickPeriod,
		"txs_per_ledger", s.cfg.TxsPerLedger,
	)
	c.Start()

	<-ctx.Done()
	s.logger.Info("batch scheduler stopping")
	<-c.Stop().Done()
	return nil
}

func (s *BatchScheduler) runTick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	tickCtx, cancel := context.WithTimeout(ctx, s.cfg.TickTimeout)
	defer cancel()

	report, err := s.Tick(tickCtx)
	switch {
	case errors.Is(err, ErrTickInProgress):
		s.logger.Warn("previous tick still running, skipping")
	case errors.Is(err, ErrFaucetExhausted):
		s.logger.Error("faucet exhausted, tick aborted",
			"token", s.template.Token,
			"issuer", s.template.Issuer,
		)
	case err != nil:
		s.logger.Error("tick failed", "error", err)
	case report.Drained > 0:
		s.logger.Info("tick completed",
			"tick_id", report.ID,
			"drained", report.Drained,
			"accepted", report.Accepted,
			"failed", report.Failed,
			"first_sequence", report.Snapshot.Sequence,
			"ledger_index", report.Snapshot.LedgerIndex,
			"duration", report.Duration,
		)
	}
}

// Tick drains and submits one batch. At most one tick runs at a time.
func (s *BatchScheduler) Tick(ctx context.Context) (*TickReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.TickSkipped()
		return nil, ErrTickInProgress
	}
	defer s.running.Store(false)
	defer s.recordQueueDepth()

	started := s.now()
	report := &TickReport{ID: uuid.NewString()}

	if s.queue.EligibleCount() == 0 {
		return report, nil
	}

	conn, err := s.dialer.Dial(ctx)
	if err != nil {
		s.metrics.TickAborted("dial")
		return nil, fmt.Errorf("dial ledger: %w", err)
	}
	defer conn.Close()

	snapshot, err := s.snapshot(ctx, conn)
	if err != nil {
		s.metrics.TickAborted("snapshot")
		return nil, fmt.Errorf("read faucet state: %w", err)
	}
	if snapshot.Exhausted() {
		s.metrics.TickAborted("exhausted")
		return nil, ErrFaucetExhausted
	}
	report.Snapshot = snapshot

	batch := s.queue.DrainEligible(s.cfg.TxsPerLedger)
	for i := range batch {
		batch[i].Sequence = snapshot.Sequence + uint32(i)
		sequence := batch[i].Sequence
		s.queue.Update(batch[i].ClaimID, func(r *domain.PayoutRequest) {
			r.Sequence = sequence
		})
	}
	report.Drained = len(batch)

	var accepted, failed atomic.Int32
	var g errgroup.Group
	for _, req := range batch {
		g.Go(func() error {
			if s.submitOne(ctx, conn, snapshot, req) {
				accepted.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Accepted = int(accepted.Load())
	report.Failed = int(failed.Load())
	report.Duration = s.now().Sub(started)
	s.metrics.TickCompleted(report.Duration.Seconds())
	return report, nil
}

func (s *BatchScheduler) snapshot(ctx context.Context, conn application.LedgerConn) (domain.FaucetSnapshot, error) {
	info, err := conn.AccountInfo(ctx, s.template.Faucet)
	if err != nil {
		return domain.FaucetSnapshot{}, fmt.Errorf("account_info: %w", err)
	}

	balances, err := conn.GatewayBalances(ctx, s.template.Faucet)
	if err != nil {
		return domain.FaucetSnapshot{}, fmt.Errorf("gateway_balances: %w", err)
	}
	balance, _ := balances.Holding(s.template.Issuer, s.template.Token)

	ledgerIndex, err := conn.LedgerCurrent(ctx)
	if err != nil {
		return domain.FaucetSnapshot{}, fmt.Errorf("ledger_current: %w", err)
	}

	return domain.FaucetSnapshot{
		Sequence:    info.Sequence,
		Balance:     balance,
		LedgerIndex: ledgerIndex,
	}, nil
}

// submitOne signs and submits a single drained claim. The entry leaves the
// queue whatever the outcome.
func (s *BatchScheduler) submitOne(ctx context.Context, conn application.LedgerConn, snapshot domain.FaucetSnapshot, req domain.PayoutRequest) (ok bool) {
	logger := s.logger.With("claim_id", req.ClaimID, "sequence", req.Sequence)
	result := domain.SubmitResult{Sequence: req.Sequence}

	defer s.queue.Complete(req.ClaimID)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("payout panicked", "panic", r)
			result.Error = fmt.Sprintf("panic: %v", r)
			s.finish(ctx, &req, result)
			ok = false
		}
	}()

	tx := s.template.NewPaymentTransaction(&req, snapshot)

	signed, err := s.signer.Sign(ctx, tx)
	if err != nil {
		logger.Error("failed to sign payout", "error", err)
		result.Error = "sign: " + err.Error()
		result.SubmittedAt = s.now()
		s.finish(ctx, &req, result)
		return false
	}

	req.TxHash = signed.ID
	req.SignedBlob = signed.Blob
	s.queue.Update(req.ClaimID, func(r *domain.PayoutRequest) {
		r.TxHash = signed.ID
		r.SignedBlob = signed.Blob
	})

	resp, err := conn.Submit(ctx, signed.Blob)
	result.TxHash = signed.ID
	result.SubmittedAt = s.now()
	if err != nil {
		logger.Error("failed to submit payout", "tx_hash", signed.ID, "error", err)
		result.Error = "submit: " + err.Error()
		s.metrics.Submission("")
		s.finish(ctx, &req, result)
		return false
	}

	if resp.TxHash != "" {
		result.TxHash = resp.TxHash
	}
	result.EngineResult = resp.EngineResult
	result.EngineResultMessage = resp.EngineResultMessage
	result.Accepted = resp.Accepted
	s.metrics.Submission(resp.EngineResult)
	s.finish(ctx, &req, result)

	if !resp.Accepted {
		logger.Warn("payout rejected by ledger",
			"tx_hash", result.TxHash,
			"engine_result", resp.EngineResult,
			"engine_result_message", resp.EngineResultMessage,
		)
		return false
	}

	logger.Debug("payout submitted", "tx_hash", result.TxHash, "engine_result", resp.EngineResult)
	return true
}

func (s *BatchScheduler) finish(ctx context.Context, req *domain.PayoutRequest, result domain.SubmitResult) {
	req.SubmitResult = &result
	s.tracker.AttachResult(req.ClaimID, result)
	s.queue.Update(req.ClaimID, func(r *domain.PayoutRequest) {
		r.SubmitResult = &result
	})

	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, *req); err != nil {
		s.logger.Warn("failed to journal submission", "claim_id", req.ClaimID, "error", err)
	}
}

func (s *BatchScheduler) recordQueueDepth() {
	total := s.queue.Len()
	eligible := s.queue.EligibleCount()
	s.metrics.QueueDepth(eligible, max(total-eligible, 0))
}
