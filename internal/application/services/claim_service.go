package services

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/domain"
	"github.com/trustline-faucet/faucet/internal/observability"
)

// ClaimReceipt is returned to the caller as soon as a claim is queued.
// It never carries a transaction hash.
type ClaimReceipt struct {
	Preview              domain.Preview `json:"send"`
	QueueLength          int            `json:"queue_length"`
	EstimatedWaitSeconds float64        `json:"eta_seconds"`
}

type ClaimSettings struct {
	Token          string
	SuppressRepeat bool
	TxsPerLedger   int
	TickPeriod     time.Duration
}

// ClaimService is the accept path: parse, suppress repeats, validate, queue.
type ClaimService struct {
	eligibility *EligibilityService
	tracker     application.ActivityTracker
	queue       application.PayoutQueue
	ids         application.ClaimIDGenerator
	settings    ClaimSettings
	metrics     *observability.FaucetMetrics
	logger      *slog.Logger

	accepted atomic.Uint64
	now      func() time.Time
}

func NewClaimService(
	eligibility *EligibilityService,
	tracker application.ActivityTracker,
	queue application.PayoutQueue,
	ids application.ClaimIDGenerator,
	settings ClaimSettings,
	metrics *observability.FaucetMetrics,
	logger *slog.Logger,
) *ClaimService {
	return &ClaimService{
		eligibility: eligibility,
		tracker:     tracker,
		queue:       queue,
		ids:         ids,
		settings:    settings,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *ClaimService) Claim(ctx context.Context, rawAccount, rawAmount string) (*ClaimReceipt, error) {
	account, err := domain.NewAccountAddress(rawAccount)
	if err != nil {
		return nil, s.reject(err)
	}
	amount, err := domain.ParseAmount(rawAmount)
	if err != nil {
		return nil, s.reject(err)
	}

	now := s.now()
	claimID := s.ids.Next(account)
	reservation := domain.Preview{
		ClaimID:     claimID,
		Account:     account,
		Amount:      amount,
		Token:       s.settings.Token,
		RequestedAt: now,
	}

	if s.settings.SuppressRepeat && !s.tracker.Reserve(claimID, reservation) {
		return nil, s.reject(domain.NewAccountBusyError(s.settings.Token))
	}

	preview, err := s.eligibility.Check(ctx, claimID, account, amount)
	if err != nil {
		s.tracker.Forget(claimID)
		return nil, s.reject(err)
	}

	s.tracker.Record(claimID, preview)

	if err := s.queue.Enqueue(domain.NewPayoutRequest(claimID, account, amount, now)); err != nil {
		s.tracker.Forget(claimID)
		return nil, s.reject(application.NewInternalError(err))
	}

	s.accepted.Add(1)
	s.metrics.ClaimAccepted()

	queued := s.queue.Len()
	s.logger.Info("claim queued",
		"claim_id", claimID,
		"account", account,
		"amount", amount.String(),
		"queue_length", queued,
	)

	return &ClaimReceipt{
		Preview:              preview,
		QueueLength:          queued,
		EstimatedWaitSeconds: EstimateWait(queued, s.settings.TxsPerLedger, s.settings.TickPeriod),
	}, nil
}

func (s *ClaimService) reject(err error) error {
	code := application.ToErrorCode(err)
	s.metrics.ClaimRejected(code)
	s.logger.Info("claim rejected", "code", code, "error", err)
	return err
}

// Accepted is the number of claims queued since start.
func (s *ClaimService) Accepted() uint64 {
	return s.accepted.Load()
}

// EstimateWait is how long the last of total queued claims waits before submission.
func EstimateWait(total, txsPerLedger int, tickPeriod time.Duration) float64 {
	if txsPerLedger <= 0 {
		return 0
	}
	return float64(total) / float64(txsPerLedger) * tickPeriod.Seconds()
}
