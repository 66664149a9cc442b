package services

import (
	"time"

	"github.com/trustline-faucet/faucet/internal/application"
)

type TickState interface {
	Running() bool
}

type AcceptedCounter interface {
	Accepted() uint64
}

type QueueLength struct {
	Total             int     `json:"total"`
	Eligible          int     `json:"eligible"`
	Processing        int     `json:"processing"`
	TickRunning       bool    `json:"tick_running"`
	ClaimsAccepted    uint64  `json:"claims_accepted"`
	TxsPerLedger      int     `json:"txs_per_ledger"`
	TickPeriodSeconds float64 `json:"tick_period_seconds"`
	ETASeconds        float64 `json:"eta_seconds"`
}

// StatusService is a read-only view over the tracker, queue and scheduler.
type StatusService struct {
	tracker      application.ActivityTracker
	queue        application.PayoutQueue
	ticks        TickState
	claims       AcceptedCounter
	txsPerLedger int
	tickPeriod   time.Duration
}

func NewStatusService(
	tracker application.ActivityTracker,
	queue application.PayoutQueue,
	ticks TickState,
	claims AcceptedCounter,
	txsPerLedger int,
	tickPeriod time.Duration,
) *StatusService {
	return &StatusService{
		tracker:      tracker,
		queue:        queue,
		ticks:        ticks,
		claims:       claims,
		txsPerLedger: txsPerLedger,
		tickPeriod:   tickPeriod,
	}
}

func (s *StatusService) Activity() map[string]application.ActivityView {
	return s.tracker.Snapshot()
}

func (s *StatusService) Queue() []application.QueuedPayout {
	return s.queue.Snapshot()
}

func (s *StatusService) QueueLength() QueueLength {
	total := s.queue.Len()
	eligible := s.queue.EligibleCount()

	return QueueLength{
		Total:             total,
		Eligible:          eligible,
		Processing:        max(total-eligible, 0),
		TickRunning:       s.ticks.Running(),
		ClaimsAccepted:    s.claims.Accepted(),
		TxsPerLedger:      s.txsPerLedger,
		TickPeriodSeconds: s.tickPeriod.Seconds(),
		ETASeconds:        EstimateWait(total, s.txsPerLedger, s.tickPeriod),
	}
}
