package application

import (
	"context"

	"github.com/trustline-faucet/faucet/internal/domain"
)

// LedgerGateway is the port for point-in-time ledger queries and submission.
type LedgerGateway interface {
	AccountInfo(ctx context.Context, account string) (*domain.AccountInfo, error)
	AccountLines(ctx context.Context, account string) ([]domain.TrustLine, error)
	GatewayBalances(ctx context.Context, account string) (*GatewayBalances, error)
	LedgerCurrent(ctx context.Context) (uint32, error)
	Submit(ctx context.Context, signedBlob string) (*SubmitResponse, error)
}

// LedgerConn is a gateway bound to one connection. The scheduler opens one per tick.
type LedgerConn interface {
	LedgerGateway
	Close() error
}

type LedgerDialer interface {
	Dial(ctx context.Context) (LedgerConn, error)
}

// Signer turns a composed payment into a transaction id and signed wire payload.
type Signer interface {
	Sign(ctx context.Context, tx domain.PaymentTransaction) (*domain.SignedTransaction, error)
}

// SubmissionJournal keeps an append-only record of submission outcomes.
type SubmissionJournal interface {
	Record(ctx context.Context, req domain.PayoutRequest) error
}

// ActivityTracker suppresses repeat claims and keeps an audit view of recent ones.
type ActivityTracker interface {
	IsAccountBusy(account domain.AccountAddress) bool
	Reserve(claimID string, preview domain.Preview) bool
	Record(claimID string, preview domain.Preview)
	AttachResult(claimID string, result domain.SubmitResult) bool
	Forget(claimID string)
	Snapshot() map[string]ActivityView
}

// PayoutQueue holds accepted claims until the scheduler drains them.
type PayoutQueue interface {
	Enqueue(req *domain.PayoutRequest) error
	DrainEligible(limit int) []domain.PayoutRequest
	Update(claimID string, mutate func(*domain.PayoutRequest)) bool
	Complete(claimID string) bool
	EligibleCount() int
	Len() int
	Snapshot() []QueuedPayout
}

type ClaimIDGenerator interface {
	Next(account domain.AccountAddress) string
}
