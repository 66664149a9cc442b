package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

const upsertSubmission = `
INSERT INTO payout_submissions (
    claim_id, account, amount, sequence, tx_hash, engine_result,
    engine_result_message, accepted, error, requested_at, submitted_at
) VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (claim_id) DO UPDATE SET
    sequence              = EXCLUDED.sequence,
    tx_hash               = EXCLUDED.tx_hash,
    engine_result         = EXCLUDED.engine_result,
    engine_result_message = EXCLUDED.engine_result_message,
    accepted              = EXCLUDED.accepted,
    error                 = EXCLUDED.error,
    submitted_at          = EXCLUDED.submitted_at,
    recorded_at           = NOW()`

// SubmissionJournal records what happened to each drained claim. It is an
// audit trail only; the queue is never rebuilt from it.
type SubmissionJournal struct {
	db Executor
}

var _ application.SubmissionJournal = (*SubmissionJournal)(nil)

func NewSubmissionJournal(db Executor) *SubmissionJournal {
	return &SubmissionJournal{db: db}
}

// EnsureSchema creates the journal table if it does not exist.
func (j *SubmissionJournal) EnsureSchema(ctx context.Context) error {
	if _, err := j.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create journal schema: %w", err)
	}
	return nil
}

func (j *SubmissionJournal) Record(ctx context.Context, req domain.PayoutRequest) error {
	var (
		engineResult, engineMessage, errText *string
		accepted                             bool
		submittedAt                          *time.Time
	)
	txHash := nullable(req.TxHash)

	if res := req.SubmitResult; res != nil {
		engineResult = nullable(res.EngineResult)
		engineMessage = nullable(res.EngineResultMessage)
		errText = nullable(res.Error)
		accepted = res.Accepted
		if res.TxHash != "" {
			txHash = nullable(res.TxHash)
		}
		if !res.SubmittedAt.IsZero() {
			submittedAt = &res.SubmittedAt
		}
	}

	_, err := j.db.Exec(ctx, upsertSubmission,
		req.ClaimID,
		req.Account.String(),
		req.Amount.String(),
		int64(req.Sequence),
		txHash,
		engineResult,
		engineMessage,
		accepted,
		errText,
		req.CreatedAt,
		submittedAt,
	)
	if err != nil {
		return fmt.Errorf("record submission %s: %w", req.ClaimID, err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
