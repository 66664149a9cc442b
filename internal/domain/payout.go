// Package domain holds the faucet's claim, eligibility and transaction types.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutRequest is a single accepted claim. The scheduler fills in the
// transaction fields once the claim is drained into a batch.
type PayoutRequest struct {
	ClaimID   string
	Account   AccountAddress
	Amount    decimal.Decimal
	CreatedAt time.Time

	Sequence     uint32
	TxHash       string
	SignedBlob   string
	SubmitResult *SubmitResult
}

func NewPayoutRequest(claimID string, account AccountAddress, amount decimal.Decimal, now time.Time) *PayoutRequest {
	return &PayoutRequest{
		ClaimID:   claimID,
		Account:   account,
		Amount:    amount,
		CreatedAt: now,
	}
}

// Preview is echoed to the caller when a claim is accepted and kept for audit.
type Preview struct {
	ClaimID     string          `json:"claim_id"`
	Account     AccountAddress  `json:"account"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Token       string          `json:"token"`
	Issuer      string          `json:"issuer"`
	RequestedAt time.Time       `json:"requested_at"`
}

// SubmitResult is what the ledger answered for one submitted payout.
type SubmitResult struct {
	TxHash              string    `json:"tx_hash,omitempty"`
	Sequence            uint32    `json:"sequence"`
	EngineResult        string    `json:"engine_result,omitempty"`
	EngineResultMessage string    `json:"engine_result_message,omitempty"`
	Accepted            bool      `json:"accepted"`
	Error               string    `json:"error,omitempty"`
	SubmittedAt         time.Time `json:"submitted_at"`
}

// FaucetSnapshot is read once per tick and shared by every item in the batch.
type FaucetSnapshot struct {
	Sequence    uint32          `json:"sequence"`
	Balance     decimal.Decimal `json:"balance"`
	LedgerIndex uint32          `json:"ledger_index"`
}

// Exhausted reports whether the faucet holds none of the configured token.
func (s FaucetSnapshot) Exhausted() bool {
	return !s.Balance.IsPositive()
}
