package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/trustline-faucet/faucet/internal/domain"
)

// Asset is one issued balance reported by gateway_balances.
type Asset struct {
	Currency string
	Value    decimal.Decimal
}

type GatewayBalances struct {
	Assets map[string][]Asset
}

// Holding returns the balance of (issuer, currency), or zero if not held.
func (g *GatewayBalances) Holding(issuer, currency string) (decimal.Decimal, bool) {
	if g == nil {
		return decimal.Zero, false
	}
	for _, asset := range g.Assets[issuer] {
		if asset.Currency == currency {
			return asset.Value, true
		}
	}
	return decimal.Zero, false
}

type SubmitResponse struct {
	EngineResult        string
	EngineResultCode    int
	EngineResultMessage string
	TxHash              string
	Accepted            bool
}

type ActivityView struct {
	Account      domain.AccountAddress `json:"account"`
	Preview      domain.Preview        `json:"preview"`
	SubmitResult *domain.SubmitResult  `json:"submit,omitempty"`
	ExpiresAt    time.Time             `json:"expires_at"`
}

type QueuedPayout struct {
	ClaimID       string                `json:"claim_id"`
	Account       domain.AccountAddress `json:"account"`
	Amount        decimal.Decimal       `json:"amount"`
	CreatedAt     time.Time             `json:"created_at"`
	Processing    bool                  `json:"processing"`
	ForceExpireAt time.Time             `json:"force_expire_at"`
	Sequence      uint32                `json:"sequence,omitempty"`
	TxHash        string                `json:"tx_hash,omitempty"`
}
