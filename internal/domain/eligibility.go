package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountInfo is the subset of account_info the faucet needs.
type AccountInfo struct {
	Exists   bool
	Sequence uint32
}

// TrustLine is one entry of account_lines, seen from the queried account.
type TrustLine struct {
	Counterparty string
	Currency     string
	Balance      decimal.Decimal
	Limit        decimal.Decimal
}

// EligibilityInput bundles a claim with the ledger state it is judged against.
type EligibilityInput struct {
	ClaimID string
	Account AccountAddress
	Amount  decimal.Decimal
	Info    AccountInfo
	Lines   []TrustLine
	Issuer  string
	Token   string
	Now     time.Time
}

// EvaluateEligibility applies the claim rules in order and stops at the first failure.
func EvaluateEligibility(in EligibilityInput) (Preview, error) {
	if !in.Info.Exists {
		return Preview{}, NewAccountNotActivatedError(in.Account.String())
	}

	if len(in.Lines) == 0 {
		return Preview{}, NewNoTrustLinesError(in.Account.String())
	}

	line, ok := findTrustLine(in.Lines, in.Issuer, in.Token)
	if !ok {
		return Preview{}, NewMissingTrustLineError(in.Token, in.Issuer)
	}

	if line.Limit.IsZero() {
		return Preview{}, NewTrustLineLimitZeroError(in.Token, in.Issuer)
	}

	if line.Balance.Add(in.Amount).GreaterThan(line.Limit) {
		return Preview{}, NewTrustLineLimitExceededError(in.Token, line.Limit, line.Balance, in.Amount)
	}

	return Preview{
		ClaimID:     in.ClaimID,
		Account:     in.Account,
		Amount:      in.Amount,
		Balance:     line.Balance,
		Token:       in.Token,
		Issuer:      in.Issuer,
		RequestedAt: in.Now,
	}, nil
}

func findTrustLine(lines []TrustLine, issuer, token string) (TrustLine, bool) {
	for _, line := range lines {
		if line.Counterparty == issuer && line.Currency == token {
			return line, true
		}
	}
	return TrustLine{}, false
}
