package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/domain"
)

// EligibilityService reads the claimant's ledger state and applies the claim rules.
type EligibilityService struct {
	ledger application.LedgerGateway
	issuer string
	token  string
	now    func() time.Time
}

func NewEligibilityService(ledger application.LedgerGateway, issuer, token string) *EligibilityService {
	return &EligibilityService{
		ledger: ledger,
		issuer: issuer,
		token:  token,
		now:    time.Now,
	}
}

// Check performs account_info then account_lines and evaluates the claim.
// Trust lines are not fetched for an account that does not exist.
func (s *EligibilityService) Check(ctx context.Context, claimID string, account domain.AccountAddress, amount decimal.Decimal) (domain.Preview, error) {
	in := domain.EligibilityInput{
		ClaimID: claimID,
		Account: account,
		Amount:  amount,
		Issuer:  s.issuer,
		Token:   s.token,
		Now:     s.now(),
	}

	info, err := s.ledger.AccountInfo(ctx, account.String())
	switch {
	case application.IsAccountNotFound(err):
		return domain.EvaluateEligibility(in)
	case err != nil:
		return domain.Preview{}, wrapLedgerError(err)
	}
	in.Info = *info

	lines, err := s.ledger.AccountLines(ctx, account.String())
	if err != nil {
		return domain.Preview{}, wrapLedgerError(err)
	}
	in.Lines = lines

	return domain.EvaluateEligibility(in)
}

func wrapLedgerError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return application.NewTimeoutError()
	}
	return application.NewLedgerUnavailableError(err)
}
