package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a rejected claim. It is reported to the caller and never queued.
type DomainError struct {
	Code    string
	Message string
	Details map[string]string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeAccountNotActivated    = "ACCOUNT_NOT_ACTIVATED"
	ErrCodeNoTrustLines           = "NO_TRUST_LINES"
	ErrCodeMissingTrustLine       = "MISSING_TRUST_LINE"
	ErrCodeTrustLineLimitZero     = "TRUST_LINE_LIMIT_ZERO"
	ErrCodeTrustLineLimitExceeded = "TRUST_LINE_LIMIT_EXCEEDED"
	ErrCodeInvalidAccount         = "INVALID_ACCOUNT"
	ErrCodeInvalidAmount          = "INVALID_AMOUNT"
	ErrCodeAccountBusy            = "ACCOUNT_BUSY"
)

func NewAccountNotActivatedError(account string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAccountNotActivated,
		Message: fmt.Sprintf("account %s doesn't exist (invalid or not activated)", account),
	}
}

func NewNoTrustLinesError(account string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNoTrustLines,
		Message: fmt.Sprintf("account %s doesn't have any trust lines set up", account),
	}
}

func NewMissingTrustLineError(token, issuer string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingTrustLine,
		Message: fmt.Sprintf("account has trust lines, but not one for token %s by issuer %s", token, issuer),
	}
}

func NewTrustLineLimitZeroError(token, issuer string) *DomainError {
	return &DomainError{
		Code:    ErrCodeTrustLineLimitZero,
		Message: fmt.Sprintf("trust line for token %s by issuer %s has limit 0 (zero)", token, issuer),
	}
}

func NewTrustLineLimitExceededError(token string, limit, balance, amount decimal.Decimal) *DomainError {
	return &DomainError{
		Code: ErrCodeTrustLineLimitExceeded,
		Message: fmt.Sprintf(
			"trust line limit (%s) is lower than the current %s balance (%s) + amount to send (%s)",
			limit, token, balance, amount,
		),
		Details: map[string]string{
			"limit":   limit.String(),
			"balance": balance.String(),
			"amount":  amount.String(),
		},
	}
}

func NewInvalidAccountError(account string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAccount,
		Message: fmt.Sprintf("%q is not a valid account address", account),
	}
}

func NewInvalidAmountError(raw string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %q", raw),
	}
}

func NewAccountBusyError(token string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAccountBusy,
		Message: fmt.Sprintf("this account has recently received (or attempted to receive) %s, please wait", token),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
