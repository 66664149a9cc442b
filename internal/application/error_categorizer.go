package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/trustline-faucet/faucet/internal/domain"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	if errors.Is(err, ErrConnectionClosed) {
		return CategoryTransient
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeInvalidAccount, domain.ErrCodeInvalidAmount:
			return CategoryClientError
		default:
			return CategoryBusinessRule
		}
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput, ErrCodeRateLimited, ErrCodeNotFound:
			return CategoryClientError
		case ErrCodeInternal:
			return CategoryInfrastructure
		case ErrCodeLedgerUnavailable, ErrCodeTimeout:
			return CategoryTransient
		}
	}

	if ledgerErr, ok := IsLedgerError(err); ok {
		switch ledgerErr.Code {
		case LedgerCodeTooBusy, LedgerCodeSlowDown, LedgerCodeNoNetwork,
			LedgerCodeNoCurrent, LedgerCodeNoClosed, LedgerCodeNotSynced, LedgerCodeInternal:
			return CategoryTransient
		case LedgerCodeAccountNotFound, LedgerCodeAccountMalform, LedgerCodeInvalidParams:
			return CategoryClientError
		default:
			return CategoryPermanent
		}
	}

	// Transport failures are safe to retry for queries.
	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	category := CategorizeError(err)
	return category == CategoryTransient || category == CategoryInfrastructure
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeInvalidAccount, domain.ErrCodeInvalidAmount:
			return http.StatusBadRequest
		case domain.ErrCodeAccountBusy:
			return http.StatusTooManyRequests
		default:
			return http.StatusUnprocessableEntity
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	}

	if _, ok := IsLedgerError(err); ok {
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	if _, ok := IsLedgerError(err); ok {
		return ErrCodeLedgerUnavailable
	}

	return ErrCodeInternal
}

// ToErrorDetails returns structured details attached to a domain error, if any.
func ToErrorDetails(err error) map[string]string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}
