package application_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/domain"
)

func TestCategorizeError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want application.ErrorCategory
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, application.CategoryTransient},
		{"closed connection", fmt.Errorf("read: %w", application.ErrConnectionClosed), application.CategoryTransient},
		{"busy node", &application.LedgerError{Code: application.LedgerCodeTooBusy}, application.CategoryTransient},
		{"unknown account", &application.LedgerError{Code: application.LedgerCodeAccountNotFound}, application.CategoryClientError},
		{"unknown ledger code", &application.LedgerError{Code: "badSecret"}, application.CategoryPermanent},
		{"eligibility rule", domain.NewNoTrustLinesError("rX"), application.CategoryBusinessRule},
		{"bad input", domain.NewInvalidAmountError("x"), application.CategoryClientError},
		{"internal", application.NewInternalError(errors.New("boom")), application.CategoryInfrastructure},
		{"transport", errors.New("dial tcp: refused"), application.CategoryTransient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, application.CategorizeError(tc.err))
		})
	}
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, application.ToHTTPStatus(nil))
	assert.Equal(t, http.StatusBadRequest, application.ToHTTPStatus(domain.NewInvalidAccountError("x")))
	assert.Equal(t, http.StatusTooManyRequests, application.ToHTTPStatus(domain.NewAccountBusyError("USD")))
	assert.Equal(t, http.StatusUnprocessableEntity, application.ToHTTPStatus(domain.NewMissingTrustLineError("USD", "rI")))
	assert.Equal(t, http.StatusServiceUnavailable, application.ToHTTPStatus(application.NewLedgerUnavailableError(errors.New("down"))))
	assert.Equal(t, http.StatusServiceUnavailable, application.ToHTTPStatus(&application.LedgerError{Code: "noNetwork"}))
	assert.Equal(t, http.StatusInternalServerError, application.ToHTTPStatus(errors.New("boom")))
}

func TestToErrorCode(t *testing.T) {
	assert.Equal(t, domain.ErrCodeTrustLineLimitZero, application.ToErrorCode(domain.NewTrustLineLimitZeroError("USD", "rI")))
	assert.Equal(t, application.ErrCodeLedgerUnavailable, application.ToErrorCode(&application.LedgerError{Code: "tooBusy"}))
	assert.Equal(t, application.ErrCodeTimeout, application.ToErrorCode(fmt.Errorf("wrap: %w", context.DeadlineExceeded)))
	assert.Equal(t, application.ErrCodeInternal, application.ToErrorCode(errors.New("boom")))
}
