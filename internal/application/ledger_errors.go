package application

import (
	"errors"
	"fmt"
)

// LedgerError is an error status returned by the ledger node for a request.
type LedgerError struct {
	Code    string
	Message string
	Command string
}

func (e *LedgerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ledger error [%s] on %s", e.Code, e.Command)
	}
	return fmt.Sprintf("ledger error [%s] on %s: %s", e.Code, e.Command, e.Message)
}

// Error tokens the faucet reacts to.
const (
	LedgerCodeAccountNotFound = "actNotFound"
	LedgerCodeAccountMalform  = "actMalformed"
	LedgerCodeInvalidParams   = "invalidParams"
	LedgerCodeTooBusy         = "tooBusy"
	LedgerCodeSlowDown        = "slowDown"
	LedgerCodeNoNetwork       = "noNetwork"
	LedgerCodeNoCurrent       = "noCurrent"
	LedgerCodeNoClosed        = "noClosed"
	LedgerCodeNotSynced       = "notSynced"
	LedgerCodeInternal        = "internal"
)

// ErrConnectionClosed is returned for requests in flight when the connection drops.
var ErrConnectionClosed = errors.New("ledger connection closed")

func IsLedgerError(err error) (*LedgerError, bool) {
	var ledgerErr *LedgerError
	ok := errors.As(err, &ledgerErr)
	return ledgerErr, ok
}

// IsAccountNotFound reports whether the node said the account does not exist.
func IsAccountNotFound(err error) bool {
	ledgerErr, ok := IsLedgerError(err)
	return ok && ledgerErr.Code == LedgerCodeAccountNotFound
}
