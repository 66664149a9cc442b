package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountAddress is a classic ledger address: "r" followed by base58 characters.
type AccountAddress string

var accountPattern = regexp.MustCompile(`^r[1-9A-HJ-NP-Za-km-z]{24,34}$`)

func NewAccountAddress(raw string) (AccountAddress, error) {
	trimmed := strings.TrimSpace(raw)
	if !accountPattern.MatchString(trimmed) {
		return "", NewInvalidAccountError(raw)
	}
	return AccountAddress(trimmed), nil
}

func (a AccountAddress) String() string {
	return string(a)
}

// maxSignificantDigits mirrors the precision of issued-currency amounts on the ledger.
const maxSignificantDigits = 15

// ParseAmount parses a positive decimal token amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, NewInvalidAmountError(raw)
	}
	if !amount.IsPositive() {
		return decimal.Zero, NewInvalidAmountError(raw)
	}
	if significantDigits(amount) > maxSignificantDigits {
		return decimal.Zero, NewInvalidAmountError(raw)
	}
	return amount, nil
}

func significantDigits(d decimal.Decimal) int {
	digits := strings.TrimLeft(d.Coefficient().String(), "-0")
	digits = strings.TrimRight(digits, "0")
	return len(digits)
}
