package memory

import (
	"strconv"
	"sync/atomic"

	"github.com/trustline-faucet/faucet/internal/domain"
)

// ClaimCounter hands out claim ids. With disambiguation on, every claim gets
// "account_N" from a process-wide monotonic counter; otherwise the bare account.
type ClaimCounter struct {
	disambiguate bool
	next         atomic.Uint64
}

func NewClaimCounter(disambiguate bool) *ClaimCounter {
	return &ClaimCounter{disambiguate: disambiguate}
}

func (c *ClaimCounter) Next(account domain.AccountAddress) string {
	if !c.disambiguate {
		return account.String()
	}
	n := c.next.Add(1)
	return account.String() + "_" + strconv.FormatUint(n, 10)
}
