package memory

import (
	"fmt"
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/domain"
)

// QueueEntry wraps a pending payout. Processing flips to true exactly once,
// when the scheduler drains the entry, and is never reset.
type QueueEntry struct {
	Request       *domain.PayoutRequest
	Processing    bool
	ForceExpireAt time.Time
}

// PayoutQueue is an insertion-ordered map from claim id to pending payout.
type PayoutQueue struct {
	mu          sync.Mutex
	entries     *orderedmap.OrderedMap[string, *QueueEntry]
	forceExpire time.Duration
	expiry      *DelayQueue
	now         func() time.Time
	onExpire    func(claimID string)
}

var _ application.PayoutQueue = (*PayoutQueue)(nil)

// expiryKey namespaces the queue's tasks on a DelayQueue that may be shared.
func expiryKey(claimID string) string {
	return "payout:" + claimID
}

// NewPayoutQueue builds a queue whose entries are removed unconditionally
// forceExpire after they were enqueued.
func NewPayoutQueue(forceExpire time.Duration, expiry *DelayQueue) *PayoutQueue {
	return &PayoutQueue{
		entries:     orderedmap.New[string, *QueueEntry](),
		forceExpire: forceExpire,
		expiry:      expiry,
		now:         time.Now,
	}
}

// OnForcedExpiry registers a hook called after an entry is dropped by its deadline.
func (q *PayoutQueue) OnForcedExpiry(fn func(claimID string)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onExpire = fn
}

func (q *PayoutQueue) Enqueue(req *domain.PayoutRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.entries.Get(req.ClaimID); exists {
		return fmt.Errorf("claim %s already queued", req.ClaimID)
	}

	deadline := q.now().Add(q.forceExpire)
	q.entries.Set(req.ClaimID, &QueueEntry{
		Request:       req,
		ForceExpireAt: deadline,
	})

	claimID := req.ClaimID
	q.expiry.Schedule(expiryKey(claimID), deadline, func() {
		q.forceRemove(claimID)
	})
	return nil
}

// DrainEligible marks up to limit non-processing entries as processing, oldest
// first, and returns copies of their requests.
func (q *PayoutQueue) DrainEligible(limit int) []domain.PayoutRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	if limit <= 0 {
		return nil
	}

	out := make([]domain.PayoutRequest, 0, limit)
	for pair := q.entries.Oldest(); pair != nil && len(out) < limit; pair = pair.Next() {
		entry := pair.Value
		if entry.Processing {
			continue
		}
		entry.Processing = true
		out = append(out, *entry.Request)
	}
	return out
}

// Update applies mutate to the queued request under the queue lock.
func (q *PayoutQueue) Update(claimID string, mutate func(*domain.PayoutRequest)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry, ok := q.entries.Get(claimID)
	if !ok {
		return false
	}
	mutate(entry.Request)
	return true
}

// Complete removes a finished entry and cancels its forced expiry.
func (q *PayoutQueue) Complete(claimID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.entries.Delete(claimID); !ok {
		return false
	}
	q.expiry.Cancel(expiryKey(claimID))
	return true
}

func (q *PayoutQueue) forceRemove(claimID string) {
	q.mu.Lock()
	_, removed := q.entries.Delete(claimID)
	hook := q.onExpire
	q.mu.Unlock()

	if removed && hook != nil {
		hook(claimID)
	}
}

func (q *PayoutQueue) EligibleCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	for pair := q.entries.Oldest(); pair != nil; pair = pair.Next() {
		if !pair.Value.Processing {
			count++
		}
	}
	return count
}

func (q *PayoutQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.entries.Len()
}

func (q *PayoutQueue) Snapshot() []application.QueuedPayout {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]application.QueuedPayout, 0, q.entries.Len())
	for pair := q.entries.Oldest(); pair != nil; pair = pair.Next() {
		entry := pair.Value
		out = append(out, application.QueuedPayout{
			ClaimID:       entry.Request.ClaimID,
			Account:       entry.Request.Account,
			Amount:        entry.Request.Amount,
			CreatedAt:     entry.Request.CreatedAt,
			Processing:    entry.Processing,
			ForceExpireAt: entry.ForceExpireAt,
			Sequence:      entry.Request.Sequence,
			TxHash:        entry.Request.TxHash,
		})
	}
	return out
}
