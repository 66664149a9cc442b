package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/domain"
)

// activityEntry is one recently accepted (or reserved) claim.
type activityEntry struct {
	preview domain.Preview
	result  *domain.SubmitResult
}

type activityItem = ttlcache.Item[string, activityEntry]

// ActivityTracker is a TTL-bounded cache of recent claims keyed by claim id.
// Expired entries stop counting immediately and are evicted by the cache's own loop.
type ActivityTracker struct {
	mu    sync.Mutex
	cache *ttlcache.Cache[string, activityEntry]
	ttl   time.Duration
	stop  sync.Once
}

var _ application.ActivityTracker = (*ActivityTracker)(nil)

func NewActivityTracker(ttl time.Duration) *ActivityTracker {
	cache := ttlcache.New[string, activityEntry](
		ttlcache.WithTTL[string, activityEntry](ttl),
		ttlcache.WithDisableTouchOnHit[string, activityEntry](),
	)
	go cache.Start()

	return &ActivityTracker{cache: cache, ttl: ttl}
}

// Close stops the eviction loop.
func (t *ActivityTracker) Close() {
	t.stop.Do(t.cache.Stop)
}

// AccountFromClaimID strips the optional "_counter" suffix from a claim id.
func AccountFromClaimID(claimID string) domain.AccountAddress {
	account, _, _ := strings.Cut(claimID, "_")
	return domain.AccountAddress(account)
}

func (t *ActivityTracker) IsAccountBusy(account domain.AccountAddress) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busyLocked(account)
}

func (t *ActivityTracker) busyLocked(account domain.AccountAddress) bool {
	busy := false
	t.rangeLive(func(item *activityItem) bool {
		if AccountFromClaimID(item.Key()) == account {
			busy = true
			return false
		}
		return true
	})
	return busy
}

// Reserve inserts the claim only if its account has no live entry.
func (t *ActivityTracker) Reserve(claimID string, preview domain.Preview) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.busyLocked(AccountFromClaimID(claimID)) {
		return false
	}
	t.cache.Set(claimID, activityEntry{preview: preview}, ttlcache.DefaultTTL)
	return true
}

// Record stores the preview for a claim. An existing entry keeps its expiry.
func (t *ActivityTracker) Record(claimID string, preview domain.Preview) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if item := t.cache.Get(claimID); item != nil {
		entry := item.Value()
		entry.preview = preview
		t.replaceLocked(claimID, entry, item.ExpiresAt())
		return
	}
	t.cache.Set(claimID, activityEntry{preview: preview}, ttlcache.DefaultTTL)
}

// AttachResult merges a submission outcome. It is a no-op once the entry expired.
func (t *ActivityTracker) AttachResult(claimID string, result domain.SubmitResult) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	item := t.cache.Get(claimID)
	if item == nil {
		return false
	}
	entry := item.Value()
	entry.result = &result
	return t.replaceLocked(claimID, entry, item.ExpiresAt())
}

// replaceLocked swaps the value of a live entry without moving its deadline.
func (t *ActivityTracker) replaceLocked(claimID string, entry activityEntry, expiresAt time.Time) bool {
	remaining := time.Until(expiresAt)
	if remaining <= 0 {
		t.cache.Delete(claimID)
		return false
	}
	t.cache.Set(claimID, entry, remaining)
	return true
}

func (t *ActivityTracker) Forget(claimID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache.Delete(claimID)
}

// Len counts live entries.
func (t *ActivityTracker) Len() int {
	n := 0
	t.rangeLive(func(*activityItem) bool {
		n++
		return true
	})
	return n
}

func (t *ActivityTracker) Snapshot() map[string]application.ActivityView {
	out := make(map[string]application.ActivityView)
	t.rangeLive(func(item *activityItem) bool {
		entry := item.Value()
		view := application.ActivityView{
			Account:   AccountFromClaimID(item.Key()),
			Preview:   entry.preview,
			ExpiresAt: item.ExpiresAt(),
		}
		if entry.result != nil {
			result := *entry.result
			view.SubmitResult = &result
		}
		out[item.Key()] = view
		return true
	})
	return out
}

// rangeLive visits entries whose TTL has not passed, including those the
// eviction loop has not reached yet.
func (t *ActivityTracker) rangeLive(fn func(item *activityItem) bool) {
	t.cache.Range(func(item *activityItem) bool {
		if item.IsExpired() {
			return true
		}
		return fn(item)
	})
}
