package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/config"
	"github.com/trustline-faucet/faucet/internal/domain"
	"github.com/trustline-faucet/faucet/internal/infrastructure/memory"
	"github.com/trustline-faucet/faucet/internal/worker"
)

const (
	faucet   = "rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY"
	issuer   = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	claimant = "rABCDEFGHJKLMNPQRSTUVWXYZabcdefgh"
)

type fakeConn struct {
	sequence    uint32
	balance     decimal.Decimal
	ledgerIndex uint32
	engine      func(blob string) string

	mu      sync.Mutex
	blobs   []string
	closed  bool
	queries atomic.Int32
}

func (c *fakeConn) AccountInfo(ctx context.Context, account string) (*domain.AccountInfo, error) {
	c.queries.Add(1)
	return &domain.AccountInfo{Exists: true, Sequence: c.sequence}, nil
}

func (c *fakeConn) AccountLines(ctx context.Context, account string) ([]domain.TrustLine, error) {
	return nil, nil
}

func (c *fakeConn) GatewayBalances(ctx context.Context, account string) (*application.GatewayBalances, error) {
	c.queries.Add(1)
	return &application.GatewayBalances{Assets: map[string][]application.Asset{
		issuer: {{Currency: "USD", Value: c.balance}},
	}}, nil
}

func (c *fakeConn) LedgerCurrent(ctx context.Context) (uint32, error) {
	c.queries.Add(1)
	return c.ledgerIndex, nil
}

func (c *fakeConn) Submit(ctx context.Context, blob string) (*application.SubmitResponse, error) {
	c.mu.Lock()
	c.blobs = append(c.blobs, blob)
	c.mu.Unlock()

	engine := "tesSUCCESS"
	if c.engine != nil {
		engine = c.engine(blob)
	}
	if engine == "" {
		return nil, errors.New("connection reset")
	}
	return &application.SubmitResponse{
		EngineResult: engine,
		TxHash:       "HASH-" + blob,
		Accepted:     engine == "tesSUCCESS",
	}, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) Blobs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.blobs...)
}

type fakeDialer struct {
	conn  *fakeConn
	err   error
	dials atomic.Int32
}

func (d *fakeDialer) Dial(ctx context.Context) (application.LedgerConn, error) {
	d.dials.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

type fakeSigner struct {
	mu    sync.Mutex
	txs   []domain.PaymentTransaction
	hook  func(tx domain.PaymentTransaction) error
	block chan struct{}
}

func (s *fakeSigner) Sign(ctx context.Context, tx domain.PaymentTransaction) (*domain.SignedTransaction, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.txs = append(s.txs, tx)
	s.mu.Unlock()

	if s.hook != nil {
		if err := s.hook(tx); err != nil {
			return nil, err
		}
	}
	blob := fmt.Sprintf("blob-%d", tx.Sequence)
	return &domain.SignedTransaction{ID: "ID-" + blob, Blob: blob}, nil
}

func (s *fakeSigner) Sequences() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint32, 0, len(s.txs))
	for _, tx := range s.txs {
		out = append(out, tx.Sequence)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type fakeJournal struct {
	mu      sync.Mutex
	records []domain.PayoutRequest
}

func (j *fakeJournal) Record(ctx context.Context, req domain.PayoutRequest) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, req)
	return nil
}

type schedulerFixture struct {
	queue     *memory.PayoutQueue
	tracker   *memory.ActivityTracker
	conn      *fakeConn
	dialer    *fakeDialer
	signer    *fakeSigner
	journal   *fakeJournal
	scheduler *worker.BatchScheduler
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()

	delays := memory.NewDelayQueue()
	t.Cleanup(delays.Close)

	f := &schedulerFixture{
		queue:   memory.NewPayoutQueue(time.Minute, delays),
		tracker: memory.NewActivityTracker(time.Minute),
		conn: &fakeConn{
			sequence:    100,
			balance:     decimal.NewFromInt(1000),
			ledgerIndex: 5000,
		},
		signer:  &fakeSigner{},
		journal: &fakeJournal{},
	}
	t.Cleanup(f.tracker.Close)
	f.dialer = &fakeDialer{conn: f.conn}
	f.scheduler = worker.NewBatchScheduler(
		f.queue,
		f.tracker,
		f.dialer,
		f.signer,
		domain.TransactionTemplate{
			Faucet:     faucet,
			Issuer:     issuer,
			Token:      "USD",
			FeeDrops:   20,
			MaxLedgers: 10,
		},
		config.SchedulerConfig{
			TickPeriod:   time.Second,
			TickTimeout:  5 * time.Second,
			TxsPerLedger: 5,
			ForceExpire:  time.Minute,
		},
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		worker.WithJournal(f.journal),
	)
	return f
}

func (f *schedulerFixture) enqueue(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := range n {
		id := fmt.Sprintf("%s_%d", claimant, i+1)
		f.tracker.Record(id, domain.Preview{ClaimID: id, Account: claimant})
		require.NoError(t, f.queue.Enqueue(domain.NewPayoutRequest(id, claimant, decimal.NewFromInt(1), time.Now())))
		ids = append(ids, id)
	}
	return ids
}

func TestBatchScheduler_Tick(t *testing.T) {
	t.Run("drains at most txs_per_ledger oldest first with contiguous sequences", func(t *testing.T) {
		f := newSchedulerFixture(t)
		ids := f.enqueue(t, 7)

		report, err := f.scheduler.Tick(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 5, report.Drained)
		assert.Equal(t, 5, report.Accepted)
		assert.Equal(t, 0, report.Failed)
		assert.Equal(t, []uint32{100, 101, 102, 103, 104}, f.signer.Sequences())

		remaining := f.queue.Snapshot()
		require.Len(t, remaining, 2)
		assert.Equal(t, ids[5], remaining[0].ClaimID)
		assert.Equal(t, ids[6], remaining[1].ClaimID)
		assert.False(t, remaining[0].Processing)

		activity := f.tracker.Snapshot()
		for _, id := range ids[:5] {
			require.NotNil(t, activity[id].SubmitResult, id)
			assert.True(t, activity[id].SubmitResult.Accepted)
			assert.Equal(t, "tesSUCCESS", activity[id].SubmitResult.EngineResult)
		}
		assert.Nil(t, activity[ids[5]].SubmitResult)
		assert.True(t, f.conn.closed)
		assert.False(t, f.scheduler.Running())
	})

	t.Run("second tick continues from the next sequence", func(t *testing.T) {
		f := newSchedulerFixture(t)
		f.enqueue(t, 7)

		_, err := f.scheduler.Tick(context.Background())
		require.NoError(t, err)

		f.conn.sequence = 105
		report, err := f.scheduler.Tick(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, report.Drained)
		assert.Equal(t, []uint32{100, 101, 102, 103, 104, 105, 106}, f.signer.Sequences())
		assert.Equal(t, 0, f.queue.Len())
	})

	t.Run("composes payment from the tick snapshot", func(t *testing.T) {
		f := newSchedulerFixture(t)
		f.enqueue(t, 1)

		_, err := f.scheduler.Tick(context.Background())
		require.NoError(t, err)

		require.Len(t, f.signer.txs, 1)
		tx := f.signer.txs[0]
		assert.Equal(t, faucet, tx.Account)
		assert.Equal(t, claimant, tx.Destination)
		assert.Equal(t, "20", tx.Fee)
		assert.Equal(t, uint32(5010), tx.LastLedgerSequence)
		assert.Equal(t, issuer, tx.Amount.Issuer)
		assert.Equal(t, []string{"blob-100"}, f.conn.Blobs())
	})

	t.Run("empty queue does not touch the ledger", func(t *testing.T) {
		f := newSchedulerFixture(t)

		report, err := f.scheduler.Tick(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, report.Drained)
		assert.Equal(t, int32(0), f.dialer.dials.Load())
	})

	t.Run("exhausted faucet aborts before draining", func(t *testing.T) {
		f := newSchedulerFixture(t)
		f.conn.balance = decimal.Zero
		f.enqueue(t, 3)

		report, err := f.scheduler.Tick(context.Background())

		assert.Nil(t, report)
		assert.ErrorIs(t, err, worker.ErrFaucetExhausted)
		assert.Equal(t, 3, f.queue.EligibleCount())
		assert.Equal(t, 3, f.queue.Len())
		assert.Empty(t, f.signer.Sequences())
		assert.False(t, f.scheduler.Running())
	})

	t.Run("dial failure leaves the queue untouched", func(t *testing.T) {
		f := newSchedulerFixture(t)
		f.dialer.err = errors.New("connection refused")
		f.enqueue(t, 2)

		_, err := f.scheduler.Tick(context.Background())

		require.Error(t, err)
		assert.Equal(t, 2, f.queue.EligibleCount())
	})

	t.Run("one failed item does not stop its siblings", func(t *testing.T) {
		f := newSchedulerFixture(t)
		f.signer.hook = func(tx domain.PaymentTransaction) error {
			if tx.Sequence == 101 {
				return errors.New("bad secret")
			}
			return nil
		}
		f.conn.engine = func(blob string) string {
			if blob == "blob-103" {
				return "tecPATH_DRY"
			}
			if blob == "blob-104" {
				return ""
			}
			return "tesSUCCESS"
		}
		ids := f.enqueue(t, 5)

		report, err := f.scheduler.Tick(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, report.Accepted)
		assert.Equal(t, 3, report.Failed)
		assert.Equal(t, 0, f.queue.Len())

		activity := f.tracker.Snapshot()
		assert.Contains(t, activity[ids[1]].SubmitResult.Error, "bad secret")
		assert.Equal(t, "tecPATH_DRY", activity[ids[3]].SubmitResult.EngineResult)
		assert.False(t, activity[ids[3]].SubmitResult.Accepted)
		assert.Contains(t, activity[ids[4]].SubmitResult.Error, "connection reset")
		assert.Len(t, f.journal.records, 5)
	})

	t.Run("panicking item is recovered and removed", func(t *testing.T) {
		f := newSchedulerFixture(t)
		f.signer.hook = func(tx domain.PaymentTransaction) error {
			if tx.Sequence == 100 {
				panic("boom")
			}
			return nil
		}
		f.enqueue(t, 3)

		report, err := f.scheduler.Tick(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, report.Accepted)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, 0, f.queue.Len())
		assert.False(t, f.scheduler.Running())
	})
}

func TestBatchScheduler_NoOverlappingTicks(t *testing.T) {
	f := newSchedulerFixture(t)
	f.signer.block = make(chan struct{})
	f.enqueue(t, 2)

	done := make(chan error, 1)
	go func() {
		_, err := f.scheduler.Tick(context.Background())
		done <- err
	}()

	require.Eventually(t, f.scheduler.Running, time.Second, time.Millisecond)

	_, err := f.scheduler.Tick(context.Background())
	assert.ErrorIs(t, err, worker.ErrTickInProgress)

	close(f.signer.block)
	require.NoError(t, <-done)
	assert.False(t, f.scheduler.Running())
	assert.Equal(t, int32(1), f.dialer.dials.Load())
}

func TestBatchScheduler_Start(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a real tick")
	}

	f := newSchedulerFixture(t)
	f.enqueue(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- f.scheduler.Start(ctx) }()

	require.Eventually(t, func() bool { return f.queue.Len() == 0 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
