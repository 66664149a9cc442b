package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/infrastructure/ledger"
)

const (
	faucetAccount = "rfaucetXXXXXXXXXXXXXXXXXXXXXXXXXX"
	issuerAccount = "rissuerXXXXXXXXXXXXXXXXXXXXXXXXXX"
	userAccount   = "rABCDEFGHJKLMNPQRSTUVWXYZabcdefgh"
)

func openSession(t *testing.T, node *fakeNode) *ledger.Session {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := ledger.Open(ctx, node.URL(), 2*time.Second, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSession_AccountInfo(t *testing.T) {
	t.Run("decodes sequence from account_data", func(t *testing.T) {
		node := newFakeNode(t, func(req map[string]any) nodeReply {
			return nodeReply{Result: map[string]any{
				"account_data": map[string]any{"Account": faucetAccount, "Sequence": 77},
			}}
		})
		s := openSession(t, node)

		info, err := s.AccountInfo(context.Background(), faucetAccount)

		require.NoError(t, err)
		assert.True(t, info.Exists)
		assert.Equal(t, uint32(77), info.Sequence)

		reqs := node.Requests("account_info")
		require.Len(t, reqs, 1)
		assert.Equal(t, faucetAccount, reqs[0]["account"])
		assert.Equal(t, "current", reqs[0]["ledger_index"])
	})

	t.Run("surfaces node error tokens", func(t *testing.T) {
		node := newFakeNode(t, func(req map[string]any) nodeReply {
			return nodeReply{Error: "actNotFound", ErrorMessage: "Account not found."}
		})
		s := openSession(t, node)

		_, err := s.AccountInfo(context.Background(), userAccount)

		require.Error(t, err)
		assert.True(t, application.IsAccountNotFound(err))
		ledgerErr, ok := application.IsLedgerError(err)
		require.True(t, ok)
		assert.Equal(t, "account_info", ledgerErr.Command)
	})
}

func TestSession_AccountLines_FollowsMarker(t *testing.T) {
	node := newFakeNode(t, func(req map[string]any) nodeReply {
		if req["marker"] == nil {
			return nodeReply{Result: map[string]any{
				"lines": []map[string]any{
					{"account": "rOTHER", "currency": "EUR", "balance": "1", "limit": "100"},
				},
				"marker": "page-2",
			}}
		}
		return nodeReply{Result: map[string]any{
			"lines": []map[string]any{
				{"account": issuerAccount, "currency": "USD", "balance": "5", "limit": "10"},
			},
		}}
	})
	s := openSession(t, node)

	lines, err := s.AccountLines(context.Background(), userAccount)

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, issuerAccount, lines[1].Counterparty)
	assert.True(t, decimal.NewFromInt(5).Equal(lines[1].Balance))
	assert.True(t, decimal.NewFromInt(10).Equal(lines[1].Limit))

	reqs := node.Requests("account_lines")
	require.Len(t, reqs, 2)
	assert.Equal(t, "page-2", reqs[1]["marker"])
	for _, req := range reqs {
		assert.Equal(t, "current", req["ledger_index"], "account_lines must read the ledger account_info reads")
	}
}

func TestSession_GatewayBalancesAndLedgerCurrent(t *testing.T) {
	node := newFakeNode(t, func(req map[string]any) nodeReply {
		switch req["command"] {
		case "gateway_balances":
			return nodeReply{Result: map[string]any{
				"assets": map[string]any{
					issuerAccount: []map[string]any{{"currency": "USD", "value": "1234.5"}},
				},
			}}
		case "ledger_current":
			return nodeReply{Result: map[string]any{"ledger_current_index": 9000}}
		}
		return nodeReply{Error: "unknownCmd"}
	})
	s := openSession(t, node)

	balances, err := s.GatewayBalances(context.Background(), faucetAccount)
	require.NoError(t, err)
	holding, ok := balances.Holding(issuerAccount, "USD")
	require.True(t, ok)
	assert.Equal(t, "1234.5", holding.String())

	_, ok = balances.Holding(issuerAccount, "EUR")
	assert.False(t, ok)

	index, err := s.LedgerCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(9000), index)
}

func TestSession_Submit(t *testing.T) {
	tests := []struct {
		engineResult string
		accepted     bool
	}{
		{"tesSUCCESS", true},
		{"terQUEUED", true},
		{"tecPATH_DRY", false},
		{"tefPAST_SEQ", false},
	}

	for _, tt := range tests {
		t.Run(tt.engineResult, func(t *testing.T) {
			node := newFakeNode(t, func(req map[string]any) nodeReply {
				return nodeReply{Result: map[string]any{
					"engine_result":         tt.engineResult,
					"engine_result_code":    0,
					"engine_result_message": "msg",
					"tx_json":               map[string]any{"hash": "ABC123"},
				}}
			})
			s := openSession(t, node)

			resp, err := s.Submit(context.Background(), "DEADBEEF")

			require.NoError(t, err)
			assert.Equal(t, tt.accepted, resp.Accepted)
			assert.Equal(t, "ABC123", resp.TxHash)
			assert.Equal(t, "DEADBEEF", node.Requests("submit")[0]["tx_blob"])
		})
	}
}

func TestSession_ConcurrentRequestsAreMatchedByID(t *testing.T) {
	node := newFakeNode(t, func(req map[string]any) nodeReply {
		return nodeReply{Result: map[string]any{
			"account_data": map[string]any{"Sequence": req["id"]},
		}}
	})
	s := openSession(t, node)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := s.AccountInfo(context.Background(), userAccount)
			if err != nil {
				errs <- err
				return
			}
			if info.Sequence == 0 {
				errs <- errors.New("missing sequence")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Len(t, node.Requests("account_info"), 20)
}

func TestSession_DroppedConnectionFailsPendingRequests(t *testing.T) {
	node := newFakeNode(t, func(req map[string]any) nodeReply {
		return nodeReply{Drop: true}
	})
	s := openSession(t, node)

	_, err := s.LedgerCurrent(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrConnectionClosed)

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session not marked done")
	}

	_, err = s.LedgerCurrent(context.Background())
	assert.ErrorIs(t, err, application.ErrConnectionClosed)
}

func TestClient_RedialsAfterDrop(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	node := newFakeNode(t, func(req map[string]any) nodeReply {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return nodeReply{Drop: true}
		}
		return nodeReply{Result: map[string]any{"ledger_current_index": 42}}
	})

	client := ledger.NewClient(ledger.NewDialer(node.URL(), time.Second, time.Second, discardLogger()), discardLogger())
	t.Cleanup(func() { _ = client.Close() })

	_, err := client.LedgerCurrent(context.Background())
	require.ErrorIs(t, err, application.ErrConnectionClosed)

	index, err := client.LedgerCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(42), index)
	assert.Equal(t, 2, node.Accepts())
}

func TestIsAcceptedResult(t *testing.T) {
	assert.True(t, ledger.IsAcceptedResult("tesSUCCESS"))
	assert.True(t, ledger.IsAcceptedResult("terQUEUED"))
	assert.False(t, ledger.IsAcceptedResult("terPRE_SEQ"))
	assert.False(t, ledger.IsAcceptedResult(""))
}
