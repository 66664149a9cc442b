package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustline-faucet/faucet/internal/domain"
)

func TestTransactionTemplate_NewPaymentTransaction(t *testing.T) {
	template := domain.TransactionTemplate{
		Faucet:     "rFaucetHJKLMNPQRSTUVWXYZabcd",
		Issuer:     testIssuer,
		Token:      testToken,
		FeeDrops:   20,
		MaxLedgers: 10,
	}
	req := domain.NewPayoutRequest("claim-1", testAccount, decimal.RequireFromString("12.5"), time.Now())
	req.Sequence = 101

	t.Run("composes a payment from the claim and snapshot", func(t *testing.T) {
		tx := template.NewPaymentTransaction(req, domain.FaucetSnapshot{LedgerIndex: 5000})

		assert.Equal(t, domain.TransactionTypePayment, tx.TransactionType)
		assert.Equal(t, template.Faucet, tx.Account)
		assert.Equal(t, testAccount.String(), tx.Destination)
		assert.Equal(t, domain.IssuedAmount{Currency: testToken, Issuer: testIssuer, Value: "12.5"}, tx.Amount)
		assert.Equal(t, "20", tx.Fee)
		assert.Equal(t, uint32(101), tx.Sequence)
		assert.Equal(t, uint32(5010), tx.LastLedgerSequence)
		assert.Empty(t, tx.Memos)
	})

	t.Run("attaches the memo identically to every transaction", func(t *testing.T) {
		withMemo := template
		withMemo.Memo = "  hello  "

		tx := withMemo.NewPaymentTransaction(req, domain.FaucetSnapshot{LedgerIndex: 1})

		require.Len(t, tx.Memos, 1)
		assert.Equal(t, "68656C6C6F", tx.Memos[0].Memo.MemoData)
	})

	t.Run("serialises with ledger field names", func(t *testing.T) {
		tx := template.NewPaymentTransaction(req, domain.FaucetSnapshot{LedgerIndex: 1})

		raw, err := json.Marshal(tx)
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(raw, &fields))
		assert.Equal(t, "Payment", fields["TransactionType"])
		assert.EqualValues(t, 11, fields["LastLedgerSequence"])
		assert.NotContains(t, fields, "Memos")
	})
}

func TestEncodeMemo(t *testing.T) {
	assert.Equal(t, "", domain.EncodeMemo("   "))
	assert.Equal(t, "464155434554", domain.EncodeMemo("FAUCET"))
}
