package domain

import (
	"encoding/hex"
	"strconv"
	"strings"
)

const TransactionTypePayment = "Payment"

// IssuedAmount is a non-native token amount.
type IssuedAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

type Memo struct {
	MemoData string `json:"MemoData"`
}

type MemoWrapper struct {
	Memo Memo `json:"Memo"`
}

// PaymentTransaction is the unsigned transaction handed to the signer.
type PaymentTransaction struct {
	TransactionType    string        `json:"TransactionType"`
	Account            string        `json:"Account"`
	Destination        string        `json:"Destination"`
	Amount             IssuedAmount  `json:"Amount"`
	Fee                string        `json:"Fee"`
	Sequence           uint32        `json:"Sequence"`
	LastLedgerSequence uint32        `json:"LastLedgerSequence"`
	Memos              []MemoWrapper `json:"Memos,omitempty"`
}

// SignedTransaction is what the signer returns.
type SignedTransaction struct {
	ID   string
	Blob string
}

// TransactionTemplate carries the parts of a payout that are the same for every claim.
type TransactionTemplate struct {
	Faucet     string
	Issuer     string
	Token      string
	FeeDrops   int64
	MaxLedgers uint32
	Memo       string
}

// NewPaymentTransaction composes the payment for one drained claim.
func (t TransactionTemplate) NewPaymentTransaction(req *PayoutRequest, snapshot FaucetSnapshot) PaymentTransaction {
	tx := PaymentTransaction{
		TransactionType: TransactionTypePayment,
		Account:         t.Faucet,
		Destination:     req.Account.String(),
		Amount: IssuedAmount{
			Currency: t.Token,
			Issuer:   t.Issuer,
			Value:    req.Amount.String(),
		},
		Fee:                strconv.FormatInt(t.FeeDrops, 10),
		Sequence:           req.Sequence,
		LastLedgerSequence: snapshot.LedgerIndex + t.MaxLedgers,
	}

	if memo := EncodeMemo(t.Memo); memo != "" {
		tx.Memos = []MemoWrapper{{Memo: Memo{MemoData: memo}}}
	}

	return tx
}

// EncodeMemo trims the memo text and hex-encodes it upper-case. Empty input yields "".
func EncodeMemo(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	return strings.ToUpper(hex.EncodeToString([]byte(trimmed)))
}
