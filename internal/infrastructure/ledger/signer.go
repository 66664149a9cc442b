package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Peersyst/xrpl-go/xrpl/transaction"
	"github.com/Peersyst/xrpl-go/xrpl/transaction/types"
	"github.com/Peersyst/xrpl-go/xrpl/wallet"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/domain"
)

var (
	ErrWalletMismatch = errors.New("signing seed does not derive the faucet account")
	errEmptySignature = errors.New("signer produced an empty blob")
)

// WalletSigner signs payments in-process with a key derived from the faucet
// seed. The seed never leaves the process.
type WalletSigner struct {
	address string
	sign    func(tx map[string]interface{}) (string, string, error)
}

var _ application.Signer = (*WalletSigner)(nil)

// NewWalletSigner derives the key pair from seed and checks that it controls account.
func NewWalletSigner(seed, account string) (*WalletSigner, error) {
	w, err := wallet.FromSeed(seed, "")
	if err != nil {
		return nil, fmt.Errorf("derive wallet from seed: %w", err)
	}
	if string(w.ClassicAddress) != account {
		return nil, fmt.Errorf("%w: derived %s, configured %s", ErrWalletMismatch, w.ClassicAddress, account)
	}
	return &WalletSigner{address: account, sign: w.Sign}, nil
}

// Address is the classic address of the signing key.
func (s *WalletSigner) Address() string {
	return s.address
}

func (s *WalletSigner) Sign(_ context.Context, tx domain.PaymentTransaction) (*domain.SignedTransaction, error) {
	if tx.Account != s.address {
		return nil, fmt.Errorf("sign sequence %d for %s: %w", tx.Sequence, tx.Account, ErrWalletMismatch)
	}

	payment, err := toWirePayment(tx)
	if err != nil {
		return nil, fmt.Errorf("sign sequence %d: %w", tx.Sequence, err)
	}

	blob, hash, err := s.sign(payment.Flatten())
	if err != nil {
		return nil, fmt.Errorf("sign sequence %d: %w", tx.Sequence, err)
	}
	if blob == "" {
		return nil, fmt.Errorf("sign sequence %d: %w", tx.Sequence, errEmptySignature)
	}
	return &domain.SignedTransaction{ID: hash, Blob: blob}, nil
}

func toWirePayment(tx domain.PaymentTransaction) (*transaction.Payment, error) {
	fee, err := strconv.ParseUint(tx.Fee, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("fee %q: %w", tx.Fee, err)
	}

	payment := &transaction.Payment{
		BaseTx: transaction.BaseTx{
			Account:            types.Address(tx.Account),
			Fee:                types.XRPCurrencyAmount(fee),
			Sequence:           tx.Sequence,
			LastLedgerSequence: tx.LastLedgerSequence,
		},
		Destination: types.Address(tx.Destination),
		Amount: types.IssuedCurrencyAmount{
			Issuer:   types.Address(tx.Amount.Issuer),
			Currency: tx.Amount.Currency,
			Value:    tx.Amount.Value,
		},
	}
	for _, m := range tx.Memos {
		payment.Memos = append(payment.Memos, types.MemoWrapper{
			Memo: types.Memo{MemoData: m.Memo.MemoData},
		})
	}
	return payment, nil
}
