package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/domain"
)

const (
	accountLinesPageSize = 400
	accountLinesMaxPages = 50

	// claimantLedger is the ledger both eligibility queries read, so an account
	// seen by account_info is also visible to account_lines.
	claimantLedger = "current"
)

// Requester sends a single command to a node.
type Requester interface {
	Request(ctx context.Context, command string, params map[string]any, out any) error
}

type accountInfoResult struct {
	AccountData struct {
		Account  string `json:"Account"`
		Sequence uint32 `json:"Sequence"`
	} `json:"account_data"`
}

type trustLineWire struct {
	Account  string          `json:"account"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Limit    decimal.Decimal `json:"limit"`
}

type accountLinesResult struct {
	Lines  []trustLineWire `json:"lines"`
	Marker any             `json:"marker,omitempty"`
}

type gatewayBalancesResult struct {
	Assets map[string][]struct {
		Currency string          `json:"currency"`
		Value    decimal.Decimal `json:"value"`
	} `json:"assets"`
}

type ledgerCurrentResult struct {
	LedgerCurrentIndex uint32 `json:"ledger_current_index"`
}

type submitResult struct {
	EngineResult        string `json:"engine_result"`
	EngineResultCode    int    `json:"engine_result_code"`
	EngineResultMessage string `json:"engine_result_message"`
	TxJSON              struct {
		Hash string `json:"hash"`
	} `json:"tx_json"`
}

func accountInfo(ctx context.Context, r Requester, account string) (*domain.AccountInfo, error) {
	var res accountInfoResult
	err := r.Request(ctx, "account_info", map[string]any{
		"account":      account,
		"ledger_index": claimantLedger,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &domain.AccountInfo{Exists: true, Sequence: res.AccountData.Sequence}, nil
}

// accountLines follows the result marker until every line has been read.
func accountLines(ctx context.Context, r Requester, account string) ([]domain.TrustLine, error) {
	var lines []domain.TrustLine
	var marker any

	for range accountLinesMaxPages {
		params := map[string]any{
			"account":      account,
			"ledger_index": claimantLedger,
			"limit":        accountLinesPageSize,
		}
		if marker != nil {
			params["marker"] = marker
		}

		var res accountLinesResult
		if err := r.Request(ctx, "account_lines", params, &res); err != nil {
			return nil, err
		}
		for _, l := range res.Lines {
			lines = append(lines, domain.TrustLine{
				Counterparty: l.Account,
				Currency:     l.Currency,
				Balance:      l.Balance,
				Limit:        l.Limit,
			})
		}

		if res.Marker == nil {
			break
		}
		marker = res.Marker
	}
	return lines, nil
}

func gatewayBalances(ctx context.Context, r Requester, account string) (*application.GatewayBalances, error) {
	var res gatewayBalancesResult
	err := r.Request(ctx, "gateway_balances", map[string]any{
		"account":      account,
		"ledger_index": "validated",
	}, &res)
	if err != nil {
		return nil, err
	}

	balances := &application.GatewayBalances{Assets: make(map[string][]application.Asset, len(res.Assets))}
	for issuer, assets := range res.Assets {
		for _, a := range assets {
			balances.Assets[issuer] = append(balances.Assets[issuer], application.Asset{
				Currency: a.Currency,
				Value:    a.Value,
			})
		}
	}
	return balances, nil
}

func ledgerCurrent(ctx context.Context, r Requester) (uint32, error) {
	var res ledgerCurrentResult
	if err := r.Request(ctx, "ledger_current", nil, &res); err != nil {
		return 0, err
	}
	return res.LedgerCurrentIndex, nil
}

func submit(ctx context.Context, r Requester, signedBlob string) (*application.SubmitResponse, error) {
	var res submitResult
	err := r.Request(ctx, "submit", map[string]any{"tx_blob": signedBlob}, &res)
	if err != nil {
		return nil, err
	}
	return &application.SubmitResponse{
		EngineResult:        res.EngineResult,
		EngineResultCode:    res.EngineResultCode,
		EngineResultMessage: res.EngineResultMessage,
		TxHash:              res.TxJSON.Hash,
		Accepted:            IsAcceptedResult(res.EngineResult),
	}, nil
}

// IsAcceptedResult reports whether an engine result means the transaction was
// applied or queued for a later ledger.
func IsAcceptedResult(engineResult string) bool {
	return strings.HasPrefix(engineResult, "tes") || engineResult == "terQUEUED"
}

func (s *Session) AccountInfo(ctx context.Context, account string) (*domain.AccountInfo, error) {
	return accountInfo(ctx, s, account)
}

func (s *Session) AccountLines(ctx context.Context, account string) ([]domain.TrustLine, error) {
	return accountLines(ctx, s, account)
}

func (s *Session) GatewayBalances(ctx context.Context, account string) (*application.GatewayBalances, error) {
	return gatewayBalances(ctx, s, account)
}

func (s *Session) LedgerCurrent(ctx context.Context) (uint32, error) {
	return ledgerCurrent(ctx, s)
}

func (s *Session) Submit(ctx context.Context, signedBlob string) (*application.SubmitResponse, error) {
	return submit(ctx, s, signedBlob)
}
