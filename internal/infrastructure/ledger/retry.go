package ledger

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/config"
	"github.com/trustline-faucet/faucet/internal/domain"
)

// RetryGateway retries read-only queries on transient failures. Submit is
// passed straight through: a blob that reached the node must not be resent blindly.
type RetryGateway struct {
	inner      application.LedgerGateway
	baseDelay  time.Duration
	maxRetries int
}

var _ application.LedgerGateway = (*RetryGateway)(nil)

func NewRetryGateway(inner application.LedgerGateway, cfg config.RetryConfig) *RetryGateway {
	maxRetries := int(cfg.MaxRetries)
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RetryGateway{
		inner:      inner,
		baseDelay:  cfg.BaseDelay,
		maxRetries: maxRetries,
	}
}

func (r *RetryGateway) AccountInfo(ctx context.Context, account string) (*domain.AccountInfo, error) {
	return retry(r, ctx, func(ctx context.Context) (*domain.AccountInfo, error) {
		return r.inner.AccountInfo(ctx, account)
	})
}

func (r *RetryGateway) AccountLines(ctx context.Context, account string) ([]domain.TrustLine, error) {
	lines, err := retry(r, ctx, func(ctx context.Context) (*[]domain.TrustLine, error) {
		lines, err := r.inner.AccountLines(ctx, account)
		if err != nil {
			return nil, err
		}
		return &lines, nil
	})
	if err != nil {
		return nil, err
	}
	return *lines, nil
}

func (r *RetryGateway) GatewayBalances(ctx context.Context, account string) (*application.GatewayBalances, error) {
	return retry(r, ctx, func(ctx context.Context) (*application.GatewayBalances, error) {
		return r.inner.GatewayBalances(ctx, account)
	})
}

func (r *RetryGateway) LedgerCurrent(ctx context.Context) (uint32, error) {
	index, err := retry(r, ctx, func(ctx context.Context) (*uint32, error) {
		index, err := r.inner.LedgerCurrent(ctx)
		if err != nil {
			return nil, err
		}
		return &index, nil
	})
	if err != nil {
		return 0, err
	}
	return *index, nil
}

func (r *RetryGateway) Submit(ctx context.Context, signedBlob string) (*application.SubmitResponse, error) {
	return r.inner.Submit(ctx, signedBlob)
}

func retry[T any](r *RetryGateway, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !application.IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			timer := time.NewTimer(r.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// Exponential delay with up to a quarter of jitter on top.
func (r *RetryGateway) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)
	if base <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int64N(int64(base)/4 + 1))
	return base + jitter
}
