package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/domain"
)

// Dialer opens fresh sessions. The scheduler uses one per tick.
type Dialer struct {
	url            string
	dialTimeout    time.Duration
	requestTimeout time.Duration
	logger         *slog.Logger
}

var _ application.LedgerDialer = (*Dialer)(nil)

func NewDialer(url string, dialTimeout, requestTimeout time.Duration, logger *slog.Logger) *Dialer {
	return &Dialer{
		url:            url,
		dialTimeout:    dialTimeout,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

func (d *Dialer) Dial(ctx context.Context) (application.LedgerConn, error) {
	return d.open(ctx)
}

func (d *Dialer) open(ctx context.Context) (*Session, error) {
	if d.dialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.dialTimeout)
		defer cancel()
	}
	return Open(ctx, d.url, d.requestTimeout, d.logger)
}

// Client is a long-lived gateway that re-dials when its connection drops.
// The accept path and the signer share one.
type Client struct {
	dialer *Dialer
	logger *slog.Logger

	mu      sync.Mutex
	session *Session
}

var _ application.LedgerGateway = (*Client)(nil)

func NewClient(dialer *Dialer, logger *slog.Logger) *Client {
	return &Client{dialer: dialer, logger: logger}
}

func (c *Client) current(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		select {
		case <-c.session.Done():
			c.session = nil
		default:
			return c.session, nil
		}
	}

	s, err := c.dialer.open(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("ledger session opened", "node", c.dialer.url)
	c.session = s
	return s, nil
}

func (c *Client) drop(s *Session) {
	c.mu.Lock()
	if c.session == s {
		c.session = nil
	}
	c.mu.Unlock()
	_ = s.Close()
}

// Request implements Requester on top of the shared session.
func (c *Client) Request(ctx context.Context, command string, params map[string]any, out any) error {
	s, err := c.current(ctx)
	if err != nil {
		return err
	}
	err = s.Request(ctx, command, params, out)
	if errors.Is(err, application.ErrConnectionClosed) {
		c.drop(s)
	}
	return err
}

func (c *Client) AccountInfo(ctx context.Context, account string) (*domain.AccountInfo, error) {
	return accountInfo(ctx, c, account)
}

func (c *Client) AccountLines(ctx context.Context, account string) ([]domain.TrustLine, error) {
	return accountLines(ctx, c, account)
}

func (c *Client) GatewayBalances(ctx context.Context, account string) (*application.GatewayBalances, error) {
	return gatewayBalances(ctx, c, account)
}

func (c *Client) LedgerCurrent(ctx context.Context) (uint32, error) {
	return ledgerCurrent(ctx, c)
}

func (c *Client) Submit(ctx context.Context, signedBlob string) (*application.SubmitResponse, error) {
	return submit(ctx, c, signedBlob)
}

func (c *Client) Close() error {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.Close()
}
