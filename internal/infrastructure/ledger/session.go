// Package ledger talks to a rippled-compatible node over its WebSocket JSON API.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"

	"github.com/trustline-faucet/faucet/internal/application"
)

const readLimit = 1 << 20

type envelope struct {
	ID           uint64          `json:"id"`
	Status       string          `json:"status"`
	Type         string          `json:"type"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

type reply struct {
	env envelope
	err error
}

// Session multiplexes concurrent requests over one WebSocket connection,
// matching responses to callers by request id.
type Session struct {
	conn           *websocket.Conn
	logger         *slog.Logger
	requestTimeout time.Duration

	nextID  atomic.Uint64
	mu      sync.Mutex
	pending map[uint64]chan reply

	done chan struct{}
	once sync.Once
}

var _ application.LedgerConn = (*Session)(nil)

// Open dials the node and starts the session's reader.
func Open(ctx context.Context, url string, requestTimeout time.Duration, logger *slog.Logger) (*Session, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial ledger node %s: %w", url, err)
	}
	conn.SetReadLimit(readLimit)

	s := &Session{
		conn:           conn,
		logger:         logger,
		requestTimeout: requestTimeout,
		pending:        make(map[uint64]chan reply),
		done:           make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// Request sends one command and decodes its result into out.
func (s *Session) Request(ctx context.Context, command string, params map[string]any, out any) error {
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	id := s.nextID.Add(1)
	payload := make(map[string]any, len(params)+2)
	maps.Copy(payload, params)
	payload["id"] = id
	payload["command"] = command

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", command, err)
	}

	ch := make(chan reply, 1)
	if !s.register(id, ch) {
		return fmt.Errorf("%s: %w", command, application.ErrConnectionClosed)
	}
	defer s.unregister(id)

	if err := s.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("send %s request: %w", command, err)
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", command, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("%s: %w", command, r.err)
		}
		return decodeResult(command, r.env, out)
	}
}

func decodeResult(command string, env envelope, out any) error {
	if env.Status == "error" || env.Error != "" {
		return &application.LedgerError{
			Code:    env.Error,
			Message: env.ErrorMessage,
			Command: command,
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", command, err)
	}
	return nil
}

func (s *Session) register(id uint64, ch chan reply) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return false
	default:
	}
	s.pending[id] = ch
	return true
}

func (s *Session) unregister(id uint64) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

func (s *Session) readLoop() {
	for {
		_, data, err := s.conn.Read(context.Background())
		if err != nil {
			s.fail(err)
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.logger.Warn("discarding malformed ledger message", "error", err)
			continue
		}
		if env.ID == 0 {
			// subscription stream messages carry no id
			continue
		}

		s.mu.Lock()
		ch, ok := s.pending[env.ID]
		s.mu.Unlock()
		if ok {
			select {
			case ch <- reply{env: env}:
			default:
			}
		}
	}
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}

	if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		s.logger.Debug("ledger connection dropped", "error", err)
	}
	close(s.done)
	for id, ch := range s.pending {
		select {
		case ch <- reply{err: application.ErrConnectionClosed}:
		default:
		}
		delete(s.pending, id)
	}
}

// Done is closed once the connection is gone.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		err = s.conn.Close(websocket.StatusNormalClosure, "")
	})
	<-s.done
	return err
}
