package ledger_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"nhooyr.io/websocket"
)

// nodeReply is either a result or an error token for one command.
type nodeReply struct {
	Result       any
	Error        string
	ErrorMessage string
	Drop         bool
}

type fakeNode struct {
	t       *testing.T
	server  *httptest.Server
	handler func(req map[string]any) nodeReply

	mu       sync.Mutex
	requests []map[string]any
	accepts  int
}

func newFakeNode(t *testing.T, handler func(req map[string]any) nodeReply) *fakeNode {
	t.Helper()
	n := &fakeNode{t: t, handler: handler}
	n.server = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.server.Close)
	return n
}

func (n *fakeNode) URL() string {
	return "ws" + strings.TrimPrefix(n.server.URL, "http")
}

func (n *fakeNode) Requests(command string) []map[string]any {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []map[string]any
	for _, r := range n.requests {
		if r["command"] == command {
			out = append(out, r)
		}
	}
	return out
}

func (n *fakeNode) Accepts() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.accepts
}

func (n *fakeNode) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	n.mu.Lock()
	n.accepts++
	n.mu.Unlock()

	ctx := context.Background()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var req map[string]any
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}
		n.mu.Lock()
		n.requests = append(n.requests, req)
		n.mu.Unlock()

		reply := n.handler(req)
		if reply.Drop {
			_ = conn.Close(websocket.StatusGoingAway, "bye")
			return
		}

		go func() {
			resp := map[string]any{"id": req["id"], "type": "response"}
			if reply.Error != "" {
				resp["status"] = "error"
				resp["error"] = reply.Error
				resp["error_message"] = reply.ErrorMessage
			} else {
				resp["status"] = "success"
				resp["result"] = reply.Result
			}
			out, _ := json.Marshal(resp)
			_ = conn.Write(ctx, websocket.MessageText, out)
		}()
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
