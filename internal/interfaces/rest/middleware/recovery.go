package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/interfaces/rest"
)

// Recovery turns a panic into a 500 INTERNAL_ERROR envelope carrying the
// request id, so a caller's report can be matched to the logged stack.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := RequestID(r.Context())
				attrs := []any{
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				}
				if account, amount, ok := claimFromPath(r.URL.Path); ok {
					attrs = append(attrs, "account", account, "amount", amount)
				}
				attrs = append(attrs, "stack", string(debug.Stack()))
				logger.Error("panic recovered", attrs...)

				status, body := rest.BuildErrorResponse(application.NewInternalError(fmt.Errorf("panic: %v", rec)))
				if requestID != "" {
					body.Error.Details = map[string]string{"request_id": requestID}
				}
				rest.WriteJSON(w, status, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// claimFromPath recognises /{account}/{amount}.
func claimFromPath(path string) (account, amount string, ok bool) {
	account, amount, ok = strings.Cut(strings.Trim(path, "/"), "/")
	if !ok || account == "" || amount == "" || strings.Contains(amount, "/") {
		return "", "", false
	}
	switch account {
	case "queue", "docs":
		return "", "", false
	}
	return account, amount, true
}
