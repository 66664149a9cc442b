package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trustline-faucet/faucet/internal/interfaces/rest/middleware"
)

// Routes mounts every endpoint. The claim route sits behind limiter when one is given.
func (h *Handlers) Routes(limiter *middleware.RateLimiter, docs http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", h.Health)
	r.Get("/status", h.Status)
	r.Get("/queue", h.Queue)
	r.Get("/queue/length", h.QueueLength)
	r.Handle("/metrics", promhttp.Handler())
	if docs != nil {
		r.Handle("/docs/openapi.json", docs)
	}

	claim := http.Handler(http.HandlerFunc(h.Claim))
	if limiter != nil {
		claim = limiter.Middleware(claim)
	}
	r.Method(http.MethodGet, "/{account}/{amount}", claim)

	return r
}
