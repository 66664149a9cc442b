package handlers

import (
	"net/http"

	"github.com/trustline-faucet/faucet/internal/interfaces/rest"
)

// Status returns the recent-activity snapshot keyed by claim id.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	rest.WriteSuccess(w, http.StatusOK, h.status.Activity())
}

func (h *Handlers) Queue(w http.ResponseWriter, r *http.Request) {
	rest.WriteSuccess(w, http.StatusOK, h.status.Queue())
}

func (h *Handlers) QueueLength(w http.ResponseWriter, r *http.Request) {
	rest.WriteSuccess(w, http.StatusOK, h.status.QueueLength())
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
