package handlers

import (
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/trustline-faucet/faucet/internal/application/services"
)

// Handlers serves the faucet's HTTP surface.
type Handlers struct {
	claims   *services.ClaimService
	status   *services.StatusService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandlers(
	claims *services.ClaimService,
	status *services.StatusService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		claims:   claims,
		status:   status,
		validate: validator.New(),
		logger:   logger,
	}
}
