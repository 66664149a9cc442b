package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"
	"github.com/oapi-codegen/runtime"

	"github.com/trustline-faucet/faucet/internal/application"
	"github.com/trustline-faucet/faucet/internal/domain"
	"github.com/trustline-faucet/faucet/internal/interfaces/rest"
)

type claimParams struct {
	Account string `validate:"required,startswith=r,alphanum,min=25,max=35"`
	Amount  string `validate:"required,numeric"`
}

var pathParam = runtime.BindStyledParameterOptions{
	ParamLocation: runtime.ParamLocationPath,
	Explode:       false,
	Required:      true,
}

// Claim handles GET /{account}/{amount}. An accepted claim answers 202 with
// the preview; the payout itself happens on a later scheduler tick.
func (h *Handlers) Claim(w http.ResponseWriter, r *http.Request) {
	var params claimParams

	if err := runtime.BindStyledParameterWithOptions("simple", "account", chi.URLParam(r, "account"), &params.Account, pathParam); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}
	if err := runtime.BindStyledParameterWithOptions("simple", "amount", chi.URLParam(r, "amount"), &params.Amount, pathParam); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	if err := h.validate.Struct(params); err != nil {
		rest.WriteError(w, paramError(err, params), h.logger)
		return
	}

	receipt, err := h.claims.Claim(r.Context(), params.Account, params.Amount)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteSuccess(w, http.StatusAccepted, receipt)
}

func paramError(err error, params claimParams) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Field() {
		case "Account":
			return domain.NewInvalidAccountError(params.Account)
		case "Amount":
			return domain.NewInvalidAmountError(params.Amount)
		}
	}
	return application.NewInvalidInputError(err)
}
