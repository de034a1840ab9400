package handler

import (
	"net/http"
	"strings"

	"fxledger/internal/domain"

	"github.com/go-chi/chi/v5"
)

type WithdrawResponse struct {
	Transaction       TransactionResponse     `json:"transaction"`
	ConversionApplied bool                    `json:"conversion_applied"`
	ConversionDetails []domain.ConversionStep `json:"conversion_details,omitempty"`
	RemainingBalances []domain.Balance        `json:"remaining_balances"`
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(chi.URLParam(r, "number"))

	req, ok := decodeOperationRequest(w, r)
	if !ok {
		return
	}

	res, err := h.service.Withdraw(r.Context(), number, req.Amount, req.Currency)
	if err != nil {
		writeServiceError(w, err, "Withdraw", number)
		return
	}

	writeJSON(w, http.StatusCreated, WithdrawResponse{
		Transaction:       toTransactionResponse(res.Transaction, number),
		ConversionApplied: res.ConversionApplied,
		ConversionDetails: res.Conversions,
		RemainingBalances: res.RemainingBalances,
	})
}
