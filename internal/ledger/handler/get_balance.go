package handler

import (
	"net/http"
	"strings"

	"fxledger/internal/domain"
	"fxledger/internal/ledger"

	"github.com/go-chi/chi/v5"
)

type BalancesResponse struct {
	AccountNumber string           `json:"account_number"`
	Balances      []domain.Balance `json:"balances"`
}

type ConvertedBalanceResponse struct {
	AccountNumber string                    `json:"account_number"`
	Currency      string                    `json:"currency"`
	TotalBalance  float64                   `json:"total_balance"`
	Details       []ledger.ConvertedBalance `json:"details"`
}

// GetBalance returns all positive balances of the account, or, when the
// currency query parameter is present, their total value in that currency.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(chi.URLParam(r, "number"))
	currency := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))

	if currency == "" {
		balances, err := h.service.Balances(r.Context(), number)
		if err != nil {
			writeServiceError(w, err, "GetBalance", number)
			return
		}
		writeJSON(w, http.StatusOK, BalancesResponse{AccountNumber: number, Balances: balances})
		return
	}

	summary, err := h.service.BalanceIn(r.Context(), number, currency)
	if err != nil {
		writeServiceError(w, err, "GetBalance", number)
		return
	}
	writeJSON(w, http.StatusOK, ConvertedBalanceResponse{
		AccountNumber: number,
		Currency:      summary.Currency,
		TotalBalance:  summary.Total,
		Details:       summary.Details,
	})
}
