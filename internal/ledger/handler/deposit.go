package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fxledger/internal/domain"

	"github.com/go-chi/chi/v5"
)

type OperationRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type TransactionResponse struct {
	ID            int64  `json:"id"`
	Reference     string `json:"reference"`
	Type          string `json:"type"`
	AccountNumber string `json:"account_number"`
	Currency      string `json:"currency"`
	Amount        float64 `json:"amount"`
	DateTime      string `json:"date_time"`
}

type DepositResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	NewBalance  domain.Balance      `json:"new_balance"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(chi.URLParam(r, "number"))

	req, ok := decodeOperationRequest(w, r)
	if !ok {
		return
	}

	res, err := h.service.Deposit(r.Context(), number, req.Amount, req.Currency)
	if err != nil {
		writeServiceError(w, err, "Deposit", number)
		return
	}

	writeJSON(w, http.StatusCreated, DepositResponse{
		Transaction: toTransactionResponse(res.Transaction, number),
		NewBalance:  res.NewBalance,
	})
}

func decodeOperationRequest(w http.ResponseWriter, r *http.Request) (OperationRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 512)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req OperationRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return OperationRequest{}, false
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	return req, true
}

func toTransactionResponse(t domain.Transaction, accountNumber string) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		Reference:     t.Reference.String(),
		Type:          string(t.Type),
		AccountNumber: accountNumber,
		Currency:      t.Currency,
		Amount:        t.Amount,
		DateTime:      t.CreatedAt.Format(time.DateTime),
	}
}
