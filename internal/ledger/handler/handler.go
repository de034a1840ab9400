package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"fxledger/internal/domain"
	"fxledger/internal/ledger"

	"github.com/sirupsen/logrus"
)

type LedgerService interface {
	Deposit(ctx context.Context, accountNumber string, amount float64, currency string) (*ledger.DepositResult, error)
	Withdraw(ctx context.Context, accountNumber string, amount float64, currency string) (*ledger.WithdrawResult, error)
	Balances(ctx context.Context, accountNumber string) ([]domain.Balance, error)
	BalanceIn(ctx context.Context, accountNumber, currency string) (*ledger.ConvertedBalanceSummary, error)
}

type Handler struct {
	service LedgerService
}

func NewLedgerHandler(service LedgerService) *Handler {
	return &Handler{service: service}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError maps domain errors to HTTP statuses. Anything
// unmapped is a 500 with a generic message; the cause goes to the log.
func writeServiceError(w http.ResponseWriter, err error, handlerName, accountNumber string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidCurrency):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAccountInactive):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrRateUnavailable), errors.Is(err, domain.ErrRateServiceUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		msg := "ups, couldn't process the operation this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": handlerName, "account": accountNumber}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}
