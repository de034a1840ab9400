package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"fxledger/internal/domain"
)

type RateService interface {
	SupportedCurrencies() []string
	GetRate(ctx context.Context, currency string, date time.Time) (domain.Quote, error)
}

type Handler struct {
	service RateService
}

func NewRateHandler(service RateService) *Handler {
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
