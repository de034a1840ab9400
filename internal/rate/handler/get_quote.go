package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"fxledger/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type GetQuoteResponse struct {
	Currency string  `json:"currency"`
	Date     string  `json:"date"`
	Buy      float64 `json:"buy"`
	Sell     float64 `json:"sell"`
}

// GetQuote returns the closing quote of a currency against BRL for the
// requested date (today when omitted), falling back across non-trading
// days the same way withdrawals do.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "currency")))

	date := time.Time{}
	if rawDate := r.URL.Query().Get("date"); rawDate != "" {
		parsed, err := time.Parse("2006-01-02", rawDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}
		date = parsed
	}

	quote, err := h.service.GetRate(r.Context(), currency, date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCurrency):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrRateUnavailable):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			msg := "ups, couldn't get the quote this time"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetQuote", "currency": currency}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}

	displayDate := date
	if displayDate.IsZero() {
		displayDate = time.Now()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(GetQuoteResponse{
		Currency: currency,
		Date:     displayDate.Format("2006-01-02"),
		Buy:      quote.Buy,
		Sell:     quote.Sell,
	})
}
