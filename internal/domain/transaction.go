package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// Transaction is an append-only audit record, written exactly once per
// successful operation and never mutated.
type Transaction struct {
	ID          int64            `json:"id"`
	Reference   uuid.UUID        `json:"reference"`
	AccountID   int64            `json:"-"`
	Type        TransactionType  `json:"type"`
	Currency    string           `json:"currency"`
	Amount      float64          `json:"amount"`
	Conversions []ConversionStep `json:"conversions,omitempty"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ConversionStep records a single source-currency draw made during a
// withdrawal and its contribution, in target currency, to the requested
// amount. The trivial step for the target currency itself carries Rate 1.0
// and no intermediate BRL value.
type ConversionStep struct {
	FromCurrency    string  `json:"from_currency"`
	FromAmount      float64 `json:"from_amount"`
	IntermediateBRL float64 `json:"intermediate_brl,omitempty"`
	ToCurrency      string  `json:"to_currency"`
	ToAmount        float64 `json:"to_amount"`
	Rate            float64 `json:"rate,omitempty"`
}
