package ledger

import "fxledger/internal/domain"

type DepositResult struct {
	Transaction domain.Transaction
	NewBalance  domain.Balance
}

type WithdrawResult struct {
	Transaction       domain.Transaction
	ConversionApplied bool
	Conversions       []domain.ConversionStep
	RemainingBalances []domain.Balance
}

// ConvertedBalance is one line of a single-currency balance view: the
// native amount and its value expressed in the requested currency.
type ConvertedBalance struct {
	Currency  string  `json:"currency"`
	Amount    float64 `json:"amount"`
	Converted float64 `json:"converted"`
}

type ConvertedBalanceSummary struct {
	Currency string
	Total    float64
	Details  []ConvertedBalance
}
