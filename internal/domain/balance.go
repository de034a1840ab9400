package domain

// Balance is one (account, currency) row. Amount never goes negative
// after a committed operation; rows are created lazily on first deposit.
type Balance struct {
	AccountID int64   `json:"-"`
	Currency  string  `json:"currency"`
	Amount    float64 `json:"amount"`
}
