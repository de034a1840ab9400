package adapters

import (
	"context"
	"time"

	"fxledger/internal/domain"
)

// QuoteClient talks to the external closing-quote service.
type QuoteClient interface {
	// ListCurrencies returns the catalog of quotable currency codes.
	ListCurrencies(ctx context.Context) ([]string, error)
	// GetClosingQuotes returns the intraday quotes published for the given
	// day, oldest first. An empty slice means no quote exists for that day
	// (weekend or holiday).
	GetClosingQuotes(ctx context.Context, currency string, date time.Time) ([]domain.QuoteEntry, error)
}

// RateCache holds fetched quotes keyed by (currency, nominal date) for a
// bounded TTL. Expiry is the only invalidation path.
type RateCache interface {
	Get(currency string, date time.Time) (domain.Quote, bool)
	Set(currency string, date time.Time, q domain.Quote)
}

// RateProvider is what the ledger needs from the exchange-rate engine.
type RateProvider interface {
	IsValidCurrency(code string) bool
	SupportedCurrencies() []string
	// GetRate returns the closing quote for the given nominal date,
	// falling back across non-trading days. A zero date means today.
	GetRate(ctx context.Context, currency string, date time.Time) (domain.Quote, error)
	ConvertToBRL(ctx context.Context, amount float64, from string) (float64, error)
	ConvertFromBRL(ctx context.Context, amountBRL float64, to string) (float64, error)
}

// LedgerStore runs a function inside one atomic unit of work. If fn
// returns an error nothing it did through ops survives.
type LedgerStore interface {
	InTx(ctx context.Context, fn func(ops LedgerOps) error) error
}

// LedgerOps are the collaborator operations available inside a unit of
// work: account lookup, balance rows and the append-only transaction log.
type LedgerOps interface {
	// LockAccount resolves the account and takes an exclusive row lock on
	// it for the duration of the unit of work, serializing concurrent
	// operations on the same account.
	LockAccount(ctx context.Context, number string) (*domain.Account, error)
	// FindAccount resolves the account without locking (read paths).
	FindAccount(ctx context.Context, number string) (*domain.Account, error)
	// Balance returns the amount held in currency, 0 if no row exists.
	Balance(ctx context.Context, accountID int64, currency string) (float64, error)
	// AddToBalance applies delta to the (account, currency) row, creating
	// it at 0 first if absent, and returns the new amount.
	AddToBalance(ctx context.Context, accountID int64, currency string, delta float64) (float64, error)
	// PositiveBalances lists rows with amount > 0, ascending by currency
	// code so waterfall step order is reproducible.
	PositiveBalances(ctx context.Context, accountID int64) ([]domain.Balance, error)
	// AppendTransaction writes the audit record and fills ID and CreatedAt.
	AppendTransaction(ctx context.Context, t *domain.Transaction) error
}
