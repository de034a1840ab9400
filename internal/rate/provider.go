package rate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fxledger/internal/adapters"
	"fxledger/internal/domain"

	"github.com/sirupsen/logrus"
)

// maxFallbackDays bounds the backward date-walk: the requested day plus up
// to this many previous days are tried before giving up.
const maxFallbackDays = 5

// Provider fetches official closing buy/sell quotes against BRL, caches
// them and falls back across non-trading days. The currency whitelist is
// fetched from the quote service and can be refreshed at runtime.
type Provider struct {
	client adapters.QuoteClient
	cache  adapters.RateCache

	mu         sync.RWMutex
	currencies map[string]struct{}

	now func() time.Time
}

func NewProvider(client adapters.QuoteClient, cache adapters.RateCache) *Provider {
	return &Provider{
		client:     client,
		cache:      cache,
		currencies: map[string]struct{}{},
		now:        time.Now,
	}
}

// RefreshCurrencies replaces the whitelist with the catalog currently
// published by the quote service. BRL is always a member even though the
// catalog only lists foreign currencies.
func (p *Provider) RefreshCurrencies(ctx context.Context) error {
	codes, err := p.client.ListCurrencies(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRateServiceUnavailable, err)
	}
	if len(codes) == 0 {
		return fmt.Errorf("%w: empty currency catalog", domain.ErrRateServiceUnavailable)
	}

	set := make(map[string]struct{}, len(codes)+1)
	for _, c := range codes {
		set[c] = struct{}{}
	}
	set[domain.CurrencyBRL] = struct{}{}

	p.mu.Lock()
	p.currencies = set
	p.mu.Unlock()

	logrus.Infof("Currency whitelist refreshed, %d codes", len(set))
	return nil
}

func (p *Provider) IsValidCurrency(code string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.currencies[code]
	return ok
}

func (p *Provider) SupportedCurrencies() []string {
	p.mu.RLock()
	codes := make([]string, 0, len(p.currencies))
	for c := range p.currencies {
		codes = append(codes, c)
	}
	p.mu.RUnlock()

	sort.Strings(codes)
	return codes
}

// GetRate returns the closing quote for currency on the given nominal
// date (today when zero). When no quote exists for that day the lookup
// walks backward one day at a time; the quote it finds is cached under
// the originally requested date so repeated calls short-circuit.
func (p *Provider) GetRate(ctx context.Context, currency string, date time.Time) (domain.Quote, error) {
	if !p.IsValidCurrency(currency) {
		return domain.Quote{}, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, currency)
	}
	if currency == domain.CurrencyBRL {
		return domain.IdentityQuote, nil
	}

	if date.IsZero() {
		date = p.now()
	}

	if q, ok := p.cache.Get(currency, date); ok {
		return q, nil
	}

	fetchDay := date
	for attempt := 0; ; attempt++ {
		entries, err := p.client.GetClosingQuotes(ctx, currency, fetchDay)
		if err == nil && len(entries) > 0 {
			// The last intraday entry is the authoritative closing quote.
			last := entries[len(entries)-1]
			q := domain.Quote{Buy: last.Buy, Sell: last.Sell}
			p.cache.Set(currency, date, q)
			return q, nil
		}
		if err != nil {
			logrus.WithError(err).Warnf("Quote fetch failed for %s on %s", currency, fetchDay.Format("2006-01-02"))
		}
		if attempt == maxFallbackDays {
			return domain.Quote{}, fmt.Errorf("%w: no closing quote for %s within %d days before %s",
				domain.ErrRateUnavailable, currency, maxFallbackDays, date.Format("2006-01-02"))
		}
		fetchDay = fetchDay.AddDate(0, 0, -1)
	}
}

// ConvertToBRL converts amount from a currency into BRL using the buy rate.
func (p *Provider) ConvertToBRL(ctx context.Context, amount float64, from string) (float64, error) {
	if from == domain.CurrencyBRL {
		return amount, nil
	}
	q, err := p.GetRate(ctx, from, time.Time{})
	if err != nil {
		return 0, err
	}
	return amount * q.Buy, nil
}

// ConvertFromBRL converts a BRL amount into a currency using the sell rate.
func (p *Provider) ConvertFromBRL(ctx context.Context, amountBRL float64, to string) (float64, error) {
	if to == domain.CurrencyBRL {
		return amountBRL, nil
	}
	q, err := p.GetRate(ctx, to, time.Time{})
	if err != nil {
		return 0, err
	}
	return amountBRL / q.Sell, nil
}
