package cache

import (
	"fmt"
	"time"

	"fxledger/internal/domain"

	"github.com/dgraph-io/ristretto"
)

type RistrettoRateCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewRateCache(maxItems int64, ttl time.Duration) (*RistrettoRateCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache failed: %w", err)
	}
	return &RistrettoRateCache{cache: c, ttl: ttl}, nil
}

func (c *RistrettoRateCache) Get(currency string, date time.Time) (domain.Quote, bool) {
	if v, ok := c.cache.Get(quoteKey(currency, date)); ok {
		q, ok := v.(domain.Quote)
		return q, ok
	}
	return domain.Quote{}, false
}

func (c *RistrettoRateCache) Set(currency string, date time.Time, q domain.Quote) {
	c.cache.SetWithTTL(quoteKey(currency, date), q, 1, c.ttl)
}

func (c *RistrettoRateCache) Close() { c.cache.Close() }

func quoteKey(currency string, date time.Time) string {
	return currency + ":" + date.Format("2006-01-02")
}
