package domain

// CurrencyBRL is the bridge currency: every cross-currency conversion is
// routed source -> BRL -> target.
const CurrencyBRL = "BRL"

// Quote is the official closing buy/sell rate of a currency against BRL
// for one trading day. BRL itself always quotes as the identity {1, 1}.
type Quote struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

var IdentityQuote = Quote{Buy: 1.0, Sell: 1.0}

// QuoteEntry is one intraday quote as returned by the external service.
// Only the last entry of a day is authoritative (the closing quote).
type QuoteEntry struct {
	Buy       float64
	Sell      float64
	Timestamp string
}
