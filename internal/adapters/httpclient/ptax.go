package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fxledger/internal/domain"
)

// ptaxDateLayout is the date format the Olinda OData endpoints expect.
const ptaxDateLayout = "01-02-2006"

// PTAXClient fetches the currency catalog and daily closing quotes from
// the Banco Central PTAX service.
type PTAXClient struct {
	http    *http.Client
	baseURL string
}

func NewPTAXClient(httpClient *http.Client, baseURL string) *PTAXClient {
	return &PTAXClient{http: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type currenciesResponse struct {
	Value []struct {
		Symbol string `json:"simbolo"`
	} `json:"value"`
}

type quotesResponse struct {
	Value []struct {
		Buy       float64 `json:"cotacaoCompra"`
		Sell      float64 `json:"cotacaoVenda"`
		Timestamp string  `json:"dataHoraCotacao"`
	} `json:"value"`
}

func (c *PTAXClient) ListCurrencies(ctx context.Context) ([]string, error) {
	u, err := url.Parse(c.baseURL + "/Moedas")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.RawQuery = "$top=100&$format=json"

	var body currenciesResponse
	if err = c.getJSON(ctx, u.String(), &body); err != nil {
		return nil, fmt.Errorf("failed to fetch currency catalog: %w", err)
	}

	codes := make([]string, 0, len(body.Value))
	for _, m := range body.Value {
		codes = append(codes, m.Symbol)
	}
	return codes, nil
}

func (c *PTAXClient) GetClosingQuotes(ctx context.Context, currency string, date time.Time) ([]domain.QuoteEntry, error) {
	day := date.Format(ptaxDateLayout)
	u, err := url.Parse(c.baseURL + "/CotacaoMoedaPeriodoFechamento(codigoMoeda=@codigoMoeda,dataInicialCotacao=@dataInicialCotacao,dataFinalCotacao=@dataFinalCotacao)")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.RawQuery = fmt.Sprintf("@codigoMoeda='%s'&@dataInicialCotacao='%s'&@dataFinalCotacao='%s'&$format=json", currency, day, day)

	var body quotesResponse
	if err = c.getJSON(ctx, u.String(), &body); err != nil {
		return nil, fmt.Errorf("failed to fetch quotes for currency %q on %s: %w", currency, day, err)
	}

	entries := make([]domain.QuoteEntry, 0, len(body.Value))
	for _, q := range body.Value {
		entries = append(entries, domain.QuoteEntry{Buy: q.Buy, Sell: q.Sell, Timestamp: q.Timestamp})
	}
	return entries, nil
}

func (c *PTAXClient) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, resp.Status)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
