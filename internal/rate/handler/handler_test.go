package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fxledger/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateService struct{ mock.Mock }

func (m *MockRateService) SupportedCurrencies() []string {
	args := m.Called()
	codes, _ := args.Get(0).([]string)
	return codes
}

func (m *MockRateService) GetRate(ctx context.Context, currency string, date time.Time) (domain.Quote, error) {
	args := m.Called(ctx, currency, date)
	q, _ := args.Get(0).(domain.Quote)
	return q, args.Error(1)
}

type errorJSON struct {
	Error string `json:"error"`
}

func newQuoteRequest(target, currency string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("currency", currency)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_GetQuote_Success(t *testing.T) {
	mockService := new(MockRateService)
	h := NewRateHandler(mockService)

	day := time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)
	mockService.On("GetRate", mock.Anything, "USD", day).Return(domain.Quote{Buy: 5.14, Sell: 5.16}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetQuote(rr, newQuoteRequest("/rates/usd?date=2024-11-15", " usd "))

	require.Equal(t, http.StatusOK, rr.Code)
	var res GetQuoteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "USD", res.Currency)
	require.Equal(t, "2024-11-15", res.Date)
	require.InDelta(t, 5.14, res.Buy, 1e-9)
	require.InDelta(t, 5.16, res.Sell, 1e-9)
	mockService.AssertExpectations(t)
}

func TestHandler_GetQuote_BadDate(t *testing.T) {
	mockService := new(MockRateService)
	h := NewRateHandler(mockService)

	rr := httptest.NewRecorder()
	h.GetQuote(rr, newQuoteRequest("/rates/USD?date=15-11-2024", "USD"))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_GetQuote_InvalidCurrency(t *testing.T) {
	mockService := new(MockRateService)
	h := NewRateHandler(mockService)

	mockService.On("GetRate", mock.Anything, "XYZ", time.Time{}).Return(domain.Quote{}, domain.ErrInvalidCurrency).Once()

	rr := httptest.NewRecorder()
	h.GetQuote(rr, newQuoteRequest("/rates/XYZ", "XYZ"))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Contains(t, ej.Error, "invalid currency")
}

func TestHandler_GetQuote_RateUnavailableIsNotFound(t *testing.T) {
	mockService := new(MockRateService)
	h := NewRateHandler(mockService)

	mockService.On("GetRate", mock.Anything, "USD", time.Time{}).Return(domain.Quote{}, domain.ErrRateUnavailable).Once()

	rr := httptest.NewRecorder()
	h.GetQuote(rr, newQuoteRequest("/rates/USD", "USD"))

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_GetQuote_UnexpectedErrorIsInternal(t *testing.T) {
	mockService := new(MockRateService)
	h := NewRateHandler(mockService)

	mockService.On("GetRate", mock.Anything, "USD", time.Time{}).Return(domain.Quote{}, errors.New("boom")).Once()

	rr := httptest.NewRecorder()
	h.GetQuote(rr, newQuoteRequest("/rates/USD", "USD"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_GetSupportedCodes(t *testing.T) {
	mockService := new(MockRateService)
	h := NewRateHandler(mockService)

	mockService.On("SupportedCurrencies").Return([]string{"BRL", "EUR", "USD"}).Once()

	rr := httptest.NewRecorder()
	h.GetSupportedCodes(rr, httptest.NewRequest(http.MethodGet, "/rates/supported-currencies", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var res GetSupportedCodesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, []string{"BRL", "EUR", "USD"}, res.Codes)
}
