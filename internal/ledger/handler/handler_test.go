package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fxledger/internal/domain"
	"fxledger/internal/ledger"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedgerService struct{ mock.Mock }

func (m *MockLedgerService) Deposit(ctx context.Context, accountNumber string, amount float64, currency string) (*ledger.DepositResult, error) {
	args := m.Called(ctx, accountNumber, amount, currency)
	res, _ := args.Get(0).(*ledger.DepositResult)
	return res, args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, accountNumber string, amount float64, currency string) (*ledger.WithdrawResult, error) {
	args := m.Called(ctx, accountNumber, amount, currency)
	res, _ := args.Get(0).(*ledger.WithdrawResult)
	return res, args.Error(1)
}

func (m *MockLedgerService) Balances(ctx context.Context, accountNumber string) ([]domain.Balance, error) {
	args := m.Called(ctx, accountNumber)
	balances, _ := args.Get(0).([]domain.Balance)
	return balances, args.Error(1)
}

func (m *MockLedgerService) BalanceIn(ctx context.Context, accountNumber, currency string) (*ledger.ConvertedBalanceSummary, error) {
	args := m.Called(ctx, accountNumber, currency)
	res, _ := args.Get(0).(*ledger.ConvertedBalanceSummary)
	return res, args.Error(1)
}

type errorJSON struct {
	Error string `json:"error"`
}

func newRequest(t *testing.T, method, target, accountNumber string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("number", accountNumber)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// --- Deposit ---

func TestHandler_Deposit_Success(t *testing.T) {
	mockService := new(MockLedgerService)
	h := NewLedgerHandler(mockService)

	result := &ledger.DepositResult{
		Transaction: domain.Transaction{ID: 7, Reference: uuid.New(), Type: domain.TransactionDeposit, Currency: "USD", Amount: 100},
		NewBalance:  domain.Balance{Currency: "USD", Amount: 100},
	}
	mockService.On("Deposit", mock.Anything, "ACC-001", 100.0, "USD").Return(result, nil).Once()

	req := newRequest(t, http.MethodPost, "/accounts/ACC-001/deposit", "ACC-001", OperationRequest{Amount: 100, Currency: " usd "})
	rr := httptest.NewRecorder()

	h.Deposit(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var res DepositResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "deposit", res.Transaction.Type)
	require.Equal(t, "ACC-001", res.Transaction.AccountNumber)
	require.InDelta(t, 100, res.NewBalance.Amount, 1e-9)
	mockService.AssertExpectations(t)
}

func TestHandler_Deposit_InvalidBody(t *testing.T) {
	mockService := new(MockLedgerService)
	h := NewLedgerHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/accounts/ACC-001/deposit", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()

	h.Deposit(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Deposit_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "invalid amount", serviceErr: domain.ErrInvalidAmount, wantStatus: http.StatusBadRequest},
		{name: "invalid currency", serviceErr: domain.ErrInvalidCurrency, wantStatus: http.StatusBadRequest},
		{name: "account not found", serviceErr: domain.ErrAccountNotFound, wantStatus: http.StatusNotFound},
		{name: "account inactive", serviceErr: domain.ErrAccountInactive, wantStatus: http.StatusForbidden},
		{name: "unexpected", serviceErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockLedgerService)
			h := NewLedgerHandler(mockService)

			mockService.On("Deposit", mock.Anything, "ACC-001", 10.0, "USD").Return(nil, tc.serviceErr).Once()

			req := newRequest(t, http.MethodPost, "/accounts/ACC-001/deposit", "ACC-001", OperationRequest{Amount: 10, Currency: "USD"})
			rr := httptest.NewRecorder()

			h.Deposit(rr, req)

			require.Equal(t, tc.wantStatus, rr.Code)
			var ej errorJSON
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
			require.NotEmpty(t, ej.Error)
			mockService.AssertExpectations(t)
		})
	}
}

// --- Withdraw ---

func TestHandler_Withdraw_Success(t *testing.T) {
	mockService := new(MockLedgerService)
	h := NewLedgerHandler(mockService)

	result := &ledger.WithdrawResult{
		Transaction:       domain.Transaction{ID: 9, Reference: uuid.New(), Type: domain.TransactionWithdrawal, Currency: "USD", Amount: 150},
		ConversionApplied: true,
		Conversions: []domain.ConversionStep{
			{FromCurrency: "USD", FromAmount: 100, ToCurrency: "USD", ToAmount: 100, Rate: 1.0},
			{FromCurrency: "EUR", FromAmount: 41.67, IntermediateBRL: 250, ToCurrency: "USD", ToAmount: 50},
		},
		RemainingBalances: []domain.Balance{{Currency: "EUR", Amount: 58.33}},
	}
	mockService.On("Withdraw", mock.Anything, "ACC-001", 150.0, "USD").Return(result, nil).Once()

	req := newRequest(t, http.MethodPost, "/accounts/ACC-001/withdraw", "ACC-001", OperationRequest{Amount: 150, Currency: "USD"})
	rr := httptest.NewRecorder()

	h.Withdraw(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var res WithdrawResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.True(t, res.ConversionApplied)
	require.Len(t, res.ConversionDetails, 2)
	require.Equal(t, "withdrawal", res.Transaction.Type)
	mockService.AssertExpectations(t)
}

func TestHandler_Withdraw_InsufficientFunds(t *testing.T) {
	mockService := new(MockLedgerService)
	h := NewLedgerHandler(mockService)

	mockService.On("Withdraw", mock.Anything, "ACC-001", 200.0, "USD").Return(nil, domain.ErrInsufficientFunds).Once()

	req := newRequest(t, http.MethodPost, "/accounts/ACC-001/withdraw", "ACC-001", OperationRequest{Amount: 200, Currency: "USD"})
	rr := httptest.NewRecorder()

	h.Withdraw(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHandler_Withdraw_RateUnavailableIsBadGateway(t *testing.T) {
	mockService := new(MockLedgerService)
	h := NewLedgerHandler(mockService)

	mockService.On("Withdraw", mock.Anything, "ACC-001", 50.0, "USD").Return(nil, domain.ErrRateUnavailable).Once()

	req := newRequest(t, http.MethodPost, "/accounts/ACC-001/withdraw", "ACC-001", OperationRequest{Amount: 50, Currency: "USD"})
	rr := httptest.NewRecorder()

	h.Withdraw(rr, req)

	require.Equal(t, http.StatusBadGateway, rr.Code)
}

// --- GetBalance ---

func TestHandler_GetBalance_AllCurrencies(t *testing.T) {
	mockService := new(MockLedgerService)
	h := NewLedgerHandler(mockService)

	balances := []domain.Balance{{Currency: "EUR", Amount: 58.33}, {Currency: "USD", Amount: 100}}
	mockService.On("Balances", mock.Anything, "ACC-001").Return(balances, nil).Once()

	req := newRequest(t, http.MethodGet, "/accounts/ACC-001/balance", "ACC-001", nil)
	rr := httptest.NewRecorder()

	h.GetBalance(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res BalancesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "ACC-001", res.AccountNumber)
	require.Len(t, res.Balances, 2)
	mockService.AssertNotCalled(t, "BalanceIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_GetBalance_InOneCurrency(t *testing.T) {
	mockService := new(MockLedgerService)
	h := NewLedgerHandler(mockService)

	summary := &ledger.ConvertedBalanceSummary{
		Currency: "USD",
		Total:    220,
		Details: []ledger.ConvertedBalance{
			{Currency: "EUR", Amount: 100, Converted: 120},
			{Currency: "USD", Amount: 100, Converted: 100},
		},
	}
	mockService.On("BalanceIn", mock.Anything, "ACC-001", "USD").Return(summary, nil).Once()

	req := newRequest(t, http.MethodGet, "/accounts/ACC-001/balance?currency=usd", "ACC-001", nil)
	rr := httptest.NewRecorder()

	h.GetBalance(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res ConvertedBalanceResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "USD", res.Currency)
	require.InDelta(t, 220, res.TotalBalance, 1e-9)
	require.Len(t, res.Details, 2)
	mockService.AssertNotCalled(t, "Balances", mock.Anything, mock.Anything)
}

func TestHandler_GetBalance_AccountNotFound(t *testing.T) {
	mockService := new(MockLedgerService)
	h := NewLedgerHandler(mockService)

	mockService.On("Balances", mock.Anything, "NOPE").Return(nil, domain.ErrAccountNotFound).Once()

	req := newRequest(t, http.MethodGet, "/accounts/NOPE/balance", "NOPE", nil)
	rr := httptest.NewRecorder()

	h.GetBalance(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}
