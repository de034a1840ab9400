package ledger

import (
	"context"
	"fmt"
	"math"

	"fxledger/internal/adapters"
	"fxledger/internal/domain"

	"github.com/google/uuid"
)

// remainderTolerance is the absolute rounding slack on a withdrawal: a
// residual requirement at or below it counts as satisfied. Source
// balances whose converted value does not exceed it are skipped, which
// also guards the proportional draw against a near-zero divisor.
const remainderTolerance = 0.01

// Service orchestrates deposits, withdrawals and balance queries. Every
// mutating operation runs inside one store unit of work with the account
// row locked, so operations on the same account are serialized and
// failures leave no partial state.
type Service struct {
	store adapters.LedgerStore
	rates adapters.RateProvider
}

func NewService(store adapters.LedgerStore, rates adapters.RateProvider) *Service {
	return &Service{store: store, rates: rates}
}

func (s *Service) Deposit(ctx context.Context, accountNumber string, amount float64, currency string) (*DepositResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !s.rates.IsValidCurrency(currency) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, currency)
	}

	var res DepositResult
	err := s.store.InTx(ctx, func(ops adapters.LedgerOps) error {
		account, err := lockActiveAccount(ctx, ops, accountNumber)
		if err != nil {
			return err
		}

		newAmount, err := ops.AddToBalance(ctx, account.ID, currency, amount)
		if err != nil {
			return err
		}

		txn := &domain.Transaction{
			Reference:   uuid.New(),
			AccountID:   account.ID,
			Type:        domain.TransactionDeposit,
			Currency:    currency,
			Amount:      amount,
			Description: fmt.Sprintf("Deposit of %.2f %s", amount, currency),
		}
		if err = ops.AppendTransaction(ctx, txn); err != nil {
			return err
		}

		res = DepositResult{
			Transaction: *txn,
			NewBalance:  domain.Balance{AccountID: account.ID, Currency: currency, Amount: newAmount},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Service) Withdraw(ctx context.Context, accountNumber string, amount float64, currency string) (*WithdrawResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !s.rates.IsValidCurrency(currency) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, currency)
	}

	var res WithdrawResult
	err := s.store.InTx(ctx, func(ops adapters.LedgerOps) error {
		account, err := lockActiveAccount(ctx, ops, accountNumber)
		if err != nil {
			return err
		}

		available, err := ops.Balance(ctx, account.ID, currency)
		if err != nil {
			return err
		}

		var conversions []domain.ConversionStep
		if available >= amount {
			if _, err = ops.AddToBalance(ctx, account.ID, currency, -amount); err != nil {
				return err
			}
		} else {
			conversions, err = s.convertForWithdrawal(ctx, ops, account, amount, currency, available)
			if err != nil {
				return err
			}
		}

		txn := &domain.Transaction{
			Reference:   uuid.New(),
			AccountID:   account.ID,
			Type:        domain.TransactionWithdrawal,
			Currency:    currency,
			Amount:      amount,
			Conversions: conversions,
			Description: fmt.Sprintf("Withdrawal of %.2f %s", amount, currency),
		}
		if err = ops.AppendTransaction(ctx, txn); err != nil {
			return err
		}

		remaining, err := ops.PositiveBalances(ctx, account.ID)
		if err != nil {
			return err
		}

		res = WithdrawResult{
			Transaction:       *txn,
			ConversionApplied: len(conversions) > 0,
			Conversions:       conversions,
			RemainingBalances: remaining,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// convertForWithdrawal drains the account's other currency balances, in
// ascending currency-code order, converting each through BRL into the
// target currency until the requested amount is covered. Each source
// balance is drawn proportionally: only the fraction actually needed is
// debited. Returns ErrInsufficientFunds when every balance is exhausted
// and a residual above the tolerance remains.
func (s *Service) convertForWithdrawal(
	ctx context.Context,
	ops adapters.LedgerOps,
	account *domain.Account,
	requiredAmount float64,
	targetCurrency string,
	availableInTarget float64,
) ([]domain.ConversionStep, error) {
	conversions := make([]domain.ConversionStep, 0, 4)
	remaining := requiredAmount - availableInTarget

	// Drain the target-currency balance first.
	if availableInTarget > 0 {
		if _, err := ops.AddToBalance(ctx, account.ID, targetCurrency, -availableInTarget); err != nil {
			return nil, err
		}
		conversions = append(conversions, domain.ConversionStep{
			FromCurrency: targetCurrency,
			FromAmount:   availableInTarget,
			ToCurrency:   targetCurrency,
			ToAmount:     availableInTarget,
			Rate:         1.0,
		})
	}

	balances, err := ops.PositiveBalances(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	for _, balance := range balances {
		if balance.Currency == targetCurrency {
			continue
		}
		if remaining <= remainderTolerance {
			break
		}

		brlAmount, err := s.rates.ConvertToBRL(ctx, balance.Amount, balance.Currency)
		if err != nil {
			return nil, err
		}
		convertedAvailable, err := s.rates.ConvertFromBRL(ctx, brlAmount, targetCurrency)
		if err != nil {
			return nil, err
		}
		if convertedAvailable <= remainderTolerance {
			continue
		}

		amountToUse := math.Min(convertedAvailable, remaining)
		originalAmountUsed := amountToUse / convertedAvailable * balance.Amount

		if _, err = ops.AddToBalance(ctx, account.ID, balance.Currency, -originalAmountUsed); err != nil {
			return nil, err
		}

		conversions = append(conversions, domain.ConversionStep{
			FromCurrency:    balance.Currency,
			FromAmount:      round2(originalAmountUsed),
			IntermediateBRL: round2(brlAmount * (originalAmountUsed / balance.Amount)),
			ToCurrency:      targetCurrency,
			ToAmount:        round2(amountToUse),
		})
		remaining -= amountToUse
	}

	if remaining > remainderTolerance {
		return nil, fmt.Errorf("%w: %.2f %s still uncovered", domain.ErrInsufficientFunds, remaining, targetCurrency)
	}
	return conversions, nil
}

// Balances returns every strictly positive balance of the account.
func (s *Service) Balances(ctx context.Context, accountNumber string) ([]domain.Balance, error) {
	var balances []domain.Balance
	err := s.store.InTx(ctx, func(ops adapters.LedgerOps) error {
		account, err := findActiveAccount(ctx, ops, accountNumber)
		if err != nil {
			return err
		}
		balances, err = ops.PositiveBalances(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

// BalanceIn values every positive balance in the requested currency,
// bridging through BRL, and returns the total with a per-currency
// breakdown. Pure read: nothing is mutated and no record is written.
func (s *Service) BalanceIn(ctx context.Context, accountNumber, currency string) (*ConvertedBalanceSummary, error) {
	if !s.rates.IsValidCurrency(currency) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, currency)
	}

	var summary ConvertedBalanceSummary
	err := s.store.InTx(ctx, func(ops adapters.LedgerOps) error {
		account, err := findActiveAccount(ctx, ops, accountNumber)
		if err != nil {
			return err
		}
		balances, err := ops.PositiveBalances(ctx, account.ID)
		if err != nil {
			return err
		}

		summary = ConvertedBalanceSummary{Currency: currency, Details: make([]ConvertedBalance, 0, len(balances))}
		total := 0.0
		for _, balance := range balances {
			converted := balance.Amount
			if balance.Currency != currency {
				brlAmount, convErr := s.rates.ConvertToBRL(ctx, balance.Amount, balance.Currency)
				if convErr != nil {
					return convErr
				}
				converted, convErr = s.rates.ConvertFromBRL(ctx, brlAmount, currency)
				if convErr != nil {
					return convErr
				}
			}
			total += converted
			summary.Details = append(summary.Details, ConvertedBalance{
				Currency:  balance.Currency,
				Amount:    balance.Amount,
				Converted: round2(converted),
			})
		}
		summary.Total = round2(total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func lockActiveAccount(ctx context.Context, ops adapters.LedgerOps, number string) (*domain.Account, error) {
	account, err := ops.LockAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: account %s is %s", domain.ErrAccountInactive, number, account.Status)
	}
	return account, nil
}

func findActiveAccount(ctx context.Context, ops adapters.LedgerOps, number string) (*domain.Account, error) {
	account, err := ops.FindAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: account %s is %s", domain.ErrAccountInactive, number, account.Status)
	}
	return account, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
