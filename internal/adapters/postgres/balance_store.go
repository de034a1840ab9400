package postgres

import (
	"context"
	"errors"
	"fmt"

	"fxledger/internal/domain"

	"github.com/jackc/pgx/v5"
)

func (o *txOps) Balance(ctx context.Context, accountID int64, currency string) (float64, error) {
	const q = `select amount from balances where account_id = $1 and currency = $2;`

	var amount float64
	if err := o.tx.QueryRow(ctx, q, accountID, currency).Scan(&amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to select balance %d/%s: %w", accountID, currency, err)
	}
	return amount, nil
}

func (o *txOps) AddToBalance(ctx context.Context, accountID int64, currency string, delta float64) (float64, error) {
	const q = `
        insert into balances (account_id, currency, amount)
        values ($1, $2, $3)
        on conflict (account_id, currency) do update
          set amount = balances.amount + excluded.amount, updated_at = now()
        returning amount;
    `

	var amount float64
	if err := o.tx.QueryRow(ctx, q, accountID, currency, delta).Scan(&amount); err != nil {
		return 0, fmt.Errorf("failed to upsert balance %d/%s: %w", accountID, currency, err)
	}
	return amount, nil
}

func (o *txOps) PositiveBalances(ctx context.Context, accountID int64) ([]domain.Balance, error) {
	const q = `
        select account_id, currency, amount
        from balances
        where account_id = $1 and amount > 0
        order by currency;
    `

	rows, err := o.tx.Query(ctx, q, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances for account %d: %w", accountID, err)
	}
	defer rows.Close()

	balances := make([]domain.Balance, 0, 8)
	for rows.Next() {
		var b domain.Balance
		if err = rows.Scan(&b.AccountID, &b.Currency, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balances: %w", err)
	}
	return balances, nil
}
