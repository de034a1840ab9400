package postgres

import (
	"context"
	"errors"
	"fmt"

	"fxledger/internal/domain"

	"github.com/jackc/pgx/v5"
)

// LockAccount resolves the account by number and takes a row lock held
// until the transaction ends. Concurrent operations on the same account
// queue up here; different accounts proceed in parallel.
func (o *txOps) LockAccount(ctx context.Context, number string) (*domain.Account, error) {
	const q = `
        select id, account_number, holder_name, status, created_at
        from accounts
        where account_number = $1 and deleted_at is null
        for update;
    `
	return o.scanAccount(ctx, q, number)
}

func (o *txOps) FindAccount(ctx context.Context, number string) (*domain.Account, error) {
	const q = `
        select id, account_number, holder_name, status, created_at
        from accounts
        where account_number = $1 and deleted_at is null;
    `
	return o.scanAccount(ctx, q, number)
}

func (o *txOps) scanAccount(ctx context.Context, q string, number string) (*domain.Account, error) {
	var account domain.Account
	if err := o.tx.QueryRow(ctx, q, number).Scan(
		&account.ID,
		&account.Number,
		&account.HolderName,
		&account.Status,
		&account.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to select account %q: %w", number, err)
	}
	return &account, nil
}
