package postgres

import (
	"context"
	"fmt"

	"fxledger/internal/adapters"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements the ledger unit of work on top of a pgx pool. Each
// InTx call is one database transaction: the callback either commits as
// a whole or every row it touched is rolled back.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) InTx(ctx context.Context, fn func(ops adapters.LedgerOps) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err = fn(&txOps{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txOps carries the collaborator operations of one open transaction. Its
// methods live in account_repository.go, balance_store.go and
// transaction_log.go.
type txOps struct {
	tx pgx.Tx
}
