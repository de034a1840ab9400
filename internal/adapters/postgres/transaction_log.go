package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"fxledger/internal/domain"
)

// AppendTransaction writes one immutable audit record. Conversion steps,
// when present, are stored as a jsonb document.
func (o *txOps) AppendTransaction(ctx context.Context, t *domain.Transaction) error {
	const q = `
        insert into transactions (reference, account_id, type, currency, amount, conversion_details, description)
        values ($1, $2, $3, $4, $5, $6, $7)
        returning id, created_at;
    `

	var details any
	if len(t.Conversions) > 0 {
		payload, err := json.Marshal(t.Conversions)
		if err != nil {
			return fmt.Errorf("failed to marshal conversion steps: %w", err)
		}
		details = json.RawMessage(payload)
	}

	if err := o.tx.QueryRow(ctx, q,
		t.Reference,
		t.AccountID,
		t.Type,
		t.Currency,
		t.Amount,
		details,
		t.Description,
	).Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert transaction for account %d: %w", t.AccountID, err)
	}
	return nil
}
