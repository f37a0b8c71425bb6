package repository

import (
	"context"
	"fmt"

	"zlpix/domain/entities"
)

// WalletEntryRepository implements the wallet ledger
type WalletEntryRepository struct {
	q Queryable
}

// NewWalletEntryRepository creates a new wallet entry repository bound to a transaction
func NewWalletEntryRepository(tx Queryable) *WalletEntryRepository {
	return &WalletEntryRepository{q: tx}
}

// Record appends a new ledger entry
func (r *WalletEntryRepository) Record(ctx context.Context, entry *entities.WalletEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid wallet entry: %w", err)
	}

	query := `
		INSERT INTO wallet_entries (user_id, amount, balance_before, balance_after, entry_type, ticket_id, draw_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.Amount,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.EntryType,
		entry.TicketID,
		entry.DrawDate,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record wallet entry: %w", err)
	}

	return nil
}

// GetByUser returns ledger entries for a user, newest first
func (r *WalletEntryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.WalletEntry, error) {
	query := `
		SELECT id, user_id, amount, balance_before, balance_after, entry_type, ticket_id, draw_date, created_at
		FROM wallet_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet entries for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*entities.WalletEntry
	for rows.Next() {
		var entry entities.WalletEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Amount,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.EntryType,
			&entry.TicketID,
			&entry.DrawDate,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet entries: %w", err)
	}

	return entries, nil
}
