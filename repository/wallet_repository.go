package repository

import (
	"context"
	"fmt"

	"zlpix/domain/entities"

	"github.com/jackc/pgx/v5"
)

// WalletRepository implements wallet data access
type WalletRepository struct {
	q Queryable
}

// NewWalletRepository creates a new wallet repository bound to a transaction
func NewWalletRepository(tx Queryable) *WalletRepository {
	return &WalletRepository{q: tx}
}

// GetOrCreate returns the user's wallet, creating an empty one if absent
func (r *WalletRepository) GetOrCreate(ctx context.Context, userID int64) (*entities.Wallet, error) {
	insert := `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("failed to create wallet for user %d: %w", userID, err)
	}

	wallet, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet for user %d missing after insert", userID)
	}
	return wallet, nil
}

// GetByUser returns the user's wallet, nil if absent
func (r *WalletRepository) GetByUser(ctx context.Context, userID int64) (*entities.Wallet, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`

	var wallet entities.Wallet
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}

	return &wallet, nil
}

// Credit atomically increments the wallet balance in a single statement and
// returns the balances before and after the credit
func (r *WalletRepository) Credit(ctx context.Context, userID int64, amount int64) (int64, int64, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $2,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING balance
	`

	var balanceAfter int64
	err := r.q.QueryRow(ctx, query, userID, amount).Scan(&balanceAfter)
	if err == pgx.ErrNoRows {
		return 0, 0, fmt.Errorf("wallet for user %d not found", userID)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to credit wallet for user %d: %w", userID, err)
	}

	return balanceAfter - amount, balanceAfter, nil
}
