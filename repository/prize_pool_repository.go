package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// prizePoolID is the fixed key of the singleton pool row
const prizePoolID = 1

// PrizePoolRepository implements the accumulated-prize record
type PrizePoolRepository struct {
	q           Queryable
	baseDefault int64
}

// NewPrizePoolRepository creates a new prize pool repository bound to a
// transaction. baseDefault seeds the record when absent or malformed.
func NewPrizePoolRepository(tx Queryable, baseDefault int64) *PrizePoolRepository {
	return &PrizePoolRepository{
		q:           tx,
		baseDefault: baseDefault,
	}
}

// Get returns the current pool amount, lazily initializing the record to the
// base default when the row is absent or holds a non-positive value
func (r *PrizePoolRepository) Get(ctx context.Context) (int64, error) {
	query := `SELECT amount FROM prize_pool WHERE id = $1`

	var amount int64
	err := r.q.QueryRow(ctx, query, prizePoolID).Scan(&amount)
	if err == pgx.ErrNoRows || (err == nil && amount <= 0) {
		if err := r.Set(ctx, r.baseDefault); err != nil {
			return 0, err
		}
		return r.baseDefault, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get prize pool: %w", err)
	}

	return amount, nil
}

// GetForUpdate returns the pool amount with the row locked until the
// transaction ends, lazily initializing the record like Get. Settlement reads
// through this: the draw row lock only serializes runs for the same date, so
// the pool row lock is what keeps concurrent distributions of different dates
// (and purchase accruals) from reading the same pool.
func (r *PrizePoolRepository) GetForUpdate(ctx context.Context) (int64, error) {
	insert := `
		INSERT INTO prize_pool (id, amount, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, prizePoolID, r.baseDefault); err != nil {
		return 0, fmt.Errorf("failed to initialize prize pool: %w", err)
	}

	query := `SELECT amount FROM prize_pool WHERE id = $1 FOR UPDATE`

	var amount int64
	if err := r.q.QueryRow(ctx, query, prizePoolID).Scan(&amount); err != nil {
		return 0, fmt.Errorf("failed to lock prize pool: %w", err)
	}
	if amount <= 0 {
		if err := r.Set(ctx, r.baseDefault); err != nil {
			return 0, err
		}
		return r.baseDefault, nil
	}

	return amount, nil
}

// Set upserts the pool amount
func (r *PrizePoolRepository) Set(ctx context.Context, amount int64) error {
	query := `
		INSERT INTO prize_pool (id, amount, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET amount = EXCLUDED.amount,
		    updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, prizePoolID, amount); err != nil {
		return fmt.Errorf("failed to set prize pool: %w", err)
	}

	return nil
}

// Increment atomically adds to the pool amount, initializing the record to
// the base default first when absent
func (r *PrizePoolRepository) Increment(ctx context.Context, amount int64) error {
	insert := `
		INSERT INTO prize_pool (id, amount, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, prizePoolID, r.baseDefault); err != nil {
		return fmt.Errorf("failed to initialize prize pool: %w", err)
	}

	update := `
		UPDATE prize_pool
		SET amount = amount + $2,
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.q.Exec(ctx, update, prizePoolID, amount); err != nil {
		return fmt.Errorf("failed to increment prize pool: %w", err)
	}

	return nil
}
