package repository

import (
	"context"
	"fmt"
	"time"

	"zlpix/domain/entities"

	"github.com/jackc/pgx/v5"
)

// DrawRepository implements draw lock-record data access
type DrawRepository struct {
	q Queryable
}

// NewDrawRepository creates a new draw repository bound to a transaction
func NewDrawRepository(tx Queryable) *DrawRepository {
	return &DrawRepository{q: tx}
}

// GetOrCreateByDate returns the draw record for a date, creating it if absent.
// Creation races on the unique draw_date constraint resolve to the existing row.
func (r *DrawRepository) GetOrCreateByDate(ctx context.Context, drawDate time.Time) (*entities.Draw, error) {
	insert := `
		INSERT INTO draws (draw_date)
		VALUES ($1)
		ON CONFLICT (draw_date) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, drawDate); err != nil {
		return nil, fmt.Errorf("failed to create draw for %s: %w", drawDate.Format("2006-01-02"), err)
	}

	draw, err := r.GetByDate(ctx, drawDate)
	if err != nil {
		return nil, err
	}
	if draw == nil {
		return nil, fmt.Errorf("draw for %s missing after insert", drawDate.Format("2006-01-02"))
	}
	return draw, nil
}

// GetByDate retrieves the draw record for a date, nil if absent
func (r *DrawRepository) GetByDate(ctx context.Context, drawDate time.Time) (*entities.Draw, error) {
	query := `
		SELECT id, draw_date, official_result, winner_count, prize_per_winner, settled_at, created_at
		FROM draws
		WHERE draw_date = $1
	`
	return r.scanDraw(r.q.QueryRow(ctx, query, drawDate), drawDate)
}

// GetByDateForUpdate retrieves the draw record with a row lock, nil if absent.
// Concurrent settlement attempts for the same date serialize here.
func (r *DrawRepository) GetByDateForUpdate(ctx context.Context, drawDate time.Time) (*entities.Draw, error) {
	query := `
		SELECT id, draw_date, official_result, winner_count, prize_per_winner, settled_at, created_at
		FROM draws
		WHERE draw_date = $1
		FOR UPDATE
	`
	return r.scanDraw(r.q.QueryRow(ctx, query, drawDate), drawDate)
}

// MarkSettled persists the settlement outcome. The settled_at IS NULL guard
// makes the settled transition exactly-once even without the row lock.
func (r *DrawRepository) MarkSettled(ctx context.Context, draw *entities.Draw) error {
	query := `
		UPDATE draws
		SET official_result = $2,
		    winner_count = $3,
		    prize_per_winner = $4,
		    settled_at = $5
		WHERE id = $1
		  AND settled_at IS NULL
	`

	result, err := r.q.Exec(ctx, query,
		draw.ID,
		draw.OfficialResult,
		draw.WinnerCount,
		draw.PrizePerWinner,
		draw.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mark draw %d settled: %w", draw.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("draw %d not found or already settled", draw.ID)
	}

	return nil
}

// GetPendingDates returns draw dates that have unsettled tickets due before
// the given time, oldest first
func (r *DrawRepository) GetPendingDates(ctx context.Context, before time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT draw_date
		FROM tickets
		WHERE settled_at IS NULL
		  AND status IN ('ACTIVE', 'PROCESSING')
		  AND draw_date <= $1
		ORDER BY draw_date ASC
	`

	rows, err := r.q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending draw dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan draw date: %w", err)
		}
		dates = append(dates, entities.NormalizeDrawDate(date))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draw dates: %w", err)
	}

	return dates, nil
}

func (r *DrawRepository) scanDraw(row pgx.Row, drawDate time.Time) (*entities.Draw, error) {
	var draw entities.Draw
	err := row.Scan(
		&draw.ID,
		&draw.DrawDate,
		&draw.OfficialResult,
		&draw.WinnerCount,
		&draw.PrizePerWinner,
		&draw.SettledAt,
		&draw.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw for %s: %w", drawDate.Format("2006-01-02"), err)
	}

	draw.DrawDate = entities.NormalizeDrawDate(draw.DrawDate)
	return &draw, nil
}
