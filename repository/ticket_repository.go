package repository

import (
	"context"
	"fmt"
	"time"

	"zlpix/domain/entities"

	"github.com/jackc/pgx/v5"
)

// TicketRepository implements ticket data access
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository bound to a transaction
func NewTicketRepository(tx Queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

const ticketColumns = `id, user_id, numbers, stake, draw_date, status, prize_amount, official_result, settled_at, created_at`

// Create persists a new ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		INSERT INTO tickets (user_id, numbers, stake, draw_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		ticket.UserID,
		ticket.Numbers,
		ticket.Stake,
		ticket.DrawDate,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// GetByID retrieves a ticket by its ID, nil if absent
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}
	return ticket, nil
}

// GetPendingForDraw returns all tickets awaiting settlement for a draw date.
// PROCESSING rows left behind by the legacy settlement path are included so
// they get resolved terminally.
func (r *TicketRepository) GetPendingForDraw(ctx context.Context, drawDate time.Time) ([]*entities.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE draw_date = $1
		  AND status IN ('ACTIVE', 'PROCESSING')
		ORDER BY id ASC
	`

	return r.queryTickets(ctx, query, drawDate)
}

// CountSettledForDraw returns how many tickets for a draw date are already settled
func (r *TicketRepository) CountSettledForDraw(ctx context.Context, drawDate time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE draw_date = $1
		  AND settled_at IS NOT NULL
	`

	var count int64
	if err := r.q.QueryRow(ctx, query, drawDate).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count settled tickets: %w", err)
	}
	return count, nil
}

// MarkWinner persists a winning ticket's terminal state. The settled_at IS
// NULL guard keeps a ticket from ever being settled twice.
func (r *TicketRepository) MarkWinner(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		UPDATE tickets
		SET status = $2,
		    prize_amount = $3,
		    official_result = $4,
		    settled_at = $5
		WHERE id = $1
		  AND settled_at IS NULL
	`

	result, err := r.q.Exec(ctx, query,
		ticket.ID,
		ticket.Status,
		ticket.PrizeAmount,
		ticket.OfficialResult,
		ticket.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mark ticket %d winner: %w", ticket.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %d not found or already settled", ticket.ID)
	}

	return nil
}

// MarkNotWinner bulk-updates tickets to NOT_WINNER. Idempotent: already
// settled tickets are skipped, so retries after partial failure are safe.
func (r *TicketRepository) MarkNotWinner(ctx context.Context, ids []int64, officialResult string, settledAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE tickets
		SET status = 'NOT_WINNER',
		    official_result = $2,
		    settled_at = $3
		WHERE id = ANY($1)
		  AND settled_at IS NULL
	`

	if _, err := r.q.Exec(ctx, query, ids, officialResult, settledAt); err != nil {
		return fmt.Errorf("failed to mark tickets not winner: %w", err)
	}

	return nil
}

// GetByUserForDraw returns a user's tickets for a draw date
func (r *TicketRepository) GetByUserForDraw(ctx context.Context, userID int64, drawDate time.Time) ([]*entities.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE user_id = $1
		  AND draw_date = $2
		ORDER BY id ASC
	`

	return r.queryTickets(ctx, query, userID, drawDate)
}

func (r *TicketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]*entities.Ticket, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var ticket entities.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Numbers,
		&ticket.Stake,
		&ticket.DrawDate,
		&ticket.Status,
		&ticket.PrizeAmount,
		&ticket.OfficialResult,
		&ticket.SettledAt,
		&ticket.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ticket.DrawDate = entities.NormalizeDrawDate(ticket.DrawDate)
	return &ticket, nil
}
