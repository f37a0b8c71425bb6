package interfaces

import (
	"context"
	"time"

	"zlpix/domain/entities"
	"zlpix/domain/events"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a transaction. Flush is
// called after a successful commit, Discard on rollback, so notification
// intents never outlive a failed settlement.
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all buffered events
	Flush(ctx context.Context) error

	// Discard drops all buffered events without publishing
	Discard()
}

// SettlementService performs the once-per-draw-date transition of pending
// tickets into terminal states with exactly-once prize distribution
type SettlementService interface {
	// SettleDraw settles all pending tickets for a draw date against the
	// official numbers. Must run inside a unit-of-work transaction; the
	// caller owns commit and rollback.
	//
	// Returns ErrInvalidOfficialNumbers before any mutation on malformed
	// input, ErrDrawAlreadySettled when the date was settled earlier, and
	// ErrNoTicketsForDraw when there is nothing to settle.
	SettleDraw(ctx context.Context, drawDate time.Time, officialNumbers []string) (*entities.SettlementResult, error)
}

// TicketService handles ticket placement for upcoming draws
type TicketService interface {
	// PlaceTicket creates an ACTIVE ticket for the given user and draw date
	// and accrues the stake into the prize pool
	PlaceTicket(ctx context.Context, userID int64, numbers []string, stake int64, drawDate time.Time) (*entities.Ticket, error)

	// GetUserTickets returns the user's tickets for a draw date
	GetUserTickets(ctx context.Context, userID int64, drawDate time.Time) ([]*entities.Ticket, error)
}
