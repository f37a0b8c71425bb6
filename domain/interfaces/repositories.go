package interfaces

import (
	"context"
	"time"

	"zlpix/domain/entities"
)

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create persists a new ticket
	Create(ctx context.Context, ticket *entities.Ticket) error

	// GetByID retrieves a ticket by its ID
	GetByID(ctx context.Context, id int64) (*entities.Ticket, error)

	// GetPendingForDraw returns all tickets still awaiting settlement for a
	// draw date (status ACTIVE, plus PROCESSING rows left by the legacy path)
	GetPendingForDraw(ctx context.Context, drawDate time.Time) ([]*entities.Ticket, error)

	// CountSettledForDraw returns how many tickets for a draw date already
	// carry a settled_at timestamp
	CountSettledForDraw(ctx context.Context, drawDate time.Time) (int64, error)

	// MarkWinner persists a winning ticket's terminal state
	MarkWinner(ctx context.Context, ticket *entities.Ticket) error

	// MarkNotWinner bulk-updates the given tickets to NOT_WINNER. Idempotent
	// and order-independent; safe to retry on partial failure.
	MarkNotWinner(ctx context.Context, ids []int64, officialResult string, settledAt time.Time) error

	// GetByUserForDraw returns a user's tickets for a draw date
	GetByUserForDraw(ctx context.Context, userID int64, drawDate time.Time) ([]*entities.Ticket, error)
}

// DrawRepository defines the interface for draw lock-record data access
type DrawRepository interface {
	// GetOrCreateByDate returns the draw record for a date, creating it if absent
	GetOrCreateByDate(ctx context.Context, drawDate time.Time) (*entities.Draw, error)

	// GetByDate retrieves the draw record for a date, nil if absent
	GetByDate(ctx context.Context, drawDate time.Time) (*entities.Draw, error)

	// GetByDateForUpdate retrieves the draw record with a row lock, nil if absent
	GetByDateForUpdate(ctx context.Context, drawDate time.Time) (*entities.Draw, error)

	// MarkSettled persists the draw's settlement outcome. Fails if the draw
	// was already settled, making the settled transition exactly-once.
	MarkSettled(ctx context.Context, draw *entities.Draw) error

	// GetPendingDates returns draw dates with unsettled tickets due before
	// the given time, oldest first
	GetPendingDates(ctx context.Context, before time.Time) ([]time.Time, error)
}

// WalletRepository defines the interface for wallet data access
type WalletRepository interface {
	// GetOrCreate returns the user's wallet, creating an empty one if absent
	GetOrCreate(ctx context.Context, userID int64) (*entities.Wallet, error)

	// GetByUser returns the user's wallet, nil if absent
	GetByUser(ctx context.Context, userID int64) (*entities.Wallet, error)

	// Credit atomically increments the wallet balance and returns the
	// balances before and after the credit
	Credit(ctx context.Context, userID int64, amount int64) (balanceBefore, balanceAfter int64, err error)
}

// WalletEntryRepository defines the interface for the wallet ledger
type WalletEntryRepository interface {
	// Record appends a new ledger entry
	Record(ctx context.Context, entry *entities.WalletEntry) error

	// GetByUser returns ledger entries for a user, newest first
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.WalletEntry, error)
}

// PrizePoolRepository defines the interface for the accumulated-prize record
type PrizePoolRepository interface {
	// Get returns the current pool amount, lazily initializing the record to
	// the base default when absent or malformed
	Get(ctx context.Context) (int64, error)

	// GetForUpdate returns the pool amount with the row locked until the
	// transaction ends. Settlement reads through this so distributions of
	// different draw dates serialize instead of splitting the same pool.
	GetForUpdate(ctx context.Context) (int64, error)

	// Set upserts the pool amount
	Set(ctx context.Context, amount int64) error

	// Increment atomically adds to the pool amount, initializing the record
	// to the base default first when absent
	Increment(ctx context.Context, amount int64) error
}
