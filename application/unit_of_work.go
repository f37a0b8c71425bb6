package application

import (
	"context"

	"zlpix/domain/interfaces"
)

// UnitOfWork represents one database transaction with repositories bound to
// it and an event bus whose messages are flushed only on commit
type UnitOfWork interface {
	// Begin starts the transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes queued events
	Commit() error

	// Rollback rolls back the transaction and discards queued events
	Rollback() error

	TicketRepository() interfaces.TicketRepository
	DrawRepository() interfaces.DrawRepository
	WalletRepository() interfaces.WalletRepository
	WalletEntryRepository() interfaces.WalletEntryRepository
	PrizePoolRepository() interfaces.PrizePoolRepository

	// EventBus returns the transactional event publisher for this unit of work
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
