package repository

import (
	"context"
	"fmt"

	"zlpix/application"
	"zlpix/database"
	"zlpix/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface over a pgx transaction
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	poolBase               int64
	transactionalPublisher interfaces.TransactionalEventPublisher
	ticketRepo             interfaces.TicketRepository
	drawRepo               interfaces.DrawRepository
	walletRepo             interfaces.WalletRepository
	walletEntryRepo        interfaces.WalletEntryRepository
	prizePoolRepo          interfaces.PrizePoolRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	poolBase int64
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. poolBase is the
// prize pool's lazy-initialization default in centavos.
func NewUnitOfWorkFactory(db *database.DB, poolBase int64) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		poolBase: poolBase,
	}
}

// CreateWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		poolBase:               f.poolBase,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Bind repositories to the transaction
	u.ticketRepo = NewTicketRepository(tx)
	u.drawRepo = NewDrawRepository(tx)
	u.walletRepo = NewWalletRepository(tx)
	u.walletEntryRepo = NewWalletEntryRepository(tx)
	u.prizePoolRepo = NewPrizePoolRepository(tx, u.poolBase)

	return nil
}

// Commit commits the transaction and flushes pending events on success
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Events are best-effort after the database transaction has committed
	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// TicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	if u.ticketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ticketRepo
}

// DrawRepository returns the draw repository for this unit of work
func (u *unitOfWork) DrawRepository() interfaces.DrawRepository {
	if u.drawRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.drawRepo
}

// WalletRepository returns the wallet repository for this unit of work
func (u *unitOfWork) WalletRepository() interfaces.WalletRepository {
	if u.walletRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.walletRepo
}

// WalletEntryRepository returns the wallet ledger repository for this unit of work
func (u *unitOfWork) WalletEntryRepository() interfaces.WalletEntryRepository {
	if u.walletEntryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.walletEntryRepo
}

// PrizePoolRepository returns the prize pool repository for this unit of work
func (u *unitOfWork) PrizePoolRepository() interfaces.PrizePoolRepository {
	if u.prizePoolRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.prizePoolRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalPublisher
}
