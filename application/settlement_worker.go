package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"zlpix/domain/entities"
	"zlpix/domain/services"

	log "github.com/sirupsen/logrus"
)

// AdvisoryLock is an optional cross-instance guard on a draw date. A nil
// implementation always acquires.
type AdvisoryLock interface {
	TryAcquire(ctx context.Context, drawDate time.Time) bool
	Release(ctx context.Context, drawDate time.Time)
}

// SettlementWorker periodically settles due draws. Each tick it lists draw
// dates that have unsettled tickets, fetches the official result for each,
// and runs settlement in its own transaction.
type SettlementWorker struct {
	uowFactory    UnitOfWorkFactory
	resultSource  DrawResultSource
	advisoryLock  AdvisoryLock
	poolBase      int64
	poolRollover  int64
	checkInterval time.Duration
	stopChan      chan struct{}
	wg            sync.WaitGroup
}

// NewSettlementWorker creates a new settlement worker
func NewSettlementWorker(
	uowFactory UnitOfWorkFactory,
	resultSource DrawResultSource,
	advisoryLock AdvisoryLock,
	poolBase int64,
	poolRollover int64,
	checkInterval time.Duration,
) *SettlementWorker {
	return &SettlementWorker{
		uowFactory:    uowFactory,
		resultSource:  resultSource,
		advisoryLock:  advisoryLock,
		poolBase:      poolBase,
		poolRollover:  poolRollover,
		checkInterval: checkInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the worker's periodic settlement checks
func (w *SettlementWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
	log.WithField("interval", w.checkInterval).Info("Settlement worker started")
}

// Stop gracefully stops the worker
func (w *SettlementWorker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	log.Info("Settlement worker stopped")
}

func (w *SettlementWorker) run(ctx context.Context) {
	defer w.wg.Done()

	// Check immediately on startup, then on the interval
	w.settleDueDraws(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-time.After(w.checkInterval):
			w.settleDueDraws(ctx)
		}
	}
}

// settleDueDraws finds draw dates with pending tickets and settles each one
func (w *SettlementWorker) settleDueDraws(ctx context.Context) {
	dates, err := w.pendingDates(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list pending draw dates")
		return
	}

	for _, date := range dates {
		if w.advisoryLock != nil && !w.advisoryLock.TryAcquire(ctx, date) {
			log.WithField("drawDate", date.Format("2006-01-02")).
				Debug("Draw date claimed by another instance, skipping")
			continue
		}

		w.settleOne(ctx, date)

		if w.advisoryLock != nil {
			w.advisoryLock.Release(ctx, date)
		}
	}
}

// pendingDates lists due draw dates inside a short read-only transaction
func (w *SettlementWorker) pendingDates(ctx context.Context) ([]time.Time, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	today := entities.NormalizeDrawDate(time.Now())
	return uow.DrawRepository().GetPendingDates(ctx, today)
}

func (w *SettlementWorker) settleOne(ctx context.Context, drawDate time.Time) {
	logger := log.WithField("drawDate", drawDate.Format("2006-01-02"))

	numbers, err := w.resultSource.Fetch(ctx, drawDate)
	if err != nil {
		if errors.Is(err, ErrResultUnavailable) {
			logger.Info("Official result not published yet, will retry")
		} else {
			logger.WithError(err).Error("Failed to fetch official result")
		}
		return
	}

	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		logger.WithError(err).Error("Failed to begin settlement transaction")
		return
	}

	service := services.NewSettlementService(
		uow.DrawRepository(),
		uow.TicketRepository(),
		uow.WalletRepository(),
		uow.WalletEntryRepository(),
		uow.PrizePoolRepository(),
		uow.EventBus(),
		w.poolBase,
		w.poolRollover,
	)

	result, err := service.SettleDraw(ctx, drawDate, numbers)
	if err != nil {
		uow.Rollback()

		switch {
		case errors.Is(err, services.ErrDrawAlreadySettled):
			logger.Info("Draw already settled")
		case errors.Is(err, services.ErrNoTicketsForDraw):
			logger.Info("No tickets to settle")
		default:
			logger.WithError(err).Error("Settlement failed, will retry next tick")
		}
		return
	}

	if err := uow.Commit(); err != nil {
		logger.WithError(err).Error("Failed to commit settlement")
		return
	}

	logger.WithFields(log.Fields{
		"ticketCount": result.TicketCount,
		"winnerCount": result.WinnerCount,
		"poolAfter":   result.PoolAfter,
		"rolledOver":  result.RolledOver,
	}).Info("Draw settled")
}
