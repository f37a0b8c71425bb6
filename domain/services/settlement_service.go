package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zlpix/domain/entities"
	"zlpix/domain/events"
	"zlpix/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// settlementService implements the draw settlement engine
type settlementService struct {
	drawRepo        interfaces.DrawRepository
	ticketRepo      interfaces.TicketRepository
	walletRepo      interfaces.WalletRepository
	walletEntryRepo interfaces.WalletEntryRepository
	prizePoolRepo   interfaces.PrizePoolRepository
	eventPublisher  interfaces.EventPublisher
	poolBase        int64
	poolRollover    int64
}

// NewSettlementService creates a new settlement service. Pool amounts are in
// centavos. The repositories must all be bound to the same transaction.
func NewSettlementService(
	drawRepo interfaces.DrawRepository,
	ticketRepo interfaces.TicketRepository,
	walletRepo interfaces.WalletRepository,
	walletEntryRepo interfaces.WalletEntryRepository,
	prizePoolRepo interfaces.PrizePoolRepository,
	eventPublisher interfaces.EventPublisher,
	poolBase, poolRollover int64,
) interfaces.SettlementService {
	return &settlementService{
		drawRepo:        drawRepo,
		ticketRepo:      ticketRepo,
		walletRepo:      walletRepo,
		walletEntryRepo: walletEntryRepo,
		prizePoolRepo:   prizePoolRepo,
		eventPublisher:  eventPublisher,
		poolBase:        poolBase,
		poolRollover:    poolRollover,
	}
}

// SettleDraw settles all pending tickets for a draw date. The whole run
// shares the caller's transaction: the draw row lock serializes concurrent
// attempts for the same date, and every winner's credit, ledger entry and
// status change commit or roll back together.
func (s *settlementService) SettleDraw(ctx context.Context, drawDate time.Time, officialNumbers []string) (*entities.SettlementResult, error) {
	dozens, err := ExtractDozens(officialNumbers)
	if err != nil {
		return nil, err
	}
	officialResult := strings.Join(officialNumbers, "-")
	drawDate = entities.NormalizeDrawDate(drawDate)

	// Idempotency guard: the draw row is the lock record. A concurrent run
	// for the same date blocks on the row lock and then observes settled_at.
	if _, err := s.drawRepo.GetOrCreateByDate(ctx, drawDate); err != nil {
		return nil, fmt.Errorf("failed to get or create draw: %w", err)
	}
	draw, err := s.drawRepo.GetByDateForUpdate(ctx, drawDate)
	if err != nil {
		return nil, fmt.Errorf("failed to lock draw: %w", err)
	}
	if draw == nil {
		return nil, fmt.Errorf("draw for %s not found after creation", drawDate.Format("2006-01-02"))
	}
	if draw.IsSettled() {
		return nil, ErrDrawAlreadySettled
	}

	tickets, err := s.ticketRepo.GetPendingForDraw(ctx, drawDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending tickets: %w", err)
	}
	if len(tickets) == 0 {
		return nil, ErrNoTicketsForDraw
	}

	// A crash between per-ticket updates under the legacy path can leave a
	// mix of settled and pending tickets for an unsettled draw. The pending
	// remainder is the working set; settled tickets are never reprocessed.
	settledCount, err := s.ticketRepo.CountSettledForDraw(ctx, drawDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count settled tickets: %w", err)
	}
	resumed := settledCount > 0
	if resumed {
		log.WithFields(log.Fields{
			"drawDate":       drawDate.Format("2006-01-02"),
			"settledTickets": settledCount,
			"pendingTickets": len(tickets),
		}).Warn("Partial settlement detected, resuming with pending remainder")
	}

	dozenSet := make(map[string]bool, len(dozens))
	for _, dozen := range dozens {
		dozenSet[dozen] = true
	}

	var winners, losers []*entities.Ticket
	for _, ticket := range tickets {
		if ticket.MatchesDozens(dozenSet) {
			winners = append(winners, ticket)
		} else {
			losers = append(losers, ticket)
		}
	}

	// The pool row lock covers what the draw row lock does not: settlements
	// of different dates, and purchase accruals, all mutate this one row.
	pool, err := s.prizePoolRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read prize pool: %w", err)
	}

	now := time.Now().UTC()
	result := &entities.SettlementResult{
		DrawDate:       drawDate,
		OfficialResult: officialResult,
		Dozens:         dozens,
		TicketCount:    len(tickets),
		WinnerCount:    len(winners),
		PoolBefore:     pool,
		Resumed:        resumed,
	}

	if len(winners) == 0 {
		if err := s.settleWithoutWinners(ctx, draw, losers, officialResult, pool, now, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := s.settleWithWinners(ctx, draw, winners, losers, officialResult, pool, now, result); err != nil {
		return nil, err
	}
	return result, nil
}

// settleWithoutWinners marks every ticket NOT_WINNER and rolls the pool over
func (s *settlementService) settleWithoutWinners(
	ctx context.Context,
	draw *entities.Draw,
	tickets []*entities.Ticket,
	officialResult string,
	pool int64,
	now time.Time,
	result *entities.SettlementResult,
) error {
	ids := make([]int64, 0, len(tickets))
	for _, ticket := range tickets {
		ids = append(ids, ticket.ID)
	}
	if err := s.ticketRepo.MarkNotWinner(ctx, ids, officialResult, now); err != nil {
		return fmt.Errorf("failed to mark tickets not winner: %w", err)
	}

	poolAfter := pool + s.poolRollover
	if err := s.prizePoolRepo.Set(ctx, poolAfter); err != nil {
		return fmt.Errorf("failed to roll prize pool over: %w", err)
	}

	draw.Settle(officialResult, 0, nil, now)
	if err := s.drawRepo.MarkSettled(ctx, draw); err != nil {
		return fmt.Errorf("failed to mark draw settled: %w", err)
	}

	result.PoolAfter = poolAfter
	result.RolledOver = true

	s.queueLostEvents(draw.DrawDate, tickets, officialResult)
	s.queueDrawSettledEvent(result, poolAfter)

	log.WithFields(log.Fields{
		"drawDate":   draw.DrawDate.Format("2006-01-02"),
		"tickets":    len(tickets),
		"poolBefore": pool,
		"poolAfter":  poolAfter,
	}).Info("Draw settled without winners, pool rolled over")

	return nil
}

// settleWithWinners splits the pool among winners, credits wallets and
// resets the pool to its base amount plus the division remainder
func (s *settlementService) settleWithWinners(
	ctx context.Context,
	draw *entities.Draw,
	winners, losers []*entities.Ticket,
	officialResult string,
	pool int64,
	now time.Time,
	result *entities.SettlementResult,
) error {
	winnerCount := int64(len(winners))
	prizePerWinner := pool / winnerCount
	remainder := pool - prizePerWinner*winnerCount

	for _, ticket := range winners {
		if _, err := s.walletRepo.GetOrCreate(ctx, ticket.UserID); err != nil {
			return fmt.Errorf("failed to ensure wallet for user %d: %w", ticket.UserID, err)
		}

		balanceBefore, balanceAfter, err := s.walletRepo.Credit(ctx, ticket.UserID, prizePerWinner)
		if err != nil {
			return fmt.Errorf("failed to credit wallet for user %d: %w", ticket.UserID, err)
		}

		drawDate := draw.DrawDate
		entry := &entities.WalletEntry{
			UserID:        ticket.UserID,
			Amount:        prizePerWinner,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			EntryType:     entities.EntryTypePrizeCredit,
			TicketID:      &ticket.ID,
			DrawDate:      &drawDate,
		}
		if err := s.walletEntryRepo.Record(ctx, entry); err != nil {
			return fmt.Errorf("failed to record prize ledger entry: %w", err)
		}

		ticket.MarkWinner(prizePerWinner, officialResult, now)
		if err := s.ticketRepo.MarkWinner(ctx, ticket); err != nil {
			return fmt.Errorf("failed to mark ticket %d winner: %w", ticket.ID, err)
		}

		if err := s.eventPublisher.Publish(events.TicketWonEvent{
			UserID:         ticket.UserID,
			TicketID:       ticket.ID,
			DrawDate:       draw.DrawDate,
			PrizeAmount:    prizePerWinner,
			OfficialResult: officialResult,
		}); err != nil {
			log.WithError(err).WithField("ticketID", ticket.ID).Error("Failed to queue winner notification")
		}
	}

	loserIDs := make([]int64, 0, len(losers))
	for _, ticket := range losers {
		loserIDs = append(loserIDs, ticket.ID)
	}
	if err := s.ticketRepo.MarkNotWinner(ctx, loserIDs, officialResult, now); err != nil {
		return fmt.Errorf("failed to mark tickets not winner: %w", err)
	}

	poolAfter := s.poolBase + remainder
	if err := s.prizePoolRepo.Set(ctx, poolAfter); err != nil {
		return fmt.Errorf("failed to reset prize pool: %w", err)
	}

	draw.Settle(officialResult, winnerCount, &prizePerWinner, now)
	if err := s.drawRepo.MarkSettled(ctx, draw); err != nil {
		return fmt.Errorf("failed to mark draw settled: %w", err)
	}

	result.PrizePerWinner = prizePerWinner
	result.PoolAfter = poolAfter

	s.queueLostEvents(draw.DrawDate, losers, officialResult)
	s.queueDrawSettledEvent(result, poolAfter)

	log.WithFields(log.Fields{
		"drawDate":       draw.DrawDate.Format("2006-01-02"),
		"winners":        winnerCount,
		"prizePerWinner": prizePerWinner,
		"remainder":      remainder,
		"poolBefore":     pool,
		"poolAfter":      poolAfter,
	}).Info("Draw settled with winners")

	return nil
}

// queueLostEvents queues one lost notification per distinct owner
func (s *settlementService) queueLostEvents(drawDate time.Time, tickets []*entities.Ticket, officialResult string) {
	counts := make(map[int64]int)
	for _, ticket := range tickets {
		counts[ticket.UserID]++
	}

	for userID, count := range counts {
		if err := s.eventPublisher.Publish(events.TicketLostEvent{
			UserID:         userID,
			DrawDate:       drawDate,
			TicketCount:    count,
			OfficialResult: officialResult,
		}); err != nil {
			log.WithError(err).WithField("userID", userID).Error("Failed to queue loser notification")
		}
	}
}

func (s *settlementService) queueDrawSettledEvent(result *entities.SettlementResult, poolAfter int64) {
	if err := s.eventPublisher.Publish(events.DrawSettledEvent{
		DrawDate:       result.DrawDate,
		OfficialResult: result.OfficialResult,
		TicketCount:    result.TicketCount,
		WinnerCount:    result.WinnerCount,
		PrizePerWinner: result.PrizePerWinner,
		PoolAfter:      poolAfter,
		RolledOver:     result.WinnerCount == 0,
	}); err != nil {
		log.WithError(err).Error("Failed to queue draw settled event")
	}
}
