package services

import (
	"context"
	"fmt"
	"time"

	"zlpix/domain/entities"
	"zlpix/domain/interfaces"
)

// ticketService implements ticket placement for upcoming draws
type ticketService struct {
	ticketRepo    interfaces.TicketRepository
	drawRepo      interfaces.DrawRepository
	prizePoolRepo interfaces.PrizePoolRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo interfaces.TicketRepository,
	drawRepo interfaces.DrawRepository,
	prizePoolRepo interfaces.PrizePoolRepository,
) interfaces.TicketService {
	return &ticketService{
		ticketRepo:    ticketRepo,
		drawRepo:      drawRepo,
		prizePoolRepo: prizePoolRepo,
	}
}

// PlaceTicket creates an ACTIVE ticket and accrues the stake into the pool.
// Payment confirmation happens upstream; callers only reach this once the
// PIX charge is settled.
func (s *ticketService) PlaceTicket(ctx context.Context, userID int64, numbers []string, stake int64, drawDate time.Time) (*entities.Ticket, error) {
	if err := entities.ValidateNumbers(numbers); err != nil {
		return nil, err
	}
	if stake <= 0 {
		return nil, fmt.Errorf("stake must be positive, got %d", stake)
	}

	drawDate = entities.NormalizeDrawDate(drawDate)
	if drawDate.Before(entities.NormalizeDrawDate(time.Now())) {
		return nil, ErrTicketSalesClosed
	}

	draw, err := s.drawRepo.GetOrCreateByDate(ctx, drawDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create draw: %w", err)
	}
	if draw.IsSettled() {
		return nil, ErrTicketSalesClosed
	}

	ticket := &entities.Ticket{
		UserID:   userID,
		Numbers:  numbers,
		Stake:    stake,
		DrawDate: drawDate,
		Status:   entities.TicketStatusActive,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if err := s.prizePoolRepo.Increment(ctx, stake); err != nil {
		return nil, fmt.Errorf("failed to accrue stake into prize pool: %w", err)
	}

	return ticket, nil
}

// GetUserTickets returns the user's tickets for a draw date
func (s *ticketService) GetUserTickets(ctx context.Context, userID int64, drawDate time.Time) ([]*entities.Ticket, error) {
	tickets, err := s.ticketRepo.GetByUserForDraw(ctx, userID, entities.NormalizeDrawDate(drawDate))
	if err != nil {
		return nil, fmt.Errorf("failed to get user tickets: %w", err)
	}
	return tickets, nil
}
