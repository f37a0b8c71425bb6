package entities

import (
	"fmt"
	"time"
)

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

const (
	// TicketStatusActive is the initial state once payment is confirmed
	TicketStatusActive TicketStatus = "ACTIVE"
	// TicketStatusProcessing is written only by the legacy settlement path;
	// the engine treats it as pending work and never produces it
	TicketStatusProcessing TicketStatus = "PROCESSING"
	// TicketStatusWinner is terminal: the ticket matched all three dozens
	TicketStatusWinner TicketStatus = "WINNER"
	// TicketStatusNotWinner is terminal: the ticket did not match
	TicketStatusNotWinner TicketStatus = "NOT_WINNER"
)

// TicketNumberCount is the exact number of dozens a ticket carries
const TicketNumberCount = 3

// Ticket represents a purchased bet on three dozens for a specific draw date.
// Amounts are in centavos.
type Ticket struct {
	ID             int64        `db:"id"`
	UserID         int64        `db:"user_id"`
	Numbers        []string     `db:"numbers"`
	Stake          int64        `db:"stake"`
	DrawDate       time.Time    `db:"draw_date"`
	Status         TicketStatus `db:"status"`
	PrizeAmount    *int64       `db:"prize_amount"`    // set only when status becomes WINNER
	OfficialResult *string      `db:"official_result"` // raw 5-number official string, set at settlement
	SettledAt      *time.Time   `db:"settled_at"`      // set exactly once, at settlement
	CreatedAt      time.Time    `db:"created_at"`
}

// IsSettled returns true if the ticket has reached a terminal state
func (t *Ticket) IsSettled() bool {
	return t.SettledAt != nil
}

// IsPending returns true if the ticket still awaits settlement
func (t *Ticket) IsPending() bool {
	return t.Status == TicketStatusActive || t.Status == TicketStatusProcessing
}

// MatchesDozens returns true if every one of the ticket's dozens is present
// in the valid-dozens set derived from the official result
func (t *Ticket) MatchesDozens(dozens map[string]bool) bool {
	for _, number := range t.Numbers {
		if !dozens[number] {
			return false
		}
	}
	return true
}

// MarkWinner transitions the ticket to WINNER with its prize amount
func (t *Ticket) MarkWinner(prizeAmount int64, officialResult string, settledAt time.Time) {
	t.Status = TicketStatusWinner
	t.PrizeAmount = &prizeAmount
	t.OfficialResult = &officialResult
	t.SettledAt = &settledAt
}

// MarkNotWinner transitions the ticket to NOT_WINNER
func (t *Ticket) MarkNotWinner(officialResult string, settledAt time.Time) {
	t.Status = TicketStatusNotWinner
	t.OfficialResult = &officialResult
	t.SettledAt = &settledAt
}

// ValidateNumbers checks that a ticket's picks are exactly three distinct
// two-digit dozens ("00" through "99")
func ValidateNumbers(numbers []string) error {
	if len(numbers) != TicketNumberCount {
		return fmt.Errorf("ticket must have exactly %d numbers, got %d", TicketNumberCount, len(numbers))
	}

	seen := make(map[string]bool, TicketNumberCount)
	for _, number := range numbers {
		if !isDozen(number) {
			return fmt.Errorf("invalid dozen %q: must be two digits", number)
		}
		if seen[number] {
			return fmt.Errorf("duplicate dozen %q", number)
		}
		seen[number] = true
	}

	return nil
}

func isDozen(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
