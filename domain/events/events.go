package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTicketWon   EventType = "ticket_won"
	EventTypeTicketLost  EventType = "ticket_lost"
	EventTypeDrawSettled EventType = "draw_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// TicketWonEvent notifies a user that one of their tickets won a prize
type TicketWonEvent struct {
	UserID         int64
	TicketID       int64
	DrawDate       time.Time
	PrizeAmount    int64 // centavos
	OfficialResult string
}

func (e TicketWonEvent) Type() EventType {
	return EventTypeTicketWon
}

// TicketLostEvent notifies a user that their tickets for a draw did not win
type TicketLostEvent struct {
	UserID         int64
	DrawDate       time.Time
	TicketCount    int
	OfficialResult string
}

func (e TicketLostEvent) Type() EventType {
	return EventTypeTicketLost
}

// DrawSettledEvent records the outcome of a settlement run
type DrawSettledEvent struct {
	DrawDate       time.Time
	OfficialResult string
	TicketCount    int
	WinnerCount    int
	PrizePerWinner int64
	PoolAfter      int64
	RolledOver     bool
}

func (e DrawSettledEvent) Type() EventType {
	return EventTypeDrawSettled
}
