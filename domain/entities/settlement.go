package entities

import (
	"time"
)

// SettlementResult summarizes one settlement run. It is ephemeral and never
// persisted; the durable outcome lives on the Draw and Ticket records.
type SettlementResult struct {
	DrawDate       time.Time
	OfficialResult string
	Dozens         []string // valid dozens derived from the official result
	TicketCount    int
	WinnerCount    int
	PrizePerWinner int64 // centavos, zero when there were no winners
	PoolBefore     int64
	PoolAfter      int64
	RolledOver     bool // true when no ticket matched and the pool carried over
	Resumed        bool // true when earlier partial settlement was detected
}

// HasWinners returns true if at least one ticket matched all three dozens
func (r *SettlementResult) HasWinners() bool {
	return r.WinnerCount > 0
}
