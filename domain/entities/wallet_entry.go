package entities

import (
	"errors"
	"time"
)

// EntryType classifies a wallet ledger entry
type EntryType string

const (
	// EntryTypePrizeCredit is a prize payout credited by the settlement engine
	EntryTypePrizeCredit EntryType = "prize_credit"
)

// WalletEntry is an append-only ledger record of a balance change
type WalletEntry struct {
	ID            int64      `db:"id"`
	UserID        int64      `db:"user_id"`
	Amount        int64      `db:"amount"`
	BalanceBefore int64      `db:"balance_before"`
	BalanceAfter  int64      `db:"balance_after"`
	EntryType     EntryType  `db:"entry_type"`
	TicketID      *int64     `db:"ticket_id"`
	DrawDate      *time.Time `db:"draw_date"`
	CreatedAt     time.Time  `db:"created_at"`
}

// Validate performs basic consistency checks on the entry
func (e *WalletEntry) Validate() error {
	if e.Amount == 0 {
		return errors.New("entry amount cannot be zero")
	}

	if e.BalanceAfter != e.BalanceBefore+e.Amount {
		return errors.New("balance calculation is inconsistent")
	}

	return nil
}
