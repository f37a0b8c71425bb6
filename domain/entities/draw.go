package entities

import (
	"time"
)

// Draw is the per-date settlement record. It doubles as the lock row the
// settlement engine takes FOR UPDATE so that concurrent attempts for the
// same date serialize.
type Draw struct {
	ID             int64      `db:"id"`
	DrawDate       time.Time  `db:"draw_date"`
	OfficialResult *string    `db:"official_result"` // NULL until settled
	WinnerCount    int64      `db:"winner_count"`
	PrizePerWinner *int64     `db:"prize_per_winner"` // NULL when there were no winners
	SettledAt      *time.Time `db:"settled_at"`       // NULL until settled, set exactly once
	CreatedAt      time.Time  `db:"created_at"`
}

// IsSettled returns true if the draw has already been settled
func (d *Draw) IsSettled() bool {
	return d.SettledAt != nil
}

// Settle marks the draw as settled with the official result and outcome
func (d *Draw) Settle(officialResult string, winnerCount int64, prizePerWinner *int64, settledAt time.Time) {
	d.OfficialResult = &officialResult
	d.WinnerCount = winnerCount
	d.PrizePerWinner = prizePerWinner
	d.SettledAt = &settledAt
}

// NormalizeDrawDate truncates a timestamp to its UTC calendar date. All draw
// identity comparisons go through this so tickets and draws agree on the key.
func NormalizeDrawDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
