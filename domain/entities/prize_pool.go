package entities

import (
	"time"
)

// PrizePool is the singleton accumulated-prize record, in centavos. It is
// reset to the base amount (plus any division remainder) after a draw with
// winners and incremented by the rollover amount after a draw without.
type PrizePool struct {
	Amount    int64     `db:"amount"`
	UpdatedAt time.Time `db:"updated_at"`
}
