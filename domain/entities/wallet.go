package entities

import (
	"time"
)

// Wallet holds a user's balance in centavos. Created lazily on first credit.
// The settlement engine only increments balances; debits belong to the
// withdrawal flows of the main application.
type Wallet struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
