package application

import (
	"context"
	"errors"
	"time"
)

// ErrResultUnavailable indicates the official result for a draw date has not
// been published yet. The worker skips the date and retries next tick.
var ErrResultUnavailable = errors.New("official result not available")

// DrawResultSource provides the five official lottery numbers for a draw date.
type DrawResultSource interface {
	Fetch(ctx context.Context, drawDate time.Time) ([]string, error)
}
