package services

import "errors"

var (
	// ErrInvalidOfficialNumbers means the official draw numbers were
	// malformed. Reported before any mutation; the caller can retry with
	// corrected input.
	ErrInvalidOfficialNumbers = errors.New("invalid official numbers")

	// ErrDrawAlreadySettled means the draw date was settled by an earlier
	// run. Benign under concurrent or duplicate triggers; callers treat it
	// as a no-op success.
	ErrDrawAlreadySettled = errors.New("draw already settled")

	// ErrNoTicketsForDraw means there are no pending tickets for the draw
	// date. Benign; the scheduled trigger skips the date.
	ErrNoTicketsForDraw = errors.New("no tickets for draw")

	// ErrTicketSalesClosed means the draw date is already settled or in the
	// past, so no further tickets can be placed for it.
	ErrTicketSalesClosed = errors.New("ticket sales closed for draw")
)
