package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// Capacity errors
	ErrInsufficientCapacity = errors.New("insufficient ticket capacity")
	ErrSoldOut              = errors.New("ticket is sold out")

	// Gate errors
	ErrInvalidCode  = errors.New("invalid private code")
	ErrCodeRequired = errors.New("private code required")
	ErrNotGated     = errors.New("ticket is not gated")

	// Workflow errors
	ErrIllegalTransition = errors.New("illegal booking status transition")
	ErrValidation        = errors.New("validation failed")

	// Cart errors
	ErrCartNotFound = errors.New("cart session not found")
	ErrEmptyCart    = errors.New("cart has no lines")
)

// SubmissionError reports a failed booking submission. When the cause is
// ErrInsufficientCapacity, TicketID names the line that lost the race so
// the purchaser can re-fetch remaining capacity and adjust.
type SubmissionError struct {
	TicketID int64
	Err      error
}

func (e *SubmissionError) Error() string {
	if e.TicketID != 0 {
		return fmt.Sprintf("submission failed on ticket %d: %v", e.TicketID, e.Err)
	}
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
