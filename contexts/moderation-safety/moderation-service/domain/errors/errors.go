package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid state")
	ErrValidation          = errors.New("validation failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrIdempotencyConflict = errors.New("idempotency key reused with different request")
)

var (
	ErrQueueItemNotFound = fmt.Errorf("queue item %w", ErrNotFound)
	ErrActionNotFound    = fmt.Errorf("moderation action %w", ErrNotFound)
	ErrAppealNotFound    = fmt.Errorf("appeal %w", ErrNotFound)
	ErrFilterNotFound    = fmt.Errorf("filter %w", ErrNotFound)

	ErrNotAppealable   = fmt.Errorf("%w: action is not appealable", ErrInvalidState)
	ErrAlreadyAppealed = fmt.Errorf("%w: action already appealed", ErrInvalidState)
	ErrItemDecided     = fmt.Errorf("%w: queue item already decided", ErrInvalidState)
	ErrItemAssigned    = fmt.Errorf("%w: queue item assigned to another moderator", ErrInvalidState)
	ErrDuplicateReport = fmt.Errorf("%w: content already reported by user", ErrInvalidState)
	ErrAppealClosed    = fmt.Errorf("%w: appeal already resolved", ErrInvalidState)
	ErrAlreadyReversed = fmt.Errorf("%w: action already reversed", ErrInvalidState)

	ErrFilterExists = fmt.Errorf("%w: filter name already exists", ErrConflict)
)

// Upstream wraps store/transport failures that are not already domain errors.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrNotFound,
		ErrInvalidState,
		ErrValidation,
		ErrUpstreamUnavailable,
		ErrForbidden,
		ErrConflict,
		ErrIdempotencyConflict,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}
