package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
)

var (
	ErrUserRequired       = fmt.Errorf("%w: user_id is required", ErrInvalidRequest)
	ErrReferenceRequired  = fmt.Errorf("%w: reference_id is required", ErrInvalidRequest)
	ErrUnknownPenaltyKind = fmt.Errorf("%w: unknown penalty kind", ErrInvalidRequest)
	ErrUserNotFound       = fmt.Errorf("user reputation %w", ErrNotFound)
)
