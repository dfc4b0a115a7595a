// Package common defines shared constants and sentinel errors used across
// GophVote server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Auth errors (malformed, tampered or expired token).
	ErrInvalidToken = errors.New("invalid token")

	// Lifecycle errors.
	ErrEditWindowClosed = errors.New("edit window closed")
	ErrVotingNotOpen    = errors.New("voting not open")

	// Ledger errors.
	ErrDuplicatedVote = errors.New("duplicated vote")
	ErrUnknownTopic   = fmt.Errorf("%w: unknown topic", ErrNotFound)
	ErrUnknownOption  = fmt.Errorf("%w: unknown option", ErrNotFound)
)
