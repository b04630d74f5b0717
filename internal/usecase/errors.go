package usecase

import (
	"errors"

	"github.com/google/uuid"
)

// Error taxonomy shared by every lifecycle operation. These are expected,
// user-facing outcomes; handlers map them onto HTTP statuses and nothing
// here is ever fatal to the process.
var (
	// ErrForbidden: the actor lacks the capability the operation requires.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition: the entity is not in a state from which the
	// requested transition is legal.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrDuplicateRequest: the request would duplicate an existing open record.
	ErrDuplicateRequest = errors.New("duplicate request")
	// ErrNotFound: an entity reference does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrServiceUnavailable: a collaborator failed; the operation may be
	// retried.
	ErrServiceUnavailable = errors.New("service unavailable")

	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

// Actor is the authenticated caller as resolved by the identity layer. The
// admin capability travels with the actor; entity-level permissions are
// always re-derived from ownership, never from a client-supplied role.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}
