package services

import (
	"errors"
	"fmt"
)

// Kind classifies domain errors. The HTTP layer maps each kind to a status code;
// anything that is not a ServiceError is treated as an infrastructure failure.
type Kind int

const (
	KindInternal Kind = iota
	KindPermissionDenied
	KindNotFound
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// ServiceError is an expected, user-facing failure.
type ServiceError struct {
	Kind    Kind
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

// Is matches on kind and message so wrapped sentinels compare with errors.Is.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func newError(kind Kind, msg string) *ServiceError {
	return &ServiceError{Kind: kind, Message: msg}
}

func PermissionDenied(format string, args ...any) error {
	return newError(KindPermissionDenied, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return newError(KindNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return newError(KindConflict, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...any) error {
	return newError(KindValidation, fmt.Sprintf(format, args...))
}

var (
	ErrPermissionDenied = newError(KindPermissionDenied, "permission denied")

	ErrEventNotFound      = newError(KindNotFound, "event not found")
	ErrUserNotFound       = newError(KindNotFound, "user not found")
	ErrRecipientNotFound  = newError(KindNotFound, "recipient not found")
	ErrInvitationNotFound = newError(KindNotFound, "invitation not found")
	ErrLinkNotFound       = newError(KindNotFound, "link not found")
	ErrItemNotFound       = newError(KindNotFound, "inventory item not found")
	ErrCategoryNotFound   = newError(KindNotFound, "category not found")

	ErrEventCancelled       = newError(KindConflict, "event is cancelled")
	ErrRsvpEventCancelled   = newError(KindConflict, "cannot RSVP to a cancelled event")
	ErrEventFull            = newError(KindConflict, "event is full")
	ErrInvitationExists     = newError(KindConflict, "invitation already exists")
	ErrInvitationFinal      = newError(KindConflict, "invitation can no longer be changed")
	ErrInvitationNotPending = newError(KindConflict, "only pending invitations can be cancelled")
	ErrInsufficientQuantity = newError(KindConflict, "quantity cannot go below zero")
	ErrLastOwner            = newError(KindConflict, "the last owner cannot be demoted")
)

// KindOf returns the kind of the first ServiceError in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsDomainError reports whether err carries a ServiceError.
func IsDomainError(err error) bool {
	return KindOf(err) != KindInternal
}

// PublicMessage is the text safe to show a user for err.
func PublicMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return "something went wrong, please retry"
}
