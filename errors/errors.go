package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Categories. Concrete errors wrap one of them so callers can match either
// the precise failure or its family with errors.Is.
var (
	ErrValidation = fmt.Errorf("validation error")
	ErrIdentity   = fmt.Errorf("identity error")
)

var (
	ErrEmptyContent     = fmt.Errorf("%w: message content is empty", ErrValidation)
	ErrContentTooLong   = fmt.Errorf("%w: message content is too long", ErrValidation)
	ErrSelfMessage      = fmt.Errorf("%w: cannot send a message to yourself", ErrValidation)
	ErrInvalidRequest   = fmt.Errorf("%w: invalid request", ErrValidation)
	ErrUnknownUser      = fmt.Errorf("%w: user not found", ErrIdentity)
	ErrUnknownRecipient = fmt.Errorf("recipient not found: %w", ErrUnknownUser)
	ErrUnauthenticated  = fmt.Errorf("unauthenticated")
	ErrStoreUnavailable = fmt.Errorf("message store unavailable")
	ErrRateLimited      = fmt.Errorf("rate limit exceeded")
	ErrTokenGeneration  = fmt.Errorf("token generation failed")
	ErrWorkerPanic      = fmt.Errorf("worker panic")
)

// Reason is a stable machine-readable code returned to API clients.
type Reason string

const (
	ReasonEmptyContent     Reason = "empty_content"
	ReasonContentTooLong   Reason = "content_too_long"
	ReasonSelfMessage      Reason = "self_message"
	ReasonInvalidRequest   Reason = "invalid_request"
	ReasonUnknownRecipient Reason = "unknown_recipient"
	ReasonUnknownUser      Reason = "unknown_user"
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonRateLimited      Reason = "rate_limited"
	ReasonStoreUnavailable Reason = "store_unavailable"
	ReasonInternal         Reason = "internal"
)

type mapping struct {
	err    error
	reason Reason
	status int
}

// Order matters: the most specific error comes first.
var mappings = []mapping{
	{ErrEmptyContent, ReasonEmptyContent, http.StatusBadRequest},
	{ErrContentTooLong, ReasonContentTooLong, http.StatusBadRequest},
	{ErrSelfMessage, ReasonSelfMessage, http.StatusBadRequest},
	{ErrValidation, ReasonInvalidRequest, http.StatusBadRequest},
	{ErrUnknownRecipient, ReasonUnknownRecipient, http.StatusNotFound},
	{ErrUnknownUser, ReasonUnknownUser, http.StatusNotFound},
	{ErrUnauthenticated, ReasonUnauthenticated, http.StatusUnauthorized},
	{ErrRateLimited, ReasonRateLimited, http.StatusTooManyRequests},
	{ErrStoreUnavailable, ReasonStoreUnavailable, http.StatusServiceUnavailable},
}

func lookup(err error) mapping {
	for _, m := range mappings {
		if stderrors.Is(err, m.err) {
			return m
		}
	}
	return mapping{err: err, reason: ReasonInternal, status: http.StatusInternalServerError}
}

// ReasonOf returns the API reason code for err.
func ReasonOf(err error) Reason {
	return lookup(err).reason
}

// MapToHTTPStatus converts a domain error into the HTTP status sent to clients.
func MapToHTTPStatus(err error) int {
	return lookup(err).status
}

func IsValidation(err error) bool { return stderrors.Is(err, ErrValidation) }

func IsIdentity(err error) bool { return stderrors.Is(err, ErrIdentity) }

// FromReason turns a reason received from the API back into its sentinel
// error so clients can match it with errors.Is. Unknown reasons yield nil.
func FromReason(reason Reason) error {
	if reason == ReasonInvalidRequest {
		return ErrInvalidRequest
	}
	for _, m := range mappings {
		if m.reason == reason {
			return m.err
		}
	}
	return nil
}
