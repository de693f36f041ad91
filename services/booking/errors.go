package booking

import (
	"errors"
	"fmt"

	"fitbook/models"
)

// Error kinds. Every error returned by BookingService matches exactly one of these
// with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrSlotConflict       = errors.New("slot conflict")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrPaymentRejected    = errors.New("payment rejected")
	ErrInternal           = errors.New("internal error")
)

const (
	CodeInvalidDuration    = "INVALID_DURATION"
	CodeInvalidRate        = "INVALID_RATE"
	CodeInvalidSessionTime = "INVALID_SESSION_TIME"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeTrainerNotFound    = "TRAINER_NOT_FOUND"
	CodeBookingNotFound    = "BOOKING_NOT_FOUND"
	CodeSlotConflict       = "SLOT_CONFLICT"
	CodeGatewayUnavailable = "GATEWAY_UNAVAILABLE"
	CodePaymentRejected    = "PAYMENT_REJECTED"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is the service's error type. Kind is one of the sentinels above, Code is a
// stable machine-readable identifier and Err the underlying cause, if any.
type Error struct {
	Kind    error
	Code    string
	Message string
	Err     error
	// Result is set for rejected payments so callers can report the booking's final state.
	Result *models.PaymentResult
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Is makes an unauthenticated request part of the validation class as well.
func (e *Error) Is(target error) bool {
	return target == ErrValidation && e.Kind == ErrUnauthorized
}

func newError(kind error, code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: cause}
}

func validationError(code, message string) *Error {
	return newError(ErrValidation, code, message, nil)
}

func internalError(message string, cause error) *Error {
	return newError(ErrInternal, CodeInternal, message, cause)
}
