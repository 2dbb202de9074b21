package errhandler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

// ErrorType classifies how an error affects the call.
type ErrorType int

const (
	// ErrorTypeFatal terminates the call immediately.
	ErrorTypeFatal ErrorType = iota
	// ErrorTypeValidation is recovered locally by reprompting the guest.
	ErrorTypeValidation
	// ErrorTypeTransient is a network/timeout failure of a collaborator;
	// the call proceeds to a recoverable state without losing the cart.
	ErrorTypeTransient
)

// Error is the unified error carried through the orchestration core.
type Error struct {
	Type    ErrorType
	Service string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Service, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError builds a guest-recoverable error (room/category/item
// not found).
func NewValidationError(service, message string) *Error {
	return &Error{Type: ErrorTypeValidation, Service: service, Message: message}
}

// NewTransientError builds a collaborator failure error.
func NewTransientError(service, message string, err error) *Error {
	return &Error{Type: ErrorTypeTransient, Service: service, Message: message, Err: err}
}

// NewFatalError builds an error that terminates the call.
func NewFatalError(service, message string, err error) *Error {
	return &Error{Type: ErrorTypeFatal, Service: service, Message: message, Err: err}
}

// IsCancellation reports whether err is the normal termination path (guest
// hangup or transport loss), which is not treated as a failure.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Handler classifies raw errors from collaborators.
type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// Classify wraps err into an *Error. Already-classified errors pass through.
// Timeouts and connection failures become transient; anything else from an
// external service defaults to transient, since the orchestration core has
// no unexpected internal failure modes of its own worth aborting on.
func (h *Handler) Classify(err error, service string) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	errType := ErrorTypeTransient
	if isFatal(err) {
		errType = ErrorTypeFatal
	}

	e := &Error{
		Type:    errType,
		Service: service,
		Message: err.Error(),
		Err:     err,
	}
	if errType == ErrorTypeFatal {
		h.logger.Error("fatal collaborator error",
			zap.String("service", service), zap.Error(err))
	} else {
		h.logger.Warn("transient collaborator error",
			zap.String("service", service), zap.Error(err))
	}
	return e
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isFatal(err error) bool {
	msg := strings.ToLower(err.Error())
	fatalKeywords := []string{
		"unauthorized",
		"authentication failed",
		"invalid credentials",
		"api key invalid",
		"api key expired",
		"account suspended",
	}
	for _, keyword := range fatalKeywords {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}
