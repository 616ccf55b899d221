package booking

import "fmt"

// Error codes surfaced to callers alongside a human message.
const (
	CodeValidation      = "validationError"
	CodeStateConflict   = "stateConflict"
	CodeInvalidAmount   = "invalidAmount"
	CodeNotFound        = "notFound"
	CodeUpstreamPayment = "upstreamPaymentError"
)

// Error is a typed domain error with a machine-readable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewStateConflict(format string, args ...any) error {
	return &Error{Code: CodeStateConflict, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidAmount(format string, args ...any) error {
	return &Error{Code: CodeInvalidAmount, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewUpstreamPaymentError(format string, args ...any) error {
	return &Error{Code: CodeUpstreamPayment, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the domain error code, or "" for non-domain errors.
func CodeOf(err error) string {
	if de, ok := err.(*Error); ok {
		return de.Code
	}
	return ""
}
