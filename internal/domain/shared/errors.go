// internal/domain/shared/errors.go
package shared

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a DomainError so the transport layer can choose a status code
type ErrorCode string

const (
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeForbidden         ErrorCode = "FORBIDDEN"
	CodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	CodeEmptyCart         ErrorCode = "EMPTY_CART"
	CodeAddressNotOwned   ErrorCode = "ADDRESS_NOT_OWNED"
	CodeAlreadyReviewed   ErrorCode = "ALREADY_REVIEWED"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeTerminalState     ErrorCode = "TERMINAL_STATE"
	CodeNotAvailable      ErrorCode = "NOT_AVAILABLE"
	CodeAlreadyExists     ErrorCode = "ALREADY_EXISTS"
	CodeRateLimited       ErrorCode = "RATE_LIMITED"
)

// DomainError is a business or validation failure that is safe to show to the caller
type DomainError struct {
	Code    ErrorCode
	Message string
	// Fields holds per-field messages for validation failures
	Fields map[string]string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on code so errors.Is(err, &DomainError{Code: CodeNotFound}) works
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a DomainError with the given code
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func ValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// FieldError is a validation failure attributed to a single input field
func FieldError(field, message string) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

func NotFound(entity string) *DomainError {
	return NewDomainError(CodeNotFound, entity+" not found")
}

func Unauthorized(message string) *DomainError {
	return NewDomainError(CodeUnauthorized, message)
}

func Forbidden(message string) *DomainError {
	return NewDomainError(CodeForbidden, message)
}

func InsufficientStock(message string) *DomainError {
	return NewDomainError(CodeInsufficientStock, message)
}

func EmptyCart() *DomainError {
	return NewDomainError(CodeEmptyCart, "Cart is empty")
}

func AddressNotOwned() *DomainError {
	return NewDomainError(CodeAddressNotOwned, "Address not found")
}

func AlreadyReviewed() *DomainError {
	return NewDomainError(CodeAlreadyReviewed, "You have already reviewed this product")
}

func InvalidTransition(message string) *DomainError {
	return NewDomainError(CodeInvalidTransition, message)
}

func TerminalState(message string) *DomainError {
	return NewDomainError(CodeTerminalState, message)
}

func NotAvailable(message string) *DomainError {
	return NewDomainError(CodeNotAvailable, message)
}

func AlreadyExists(message string) *DomainError {
	return NewDomainError(CodeAlreadyExists, message)
}

// AsDomainError unwraps err into a DomainError when it carries one
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err is a DomainError with the given code
func HasCode(err error, code ErrorCode) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}
