package services

import "net/http"

// ErrorKind is the closed set of failure categories services can report.
// Controllers render the kind alongside the message so clients can branch on
// it instead of parsing strings.
type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindNotFound            ErrorKind = "not_found"
	KindConflict            ErrorKind = "conflict"
	KindInsufficientStock   ErrorKind = "insufficient_stock"
	KindInsufficientBalance ErrorKind = "insufficient_balance"
	KindInternal            ErrorKind = "internal"
)

// ServiceError is a typed error with an HTTP status code and a closed kind.
// Details carries structured context (e.g. available/required amounts) for
// recoverable conditions.
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Details    map[string]interface{}
}

func (e *ServiceError) Error() string {
	return e.Message
}

func errValidation(msg string) *ServiceError {
	return &ServiceError{Kind: KindValidation, StatusCode: http.StatusBadRequest, Message: msg}
}

func errNotFound(msg string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: msg}
}

func errConflict(msg string) *ServiceError {
	return &ServiceError{Kind: KindConflict, StatusCode: http.StatusConflict, Message: msg}
}

func errInternal(msg string) *ServiceError {
	return &ServiceError{Kind: KindInternal, StatusCode: http.StatusInternalServerError, Message: msg}
}

func errInsufficientBalance(msg string, available, required float64) *ServiceError {
	return &ServiceError{
		Kind:       KindInsufficientBalance,
		StatusCode: http.StatusBadRequest,
		Message:    msg,
		Details: map[string]interface{}{
			"available": available,
			"required":  required,
		},
	}
}

func errInsufficientStock(msg string) *ServiceError {
	return &ServiceError{Kind: KindInsufficientStock, StatusCode: http.StatusBadRequest, Message: msg}
}
