package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error so the HTTP layer can pick a status
// code without string matching.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindInvalidTransition
	KindEmptyCart
	KindPaymentNotCompleted
	KindConflict
	KindUpstream
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func InvalidTransition(from, to string) *Error {
	return New(KindInvalidTransition, "invalid status transition from %s to %s", from, to)
}

func EmptyCart() *Error {
	return New(KindEmptyCart, "cart is empty")
}

func PaymentNotCompleted(status string) *Error {
	return New(KindPaymentNotCompleted, "payment not completed, intent status is %s", status)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

func Upstream(err error, format string, args ...interface{}) *Error {
	return Wrap(KindUpstream, err, format, args...)
}

// KindOf extracts the Kind from err, unwrapping as needed. Unknown errors
// report KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error kind to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindEmptyCart:
		return http.StatusBadRequest
	case KindInvalidTransition, KindPaymentNotCompleted:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
