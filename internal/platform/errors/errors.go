// Package errors is the project error type: a machine code, a caller facing message,
// an optional offending field and the wrapped cause
// Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the stable machine facing classification sent on the wire
type ErrorCode uint16

// Codes are append only; their numeric values are part of the API
const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable // transient, retry may succeed
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB
	ErrorCodeMethodNotAllowed
	ErrorCodeUpstream   // the chat engine or relay API failed; retry may succeed
	ErrorCodeEmptyInput // a submission that normalizes to no lines
)

var statusOf = map[ErrorCode]int{
	ErrorCodeUnavailable:      http.StatusServiceUnavailable,
	ErrorCodeTooManyRequests:  http.StatusTooManyRequests,
	ErrorCodeConflict:         http.StatusConflict,
	ErrorCodeDuplicateKey:     http.StatusConflict,
	ErrorCodeUnauthorized:     http.StatusUnauthorized,
	ErrorCodeForbidden:        http.StatusForbidden,
	ErrorCodeInvalidArgument:  http.StatusUnprocessableEntity,
	ErrorCodeValidation:       http.StatusBadRequest,
	ErrorCodeJSON:             http.StatusBadRequest,
	ErrorCodeEmptyInput:       http.StatusBadRequest,
	ErrorCodeNotFound:         http.StatusNotFound,
	ErrorCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrorCodeUpstream:         http.StatusBadGateway,
}

// HTTPStatusCode is the response status for c; anything unmapped is a 500
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := statusOf[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a code alongside the message; see the package doc
type Error struct {
	code  ErrorCode
	msg   string
	field string
	orig  error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig == nil:
		return e.msg
	default:
		return e.msg + ": " + e.orig.Error()
	}
}

func (e *Error) Unwrap() error { return e.orig }

// Code is the machine facing classification
func (e *Error) Code() ErrorCode { return e.code }

// Field names the input that failed, or ""
func (e *Error) Field() string { return e.field }

// Wire is the error as the API serializes it
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom renders any error for the wire; foreign errors become ErrorCodeUnknown with their text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return Wire{Code: e.code, Message: e.msg, Field: e.field}
}

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf is the code of the outermost *Error in err's chain, or ErrorCodeUnknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports CodeOf(err) == code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is HTTPStatusCode(CodeOf(err))
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WithField returns a copy of err naming field; errors that are not ours are returned as is
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	cp.field = field
	return &cp
}

// New builds an error with a fixed message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf builds an error with a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap classifies orig under code, keeping it as the cause
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with a formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

func newfFor(code ErrorCode) func(string, ...any) error {
	return func(format string, a ...any) error { return Newf(code, format, a...) }
}

// Formatted constructors, one per code the services raise
var (
	NotFoundf         = newfFor(ErrorCodeNotFound)
	InvalidArgf       = newfFor(ErrorCodeInvalidArgument)
	JSONErrf          = newfFor(ErrorCodeJSON)
	PanicErrf         = newfFor(ErrorCodePanic)
	Conflictf         = newfFor(ErrorCodeConflict)
	Validationf       = newfFor(ErrorCodeValidation)
	EmptyInputf       = newfFor(ErrorCodeEmptyInput)
	MethodNotAllowedf = newfFor(ErrorCodeMethodNotAllowed)
	Upstreamf         = newfFor(ErrorCodeUpstream)
)

// ErrNotFound is the shared sentinel for a missing row or entry
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Retryable is true for upstream and unavailable failures and for transient database contention
func Retryable(err error) bool {
	if c := CodeOf(err); c == ErrorCodeUpstream || c == ErrorCodeUnavailable {
		return true
	}
	return IsRetryable(err)
}
