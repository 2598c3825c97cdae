package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// CustomizedError carries a call trace, an i18n message key and the http
// status code the handler layer should answer with.
type CustomizedError struct {
	cause   error
	message string
	trace   []string
	wrap    error
	code    int
}

func New(trace, message string, err error) *CustomizedError {
	return &CustomizedError{
		cause:   err,
		message: message,
		trace:   []string{trace},
		code:    http.StatusInternalServerError,
	}
}

func Wrap(err error, trace, message string) *CustomizedError {
	ce := &CustomizedError{
		cause:   err,
		message: message,
		trace:   []string{trace},
		wrap:    err,
		code:    http.StatusInternalServerError,
	}
	if income, ok := err.(*CustomizedError); ok {
		ce.code = income.code
	}
	return ce
}

// Trace appends a frame to an existing CustomizedError or wraps a plain one.
func Trace(trace string, err error) *CustomizedError {
	if ce, ok := err.(*CustomizedError); ok {
		ce.trace = append(ce.trace, trace)
		return ce
	}
	return Wrap(err, trace, err.Error())
}

func (e *CustomizedError) Code(c int) *CustomizedError {
	e.code = c
	return e
}

func (e *CustomizedError) GetCode() int {
	return e.code
}

func (e *CustomizedError) Message() string {
	if e.message == "" {
		return e.cause.Error()
	}
	return e.message
}

func (e *CustomizedError) Unwrap() error {
	return e.wrap
}

func (e *CustomizedError) Error() string {
	wrapped := `""`
	if ce, ok := e.wrap.(*CustomizedError); ok {
		wrapped = ce.Error()
	} else if e.wrap != nil {
		wrapped = fmt.Sprint("\"", e.wrap.Error(), "\"")
	}
	return fmt.Sprintf(`{"trace":"%s","code":%d,"msg":"%s","error":"%v","wrapd":%s}`, strings.Join(e.trace, "->"), e.code, e.message, e.cause, wrapped)
}
