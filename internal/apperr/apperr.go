// Package apperr defines the error taxonomy shared by services and handlers:
// invalid arguments, missing entities, and store/upstream failures.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindNotFound
	KindInternal
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func InvalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Msg: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// HTTPStatus maps an error to the status code handlers should respond with.
// Unclassified errors are treated as internal.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func IsInvalidArgument(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindInvalidArgument
}

func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}
