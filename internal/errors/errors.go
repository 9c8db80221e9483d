package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an engine error so the api layer can pick a status
// code and callers can decide whether a retry makes sense. The engine
// itself never retries.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidInput
	KindInvalidReference
	KindConflict
	KindInvalidTransition
	KindAlreadyTerminal
)

// Error carries a taxonomy kind plus enough detail to render a
// user-facing message: the offending field or the attempted
// transition, where relevant.
type Error struct {
	Kind    Kind
	Field   string
	From    string
	To      string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(entity string, id int) *Error {
	return &Error{
		Kind:    KindNotFound,
		Field:   entity,
		Message: fmt.Sprintf("%s %d not found", entity, id),
	}
}

func InvalidInput(field, message string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: message}
}

func InvalidReference(message string) *Error {
	return &Error{Kind: KindInvalidReference, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		From:    from,
		To:      to,
		Message: fmt.Sprintf("invalid status transition from %s to %s", from, to),
	}
}

func AlreadyTerminal(status string) *Error {
	return &Error{
		Kind:    KindAlreadyTerminal,
		From:    status,
		Message: fmt.Sprintf("cannot cancel a %s booking", status),
	}
}

// HTTPStatus maps an error to the status code the api layer should
// respond with. Unknown errors are internal failures.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput, KindInvalidReference, KindInvalidTransition, KindAlreadyTerminal:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is an engine Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
