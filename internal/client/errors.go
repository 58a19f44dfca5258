package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches a RequestFailedError whose response was 404.
//
//	if errors.Is(err, client.ErrNotFound) { ... }
var ErrNotFound = errors.New("student not found")

// Kind classifies why a request failed.
type Kind int

const (
	// NetworkFailure means the request could not be sent or no response arrived.
	NetworkFailure Kind = iota + 1
	// HTTPError means the server answered with a non-2xx status.
	HTTPError
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case HTTPError:
		return "http error"
	default:
		return "unknown"
	}
}

// Fallback messages used when the server does not supply one.
const (
	MsgFetchStudents = "Failed to fetch students"
	MsgFetchStudent  = "Failed to fetch student"
	MsgAddStudent    = "Failed to add student"
	MsgUpdateStudent = "Failed to update student"
	MsgDeleteStudent = "Failed to delete student"
)

// RequestFailedError is the single error type returned by every Client method.
//
// Message is what the user should see: the server's "message" field when the
// response carried one, otherwise the fallback for the operation.
type RequestFailedError struct {
	Op         string
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.Kind == HTTPError {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

// Is reports 404 responses as ErrNotFound.
func (e *RequestFailedError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == HTTPError && e.StatusCode == http.StatusNotFound
}

// Message extracts the user-facing message from err. Errors that did not come
// from a Client are reported with fallback.
func Message(err error, fallback string) string {
	var rf *RequestFailedError
	if errors.As(err, &rf) && rf.Message != "" {
		return rf.Message
	}
	return fallback
}
