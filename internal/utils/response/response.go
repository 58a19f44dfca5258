// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every error the backend returns has the same shape, so API consumers always
// know where to find the human-readable text:
//
//	{ "status": "error", "message": "Student not found with id: 5" }
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/students-manager/internal/validation"
)

// Response is the standard envelope returned for error cases.
// Success responses return the resource itself (a student, a list of them).
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Values of Response.Status.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes data as JSON with the given HTTP status code.
//
// Order matters: Header() → WriteHeader() → body. Once WriteHeader is
// called, headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
//
//	response.WriteJSON(w, http.StatusInternalServerError,
//	    response.GeneralError(err))
func GeneralError(err error) Response {
	return Message(err.Error())
}

// Message builds an error Response from a plain message.
func Message(msg string) Response {
	return Response{
		Status:  StatusError,
		Message: msg,
	}
}

// ValidationError converts field errors into a single Response, messages
// joined with ", " in form order:
//
//	{ "status": "error", "message": "Name is required, Email is invalid" }
func ValidationError(errs validation.Errors) Response {
	return Message(errs.Error())
}
