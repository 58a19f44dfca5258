// Package student contains the HTTP handlers for the /students resource.
//
// Handlers use the closure / factory pattern: each exported function receives
// its dependencies once, at route registration, and returns the
// func(http.ResponseWriter, *http.Request) the router calls on every request.
//
//	router.HandleFunc("POST /students", student.New(storage))
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/students-manager/internal/storage"
	"github.com/aanand-mishra/students-manager/internal/types"
	"github.com/aanand-mishra/students-manager/internal/utils/response"
	"github.com/aanand-mishra/students-manager/internal/validation"
)

// Register adds every /students route to router.
//
//	POST   /students        → create a student
//	GET    /students        → list all students
//	GET    /students/{id}   → get one student
//	PUT    /students/{id}   → update a student
//	DELETE /students/{id}   → delete a student
func Register(router *http.ServeMux, storage storage.Storage) {
	router.HandleFunc("POST /students", New(storage))
	router.HandleFunc("GET /students", GetList(storage))
	router.HandleFunc("GET /students/{id}", GetByID(storage))
	router.HandleFunc("PUT /students/{id}", Update(storage))
	router.HandleFunc("DELETE /students/{id}", Delete(storage))
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students
//
// Request body:
//
//	{ "name": "Asha", "email": "asha@test.com", "phone": "555-0101", "address": "12 Hill Rd" }
//
// Success response (201 Created) - the stored student including its new id.
//
// Error responses:
//
//	400 Bad Request  - empty body, malformed JSON, or failed validation
//	500 Internal     - database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		created, err := storage.CreateStudent(in)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Message("Failed to add student"))
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /students/{id}
//
//	400 Bad Request  - id is not a valid integer
//	404 Not Found    - no student with that id
//	500 Internal     - database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := storage.GetStudentByID(id)
		if err != nil {
			writeStorageError(w, id, err, "Failed to fetch student")
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /students. An empty table yields [] (never null).
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Message("Failed to fetch students"))
			return
		}
		if students == nil {
			students = []types.Student{}
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}
// Replaces every editable field; the body has the same shape as for POST.
//
// Success response (200 OK) - the updated student.
//
//	400 Bad Request  - invalid id, empty body, or validation failure
//	404 Not Found    - no student with that id
//	500 Internal     - database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		updated, err := storage.UpdateStudentByID(id, in)
		if err != nil {
			writeStorageError(w, id, err, "Failed to update student")
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /students/{id} and answers 204 No Content.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := storage.DeleteStudentByID(id); err != nil {
			writeStorageError(w, id, err, "Failed to delete student")
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// pathID parses the {id} segment. On failure it writes a 400 and returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Message("invalid id: must be an integer"))
		return 0, false
	}
	return id, true
}

// decodeInput reads and validates the JSON body. On failure it writes a 400
// and returns false.
func decodeInput(w http.ResponseWriter, r *http.Request) (types.StudentInput, bool) {
	var in types.StudentInput

	err := json.NewDecoder(r.Body).Decode(&in)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Message("request body is empty"))
		return in, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return in, false
	}

	// Same rules the client form enforces before submitting.
	if errs := validation.Validate(validation.FormFromInput(in)); len(errs) > 0 {
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(errs))
		return in, false
	}

	return in, true
}

// writeStorageError maps storage.ErrNotFound to 404 and anything else to 500.
func writeStorageError(w http.ResponseWriter, id int64, err error, fallback string) {
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound,
			response.Message(fmt.Sprintf("Student not found with id: %d", id)))
		return
	}

	slog.Error("storage error",
		slog.Int64("id", id),
		slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.Message(fallback))
}
