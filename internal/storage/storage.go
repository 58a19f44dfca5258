// Package storage defines the persistence contract behind the /students
// resource. Handlers depend only on Storage.
package storage

import (
	"errors"

	"github.com/aanand-mishra/students-manager/internal/types"
)

// ErrNotFound is returned (wrapped) when no student has the requested ID.
var ErrNotFound = errors.New("student not found")

// Storage is the database contract.
type Storage interface {
	// CreateStudent inserts a new record and returns it with the generated ID.
	CreateStudent(in types.StudentInput) (types.Student, error)

	// GetStudentByID fetches a single student by primary key.
	// Returns an error wrapping ErrNotFound if it does not exist.
	GetStudentByID(id int64) (types.Student, error)

	// GetStudents returns every student in insertion order.
	// Returns an empty slice (not nil) if there are none.
	GetStudents() ([]types.Student, error)

	// UpdateStudentByID replaces the editable fields of an existing student
	// and returns the stored record. Missing IDs wrap ErrNotFound.
	UpdateStudentByID(id int64, in types.StudentInput) (types.Student, error)

	// DeleteStudentByID removes a student permanently. Missing IDs wrap ErrNotFound.
	DeleteStudentByID(id int64) error
}
