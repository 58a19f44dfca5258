// Package sqlite stores student records in a single SQLite file through
// database/sql and the mattn/go-sqlite3 driver.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/students-manager/internal/config"
	"github.com/aanand-mishra/students-manager/internal/storage"
	"github.com/aanand-mishra/students-manager/internal/types"

	// Registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS students (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	name    TEXT NOT NULL,
	email   TEXT NOT NULL,
	phone   TEXT NOT NULL,
	address TEXT NOT NULL
)`

// Column order shared by every SELECT and scanStudent.
const studentColumns = "id, name, email, phone, address"

// SQLite implements storage.Storage. The embedded pool is safe for
// concurrent use.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens (creating if needed) the database at cfg.StoragePath and makes
// sure the students table exists.
func New(cfg *config.Config) (*SQLite, error) {
	if cfg.StoragePath == "" {
		return nil, errors.New("sqlite.New: storage path is empty")
	}

	if dir := filepath.Dir(cfg.StoragePath); cfg.StoragePath != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(r rowScanner) (types.Student, error) {
	var st types.Student
	err := r.Scan(&st.ID, &st.Name, &st.Email, &st.Phone, &st.Address)
	return st, err
}

// CreateStudent inserts a row and returns it with the generated id. Values
// are bound through placeholders, never spliced into the SQL.
func (s *SQLite) CreateStudent(in types.StudentInput) (types.Student, error) {
	stmt, err := s.Db.Prepare("INSERT INTO students (name, email, phone, address) VALUES (?, ?, ?, ?)")
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(in.Name, in.Email, in.Phone, in.Address)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return in.WithID(id), nil
}

// GetStudentByID returns the row with the given id or an error wrapping
// storage.ErrNotFound.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.Db.Prepare("SELECT " + studentColumns + " FROM students WHERE id = ? LIMIT 1")
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	st, err := scanStudent(stmt.QueryRow(id))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return types.Student{}, notFound(id)
	case err != nil:
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}
	return st, nil
}

// GetStudents returns every row in id order, which for an AUTOINCREMENT key
// is insertion order. An empty table yields an empty, non-nil slice.
func (s *SQLite) GetStudents() ([]types.Student, error) {
	stmt, err := s.Db.Prepare("SELECT " + studentColumns + " FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	out := make([]types.Student, 0)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows: %w", err)
	}
	return out, nil
}

// UpdateStudentByID overwrites every field of the row and returns what is
// now stored.
func (s *SQLite) UpdateStudentByID(id int64, in types.StudentInput) (types.Student, error) {
	stmt, err := s.Db.Prepare("UPDATE students SET name = ?, email = ?, phone = ?, address = ? WHERE id = ?")
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(in.Name, in.Email, in.Phone, in.Address, id)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}
	if err := requireAffected(res, id); err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: %w", err)
	}

	return s.GetStudentByID(id)
}

// DeleteStudentByID removes the row with the given id.
func (s *SQLite) DeleteStudentByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}
	if err := requireAffected(res, id); err != nil {
		return fmt.Errorf("DeleteStudentByID: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// notFound keeps the message the API surfaces to clients.
func notFound(id int64) error {
	return fmt.Errorf("%w with id: %d", storage.ErrNotFound, id)
}
