package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-manager/internal/config"
	"github.com/aanand-mishra/students-manager/internal/storage"
	"github.com/aanand-mishra/students-manager/internal/storage/sqlite"
	"github.com/aanand-mishra/students-manager/internal/types"
)

func newDB(t *testing.T) *sqlite.SQLite {
	t.Helper()
	cfg := &config.Config{StoragePath: filepath.Join(t.TempDir(), "students.db")}
	db, err := sqlite.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func input(name string) types.StudentInput {
	return types.StudentInput{Name: name, Email: name + "@test.com", Phone: "555", Address: "1 Main St"}
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := sqlite.New(&config.Config{})
	require.Error(t, err)
}

func TestCreateAndGet(t *testing.T) {
	db := newDB(t)

	created, err := db.CreateStudent(input("asha"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := db.GetStudentByID(created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestGetStudents_EmptyAndOrdered(t *testing.T) {
	db := newDB(t)

	list, err := db.GetStudents()
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	a, err := db.CreateStudent(input("a"))
	require.NoError(t, err)
	b, err := db.CreateStudent(input("b"))
	require.NoError(t, err)

	list, err = db.GetStudents()
	require.NoError(t, err)
	require.Equal(t, []types.Student{a, b}, list)
}

func TestUpdate(t *testing.T) {
	db := newDB(t)
	created, err := db.CreateStudent(input("a"))
	require.NoError(t, err)

	updated, err := db.UpdateStudentByID(created.ID, input("changed"))
	require.NoError(t, err)
	require.Equal(t, input("changed").WithID(created.ID), updated)

	_, err = db.UpdateStudentByID(created.ID+100, input("x"))
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := newDB(t)
	created, err := db.CreateStudent(input("a"))
	require.NoError(t, err)

	require.NoError(t, db.DeleteStudentByID(created.ID))

	_, err = db.GetStudentByID(created.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.ErrorIs(t, db.DeleteStudentByID(created.ID), storage.ErrNotFound)
}
