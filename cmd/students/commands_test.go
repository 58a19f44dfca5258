package main

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-manager/internal/config"
	"github.com/aanand-mishra/students-manager/internal/http/middleware"
	"github.com/aanand-mishra/students-manager/internal/http/router"
	"github.com/aanand-mishra/students-manager/internal/storage/sqlite"
)

func startBackend(t *testing.T) string {
	t.Helper()
	db, err := sqlite.New(&config.Config{StoragePath: filepath.Join(t.TempDir(), "students.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := httptest.NewServer(router.New(db, middleware.NewMetrics(prometheus.NewRegistry())))
	t.Cleanup(srv.Close)
	return srv.URL
}

// execute runs the CLI against url and returns stdout.
func execute(t *testing.T, url, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api-url", url}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_AddListUpdateDelete(t *testing.T) {
	url := startBackend(t)

	out, err := execute(t, url, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No students found.")

	out, err = execute(t, url, "", "add",
		"--name", "Asha", "--email", "asha@test.com", "--phone", "555", "--address", "12 Hill Rd")
	require.NoError(t, err)
	require.Contains(t, out, "Created student 1.")
	require.Contains(t, out, `"email": "asha@test.com"`)

	out, err = execute(t, url, "", "update", "1", "--phone", "556")
	require.NoError(t, err)
	require.Contains(t, out, `"phone": "556"`)
	require.Contains(t, out, `"name": "Asha"`)

	out, err = execute(t, url, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Asha")
	require.Contains(t, out, "556")

	out, err = execute(t, url, "", "get", "1")
	require.NoError(t, err)
	require.Contains(t, out, `"address": "12 Hill Rd"`)

	out, err = execute(t, url, "n\n", "delete", "1")
	require.NoError(t, err)
	require.Contains(t, out, "Cancelled.")

	out, err = execute(t, url, "", "delete", "1", "--yes")
	require.NoError(t, err)
	require.Contains(t, out, "Deleted student 1.")

	_, err = execute(t, url, "", "get", "1")
	require.ErrorContains(t, err, "Student not found with id: 1")
}

func TestCLI_AddValidatesBeforeSending(t *testing.T) {
	url := startBackend(t)

	_, err := execute(t, url, "", "add", "--name", "Asha", "--email", "not-an-email", "--phone", "1", "--address", "x")
	require.EqualError(t, err, "Email is invalid")

	out, err := execute(t, url, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No students found.")
}

func TestCLI_ListReportsUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	_, err := execute(t, url, "", "list")
	require.EqualError(t, err, "Failed to fetch students")
}

func TestCLI_RejectsBadID(t *testing.T) {
	_, err := execute(t, "http://localhost:1", "", "get", "abc")
	require.EqualError(t, err, `invalid student id "abc"`)
}
