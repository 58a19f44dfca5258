package client_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-manager/internal/client"
	"github.com/aanand-mishra/students-manager/internal/config"
	"github.com/aanand-mishra/students-manager/internal/http/middleware"
	"github.com/aanand-mishra/students-manager/internal/http/router"
	"github.com/aanand-mishra/students-manager/internal/storage/sqlite"
	"github.com/aanand-mishra/students-manager/internal/store"
	"github.com/aanand-mishra/students-manager/internal/validation"
)

func newBackend(t *testing.T) string {
	t.Helper()
	db, err := sqlite.New(&config.Config{StoragePath: filepath.Join(t.TempDir(), "students.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := httptest.NewServer(router.New(db, middleware.NewMetrics(prometheus.NewRegistry())))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestStoreAgainstBackend(t *testing.T) {
	ctx := context.Background()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := client.New(newBackend(t), client.WithLogger(quiet))
	require.NoError(t, err)
	st := store.New(c, store.WithLogger(quiet))

	require.NoError(t, st.FetchAll(ctx))
	require.Empty(t, st.State().Students)

	st.OpenForm()
	require.NoError(t, st.Submit(ctx, validation.Form{Name: "Asha", Email: "asha@test.com", Phone: "555", Address: "12 Hill Rd"}))
	s := st.State()
	require.Len(t, s.Students, 1)
	require.False(t, s.FormVisible)
	asha := s.Students[0]
	require.NotZero(t, asha.ID)

	st.BeginEdit(asha)
	require.NoError(t, st.Submit(ctx, validation.Form{Name: "Asha K", Email: "asha@test.com", Phone: "555", Address: "12 Hill Rd"}))
	got, ok := st.State().Find(asha.ID)
	require.True(t, ok)
	require.Equal(t, "Asha K", got.Name)

	fetched, err := c.Get(ctx, asha.ID)
	require.NoError(t, err)
	require.Equal(t, got, fetched)

	require.NoError(t, st.Delete(ctx, asha.ID))
	require.Empty(t, st.State().Students)

	// The backend reports the missing record; the store surfaces its message.
	require.Error(t, st.Delete(ctx, asha.ID))
	require.Contains(t, st.State().Error, "Student not found with id")

	_, err = c.Get(ctx, asha.ID)
	require.ErrorIs(t, err, client.ErrNotFound)
}
