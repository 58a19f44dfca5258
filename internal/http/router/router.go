// Package router assembles the backend's HTTP handler.
package router

import (
	"net/http"

	"github.com/aanand-mishra/students-manager/internal/http/handlers/student"
	"github.com/aanand-mishra/students-manager/internal/http/middleware"
	"github.com/aanand-mishra/students-manager/internal/storage"
)

// New registers the /students routes and the /metrics endpoint.
//
// RequestID must stay outermost: it replaces the request with one carrying
// the id in its context, and Instrument reads the route pattern the mux
// records on that same request.
func New(storage storage.Storage, metrics *middleware.Metrics) http.Handler {
	mux := http.NewServeMux()
	student.Register(mux, storage)
	mux.Handle("GET /metrics", metrics.Handler())

	return middleware.RequestID(metrics.Instrument(mux))
}
