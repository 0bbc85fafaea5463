package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRegistersRouteAndDoc(t *testing.T) {
	mux := http.NewServeMux()
	rr := &RouteRegistry{}

	Handle(mux, rr, "GET /api/tasks", "List tasks for a view", "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tasks", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	docs := rr.List()
	require.Len(t, docs, 1)
	assert.Equal(t, "GET", docs[0].Method)
	assert.Equal(t, "/api/tasks", docs[0].Pattern)
	assert.Equal(t, "List tasks for a view", docs[0].Summary)
}

func TestAdminUIRendersRoutes(t *testing.T) {
	mux := http.NewServeMux()
	rr := &RouteRegistry{}
	rr.Add(RouteDoc{Method: "POST", Pattern: "/api/residents", Summary: "Create a resident"})

	RegisterAdminUI(mux, rr, "8080")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/_/admin", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/residents")
	assert.Contains(t, rec.Body.String(), "8080")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/_/admin/routes.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Create a resident")
}
