package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockServer is an in-process HTTP server with routes keyed by method and
// path. Registration is safe for concurrent use.
type MockServer struct {
	Server *httptest.Server

	mu     sync.Mutex
	routes map[routeKey]http.HandlerFunc
}

type routeKey struct {
	method string
	path   string
}

// NewMockServer starts a server that dispatches to registered routes and
// answers everything else with a JSON 404.
func NewMockServer() *MockServer {
	ms := &MockServer{routes: make(map[routeKey]http.HandlerFunc)}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ms.mu.Lock()
		handler, ok := ms.routes[routeKey{r.Method, r.URL.Path}]
		ms.mu.Unlock()

		if ok {
			handler(w, r)
			return
		}

		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "not found",
			"path":  r.URL.Path,
		})
	}))

	return ms
}

// Close shuts down the server.
func (m *MockServer) Close() {
	m.Server.Close()
}

// URL returns the server's base URL.
func (m *MockServer) URL() string {
	return m.Server.URL
}

// Handle registers a handler for the given method and path, replacing any
// previous registration.
func (m *MockServer) Handle(method, path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[routeKey{method, path}] = handler
}

// HandleJSON registers a route that responds with the given status code and
// the JSON encoding of response.
func (m *MockServer) HandleJSON(method, path string, statusCode int, response any) {
	m.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, statusCode, response)
	})
}

// HandleError registers a route that responds with a JSON error body.
func (m *MockServer) HandleError(method, path string, statusCode int, message string) {
	m.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, statusCode, map[string]string{
			"error":   http.StatusText(statusCode),
			"message": message,
		})
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	//nolint:errcheck // encoding failures are not actionable in a test stub
	json.NewEncoder(w).Encode(v)
}
