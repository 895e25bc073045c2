package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/msdcl/nlq-console/internal/api"
)

// Backend is a fake analytics backend for tests. Responses are keyed
// by URL path; unset paths return 404.
type Backend struct {
	t  *testing.T
	ts *httptest.Server

	mu        sync.Mutex
	responses map[string]any
	statuses  map[string]int
	calls     map[string]int
	bodies    map[string][]byte
}

// NewBackend starts a fake backend. It is shut down automatically when
// the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		t:         t,
		responses: make(map[string]any),
		statuses:  make(map[string]int),
		calls:     make(map[string]int),
		bodies:    make(map[string][]byte),
	}
	b.ts = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.ts.Close)
	return b
}

// URL returns the backend base URL.
func (b *Backend) URL() string {
	return b.ts.URL
}

// Respond sets the JSON payload returned for a path.
func (b *Backend) Respond(path string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[path] = payload
}

// Fail makes a path return the given HTTP status with an error body.
func (b *Backend) Fail(path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[path] = status
	b.responses[path] = map[string]string{"error": message}
}

// Calls reports how many requests hit a path.
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// LastBody returns the body of the most recent request to a path.
func (b *Backend) LastBody(path string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[path]
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.calls[r.URL.Path]++
	b.bodies[r.URL.Path] = body
	payload, ok := b.responses[r.URL.Path]
	status := b.statuses[r.URL.Path]
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// QueryResponse builds a successful query response with a single-column
// result, convenient for command tests.
func QueryResponse(column string, values ...any) api.QueryResponse {
	rows := make([]map[string]any, len(values))
	for i, v := range values {
		rows[i] = map[string]any{column: v}
	}
	return api.QueryResponse{
		Success: true,
		Result: &api.ResultSet{
			Data:     rows,
			Columns:  []api.Column{{Name: column, Type: "numeric"}},
			RowCount: len(rows),
		},
	}
}
