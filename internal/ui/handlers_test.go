package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msdcl/nlq-console/internal/api"
	"github.com/msdcl/nlq-console/internal/session"
	"github.com/msdcl/nlq-console/internal/testutil"
)

func newTestServer(t *testing.T, backend http.Handler) (*Server, *session.Store) {
	t.Helper()

	var baseURL string
	if backend != nil {
		ts := httptest.NewServer(backend)
		t.Cleanup(ts.Close)
		baseURL = ts.URL
	} else {
		baseURL = "http://127.0.0.1:0"
	}

	store, err := session.NewStore(nil)
	require.NoError(t, err)

	srv := NewServer(Config{
		Client:        api.NewClient(baseURL, nil),
		Store:         store,
		Port:          0,
		SessionSecret: "test-secret",
		Logger:        testutil.NewTestLogger(t),
	})
	return srv, store
}

func newTestRouter(srv *Server) http.Handler {
	r := chi.NewMux()
	srv.setupRoutes(r)
	return r
}

func TestIndexServesShell(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	router := newTestRouter(srv)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `id="view"`)
	assert.Contains(t, rec.Body.String(), "/updates")
}

func TestQueryRecordsHistory(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(api.QueryResponse{
			Success: true,
			Result: &api.ResultSet{
				Data:     []map[string]any{{"total": 42.0}},
				Columns:  []api.Column{{Name: "total", Type: "numeric"}},
				RowCount: 1,
			},
		})
	})
	srv, store := newTestServer(t, backend)
	router := newTestRouter(srv)

	form := strings.NewReader("query=total+sales")
	req := httptest.NewRequest(http.MethodPost, "/api/query", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)

	// The query runs detached from the request.
	require.Eventually(t, func() bool {
		return len(store.History()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	entries := store.History()
	assert.Equal(t, session.EntryBot, entries[0].Type)
	assert.Equal(t, session.EntryUser, entries[1].Type)
	assert.Equal(t, "total sales", entries[1].Query)
}

func TestQueryEmptyIsIgnored(t *testing.T) {
	srv, store := newTestServer(t, nil)
	router := newTestRouter(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader("query=++"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.History())
}

func TestSetView(t *testing.T) {
	srv, store := newTestServer(t, nil)
	router := newTestRouter(srv)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/view/chat", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, session.ViewChat, store.CurrentView())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/view/nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleTheme(t *testing.T) {
	srv, store := newTestServer(t, nil)
	router := newTestRouter(srv)

	require.Equal(t, "light", store.Theme())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/theme", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "dark", store.Theme())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/theme", nil))
	assert.Equal(t, "light", store.Theme())
}

func TestSetChartType(t *testing.T) {
	srv, store := newTestServer(t, nil)
	router := newTestRouter(srv)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chart/pie", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "pie", store.Settings().ChartType)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chart/donut", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "pie", store.Settings().ChartType)
}

func TestExportHistory(t *testing.T) {
	srv, store := newTestServer(t, nil)
	router := newTestRouter(srv)

	store.AddToHistory(session.HistoryEntry{Type: session.EntryUser, Query: "revenue by month"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "nlq-history.json")

	var entries []session.HistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "revenue by month", entries[0].Query)
}

func TestClearHistory(t *testing.T) {
	srv, store := newTestServer(t, nil)
	router := newTestRouter(srv)

	store.AddToHistory(session.HistoryEntry{Type: session.EntryUser, Query: "q"})
	require.Len(t, store.History(), 1)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/history/clear", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.History())
}

func TestStoreMutationPingsListeners(t *testing.T) {
	srv, store := newTestServer(t, nil)

	ping, cancel := srv.Notifier().Subscribe()
	defer cancel()

	store.SetTheme("dark")

	select {
	case <-ping:
	case <-time.After(time.Second):
		t.Fatal("store mutation did not reach SSE listeners")
	}
}
