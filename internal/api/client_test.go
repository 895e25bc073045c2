package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/nlq/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "top products by revenue", req.Query)
		assert.Equal(t, "en", req.Language)
		assert.Equal(t, 500, req.Options.MaxResults)

		_ = json.NewEncoder(w).Encode(QueryResponse{
			Success:      true,
			GeneratedSQL: "SELECT name, revenue FROM products ORDER BY revenue DESC",
			Result: &ResultSet{
				Columns: []Column{{Name: "name", Type: "text"}, {Name: "revenue", Type: "numeric"}},
				Data: []map[string]any{
					{"name": "Widget", "revenue": 1234.5},
				},
				RowCount: 1,
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	resp, err := c.Query(context.Background(), QueryRequest{
		Query:    "top products by revenue",
		Language: "en",
		Options:  QueryOptions{IncludeExplanation: true, MaxResults: 500},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 1, resp.Result.RowCount)
	assert.Equal(t, "revenue", resp.Result.Columns[1].Name)
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{400, "Invalid request. Please check your query and try again."},
		{401, "Authentication required. Please log in."},
		{403, "You do not have permission to run this query."},
		{404, "The requested resource was not found."},
		{429, "Too many requests. Please wait a moment and try again."},
		{500, "The server encountered an error. Please try again later."},
		{503, "The request failed. Please try again."},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))

		c := NewClient(srv.URL, nil)
		_, err := c.Query(context.Background(), QueryRequest{Query: "q"})
		srv.Close()

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr, "status %d", tt.status)
		assert.Equal(t, KindRequest, apiErr.Kind)
		assert.Equal(t, tt.status, apiErr.Status)
		assert.Equal(t, tt.message, apiErr.Message)
	}
}

func TestServerMessageTakesPrecedence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "column 'revnue' does not exist"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Query(context.Background(), QueryRequest{Query: "q"})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindRequest, apiErr.Kind)
	assert.Equal(t, "column 'revnue' does not exist", apiErr.Message)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // no response will ever be received

	c := NewClient(srv.URL, nil)
	_, err := c.Health(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Equal(t, "Unable to reach the server. Please check your connection.", apiErr.Message)
}

func TestContextCancellationIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, nil)
	_, err := c.Health(ctx)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSuggestionsCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "top", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(SuggestionsResponse{
			Success:     true,
			Suggestions: []string{"top products", "top customers"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	ctx := context.Background()

	first, err := c.Suggestions(ctx, "top")
	require.NoError(t, err)
	second, err := c.Suggestions(ctx, "top")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRefreshSchemaDropsCache(t *testing.T) {
	var schemaHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/nlq/schema":
			schemaHits.Add(1)
			_ = json.NewEncoder(w).Encode(SchemaResponse{
				Success: true,
				Schema: Schema{
					"orders": {{ColumnName: "id", DataType: "integer", IsNullable: "NO"}},
				},
			})
		case "/nlq/refresh-schema":
			_ = json.NewEncoder(w).Encode(AckResponse{Success: true})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	ctx := context.Background()

	_, err := c.GetSchema(ctx)
	require.NoError(t, err)
	_, err = c.GetSchema(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), schemaHits.Load())

	require.NoError(t, c.RefreshSchema(ctx))
	_, err = c.GetSchema(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), schemaHits.Load())
}

func TestDashboardAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dashboard/all", r.URL.Path)
		_ = json.NewEncoder(w).Encode(DashboardData{
			Metrics:      Metrics{TotalRevenue: 10500.25, TotalOrders: 320},
			RevenueTrend: []TrendPoint{{Period: "2026-01", Revenue: 5000}, {Period: "2026-02", Revenue: 5500.25}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	data, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 320, data.Metrics.TotalOrders)
	assert.Len(t, data.RevenueTrend, 2)
}
