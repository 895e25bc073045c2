// Package api provides the HTTP client for the NLQ analytics backend.
//
// The client wraps a single base URL, attaches a JSON content type, and
// maps HTTP failures to a small fixed set of human-readable errors. It is
// deliberately not a resilience layer: no retries, no backoff, a fixed
// 30-second deadline per call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "https://api.nlq-analytics.example.com/api"

const requestTimeout = 30 * time.Second

const (
	suggestionsTTL = 30 * time.Second
	schemaTTL      = 5 * time.Minute
	schemaCacheKey = "schema"
)

// Client talks to the NLQ backend.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *gocache.Cache
	logger  *slog.Logger
}

// NewClient creates a client for the given base URL. An empty baseURL
// falls back to DefaultBaseURL; a nil logger discards.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		cache:   gocache.New(5*time.Minute, 10*time.Minute),
		logger:  logger,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the shape probed for a server-supplied message on
// failure statuses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do performs one request and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body any, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return unknownError(fmt.Errorf("encode request: %w", err))
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return unknownError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// No response received: transport failure, timeout or cancellation.
		c.logger.Debug("request failed", "method", method, "path", path, "err", err)
		return networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request", "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return unknownError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Error
		if msg == "" {
			msg = eb.Message
		}
		return requestError(resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return unknownError(fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

// Query submits a natural-language query for translation and execution.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.do(ctx, http.MethodPost, "/nlq/query", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateSQL translates a question into SQL without executing it.
func (c *Client) GenerateSQL(ctx context.Context, query, language string) (*GenerateSQLResponse, error) {
	var resp GenerateSQLResponse
	req := GenerateSQLRequest{Query: query, Language: language}
	if err := c.do(ctx, http.MethodPost, "/nlq/generate-sql", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExecuteSQL runs a SQL statement directly.
func (c *Client) ExecuteSQL(ctx context.Context, sql string, opts QueryOptions) (*QueryResponse, error) {
	var resp QueryResponse
	req := ExecuteSQLRequest{SQL: sql, Options: opts}
	if err := c.do(ctx, http.MethodPost, "/nlq/execute-sql", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Suggestions returns query completions for a prefix. Results are cached
// briefly because the REPL completer calls this on every completion
// request.
func (c *Client) Suggestions(ctx context.Context, q string) ([]string, error) {
	key := "suggestions:" + q
	if v, ok := c.cache.Get(key); ok {
		return v.([]string), nil
	}

	var resp SuggestionsResponse
	params := url.Values{"q": {q}}
	if err := c.do(ctx, http.MethodGet, "/nlq/suggestions", nil, params, &resp); err != nil {
		return nil, err
	}
	c.cache.Set(key, resp.Suggestions, suggestionsTTL)
	return resp.Suggestions, nil
}

// GetSchema fetches the backend table schema, cached for a few minutes.
func (c *Client) GetSchema(ctx context.Context) (Schema, error) {
	if v, ok := c.cache.Get(schemaCacheKey); ok {
		return v.(Schema), nil
	}

	var resp SchemaResponse
	if err := c.do(ctx, http.MethodGet, "/nlq/schema", nil, nil, &resp); err != nil {
		return nil, err
	}
	c.cache.Set(schemaCacheKey, resp.Schema, schemaTTL)
	return resp.Schema, nil
}

// AddRelationship registers a join path between two tables.
func (c *Client) AddRelationship(ctx context.Context, rel Relationship) error {
	var resp AckResponse
	return c.do(ctx, http.MethodPost, "/nlq/relationships", rel, nil, &resp)
}

// RefreshSchema asks the backend to re-introspect the database and
// drops the local schema cache.
func (c *Client) RefreshSchema(ctx context.Context) error {
	var resp AckResponse
	if err := c.do(ctx, http.MethodPost, "/nlq/refresh-schema", nil, nil, &resp); err != nil {
		return err
	}
	c.cache.Delete(schemaCacheKey)
	return nil
}

// Health checks backend availability.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var resp Health
	if err := c.do(ctx, http.MethodGet, "/nlq/health", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetStats fetches backend usage statistics.
func (c *Client) GetStats(ctx context.Context) (Stats, error) {
	var resp Stats
	if err := c.do(ctx, http.MethodGet, "/nlq/stats", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
