// Package store persists users, events, and saved events through the
// Supabase PostgREST API. The database is treated as an opaque keyed store;
// all access goes through typed repositories built on a small query
// builder.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is a Supabase REST API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// Config holds client configuration.
type Config struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// NewClient creates a Supabase client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("store: URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("store: APIKey is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		log:        cfg.Logger,
	}, nil
}

// From starts a query builder for a table.
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{client: c, table: table}
}

// QueryBuilder builds PostgREST SELECT queries.
type QueryBuilder struct {
	client  *Client
	table   string
	columns string
	filters []string
	orders  []string
	limit   int
}

// Select specifies columns (and embedded resources) to return.
func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.columns = columns
	return q
}

// Eq adds an equality filter.
func (q *QueryBuilder) Eq(column string, value any) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=eq.%v", column, value))
	return q
}

// Order adds an ORDER BY clause.
func (q *QueryBuilder) Order(column string, ascending bool) *QueryBuilder {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	q.orders = append(q.orders, fmt.Sprintf("%s.%s", column, dir))
	return q
}

// Limit caps the number of returned rows.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	return q
}

// Execute runs the query and decodes the JSON array response into dest.
func (q *QueryBuilder) Execute(ctx context.Context, dest any) error {
	params := url.Values{}
	if q.columns != "" {
		params.Set("select", q.columns)
	}
	for _, f := range q.filters {
		parts := strings.SplitN(f, "=", 2)
		params.Add(parts[0], parts[1])
	}
	if len(q.orders) > 0 {
		params.Set("order", strings.Join(q.orders, ","))
	}
	if q.limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", q.limit))
	}

	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", q.client.baseURL, q.table, params.Encode())
	return q.client.do(ctx, http.MethodGet, reqURL, nil, dest)
}

// Insert adds a row to a table and decodes the representation returned by
// PostgREST into dest (pass nil to discard it).
func (c *Client) Insert(ctx context.Context, table string, record any, dest any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("store: encode %s insert: %w", table, err)
	}
	reqURL := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	return c.do(ctx, http.MethodPost, reqURL, body, dest)
}

// Delete removes rows matching all given column=value equality filters.
func (c *Client) Delete(ctx context.Context, table string, filters map[string]any) error {
	params := url.Values{}
	for col, val := range filters {
		params.Add(col, fmt.Sprintf("eq.%v", val))
	}
	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, params.Encode())
	return c.do(ctx, http.MethodDelete, reqURL, nil, nil)
}

func (c *Client) do(ctx context.Context, method, reqURL string, body []byte, dest any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("store: create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store: %s %s: %w", method, reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("store: %s returned %d: %s", method, resp.StatusCode, respBody)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("store: decode response: %w", err)
	}
	return nil
}
