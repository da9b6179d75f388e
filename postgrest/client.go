// Package postgrest implements the remote experiences table on top of a hosted
// PostgREST endpoint such as the Supabase REST API (`/rest/v1`).
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/memento-gifts/memento/domain"
)

var _ domain.ExperienceStore = (*Client)(nil)

// ErrMissingURL is returned by New when no base URL is configured.
var ErrMissingURL = errors.New("postgrest: base url is required")

// APIError is a non-2xx response from the REST endpoint.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("postgrest: status %d", e.Status)
	}
	if e.Code == "" {
		return fmt.Sprintf("postgrest: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("postgrest: status %d: %s (%s)", e.Status, e.Message, e.Code)
}

// Client talks to one table of a PostgREST endpoint.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	table      string
	httpClient *http.Client
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) func(*Client) error {
	return func(c *Client) error {
		if httpClient == nil {
			return errors.New("postgrest: nil http client")
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithTable overrides the table name (defaults to domain.ExperiencesTable).
func WithTable(table string) func(*Client) error {
	return func(c *Client) error {
		if table == "" {
			return errors.New("postgrest: empty table name")
		}
		c.table = table
		return nil
	}
}

// New creates a client for the project at baseURL (e.g. https://xyz.supabase.co).
// The REST path `/rest/v1` is appended unless baseURL already ends with it.
func New(baseURL, apiKey string, options ...func(*Client) error) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingURL
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/rest/v1") {
		parsed.Path += "/rest/v1"
	}

	client := &Client{
		baseURL:    parsed,
		apiKey:     apiKey,
		table:      domain.ExperiencesTable,
		httpClient: &http.Client{Transport: NewTransport()},
	}

	for _, option := range options {
		if err := option(client); err != nil {
			return nil, fmt.Errorf("applying option on postgrest client : %w", err)
		}
	}
	return client, nil
}

// Select issues GET /{table}?select=*&filters.
func (c *Client) Select(ctx context.Context, filters ...domain.Filter) ([]*domain.ExperienceRow, error) {
	query := url.Values{}
	query.Set("select", "*")
	if err := filterQuery(query, filters); err != nil {
		return nil, err
	}

	rows := make([]*domain.ExperienceRow, 0)
	if err := c.do(ctx, http.MethodGet, query, nil, "", &rows); err != nil {
		return nil, fmt.Errorf("selecting experiences: %w", err)
	}
	return rows, nil
}

// Insert issues POST /{table} with a JSON array and asks for the stored representation.
func (c *Client) Insert(ctx context.Context, rows ...*domain.ExperienceRow) ([]*domain.ExperienceRow, error) {
	if len(rows) == 0 {
		return []*domain.ExperienceRow{}, nil
	}

	payload := make([]*domain.ExperienceRow, len(rows))
	for i, row := range rows {
		stripped := *row
		stripped.ID = ""
		payload[i] = &stripped
	}

	query := url.Values{}
	query.Set("select", "*")

	stored := make([]*domain.ExperienceRow, 0, len(rows))
	if err := c.do(ctx, http.MethodPost, query, payload, "return=representation", &stored); err != nil {
		return nil, fmt.Errorf("inserting experiences: %w", err)
	}
	return stored, nil
}

// Update issues PATCH /{table}?filters with the column values.
func (c *Client) Update(ctx context.Context, values map[string]any, filters ...domain.Filter) error {
	if len(values) == 0 {
		return nil
	}
	if err := domain.ValidateValues(values); err != nil {
		return fmt.Errorf("building update: %w", err)
	}

	query := url.Values{}
	if err := filterQuery(query, filters); err != nil {
		return err
	}

	if err := c.do(ctx, http.MethodPatch, query, values, "return=minimal", nil); err != nil {
		return fmt.Errorf("updating experiences: %w", err)
	}
	return nil
}

// Delete issues DELETE /{table}?filters.
func (c *Client) Delete(ctx context.Context, filters ...domain.Filter) error {
	query := url.Values{}
	if err := filterQuery(query, filters); err != nil {
		return err
	}

	if err := c.do(ctx, http.MethodDelete, query, nil, "return=minimal", nil); err != nil {
		return fmt.Errorf("deleting experiences: %w", err)
	}
	return nil
}

// Ping fetches at most one id to check that the endpoint and the key work.
func (c *Client) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("select", domain.ColumnID)
	query.Set("limit", "1")

	var rows []map[string]any
	if err := c.do(ctx, http.MethodGet, query, nil, "", &rows); err != nil {
		return fmt.Errorf("pinging postgrest: %w", err)
	}
	return nil
}

// do sends one request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method string, query url.Values, body any, prefer string, out any) error {
	endpoint := *c.baseURL
	endpoint.Path += "/" + c.table
	endpoint.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending %s request: %w", method, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{Status: res.StatusCode}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, apiErr); err != nil {
				apiErr.Message = strings.TrimSpace(string(raw))
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
