package comicvine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "mylarsensor"

// Record is one enrichment record from the catalog: either the first search
// result augmented with the query URL, or a failure placeholder recorded when
// the catalog had no usable answer.
type Record map[string]any

// Placeholder keys recorded when the upstream returned no usable result.
// These shapes persist in the durable cache.
const (
	queryURLKey      = "cvurl"
	failureStatusKey = "cvres"
)

// IsPlaceholder reports whether the record is a cached failure marker rather
// than real metadata.
func (r Record) IsPlaceholder() bool {
	_, ok := r[failureStatusKey]
	return ok
}

// Name returns the issue name field, or "" when absent or a placeholder.
func (r Record) Name() string {
	name, _ := r["name"].(string)
	return name
}

// ThumbURL returns the nested image thumbnail URL when the record carries one.
func (r Record) ThumbURL() (string, bool) {
	image, ok := r["image"].(map[string]any)
	if !ok {
		return "", false
	}
	thumb, ok := image["thumb_url"].(string)
	return thumb, ok && thumb != ""
}

type response struct {
	Results []map[string]any `json:"results"`
}

// Client provides access to the ComicVine issues API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a ComicVine client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("comicvine api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("comicvine base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Lookup queries the catalog for the identified issue.
//
// A transport failure returns a nil record and the error; the caller must
// treat that as "no enrichment this cycle" and must not cache it. An upstream
// miss (non-200 status, or 200 with an empty or malformed result set) returns
// a failure placeholder and no error; placeholders are meant to be cached so
// permanently missing records are not re-queried every cycle.
func (c *Client) Lookup(ctx context.Context, id Identity) (Record, error) {
	if id.IsZero() {
		return nil, ErrMissingIdentity
	}

	queryURL, err := c.buildQuery(id)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failurePlaceholder(queryURL, resp.StatusCode), nil
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return failurePlaceholder(queryURL, resp.StatusCode), nil
	}
	if len(payload.Results) == 0 {
		return failurePlaceholder(queryURL, resp.StatusCode), nil
	}

	record := Record(payload.Results[0])
	record[queryURLKey] = queryURL
	return record, nil
}

func (c *Client) buildQuery(id Identity) (string, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse comicvine url: %w", err)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if id.issueID != "" {
		params.Set("filter", "id:"+id.issueID)
	} else {
		params.Set("filter", fmt.Sprintf("volume:%s,issue_number:%s", id.volumeID, id.issueNumber))
	}
	params.Set("format", "json")
	endpoint.RawQuery = params.Encode()
	return endpoint.String(), nil
}

func failurePlaceholder(queryURL string, status int) Record {
	return Record{
		queryURLKey:      queryURL,
		failureStatusKey: status,
	}
}
