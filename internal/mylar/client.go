// Package mylar implements the client for the Mylar comic-collection
// backend's history and upcoming feeds.
package mylar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mylarsensor/internal/config"
)

// HistoryEntry is one release record from the getHistory feed.
type HistoryEntry struct {
	ComicName   string `json:"ComicName"`
	IssueNumber string `json:"Issue_Number"`
	DateAdded   string `json:"DateAdded"`
	Status      string `json:"Status"`
	IssueID     string `json:"IssueID"`
	ComicID     string `json:"ComicID"`
}

// UpcomingEntry is one pending-issue record from the getUpcoming feed.
type UpcomingEntry struct {
	ComicName   string `json:"ComicName"`
	IssueNumber string `json:"IssueNumber"`
	IssueDate   string `json:"IssueDate"`
	IssueID     string `json:"IssueID"`
	ComicID     string `json:"ComicID"`
}

// DateAddedLayout is the timestamp format of HistoryEntry.DateAdded.
const DateAddedLayout = "2006-01-02 15:04:05"

// IssueDateLayout is the date-only format of UpcomingEntry.IssueDate.
const IssueDateLayout = "2006-01-02"

type historyResponse struct {
	Data []HistoryEntry `json:"data"`
}

// Fetcher defines the backend operations the refresh orchestrator needs.
type Fetcher interface {
	GetHistory(ctx context.Context) ([]HistoryEntry, error)
	GetUpcoming(ctx context.Context) ([]UpcomingEntry, error)
}

// Client provides access to the Mylar API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

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

// WithBaseURL overrides the URL derived from config (tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/") + "/"
		}
	}
}

// New creates a Mylar client from connection settings.
func New(cfg config.Mylar, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("mylar api key required")
	}
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("mylar host required")
	}

	scheme := "http"
	if cfg.SSL {
		scheme = "https"
	}
	// cfg.URLBase is normalized to "x/" form (or empty) by config.
	baseURL := fmt.Sprintf("%s://%s:%d/%s", scheme, cfg.Host, cfg.Port, cfg.URLBase)

	client := &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetHistory fetches release history entries.
func (c *Client) GetHistory(ctx context.Context) ([]HistoryEntry, error) {
	var payload historyResponse
	if err := c.get(ctx, "getHistory", &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// GetUpcoming fetches pending issues. The feed is a bare JSON list.
func (c *Client) GetUpcoming(ctx context.Context) ([]UpcomingEntry, error) {
	var payload []UpcomingEntry
	if err := c.get(ctx, "getUpcoming", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, command string, out any) error {
	endpoint := fmt.Sprintf("%sapi?apikey=%s&cmd=%s", c.baseURL, c.apiKey, command)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mylar %s returned %d", command, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", command, err)
	}
	return nil
}
