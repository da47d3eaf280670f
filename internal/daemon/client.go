package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	clientTimeout  = 2 * time.Second
	maxClientBody  = 1 << 20 // 1 MB
	clientUserAgnt = "fintrack-cli/1.0"
)

// ErrNotFound indicates the monitor rejected a bill or notification id.
var ErrNotFound = errors.New("daemon: not found")

// Client talks to a running monitor over its local HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the monitor listening on addr.
// addr may be host:port or a full http:// URL.
func NewClient(addr string) *Client {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: addr,
		http:    &http.Client{},
	}
}

// BaseURL is the resolved API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Health reports whether /healthz answers.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz")
	return err
}

// Status fetches the monitor's runtime status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	body, err := c.do(ctx, http.MethodGet, "/v1/status")
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return st, fmt.Errorf("daemon: parsing status: %w", err)
	}
	return st, nil
}

// Events fetches the retained event log, oldest first.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/events")
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("daemon: parsing events: %w", err)
	}
	return events, nil
}

// Settle marks a bill paid on the monitor.
func (c *Client) Settle(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/bills/%d/settle", id))
	return err
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, clientTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("daemon: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", clientUserAgnt)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daemon: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxClientBody))
	if err != nil {
		return nil, fmt.Errorf("daemon: reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("daemon: %s (HTTP %d)", apiErr.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("daemon: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
