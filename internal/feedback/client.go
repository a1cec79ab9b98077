// Package feedback talks to the spreadsheet-backed feedback endpoint.
// Unlike the old browser relay, which registered a process-global callback
// per request, this is a plain request/response client: every call carries
// its own generated request ID and resolves through the HTTP response.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Feedback is a single submission.
type Feedback struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
	Rating  int    `json:"rating,omitempty"`
}

// Entry is a stored feedback row.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	Rating    int    `json:"rating"`
}

// Client communicates with the feedback endpoint. The endpoint speaks a
// query-parameter protocol: action=submitFeedback to write, action=
// getFeedback to read.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Submit writes one feedback entry.
func (c *Client) Submit(ctx context.Context, f Feedback) error {
	if f.Message == "" {
		return fmt.Errorf("feedback message is required")
	}

	params := url.Values{}
	params.Set("action", "submitFeedback")
	params.Set("request_id", uuid.NewString())
	params.Set("timestamp", time.Now().UTC().Format(time.RFC3339))
	params.Set("type", f.Type)
	params.Set("name", f.Name)
	params.Set("message", f.Message)
	params.Set("rating", strconv.Itoa(f.Rating))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("submit feedback: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// List reads all stored feedback entries.
func (c *Client) List(ctx context.Context) ([]Entry, error) {
	params := url.Values{}
	params.Set("action", "getFeedback")
	params.Set("request_id", uuid.NewString())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feedback: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch feedback: status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Feedback []Entry `json:"feedback"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}
	return result.Feedback, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
