// Package metadata fetches game metadata from the RAWG API.
// The fetch-by-name contract returns a possibly-nil blob; callers persist
// blobs into the rawg_cache table and the insights path reads only the cache.
package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// DefaultBaseURL is the public RAWG API endpoint.
const DefaultBaseURL = "https://api.rawg.io/api"

// Client is a thin RAWG API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client. An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Results []map[string]any `json:"results"`
}

// FetchByName searches RAWG for a game and returns the first match's raw
// metadata blob, or nil when nothing matches.
func (c *Client) FetchByName(ctx context.Context, name string) (map[string]any, error) {
	q := url.Values{}
	q.Set("search", name)
	q.Set("page_size", "1")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/games?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rawg request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rawg request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rawg returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rawg response: %w", err)
	}
	if len(body.Results) == 0 {
		return nil, nil
	}
	return body.Results[0], nil
}
