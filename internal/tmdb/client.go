package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when the API reports an unknown movie ID.
// Callers are expected to skip the ID rather than abort the run.
var ErrNotFound = errors.New("tmdb: movie not found")

// StatusError is any non-2xx, non-404 API response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "tmdb: status error"
	}
	return fmt.Sprintf("tmdb: status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the TMDB v3 API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 12 * time.Second},
	}
}

// FetchMovie retrieves detail and credits for one movie in a single round
// trip using append_to_response. Returns ErrNotFound for unknown IDs.
func (c *Client) FetchMovie(ctx context.Context, id int64) (*Movie, error) {
	u, err := url.Parse(fmt.Sprintf("%s/movie/%d", c.BaseURL, id))
	if err != nil {
		return nil, fmt.Errorf("tmdb: parse url: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.APIKey)
	q.Set("language", "en-US")
	q.Set("append_to_response", "credits")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("tmdb: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb: request: %w", err)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{
			// report the path only: the full URL carries the api_key
			URL:        fmt.Sprintf("%s/movie/%d", c.BaseURL, id),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var m Movie
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("tmdb: decode movie %d: %w", id, err)
	}
	if m.ID == 0 {
		return nil, fmt.Errorf("tmdb: movie %d: empty payload", id)
	}
	return &m, nil
}
