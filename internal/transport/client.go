package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Poster sends a form-encoded body to url and returns the raw response body.
type Poster interface {
	Post(ctx context.Context, url string, body string) ([]byte, error)
}

// TransportError is any failure below the processor protocol: dial, TLS,
// timeouts or a non-2xx HTTP status.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("post %s: status=%d body=%s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("post %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type Client struct {
	HTTP *http.Client
}

func New(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{HTTP: hc}
}

func (c *Client) Post(ctx context.Context, url string, body string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode/100 != 2 {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return b, nil
}
