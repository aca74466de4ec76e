package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/muurk/slidecast/internal/logging"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxBodySize bounds how much of a response body is read
	maxBodySize = 8 << 20
)

// Client fetches the page catalog and per-page content from a presentation server.
//
// The page list is fetched once per session. Content and labels are fetched
// on every visit and never cached.
type Client struct {
	// BaseURL is the base URL of the presentation server (e.g., "http://localhost:8080")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	mu    sync.RWMutex
	pages []Page
}

// NewClient creates a catalog client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// FetchAll retrieves the ordered page list. It is a one-shot bootstrap:
// on failure the error is logged, the catalog is left empty and no retry
// is attempted.
func (c *Client) FetchAll(ctx context.Context) ([]Page, error) {
	body, err := c.get(ctx, "/pages")
	if err != nil {
		c.setPages(nil)
		logging.Error("Failed to fetch page catalog", zap.Error(err))
		return nil, err
	}

	var resp pagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.setPages(nil)
		perr := NewParseError("/pages", "failed to parse page list", err)
		logging.Error("Failed to fetch page catalog", zap.Error(perr))
		return nil, perr
	}

	pages := make([]Page, len(resp.Pages))
	for i, p := range resp.Pages {
		pages[i] = Page{Index: i, Type: p.Type}
	}
	c.setPages(pages)

	logging.Info("Page catalog loaded", zap.Int("pages", len(pages)))
	return c.Pages(), nil
}

// Pages returns a copy of the fetched page list
func (c *Client) Pages() []Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Page, len(c.pages))
	copy(out, c.pages)
	return out
}

// Page returns the descriptor at index
func (c *Client) Page(index int) (Page, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.pages) {
		return Page{}, NewOutOfRangeError(index, len(c.pages))
	}
	return c.pages[index], nil
}

func (c *Client) setPages(pages []Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = pages
}

// FetchContent retrieves the payload for the page at index.
// Command pages have no payload and make no request.
func (c *Client) FetchContent(ctx context.Context, index int) (*Content, error) {
	page, err := c.Page(index)
	if err != nil {
		return nil, err
	}

	if page.Type == Command {
		return &Content{Type: Command}, nil
	}

	path := fmt.Sprintf("/pages/%d", index)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	switch page.Type {
	case Code, Image:
		return &Content{Type: page.Type, Markup: string(body)}, nil
	default:
		var resp textResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, NewParseError(path, "failed to parse text lines", err)
		}
		return &Content{Type: Text, Lines: resp.lines()}, nil
	}
}

// FetchFragment retrieves the rendered output of a Command page, which the
// embedded view displays. It is addressed by the same URL as the page content.
func (c *Client) FetchFragment(ctx context.Context, index int) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("/pages/%d", index))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchLabel retrieves the short caption for the page at index
func (c *Client) FetchLabel(ctx context.Context, index int) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("/command/%d", index))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// get performs a single GET against the server
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, NewNetworkError(path, "failed to create GET request", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		nerr := NewNetworkError(path, "GET request failed", err)
		logging.LogFetch(path, 0, time.Since(start), nerr)
		return nil, nerr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		herr := NewHTTPError(path, resp.StatusCode)
		logging.LogFetch(path, resp.StatusCode, time.Since(start), herr)
		return nil, herr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		nerr := NewNetworkError(path, "failed to read response body", err)
		logging.LogFetch(path, resp.StatusCode, time.Since(start), nerr)
		return nil, nerr
	}

	logging.LogFetch(path, resp.StatusCode, time.Since(start), nil)
	return body, nil
}
