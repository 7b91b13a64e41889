// internal/adapters/remote/client.go
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/ports"
)

// Client talks to the remote inventory service over HTTP. Transport-level
// failures surface as domain.ErrRemoteUnavailable; structured rejections
// surface as domain.ErrRemoteRejected carrying the server-reported reason.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Statically assert that *Client implements the RemoteInventory interface.
var _ ports.RemoteInventory = (*Client)(nil)

// NewClient creates a client for the service rooted at baseURL (including
// any path prefix, e.g. "http://localhost:8080/api"). A zero timeout leaves
// requests unbounded.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With(slog.String("adapter", "remote")),
	}
}

// mutationResponse is the envelope the service returns for writes.
type mutationResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Item    *domain.Item `json:"item"`
}

// Ping probes GET /health. Any non-success response counts as unreachable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health probe returned status %d",
			domain.ErrRemoteUnavailable, resp.StatusCode)
	}
	return nil
}

// FetchItems retrieves the full item list via GET /items.
func (c *Client) FetchItems(ctx context.Context) ([]domain.Item, error) {
	return c.fetchItemList(ctx, "/items")
}

// CreateItem posts a new item and returns the server's echo of it, carrying
// the server-assigned id.
func (c *Client) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	result, err := c.mutate(ctx, http.MethodPost, "/items", item)
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, fmt.Errorf("%w: create response carried no item", domain.ErrRemoteRejected)
	}
	return result.Item, nil
}

// UpdateItem puts a partial item to /items/{id}.
func (c *Client) UpdateItem(ctx context.Context, id int, patch *domain.ItemPatch) error {
	_, err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), patch)
	return err
}

// DeleteItem removes /items/{id}.
func (c *Client) DeleteItem(ctx context.Context, id int) error {
	_, err := c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil)
	return err
}

// SearchByName queries GET /search/name/{query}.
func (c *Client) SearchByName(ctx context.Context, query string) ([]domain.Item, error) {
	return c.fetchItemList(ctx, "/search/name/"+url.PathEscape(query))
}

// SearchByCategory queries GET /search/category/{category}.
func (c *Client) SearchByCategory(ctx context.Context, category string) ([]domain.Item, error) {
	return c.fetchItemList(ctx, "/search/category/"+url.PathEscape(category))
}

// Internal helpers

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	return resp, nil
}

func (c *Client) fetchItemList(ctx context.Context, path string) ([]domain.Item, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s returned status %d",
			domain.ErrRemoteUnavailable, path, resp.StatusCode)
	}

	var items []domain.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: failed to decode item list: %v",
			domain.ErrRemoteUnavailable, err)
	}
	return items, nil
}

// mutate runs a write and maps the response envelope onto the domain error
// kinds: transport errors are unavailable, 404 is not found, and any other
// reported failure is a rejection carrying the server's reason.
func (c *Client) mutate(ctx context.Context, method, path string, body any) (*mutationResponse, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result mutationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v",
			domain.ErrRemoteUnavailable, err)
	}

	if result.Success {
		return &result, nil
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, result.Error)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteRejected, result.Error)
	}
	return nil, fmt.Errorf("%w: %s %s returned status %d",
		domain.ErrRemoteRejected, method, path, resp.StatusCode)
}
