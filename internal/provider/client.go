// Package provider is the outbound facade for the decentralized
// provider health API. The API is unauthenticated and read-only; its
// records are loosely typed, see issues.go.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fleetmon/internal/config"
	"fleetmon/internal/httperr"
	"fleetmon/pkg/logging"
)

const apiName = "provider"

// Client talks to the provider health API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a provider health client from configuration.
func New(cfg config.ProviderConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Get performs a GET against the provider health API and returns the
// raw JSON body.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	logging.Debug("ProviderAPI", "GET %s", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &httperr.UpstreamError{
			API:        apiName,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	return json.RawMessage(body), nil
}

func decodeFeed[T any](raw json.RawMessage, key string) ([]T, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: fmt.Sprintf("unexpected issue payload: %v", err), Err: err}
	}
	entries, ok := payload[key]
	if !ok {
		// An absent feed key means no issues of this kind, not an error.
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(entries, &items); err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: fmt.Sprintf("unexpected %s payload: %v", key, err), Err: err}
	}
	return items, nil
}

// GPUIssues fetches nodes with GPU capacity problems.
func (c *Client) GPUIssues(ctx context.Context) ([]ResourceIssue, error) {
	raw, err := c.Get(ctx, "/api/issues/gpu")
	if err != nil {
		return nil, err
	}
	return decodeFeed[ResourceIssue](raw, "gpu_issues")
}

// CPUIssues fetches nodes with CPU capacity problems.
func (c *Client) CPUIssues(ctx context.Context) ([]ResourceIssue, error) {
	raw, err := c.Get(ctx, "/api/issues/cpu")
	if err != nil {
		return nil, err
	}
	return decodeFeed[ResourceIssue](raw, "nodes_with_issues")
}

// MemoryIssues fetches nodes with memory capacity problems.
func (c *Client) MemoryIssues(ctx context.Context) ([]ResourceIssue, error) {
	raw, err := c.Get(ctx, "/api/issues/memory")
	if err != nil {
		return nil, err
	}
	return decodeFeed[ResourceIssue](raw, "nodes_with_issues")
}

// DownProviders fetches providers that stopped answering entirely.
func (c *Client) DownProviders(ctx context.Context) ([]DownProvider, error) {
	raw, err := c.Get(ctx, "/api/issues/down")
	if err != nil {
		return nil, err
	}
	return decodeFeed[DownProvider](raw, "down_providers")
}

// PartialFailures fetches providers with some unreachable endpoints.
func (c *Client) PartialFailures(ctx context.Context) ([]PartialFailure, error) {
	raw, err := c.Get(ctx, "/api/issues/partial")
	if err != nil {
		return nil, err
	}
	return decodeFeed[PartialFailure](raw, "providers_with_partial_failures")
}
