// Package cloudapi is the outbound facade for the metrics cloud API.
// Every call attaches the configured bearer token and normalizes
// failures into httperr values; callers never see the token or the raw
// transport error shape.
package cloudapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fleetmon/internal/config"
	"fleetmon/internal/httperr"
	"fleetmon/pkg/logging"
)

const apiName = "cloud"

// Client talks to the metrics cloud API for one space.
type Client struct {
	baseURL    string
	token      string
	spaceID    string
	httpClient *http.Client
}

// New creates a cloud API client from configuration. Credentials are
// not checked here; each call verifies them before any network I/O.
func New(cfg config.CloudConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		spaceID:    cfg.SpaceID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Get performs an authenticated GET against the cloud API and returns
// the raw JSON body.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if c.token == "" {
		return nil, &httperr.ConfigError{Setting: "FLEETMON_CLOUD_TOKEN", Hint: "cloud API token"}
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	logging.Debug("CloudAPI", "GET %s", path)

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
			Message:    upstreamMessage(body, resp.Status),
		}
	}

	return json.RawMessage(body), nil
}

// upstreamMessage extracts a human-readable error from an upstream
// response body, falling back to the HTTP status line.
func upstreamMessage(body []byte, status string) string {
	var payload struct {
		ErrorMessage string `json:"errorMessage"`
		Message      string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.ErrorMessage != "" {
			return payload.ErrorMessage
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if text != "" && len(text) <= 200 {
		return text
	}
	return status
}

// requireSpace guards the space-scoped endpoints.
func (c *Client) requireSpace() error {
	if c.spaceID == "" {
		return &httperr.ConfigError{Setting: "FLEETMON_CLOUD_SPACE_ID", Hint: "cloud space identifier"}
	}
	return nil
}

// Spaces lists the spaces visible to the token.
func (c *Client) Spaces(ctx context.Context) ([]Space, error) {
	raw, err := c.Get(ctx, "/api/v2/spaces", nil)
	if err != nil {
		return nil, err
	}
	var spaces []Space
	if err := json.Unmarshal(raw, &spaces); err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: fmt.Sprintf("unexpected space list payload: %v", err), Err: err}
	}
	return spaces, nil
}

// Rooms lists the rooms of the configured space.
func (c *Client) Rooms(ctx context.Context) ([]Room, error) {
	if err := c.requireSpace(); err != nil {
		return nil, err
	}
	raw, err := c.Get(ctx, fmt.Sprintf("/api/v2/spaces/%s/rooms", c.spaceID), nil)
	if err != nil {
		return nil, err
	}
	var rooms []Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: fmt.Sprintf("unexpected room list payload: %v", err), Err: err}
	}
	return rooms, nil
}

// AlarmCounters fetches the per-room alarm counters of the configured
// space.
func (c *Client) AlarmCounters(ctx context.Context) ([]AlarmCounter, error) {
	if err := c.requireSpace(); err != nil {
		return nil, err
	}
	raw, err := c.Get(ctx, fmt.Sprintf("/api/v2/spaces/%s/alarms", c.spaceID), nil)
	if err != nil {
		return nil, err
	}
	var counters []AlarmCounter
	if err := json.Unmarshal(raw, &counters); err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: fmt.Sprintf("unexpected alarm counter payload: %v", err), Err: err}
	}
	return counters, nil
}

// Contexts lists the metric contexts collected in a room.
func (c *Client) Contexts(ctx context.Context, roomID string) ([]string, error) {
	if err := c.requireSpace(); err != nil {
		return nil, err
	}
	raw, err := c.Get(ctx, fmt.Sprintf("/api/v2/spaces/%s/rooms/%s/contexts", c.spaceID, roomID), nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Contexts []string `json:"contexts"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: fmt.Sprintf("unexpected context list payload: %v", err), Err: err}
	}
	return payload.Contexts, nil
}

// Nodes lists the nodes of a room.
func (c *Client) Nodes(ctx context.Context, roomID string) ([]Node, error) {
	if err := c.requireSpace(); err != nil {
		return nil, err
	}
	raw, err := c.Get(ctx, fmt.Sprintf("/api/v2/spaces/%s/rooms/%s/nodes", c.spaceID, roomID), nil)
	if err != nil {
		return nil, err
	}
	var nodes []Node
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: fmt.Sprintf("unexpected node list payload: %v", err), Err: err}
	}
	return nodes, nil
}
