// Package agentapi queries monitoring agents directly over HTTP,
// bypassing the cloud API. Agents answer on a fixed port with no
// authentication; they are only reachable from inside the fleet.
package agentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"fleetmon/internal/config"
	"fleetmon/internal/httperr"
	"fleetmon/pkg/logging"
)

const apiName = "agent"

// Client issues direct queries against per-node agents.
type Client struct {
	port       int
	httpClient *http.Client
}

// New creates an agent client from configuration.
func New(cfg config.AgentConfig) *Client {
	port := cfg.Port
	if port == 0 {
		port = config.DefaultAgentPort
	}
	return &Client{
		port:       port,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) get(ctx context.Context, host, path string, params url.Values) (json.RawMessage, error) {
	u := fmt.Sprintf("http://%s:%d%s", host, c.port, path)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	logging.Debug("AgentAPI", "GET %s%s", host, path)

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
			Message:    fmt.Sprintf("%s returned %s", host, resp.Status),
		}
	}

	return json.RawMessage(body), nil
}

// Data fetches the recent time series for one metric context from the
// agent on host. The window is the last five minutes; the probe only
// cares whether points exist, not what they are.
func (c *Client) Data(ctx context.Context, host, metricContext string) (*Series, error) {
	params := url.Values{}
	params.Set("context", metricContext)
	params.Set("after", "-300")
	params.Set("format", "json")

	raw, err := c.get(ctx, host, "/api/v1/data", params)
	if err != nil {
		return nil, err
	}

	var series Series
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: fmt.Sprintf("unexpected data payload from %s: %v", host, err), Err: err}
	}
	return &series, nil
}

// Alarms fetches the raw alarm list from the agent on host, keyed by
// alarm name.
func (c *Client) Alarms(ctx context.Context, host string) (map[string]Alarm, error) {
	params := url.Values{}
	params.Set("all", "true")

	raw, err := c.get(ctx, host, "/api/v1/alarms", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Alarms map[string]Alarm `json:"alarms"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: fmt.Sprintf("unexpected alarm payload from %s: %v", host, err), Err: err}
	}
	return payload.Alarms, nil
}
