// Package wiki fetches documentation pages from the internal wiki over
// its token-authenticated content API.
package wiki

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"fleetmon/internal/config"
	"fleetmon/internal/httperr"
	"fleetmon/pkg/logging"
)

const apiName = "wiki"

// Page is one entry of the wiki page tree.
type Page struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// SearchHit is a page whose title, path or content matched a query.
type SearchHit struct {
	Page    Page
	Snippet string
}

// Client talks to the wiki content API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a wiki client from configuration.
func New(cfg config.WikiConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.token == "" {
		return nil, &httperr.ConfigError{Setting: "FLEETMON_WIKI_TOKEN", Hint: "wiki API token"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	logging.Debug("Wiki", "GET %s", path)

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

	return body, nil
}

// PageRaw fetches the raw content of one page by path.
func (c *Client) PageRaw(ctx context.Context, pagePath string) (string, error) {
	body, err := c.get(ctx, "/raw/"+strings.TrimPrefix(pagePath, "/"))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Tree lists every page of the wiki.
func (c *Client) Tree(ctx context.Context) ([]Page, error) {
	body, err := c.get(ctx, "/api/tree")
	if err != nil {
		return nil, err
	}
	var payload struct {
		Pages []Page `json:"pages"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &httperr.UpstreamError{API: apiName, Message: "unexpected tree payload: " + err.Error(), Err: err}
	}
	return payload.Pages, nil
}

// Search scans the page tree for pages whose title or path contains
// query, then fetches each candidate's content for a snippet. A page
// that cannot be fetched is returned without a snippet rather than
// failing the whole search.
func (c *Client) Search(ctx context.Context, query string) ([]SearchHit, error) {
	pages, err := c.Tree(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var hits []SearchHit
	for _, page := range pages {
		if !strings.Contains(strings.ToLower(page.Title), needle) &&
			!strings.Contains(strings.ToLower(page.Path), needle) {
			continue
		}
		hit := SearchHit{Page: page}
		if content, err := c.PageRaw(ctx, page.Path); err == nil {
			hit.Snippet = snippet(content, needle)
		} else {
			logging.Warn("Wiki", "skipping content of %s: %v", page.Path, err)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// snippet returns the first line around the match, or the first line of
// the page when the match only lives in the title.
func snippet(content, needle string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			return strings.TrimSpace(line)
		}
	}
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
