package tools

import (
	"context"
	"fmt"
	"strings"

	"fleetmon/internal/wiki"

	"github.com/mark3labs/mcp-go/mcp"
)

// WikiAPI is the slice of the wiki client the wiki tools need.
type WikiAPI interface {
	PageRaw(ctx context.Context, path string) (string, error)
	Tree(ctx context.Context) ([]wiki.Page, error)
	Search(ctx context.Context, query string) ([]wiki.SearchHit, error)
}

// WikiTools provides the wiki service area: page fetch, page discovery
// and search.
type WikiTools struct {
	wikiAPI WikiAPI
}

// NewWikiTools creates the wiki tool set.
func NewWikiTools(wikiAPI WikiAPI) *WikiTools {
	return &WikiTools{wikiAPI: wikiAPI}
}

// Registrations returns every wiki tool with its handler.
func (wt *WikiTools) Registrations() []Registration {
	return []Registration{
		{
			Tool: mcp.NewTool("wiki_get_page",
				mcp.WithDescription("Fetch the raw content of a wiki page by path"),
				mcp.WithString("path",
					mcp.Required(),
					mcp.Description("Page path, e.g. runbooks/gpu-recovery"),
				),
			),
			Handler: wt.HandleGetPage,
		},
		{
			Tool: mcp.NewTool("wiki_list_pages",
				mcp.WithDescription("List every page of the wiki"),
			),
			Handler: wt.HandleListPages,
		},
		{
			Tool: mcp.NewTool("wiki_search",
				mcp.WithDescription("Search wiki pages by title or path and show a content snippet per hit"),
				mcp.WithString("query",
					mcp.Required(),
					mcp.Description("Search term"),
				),
			),
			Handler: wt.HandleSearch,
		},
	}
}

// HandleGetPage handles the wiki_get_page tool call.
func (wt *WikiTools) HandleGetPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil
	}

	content, err := wt.wikiAPI.PageRaw(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch page: %v", err)), nil
	}
	return mcp.NewToolResultText(content), nil
}

// HandleListPages handles the wiki_list_pages tool call.
func (wt *WikiTools) HandleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := wt.wikiAPI.Tree(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list pages: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Wiki Pages (%d)\n\n", len(pages)))
	if len(pages) == 0 {
		sb.WriteString("The wiki has no pages.\n")
	}
	for _, page := range pages {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", page.Title, page.Path))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleSearch handles the wiki_search tool call.
func (wt *WikiTools) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	hits, err := wt.wikiAPI.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Search failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Search Results for %q (%d)\n\n", query, len(hits)))
	if len(hits) == 0 {
		sb.WriteString("No pages matched.\n")
	}
	for _, hit := range hits {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", hit.Page.Title, hit.Page.Path))
		if hit.Snippet != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", hit.Snippet))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
