// Package tools declares the MCP tools fleetmon exposes and their
// handlers, grouped by service area (infrastructure, provider, wiki).
// Handlers convert every failure of their own body into a text error
// result; only an unknown tool name ever surfaces as a protocol fault.
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registration pairs one tool declaration with its handler so the
// server can register and collision-check them in a single pass.
type Registration struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}
