// Package server assembles the MCP server: it collects the tool tables
// of every service area, rejects duplicate tool names at construction,
// and runs the stdio or SSE transport.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"fleetmon/internal/api/tools"
	"fleetmon/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with fleetmon's tool registry.
type Server struct {
	mcpServer *server.MCPServer
	tools     []mcp.Tool
}

// New builds a server from the unioned tool registrations. Tool names
// are unique by convention across service areas; a collision is a
// configuration error and fails construction rather than shadowing a
// handler at dispatch time.
func New(name, version string, registrations []tools.Registration) (*Server, error) {
	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	seen := make(map[string]struct{}, len(registrations))
	toolList := make([]mcp.Tool, 0, len(registrations))
	for _, reg := range registrations {
		if _, dup := seen[reg.Tool.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", reg.Tool.Name)
		}
		seen[reg.Tool.Name] = struct{}{}
		mcpServer.AddTool(reg.Tool, reg.Handler)
		toolList = append(toolList, reg.Tool)
	}

	logging.Info("Server", "registered %d tools", len(toolList))

	return &Server{mcpServer: mcpServer, tools: toolList}, nil
}

// Tools returns the registered tool catalog.
func (s *Server) Tools() []mcp.Tool {
	return s.tools
}

// ServeStdio serves MCP over stdin/stdout until the stream closes or
// the context is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	logging.Info("Server", "serving MCP over stdio")
	return server.NewStdioServer(s.mcpServer).Listen(ctx, os.Stdin, os.Stdout)
}

// ServeSSE serves MCP over SSE on addr until the context is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(
		s.mcpServer,
		server.WithBaseURL(fmt.Sprintf("http://%s", addr)),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server", "serving MCP over SSE on %s", addr)
		if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Info("Server", "shutting down SSE server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return sseServer.Shutdown(shutdownCtx)
	}
}
