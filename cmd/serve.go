package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fleetmon/internal/config"
	"fleetmon/internal/server"
	"fleetmon/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	serveTransport string
	serveListen    string
	serveDebug     bool
)

// serveCmd starts the MCP server over the selected transport.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fleetmon MCP server",
	Long: `Starts the fleetmon MCP server and exposes the monitoring tools to
MCP clients.

Two transports are available:

1. stdio (default):
   - Serves MCP over stdin/stdout, for clients that spawn fleetmon as
     a subprocess. Logs go to stderr so stdout stays clean.

2. sse (using --transport sse):
   - Serves MCP over HTTP Server-Sent Events on the --listen address,
     for clients that connect over the network.

Configuration is layered: built-in defaults, then
~/.config/fleetmon/config.yaml, then .fleetmon/config.yaml in the
working directory, then FLEETMON_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := logging.LevelInfo
	if serveDebug || cfg.Logging.Level == "debug" {
		level = logging.LevelDebug
	}
	logging.Init(level, cfg.Logging.Format, os.Stderr)

	srv, err := server.New("fleetmon", rootCmd.Version, server.Assemble(cfg))
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch serveTransport {
	case "stdio":
		return srv.ServeStdio(ctx)
	case "sse":
		return srv.ServeSSE(ctx, serveListen)
	default:
		return fmt.Errorf("unknown transport %q (expected stdio or sse)", serveTransport)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTransport, "transport", "stdio", "MCP transport: stdio or sse")
	serveCmd.Flags().StringVar(&serveListen, "listen", "localhost:8080", "Listen address for the sse transport")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}
