package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"fleetmon/internal/config"
	"fleetmon/internal/server"
	"fleetmon/pkg/logging"

	"github.com/spf13/cobra"
)

var toolsOutputFormat string

// toolsCmd prints the registered tool catalog without starting a
// transport. Useful for wiring MCP clients and for eyeballing schemas.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools fleetmon exposes",
	Long: `List every registered MCP tool with its description and input
schema, without starting a transport. The same catalog is served to
MCP clients via tools/list.`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Init(logging.LevelWarn, cfg.Logging.Format, os.Stderr)

	srv, err := server.New("fleetmon", rootCmd.Version, server.Assemble(cfg))
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	if toolsOutputFormat == "json" {
		data, err := json.MarshalIndent(srv.Tools(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	for _, tool := range srv.Tools() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n    %s\n", tool.Name, tool.Description)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(toolsCmd)

	toolsCmd.Flags().StringVarP(&toolsOutputFormat, "output", "o", "text", "Output format (text, json)")
}
