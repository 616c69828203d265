package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/brdify/internal/adapters/driving/mcp"
	"github.com/custodia-labs/brdify/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can create
BRDs and read documents and their traceability matrix.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead, for the MCP Inspector or remote access.

Examples:
  # Stdio mode (default, for desktop assistants)
  brdify mcp serve

  # HTTP mode
  brdify mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "brdify": {
        "command": "/path/to/brdify",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{Brd: brdService}, version)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	// Stdio belongs to the client.
	logger.SetQuiet(true)
	return server.Run(commandContext(cmd))
}
