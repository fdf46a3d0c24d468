package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ramener/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server so AI assistants can suggest names for
and rename PDFs.

Tools:
  suggest_filename  compute a name without touching any file
  rename_pdf        copy to the new name and trash the original
  rename_history    list recent renames

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  ramener mcp serve
  ramener mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "ramener": {
        "command": "/path/to/ramener",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
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

	pipeline, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer pipeline.close()

	server, err := mcp.NewServer(&mcp.Ports{
		Rename:  pipeline.Rename,
		History: pipeline.History,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
