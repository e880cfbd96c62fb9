package cmd

import (
	"github.com/huangsam/questlog/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Questlog MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents query the library through
standard tools:
- get_genre_summary
- get_sentiment_summary
- get_lifecycle_summary
- get_engagement_summary

Each tool returns the same JSON the CLI prints with --output json.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Run headers are suppressed per tool call since stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
