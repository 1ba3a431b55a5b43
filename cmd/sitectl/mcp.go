package main

import (
	"fmt"
	"marketing-site/internal/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the blog as MCP tools",
	Long: `Start a Model Context Protocol server exposing list_posts, get_post and
list_categories to AI assistants.

By default the server speaks JSON-RPC over stdio. Use --http to serve the
streamable HTTP transport instead.

Examples:
  sitectl mcp
  sitectl mcp --http :8090`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().String("http", "", "listen address for the HTTP transport (empty = stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("http")

	c, log, err := content()
	if err != nil {
		return err
	}
	defer c.Close()

	s := mcp.NewServer(c.Posts, c.Articles, c.Resolver, log)

	if addr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on %s/mcp\n", addr)
		return server.NewStreamableHTTPServer(s).Start(addr)
	}
	return server.ServeStdio(s)
}
