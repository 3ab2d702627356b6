package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"caseeval/internal/config"
	"caseeval/internal/logging"
	mcpserver "caseeval/internal/mcp"
)

var serveFlags struct {
	parallel int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing score_case, score_file
and list_rubrics.

The server monitors its parent process. When the client that spawned it
exits, the server shuts down instead of lingering.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&serveFlags.parallel, "parallel", "p", 1, "Workers per score_file call")
}

func runServe(cmd *cobra.Command, _ []string) error {
	rules, source, err := config.Resolve(rootFlags.rules)
	if err != nil {
		return fmt.Errorf("load rules %s: %w", source, err)
	}
	srv, err := mcpserver.NewServer(rules, source, version)
	if err != nil {
		return err
	}
	srv.Parallel = serveFlags.parallel

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	mcpserver.WatchParent(ctx, cancel, mcpserver.DefaultWatchInterval)

	logging.New("mcp").Info("starting caseeval MCP server over stdio (parent watchdog active)", "rules", source)
	return srv.Run(ctx)
}
