package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"linefix/internal/artifact"
	"linefix/internal/logging"
	mcpserver "linefix/internal/mcp"
	"linefix/internal/store"
)

var serveFlags struct {
	workspaceDir string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing lookup_bug, check_fix,
and evaluate_outputs, so an agent can browse the mined corpus and test
candidate fixes directly.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.workspaceDir, "workspace", "", "Workspace directory (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	layout := artifact.Layout{Root: firstNonEmpty(serveFlags.workspaceDir, cfg.WorkspaceDir)}
	srv := mcpserver.NewServer(st, layout)

	logging.New("mcp").Info("starting linefix MCP server over stdio")
	return srv.Run(cmd.Context(), &sdkmcp.StdioTransport{})
}
