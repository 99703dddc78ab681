package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ludo-technologies/bcflow/internal/version"
	"github.com/ludo-technologies/bcflow/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"
)

const serverName = "bcflow"

func main() {
	configPath := pflag.StringP("config", "c", "", "Configuration file path (default: discover .bcflow.toml from each target)")
	verbose := pflag.BoolP("verbose", "v", false, "Log analysis details to stderr")
	pflag.Parse()

	// stdout carries JSON-RPC
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server, mcp.NewHandlerSet(mcp.NewDependencies(*configPath, logger)))

	logger.Info("starting MCP server", "name", serverName, "version", version.Short())
	logger.Info("registered tools", "tools", []string{"analyze_ir", "query_ir", "check_ir"})

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
