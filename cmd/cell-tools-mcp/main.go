package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/cell-tools-mcp/internal/detection"
	"github.com/ironsheep/cell-tools-mcp/internal/server"
	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const logLevelEnv = "CELL_TOOLS_LOG_LEVEL"

var rootCmd = &cobra.Command{
	Use:   "cell-tools-mcp",
	Short: "Count cells in micrographs",
	Long: `cell-tools-mcp detects and counts bright cells in microscope images.

Without a subcommand it runs as an MCP server over stdin/stdout. Configure it
in your MCP client (e.g., Claude Desktop).

Environment variables:
  ` + logLevelEnv + `=debug    Enable debug logging`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// debugEnabled reports whether debug logging was requested.
func debugEnabled() bool {
	return os.Getenv(logLevelEnv) == "debug"
}

// setupLogging sends log output to stderr, since stdout carries the MCP
// protocol, and returns the logger for per-pass pipeline output. The
// returned logger discards everything unless debug logging is enabled.
func setupLogging() *log.Logger {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if !debugEnabled() {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "pipeline: ", log.Ldate|log.Ltime)
}

func runServe(cmd *cobra.Command, args []string) error {
	debug := setupLogging()
	if debugEnabled() {
		log.Printf("Cell Tools MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	server.Version = Version
	srv := server.New(
		server.WithConfig(detection.DefaultConfig()),
		server.WithDebugLogger(debug),
	)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
