package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/wmctrl/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wmctrl mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wmctrl mcp <command> --help' for command-specific options.")
}

func (a *app) runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(a.stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return a.runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(a.stdout)
		return 0
	default:
		fmt.Fprintf(a.stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(a.stderr)
		return 2
	}
}

func (a *app) runMCPServe(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(a.stdout, "Usage: wmctrl mcp serve")
		fmt.Fprintln(a.stdout, "")
		fmt.Fprintln(a.stdout, "Start the MCP server on stdio. Designed to be invoked by MCP clients.")
		fmt.Fprintln(a.stdout, "")
		fmt.Fprintln(a.stdout, "Example (Claude Code):")
		fmt.Fprintln(a.stdout, "  claude mcp add wmctrl -- wmctrl mcp serve")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(a.stderr, "mcp serve takes no arguments")
		return 2
	}

	s, status := a.openSession()
	if s == nil {
		return status
	}
	defer s.Close()

	server := mcp.NewServer(s.backend, s.lookup, s.cfg, s.log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		s.log.Error("MCP server error", err)
		fmt.Fprintf(a.stderr, "MCP server error: %v\n", err)
		return 1
	}
	return 0
}
