package mcp

import (
	"context"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wmctrl/internal/config"
	"github.com/1broseidon/wmctrl/internal/logging"
	"github.com/1broseidon/wmctrl/internal/process"
	"github.com/1broseidon/wmctrl/internal/window"
)

const (
	ServerName    = "wmctrl"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing window lookup and activation.
type Server struct {
	mcpServer *mcpsdk.Server
	lookup    process.Lookup
	resolver  *window.Resolver
	log       *logging.Logger

	// mu serializes tool calls; window backends are single-threaded.
	mu sync.Mutex
}

// NewServer creates a server that resolves windows through sys and takes
// process snapshots from lookup.
func NewServer(sys window.OS, lookup process.Lookup, cfg *config.Config, log *logging.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		lookup: lookup,
		resolver: window.NewResolver(sys,
			window.WithLogger(log),
			window.WithTitleCapacity(cfg.TitleCapacity)),
		log: log,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("MCP server starting", "name", ServerName, "version", ServerVersion)
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_processes",
		Description: "List running processes whose main window has a non-empty title, with pid, name and title.",
	}, s.handleListProcesses)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every top-level window of every process with the given exact name. Titles are read fresh on each call; untitled windows are included with untitled=true.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_to_window",
		Description: "Bring the main window of the first process with the given exact name to the foreground. When several processes share the name the first one reported by the OS is used.",
	}, s.handleSwitchToWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_to_handle",
		Description: "Bring the window with the given decimal handle to the foreground. The handle is not validated; a stale handle is silently ignored by the OS.",
	}, s.handleSwitchToHandle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resolve_handle",
		Description: "Return the handle of the first window of the named process whose title contains the given case-sensitive substring. Does not activate the window.",
	}, s.handleResolveHandle)
}
