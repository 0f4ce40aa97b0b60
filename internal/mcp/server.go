// Package mcp exposes grid navigation to MCP clients. Every tool
// delegates to the running daemon over the IPC socket; the MCP server
// itself holds no grid state.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gridshift/internal/ipc"
)

const (
	ServerName    = "gridshift"
	ServerVersion = "0.1.0"
)

// Server is the MCP server bridging tools to the daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates an MCP server talking to the default daemon
// socket. The daemon must be running.
func NewServer() (*Server, error) {
	return NewServerForClient(ipc.NewClient())
}

// NewServerForClient creates an MCP server over an explicit client.
func NewServerForClient(client *ipc.Client) (*Server, error) {
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("gridshift daemon is not running: %w", err)
	}

	s := &Server{client: client}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "grid_go",
		Description: "Move one cell on the workspace grid in the given direction (Left, Right, Up, Down). Workspaces are created lazily; moving past the edge allocates a new one. Moves past the top or left edge clamp at zero.",
	}, s.handleGridGo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "grid_switch_to",
		Description: "Jump directly to the workspace at grid coordinate (x, y). Coordinates are zero-based and non-negative; unvisited cells are allocated on arrival.",
	}, s.handleGridSwitchTo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "grid_move_window",
		Description: "Move the focused window one cell in the given direction and follow it: the window lands on the neighboring workspace and that workspace becomes active.",
	}, s.handleGridMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window_to_monitor",
		Description: "Move the focused window to another monitor, selected either spatially by direction (Left, Right, Up, Down) or by zero-based index. Exactly one selector must be given.",
	}, s.handleMoveWindowToMonitor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "grid_status",
		Description: "Report daemon status: backend, uptime, current grid position and workspace, grid bounds, visited cell count and overlay state.",
	}, s.handleGridStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_overlay",
		Description: "Pin or unpin the grid overlay. Pinned overlays stay visible instead of fading out after navigation.",
	}, s.handleToggleOverlay)
}
