package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gridshift/internal/command"
)

func parseDirection(raw string) (command.Direction, error) {
	dir := command.Direction(raw)
	if !dir.Valid() {
		return "", fmt.Errorf("invalid direction %q; expected Left, Right, Up or Down", raw)
	}
	return dir, nil
}

// submit queues a command on the daemon and acknowledges it.
func (s *Server) submit(cmd command.Command) (QueuedOutput, error) {
	if err := s.client.Send(cmd); err != nil {
		return QueuedOutput{}, fmt.Errorf("failed to reach daemon: %w", err)
	}
	return QueuedOutput{Queued: true, Command: cmd.String()}, nil
}

func (s *Server) handleGridGo(_ context.Context, _ *mcpsdk.CallToolRequest, args GridGoInput) (*mcpsdk.CallToolResult, QueuedOutput, error) {
	dir, err := parseDirection(args.Direction)
	if err != nil {
		return nil, QueuedOutput{}, err
	}
	out, err := s.submit(command.Go(dir))
	return nil, out, err
}

func (s *Server) handleGridSwitchTo(_ context.Context, _ *mcpsdk.CallToolRequest, args GridSwitchToInput) (*mcpsdk.CallToolResult, QueuedOutput, error) {
	if args.X < 0 || args.Y < 0 {
		return nil, QueuedOutput{}, fmt.Errorf("coordinates must be non-negative, got (%d,%d)", args.X, args.Y)
	}
	out, err := s.submit(command.SwitchTo(args.X, args.Y))
	return nil, out, err
}

func (s *Server) handleGridMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args GridMoveWindowInput) (*mcpsdk.CallToolResult, QueuedOutput, error) {
	dir, err := parseDirection(args.Direction)
	if err != nil {
		return nil, QueuedOutput{}, err
	}
	out, err := s.submit(command.MoveWindowAndGo(dir))
	return nil, out, err
}

func (s *Server) handleMoveWindowToMonitor(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowToMonitorInput) (*mcpsdk.CallToolResult, QueuedOutput, error) {
	if (args.Direction == "") == (args.Index == nil) {
		return nil, QueuedOutput{}, fmt.Errorf("exactly one of direction or index must be set")
	}

	if args.Index != nil {
		if *args.Index < 0 {
			return nil, QueuedOutput{}, fmt.Errorf("monitor index must be non-negative, got %d", *args.Index)
		}
		out, err := s.submit(command.MoveWindowToMonitorIndex(*args.Index))
		return nil, out, err
	}

	dir, err := parseDirection(args.Direction)
	if err != nil {
		return nil, QueuedOutput{}, err
	}
	out, err := s.submit(command.MoveWindowToMonitor(dir))
	return nil, out, err
}

func (s *Server) handleGridStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GridStatusInput) (*mcpsdk.CallToolResult, GridStatusOutput, error) {
	status, err := s.client.Status()
	if err != nil {
		return nil, GridStatusOutput{}, fmt.Errorf("failed to query daemon: %w", err)
	}
	return nil, GridStatusOutput{
		InstanceID:    status.InstanceID,
		Version:       status.Version,
		Backend:       status.Backend,
		UptimeSeconds: status.UptimeSeconds,
		X:             status.Current.X,
		Y:             status.Current.Y,
		Workspace:     status.Workspace,
		Cols:          status.Cols,
		Rows:          status.Rows,
		VisitedCells:  len(status.Visited),
		GestureActive: status.GestureActive,
		Pinned:        status.Pinned,
	}, nil
}

func (s *Server) handleToggleOverlay(_ context.Context, _ *mcpsdk.CallToolRequest, _ ToggleOverlayInput) (*mcpsdk.CallToolResult, QueuedOutput, error) {
	out, err := s.submit(command.ToggleVisualizer())
	return nil, out, err
}
