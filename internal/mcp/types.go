package mcp

// GridGoInput is the input for the grid_go tool.
type GridGoInput struct {
	Direction string `json:"direction" jsonschema:"required,Direction to move on the grid: Left, Right, Up or Down"`
}

// GridSwitchToInput is the input for the grid_switch_to tool.
type GridSwitchToInput struct {
	X int `json:"x" jsonschema:"Grid column (non-negative)"`
	Y int `json:"y" jsonschema:"Grid row (non-negative)"`
}

// GridMoveWindowInput is the input for the grid_move_window tool.
type GridMoveWindowInput struct {
	Direction string `json:"direction" jsonschema:"required,Direction to carry the focused window: Left, Right, Up or Down"`
}

// MoveWindowToMonitorInput is the input for the move_window_to_monitor
// tool. Exactly one of direction or index must be set.
type MoveWindowToMonitorInput struct {
	Direction string `json:"direction,omitempty" jsonschema:"Spatial direction to the target monitor: Left, Right, Up or Down"`
	Index     *int   `json:"index,omitempty" jsonschema:"Zero-based monitor index, as an alternative to direction"`
}

// GridStatusInput is the input for the grid_status tool.
type GridStatusInput struct{}

// ToggleOverlayInput is the input for the toggle_overlay tool.
type ToggleOverlayInput struct{}

// QueuedOutput acknowledges a command handed to the daemon queue.
type QueuedOutput struct {
	Queued  bool   `json:"queued"`
	Command string `json:"command"`
}

// GridStatusOutput mirrors the daemon's status snapshot.
type GridStatusOutput struct {
	InstanceID    string `json:"instance_id"`
	Version       string `json:"version"`
	Backend       string `json:"backend"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Workspace     int    `json:"workspace"`
	Cols          int    `json:"cols"`
	Rows          int    `json:"rows"`
	VisitedCells  int    `json:"visited_cells"`
	GestureActive bool   `json:"gesture_active"`
	Pinned        bool   `json:"pinned"`
}
