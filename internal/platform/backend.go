package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint64

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() int { return r.X + r.Width/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() int { return r.Y + r.Height/2 }

// Monitor describes a physical output as reported by the window
// manager. Index is the position in the enumeration order and is
// stable only for the duration of a single resolution call; monitors
// can be connected or disconnected between commands.
type Monitor struct {
	Index  int
	Name   string
	Bounds Rect
}

// Window contains metadata for a top-level window.
type Window struct {
	ID      WindowID
	Title   string
	Monitor string
}

// Backend abstracts window-manager operations across compositors.
// Implementations exist for Hyprland and for EWMH-compliant X11
// window managers.
type Backend interface {
	// Name identifies the backend in logs and status output.
	Name() string

	// Monitors enumerates connected outputs in a stable order.
	Monitors() ([]Monitor, error)

	// FocusedWindow returns the currently focused window. The error
	// is non-nil when no window has focus.
	FocusedWindow() (Window, error)

	// SwitchWorkspace makes the workspace with the given numeric
	// identifier active, creating it if the window manager allocates
	// workspaces on demand.
	SwitchWorkspace(id int) error

	// MoveWindowToWorkspace sends the focused window to the given
	// workspace without changing the active workspace.
	MoveWindowToWorkspace(id int) error

	// MoveWindowToMonitor sends the focused window to the named
	// monitor and focuses that monitor.
	MoveWindowToMonitor(name string) error

	// Close releases any window-manager connection held by the
	// backend.
	Close() error
}
