//go:build linux

package platform

import (
	"fmt"
	"os"
	"sort"

	"github.com/1broseidon/gridshift/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// X11Backend drives EWMH-compliant window managers. Workspace ids map
// to EWMH desktop indices (id N is desktop N-1); the desktop count is
// grown on demand so lazily allocated workspaces always exist.
type X11Backend struct {
	conn *x11.Connection
}

var _ Backend = (*X11Backend)(nil)

// NewX11Backend opens a fresh X11 connection.
func NewX11Backend() (*X11Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11Backend{conn: conn}, nil
}

func (b *X11Backend) Name() string { return "x11" }

// Connection exposes the underlying X11 connection for components
// that draw on screen, like the grid overlay.
func (b *X11Backend) Connection() *x11.Connection { return b.conn }

// Monitors returns connected outputs ordered by CRTC id.
func (b *X11Backend) Monitors() ([]Monitor, error) {
	raw, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].ID < raw[j].ID })

	monitors := make([]Monitor, len(raw))
	for i, m := range raw {
		monitors[i] = Monitor{
			Index:  i,
			Name:   m.Name,
			Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		}
	}
	return monitors, nil
}

func (b *X11Backend) FocusedWindow() (Window, error) {
	wid, err := b.conn.GetActiveWindow()
	if err != nil {
		return Window{}, fmt.Errorf("failed to get active window: %w", err)
	}
	if wid == 0 {
		return Window{}, fmt.Errorf("no focused window")
	}

	win := Window{
		ID:    WindowID(wid),
		Title: b.conn.WindowTitle(wid),
	}

	raw, err := b.conn.GetMonitors()
	if err == nil {
		if mon := b.conn.MonitorForWindow(raw, wid); mon != nil {
			win.Monitor = mon.Name
		}
	}
	return win, nil
}

func (b *X11Backend) SwitchWorkspace(id int) error {
	if err := b.conn.EnsureDesktopCount(id); err != nil {
		return fmt.Errorf("failed to grow desktops to %d: %w", id, err)
	}
	if err := b.conn.SwitchDesktop(id - 1); err != nil {
		return fmt.Errorf("failed to switch desktop: %w", err)
	}
	return nil
}

func (b *X11Backend) MoveWindowToWorkspace(id int) error {
	wid, err := b.conn.GetActiveWindow()
	if err != nil || wid == 0 {
		return fmt.Errorf("no focused window to move")
	}
	if err := b.conn.EnsureDesktopCount(id); err != nil {
		return fmt.Errorf("failed to grow desktops to %d: %w", id, err)
	}
	if err := b.conn.SetWindowDesktop(uint32(wid), id-1); err != nil {
		return fmt.Errorf("failed to move window to desktop: %w", err)
	}
	return nil
}

// MoveWindowToMonitor repositions the focused window onto the named
// output. EWMH has no monitor primitive, so the window keeps its
// offset relative to its current monitor's origin.
func (b *X11Backend) MoveWindowToMonitor(name string) error {
	wid, err := b.conn.GetActiveWindow()
	if err != nil || wid == 0 {
		return fmt.Errorf("no focused window to move")
	}

	raw, err := b.conn.GetMonitors()
	if err != nil {
		return err
	}

	var target *x11.Monitor
	for i := range raw {
		if raw[i].Name == name {
			target = &raw[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("monitor %q not found", name)
	}

	x, y := target.X, target.Y
	if current := b.conn.MonitorForWindow(raw, wid); current != nil {
		if geom, gerr := windowPosition(b.conn, wid); gerr == nil {
			x = target.X + (geom.x - current.X)
			y = target.Y + (geom.y - current.Y)
			if x >= target.X+target.Width {
				x = target.X
			}
			if y >= target.Y+target.Height {
				y = target.Y
			}
		}
	}

	return b.conn.MoveWindow(wid, x, y)
}

func (b *X11Backend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}

type point struct{ x, y int }

func windowPosition(conn *x11.Connection, wid xproto.Window) (point, error) {
	translate, err := xproto.TranslateCoordinates(
		conn.XUtil.Conn(),
		wid,
		conn.Root,
		0, 0,
	).Reply()
	if err != nil {
		return point{}, err
	}
	return point{x: int(translate.DstX), y: int(translate.DstY)}, nil
}

// hyprlandAvailable reports whether a Hyprland session is reachable.
func hyprlandAvailable() bool {
	return os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != ""
}

// New selects and opens a backend. "auto" prefers Hyprland when its
// instance signature is in the environment, falling back to X11.
func New(kind string) (Backend, error) {
	switch kind {
	case "hyprland":
		return NewHyprlandBackend()
	case "x11":
		return NewX11Backend()
	case "", "auto":
		if hyprlandAvailable() {
			return NewHyprlandBackend()
		}
		return NewX11Backend()
	}
	return nil, fmt.Errorf("unknown backend %q", kind)
}
