package platform

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// HyprlandBackend drives the Hyprland compositor over its IPC socket.
// Every request uses a short-lived connection: write one command, read
// the reply to EOF. Workspace ids map directly to Hyprland workspace
// ids.
type HyprlandBackend struct {
	socketPath string
}

var _ Backend = (*HyprlandBackend)(nil)

// NewHyprlandBackend resolves the compositor's IPC socket from the
// environment. It fails when no Hyprland instance is running.
func NewHyprlandBackend() (*HyprlandBackend, error) {
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if sig == "" {
		return nil, fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE is not set")
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return nil, fmt.Errorf("XDG_RUNTIME_DIR is not set")
	}
	path := filepath.Join(runtimeDir, "hypr", sig, ".socket.sock")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("hyprland socket not found: %w", err)
	}
	return &HyprlandBackend{socketPath: path}, nil
}

func (b *HyprlandBackend) Name() string { return "hyprland" }

func (b *HyprlandBackend) Close() error { return nil }

// request sends a single command and returns the full reply.
func (b *HyprlandBackend) request(cmd string) ([]byte, error) {
	conn, err := net.Dial("unix", b.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to hyprland socket: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(cmd)); err != nil {
		return nil, fmt.Errorf("failed to write hyprland command: %w", err)
	}
	reply, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read hyprland reply: %w", err)
	}
	return reply, nil
}

// jsonQuery runs a query command with JSON output and decodes the
// reply into out.
func (b *HyprlandBackend) jsonQuery(cmd string, out any) error {
	reply, err := b.request("j/" + cmd)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(reply, out); err != nil {
		return fmt.Errorf("failed to parse %s reply: %w", cmd, err)
	}
	return nil
}

// dispatch issues a dispatcher command. Hyprland answers "ok" on
// success and an error message otherwise.
func (b *HyprlandBackend) dispatch(args string) error {
	reply, err := b.request("/dispatch " + args)
	if err != nil {
		return err
	}
	if msg := strings.TrimSpace(string(reply)); msg != "ok" {
		return fmt.Errorf("dispatch %q failed: %s", args, msg)
	}
	return nil
}

type hyprMonitor struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type hyprActiveWindow struct {
	Address string `json:"address"`
	Title   string `json:"title"`
	Monitor int    `json:"monitor"`
}

func (b *HyprlandBackend) rawMonitors() ([]hyprMonitor, error) {
	var monitors []hyprMonitor
	if err := b.jsonQuery("monitors", &monitors); err != nil {
		return nil, err
	}
	return monitors, nil
}

// Monitors returns connected outputs ordered by Hyprland monitor id.
func (b *HyprlandBackend) Monitors() ([]Monitor, error) {
	raw, err := b.rawMonitors()
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

func (b *HyprlandBackend) FocusedWindow() (Window, error) {
	reply, err := b.request("j/activewindow")
	if err != nil {
		return Window{}, err
	}
	// Hyprland returns an empty object when nothing is focused.
	if strings.TrimSpace(string(reply)) == "{}" {
		return Window{}, fmt.Errorf("no focused window")
	}

	var w hyprActiveWindow
	if err := json.Unmarshal(reply, &w); err != nil {
		return Window{}, fmt.Errorf("failed to parse activewindow reply: %w", err)
	}

	win := Window{
		ID:    parseWindowAddress(w.Address),
		Title: w.Title,
	}

	raw, err := b.rawMonitors()
	if err != nil {
		return Window{}, err
	}
	for _, m := range raw {
		if m.ID == w.Monitor {
			win.Monitor = m.Name
			break
		}
	}
	if win.Monitor == "" {
		return Window{}, fmt.Errorf("unknown monitor id %d", w.Monitor)
	}
	return win, nil
}

// parseWindowAddress decodes Hyprland's hex window address, e.g.
// "0x55f1a2b3c4d0". Unparseable addresses yield 0.
func parseWindowAddress(addr string) WindowID {
	addr = strings.TrimPrefix(addr, "0x")
	v, err := strconv.ParseUint(addr, 16, 64)
	if err != nil {
		return 0
	}
	return WindowID(v)
}

func (b *HyprlandBackend) SwitchWorkspace(id int) error {
	return b.dispatch(fmt.Sprintf("workspace %d", id))
}

// MoveWindowToWorkspace moves the focused window without following it.
func (b *HyprlandBackend) MoveWindowToWorkspace(id int) error {
	return b.dispatch(fmt.Sprintf("movetoworkspacesilent %d", id))
}

func (b *HyprlandBackend) MoveWindowToMonitor(name string) error {
	if err := b.dispatch("movewindow mon:" + name); err != nil {
		return err
	}
	return b.dispatch("focusmonitor " + name)
}
