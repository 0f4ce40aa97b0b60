package platform

import (
	"io"
	"net"
	"path/filepath"
	"testing"
)

// fakeHyprSocket answers every connection from the replies map keyed
// by the received command, closing after one exchange like Hyprland.
func fakeHyprSocket(t *testing.T, replies map[string]string) *HyprlandBackend {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".socket.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 4096)
				n, err := c.Read(buf)
				if err != nil && err != io.EOF {
					return
				}
				cmd := string(buf[:n])
				reply, ok := replies[cmd]
				if !ok {
					reply = "unknown command"
				}
				c.Write([]byte(reply))
			}(conn)
		}
	}()

	return &HyprlandBackend{socketPath: path}
}

const monitorsJSON = `[
  {"id": 1, "name": "HDMI-A-1", "width": 1920, "height": 1080, "x": 2560, "y": 0},
  {"id": 0, "name": "DP-1", "width": 2560, "height": 1440, "x": 0, "y": 0}
]`

func TestHyprlandMonitors(t *testing.T) {
	b := fakeHyprSocket(t, map[string]string{"j/monitors": monitorsJSON})

	monitors, err := b.Monitors()
	if err != nil {
		t.Fatalf("Monitors: %v", err)
	}
	if len(monitors) != 2 {
		t.Fatalf("expected 2 monitors, got %d", len(monitors))
	}
	if monitors[0].Name != "DP-1" || monitors[0].Index != 0 {
		t.Errorf("expected DP-1 first, got %+v", monitors[0])
	}
	if monitors[1].Name != "HDMI-A-1" || monitors[1].Bounds.X != 2560 {
		t.Errorf("unexpected second monitor %+v", monitors[1])
	}
}

func TestHyprlandFocusedWindow(t *testing.T) {
	b := fakeHyprSocket(t, map[string]string{
		"j/monitors":     monitorsJSON,
		"j/activewindow": `{"address": "0x55f1a2b3c4d0", "title": "editor", "monitor": 1}`,
	})

	win, err := b.FocusedWindow()
	if err != nil {
		t.Fatalf("FocusedWindow: %v", err)
	}
	if win.Title != "editor" {
		t.Errorf("expected title editor, got %q", win.Title)
	}
	if win.Monitor != "HDMI-A-1" {
		t.Errorf("expected monitor HDMI-A-1, got %q", win.Monitor)
	}
	if win.ID != WindowID(0x55f1a2b3c4d0) {
		t.Errorf("unexpected window id %#x", uint64(win.ID))
	}
}

func TestHyprlandFocusedWindowNone(t *testing.T) {
	b := fakeHyprSocket(t, map[string]string{"j/activewindow": "{}"})

	if _, err := b.FocusedWindow(); err == nil {
		t.Fatal("expected error when no window is focused")
	}
}

func TestHyprlandDispatch(t *testing.T) {
	b := fakeHyprSocket(t, map[string]string{
		"/dispatch workspace 3":              "ok",
		"/dispatch movetoworkspacesilent 5":  "ok",
		"/dispatch movewindow mon:HDMI-A-1":  "ok",
		"/dispatch focusmonitor HDMI-A-1":    "ok",
		"/dispatch workspace bogus":          "Invalid dispatcher",
	})

	if err := b.SwitchWorkspace(3); err != nil {
		t.Errorf("SwitchWorkspace: %v", err)
	}
	if err := b.MoveWindowToWorkspace(5); err != nil {
		t.Errorf("MoveWindowToWorkspace: %v", err)
	}
	if err := b.MoveWindowToMonitor("HDMI-A-1"); err != nil {
		t.Errorf("MoveWindowToMonitor: %v", err)
	}
	if err := b.dispatch("workspace bogus"); err == nil {
		t.Error("expected error for rejected dispatch")
	}
}

func TestParseWindowAddress(t *testing.T) {
	if got := parseWindowAddress("0x1f"); got != 31 {
		t.Errorf("expected 31, got %d", got)
	}
	if got := parseWindowAddress("nonsense"); got != 0 {
		t.Errorf("expected 0 for bad address, got %d", got)
	}
}
